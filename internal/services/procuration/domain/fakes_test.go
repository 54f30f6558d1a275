package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// fakeStore is an in-memory Store with the same conflict semantics as the
// SQLite implementation: unique elector ids per type and at most one
// active match per participant.
type fakeStore struct {
	mu           sync.Mutex
	participants map[string]Participant
	matches      map[string]Match

	failures map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		participants: map[string]Participant{},
		matches:      map[string]Match{},
		failures:     map[string]error{},
	}
}

func (f *fakeStore) failOn(operation string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[operation] = err
}

func (f *fakeStore) failure(operation string) error {
	if err, ok := f.failures[operation]; ok {
		return err
	}
	return nil
}

func (f *fakeStore) PutParticipant(_ context.Context, participant Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("PutParticipant"); err != nil {
		return err
	}
	for _, existing := range f.participants {
		if existing.Type == participant.Type && existing.ElectorID == participant.ElectorID {
			return ErrConflict
		}
	}
	f.participants[participant.ID] = participant
	return nil
}

func (f *fakeStore) GetParticipant(_ context.Context, participantID string) (Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("GetParticipant"); err != nil {
		return Participant{}, err
	}
	participant, ok := f.participants[participantID]
	if !ok {
		return Participant{}, ErrNotFound
	}
	return participant, nil
}

func (f *fakeStore) UpdateParticipant(_ context.Context, participant Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("UpdateParticipant"); err != nil {
		return err
	}
	if _, ok := f.participants[participant.ID]; !ok {
		return ErrNotFound
	}
	for id, existing := range f.participants {
		if id != participant.ID && existing.Type == participant.Type && existing.ElectorID == participant.ElectorID {
			return ErrConflict
		}
	}
	f.participants[participant.ID] = participant
	return nil
}

func (f *fakeStore) SetParticipantStatus(_ context.Context, participantID string, status ParticipantStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("SetParticipantStatus"); err != nil {
		return err
	}
	participant, ok := f.participants[participantID]
	if !ok {
		return ErrNotFound
	}
	participant.Status = status
	f.participants[participantID] = participant
	return nil
}

func (f *fakeStore) SetParticipantDisabled(_ context.Context, participantID string, disabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("SetParticipantDisabled"); err != nil {
		return err
	}
	participant, ok := f.participants[participantID]
	if !ok {
		return ErrNotFound
	}
	participant.Disabled = disabled
	f.participants[participantID] = participant
	return nil
}

func (f *fakeStore) ListParticipants(_ context.Context, participantType ParticipantType) ([]Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("ListParticipants"); err != nil {
		return nil, err
	}
	out := make([]Participant, 0, len(f.participants))
	for _, participant := range f.participants {
		if participant.Type == participantType {
			out = append(out, participant)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStore) PutMatch(_ context.Context, match Match) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("PutMatch"); err != nil {
		return err
	}
	for _, existing := range f.matches {
		if existing.RequesterID == match.RequesterID || existing.VolunteerID == match.VolunteerID {
			return ErrConflict
		}
	}
	f.matches[match.ID] = match
	return nil
}

func (f *fakeStore) GetMatch(_ context.Context, matchID string) (Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("GetMatch"); err != nil {
		return Match{}, err
	}
	match, ok := f.matches[matchID]
	if !ok {
		return Match{}, ErrNotFound
	}
	return match, nil
}

func (f *fakeStore) GetMatchByParticipant(_ context.Context, participantID string) (Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("GetMatchByParticipant"); err != nil {
		return Match{}, err
	}
	for _, match := range f.matches {
		if match.RequesterID == participantID || match.VolunteerID == participantID {
			return match, nil
		}
	}
	return Match{}, ErrNotFound
}

func (f *fakeStore) ConfirmMatch(_ context.Context, matchID string, confirmedAt time.Time, confirmedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("ConfirmMatch"); err != nil {
		return err
	}
	match, ok := f.matches[matchID]
	if !ok {
		return ErrNotFound
	}
	match.Status = MatchConfirmed
	match.ConfirmedAt = &confirmedAt
	match.ConfirmedBy = confirmedBy
	f.matches[matchID] = match
	return nil
}

func (f *fakeStore) DeleteMatch(_ context.Context, matchID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("DeleteMatch"); err != nil {
		return err
	}
	if _, ok := f.matches[matchID]; !ok {
		return ErrNotFound
	}
	delete(f.matches, matchID)
	return nil
}

func (f *fakeStore) ListMatches(_ context.Context) ([]Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failure("ListMatches"); err != nil {
		return nil, err
	}
	out := make([]Match, 0, len(f.matches))
	for _, match := range f.matches {
		out = append(out, match)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

var _ Store = (*fakeStore)(nil)

// fakeDispatcher records contact exchanges and can be told to fail.
type fakeDispatcher struct {
	mu        sync.Mutex
	sent      []ContactExchange
	returnErr error
}

func (f *fakeDispatcher) SendContactExchange(_ context.Context, exchange ContactExchange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.returnErr != nil {
		return f.returnErr
	}
	f.sent = append(f.sent, exchange)
	return nil
}

func (f *fakeDispatcher) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

var errDispatchDown = errors.New("notifier unreachable")

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func sequentialIDGenerator(ids ...string) func() (string, error) {
	index := 0
	return func() (string, error) {
		if index >= len(ids) {
			return "", fmt.Errorf("id sequence exhausted after %d ids", len(ids))
		}
		next := ids[index]
		index++
		return next, nil
	}
}
