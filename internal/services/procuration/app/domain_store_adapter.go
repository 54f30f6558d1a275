package server

import (
	"context"
	"errors"
	"time"

	"github.com/collectif-citoyen/plateforme/internal/services/procuration/domain"
	"github.com/collectif-citoyen/plateforme/internal/services/procuration/storage"
)

// domainStoreAdapter bridges the matching engine's Store contract to the
// procuration storage records.
type domainStoreAdapter struct {
	store storage.Store
}

func newDomainStoreAdapter(store storage.Store) *domainStoreAdapter {
	return &domainStoreAdapter{store: store}
}

func (a *domainStoreAdapter) PutParticipant(ctx context.Context, participant domain.Participant) error {
	if a == nil || a.store == nil {
		return domain.ErrStoreNotConfigured
	}
	return mapStorageError(a.store.PutParticipant(ctx, toStorageParticipant(participant)))
}

func (a *domainStoreAdapter) GetParticipant(ctx context.Context, participantID string) (domain.Participant, error) {
	if a == nil || a.store == nil {
		return domain.Participant{}, domain.ErrStoreNotConfigured
	}
	record, err := a.store.GetParticipant(ctx, participantID)
	if err != nil {
		return domain.Participant{}, mapStorageError(err)
	}
	return toDomainParticipant(record), nil
}

func (a *domainStoreAdapter) UpdateParticipant(ctx context.Context, participant domain.Participant) error {
	if a == nil || a.store == nil {
		return domain.ErrStoreNotConfigured
	}
	return mapStorageError(a.store.UpdateParticipant(ctx, toStorageParticipant(participant)))
}

func (a *domainStoreAdapter) SetParticipantStatus(ctx context.Context, participantID string, status domain.ParticipantStatus) error {
	if a == nil || a.store == nil {
		return domain.ErrStoreNotConfigured
	}
	return mapStorageError(a.store.SetParticipantStatus(ctx, participantID, string(status)))
}

func (a *domainStoreAdapter) SetParticipantDisabled(ctx context.Context, participantID string, disabled bool) error {
	if a == nil || a.store == nil {
		return domain.ErrStoreNotConfigured
	}
	return mapStorageError(a.store.SetParticipantDisabled(ctx, participantID, disabled))
}

func (a *domainStoreAdapter) ListParticipants(ctx context.Context, participantType domain.ParticipantType) ([]domain.Participant, error) {
	if a == nil || a.store == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	records, err := a.store.ListParticipants(ctx, string(participantType))
	if err != nil {
		return nil, mapStorageError(err)
	}
	participants := make([]domain.Participant, 0, len(records))
	for _, record := range records {
		participants = append(participants, toDomainParticipant(record))
	}
	return participants, nil
}

func (a *domainStoreAdapter) PutMatch(ctx context.Context, match domain.Match) error {
	if a == nil || a.store == nil {
		return domain.ErrStoreNotConfigured
	}
	return mapStorageError(a.store.PutMatch(ctx, toStorageMatch(match)))
}

func (a *domainStoreAdapter) GetMatch(ctx context.Context, matchID string) (domain.Match, error) {
	if a == nil || a.store == nil {
		return domain.Match{}, domain.ErrStoreNotConfigured
	}
	record, err := a.store.GetMatch(ctx, matchID)
	if err != nil {
		return domain.Match{}, mapStorageError(err)
	}
	return toDomainMatch(record), nil
}

func (a *domainStoreAdapter) GetMatchByParticipant(ctx context.Context, participantID string) (domain.Match, error) {
	if a == nil || a.store == nil {
		return domain.Match{}, domain.ErrStoreNotConfigured
	}
	record, err := a.store.GetMatchByParticipant(ctx, participantID)
	if err != nil {
		return domain.Match{}, mapStorageError(err)
	}
	return toDomainMatch(record), nil
}

func (a *domainStoreAdapter) ConfirmMatch(ctx context.Context, matchID string, confirmedAt time.Time, confirmedBy string) error {
	if a == nil || a.store == nil {
		return domain.ErrStoreNotConfigured
	}
	return mapStorageError(a.store.ConfirmMatch(ctx, matchID, confirmedAt, confirmedBy))
}

func (a *domainStoreAdapter) DeleteMatch(ctx context.Context, matchID string) error {
	if a == nil || a.store == nil {
		return domain.ErrStoreNotConfigured
	}
	return mapStorageError(a.store.DeleteMatch(ctx, matchID))
}

func (a *domainStoreAdapter) ListMatches(ctx context.Context) ([]domain.Match, error) {
	if a == nil || a.store == nil {
		return nil, domain.ErrStoreNotConfigured
	}
	records, err := a.store.ListMatches(ctx)
	if err != nil {
		return nil, mapStorageError(err)
	}
	matches := make([]domain.Match, 0, len(records))
	for _, record := range records {
		matches = append(matches, toDomainMatch(record))
	}
	return matches, nil
}

func toStorageParticipant(participant domain.Participant) storage.ParticipantRecord {
	return storage.ParticipantRecord{
		ID:               participant.ID,
		Type:             string(participant.Type),
		FirstName:        participant.FirstName,
		LastName:         participant.LastName,
		ElectorID:        participant.ElectorID,
		Phone:            participant.Phone,
		Email:            participant.Email,
		VotingBureau:     participant.VotingBureau,
		SupportCommittee: participant.SupportCommittee,
		Newsletter:       participant.Newsletter,
		Status:           string(participant.Status),
		Disabled:         participant.Disabled,
		CreatedAt:        participant.CreatedAt,
		UpdatedAt:        participant.UpdatedAt,
	}
}

func toDomainParticipant(record storage.ParticipantRecord) domain.Participant {
	return domain.Participant{
		ID:               record.ID,
		Type:             domain.ParticipantType(record.Type),
		FirstName:        record.FirstName,
		LastName:         record.LastName,
		ElectorID:        record.ElectorID,
		Phone:            record.Phone,
		Email:            record.Email,
		VotingBureau:     record.VotingBureau,
		SupportCommittee: record.SupportCommittee,
		Newsletter:       record.Newsletter,
		Status:           domain.ParticipantStatus(record.Status),
		Disabled:         record.Disabled,
		CreatedAt:        record.CreatedAt,
		UpdatedAt:        record.UpdatedAt,
	}
}

func toStorageMatch(match domain.Match) storage.MatchRecord {
	return storage.MatchRecord{
		ID:          match.ID,
		RequesterID: match.RequesterID,
		VolunteerID: match.VolunteerID,
		Status:      string(match.Status),
		ConfirmedAt: match.ConfirmedAt,
		ConfirmedBy: match.ConfirmedBy,
		CreatedAt:   match.CreatedAt,
	}
}

func toDomainMatch(record storage.MatchRecord) domain.Match {
	return domain.Match{
		ID:          record.ID,
		RequesterID: record.RequesterID,
		VolunteerID: record.VolunteerID,
		Status:      domain.MatchStatus(record.Status),
		ConfirmedAt: record.ConfirmedAt,
		ConfirmedBy: record.ConfirmedBy,
		CreatedAt:   record.CreatedAt,
	}
}

func mapStorageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return domain.ErrNotFound
	case errors.Is(err, storage.ErrConflict):
		return domain.ErrConflict
	default:
		return err
	}
}
