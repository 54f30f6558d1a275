// Package domain implements the procuration matching engine: pairing
// requesters with volunteers under a one-active-match-per-person rule.
package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "github.com/collectif-citoyen/plateforme/internal/platform/errors"
	"github.com/collectif-citoyen/plateforme/internal/platform/id"
)

var (
	// ErrNotFound indicates a requested record is missing from the store.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a write collided with a uniqueness constraint.
	ErrConflict = errors.New("record conflict")
	// ErrStoreNotConfigured indicates the service is missing persistence wiring.
	ErrStoreNotConfigured = errors.New("procuration store is not configured")
	// ErrDispatcherNotConfigured indicates the service is missing dispatch wiring.
	ErrDispatcherNotConfigured = errors.New("procuration dispatcher is not configured")
)

// Store is the persistence boundary for the matching engine. Every
// operation reads current state, validates, then writes; the engine holds
// no state of its own between calls.
type Store interface {
	PutParticipant(ctx context.Context, participant Participant) error
	GetParticipant(ctx context.Context, participantID string) (Participant, error)
	UpdateParticipant(ctx context.Context, participant Participant) error
	SetParticipantStatus(ctx context.Context, participantID string, status ParticipantStatus) error
	SetParticipantDisabled(ctx context.Context, participantID string, disabled bool) error
	ListParticipants(ctx context.Context, participantType ParticipantType) ([]Participant, error)

	PutMatch(ctx context.Context, match Match) error
	GetMatch(ctx context.Context, matchID string) (Match, error)
	GetMatchByParticipant(ctx context.Context, participantID string) (Match, error)
	ConfirmMatch(ctx context.Context, matchID string, confirmedAt time.Time, confirmedBy string) error
	DeleteMatch(ctx context.Context, matchID string) error
	ListMatches(ctx context.Context) ([]Match, error)
}

// ContactCard carries one participant's contact details for dispatch.
type ContactCard struct {
	DisplayName string
	ElectorID   string
	Phone       string
	Email       string
}

// ContactExchange is the payload handed to the notification dispatcher
// when a match is confirmed. The match ID lets the dispatcher deduplicate
// re-sends after a partial failure.
type ContactExchange struct {
	MatchID   string
	Requester ContactCard
	Volunteer ContactCard
}

// Dispatcher sends contact-information notifications to both parties of a
// match. A returned error must mean nothing was persisted engine-side.
type Dispatcher interface {
	SendContactExchange(ctx context.Context, exchange ContactExchange) error
}

// Service orchestrates participant and match lifecycle behavior.
type Service struct {
	store      Store
	dispatcher Dispatcher
	clock      func() time.Time
	newID      func() (string, error)
}

// NewService constructs the matching engine use-cases.
func NewService(store Store, dispatcher Dispatcher, clock func() time.Time, newID func() (string, error)) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = id.NewID
	}
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		clock:      clock,
		newID:      newID,
	}
}

// CreateParticipant registers one requester or volunteer. New participants
// start pending and enabled.
func (s *Service) CreateParticipant(ctx context.Context, input CreateParticipantInput) (Participant, error) {
	if s == nil || s.store == nil {
		return Participant{}, ErrStoreNotConfigured
	}
	if !input.Type.Valid() {
		return Participant{}, apperrors.New(apperrors.CodeParticipantInvalidType, "participant type must be requester or volunteer")
	}
	if err := validateParticipantFields(input.FirstName, input.LastName, input.ElectorID, input.Phone, input.Email); err != nil {
		return Participant{}, err
	}

	participantID, err := s.newID()
	if err != nil {
		return Participant{}, err
	}
	now := s.nowUTC()
	participant := Participant{
		ID:               participantID,
		Type:             input.Type,
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		ElectorID:        strings.TrimSpace(input.ElectorID),
		Phone:            strings.TrimSpace(input.Phone),
		Email:            strings.TrimSpace(input.Email),
		VotingBureau:     strings.TrimSpace(input.VotingBureau),
		SupportCommittee: input.SupportCommittee,
		Newsletter:       input.Newsletter,
		Status:           StatusPending,
		Disabled:         false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.PutParticipant(ctx, participant); err != nil {
		if errors.Is(err, ErrConflict) {
			return Participant{}, apperrors.WithMetadata(apperrors.CodeParticipantElectorIDExists,
				"elector id already registered for this participant type",
				map[string]string{"Type": string(input.Type)})
		}
		return Participant{}, storeError("put participant", err)
	}
	return participant, nil
}

// UpdateParticipant edits identity, contact, and consent fields. It never
// touches the participant's type, status, disabled flag, or match state.
func (s *Service) UpdateParticipant(ctx context.Context, participantID string, input UpdateParticipantInput) (Participant, error) {
	if s == nil || s.store == nil {
		return Participant{}, ErrStoreNotConfigured
	}
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return Participant{}, apperrors.New(apperrors.CodeParticipantEmptyID, "participant id is required")
	}
	if err := validateParticipantFields(input.FirstName, input.LastName, input.ElectorID, input.Phone, input.Email); err != nil {
		return Participant{}, err
	}

	participant, err := s.getParticipant(ctx, participantID)
	if err != nil {
		return Participant{}, err
	}
	participant.FirstName = strings.TrimSpace(input.FirstName)
	participant.LastName = strings.TrimSpace(input.LastName)
	participant.ElectorID = strings.TrimSpace(input.ElectorID)
	participant.Phone = strings.TrimSpace(input.Phone)
	participant.Email = strings.TrimSpace(input.Email)
	participant.VotingBureau = strings.TrimSpace(input.VotingBureau)
	participant.SupportCommittee = input.SupportCommittee
	participant.Newsletter = input.Newsletter
	participant.UpdatedAt = s.nowUTC()

	if err := s.store.UpdateParticipant(ctx, participant); err != nil {
		if errors.Is(err, ErrConflict) {
			return Participant{}, apperrors.WithMetadata(apperrors.CodeParticipantElectorIDExists,
				"elector id already registered for this participant type",
				map[string]string{"Type": string(participant.Type)})
		}
		if errors.Is(err, ErrNotFound) {
			return Participant{}, participantNotFound(participantID)
		}
		return Participant{}, storeError("update participant", err)
	}
	return participant, nil
}

// ListParticipants returns triage listings of one population, filtered by
// status and disabled visibility, in store order (creation descending).
func (s *Service) ListParticipants(ctx context.Context, participantType ParticipantType, filter StatusFilter, includeDisabled bool) ([]Participant, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	if !participantType.Valid() {
		return nil, apperrors.New(apperrors.CodeParticipantInvalidType, "participant type must be requester or volunteer")
	}
	participants, err := s.store.ListParticipants(ctx, participantType)
	if err != nil {
		return nil, storeError("list participants", err)
	}
	return FilterParticipants(participants, filter, includeDisabled), nil
}

// ListAvailable returns participants of the given type who are not
// referenced by any active match and are not disabled.
func (s *Service) ListAvailable(ctx context.Context, participantType ParticipantType) ([]Participant, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	if !participantType.Valid() {
		return nil, apperrors.New(apperrors.CodeParticipantInvalidType, "participant type must be requester or volunteer")
	}
	participants, err := s.store.ListParticipants(ctx, participantType)
	if err != nil {
		return nil, storeError("list participants", err)
	}
	matches, err := s.store.ListMatches(ctx)
	if err != nil {
		return nil, storeError("list matches", err)
	}
	inMatch := make(map[string]bool, len(matches)*2)
	for _, match := range matches {
		inMatch[match.RequesterID] = true
		inMatch[match.VolunteerID] = true
	}
	available := make([]Participant, 0, len(participants))
	for _, participant := range participants {
		if participant.Disabled || inMatch[participant.ID] {
			continue
		}
		available = append(available, participant)
	}
	return available, nil
}

// Propose creates a pending match between one requester and one volunteer.
// Participant statuses are not changed; only Confirm moves them.
func (s *Service) Propose(ctx context.Context, requesterID, volunteerID string) (Match, error) {
	if s == nil || s.store == nil {
		return Match{}, ErrStoreNotConfigured
	}
	requesterID = strings.TrimSpace(requesterID)
	volunteerID = strings.TrimSpace(volunteerID)
	if requesterID == "" || volunteerID == "" {
		return Match{}, apperrors.New(apperrors.CodeParticipantEmptyID, "requester and volunteer ids are required")
	}
	if requesterID == volunteerID {
		return Match{}, apperrors.New(apperrors.CodeMatchSelfPairing, "a participant cannot be matched with themselves")
	}

	if err := s.checkMatchable(ctx, requesterID, TypeRequester); err != nil {
		return Match{}, err
	}
	if err := s.checkMatchable(ctx, volunteerID, TypeVolunteer); err != nil {
		return Match{}, err
	}

	matchID, err := s.newID()
	if err != nil {
		return Match{}, err
	}
	match := Match{
		ID:          matchID,
		RequesterID: requesterID,
		VolunteerID: volunteerID,
		Status:      MatchPending,
		CreatedAt:   s.nowUTC(),
	}
	if err := s.store.PutMatch(ctx, match); err != nil {
		// A concurrent proposal won the race; the store's uniqueness
		// constraint on participant references surfaces it here.
		if errors.Is(err, ErrConflict) {
			return Match{}, apperrors.New(apperrors.CodeParticipantAlreadyMatched, "a participant is already part of an active match")
		}
		return Match{}, storeError("put match", err)
	}
	return match, nil
}

// Confirm dispatches contact details to both parties and, only if dispatch
// succeeds, records the confirmation and marks both participants matched.
// A dispatch failure leaves the match pending and participants untouched.
// Failures after a successful dispatch surface as a partial-confirm error
// so an operator can reconcile; re-running Confirm on the still-pending
// match re-sends the notification.
func (s *Service) Confirm(ctx context.Context, matchID, operatorID string) (Match, error) {
	if s == nil || s.store == nil {
		return Match{}, ErrStoreNotConfigured
	}
	if s.dispatcher == nil {
		return Match{}, ErrDispatcherNotConfigured
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return Match{}, apperrors.New(apperrors.CodeMatchEmptyID, "match id is required")
	}

	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return Match{}, err
	}
	if match.Status == MatchConfirmed {
		return Match{}, apperrors.New(apperrors.CodeMatchAlreadyConfirmed, "match is already confirmed")
	}
	requester, err := s.getParticipant(ctx, match.RequesterID)
	if err != nil {
		return Match{}, err
	}
	volunteer, err := s.getParticipant(ctx, match.VolunteerID)
	if err != nil {
		return Match{}, err
	}

	exchange := ContactExchange{
		MatchID:   match.ID,
		Requester: contactCard(requester),
		Volunteer: contactCard(volunteer),
	}
	if err := s.dispatcher.SendContactExchange(ctx, exchange); err != nil {
		return Match{}, apperrors.Wrap(apperrors.CodeMatchDispatchFailed, "send contact exchange", err)
	}

	confirmedAt := s.nowUTC()
	operatorID = strings.TrimSpace(operatorID)
	if err := s.store.ConfirmMatch(ctx, match.ID, confirmedAt, operatorID); err != nil {
		return Match{}, apperrors.Wrap(apperrors.CodeMatchConfirmPartial, "record match confirmation after dispatch", err)
	}
	if err := s.store.SetParticipantStatus(ctx, match.RequesterID, StatusMatched); err != nil {
		return Match{}, apperrors.Wrap(apperrors.CodeMatchConfirmPartial, "mark requester matched after dispatch", err)
	}
	if err := s.store.SetParticipantStatus(ctx, match.VolunteerID, StatusMatched); err != nil {
		return Match{}, apperrors.Wrap(apperrors.CodeMatchConfirmPartial, "mark volunteer matched after dispatch", err)
	}

	match.Status = MatchConfirmed
	match.ConfirmedAt = &confirmedAt
	match.ConfirmedBy = operatorID
	return match, nil
}

// Dissolve deletes a match and resets both linked participants to pending.
func (s *Service) Dissolve(ctx context.Context, matchID string) error {
	if s == nil || s.store == nil {
		return ErrStoreNotConfigured
	}
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return apperrors.New(apperrors.CodeMatchEmptyID, "match id is required")
	}
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return err
	}
	return s.dissolveMatch(ctx, match)
}

// Disable marks a participant ineligible for matching. If the participant
// is part of an active match, the match is dissolved first so the other
// party is never left invisibly paired with a disabled participant.
func (s *Service) Disable(ctx context.Context, participantID string) error {
	if s == nil || s.store == nil {
		return ErrStoreNotConfigured
	}
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return apperrors.New(apperrors.CodeParticipantEmptyID, "participant id is required")
	}
	if _, err := s.getParticipant(ctx, participantID); err != nil {
		return err
	}

	match, err := s.store.GetMatchByParticipant(ctx, participantID)
	switch {
	case err == nil:
		if err := s.dissolveMatch(ctx, match); err != nil {
			return err
		}
	case errors.Is(err, ErrNotFound):
		// No active match to dissolve.
	default:
		return storeError("get match by participant", err)
	}

	if err := s.store.SetParticipantDisabled(ctx, participantID, true); err != nil {
		if errors.Is(err, ErrNotFound) {
			return participantNotFound(participantID)
		}
		return storeError("disable participant", err)
	}
	return nil
}

// Enable clears a participant's disabled flag. No match is restored and
// the status field is left as-is.
func (s *Service) Enable(ctx context.Context, participantID string) error {
	if s == nil || s.store == nil {
		return ErrStoreNotConfigured
	}
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return apperrors.New(apperrors.CodeParticipantEmptyID, "participant id is required")
	}
	if err := s.store.SetParticipantDisabled(ctx, participantID, false); err != nil {
		if errors.Is(err, ErrNotFound) {
			return participantNotFound(participantID)
		}
		return storeError("enable participant", err)
	}
	return nil
}

// ListMatches returns all active matches with embedded participant
// snapshots. Snapshot lookups degrade to empty participants so one missing
// record never fails the whole listing.
func (s *Service) ListMatches(ctx context.Context) ([]MatchDetail, error) {
	if s == nil || s.store == nil {
		return nil, ErrStoreNotConfigured
	}
	matches, err := s.store.ListMatches(ctx)
	if err != nil {
		return nil, storeError("list matches", err)
	}
	details := make([]MatchDetail, 0, len(matches))
	for _, match := range matches {
		detail := MatchDetail{Match: match}
		if requester, err := s.store.GetParticipant(ctx, match.RequesterID); err == nil {
			detail.Requester = requester
		}
		if volunteer, err := s.store.GetParticipant(ctx, match.VolunteerID); err == nil {
			detail.Volunteer = volunteer
		}
		details = append(details, detail)
	}
	return details, nil
}

// Summary aggregates participant and match counts for the dashboard.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	if s == nil || s.store == nil {
		return Summary{}, ErrStoreNotConfigured
	}
	var summary Summary
	requesters, err := s.store.ListParticipants(ctx, TypeRequester)
	if err != nil {
		return Summary{}, storeError("list requesters", err)
	}
	for _, participant := range requesters {
		if participant.Disabled {
			summary.RequestersDisabled++
			continue
		}
		if participant.Status == StatusMatched {
			summary.RequestersMatched++
		} else {
			summary.RequestersPending++
		}
	}
	volunteers, err := s.store.ListParticipants(ctx, TypeVolunteer)
	if err != nil {
		return Summary{}, storeError("list volunteers", err)
	}
	for _, participant := range volunteers {
		if participant.Disabled {
			summary.VolunteersDisabled++
			continue
		}
		if participant.Status == StatusMatched {
			summary.VolunteersMatched++
		} else {
			summary.VolunteersPending++
		}
	}
	matches, err := s.store.ListMatches(ctx)
	if err != nil {
		return Summary{}, storeError("list matches", err)
	}
	for _, match := range matches {
		if match.Status == MatchConfirmed {
			summary.MatchesConfirmed++
		} else {
			summary.MatchesPending++
		}
	}
	return summary, nil
}

// GetParticipant resolves one participant by id.
func (s *Service) GetParticipant(ctx context.Context, participantID string) (Participant, error) {
	if s == nil || s.store == nil {
		return Participant{}, ErrStoreNotConfigured
	}
	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return Participant{}, apperrors.New(apperrors.CodeParticipantEmptyID, "participant id is required")
	}
	return s.getParticipant(ctx, participantID)
}

func (s *Service) dissolveMatch(ctx context.Context, match Match) error {
	if err := s.store.DeleteMatch(ctx, match.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.New(apperrors.CodeMatchNotFound, "match not found")
		}
		return storeError("delete match", err)
	}
	// Resetting to pending is idempotent; a participant record removed in
	// the meantime is not an error here.
	if err := s.store.SetParticipantStatus(ctx, match.RequesterID, StatusPending); err != nil && !errors.Is(err, ErrNotFound) {
		return storeError("reset requester status", err)
	}
	if err := s.store.SetParticipantStatus(ctx, match.VolunteerID, StatusPending); err != nil && !errors.Is(err, ErrNotFound) {
		return storeError("reset volunteer status", err)
	}
	return nil
}

func (s *Service) checkMatchable(ctx context.Context, participantID string, expectedType ParticipantType) error {
	participant, err := s.getParticipant(ctx, participantID)
	if err != nil {
		return err
	}
	if participant.Type != expectedType {
		return apperrors.WithMetadata(apperrors.CodeParticipantWrongType, "participant has the wrong type for this side of the match",
			map[string]string{"ParticipantID": participantID, "ExpectedType": string(expectedType)})
	}
	if participant.Disabled {
		return apperrors.WithMetadata(apperrors.CodeParticipantDisabled, "participant is disabled",
			map[string]string{"ParticipantID": participantID})
	}
	_, err = s.store.GetMatchByParticipant(ctx, participantID)
	switch {
	case err == nil:
		return apperrors.WithMetadata(apperrors.CodeParticipantAlreadyMatched, "participant is already part of an active match",
			map[string]string{"ParticipantID": participantID})
	case errors.Is(err, ErrNotFound):
		return nil
	default:
		return storeError("get match by participant", err)
	}
}

func (s *Service) getParticipant(ctx context.Context, participantID string) (Participant, error) {
	participant, err := s.store.GetParticipant(ctx, participantID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Participant{}, participantNotFound(participantID)
		}
		return Participant{}, storeError("get participant", err)
	}
	return participant, nil
}

func (s *Service) getMatch(ctx context.Context, matchID string) (Match, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Match{}, apperrors.New(apperrors.CodeMatchNotFound, "match not found")
		}
		return Match{}, storeError("get match", err)
	}
	return match, nil
}

func (s *Service) nowUTC() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func contactCard(participant Participant) ContactCard {
	return ContactCard{
		DisplayName: participant.DisplayName(),
		ElectorID:   participant.ElectorID,
		Phone:       participant.Phone,
		Email:       participant.Email,
	}
}

func participantNotFound(participantID string) error {
	return apperrors.WithMetadata(apperrors.CodeParticipantNotFound, "participant not found",
		map[string]string{"ParticipantID": participantID})
}

func storeError(operation string, err error) error {
	return apperrors.Wrap(apperrors.CodeStoreError, operation, err)
}
