package domain

import (
	"strings"
	"time"

	apperrors "github.com/collectif-citoyen/plateforme/internal/platform/errors"
)

// ParticipantType distinguishes the two procuration populations.
// The type is immutable after creation.
type ParticipantType string

const (
	// TypeRequester seeks someone to hold their voting mandate.
	TypeRequester ParticipantType = "requester"
	// TypeVolunteer offers to hold another's voting mandate.
	TypeVolunteer ParticipantType = "volunteer"
)

// Valid reports whether the participant type is one of the known values.
func (t ParticipantType) Valid() bool {
	return t == TypeRequester || t == TypeVolunteer
}

// ParticipantStatus tracks whether a participant is part of a confirmed match.
// Status transitions are driven exclusively by match lifecycle events.
type ParticipantStatus string

const (
	// StatusPending means the participant has no confirmed procuration.
	StatusPending ParticipantStatus = "pending"
	// StatusMatched means the participant is part of a confirmed procuration.
	StatusMatched ParticipantStatus = "matched"
)

// Participant is one registered person in the procuration workflow.
type Participant struct {
	ID               string
	Type             ParticipantType
	FirstName        string
	LastName         string
	ElectorID        string
	Phone            string
	Email            string
	VotingBureau     string
	SupportCommittee bool
	Newsletter       bool
	Status           ParticipantStatus
	Disabled         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DisplayName returns the participant's full name for notifications and lists.
func (p Participant) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// CreateParticipantInput describes one registration, from the public
// submission form or an administrator.
type CreateParticipantInput struct {
	Type             ParticipantType
	FirstName        string
	LastName         string
	ElectorID        string
	Phone            string
	Email            string
	VotingBureau     string
	SupportCommittee bool
	Newsletter       bool
}

// UpdateParticipantInput carries the editable participant fields. Type,
// status, and the disabled flag are never updated through this input.
type UpdateParticipantInput struct {
	FirstName        string
	LastName         string
	ElectorID        string
	Phone            string
	Email            string
	VotingBureau     string
	SupportCommittee bool
	Newsletter       bool
}

func validateParticipantFields(firstName, lastName, electorID, phone, email string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return apperrors.New(apperrors.CodeParticipantEmptyName, "participant first and last name are required")
	}
	if strings.TrimSpace(electorID) == "" {
		return apperrors.New(apperrors.CodeParticipantEmptyElectorID, "participant elector id is required")
	}
	if strings.TrimSpace(phone) == "" && strings.TrimSpace(email) == "" {
		return apperrors.New(apperrors.CodeParticipantEmptyContact, "participant phone or email is required")
	}
	return nil
}
