// Package storage defines persistence records and store contracts for the
// procuration service.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested participant or match record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a requested write conflicts with uniqueness constraints.
	ErrConflict = errors.New("record conflict")
)

// ParticipantRecord stores one registered requester or volunteer.
type ParticipantRecord struct {
	ID               string
	Type             string
	FirstName        string
	LastName         string
	ElectorID        string
	Phone            string
	Email            string
	VotingBureau     string
	SupportCommittee bool
	Newsletter       bool
	Status           string
	Disabled         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MatchRecord stores one active requester-volunteer pairing. Dissolved
// matches are deleted, so presence of a row means the match is active.
type MatchRecord struct {
	ID          string
	RequesterID string
	VolunteerID string
	Status      string
	ConfirmedAt *time.Time
	ConfirmedBy string
	CreatedAt   time.Time
}

// ParticipantStore persists participant registrations.
type ParticipantStore interface {
	PutParticipant(ctx context.Context, record ParticipantRecord) error
	GetParticipant(ctx context.Context, participantID string) (ParticipantRecord, error)
	UpdateParticipant(ctx context.Context, record ParticipantRecord) error
	SetParticipantStatus(ctx context.Context, participantID string, status string) error
	SetParticipantDisabled(ctx context.Context, participantID string, disabled bool) error
	ListParticipants(ctx context.Context, participantType string) ([]ParticipantRecord, error)
}

// MatchStore persists active matches. Implementations must reject a second
// active match for the same requester or volunteer with ErrConflict.
type MatchStore interface {
	PutMatch(ctx context.Context, record MatchRecord) error
	GetMatch(ctx context.Context, matchID string) (MatchRecord, error)
	GetMatchByParticipant(ctx context.Context, participantID string) (MatchRecord, error)
	ConfirmMatch(ctx context.Context, matchID string, confirmedAt time.Time, confirmedBy string) error
	DeleteMatch(ctx context.Context, matchID string) error
	ListMatches(ctx context.Context) ([]MatchRecord, error)
}

// Store combines the procuration persistence contracts.
type Store interface {
	ParticipantStore
	MatchStore
}
