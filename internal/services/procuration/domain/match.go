package domain

import "time"

// MatchStatus tracks the lifecycle of one proposed pairing. Matches are
// deleted on dissolution, so every stored match is active.
type MatchStatus string

const (
	// MatchPending means the pairing was proposed but contact details have
	// not been exchanged yet.
	MatchPending MatchStatus = "pending"
	// MatchConfirmed means contact emails went out to both parties.
	MatchConfirmed MatchStatus = "confirmed"
)

// Match links exactly one requester with one volunteer.
type Match struct {
	ID          string
	RequesterID string
	VolunteerID string
	Status      MatchStatus
	ConfirmedAt *time.Time
	ConfirmedBy string
	CreatedAt   time.Time
}

// MatchDetail is a match with embedded participant snapshots for list
// views. Snapshots that cannot be resolved are left zero-valued rather
// than failing the whole listing.
type MatchDetail struct {
	Match     Match
	Requester Participant
	Volunteer Participant
}

// Summary aggregates procuration counts for the operator dashboard.
type Summary struct {
	RequestersPending  int
	RequestersMatched  int
	RequestersDisabled int
	VolunteersPending  int
	VolunteersMatched  int
	VolunteersDisabled int
	MatchesPending     int
	MatchesConfirmed   int
}
