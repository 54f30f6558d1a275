package domain

import (
	"strings"

	apperrors "github.com/collectif-citoyen/plateforme/internal/platform/errors"
)

// StatusFilter selects participants by status in triage listings.
type StatusFilter string

const (
	// FilterPending keeps only participants without a confirmed match.
	FilterPending StatusFilter = "pending"
	// FilterMatched keeps only participants with a confirmed match.
	FilterMatched StatusFilter = "matched"
	// FilterAll keeps every status.
	FilterAll StatusFilter = "all"
)

// ParseStatusFilter normalizes a raw filter value. An empty value means all.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterMatched:
		return FilterMatched, nil
	default:
		return "", apperrors.New(apperrors.CodeParticipantInvalidStatus, "status filter must be pending, matched, or all")
	}
}

// FilterParticipants applies the status filter and disabled visibility to an
// already-fetched list. It is pure and performs no I/O.
func FilterParticipants(participants []Participant, filter StatusFilter, includeDisabled bool) []Participant {
	out := make([]Participant, 0, len(participants))
	for _, participant := range participants {
		if participant.Disabled && !includeDisabled {
			continue
		}
		switch filter {
		case FilterPending:
			if participant.Status != StatusPending {
				continue
			}
		case FilterMatched:
			if participant.Status != StatusMatched {
				continue
			}
		}
		out = append(out, participant)
	}
	return out
}
