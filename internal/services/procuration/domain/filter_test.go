package domain

import (
	"testing"
	"time"

	apperrors "github.com/collectif-citoyen/plateforme/internal/platform/errors"
)

func TestParseStatusFilter(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want StatusFilter
	}{
		{"", FilterAll},
		{"all", FilterAll},
		{"pending", FilterPending},
		{" Pending ", FilterPending},
		{"MATCHED", FilterMatched},
	}
	for _, tc := range cases {
		got, err := ParseStatusFilter(tc.raw)
		if err != nil {
			t.Fatalf("ParseStatusFilter(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseStatusFilter(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}

	if _, err := ParseStatusFilter("expired"); !apperrors.IsCode(err, apperrors.CodeParticipantInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestFilterParticipants(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	participants := []Participant{
		{ID: "a", Status: StatusPending, CreatedAt: base},
		{ID: "b", Status: StatusMatched, CreatedAt: base},
		{ID: "c", Status: StatusPending, Disabled: true, CreatedAt: base},
		{ID: "d", Status: StatusMatched, Disabled: true, CreatedAt: base},
	}

	cases := []struct {
		name            string
		filter          StatusFilter
		includeDisabled bool
		want            []string
	}{
		{"all visible", FilterAll, false, []string{"a", "b"}},
		{"all with disabled", FilterAll, true, []string{"a", "b", "c", "d"}},
		{"pending visible", FilterPending, false, []string{"a"}},
		{"pending with disabled", FilterPending, true, []string{"a", "c"}},
		{"matched visible", FilterMatched, false, []string{"b"}},
		{"matched with disabled", FilterMatched, true, []string{"b", "d"}},
	}
	for _, tc := range cases {
		got := FilterParticipants(participants, tc.filter, tc.includeDisabled)
		ids := make([]string, 0, len(got))
		for _, participant := range got {
			ids = append(ids, participant.ID)
		}
		if len(ids) != len(tc.want) {
			t.Fatalf("%s: got %v, want %v", tc.name, ids, tc.want)
		}
		for i := range ids {
			if ids[i] != tc.want[i] {
				t.Fatalf("%s: got %v, want %v", tc.name, ids, tc.want)
			}
		}
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		first, last, want string
	}{
		{"Alice", "Martin", "Alice Martin"},
		{" Alice ", "", "Alice"},
		{"", "Martin", "Martin"},
	}
	for _, tc := range cases {
		got := Participant{FirstName: tc.first, LastName: tc.last}.DisplayName()
		if got != tc.want {
			t.Fatalf("DisplayName(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}
