package dispatch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/collectif-citoyen/plateforme/internal/services/procuration/domain"
)

func sampleExchange() domain.ContactExchange {
	return domain.ContactExchange{
		MatchID: "match-1",
		Requester: domain.ContactCard{
			DisplayName: "Alice Martin",
			ElectorID:   "ELEC-001",
			Email:       "alice@example.org",
		},
		Volunteer: domain.ContactCard{
			DisplayName: "Bob Durand",
			ElectorID:   "ELEC-002",
			Phone:       "+33600000002",
		},
	}
}

func TestSendContactExchangePostsJSON(t *testing.T) {
	t.Parallel()

	var got contactPayload
	var gotSecret string
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotSecret = r.Header.Get("X-Notifier-Secret")
		gotContentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	dispatcher := NewHTTPDispatcher(server.URL, "s3cret", server.Client())
	if err := dispatcher.SendContactExchange(context.Background(), sampleExchange()); err != nil {
		t.Fatalf("send contact exchange: %v", err)
	}

	if gotSecret != "s3cret" {
		t.Fatalf("secret header = %q, want s3cret", gotSecret)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type = %q, want application/json", gotContentType)
	}
	if got.MatchID != "match-1" {
		t.Fatalf("match_id = %q, want match-1", got.MatchID)
	}
	if got.Requester.DisplayName != "Alice Martin" || got.Volunteer.DisplayName != "Bob Durand" {
		t.Fatalf("unexpected cards: %+v", got)
	}
	if got.Requester.Email != "alice@example.org" || got.Volunteer.Phone != "+33600000002" {
		t.Fatalf("unexpected contact details: %+v", got)
	}
}

func TestSendContactExchangeRejectsNon2xx(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "notifier overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	dispatcher := NewHTTPDispatcher(server.URL, "", server.Client())
	if err := dispatcher.SendContactExchange(context.Background(), sampleExchange()); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestSendContactExchangeRespectsContext(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dispatcher := NewHTTPDispatcher(server.URL, "", server.Client())
	if err := dispatcher.SendContactExchange(ctx, sampleExchange()); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestLogDispatcherAlwaysSucceeds(t *testing.T) {
	t.Parallel()

	if err := (LogDispatcher{}).SendContactExchange(context.Background(), sampleExchange()); err != nil {
		t.Fatalf("log dispatcher: %v", err)
	}
}
