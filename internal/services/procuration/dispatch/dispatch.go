// Package dispatch sends confirmed-match contact exchanges to the notifier.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/collectif-citoyen/plateforme/internal/services/procuration/domain"
)

const defaultTimeout = 10 * time.Second

// contactPayload mirrors the notifier's contact-exchange JSON request.
type contactPayload struct {
	MatchID   string      `json:"match_id"`
	Requester contactCard `json:"requester"`
	Volunteer contactCard `json:"volunteer"`
}

type contactCard struct {
	DisplayName string `json:"display_name"`
	ElectorID   string `json:"elector_id"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

// HTTPDispatcher posts contact exchanges to a remote notifier endpoint.
type HTTPDispatcher struct {
	url    string
	secret string
	client *http.Client
}

// NewHTTPDispatcher creates a dispatcher that POSTs to the given URL. The
// shared secret, when set, is sent as X-Notifier-Secret.
func NewHTTPDispatcher(url, secret string, client *http.Client) *HTTPDispatcher {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &HTTPDispatcher{
		url:    url,
		secret: secret,
		client: client,
	}
}

// SendContactExchange delivers both contact cards to the notifier. Any
// non-2xx response is an error so the caller never confirms a match whose
// notification did not go out.
func (h *HTTPDispatcher) SendContactExchange(ctx context.Context, exchange domain.ContactExchange) error {
	payload := contactPayload{
		MatchID:   exchange.MatchID,
		Requester: toCard(exchange.Requester),
		Volunteer: toCard(exchange.Volunteer),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode contact exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build contact exchange request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.secret != "" {
		req.Header.Set("X-Notifier-Secret", h.secret)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("contact exchange request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("notifier returned %s", resp.Status)
	}
	return nil
}

func toCard(card domain.ContactCard) contactCard {
	return contactCard{
		DisplayName: card.DisplayName,
		ElectorID:   card.ElectorID,
		Phone:       card.Phone,
		Email:       card.Email,
	}
}

// LogDispatcher writes contact exchanges to the process log. It stands in
// for the notifier in local development when no notifier URL is configured.
type LogDispatcher struct{}

// SendContactExchange logs the exchange and always succeeds.
func (LogDispatcher) SendContactExchange(_ context.Context, exchange domain.ContactExchange) error {
	log.Printf("contact exchange for match %s: requester %q, volunteer %q",
		exchange.MatchID, exchange.Requester.DisplayName, exchange.Volunteer.DisplayName)
	return nil
}
