// Package httpapi exposes the procuration service as a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/collectif-citoyen/plateforme/internal/platform/errors"
	"github.com/collectif-citoyen/plateforme/internal/platform/i18n"
	"github.com/collectif-citoyen/plateforme/internal/platform/requestctx"
	"github.com/collectif-citoyen/plateforme/internal/services/procuration/domain"
)

// Handler serves the procuration HTTP API.
type Handler struct {
	service *domain.Service
}

// NewHandler creates the HTTP API handler around the matching engine.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// Routes registers all procuration API routes on the mux. Operator-only
// routes are expected to sit behind the operator auth middleware; the
// public submission route and health check are registered separately by
// the server so they stay open.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc(http.MethodGet+" /api/requesters", h.handleListRequesters)
	mux.HandleFunc(http.MethodGet+" /api/volunteers", h.handleListVolunteers)
	mux.HandleFunc(http.MethodGet+" /api/available/{participantType}", h.handleListAvailable)
	mux.HandleFunc(http.MethodGet+" /api/participants/{participantID}", h.handleGetParticipant)
	mux.HandleFunc(http.MethodPost+" /api/participants/{participantID}", h.handleUpdateParticipant)
	mux.HandleFunc(http.MethodPost+" /api/participants/{participantID}/disable", h.handleDisableParticipant)
	mux.HandleFunc(http.MethodPost+" /api/participants/{participantID}/enable", h.handleEnableParticipant)
	mux.HandleFunc(http.MethodGet+" /api/matches", h.handleListMatches)
	mux.HandleFunc(http.MethodPost+" /api/matches", h.handleProposeMatch)
	mux.HandleFunc(http.MethodPost+" /api/matches/{matchID}/confirm", h.handleConfirmMatch)
	mux.HandleFunc(http.MethodDelete+" /api/matches/{matchID}", h.handleDissolveMatch)
	mux.HandleFunc(http.MethodGet+" /api/summary", h.handleSummary)
}

// PublicRoutes registers the routes that stay open without operator auth.
func (h *Handler) PublicRoutes(mux *http.ServeMux) {
	mux.HandleFunc(http.MethodPost+" /api/participants", h.handleCreateParticipant)
}

type participantPayload struct {
	ID               string `json:"id"`
	Type             string `json:"type"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	ElectorID        string `json:"elector_id"`
	Phone            string `json:"phone,omitempty"`
	Email            string `json:"email,omitempty"`
	VotingBureau     string `json:"voting_bureau,omitempty"`
	SupportCommittee bool   `json:"support_committee"`
	Newsletter       bool   `json:"newsletter"`
	Status           string `json:"status"`
	Disabled         bool   `json:"disabled"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

type matchPayload struct {
	ID          string `json:"id"`
	RequesterID string `json:"requester_id"`
	VolunteerID string `json:"volunteer_id"`
	Status      string `json:"status"`
	ConfirmedAt string `json:"confirmed_at,omitempty"`
	ConfirmedBy string `json:"confirmed_by,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type matchDetailPayload struct {
	Match     matchPayload        `json:"match"`
	Requester *participantPayload `json:"requester,omitempty"`
	Volunteer *participantPayload `json:"volunteer,omitempty"`
}

type summaryPayload struct {
	RequestersPending  int `json:"requesters_pending"`
	RequestersMatched  int `json:"requesters_matched"`
	RequestersDisabled int `json:"requesters_disabled"`
	VolunteersPending  int `json:"volunteers_pending"`
	VolunteersMatched  int `json:"volunteers_matched"`
	VolunteersDisabled int `json:"volunteers_disabled"`
	MatchesPending     int `json:"matches_pending"`
	MatchesConfirmed   int `json:"matches_confirmed"`
}

type createParticipantRequest struct {
	Type             string `json:"type"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	ElectorID        string `json:"elector_id"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	VotingBureau     string `json:"voting_bureau"`
	SupportCommittee bool   `json:"support_committee"`
	Newsletter       bool   `json:"newsletter"`
}

type updateParticipantRequest struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	ElectorID        string `json:"elector_id"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	VotingBureau     string `json:"voting_bureau"`
	SupportCommittee bool   `json:"support_committee"`
	Newsletter       bool   `json:"newsletter"`
}

type proposeMatchRequest struct {
	RequesterID string `json:"requester_id"`
	VolunteerID string `json:"volunteer_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) handleCreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req createParticipantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	participant, err := h.service.CreateParticipant(r.Context(), domain.CreateParticipantInput{
		Type:             domain.ParticipantType(strings.TrimSpace(req.Type)),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		ElectorID:        req.ElectorID,
		Phone:            req.Phone,
		Email:            req.Email,
		VotingBureau:     req.VotingBureau,
		SupportCommittee: req.SupportCommittee,
		Newsletter:       req.Newsletter,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toParticipantPayload(participant))
}

func (h *Handler) handleGetParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := strings.TrimSpace(r.PathValue("participantID"))
	participant, err := h.service.GetParticipant(r.Context(), participantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantPayload(participant))
}

func (h *Handler) handleUpdateParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := strings.TrimSpace(r.PathValue("participantID"))
	var req updateParticipantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	participant, err := h.service.UpdateParticipant(r.Context(), participantID, domain.UpdateParticipantInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		ElectorID:        req.ElectorID,
		Phone:            req.Phone,
		Email:            req.Email,
		VotingBureau:     req.VotingBureau,
		SupportCommittee: req.SupportCommittee,
		Newsletter:       req.Newsletter,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantPayload(participant))
}

func (h *Handler) handleListRequesters(w http.ResponseWriter, r *http.Request) {
	h.listParticipants(w, r, domain.TypeRequester)
}

func (h *Handler) handleListVolunteers(w http.ResponseWriter, r *http.Request) {
	h.listParticipants(w, r, domain.TypeVolunteer)
}

func (h *Handler) listParticipants(w http.ResponseWriter, r *http.Request, participantType domain.ParticipantType) {
	filter, err := domain.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	includeDisabled, err := parseBoolParam(r.URL.Query().Get("include_disabled"))
	if err != nil {
		writeError(w, r, apperrors.New(apperrors.CodeParticipantInvalidStatus, "include_disabled must be true or false"))
		return
	}
	participants, err := h.service.ListParticipants(r.Context(), participantType, filter, includeDisabled)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantPayloads(participants))
}

func (h *Handler) handleListAvailable(w http.ResponseWriter, r *http.Request) {
	participantType := domain.ParticipantType(strings.TrimSpace(r.PathValue("participantType")))
	participants, err := h.service.ListAvailable(r.Context(), participantType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toParticipantPayloads(participants))
}

func (h *Handler) handleDisableParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := strings.TrimSpace(r.PathValue("participantID"))
	if err := h.service.Disable(r.Context(), participantID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleEnableParticipant(w http.ResponseWriter, r *http.Request) {
	participantID := strings.TrimSpace(r.PathValue("participantID"))
	if err := h.service.Enable(r.Context(), participantID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleProposeMatch(w http.ResponseWriter, r *http.Request) {
	var req proposeMatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	match, err := h.service.Propose(r.Context(), req.RequesterID, req.VolunteerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMatchPayload(match))
}

func (h *Handler) handleConfirmMatch(w http.ResponseWriter, r *http.Request) {
	matchID := strings.TrimSpace(r.PathValue("matchID"))
	operatorID := requestctx.UserIDFromContext(r.Context())
	match, err := h.service.Confirm(r.Context(), matchID, operatorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMatchPayload(match))
}

func (h *Handler) handleDissolveMatch(w http.ResponseWriter, r *http.Request) {
	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if err := h.service.Dissolve(r.Context(), matchID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListMatches(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.ListMatches(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	payloads := make([]matchDetailPayload, 0, len(details))
	for _, detail := range details {
		payloads = append(payloads, toMatchDetailPayload(detail))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryPayload{
		RequestersPending:  summary.RequestersPending,
		RequestersMatched:  summary.RequestersMatched,
		RequestersDisabled: summary.RequestersDisabled,
		VolunteersPending:  summary.VolunteersPending,
		VolunteersMatched:  summary.VolunteersMatched,
		VolunteersDisabled: summary.VolunteersDisabled,
		MatchesPending:     summary.MatchesPending,
		MatchesConfirmed:   summary.MatchesConfirmed,
	})
}

func toParticipantPayload(participant domain.Participant) participantPayload {
	return participantPayload{
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
		CreatedAt:        participant.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        participant.UpdatedAt.Format(time.RFC3339),
	}
}

func toParticipantPayloads(participants []domain.Participant) []participantPayload {
	payloads := make([]participantPayload, 0, len(participants))
	for _, participant := range participants {
		payloads = append(payloads, toParticipantPayload(participant))
	}
	return payloads
}

func toMatchPayload(match domain.Match) matchPayload {
	payload := matchPayload{
		ID:          match.ID,
		RequesterID: match.RequesterID,
		VolunteerID: match.VolunteerID,
		Status:      string(match.Status),
		ConfirmedBy: match.ConfirmedBy,
		CreatedAt:   match.CreatedAt.Format(time.RFC3339),
	}
	if match.ConfirmedAt != nil {
		payload.ConfirmedAt = match.ConfirmedAt.Format(time.RFC3339)
	}
	return payload
}

func toMatchDetailPayload(detail domain.MatchDetail) matchDetailPayload {
	payload := matchDetailPayload{Match: toMatchPayload(detail.Match)}
	if detail.Requester.ID != "" {
		requester := toParticipantPayload(detail.Requester)
		payload.Requester = &requester
	}
	if detail.Volunteer.ID != "" {
		volunteer := toParticipantPayload(detail.Volunteer)
		payload.Volunteer = &volunteer
	}
	return payload
}

func parseBoolParam(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    string(apperrors.CodeUnknown),
			Message: "request body must be valid JSON",
		})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	locale := i18n.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
	httpErr := apperrors.ToHTTP(err, locale)
	writeJSON(w, httpErr.Status, errorResponse{
		Code:    string(httpErr.Code),
		Message: httpErr.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}
