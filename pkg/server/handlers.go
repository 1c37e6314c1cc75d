package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kindredapp/kindred/pkg/model"
	"github.com/kindredapp/kindred/pkg/usecase/chat"
)

const defaultAlertListLimit = 50

type readingResponse struct {
	ID              string   `json:"id"`
	CareCircleID    string   `json:"careCircleId"`
	CareRecipientID string   `json:"careRecipientId"`
	Type            string   `json:"type"`
	ValuePrimary    float64  `json:"valuePrimary"`
	ValueSecondary  *float64 `json:"valueSecondary,omitempty"`
	ValueTertiary   *float64 `json:"valueTertiary,omitempty"`
	Unit            string   `json:"unit"`
	Source          string   `json:"source"`
	LoggedBy        string   `json:"loggedBy"`
	LoggedByName    string   `json:"loggedByName"`
	Notes           string   `json:"notes,omitempty"`
	CreatedAt       string   `json:"createdAt"`
}

type alertResponse struct {
	ID             string   `json:"id"`
	CareCircleID   string   `json:"careCircleId"`
	ReadingID      string   `json:"readingId,omitempty"`
	Severity       string   `json:"severity"`
	Title          string   `json:"title"`
	Message        string   `json:"message"`
	Correlations   []string `json:"correlations"`
	ActionNeeded   string   `json:"actionNeeded,omitempty"`
	Model          string   `json:"model"`
	AcknowledgedBy []string `json:"acknowledgedBy"`
	CreatedAt      string   `json:"createdAt"`
	Saved          bool     `json:"saved"`
}

func toReadingResponse(r *model.HealthReading) readingResponse {
	return readingResponse{
		ID:              string(r.ID),
		CareCircleID:    string(r.CareCircleID),
		CareRecipientID: string(r.CareRecipientID),
		Type:            string(r.Type),
		ValuePrimary:    r.ValuePrimary,
		ValueSecondary:  r.ValueSecondary,
		ValueTertiary:   r.ValueTertiary,
		Unit:            r.Unit,
		Source:          string(r.Source),
		LoggedBy:        r.LoggedBy,
		LoggedByName:    r.LoggedByName,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
}

func toAlertResponse(a *model.HealthAlert) alertResponse {
	resp := alertResponse{
		ID:             string(a.ID),
		CareCircleID:   string(a.CareCircleID),
		ReadingID:      string(a.ReadingID),
		Severity:       string(a.Severity),
		Title:          a.Title,
		Message:        a.Message,
		Correlations:   a.Correlations,
		ActionNeeded:   a.ActionNeeded,
		Model:          a.Model,
		AcknowledgedBy: a.AcknowledgedBy,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
		Saved:          !a.Unsaved,
	}
	if resp.Correlations == nil {
		resp.Correlations = []string{}
	}
	if resp.AcknowledgedBy == nil {
		resp.AcknowledgedBy = []string{}
	}
	return resp
}

type logReadingRequest struct {
	CareCircleID    string   `json:"careCircleId"`
	CareRecipientID string   `json:"careRecipientId"`
	Type            string   `json:"type"`
	ValuePrimary    float64  `json:"valuePrimary"`
	ValueSecondary  *float64 `json:"valueSecondary"`
	ValueTertiary   *float64 `json:"valueTertiary"`
	Unit            string   `json:"unit"`
	Source          string   `json:"source"`
	LoggedBy        string   `json:"loggedBy"`
	LoggedByName    string   `json:"loggedByName"`
	Notes           string   `json:"notes"`
}

func (s *Server) handleLogReading(w http.ResponseWriter, r *http.Request) {
	var req logReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.CareCircleID == "" || req.CareRecipientID == "" || req.Type == "" {
		writeBadRequest(w, "careCircleId, careRecipientId and type are required")
		return
	}

	source := model.ReadingSource(req.Source)
	if source == "" {
		source = model.ReadingSourceManual
	}

	reading := &model.HealthReading{
		ID:              model.NewReadingID(),
		CareCircleID:    model.CareCircleID(req.CareCircleID),
		CareRecipientID: model.CareRecipientID(req.CareRecipientID),
		Type:            model.ReadingType(req.Type),
		ValuePrimary:    req.ValuePrimary,
		ValueSecondary:  req.ValueSecondary,
		ValueTertiary:   req.ValueTertiary,
		Unit:            req.Unit,
		Source:          source,
		LoggedBy:        req.LoggedBy,
		LoggedByName:    req.LoggedByName,
		Notes:           req.Notes,
		CreatedAt:       time.Now(),
	}

	if err := s.repo.PutReading(r.Context(), reading); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]readingResponse{"reading": toReadingResponse(reading)})
}

type analyzeReadingRequest struct {
	ReadingID       string `json:"readingId"`
	CareCircleID    string `json:"careCircleId"`
	CareRecipientID string `json:"careRecipientId"`
}

func (s *Server) handleAnalyzeReading(w http.ResponseWriter, r *http.Request) {
	var req analyzeReadingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.ReadingID == "" || req.CareCircleID == "" || req.CareRecipientID == "" {
		writeBadRequest(w, "readingId, careCircleId and careRecipientId are required")
		return
	}

	bundle, err := s.triage.AssembleContext(r.Context(),
		model.CareCircleID(req.CareCircleID),
		model.CareRecipientID(req.CareRecipientID),
		model.ReadingID(req.ReadingID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	alert, err := s.triage.ClassifyReading(r.Context(), bundle)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]alertResponse{"alert": toAlertResponse(alert)})
}

type chatRequest struct {
	CareCircleID string         `json:"careCircleId"`
	Messages     []chat.Message `json:"messages"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if len(req.Messages) == 0 {
		writeBadRequest(w, "messages must not be empty")
		return
	}

	content, err := s.chat.Send(r.Context(), model.CareCircleID(req.CareCircleID), req.Messages)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

type feedbackRequest struct {
	CareCircleID string `json:"careCircleId"`
	SubmittedBy  string `json:"submittedBy"`
	Text         string `json:"text"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Text == "" {
		writeBadRequest(w, "text must not be empty")
		return
	}

	fb, err := s.feedback.Record(r.Context(), model.CareCircleID(req.CareCircleID), req.SubmittedBy, req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": string(fb.ID)})
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	circleID := r.URL.Query().Get("careCircleId")
	if circleID == "" {
		writeBadRequest(w, "careCircleId is required")
		return
	}

	limit := defaultAlertListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	alerts, err := s.repo.ListAlerts(r.Context(), model.CareCircleID(circleID), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		resp = append(resp, toAlertResponse(a))
	}
	writeJSON(w, http.StatusOK, map[string][]alertResponse{"alerts": resp})
}

type acknowledgeRequest struct {
	AcknowledgedBy string `json:"acknowledgedBy"`
}

func (s *Server) handleAcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "alertID")

	var req acknowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.AcknowledgedBy == "" {
		writeBadRequest(w, "acknowledgedBy is required")
		return
	}

	if err := s.repo.AcknowledgeAlert(r.Context(), model.AlertID(alertID), req.AcknowledgedBy); err != nil {
		writeError(w, r, err)
		return
	}

	alert, err := s.repo.GetAlert(r.Context(), model.AlertID(alertID))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]alertResponse{"alert": toAlertResponse(alert)})
}
