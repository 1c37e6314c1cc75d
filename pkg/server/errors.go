package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kindredapp/kindred/pkg/model"
	"github.com/kindredapp/kindred/pkg/utils/logging"
)

// errorResponse is the uniform error body of the API
type errorResponse struct {
	Error string `json:"error"`
}

// httpError maps a pipeline error onto a status code and a user-facing
// message. The three backend conditions keep distinct messages: a family
// member retrying into a billing problem helps nobody.
func httpError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrReadingNotFound):
		return http.StatusNotFound, "Reading not found."
	case errors.Is(err, model.ErrRecipientNotFound):
		return http.StatusNotFound, "Care recipient not found."
	case errors.Is(err, model.ErrAlertNotFound):
		return http.StatusNotFound, "Alert not found."
	case errors.Is(err, model.ErrRateLimited):
		return http.StatusTooManyRequests, "The assistant is handling too many requests right now. Please try again in a moment."
	case errors.Is(err, model.ErrQuotaExhausted):
		return http.StatusPaymentRequired, "The assistant is out of credits. Retrying will not help until the plan is topped up."
	default:
		return http.StatusInternalServerError, "The assistant is temporarily unavailable."
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := httpError(err)
	if code >= http.StatusInternalServerError {
		logging.From(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		logging.From(r.Context()).Warn("request rejected", "path", r.URL.Path, "code", code, "error", err)
	}
	writeJSON(w, code, errorResponse{Error: msg})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
