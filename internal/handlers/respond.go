package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/services"
	"github.com/haratakeru-crypto/Tab-button-game/internal/zone"
)

const serverErrorMessage = "a server error occurred"

// ErrorResponse is the body of every non-2xx JSON response
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeError maps service errors to status codes. Storage and unknown
// errors are logged and answered with a generic message.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden):
		writeErrorMessage(w, http.StatusForbidden, "not available in production")
	case errors.Is(err, services.ErrAuthoringDisabled):
		writeErrorMessage(w, http.StatusForbidden, services.ErrAuthoringDisabled.Error())
	case errors.Is(err, services.ErrMalformedRequest), errors.Is(err, services.ErrInvalidAsset):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, "question not found")
	case errors.Is(err, services.ErrSessionNotFound):
		writeErrorMessage(w, http.StatusNotFound, "session not found")
	case errors.Is(err, zone.ErrNoDraft):
		writeErrorMessage(w, http.StatusConflict, "no target zone has been drafted")
	case errors.Is(err, services.ErrSaveInProgress):
		writeErrorMessage(w, http.StatusConflict, services.ErrSaveInProgress.Error())
	case errors.Is(err, services.ErrNoQuestions):
		writeErrorMessage(w, http.StatusConflict, services.ErrNoQuestions.Error())
	default:
		log.Error("Request failed", zap.Error(err))
		writeErrorMessage(w, http.StatusInternalServerError, serverErrorMessage)
	}
}

// decodeJSON decodes the request body into v, answering 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return false
	}
	return true
}
