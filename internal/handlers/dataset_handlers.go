package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
	"github.com/haratakeru-crypto/Tab-button-game/internal/services"
)

// DatasetHandler serves the question dataset read/write endpoints
type DatasetHandler struct {
	store *services.DatasetStore
	log   *zap.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(store *services.DatasetStore, log *zap.Logger) *DatasetHandler {
	return &DatasetHandler{
		store: store,
		log:   log,
	}
}

// QuestionsResponse is the dataset read payload
type QuestionsResponse struct {
	Questions []models.Question `json:"questions"`
}

// UpdateQuestionRequest is the dataset write payload
type UpdateQuestionRequest struct {
	QuestionID      int                `json:"questionId"`
	TargetZone      *models.TargetZone `json:"targetZone,omitempty"`
	ExplanationText *string            `json:"explanationText,omitempty"`
}

// UpdateQuestionResponse is returned after a successful write
type UpdateQuestionResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Question models.Question `json:"question"`
}

// datasetKey resolves the dataset from {app}/{mode} route variables
func datasetKey(r *http.Request) (models.DatasetKey, error) {
	vars := mux.Vars(r)
	return models.ParseDatasetKey(vars["app"], vars["mode"])
}

// Questions returns a handler bound to one dataset, for the fixed legacy routes
func (h *DatasetHandler) Questions(key models.DatasetKey) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveQuestions(w, r, key)
	}
}

// DatasetQuestions serves /api/datasets/{app}/{mode}
func (h *DatasetHandler) DatasetQuestions(w http.ResponseWriter, r *http.Request) {
	key, err := datasetKey(r)
	if err != nil {
		writeErrorMessage(w, http.StatusNotFound, err.Error())
		return
	}
	h.serveQuestions(w, r, key)
}

func (h *DatasetHandler) serveQuestions(w http.ResponseWriter, r *http.Request, key models.DatasetKey) {
	switch r.Method {
	case http.MethodGet:
		h.getQuestions(w, r, key)
	case http.MethodPut:
		h.updateQuestion(w, r, key)
	default:
		w.Header().Set("Allow", "GET, PUT")
		writeErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// getQuestions returns the full ordered dataset
// GET /api/questions (and the other dataset routes)
func (h *DatasetHandler) getQuestions(w http.ResponseWriter, r *http.Request, key models.DatasetKey) {
	questions, err := h.store.Load(r.Context(), key)
	if err != nil {
		h.log.Error("Failed to read dataset", zap.String("dataset", key.String()), zap.Error(err))
		writeErrorMessage(w, http.StatusInternalServerError, serverErrorMessage)
		return
	}
	writeJSON(w, http.StatusOK, QuestionsResponse{Questions: questions})
}

// updateQuestion overwrites targetZone and/or explanationText of one question
// PUT /api/questions (and the other dataset routes)
func (h *DatasetHandler) updateQuestion(w http.ResponseWriter, r *http.Request, key models.DatasetKey) {
	if h.store.Production() {
		writeError(w, h.log, services.ErrForbidden)
		return
	}

	var req UpdateQuestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.QuestionID == 0 {
		writeErrorMessage(w, http.StatusBadRequest, "questionId is required")
		return
	}

	updated, err := h.store.Update(r.Context(), key, req.QuestionID, models.QuestionPatch{
		TargetZone:      req.TargetZone,
		ExplanationText: req.ExplanationText,
	})
	if err != nil {
		if errors.Is(err, services.ErrStorage) {
			h.log.Error("Failed to update dataset",
				zap.String("dataset", key.String()),
				zap.Int("question_id", req.QuestionID),
				zap.Error(err),
			)
			writeErrorMessage(w, http.StatusInternalServerError, serverErrorMessage)
			return
		}
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, UpdateQuestionResponse{
		Success:  true,
		Message:  "updated",
		Question: *updated,
	})
}
