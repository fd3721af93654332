package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
	"github.com/haratakeru-crypto/Tab-button-game/internal/services"
)

// SessionHandler handles play and authoring requests for game sessions
type SessionHandler struct {
	game *services.GameService
	log  *zap.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(game *services.GameService, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		game: game,
		log:  log,
	}
}

// CreateSessionRequest selects the dataset like the entry view's query parameters
type CreateSessionRequest struct {
	App   string `json:"app"`
	Mode  string `json:"mode"`
	Debug bool   `json:"debug"`
}

// ClickRequest is a pixel click relative to the rendered image and that image's size
type ClickRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ExplanationRequest carries edited explanation text
type ExplanationRequest struct {
	ExplanationText *string `json:"explanationText"`
}

// SaveResponse is returned after an authoring save
type SaveResponse struct {
	Success  bool            `json:"success"`
	Question models.Question `json:"question"`
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*services.Session, bool) {
	session, err := h.game.Session(mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, h.log, err)
		return nil, false
	}
	return session, true
}

// CreateSession starts a game session over a dataset
// POST /api/sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	key, err := models.ParseDatasetKey(req.App, req.Mode)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.game.CreateSession(r.Context(), key, req.Debug)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, session.State())
}

// GetSession returns the session state
// GET /api/sessions/{sessionId}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.State())
}

// DeleteSession ends a session
// DELETE /api/sessions/{sessionId}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.game.CloseSession(mux.Vars(r)["sessionId"]); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Click judges a play-mode click
// POST /api/sessions/{sessionId}/click
func (h *SessionHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.game.Click(r.Context(), mux.Vars(r)["sessionId"], req.X, req.Y, req.Width, req.Height)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Next moves to the next question; unanswered questions count as wrong
// POST /api/sessions/{sessionId}/next
func (h *SessionHandler) Next(w http.ResponseWriter, r *http.Request) {
	state, err := h.game.Next(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Previous moves back one question
// POST /api/sessions/{sessionId}/previous
func (h *SessionHandler) Previous(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Previous())
}

// Restart replays all questions
// POST /api/sessions/{sessionId}/restart
func (h *SessionHandler) Restart(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Restart())
}

// RetryWrong replays the wrongly answered questions
// POST /api/sessions/{sessionId}/retry-wrong
func (h *SessionHandler) RetryWrong(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	state, err := session.RetryWrong()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Draft returns the authoring draft
// GET /api/sessions/{sessionId}/authoring/draft
func (h *SessionHandler) Draft(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	view, err := session.Draft()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AuthoringClick estimates a draft zone from a click
// POST /api/sessions/{sessionId}/authoring/click
func (h *SessionHandler) AuthoringClick(w http.ResponseWriter, r *http.Request) {
	var req ClickRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	view, err := h.game.AuthoringClick(mux.Vars(r)["sessionId"], req.X, req.Y, req.Width, req.Height)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// ShowSaved loads the saved or original zone as the draft
// POST /api/sessions/{sessionId}/authoring/show-saved
func (h *SessionHandler) ShowSaved(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	view, err := session.ShowSaved()
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// EditDraft adjusts draft fields
// PATCH /api/sessions/{sessionId}/authoring/draft
func (h *SessionHandler) EditDraft(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	var edit services.DraftEdit
	if !decodeJSON(w, r, &edit) {
		return
	}
	view, err := session.EditDraft(edit)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SaveZone persists the draft zone
// POST /api/sessions/{sessionId}/authoring/save-zone
func (h *SessionHandler) SaveZone(w http.ResponseWriter, r *http.Request) {
	q, err := h.game.SaveZone(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{Success: true, Question: *q})
}

// SaveExplanation persists explanation text
// PUT /api/sessions/{sessionId}/authoring/explanation
func (h *SessionHandler) SaveExplanation(w http.ResponseWriter, r *http.Request) {
	var req ExplanationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ExplanationText == nil {
		writeErrorMessage(w, http.StatusBadRequest, "explanationText is required")
		return
	}
	q, err := h.game.SaveExplanation(r.Context(), mux.Vars(r)["sessionId"], *req.ExplanationText)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, SaveResponse{Success: true, Question: *q})
}

// Answers returns the logged answers of a session
// GET /api/sessions/{sessionId}/answers
func (h *SessionHandler) Answers(w http.ResponseWriter, r *http.Request) {
	answers, err := h.game.SessionAnswers(r.Context(), mux.Vars(r)["sessionId"])
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, answers)
}

// Stats returns answer-log aggregates for a dataset
// GET /api/stats/{app}/{mode}
func (h *SessionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	key, err := datasetKey(r)
	if err != nil {
		writeErrorMessage(w, http.StatusNotFound, err.Error())
		return
	}
	stats, err := h.game.Stats(r.Context(), key)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
