package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

// sessionIdleTTL bounds how long an untouched session is kept
const sessionIdleTTL = 12 * time.Hour

// GameService owns the in-memory play and authoring sessions
type GameService struct {
	store   *DatasetStore
	answers *AnswerLog
	log     *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewGameService creates a game service. answers may be nil to disable the answer log.
func NewGameService(store *DatasetStore, answers *AnswerLog, log *zap.Logger) *GameService {
	return &GameService{
		store:    store,
		answers:  answers,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// CreateSession loads a dataset and starts a session over a deep copy of it
func (gs *GameService) CreateSession(ctx context.Context, key models.DatasetKey, debug bool) (*Session, error) {
	questions, err := gs.store.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoQuestions, key)
	}

	if removed := gs.Prune(sessionIdleTTL); removed > 0 {
		gs.log.Info("Pruned idle sessions", zap.Int("count", removed))
	}

	session := newSession(uuid.NewString(), key, debug, questions)

	gs.mu.Lock()
	gs.sessions[session.ID()] = session
	gs.mu.Unlock()

	gs.log.Info("Session created",
		zap.String("session_id", session.ID()),
		zap.String("dataset", key.String()),
		zap.Int("questions", len(questions)),
		zap.Bool("debug", debug),
		zap.Bool("authoring", session.AuthoringEnabled()),
	)
	return session, nil
}

// Session returns a session by id
func (gs *GameService) Session(id string) (*Session, error) {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	session, ok := gs.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// CloseSession forgets a session
func (gs *GameService) CloseSession(id string) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if _, ok := gs.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(gs.sessions, id)
	return nil
}

// Prune drops sessions idle for longer than maxIdle and returns how many were removed
func (gs *GameService) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	gs.mu.Lock()
	defer gs.mu.Unlock()

	removed := 0
	for id, session := range gs.sessions {
		session.mu.Lock()
		idle := session.lastActive.Before(cutoff)
		session.mu.Unlock()
		if idle {
			delete(gs.sessions, id)
			removed++
		}
	}
	return removed
}

// Click judges a play-mode click and records it in the answer log
func (gs *GameService) Click(ctx context.Context, id string, clickX, clickY, width, height float64) (ClickResult, error) {
	session, err := gs.Session(id)
	if err != nil {
		return ClickResult{}, err
	}

	res, err := session.Click(clickX, clickY, width, height)
	if err != nil {
		return res, err
	}
	if res.Skipped {
		gs.log.Debug("Click ignored, image has no size yet", zap.String("session_id", id))
		return res, nil
	}
	if res.AlreadyAnswered {
		return res, nil
	}

	gs.log.Debug("Click judged",
		zap.String("session_id", id),
		zap.Int("question_id", res.QuestionID),
		zap.Float64("x", res.Point.X),
		zap.Float64("y", res.Point.Y),
		zap.Any("target_zone", res.TargetZone),
		zap.Bool("correct", res.Correct),
	)
	gs.recordAnswer(ctx, AnswerRecord{
		SessionID:  id,
		Dataset:    session.Dataset(),
		QuestionID: res.QuestionID,
		PercentX:   res.Point.X,
		PercentY:   res.Point.Y,
		Correct:    res.Correct,
	})
	return res, nil
}

// Next advances a session, logging an unanswered question as skipped
func (gs *GameService) Next(ctx context.Context, id string) (SessionState, error) {
	session, err := gs.Session(id)
	if err != nil {
		return SessionState{}, err
	}
	state, skippedID := session.Next()
	if skippedID != 0 {
		gs.recordAnswer(ctx, AnswerRecord{
			SessionID:  id,
			Dataset:    session.Dataset(),
			QuestionID: skippedID,
			Skipped:    true,
		})
	}
	return state, nil
}

// AuthoringClick estimates a draft zone and flags low-confidence estimates
func (gs *GameService) AuthoringClick(id string, clickX, clickY, width, height float64) (DraftView, error) {
	session, err := gs.Session(id)
	if err != nil {
		return DraftView{}, err
	}
	view, err := session.AuthoringClick(clickX, clickY, width, height)
	if err != nil || view.Estimate == nil {
		return view, err
	}

	fields := []zap.Field{
		zap.String("session_id", id),
		zap.Int("question_id", view.QuestionID),
		zap.String("source", string(view.Estimate.Source)),
		zap.String("tab_name", view.Estimate.TabName),
		zap.Any("draft", view.Estimate.Zone),
	}
	if view.Estimate.LowConfidence() {
		gs.log.Warn("Low-confidence zone estimate", fields...)
	} else {
		gs.log.Debug("Zone estimated", fields...)
	}
	return view, nil
}

// SaveZone persists a session's draft zone
func (gs *GameService) SaveZone(ctx context.Context, id string) (*models.Question, error) {
	session, err := gs.Session(id)
	if err != nil {
		return nil, err
	}
	q, err := session.SaveZone(ctx, gs.store)
	if err != nil {
		gs.log.Warn("Failed to save target zone", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}
	return q, nil
}

// SaveExplanation persists explanation text for a session's current question
func (gs *GameService) SaveExplanation(ctx context.Context, id, text string) (*models.Question, error) {
	session, err := gs.Session(id)
	if err != nil {
		return nil, err
	}
	q, err := session.SaveExplanation(ctx, gs.store, text)
	if err != nil {
		gs.log.Warn("Failed to save explanation text", zap.String("session_id", id), zap.Error(err))
		return nil, err
	}
	return q, nil
}

// Stats aggregates the answer log for a dataset
func (gs *GameService) Stats(ctx context.Context, key models.DatasetKey) ([]QuestionStats, error) {
	if gs.answers == nil {
		return []QuestionStats{}, nil
	}
	return gs.answers.StatsByQuestion(ctx, key)
}

// SessionAnswers lists the logged answers of a session
func (gs *GameService) SessionAnswers(ctx context.Context, id string) ([]AnswerRecord, error) {
	if gs.answers == nil {
		return []AnswerRecord{}, nil
	}
	return gs.answers.SessionAnswers(ctx, id)
}

// recordAnswer writes to the answer log; failures are logged, not returned
func (gs *GameService) recordAnswer(ctx context.Context, rec AnswerRecord) {
	if gs.answers == nil {
		return
	}
	if err := gs.answers.Record(ctx, rec); err != nil {
		gs.log.Error("Failed to record answer",
			zap.String("session_id", rec.SessionID),
			zap.Int("question_id", rec.QuestionID),
			zap.Error(err),
		)
	}
}
