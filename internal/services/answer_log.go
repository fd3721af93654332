package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

// AnswerRecord is one judged click
type AnswerRecord struct {
	SessionID  string            `json:"sessionId"`
	Dataset    models.DatasetKey `json:"dataset"`
	QuestionID int               `json:"questionId"`
	PercentX   float64           `json:"percentX"`
	PercentY   float64           `json:"percentY"`
	Correct    bool              `json:"correct"`
	// Skipped marks a question left unanswered via "next"
	Skipped   bool      `json:"skipped"`
	CreatedAt time.Time `json:"createdAt"`
}

// QuestionStats aggregates the answer log for one question
type QuestionStats struct {
	QuestionID int     `json:"questionId"`
	Attempts   int     `json:"attempts"`
	Correct    int     `json:"correct"`
	Skipped    int     `json:"skipped"`
	Accuracy   float64 `json:"accuracy"`
}

// AnswerLog records play-mode answers in SQLite
type AnswerLog struct {
	database *sql.DB
}

// NewAnswerLog creates a new answer log
func NewAnswerLog(database *sql.DB) *AnswerLog {
	return &AnswerLog{
		database: database,
	}
}

// Record stores one answer
func (al *AnswerLog) Record(ctx context.Context, rec AnswerRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	query := `INSERT INTO answers
		(session_id, app, mode, question_id, percent_x, percent_y, correct, skipped, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	var x, y sql.NullFloat64
	if !rec.Skipped {
		x = sql.NullFloat64{Float64: rec.PercentX, Valid: true}
		y = sql.NullFloat64{Float64: rec.PercentY, Valid: true}
	}

	_, err := al.database.ExecContext(ctx, query,
		rec.SessionID, string(rec.Dataset.App), string(rec.Dataset.Mode), rec.QuestionID,
		x, y, rec.Correct, rec.Skipped, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert answer: %w", err)
	}
	return nil
}

// StatsByQuestion aggregates answers for a dataset ordered by question id
func (al *AnswerLog) StatsByQuestion(ctx context.Context, key models.DatasetKey) ([]QuestionStats, error) {
	query := `SELECT question_id, COUNT(*), SUM(correct), SUM(skipped)
		FROM answers WHERE app = ? AND mode = ?
		GROUP BY question_id ORDER BY question_id`

	rows, err := al.database.QueryContext(ctx, query, string(key.App), string(key.Mode))
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	stats := []QuestionStats{}
	for rows.Next() {
		var s QuestionStats
		if err := rows.Scan(&s.QuestionID, &s.Attempts, &s.Correct, &s.Skipped); err != nil {
			return nil, fmt.Errorf("failed to scan stats: %w", err)
		}
		if s.Attempts > 0 {
			s.Accuracy = float64(s.Correct) / float64(s.Attempts) * 100
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// SessionAnswers returns a session's answers in insertion order
func (al *AnswerLog) SessionAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error) {
	query := `SELECT app, mode, question_id, percent_x, percent_y, correct, skipped, created_at
		FROM answers WHERE session_id = ? ORDER BY id`

	rows, err := al.database.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	records := []AnswerRecord{}
	for rows.Next() {
		var rec AnswerRecord
		var app, mode string
		var x, y sql.NullFloat64
		if err := rows.Scan(&app, &mode, &rec.QuestionID, &x, &y, &rec.Correct, &rec.Skipped, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		rec.SessionID = sessionID
		rec.Dataset = models.DatasetKey{App: models.AppType(app), Mode: models.Mode(mode)}
		rec.PercentX, rec.PercentY = x.Float64, y.Float64
		records = append(records, rec)
	}
	return records, rows.Err()
}
