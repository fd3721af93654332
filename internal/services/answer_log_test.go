package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/haratakeru-crypto/Tab-button-game/internal/db"
	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

func newTestAnswerLog(t *testing.T) *AnswerLog {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "answers.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return NewAnswerLog(database)
}

// TestStatsByQuestion aggregates correct, wrong and skipped answers per question.
func TestStatsByQuestion(t *testing.T) {
	al := newTestAnswerLog(t)
	ctx := context.Background()
	other := models.DatasetKey{App: models.AppExcel, Mode: models.ModeTab}

	records := []AnswerRecord{
		{SessionID: "s1", Dataset: wordButtons, QuestionID: 1, PercentX: 10, PercentY: 30, Correct: true},
		{SessionID: "s2", Dataset: wordButtons, QuestionID: 1, PercentX: 90, PercentY: 90},
		{SessionID: "s1", Dataset: wordButtons, QuestionID: 2, Skipped: true},
		{SessionID: "s3", Dataset: other, QuestionID: 1, Correct: true},
	}
	for _, rec := range records {
		if err := al.Record(ctx, rec); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	stats, err := al.StatsByQuestion(ctx, wordButtons)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := []QuestionStats{
		{QuestionID: 1, Attempts: 2, Correct: 1, Accuracy: 50},
		{QuestionID: 2, Attempts: 1, Skipped: 1},
	}
	if len(stats) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), stats)
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("row %d: expected %+v, got %+v", i, want[i], stats[i])
		}
	}
}

// TestStatsByQuestionEmpty returns an empty slice for a dataset with no answers.
func TestStatsByQuestionEmpty(t *testing.T) {
	al := newTestAnswerLog(t)

	stats, err := al.StatsByQuestion(context.Background(), wordButtons)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats == nil || len(stats) != 0 {
		t.Fatalf("expected an empty slice, got %#v", stats)
	}
}

// TestSkippedAnswerHasNoCoordinates stores skips without a click point.
func TestSkippedAnswerHasNoCoordinates(t *testing.T) {
	al := newTestAnswerLog(t)
	ctx := context.Background()

	if err := al.Record(ctx, AnswerRecord{SessionID: "s1", Dataset: wordButtons, QuestionID: 2, PercentX: 40, PercentY: 40, Skipped: true}); err != nil {
		t.Fatalf("record: %v", err)
	}
	recs, err := al.SessionAnswers(ctx, "s1")
	if err != nil {
		t.Fatalf("session answers: %v", err)
	}
	if len(recs) != 1 || !recs[0].Skipped || recs[0].PercentX != 0 || recs[0].PercentY != 0 {
		t.Fatalf("unexpected records %+v", recs)
	}
}
