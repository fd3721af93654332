package services

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

var wordButtons = models.DatasetKey{App: models.AppWord, Mode: models.ModeButton}

func sampleQuestions() []models.Question {
	return []models.Question{
		{
			ID:           1,
			AppType:      models.AppWord,
			QuestionText: "挿入タブを探してください",
			ImagePath:    "/Word画像/Word画面.png",
			TargetZone:   models.TargetZone{Top: 20, Left: 5, Width: 10, Height: 40},
		},
		{
			ID:           2,
			AppType:      models.AppWord,
			QuestionText: "デザインタブを探してください",
			ImagePath:    "/Word画像/Word画面.png",
			TargetZone:   models.TargetZone{Top: 0, Left: 20, Width: 6, Height: 8},
		},
		{
			ID:           3,
			AppType:      models.AppWord,
			QuestionText: "レイアウトタブを探してください",
			ImagePath:    "/Word画像/Word画面.png",
			TargetZone:   models.TargetZone{Top: 0, Left: 30, Width: 7, Height: 8},
		},
	}
}

// writeDataset writes questions as the dataset file for key under dir.
func writeDataset(t *testing.T, dir string, key models.DatasetKey, questions []models.Question) string {
	t.Helper()
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		t.Fatalf("marshal dataset: %v", err)
	}
	path := filepath.Join(dir, key.FileName())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

// newTestStore creates a development store with the sample dataset.
func newTestStore(t *testing.T) (*DatasetStore, string) {
	t.Helper()
	dir := t.TempDir()
	path := writeDataset(t, dir, wordButtons, sampleQuestions())
	return NewDatasetStore(dir, false, zap.NewNop()), path
}

type recordingPublisher struct {
	keys      []models.DatasetKey
	questions []models.Question
}

func (p *recordingPublisher) PublishQuestionUpdate(key models.DatasetKey, q models.Question) {
	p.keys = append(p.keys, key)
	p.questions = append(p.questions, q)
}
