package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

// UpdatePublisher is notified after a question has been persisted
type UpdatePublisher interface {
	PublishQuestionUpdate(key models.DatasetKey, q models.Question)
}

// DatasetStore reads and writes the per app/mode question JSON files.
//
// Every update is a full read-modify-write of one file. Updates to the same
// dataset are serialized in-process; separate processes writing the same
// file still race and the last writer wins.
type DatasetStore struct {
	dir        string
	production bool
	log        *zap.Logger

	mu        sync.Mutex
	locks     map[models.DatasetKey]*sync.RWMutex
	publisher UpdatePublisher
}

// NewDatasetStore creates a store over dir. When production is true all
// updates are rejected with ErrForbidden.
func NewDatasetStore(dir string, production bool, log *zap.Logger) *DatasetStore {
	return &DatasetStore{
		dir:        dir,
		production: production,
		log:        log,
		locks:      make(map[models.DatasetKey]*sync.RWMutex),
	}
}

// SetPublisher registers the receiver of update notifications
func (s *DatasetStore) SetPublisher(p UpdatePublisher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publisher = p
}

// Production reports whether writes are disabled
func (s *DatasetStore) Production() bool {
	return s.production
}

// Path returns the file backing a dataset
func (s *DatasetStore) Path(key models.DatasetKey) string {
	return filepath.Join(s.dir, key.FileName())
}

func (s *DatasetStore) lockFor(key models.DatasetKey) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[key] = l
	}
	return l
}

// Load returns the dataset's questions in file order
func (s *DatasetStore) Load(ctx context.Context, key models.DatasetKey) ([]models.Question, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := s.lockFor(key)
	l.RLock()
	defer l.RUnlock()

	return s.read(key)
}

// Find returns one question by id
func (s *DatasetStore) Find(ctx context.Context, key models.DatasetKey, id int) (*models.Question, error) {
	questions, err := s.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		if questions[i].ID == id {
			return &questions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: id %d in %s", ErrNotFound, id, key)
}

// Update overwrites the patched fields of question id and persists the
// whole dataset. The returned question is what was written.
func (s *DatasetStore) Update(ctx context.Context, key models.DatasetKey, id int, patch models.QuestionPatch) (*models.Question, error) {
	if s.production {
		return nil, ErrForbidden
	}
	if id == 0 {
		return nil, fmt.Errorf("%w: questionId is required", ErrMalformedRequest)
	}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := s.lockFor(key)
	l.Lock()
	questions, err := s.read(key)
	if err != nil {
		l.Unlock()
		return nil, err
	}

	idx := -1
	for i := range questions {
		if questions[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		l.Unlock()
		return nil, fmt.Errorf("%w: id %d in %s", ErrNotFound, id, key)
	}

	patch.Apply(&questions[idx])
	if err := s.write(key, questions); err != nil {
		l.Unlock()
		return nil, err
	}
	updated := questions[idx].Clone()
	l.Unlock()

	s.log.Info("Updated question",
		zap.String("dataset", key.String()),
		zap.Int("question_id", id),
		zap.Bool("target_zone", patch.TargetZone != nil),
		zap.Bool("explanation_text", patch.ExplanationText != nil),
	)

	s.mu.Lock()
	publisher := s.publisher
	s.mu.Unlock()
	if publisher != nil {
		publisher.PublishQuestionUpdate(key, updated.Clone())
	}
	return &updated, nil
}

// read loads and parses a dataset file. Must be called with the dataset lock held.
func (s *DatasetStore) read(key models.DatasetKey) ([]models.Question, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrStorage, key.FileName(), err)
	}

	var questions []models.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", ErrStorage, key.FileName(), err)
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return questions, nil
}

// write atomically replaces a dataset file (temp file → fsync → rename).
// Must be called with the dataset write lock held.
func (s *DatasetStore) write(key models.DatasetKey, questions []models.Question) error {
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal %s: %v", ErrStorage, key.FileName(), err)
	}

	if err := writeFileAtomic(s.Path(key), data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
