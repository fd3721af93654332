package services

import (
	"sync"
	"time"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
	"github.com/haratakeru-crypto/Tab-button-game/internal/zone"
)

// Score counts answered questions
type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Accuracy is the percentage of correct answers
func (s Score) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total) * 100
}

// ClickResult is the outcome of a play-mode click
type ClickResult struct {
	// Skipped is set when the image had no rendered size yet
	Skipped         bool               `json:"skipped,omitempty"`
	AlreadyAnswered bool               `json:"alreadyAnswered,omitempty"`
	QuestionID      int                `json:"questionId"`
	Correct         bool               `json:"correct"`
	Point           *zone.Point        `json:"point,omitempty"`
	TargetZone      *models.TargetZone `json:"targetZone,omitempty"`
	Score           Score              `json:"score"`
}

// SessionState is a snapshot of a session for clients
type SessionState struct {
	ID          string            `json:"sessionId"`
	Dataset     models.DatasetKey `json:"dataset"`
	Debug       bool              `json:"debug"`
	Authoring   bool              `json:"authoring"`
	Index       int               `json:"index"`
	Total       int               `json:"total"`
	Question    models.Question   `json:"question"`
	Answered    bool              `json:"answered"`
	Correct     *bool             `json:"correct,omitempty"`
	Score       Score             `json:"score"`
	Accuracy    float64           `json:"accuracy"`
	Completed   bool              `json:"completed"`
	WrongIDs    []int             `json:"wrongQuestionIds"`
	CanPrevious bool              `json:"canPrevious"`
	CanNext     bool              `json:"canNext"`
}

// Session is one player's run through a dataset. Its questions are a deep
// copy of the loaded dataset and never alias the store's data.
type Session struct {
	mu sync.Mutex

	id      string
	dataset models.DatasetKey
	debug   bool

	all       []models.Question
	questions []models.Question
	index     int
	score     Score
	answer    *bool
	completed bool
	wrongIDs  []int

	editor     zone.Editor
	savedZone  *models.TargetZone
	saving     map[int]bool
	lastActive time.Time
}

func newSession(id string, key models.DatasetKey, debug bool, questions []models.Question) *Session {
	all := models.CloneQuestions(questions)
	return &Session{
		id:         id,
		dataset:    key,
		debug:      debug,
		all:        all,
		questions:  models.CloneQuestions(all),
		saving:     make(map[int]bool),
		lastActive: time.Now(),
	}
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Dataset returns the dataset the session plays
func (s *Session) Dataset() models.DatasetKey {
	return s.dataset
}

// AuthoringEnabled reports whether zone and explanation editing is allowed
func (s *Session) AuthoringEnabled() bool {
	return s.debug && s.dataset.Mode == models.ModeButton
}

// State returns a snapshot of the session
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() SessionState {
	st := SessionState{
		ID:          s.id,
		Dataset:     s.dataset,
		Debug:       s.debug,
		Authoring:   s.AuthoringEnabled(),
		Index:       s.index,
		Total:       len(s.questions),
		Score:       s.score,
		Accuracy:    s.score.Accuracy(),
		Completed:   s.completed,
		WrongIDs:    append([]int{}, s.wrongIDs...),
		CanPrevious: s.index > 0,
		CanNext:     s.index < len(s.questions)-1,
		Answered:    s.answer != nil,
	}
	if s.answer != nil {
		correct := *s.answer
		st.Correct = &correct
	}
	if q := s.currentLocked(); q != nil {
		st.Question = q.Clone()
	}
	return st
}

func (s *Session) currentLocked() *models.Question {
	if s.index < 0 || s.index >= len(s.questions) {
		return nil
	}
	return &s.questions[s.index]
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}

// Click judges a pixel click on the current question. A question is
// answered once; later clicks are reported as AlreadyAnswered.
func (s *Session) Click(clickX, clickY, width, height float64) (ClickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	q := s.currentLocked()
	if q == nil {
		return ClickResult{}, ErrNoQuestions
	}
	res := ClickResult{QuestionID: q.ID, Score: s.score}

	if s.answer != nil {
		res.AlreadyAnswered = true
		res.Correct = *s.answer
		return res, nil
	}

	j, ok := zone.JudgeClick(clickX, clickY, width, height, q.TargetZone)
	if !ok {
		res.Skipped = true
		return res, nil
	}

	s.recordAnswerLocked(q.ID, j.Correct)
	z := q.TargetZone
	res.Correct = j.Correct
	res.Point = &j.Point
	res.TargetZone = &z
	res.Score = s.score
	return res, nil
}

func (s *Session) recordAnswerLocked(questionID int, correct bool) {
	s.answer = &correct
	s.score.Total++
	if correct {
		s.score.Correct++
		return
	}
	s.markWrongLocked(questionID)
}

func (s *Session) markWrongLocked(questionID int) {
	for _, id := range s.wrongIDs {
		if id == questionID {
			return
		}
	}
	s.wrongIDs = append(s.wrongIDs, questionID)
}

// Next moves to the following question. Leaving a question unanswered
// counts it as wrong. On the last question the session completes.
// skippedID is the question counted as wrong, or 0.
func (s *Session) Next() (state SessionState, skippedID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if q := s.currentLocked(); q != nil && s.answer == nil && !s.completed {
		s.score.Total++
		s.markWrongLocked(q.ID)
		skippedID = q.ID
	}

	if s.index < len(s.questions)-1 {
		s.index++
		s.resetQuestionLocked()
	} else {
		s.completed = true
		s.editor.Discard()
	}
	return s.stateLocked(), skippedID
}

// Previous moves back one question without touching the score
func (s *Session) Previous() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.index > 0 {
		s.index--
		s.resetQuestionLocked()
		s.completed = false
	}
	return s.stateLocked()
}

// Restart replays every question with a fresh score
func (s *Session) Restart() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.questions = models.CloneQuestions(s.all)
	s.resetRunLocked()
	return s.stateLocked()
}

// RetryWrong replays only the questions answered wrongly in this run
func (s *Session) RetryWrong() (SessionState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	wrong := make(map[int]bool, len(s.wrongIDs))
	for _, id := range s.wrongIDs {
		wrong[id] = true
	}
	var retry []models.Question
	for i := range s.all {
		if wrong[s.all[i].ID] {
			retry = append(retry, s.all[i].Clone())
		}
	}
	if len(retry) == 0 {
		return s.stateLocked(), ErrNoQuestions
	}

	s.questions = retry
	s.resetRunLocked()
	return s.stateLocked(), nil
}

func (s *Session) resetRunLocked() {
	s.index = 0
	s.score = Score{}
	s.completed = false
	s.wrongIDs = nil
	s.resetQuestionLocked()
}

// resetQuestionLocked clears per-question state, discarding any unsaved draft
func (s *Session) resetQuestionLocked() {
	s.answer = nil
	s.savedZone = nil
	s.editor.Discard()
}

// applyUpdateLocked mirrors a persisted question into the session copies
func (s *Session) applyUpdateLocked(updated models.Question) {
	for i := range s.all {
		if s.all[i].ID == updated.ID {
			s.all[i] = updated.Clone()
		}
	}
	for i := range s.questions {
		if s.questions[i].ID == updated.ID {
			s.questions[i] = updated.Clone()
		}
	}
}
