package services

import (
	"context"
	"fmt"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
	"github.com/haratakeru-crypto/Tab-button-game/internal/zone"
)

// DraftView is the authoring state returned to the operator
type DraftView struct {
	QuestionID  int                `json:"questionId"`
	State       string             `json:"state"`
	Draft       *models.TargetZone `json:"draft,omitempty"`
	Click       *zone.Point        `json:"click,omitempty"`
	ManualWidth *float64           `json:"manualWidth,omitempty"`
	// AutoWidth is what the text heuristic alone would pick for this question
	AutoWidth float64        `json:"autoWidth"`
	TabName   string         `json:"tabName,omitempty"`
	Estimate  *zone.Estimate `json:"estimate,omitempty"`
	Snippet   string         `json:"snippet,omitempty"`
	// Skipped is set when a click arrived before the image had a size
	Skipped bool `json:"skipped,omitempty"`
}

// DraftEdit carries the fields to change; nil fields are left alone
type DraftEdit struct {
	Top    *float64 `json:"top,omitempty"`
	Left   *float64 `json:"left,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
}

// Gateway is the persistence side of the authoring flow
type Gateway interface {
	Update(ctx context.Context, key models.DatasetKey, id int, patch models.QuestionPatch) (*models.Question, error)
}

func (s *Session) authoringQuestionLocked() (*models.Question, error) {
	if !s.AuthoringEnabled() {
		return nil, ErrAuthoringDisabled
	}
	q := s.currentLocked()
	if q == nil {
		return nil, ErrNoQuestions
	}
	return q, nil
}

func (s *Session) draftViewLocked(q *models.Question) DraftView {
	v := DraftView{
		QuestionID: q.ID,
		State:      s.editor.State().String(),
		AutoWidth:  zone.AutoWidth(q.QuestionText),
		TabName:    zone.ExtractTabName(q.QuestionText),
	}
	if d, ok := s.editor.Draft(); ok {
		v.Draft = &d
		if snippet, err := zone.Snippet(d); err == nil {
			v.Snippet = snippet
		}
	}
	if p, ok := s.editor.ClickPoint(); ok {
		v.Click = &p
	}
	if w, ok := s.editor.ManualWidth(); ok {
		v.ManualWidth = &w
	}
	return v
}

// Draft returns the current authoring state
func (s *Session) Draft() (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.authoringQuestionLocked()
	if err != nil {
		return DraftView{}, err
	}
	return s.draftViewLocked(q), nil
}

// AuthoringClick estimates a fresh draft zone from a pixel click
func (s *Session) AuthoringClick(clickX, clickY, width, height float64) (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	q, err := s.authoringQuestionLocked()
	if err != nil {
		return DraftView{}, err
	}

	p, ok := zone.Normalize(clickX, clickY, width, height)
	if !ok {
		v := s.draftViewLocked(q)
		v.Skipped = true
		return v, nil
	}

	est := s.editor.Click(p, q.QuestionText)
	v := s.draftViewLocked(q)
	v.Estimate = &est
	return v, nil
}

// ShowSaved loads the zone saved in this session, or the question's
// current zone, as the draft
func (s *Session) ShowSaved() (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	q, err := s.authoringQuestionLocked()
	if err != nil {
		return DraftView{}, err
	}
	s.editor.ShowSaved(s.savedZone, q.TargetZone)
	return s.draftViewLocked(q), nil
}

// EditDraft applies operator edits to the draft in field order top, left,
// width, height
func (s *Session) EditDraft(edit DraftEdit) (DraftView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	q, err := s.authoringQuestionLocked()
	if err != nil {
		return DraftView{}, err
	}
	if edit.Top != nil {
		if _, err := s.editor.SetTop(*edit.Top); err != nil {
			return DraftView{}, err
		}
	}
	if edit.Left != nil {
		if _, err := s.editor.SetLeft(*edit.Left); err != nil {
			return DraftView{}, err
		}
	}
	if edit.Width != nil {
		if _, err := s.editor.SetWidth(*edit.Width); err != nil {
			return DraftView{}, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
		}
	}
	if edit.Height != nil {
		if _, err := s.editor.SetHeight(*edit.Height); err != nil {
			return DraftView{}, err
		}
	}
	return s.draftViewLocked(q), nil
}

// beginSaveLocked marks a question as saving; only one save per question
// may be in flight
func (s *Session) beginSaveLocked(id int) error {
	if s.saving[id] {
		return ErrSaveInProgress
	}
	s.saving[id] = true
	return nil
}

// SaveZone persists the draft as the question's target zone. On failure
// the draft is kept for a manual retry.
func (s *Session) SaveZone(ctx context.Context, gw Gateway) (*models.Question, error) {
	s.mu.Lock()
	q, err := s.authoringQuestionLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	draft, ok := s.editor.Draft()
	if !ok {
		s.mu.Unlock()
		return nil, zone.ErrNoDraft
	}
	id := q.ID
	if err := s.beginSaveLocked(id); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	updated, err := gw.Update(ctx, s.dataset, id, models.QuestionPatch{TargetZone: &draft})

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saving, id)
	if err != nil {
		return nil, err
	}

	s.applyUpdateLocked(*updated)
	// The operator may have moved on to another question while saving
	if cur := s.currentLocked(); cur != nil && cur.ID == id {
		saved := updated.TargetZone
		s.savedZone = &saved
		if d, ok := s.editor.Draft(); ok && d == draft {
			s.editor.Commit()
		}
	}
	return updated, nil
}

// SaveExplanation persists explanation text for the current question
func (s *Session) SaveExplanation(ctx context.Context, gw Gateway, text string) (*models.Question, error) {
	s.mu.Lock()
	q, err := s.authoringQuestionLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	id := q.ID
	if err := s.beginSaveLocked(id); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	updated, err := gw.Update(ctx, s.dataset, id, models.QuestionPatch{ExplanationText: &text})

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.saving, id)
	if err != nil {
		return nil, err
	}
	s.applyUpdateLocked(*updated)
	return updated, nil
}
