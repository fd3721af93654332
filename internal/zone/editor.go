package zone

import (
	"errors"
	"math"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

var (
	// ErrNoDraft is returned by edits while the editor is idle
	ErrNoDraft = errors.New("no draft zone")
	// ErrInvalidWidth is returned for non-positive or NaN widths
	ErrInvalidWidth = errors.New("width must be positive")
)

// State is the editor's lifecycle state
type State int

const (
	Idle State = iota
	Drafting
)

func (s State) String() string {
	if s == Drafting {
		return "drafting"
	}
	return "idle"
}

// WidthPolicy decides what a width edit does to the zone's left edge
type WidthPolicy int

const (
	// WidthPolicyResize keeps left fixed and resizes in place
	WidthPolicyResize WidthPolicy = iota
	// WidthPolicyRecenter recomputes left around the original click x
	WidthPolicyRecenter
)

// Editor owns one draft zone for an authoring session.
// The zero value is an idle editor using WidthPolicyResize.
type Editor struct {
	Policy WidthPolicy

	state       State
	draft       models.TargetZone
	click       *Point
	manualWidth *float64
}

// State returns the current lifecycle state
func (e *Editor) State() State {
	return e.state
}

// Draft returns the draft zone; ok is false while idle
func (e *Editor) Draft() (models.TargetZone, bool) {
	return e.draft, e.state == Drafting
}

// ClickPoint returns the click that produced the draft, if any
func (e *Editor) ClickPoint() (Point, bool) {
	if e.click == nil {
		return Point{}, false
	}
	return *e.click, true
}

// ManualWidth returns the operator's width override, if set
func (e *Editor) ManualWidth() (float64, bool) {
	if e.manualWidth == nil {
		return 0, false
	}
	return *e.manualWidth, true
}

// Click starts a fresh draft from a click. Any manual width override is
// dropped so the heuristics take over again.
func (e *Editor) Click(p Point, questionText string) Estimate {
	est := EstimateZone(p, questionText)
	e.manualWidth = nil
	e.click = &p
	e.draft = est.Zone
	e.state = Drafting
	return est
}

// ShowSaved loads the last saved zone, or the question's original zone when
// nothing has been saved, as the draft.
func (e *Editor) ShowSaved(saved *models.TargetZone, original models.TargetZone) models.TargetZone {
	if saved != nil {
		e.draft = *saved
	} else {
		e.draft = original
	}
	e.click = nil
	e.state = Drafting
	return e.draft
}

// SetTop moves the top edge, clamped to [0,100]
func (e *Editor) SetTop(v float64) (models.TargetZone, error) {
	if e.state != Drafting {
		return models.TargetZone{}, ErrNoDraft
	}
	e.draft.Top = clamp(v, 0, 100, e.draft.Top)
	return e.draft, nil
}

// SetLeft moves the left edge, clamped to [0,100]
func (e *Editor) SetLeft(v float64) (models.TargetZone, error) {
	if e.state != Drafting {
		return models.TargetZone{}, ErrNoDraft
	}
	e.draft.Left = clamp(v, 0, 100, e.draft.Left)
	return e.draft, nil
}

// SetHeight resizes the zone vertically, clamped to [1,100]
func (e *Editor) SetHeight(v float64) (models.TargetZone, error) {
	if e.state != Drafting {
		return models.TargetZone{}, ErrNoDraft
	}
	e.draft.Height = clamp(v, 1, 100, e.draft.Height)
	return e.draft, nil
}

// SetWidth resizes the zone horizontally and records a manual override.
// Under WidthPolicyResize left stays where it is.
func (e *Editor) SetWidth(v float64) (models.TargetZone, error) {
	if e.state != Drafting {
		return models.TargetZone{}, ErrNoDraft
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return e.draft, ErrInvalidWidth
	}
	e.manualWidth = &v
	e.draft.Width = v
	if e.Policy == WidthPolicyRecenter && e.click != nil {
		e.draft.Left = math.Max(0, e.click.X-v/2)
	}
	return e.draft, nil
}

// Commit ends drafting after a successful save and returns the saved zone
func (e *Editor) Commit() (models.TargetZone, error) {
	if e.state != Drafting {
		return models.TargetZone{}, ErrNoDraft
	}
	z := e.draft
	e.reset()
	return z, nil
}

// Discard drops any unsaved draft
func (e *Editor) Discard() {
	e.reset()
}

func (e *Editor) reset() {
	e.state = Idle
	e.draft = models.TargetZone{}
	e.click = nil
	e.manualWidth = nil
}

// clamp bounds v to [lo,hi]; NaN keeps the previous value
func clamp(v, lo, hi, prev float64) float64 {
	if math.IsNaN(v) {
		return prev
	}
	return math.Max(lo, math.Min(hi, v))
}
