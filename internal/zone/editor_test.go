package zone

import (
	"errors"
	"math"
	"testing"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

// TestEditorIdleRejectsEdits ensures edits need a draft.
func TestEditorIdleRejectsEdits(t *testing.T) {
	var e Editor
	if e.State() != Idle {
		t.Fatalf("expected idle, got %s", e.State())
	}
	if _, err := e.SetTop(10); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
	if _, err := e.SetWidth(10); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
	if _, err := e.Commit(); !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

// TestEditorClamps covers the per-field clamp policy.
func TestEditorClamps(t *testing.T) {
	var e Editor
	e.Click(Point{X: 50, Y: 50}, "")

	z, _ := e.SetTop(-5)
	if z.Top != 0 {
		t.Fatalf("expected top 0, got %v", z.Top)
	}
	z, _ = e.SetTop(150)
	if z.Top != 100 {
		t.Fatalf("expected top 100, got %v", z.Top)
	}
	z, _ = e.SetLeft(-1)
	if z.Left != 0 {
		t.Fatalf("expected left 0, got %v", z.Left)
	}
	z, _ = e.SetHeight(0.2)
	if z.Height != 1 {
		t.Fatalf("expected height 1, got %v", z.Height)
	}
	z, _ = e.SetHeight(400)
	if z.Height != 100 {
		t.Fatalf("expected height 100, got %v", z.Height)
	}
	z, _ = e.SetTop(math.NaN())
	if z.Top != 100 {
		t.Fatalf("NaN should keep the previous top, got %v", z.Top)
	}
}

// TestEditorWidthResizeInPlace ensures width edits keep left and set the override.
func TestEditorWidthResizeInPlace(t *testing.T) {
	var e Editor
	est := e.Click(Point{X: 30, Y: 10}, "")
	left := est.Zone.Left

	z, err := e.SetWidth(20)
	if err != nil {
		t.Fatalf("set width: %v", err)
	}
	if z.Left != left || z.Width != 20 {
		t.Fatalf("expected left %v width 20, got %+v", left, z)
	}
	if w, ok := e.ManualWidth(); !ok || w != 20 {
		t.Fatalf("expected manual width 20, got %v %t", w, ok)
	}
	if _, err := e.SetWidth(0); !errors.Is(err, ErrInvalidWidth) {
		t.Fatalf("expected ErrInvalidWidth, got %v", err)
	}
	if d, _ := e.Draft(); d.Width != 20 {
		t.Fatalf("rejected width must not change the draft, got %v", d.Width)
	}
}

// TestEditorWidthRecenter covers the legacy recenter policy.
func TestEditorWidthRecenter(t *testing.T) {
	e := Editor{Policy: WidthPolicyRecenter}
	e.Click(Point{X: 30, Y: 10}, "")
	z, _ := e.SetWidth(10)
	if z.Left != 25 {
		t.Fatalf("expected left 25, got %v", z.Left)
	}
}

// TestEditorFreshClickClearsOverride ensures a new click hands width back to the heuristics.
func TestEditorFreshClickClearsOverride(t *testing.T) {
	var e Editor
	e.Click(Point{X: 60, Y: 10}, "")
	e.SetWidth(25)
	est := e.Click(Point{X: 60, Y: 10}, "")
	if _, ok := e.ManualWidth(); ok {
		t.Fatalf("expected manual width cleared")
	}
	if est.Zone.Width != DefaultWidth {
		t.Fatalf("expected heuristic width, got %v", est.Zone.Width)
	}
}

// TestEditorShowSaved prefers the saved zone and falls back to the original.
func TestEditorShowSaved(t *testing.T) {
	var e Editor
	original := models.TargetZone{Top: 1, Left: 2, Width: 3, Height: 4}
	saved := models.TargetZone{Top: 5, Left: 6, Width: 7, Height: 8}

	if got := e.ShowSaved(nil, original); got != original {
		t.Fatalf("expected original, got %+v", got)
	}
	if got := e.ShowSaved(&saved, original); got != saved {
		t.Fatalf("expected saved, got %+v", got)
	}
	if _, ok := e.ClickPoint(); ok {
		t.Fatalf("show saved must clear the click")
	}
	if e.State() != Drafting {
		t.Fatalf("expected drafting, got %s", e.State())
	}
}

// TestEditorCommitAndDiscard covers the transitions back to idle.
func TestEditorCommitAndDiscard(t *testing.T) {
	var e Editor
	e.Click(Point{X: 10, Y: 10}, "")
	e.SetHeight(12)
	z, err := e.Commit()
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if z.Height != 12 || e.State() != Idle {
		t.Fatalf("unexpected commit result %+v state %s", z, e.State())
	}

	e.Click(Point{X: 10, Y: 10}, "")
	e.Discard()
	if _, ok := e.Draft(); ok {
		t.Fatalf("expected no draft after discard")
	}
}
