package zoneedit

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
	"github.com/haratakeru-crypto/Tab-button-game/internal/zone"
)

var wordButtons = models.DatasetKey{App: models.AppWord, Mode: models.ModeButton}

type fakeGateway struct {
	patches []models.QuestionPatch
	err     error
}

func (g *fakeGateway) Update(_ context.Context, _ models.DatasetKey, id int, patch models.QuestionPatch) (*models.Question, error) {
	g.patches = append(g.patches, patch)
	if g.err != nil {
		return nil, g.err
	}
	q := models.Question{ID: id, QuestionText: "挿入タブを探してください", TargetZone: *patch.TargetZone}
	return &q, nil
}

func testQuestions() []models.Question {
	return []models.Question{
		{ID: 1, QuestionText: "挿入タブを探してください", TargetZone: models.TargetZone{Top: 20, Left: 5, Width: 10, Height: 40}},
		{ID: 2, QuestionText: "デザインタブを探してください", TargetZone: models.TargetZone{Top: 0, Left: 20, Width: 6, Height: 8}},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds keys through Update and returns the final model and last command.
func send(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Model)
	}
	return m, cmd
}

// typeText enters a value into the active text input.
func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

// TestClickEstimatesDraft enters a click and gets a draft from the estimator.
func TestClickEstimatesDraft(t *testing.T) {
	m := NewModel(&fakeGateway{}, wordButtons, testQuestions(), Options{NoColor: true})

	m, _ = send(t, m, "c")
	m = typeText(t, m, "10,20")
	m, _ = send(t, m, "enter")

	d, ok := m.editor.Draft()
	if !ok {
		t.Fatalf("expected a draft, err=%v", m.err)
	}
	// x=10 falls in the 挿入 band: width 4, centered on the click
	want := models.TargetZone{Top: 16, Left: 8, Width: 4, Height: zone.DraftHeight}
	if d != want {
		t.Fatalf("expected %+v, got %+v", want, d)
	}
	if !strings.Contains(m.View(), `"targetZone"`) {
		t.Fatalf("view should include the snippet:\n%s", m.View())
	}
}

// TestKeysAdjustDraft nudges and clamps the draft.
func TestKeysAdjustDraft(t *testing.T) {
	m := NewModel(&fakeGateway{}, wordButtons, testQuestions(), Options{NoColor: true})

	m, _ = send(t, m, "h")
	if !errors.Is(m.err, zone.ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft while idle, got %v", m.err)
	}

	m, _ = send(t, m, "o", "l", "j", "L", "J")
	d, _ := m.editor.Draft()
	want := models.TargetZone{Top: 20.5, Left: 5.5, Width: 10.5, Height: 40.5}
	if d != want {
		t.Fatalf("expected %+v, got %+v", want, d)
	}

	m, _ = send(t, m, "w")
	m = typeText(t, m, "-3")
	m, _ = send(t, m, "enter")
	if !errors.Is(m.err, zone.ErrInvalidWidth) {
		t.Fatalf("expected ErrInvalidWidth, got %v", m.err)
	}
}

// TestSaveCommitsDraft runs the save command and applies its result.
func TestSaveCommitsDraft(t *testing.T) {
	gw := &fakeGateway{}
	m := NewModel(gw, wordButtons, testQuestions(), Options{NoColor: true})

	m, _ = send(t, m, "o", "K")
	m, cmd := send(t, m, "s")
	if cmd == nil || !m.saving {
		t.Fatalf("expected a pending save")
	}

	next, _ := m.Update(cmd())
	m = next.(Model)
	if m.saving || m.err != nil {
		t.Fatalf("unexpected state saving=%v err=%v", m.saving, m.err)
	}
	if m.editor.State() != zone.Idle {
		t.Fatalf("draft should be committed, state %s", m.editor.State())
	}
	if len(gw.patches) != 1 || gw.patches[0].TargetZone.Height != 39.5 {
		t.Fatalf("unexpected patches %+v", gw.patches)
	}
	if m.questions[0].TargetZone.Height != 39.5 {
		t.Fatalf("question not refreshed: %+v", m.questions[0].TargetZone)
	}

	m, _ = send(t, m, "o")
	if d, _ := m.editor.Draft(); d.Height != 39.5 {
		t.Fatalf("show saved should load the saved zone, got %+v", d)
	}
}

// TestFailedSaveKeepsDraft leaves the draft in place for a retry.
func TestFailedSaveKeepsDraft(t *testing.T) {
	m := NewModel(&fakeGateway{err: errors.New("disk full")}, wordButtons, testQuestions(), Options{NoColor: true})

	m, _ = send(t, m, "o")
	m, cmd := send(t, m, "s")
	next, _ := m.Update(cmd())
	m = next.(Model)

	if m.err == nil || m.editor.State() != zone.Drafting {
		t.Fatalf("expected error and kept draft, err=%v state=%s", m.err, m.editor.State())
	}
}

// TestNavigationDiscardsDraft drops the draft when changing question.
func TestNavigationDiscardsDraft(t *testing.T) {
	m := NewModel(&fakeGateway{}, wordButtons, testQuestions(), Options{NoColor: true})

	m, _ = send(t, m, "o", "]")
	if m.index != 1 || m.editor.State() != zone.Idle {
		t.Fatalf("expected question 2 and idle editor, got index %d state %s", m.index, m.editor.State())
	}
	m, _ = send(t, m, "]")
	if m.index != 1 {
		t.Fatalf("index should stop at the last question, got %d", m.index)
	}
}

// TestParsePoint accepts comma or space separators and clamps.
func TestParsePoint(t *testing.T) {
	x, y, err := parsePoint("120 -5")
	if err != nil || x != 100 || y != 0 {
		t.Fatalf("got %v %v %v", x, y, err)
	}
	if _, _, err := parsePoint("12"); err == nil {
		t.Fatalf("expected error for a single value")
	}
}
