// Package zoneedit is a terminal editor for question target zones. Clicks
// are entered as percentages, so no image is needed.
package zoneedit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
	"github.com/haratakeru-crypto/Tab-button-game/internal/zone"
)

// nudge is the step for keyboard moves and resizes, in percent
const nudge = 0.5

// Gateway persists a question patch
type Gateway interface {
	Update(ctx context.Context, key models.DatasetKey, id int, patch models.QuestionPatch) (*models.Question, error)
}

type inputMode int

const (
	inputNone inputMode = iota
	inputClick
	inputWidth
)

// Model is the Bubble Tea model of the zone editor.
type Model struct {
	gateway   Gateway
	key       models.DatasetKey
	questions []models.Question
	index     int

	editor   zone.Editor
	estimate *zone.Estimate
	saved    map[int]models.TargetZone
	saving   bool

	mode    inputMode
	input   textinput.Model
	status  string
	err     error
	noColor bool
}

// Options configures the editor model.
type Options struct {
	NoColor bool
	Policy  zone.WidthPolicy
}

// NewModel builds an editor over a loaded dataset.
func NewModel(gw Gateway, key models.DatasetKey, questions []models.Question, opts Options) Model {
	in := textinput.New()
	in.CharLimit = 32
	return Model{
		gateway:   gw,
		key:       key,
		questions: models.CloneQuestions(questions),
		editor:    zone.Editor{Policy: opts.Policy},
		saved:     make(map[int]models.TargetZone),
		input:     in,
		noColor:   opts.NoColor,
	}
}

// savedMsg reports the result of an asynchronous save.
type savedMsg struct {
	questionID int
	zone       models.TargetZone
	question   *models.Question
	err        error
}

// Init has no startup work.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and save results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case savedMsg:
		return m.applySaved(typed), nil
	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.updateInput(typed)
		}
		return m.updateKeys(typed)
	}
	return m, nil
}

func (m Model) current() *models.Question {
	if m.index < 0 || m.index >= len(m.questions) {
		return nil
	}
	return &m.questions[m.index]
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := m.current()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "]", "n":
		m = m.move(1)
	case "[", "p":
		m = m.move(-1)
	case "c":
		m = m.startInput(inputClick, "click x,y %: ")
	case "w":
		m = m.startInput(inputWidth, "width %: ")
	case "o":
		if q != nil {
			var saved *models.TargetZone
			if z, ok := m.saved[q.ID]; ok {
				saved = &z
			}
			m.editor.ShowSaved(saved, q.TargetZone)
			m.estimate = nil
			m.status = "showing saved zone"
		}
	case "esc":
		m.editor.Discard()
		m.estimate = nil
		m.status = "draft discarded"
	case "h":
		m = m.edit(func(e *zone.Editor, d models.TargetZone) (models.TargetZone, error) { return e.SetLeft(d.Left - nudge) })
	case "l":
		m = m.edit(func(e *zone.Editor, d models.TargetZone) (models.TargetZone, error) { return e.SetLeft(d.Left + nudge) })
	case "k":
		m = m.edit(func(e *zone.Editor, d models.TargetZone) (models.TargetZone, error) { return e.SetTop(d.Top - nudge) })
	case "j":
		m = m.edit(func(e *zone.Editor, d models.TargetZone) (models.TargetZone, error) { return e.SetTop(d.Top + nudge) })
	case "H":
		m = m.edit(func(e *zone.Editor, d models.TargetZone) (models.TargetZone, error) { return e.SetWidth(d.Width - nudge) })
	case "L":
		m = m.edit(func(e *zone.Editor, d models.TargetZone) (models.TargetZone, error) { return e.SetWidth(d.Width + nudge) })
	case "K":
		m = m.edit(func(e *zone.Editor, d models.TargetZone) (models.TargetZone, error) { return e.SetHeight(d.Height - nudge) })
	case "J":
		m = m.edit(func(e *zone.Editor, d models.TargetZone) (models.TargetZone, error) { return e.SetHeight(d.Height + nudge) })
	case "s", "enter":
		return m.save()
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = inputNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		mode := m.mode
		m.mode = inputNone
		m.input.Blur()
		if mode == inputClick {
			return m.applyClick(value), nil
		}
		return m.applyWidth(value), nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) startInput(mode inputMode, prompt string) Model {
	if m.current() == nil {
		return m
	}
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue("")
	m.input.Focus()
	return m
}

// move changes question and drops the draft
func (m Model) move(delta int) Model {
	next := m.index + delta
	if next < 0 || next >= len(m.questions) {
		return m
	}
	m.index = next
	m.editor.Discard()
	m.estimate = nil
	m.err = nil
	m.status = ""
	return m
}

func (m Model) edit(fn func(*zone.Editor, models.TargetZone) (models.TargetZone, error)) Model {
	d, ok := m.editor.Draft()
	if !ok {
		m.err = zone.ErrNoDraft
		return m
	}
	if _, err := fn(&m.editor, d); err != nil {
		m.err = err
		return m
	}
	m.err = nil
	return m
}

func (m Model) applyClick(value string) Model {
	q := m.current()
	if q == nil {
		return m
	}
	x, y, err := parsePoint(value)
	if err != nil {
		m.err = err
		return m
	}
	est := m.editor.Click(zone.Point{X: x, Y: y}, q.QuestionText)
	m.estimate = &est
	m.err = nil
	m.status = fmt.Sprintf("estimated from %s", est.Source)
	return m
}

func (m Model) applyWidth(value string) Model {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		m.err = fmt.Errorf("width: %w", err)
		return m
	}
	if _, err := m.editor.SetWidth(v); err != nil {
		m.err = err
		return m
	}
	m.err = nil
	return m
}

// parsePoint reads "x,y" or "x y" as percentages, clamped to [0,100]
func parsePoint(value string) (float64, float64, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected x,y but got %q", value)
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("y: %w", err)
	}
	clampPct := func(v float64) float64 { return min(max(v, 0), 100) }
	return clampPct(x), clampPct(y), nil
}

func (m Model) save() (tea.Model, tea.Cmd) {
	q := m.current()
	if q == nil {
		return m, nil
	}
	d, ok := m.editor.Draft()
	if !ok {
		m.err = zone.ErrNoDraft
		return m, nil
	}
	if m.saving {
		m.status = "save already in progress"
		return m, nil
	}
	m.saving = true
	m.status = "saving..."

	gw, key, id := m.gateway, m.key, q.ID
	return m, func() tea.Msg {
		z := d
		updated, err := gw.Update(context.Background(), key, id, models.QuestionPatch{TargetZone: &z})
		return savedMsg{questionID: id, zone: d, question: updated, err: err}
	}
}

func (m Model) applySaved(msg savedMsg) Model {
	m.saving = false
	if msg.err != nil {
		m.err = fmt.Errorf("save failed: %w", msg.err)
		m.status = ""
		return m
	}

	for i := range m.questions {
		if m.questions[i].ID == msg.questionID && msg.question != nil {
			m.questions[i] = msg.question.Clone()
		}
	}
	m.saved[msg.questionID] = msg.zone
	m.err = nil
	m.status = fmt.Sprintf("saved question %d", msg.questionID)

	if q := m.current(); q != nil && q.ID == msg.questionID {
		if d, ok := m.editor.Draft(); ok && d == msg.zone {
			m.editor.Commit()
			m.estimate = nil
		}
	}
	return m
}
