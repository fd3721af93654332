package zoneedit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
	"github.com/haratakeru-crypto/Tab-button-game/internal/zone"
)

const helpLine = "[/] prev/next  c click  o show saved  hjkl move  HJKL resize  w width  s save  esc discard  q quit"

type styles struct {
	title lipgloss.Style
	label lipgloss.Style
	warn  lipgloss.Style
	err   lipgloss.Style
	help  lipgloss.Style
}

func newStyles(noColor bool) styles {
	if noColor {
		plain := lipgloss.NewStyle()
		return styles{title: plain.Bold(true), label: plain, warn: plain, err: plain, help: plain}
	}
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		help:  lipgloss.NewStyle().Faint(true),
	}
}

// View renders the editor.
func (m Model) View() string {
	st := newStyles(m.noColor)
	q := m.current()
	if q == nil {
		return st.title.Render(m.key.String()) + "\n\nno questions\n\n" + st.help.Render("q quit") + "\n"
	}

	lines := []string{
		st.title.Render(fmt.Sprintf("%s  question %d/%d  (id %d)", m.key, m.index+1, len(m.questions), q.ID)),
		q.QuestionText,
		"",
		st.label.Render("current ") + formatZone(q.TargetZone),
	}
	if z, ok := m.saved[q.ID]; ok {
		lines = append(lines, st.label.Render("saved   ")+formatZone(z))
	}

	lines = append(lines, st.label.Render("state   ")+m.editor.State().String())
	if d, ok := m.editor.Draft(); ok {
		lines = append(lines, st.label.Render("draft   ")+formatZone(d))
		if p, ok := m.editor.ClickPoint(); ok {
			lines = append(lines, st.label.Render("click   ")+fmt.Sprintf("%.2f%%, %.2f%%", p.X, p.Y))
		}
		if w, ok := m.editor.ManualWidth(); ok {
			lines = append(lines, st.label.Render("width   ")+fmt.Sprintf("%.2f (manual, auto %.2f)", w, zone.AutoWidth(q.QuestionText)))
		}
		if snippet, err := zone.Snippet(d); err == nil {
			lines = append(lines, "", snippet)
		}
	}
	if m.estimate != nil && m.estimate.LowConfidence() {
		lines = append(lines, st.warn.Render(fmt.Sprintf("width from %s heuristic, check it against the screenshot", m.estimate.Source)))
	}

	if m.mode != inputNone {
		lines = append(lines, "", m.input.View())
	}
	lines = append(lines, "")
	if m.err != nil {
		lines = append(lines, st.err.Render(m.err.Error()))
	} else if m.status != "" {
		lines = append(lines, m.status)
	}
	lines = append(lines, st.help.Render(helpLine))
	return strings.Join(lines, "\n") + "\n"
}

func formatZone(z models.TargetZone) string {
	return fmt.Sprintf("top %.2f  left %.2f  width %.2f  height %.2f", z.Top, z.Left, z.Width, z.Height)
}
