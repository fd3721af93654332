package zone

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

const (
	// DraftHeight is the fixed height of a freshly estimated zone
	DraftHeight = 8.0
	// DefaultWidth is used when no tab name can be inferred
	DefaultWidth = 6.0

	questionSuffix = "タブを探してください"
	tabMarker      = "タブ"
)

// Source says which heuristic produced an estimate's width
type Source string

const (
	SourcePosition Source = "position"
	SourceText     Source = "text"
	SourceDefault  Source = "default"
)

// positionBands maps click x-percent bands to a typical ribbon tab name.
// Only the name's length matters.
var positionBands = []struct {
	below float64
	name  string
}{
	{8, "ホーム"},
	{18, "挿入"},
	{28, "デザイン"},
	{38, "レイアウト"},
	{48, "参考資料"},
}

// Estimate is a heuristic draft zone for a fresh click
type Estimate struct {
	Zone    models.TargetZone `json:"zone"`
	Click   Point             `json:"click"`
	TabName string            `json:"tabName,omitempty"`
	Source  Source            `json:"source"`
}

// LowConfidence is true when the width did not come from the click position
func (e Estimate) LowConfidence() bool {
	return e.Source != SourcePosition
}

// TabNameAt guesses a ribbon tab name from the click's x-percent
func TabNameAt(percentX float64) string {
	for _, band := range positionBands {
		if percentX < band.below {
			return band.name
		}
	}
	return ""
}

// ExtractTabName pulls the element name out of a question such as
// "ホームタブを探してください". It falls back to the text before the first
// "タブ" and returns "" when neither marker is present. The name never
// spans a line break.
func ExtractTabName(questionText string) string {
	if name := lineBefore(questionText, questionSuffix); name != "" {
		return name
	}
	return lineBefore(questionText, tabMarker)
}

// lineBefore returns the text between the last line break and the first
// occurrence of marker that has some text in front of it on its line
func lineBefore(text, marker string) string {
	offset := 0
	for {
		i := strings.Index(text[offset:], marker)
		if i < 0 {
			return ""
		}
		end := offset + i
		start := strings.LastIndexByte(text[:end], '\n') + 1
		if end > start {
			return text[start:end]
		}
		offset = end + len(marker)
	}
}

// WidthForName maps a tab name's character count to a zone width
func WidthForName(name string) float64 {
	n := utf8.RuneCountInString(name)
	switch {
	case n <= 2:
		return 4
	case n == 3:
		return 5
	case n == 4:
		return 6
	case n == 5:
		return 7
	default:
		return math.Min(8, 3+float64(n)*0.8)
	}
}

// AutoWidth is the width the estimator would use for a question's text alone
func AutoWidth(questionText string) float64 {
	if name := ExtractTabName(questionText); name != "" {
		return WidthForName(name)
	}
	return DefaultWidth
}

// EstimateZone proposes a draft zone horizontally centered on click.
// Left and top are clamped at zero; right and bottom are left unclamped.
func EstimateZone(click Point, questionText string) Estimate {
	est := Estimate{Click: click, Source: SourceDefault}
	if name := TabNameAt(click.X); name != "" {
		est.TabName, est.Source = name, SourcePosition
	} else if name := ExtractTabName(questionText); name != "" {
		est.TabName, est.Source = name, SourceText
	}

	width := DefaultWidth
	if est.TabName != "" {
		width = WidthForName(est.TabName)
	}
	est.Zone = models.TargetZone{
		Top:    math.Max(0, click.Y-DraftHeight/2),
		Left:   math.Max(0, click.X-width/2),
		Width:  width,
		Height: DraftHeight,
	}
	return est
}
