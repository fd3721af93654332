package zone

import (
	"encoding/json"
	"fmt"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

// Contains reports whether p lies in the closed rectangle of z
func Contains(z models.TargetZone, p Point) bool {
	return p.X >= z.Left &&
		p.X <= z.Right() &&
		p.Y >= z.Top &&
		p.Y <= z.Bottom()
}

// IsHit is Contains in coordinate form
func IsHit(percentX, percentY float64, z models.TargetZone) bool {
	return Contains(z, Point{X: percentX, Y: percentY})
}

// Judgement is the outcome of one play-mode click
type Judgement struct {
	Point   Point             `json:"point"`
	Correct bool              `json:"correct"`
	Zone    models.TargetZone `json:"targetZone"`
}

// JudgeClick normalizes a pixel click and checks it against z.
// ok is false when the image has no size yet.
func JudgeClick(clickX, clickY, width, height float64, z models.TargetZone) (j Judgement, ok bool) {
	p, ok := Normalize(clickX, clickY, width, height)
	if !ok {
		return Judgement{}, false
	}
	return Judgement{Point: p, Correct: Contains(z, p), Zone: z}, true
}

// Describe renders the range checks of a judgement for debug logs
func (j Judgement) Describe() string {
	z := j.Zone
	return fmt.Sprintf("click=(%.2f%%, %.2f%%) x=[%.2f%%, %.2f%%] y=[%.2f%%, %.2f%%] inX=%t inY=%t",
		j.Point.X, j.Point.Y,
		z.Left, z.Right(), z.Top, z.Bottom(),
		j.Point.X >= z.Left && j.Point.X <= z.Right(),
		j.Point.Y >= z.Top && j.Point.Y <= z.Bottom(),
	)
}

// Snippet renders z as a "targetZone" JSON member ready to paste into a dataset file
func Snippet(z models.TargetZone) (string, error) {
	data, err := json.MarshalIndent(z, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal target zone: %w", err)
	}
	return `"targetZone": ` + string(data), nil
}
