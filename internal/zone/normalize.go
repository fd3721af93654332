// Package zone holds the click judgment and target-zone authoring arithmetic.
//
// All coordinates are percentages of the rendered image, so stored zones stay
// valid whatever size the screenshot is displayed at.
package zone

import "math"

// Point is a click position in percent of the rendered image
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Normalize converts a pixel offset from the image's top-left corner into
// percentages of its rendered size. It returns false when the image has no
// usable size yet; the caller must then drop the click.
func Normalize(clickX, clickY, width, height float64) (Point, bool) {
	if !usableSize(width) || !usableSize(height) {
		return Point{}, false
	}
	return Point{
		X: clickX / width * 100,
		Y: clickY / height * 100,
	}, true
}

func usableSize(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
