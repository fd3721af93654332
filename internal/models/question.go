package models

import (
	"fmt"
	"strings"
)

// AppType identifies the office application a question is about
type AppType string

const (
	AppWord       AppType = "Word"
	AppExcel      AppType = "Excel"
	AppPowerPoint AppType = "PowerPoint"
)

// Mode selects between the tab-finding and button-finding games
type Mode string

const (
	ModeTab    Mode = "tab"
	ModeButton Mode = "button"
)

// ParseAppType accepts the lowercase query form (word, excel, powerpoint)
func ParseAppType(s string) (AppType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "word":
		return AppWord, nil
	case "excel":
		return AppExcel, nil
	case "powerpoint":
		return AppPowerPoint, nil
	default:
		return "", fmt.Errorf("unknown app: %q", s)
	}
}

// ParseMode returns ModeButton for "button" and ModeTab for anything else
func ParseMode(s string) Mode {
	if strings.ToLower(strings.TrimSpace(s)) == string(ModeButton) {
		return ModeButton
	}
	return ModeTab
}

// Slug is the lowercase form used in URLs
func (a AppType) Slug() string {
	return strings.ToLower(string(a))
}

// TargetZone is a rectangle in percent of the rendered image area
type TargetZone struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge used for containment
func (z TargetZone) Right() float64 {
	return z.Left + z.Width
}

// Bottom returns the bottom edge used for containment
func (z TargetZone) Bottom() float64 {
	return z.Top + z.Height
}

// ImageMarker is a highlight drawn over an explanation image
type ImageMarker struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
	Size *int    `json:"size,omitempty"` // px
}

// DefaultMarkerSize is used when a marker carries no size
const DefaultMarkerSize = 32

// SizeOrDefault returns the marker size in pixels
func (m ImageMarker) SizeOrDefault() int {
	if m.Size == nil {
		return DefaultMarkerSize
	}
	return *m.Size
}

// ExplanationImage is one labeled image shown after answering
type ExplanationImage struct {
	Path    string        `json:"path"`
	Label   string        `json:"label"`
	Markers []ImageMarker `json:"markers,omitempty"`
}

// Question is a single quiz record as stored in a dataset file
type Question struct {
	ID                   int                `json:"id"`
	AppType              AppType            `json:"appType"`
	QuestionText         string             `json:"questionText"`
	ImagePath            string             `json:"imagePath"`
	TargetZone           TargetZone         `json:"targetZone"`
	Description          string             `json:"description,omitempty"`
	ExplanationImagePath string             `json:"explanationImagePath,omitempty"`
	ExplanationImages    []ExplanationImage `json:"explanationImages,omitempty"`
	ExplanationText      *string            `json:"explanationText,omitempty"`
	TabName              string             `json:"tabName,omitempty"`
}

// Explanation returns the explanation text or an empty string
func (q *Question) Explanation() string {
	if q.ExplanationText == nil {
		return ""
	}
	return *q.ExplanationText
}

// Clone returns a deep copy that shares no memory with q
func (q *Question) Clone() Question {
	c := *q
	if q.ExplanationText != nil {
		text := *q.ExplanationText
		c.ExplanationText = &text
	}
	if q.ExplanationImages != nil {
		c.ExplanationImages = make([]ExplanationImage, len(q.ExplanationImages))
		for i, img := range q.ExplanationImages {
			c.ExplanationImages[i] = img
			if img.Markers != nil {
				markers := make([]ImageMarker, len(img.Markers))
				for j, m := range img.Markers {
					markers[j] = m
					if m.Size != nil {
						size := *m.Size
						markers[j].Size = &size
					}
				}
				c.ExplanationImages[i].Markers = markers
			}
		}
	}
	return c
}

// CloneQuestions deep-copies a question slice
func CloneQuestions(questions []Question) []Question {
	out := make([]Question, len(questions))
	for i := range questions {
		out[i] = questions[i].Clone()
	}
	return out
}

// QuestionPatch carries the fields the authoring flow may overwrite
type QuestionPatch struct {
	TargetZone      *TargetZone
	ExplanationText *string
}

// Empty reports whether the patch changes nothing
func (p QuestionPatch) Empty() bool {
	return p.TargetZone == nil && p.ExplanationText == nil
}

// Apply writes the patch fields onto q
func (p QuestionPatch) Apply(q *Question) {
	if p.TargetZone != nil {
		q.TargetZone = *p.TargetZone
	}
	if p.ExplanationText != nil {
		text := *p.ExplanationText
		q.ExplanationText = &text
	}
}
