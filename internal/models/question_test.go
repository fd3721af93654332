package models

import "testing"

// TestCloneDoesNotAlias ensures mutations on a clone never reach the source question.
func TestCloneDoesNotAlias(t *testing.T) {
	size := 40
	text := "original"
	q := Question{
		ID:              1,
		ExplanationText: &text,
		ExplanationImages: []ExplanationImage{
			{Path: "a.png", Label: "A", Markers: []ImageMarker{{Top: 1, Left: 2, Size: &size}}},
		},
	}

	c := q.Clone()
	*c.ExplanationText = "changed"
	c.ExplanationImages[0].Label = "B"
	*c.ExplanationImages[0].Markers[0].Size = 10
	c.ExplanationImages[0].Markers[0].Top = 50

	if q.Explanation() != "original" {
		t.Fatalf("expected source text to stay, got %q", q.Explanation())
	}
	if q.ExplanationImages[0].Label != "A" {
		t.Fatalf("expected source label A, got %s", q.ExplanationImages[0].Label)
	}
	if *q.ExplanationImages[0].Markers[0].Size != 40 || q.ExplanationImages[0].Markers[0].Top != 1 {
		t.Fatalf("source marker mutated: %+v", q.ExplanationImages[0].Markers[0])
	}
}

// TestMarkerSizeDefault verifies the 32px fallback.
func TestMarkerSizeDefault(t *testing.T) {
	if got := (ImageMarker{}).SizeOrDefault(); got != DefaultMarkerSize {
		t.Fatalf("expected %d, got %d", DefaultMarkerSize, got)
	}
}

// TestPatchApply verifies only provided fields are written.
func TestPatchApply(t *testing.T) {
	q := Question{ID: 3, TargetZone: TargetZone{Top: 1, Left: 1, Width: 1, Height: 1}}
	text := "hello"
	QuestionPatch{ExplanationText: &text}.Apply(&q)
	if q.TargetZone != (TargetZone{Top: 1, Left: 1, Width: 1, Height: 1}) {
		t.Fatalf("zone should be untouched, got %+v", q.TargetZone)
	}
	if q.Explanation() != "hello" {
		t.Fatalf("expected explanation hello, got %q", q.Explanation())
	}
	text = "mutated"
	if q.Explanation() != "hello" {
		t.Fatalf("patch must copy the text")
	}
}

// TestDatasetKeyFiles checks the six dataset file names and routes.
func TestDatasetKeyFiles(t *testing.T) {
	cases := map[DatasetKey]string{
		{App: AppWord, Mode: ModeTab}:          "/api/questions",
		{App: AppWord, Mode: ModeButton}:       "/api/button-questions",
		{App: AppExcel, Mode: ModeTab}:         "/api/excel-questions",
		{App: AppExcel, Mode: ModeButton}:      "/api/excel-button-questions",
		{App: AppPowerPoint, Mode: ModeTab}:    "/api/powerpoint-questions",
		{App: AppPowerPoint, Mode: ModeButton}: "/api/powerpoint-button-questions",
	}
	for key, route := range cases {
		if got := key.Route(); got != route {
			t.Fatalf("%s: expected route %s, got %s", key, route, got)
		}
	}
	if len(AllDatasets()) != len(cases) {
		t.Fatalf("expected %d datasets, got %d", len(cases), len(AllDatasets()))
	}
}

// TestParseDatasetKey covers query parsing and the tab fallback.
func TestParseDatasetKey(t *testing.T) {
	key, err := ParseDatasetKey("PowerPoint", "weird")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if key.App != AppPowerPoint || key.Mode != ModeTab {
		t.Fatalf("unexpected key %+v", key)
	}
	if _, err := ParseDatasetKey("access", "tab"); err == nil {
		t.Fatalf("expected error for unknown app")
	}
}
