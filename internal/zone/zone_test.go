package zone

import (
	"math"
	"strings"
	"testing"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

// TestJudgeClickExample runs the 400x200 worked example.
func TestJudgeClickExample(t *testing.T) {
	z := models.TargetZone{Top: 20, Left: 5, Width: 10, Height: 40}
	j, ok := JudgeClick(40, 60, 400, 200, z)
	if !ok {
		t.Fatalf("expected click to be judged")
	}
	if j.Point != (Point{X: 10, Y: 30}) {
		t.Fatalf("expected point (10,30), got %+v", j.Point)
	}
	if !j.Correct {
		t.Fatalf("expected hit: %s", j.Describe())
	}
}

// TestContainsInclusiveEdges checks every edge and corner counts as a hit.
func TestContainsInclusiveEdges(t *testing.T) {
	z := models.TargetZone{Top: 20, Left: 5, Width: 10, Height: 40}
	hits := []Point{
		{X: 5, Y: 30}, {X: 15, Y: 30}, {X: 10, Y: 20}, {X: 10, Y: 60},
		{X: 5, Y: 20}, {X: 15, Y: 60},
	}
	for _, p := range hits {
		if !Contains(z, p) {
			t.Fatalf("expected %+v inside %+v", p, z)
		}
	}
	misses := []Point{
		{X: 4.999, Y: 30}, {X: 15.001, Y: 30}, {X: 10, Y: 19.999}, {X: 10, Y: 60.001},
	}
	for _, p := range misses {
		if Contains(z, p) {
			t.Fatalf("expected %+v outside %+v", p, z)
		}
	}
}

// TestContainsGrid compares Contains with the closed rectangle definition over a grid.
func TestContainsGrid(t *testing.T) {
	z := models.TargetZone{Top: 33.3, Left: 12.5, Width: 7.8, Height: 8}
	for x := 0.0; x <= 100; x += 0.5 {
		for y := 0.0; y <= 100; y += 0.5 {
			want := x >= 12.5 && x <= 12.5+7.8 && y >= 33.3 && y <= 33.3+8
			if got := IsHit(x, y, z); got != want {
				t.Fatalf("(%v,%v): expected %t, got %t", x, y, want, got)
			}
		}
	}
}

// TestNormalizeZeroSize ensures unlaid-out images produce no point.
func TestNormalizeZeroSize(t *testing.T) {
	cases := [][2]float64{{0, 200}, {400, 0}, {0, 0}, {-1, 10}, {math.NaN(), 10}}
	for _, c := range cases {
		if _, ok := Normalize(10, 10, c[0], c[1]); ok {
			t.Fatalf("expected no-op for size %v", c)
		}
		if _, ok := JudgeClick(10, 10, c[0], c[1], models.TargetZone{Width: 100, Height: 100}); ok {
			t.Fatalf("expected no judgement for size %v", c)
		}
	}
}

// TestNormalizeIdempotent checks repeated normalization returns identical values.
func TestNormalizeIdempotent(t *testing.T) {
	first, _ := Normalize(123.4, 56.7, 1366, 768)
	for i := 0; i < 10; i++ {
		again, _ := Normalize(123.4, 56.7, 1366, 768)
		if again != first {
			t.Fatalf("expected %+v, got %+v", first, again)
		}
	}
}

// TestWidthForName covers the step function and the capped linear tail.
func TestWidthForName(t *testing.T) {
	cases := map[string]float64{
		"":       4,
		"ab":     4,
		"abc":    5,
		"abcd":   6,
		"abcde":  7,
		"abcdef": math.Min(8, 3+6*0.8),
		"挿入":     4,
		"ホーム":    5,
		"レイアウト":  7,
		"ページレイアウト": 8,
	}
	for name, want := range cases {
		if got := WidthForName(name); math.Abs(got-want) > 1e-9 {
			t.Fatalf("%q: expected %v, got %v", name, want, got)
		}
	}
}

// TestExtractTabName covers both markers and the empty fallback.
func TestExtractTabName(t *testing.T) {
	cases := map[string]string{
		"挿入タブを探してください":   "挿入",
		"数式タブはどこ？":       "数式",
		"「保存」ボタンを探してください": "",
		"ヒント\nホームタブを探してください": "ホーム",
		"タブ\n挿入タブを探してください":     "挿入",
	}
	for text, want := range cases {
		if got := ExtractTabName(text); got != want {
			t.Fatalf("%q: expected %q, got %q", text, want, got)
		}
	}
	if got := AutoWidth("ヒント\nホームタブを探してください"); got != 5 {
		t.Fatalf("expected width 5 for a three-character name, got %v", got)
	}
	if got := AutoWidth("no marker"); got != DefaultWidth {
		t.Fatalf("expected default width, got %v", got)
	}
}

// TestEstimatePositionBucket prefers the position band over question text.
func TestEstimatePositionBucket(t *testing.T) {
	est := EstimateZone(Point{X: 12, Y: 10}, "レイアウトタブを探してください")
	if est.Source != SourcePosition || est.TabName != "挿入" {
		t.Fatalf("unexpected estimate %+v", est)
	}
	want := models.TargetZone{Top: 6, Left: 10, Width: 4, Height: DraftHeight}
	if est.Zone != want {
		t.Fatalf("expected %+v, got %+v", want, est.Zone)
	}
	if est.LowConfidence() {
		t.Fatalf("position estimates are not low confidence")
	}
}

// TestEstimateTextAndDefault covers the fallbacks beyond the last band.
func TestEstimateTextAndDefault(t *testing.T) {
	est := EstimateZone(Point{X: 60, Y: 50}, "表示タブを探してください")
	if est.Source != SourceText || est.Zone.Width != 4 {
		t.Fatalf("unexpected text estimate %+v", est)
	}
	est = EstimateZone(Point{X: 60, Y: 50}, "右上の共有ボタン")
	if est.Source != SourceDefault || est.Zone.Width != DefaultWidth {
		t.Fatalf("unexpected default estimate %+v", est)
	}
	if !est.LowConfidence() {
		t.Fatalf("default estimates are low confidence")
	}
}

// TestEstimateClampsTopLeft ensures drafts never start off the top/left of the canvas.
func TestEstimateClampsTopLeft(t *testing.T) {
	est := EstimateZone(Point{X: 1, Y: 2}, "")
	if est.Zone.Left != 0 || est.Zone.Top != 0 {
		t.Fatalf("expected clamped origin, got %+v", est.Zone)
	}
	est = EstimateZone(Point{X: 99, Y: 99}, "")
	if est.Zone.Right() <= 100 || est.Zone.Bottom() <= 100 {
		t.Fatalf("right/bottom are not clamped at creation, got %+v", est.Zone)
	}
}

// TestSnippet checks the paste-ready JSON form.
func TestSnippet(t *testing.T) {
	s, err := Snippet(models.TargetZone{Top: 1, Left: 2, Width: 3, Height: 4})
	if err != nil {
		t.Fatalf("snippet: %v", err)
	}
	if !strings.HasPrefix(s, `"targetZone": {`) || !strings.Contains(s, `"width": 3`) {
		t.Fatalf("unexpected snippet %s", s)
	}
}
