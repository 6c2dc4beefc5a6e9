package linedetect

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func emptyEdges(width, height int) [][]bool {
	edges := make([][]bool, height)
	for y := range edges {
		edges[y] = make([]bool, width)
	}
	return edges
}

func TestHoughSegmentsHorizontalLine(t *testing.T) {
	edges := emptyEdges(60, 30)
	for x := 5; x <= 54; x++ {
		edges[10][x] = true
	}

	out := houghSegments(edges, houghConfig{voteThreshold: 10, minLength: 20, maxGap: 2})
	if len(out) != 1 {
		t.Fatalf("expected 1 segment got %d", len(out))
	}
	seg := out[0].seg
	if math.Abs(seg.Y1-10) > 2 || math.Abs(seg.Y2-10) > 2 {
		t.Fatalf("expected a segment along y=10, got %v", seg)
	}
	if seg.Length() < 45 {
		t.Fatalf("expected the full row covered, got length %v", seg.Length())
	}
	if out[0].precision < 0.9 {
		t.Fatalf("expected near-perfect precision got %v", out[0].precision)
	}
}

func TestHoughSegmentsSplitsOnGap(t *testing.T) {
	edges := emptyEdges(60, 30)
	for x := 0; x < 20; x++ {
		edges[5][x] = true
	}
	for x := 40; x < 60; x++ {
		edges[5][x] = true
	}

	out := houghSegments(edges, houghConfig{voteThreshold: 10, minLength: 10, maxGap: 3})
	if len(out) != 2 {
		t.Fatalf("expected 2 segments across the gap, got %d", len(out))
	}
	for _, s := range out {
		if s.seg.Length() < 15 || s.seg.Length() > 25 {
			t.Fatalf("unexpected run length %v for %v", s.seg.Length(), s.seg)
		}
	}
}

func TestHoughSegmentsDiagonal(t *testing.T) {
	edges := emptyEdges(50, 50)
	for i := 0; i < 50; i++ {
		edges[i][i] = true
	}

	out := houghSegments(edges, houghConfig{voteThreshold: 10, minLength: 20, maxGap: 2})
	if len(out) != 1 {
		t.Fatalf("expected 1 segment got %d", len(out))
	}
	seg := out[0].seg
	// Both endpoints on the main diagonal.
	if math.Abs(seg.X1-seg.Y1) > 2 || math.Abs(seg.X2-seg.Y2) > 2 {
		t.Fatalf("expected a diagonal segment, got %v", seg)
	}
	// Diagonal coverage: one point per unit x but sqrt(2) length per
	// step, so precision sits near 1/sqrt(2).
	if out[0].precision < 0.5 || out[0].precision > 1 {
		t.Fatalf("unexpected precision %v", out[0].precision)
	}
}

func TestHoughSegmentsEmpty(t *testing.T) {
	if out := houghSegments(nil, houghConfig{voteThreshold: 2, minLength: 1, maxGap: 1}); out != nil {
		t.Fatalf("expected no segments got %v", out)
	}
	if out := houghSegments(emptyEdges(20, 20), houghConfig{voteThreshold: 2, minLength: 1, maxGap: 1}); len(out) != 0 {
		t.Fatalf("expected no segments got %v", out)
	}
}

// stepImage is white on the right of the boundary column, black on the
// left.
func stepImage(width, height, boundary int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= boundary {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDetectVerticalBoundary(t *testing.T) {
	img := stepImage(40, 40, 20)
	lines, err := Detect(img, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) == 0 {
		t.Fatalf("expected at least one segment on the step boundary")
	}
	found := false
	for _, l := range lines {
		if math.Abs(l.X1-l.X2) <= 4 && l.Length() >= 25 && math.Abs((l.X1+l.X2)/2-20) <= 8 {
			found = true
		}
	}
	if !found {
		t.Fatalf("no near-vertical segment at the boundary among %v", lines)
	}
}

func TestDetectHoughVerticalBoundary(t *testing.T) {
	img := stepImage(40, 40, 20)
	opts := DefaultHoughOptions()
	lines, err := DetectHough(img, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) == 0 {
		t.Fatalf("expected at least one segment on the step boundary")
	}
}

func TestEdgeMapFlatImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{128, 128, 128, 255})
		}
	}
	edges := EdgeMap(img, 0.33)
	for y := range edges {
		for x := range edges[y] {
			if edges[y][x] {
				t.Fatalf("flat image must produce no edges, got one at (%d, %d)", x, y)
			}
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	bad := DefaultOptions()
	bad.MaxLineLength = bad.MinLineLength
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error when max length does not exceed min")
	}
	bad = DefaultOptions()
	bad.MinPrecision = 1.5
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for precision above 1")
	}
}

func TestHoughOptionsValidate(t *testing.T) {
	if err := DefaultHoughOptions().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	bad := DefaultHoughOptions()
	bad.MinPoints = 0
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for zero MinPoints")
	}
}

func TestMedian(t *testing.T) {
	if m := median([]float64{3, 1, 2}); m != 2 {
		t.Fatalf("expected 2 got %v", m)
	}
	if m := median([]float64{4, 1, 2, 3}); m != 2.5 {
		t.Fatalf("expected 2.5 got %v", m)
	}
	if m := median(nil); m != 0 {
		t.Fatalf("expected 0 got %v", m)
	}
}
