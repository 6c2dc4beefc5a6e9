package draw

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/horizon.report/internal/geom"
)

func whiteImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func pixelColored(t *testing.T, img image.Image, x, y int) bool {
	t.Helper()
	r, g, b, _ := img.At(x, y).RGBA()
	return r != 0xffff || g != 0xffff || b != 0xffff
}

func TestGroupColor(t *testing.T) {
	seen := map[color.RGBA]bool{}
	for i := 0; i < len(palette); i++ {
		c := GroupColor(i)
		if seen[c] {
			t.Errorf("palette color %d repeats", i)
		}
		seen[c] = true
	}

	black := color.RGBA{0, 0, 0, 255}
	if GroupColor(-1) != black {
		t.Errorf("GroupColor(-1) = %v, want black", GroupColor(-1))
	}
	if GroupColor(len(palette)) != black {
		t.Errorf("GroupColor(len) = %v, want black", GroupColor(len(palette)))
	}
}

func TestLinesMarkPixels(t *testing.T) {
	c := NewCanvas(whiteImage(40, 30))
	c.Lines([]geom.Segment{{X1: 5, Y1: 15, X2: 35, Y2: 15}}, color.RGBA{255, 0, 0, 255}, 3)

	img := c.Image()
	if !pixelColored(t, img, 20, 15) {
		t.Error("pixel on the stroked line is still white")
	}
	if pixelColored(t, img, 20, 5) {
		t.Error("pixel far from the line was modified")
	}
}

func TestFittedPointOnCanvas(t *testing.T) {
	c := NewCanvas(whiteImage(40, 30))
	c.FittedPoint(geom.Point{X: 10, Y: 10}, color.RGBA{0, 0, 255, 255}, 4)
	if !pixelColored(t, c.Image(), 10, 10) {
		t.Error("on-canvas point left no mark at its location")
	}
}

func TestFittedPointProjectsToBorder(t *testing.T) {
	// A vanishing point far to the right lands on the middle of the
	// right edge.
	c := NewCanvas(whiteImage(40, 30))
	c.FittedPoint(geom.Point{X: 1000, Y: 15}, color.RGBA{255, 0, 0, 255}, 4)

	img := c.Image()
	if !pixelColored(t, img, 38, 15) {
		t.Error("projected point left no mark at the right border")
	}
	if pixelColored(t, img, 20, 15) {
		t.Error("projected point marked the canvas center")
	}
}

func TestHorizonSpansWidth(t *testing.T) {
	c := NewCanvas(whiteImage(40, 30))
	c.Horizon(0, 10, color.RGBA{0, 0, 0, 255}, 2)
	img := c.Image()
	for _, x := range []int{1, 20, 38} {
		if !pixelColored(t, img, x, 10) {
			t.Errorf("horizon missing at x=%d", x)
		}
	}
}

func TestSavePNG(t *testing.T) {
	c := NewCanvas(whiteImage(16, 16))
	path := filepath.Join(t.TempDir(), "overlay.png")
	if err := c.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("saved PNG is empty")
	}
}
