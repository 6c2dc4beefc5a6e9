// Package linedetect extracts line segments from images. It feeds the
// vanishing point pipeline: grayscale and blur preprocessing, an
// auto-thresholded Sobel edge map, and Hough-transform segment
// extraction. All length-like parameters are expressed as a fraction
// of the image diagonal so the same options work across image sizes.
package linedetect

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	"github.com/banshee-data/horizon.report/internal/geom"
)

// Options configures the primary detector.
type Options struct {
	// MinLineLength and MaxLineLength bound accepted segment lengths,
	// as fractions of the image diagonal (0-1).
	MinLineLength float64
	MaxLineLength float64
	// MinPrecision is the minimum fraction of a segment's extent that
	// must be covered by edge pixels.
	MinPrecision float64
	// ThresholdSigma widens or narrows the automatic edge threshold
	// around the median gradient; higher values keep more edges.
	ThresholdSigma float64
}

// DefaultOptions returns the pipeline's detection defaults.
func DefaultOptions() Options {
	return Options{
		MinLineLength:  0.055,
		MaxLineLength:  1,
		MinPrecision:   0.05,
		ThresholdSigma: 0.33,
	}
}

// Validate reports the first invalid field, if any.
func (o Options) Validate() error {
	if o.MinLineLength < 0 || o.MinLineLength > 1 {
		return fmt.Errorf("linedetect: MinLineLength must be in [0, 1], got %g", o.MinLineLength)
	}
	if o.MaxLineLength <= o.MinLineLength || o.MaxLineLength > 1 {
		return fmt.Errorf("linedetect: MaxLineLength must be in (MinLineLength, 1], got %g", o.MaxLineLength)
	}
	if o.MinPrecision < 0 || o.MinPrecision > 1 {
		return fmt.Errorf("linedetect: MinPrecision must be in [0, 1], got %g", o.MinPrecision)
	}
	return nil
}

// HoughOptions configures the Hough detector variant.
type HoughOptions struct {
	// MinPoints is the minimum number of edge points voting for a
	// line, as a fraction of the image diagonal (0-1).
	MinPoints float64
	// MinLineLength is the minimum accepted segment length, as a
	// fraction of the image diagonal.
	MinLineLength float64
	// MaxLineGap is the largest gap bridged between collinear edge
	// runs, as a fraction of the image diagonal.
	MaxLineGap float64
	// ThresholdSigma tunes the edge map as in Options.
	ThresholdSigma float64
}

// DefaultHoughOptions returns the Hough variant defaults.
func DefaultHoughOptions() HoughOptions {
	return HoughOptions{
		MinPoints:      0.075,
		MinLineLength:  0.2,
		MaxLineGap:     0.2,
		ThresholdSigma: 0.33,
	}
}

// Validate reports the first invalid field, if any.
func (o HoughOptions) Validate() error {
	if o.MinPoints <= 0 || o.MinPoints > 1 {
		return fmt.Errorf("linedetect: MinPoints must be in (0, 1], got %g", o.MinPoints)
	}
	if o.MinLineLength < 0 || o.MinLineLength > 1 {
		return fmt.Errorf("linedetect: MinLineLength must be in [0, 1], got %g", o.MinLineLength)
	}
	if o.MaxLineGap < 0 || o.MaxLineGap > 1 {
		return fmt.Errorf("linedetect: MaxLineGap must be in [0, 1], got %g", o.MaxLineGap)
	}
	return nil
}

// Detect finds line segments in an image and filters them by length
// and edge-support precision.
func Detect(img image.Image, opts Options) ([]geom.Segment, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	edges := EdgeMap(img, opts.ThresholdSigma)
	diagonal := diagonalOf(img)

	// Extract with permissive Hough settings; the precision and
	// length filters below do the real selection.
	raw := houghSegments(edges, houghConfig{
		voteThreshold: int(math.Ceil(0.02 * diagonal)),
		minLength:     opts.MinLineLength * diagonal,
		maxGap:        0.01 * diagonal,
	})

	var lines []geom.Segment
	for _, s := range raw {
		length := s.seg.Length()
		if length <= opts.MinLineLength*diagonal || length >= opts.MaxLineLength*diagonal {
			continue
		}
		if s.precision <= opts.MinPrecision {
			continue
		}
		lines = append(lines, s.seg)
	}
	return lines, nil
}

// DetectHough finds line segments with explicit Hough voting, length
// and gap parameters, mirroring probabilistic Hough line detection.
func DetectHough(img image.Image, opts HoughOptions) ([]geom.Segment, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	edges := EdgeMap(img, opts.ThresholdSigma)
	diagonal := diagonalOf(img)

	raw := houghSegments(edges, houghConfig{
		voteThreshold: int(math.Ceil(opts.MinPoints * diagonal)),
		minLength:     math.Ceil(opts.MinLineLength * diagonal),
		maxGap:        math.Ceil(opts.MaxLineGap * diagonal),
	})
	lines := make([]geom.Segment, 0, len(raw))
	for _, s := range raw {
		lines = append(lines, s.seg)
	}
	return lines, nil
}

// EdgeMap computes a boolean edge raster: grayscale, gaussian blur to
// drop fine detail, Sobel gradient, then a threshold derived from the
// median gradient magnitude widened by sigma.
func EdgeMap(img image.Image, sigma float64) [][]bool {
	gray := imaging.Grayscale(img)
	blurred := blur.Gaussian(gray, 1.5)
	sobel := effect.Sobel(blurred)

	bounds := sobel.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	magnitudes := make([]float64, 0, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := sobel.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			magnitudes = append(magnitudes, float64(r>>8))
		}
	}
	med := median(magnitudes)
	upper := math.Min(255, (1+sigma)*med)

	edges := make([][]bool, height)
	idx := 0
	for y := 0; y < height; y++ {
		edges[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			edges[y][x] = magnitudes[idx] > upper
			idx++
		}
	}
	return edges
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func diagonalOf(img image.Image) float64 {
	b := img.Bounds()
	return math.Hypot(float64(b.Dx()), float64(b.Dy()))
}
