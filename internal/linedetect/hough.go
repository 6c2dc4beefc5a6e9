package linedetect

import (
	"math"
	"sort"

	"github.com/banshee-data/horizon.report/internal/geom"
)

// houghConfig holds the pixel-space parameters for one transform run.
type houghConfig struct {
	voteThreshold int
	minLength     float64
	maxGap        float64
}

// supported is a detected segment with the fraction of its extent
// covered by edge pixels.
type supported struct {
	seg       geom.Segment
	precision float64
}

const (
	houghAngleSteps = 180
	// lineTolerance is how far, in pixels, an edge point may sit from
	// a voted line and still support it.
	lineTolerance = 2.0
)

// houghSegments runs a standard Hough transform over an edge raster
// and traces voted lines back into concrete segments. Edge points are
// consumed as segments claim them so overlapping peaks do not emit
// duplicates.
func houghSegments(edges [][]bool, cfg houghConfig) []supported {
	height := len(edges)
	if height == 0 {
		return nil
	}
	width := len(edges[0])
	maxDist := int(math.Ceil(math.Hypot(float64(width), float64(height))))

	// Vote every edge point into (rho, theta) space.
	acc := make([][]int, maxDist*2)
	for i := range acc {
		acc[i] = make([]int, houghAngleSteps)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] {
				continue
			}
			for theta := 0; theta < houghAngleSteps; theta++ {
				angle := float64(theta) * math.Pi / 180
				rho := float64(x)*math.Cos(angle) + float64(y)*math.Sin(angle)
				rhoIdx := int(rho) + maxDist
				if rhoIdx >= 0 && rhoIdx < maxDist*2 {
					acc[rhoIdx][theta]++
				}
			}
		}
	}

	peaks := accumulatorPeaks(acc, cfg.voteThreshold)

	used := make([][]bool, height)
	for y := range used {
		used[y] = make([]bool, width)
	}

	var out []supported
	for _, peak := range peaks {
		angle := float64(peak.theta) * math.Pi / 180
		rho := float64(peak.rho)
		cosA, sinA := math.Cos(angle), math.Sin(angle)

		// Collect unclaimed edge points near this line, keyed by
		// their position along it.
		type linePoint struct {
			x, y int
			t    float64
		}
		var pts []linePoint
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if !edges[y][x] || used[y][x] {
					continue
				}
				if math.Abs(float64(x)*cosA+float64(y)*sinA-rho) < lineTolerance {
					// Position along the line direction (-sinA, cosA).
					pts = append(pts, linePoint{x: x, y: y, t: -float64(x)*sinA + float64(y)*cosA})
				}
			}
		}
		if len(pts) < cfg.voteThreshold {
			continue
		}
		sort.Slice(pts, func(i, j int) bool { return pts[i].t < pts[j].t })

		// Split into runs wherever the along-line gap exceeds maxGap.
		runStart := 0
		for i := 1; i <= len(pts); i++ {
			if i < len(pts) && pts[i].t-pts[i-1].t <= cfg.maxGap {
				continue
			}
			run := pts[runStart:i]
			runStart = i
			if len(run) < 2 {
				continue
			}
			first, last := run[0], run[len(run)-1]
			seg := geom.Segment{
				X1: float64(first.x), Y1: float64(first.y),
				X2: float64(last.x), Y2: float64(last.y),
			}
			length := seg.Length()
			if length < cfg.minLength {
				continue
			}
			for _, p := range run {
				used[p.y][p.x] = true
			}
			out = append(out, supported{
				seg:       seg,
				precision: math.Min(1, float64(len(run))/length),
			})
		}
	}
	return out
}

type houghPeak struct {
	rho   int
	theta int
	votes int
}

// accumulatorPeaks finds local maxima above threshold in the vote
// space, strongest first.
func accumulatorPeaks(acc [][]int, threshold int) []houghPeak {
	if threshold < 2 {
		threshold = 2
	}
	maxDist := len(acc) / 2
	var peaks []houghPeak
	for rhoIdx := range acc {
		for theta := 0; theta < houghAngleSteps; theta++ {
			votes := acc[rhoIdx][theta]
			if votes < threshold {
				continue
			}
			if !isLocalMax(acc, rhoIdx, theta) {
				continue
			}
			peaks = append(peaks, houghPeak{rho: rhoIdx - maxDist, theta: theta, votes: votes})
		}
	}
	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].votes != peaks[j].votes {
			return peaks[i].votes > peaks[j].votes
		}
		if peaks[i].rho != peaks[j].rho {
			return peaks[i].rho < peaks[j].rho
		}
		return peaks[i].theta < peaks[j].theta
	})
	return peaks
}

// isLocalMax checks a 5x5 neighbourhood, wrapping theta.
func isLocalMax(acc [][]int, rhoIdx, theta int) bool {
	for dr := -2; dr <= 2; dr++ {
		for dt := -2; dt <= 2; dt++ {
			if dr == 0 && dt == 0 {
				continue
			}
			nr := rhoIdx + dr
			nt := (theta + dt + houghAngleSteps) % houghAngleSteps
			if nr >= 0 && nr < len(acc) && acc[nr][nt] > acc[rhoIdx][theta] {
				return false
			}
		}
	}
	return true
}
