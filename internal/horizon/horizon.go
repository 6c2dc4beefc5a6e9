// Package horizon derives the horizon line from a set of detected
// vanishing points and the camera's principal point.
package horizon

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/horizon.report/internal/geom"
)

// Line is an infinite image-plane line in slope/intercept form.
// A nil *Line stands for "horizon undetected" in scoring.
type Line struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at an x coordinate.
func (l Line) At(x float64) float64 {
	return l.Slope*x + l.Intercept
}

// Find estimates the horizon for a set of vanishing points.
//
// The slope is derived perpendicular to the line from the principal
// point to the vertical vanishing point; the intercept is a least
// squares fit over the remaining (horizontal) VPs. Pass verticalVP
// when it is already known, otherwise it is chosen from the set.
//
// Fallbacks, in order: no VPs at all yields the flat image-center
// horizon (slope 0, intercept principalPoint.Y); no vertical VP keeps
// all VPs as horizontal candidates under a flat slope; no horizontal
// VPs keeps the derived slope with a centered intercept; a non-finite
// intercept fit is replaced by the centered intercept.
func Find(vps []geom.Point, principalPoint geom.Point, verticalVP *geom.Point) Line {
	if len(vps) == 0 && verticalVP == nil {
		return Line{Slope: 0, Intercept: principalPoint.Y}
	}

	if verticalVP == nil {
		if vp, ok := ChooseVerticalVP(vps, principalPoint); ok {
			verticalVP = &vp
		}
	}

	var slope float64
	var horizontalVPs []geom.Point
	if verticalVP != nil {
		verticalLine := geom.Segment{
			X1: principalPoint.X, Y1: principalPoint.Y,
			X2: verticalVP.X, Y2: verticalVP.Y,
		}
		if s, err := geom.Slope(verticalLine); err == nil && s != 0 {
			// A perpendicular line has the negative reciprocal slope.
			slope = -1 / s
		} else {
			// The connecting line is vertical (or horizontal, which
			// the 45°–135° selection rules out): the horizon is flat.
			slope = 0
		}
		for _, vp := range vps {
			if vp != *verticalVP {
				horizontalVPs = append(horizontalVPs, vp)
			}
		}
	} else {
		// No vertical VP found: assume a flat horizon over all VPs.
		slope = 0
		horizontalVPs = vps
	}

	if len(horizontalVPs) == 0 {
		return Line{Slope: slope, Intercept: principalPoint.Y}
	}

	intercept := fitIntercept(horizontalVPs, slope)
	if math.IsNaN(intercept) || math.IsInf(intercept, 0) {
		intercept = principalPoint.Y
	}
	return Line{Slope: slope, Intercept: intercept}
}

// ChooseVerticalVP looks for a vertical vanishing point: among VPs in
// a mostly-vertical direction from the principal point (45°–135° or
// -135°–-45°), the most distant one whose magnitude exceeds twice the
// principal point's y coordinate. The second result is false when no
// VP qualifies.
func ChooseVerticalVP(vps []geom.Point, principalPoint geom.Point) (geom.Point, bool) {
	var best geom.Point
	bestMag := 0.0
	found := false
	for _, vp := range vps {
		dx := vp.X - principalPoint.X
		dy := vp.Y - principalPoint.Y
		angle := math.Atan2(dy, dx) * 180 / math.Pi
		if (angle < 45 || angle > 135) && (angle < -135 || angle > -45) {
			continue
		}
		magnitude := math.Hypot(dx, dy)
		if magnitude > principalPoint.Y*2 && (!found || magnitude > bestMag) {
			best = vp
			bestMag = magnitude
			found = true
		}
	}
	return best, found
}

// fitIntercept solves the one-parameter least squares problem for the
// intercept of a line with fixed slope through the given points. With
// a constant design column this reduces to the mean of y - slope*x.
func fitIntercept(points []geom.Point, slope float64) float64 {
	ys := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p.Y - slope*p.X
	}
	return stat.Mean(ys, nil)
}
