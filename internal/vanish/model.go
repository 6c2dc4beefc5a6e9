// Package vanish estimates vanishing points from 2D line segments. It
// provides the minimax vanishing-point model consumed by the consensus
// engine, the detection orchestrator that runs it in J-linkage or
// X-RANSAC mode, and direction-based line grouping.
package vanish

import (
	"fmt"

	"github.com/banshee-data/horizon.report/internal/consensus"
	"github.com/banshee-data/horizon.report/internal/geom"
)

// SegmentVPModel fits a vanishing point to a set of line segments for
// the consensus engine. Candidate VPs are the pairwise intersections
// of the input lines; the fit minimizes the worst per-line residual
// (minimax), which is robust to a single badly-aimed line in a way a
// mean criterion is not.
type SegmentVPModel struct{}

// Fit returns the candidate intersection minimizing the maximum
// per-line residual. It wraps consensus.ErrDegenerate when the lines
// produce no intersections at all (fewer than two lines, or all
// parallel).
func (SegmentVPModel) Fit(lines []geom.Segment) (geom.Point, error) {
	vp, ok := ChooseBestVPByMaxError(lines)
	if !ok {
		return geom.Point{}, fmt.Errorf("no candidate intersections among %d lines: %w",
			len(lines), consensus.ErrDegenerate)
	}
	return vp, nil
}

// Residuals returns the per-segment midpoint error against a fitted
// vanishing point.
func (SegmentVPModel) Residuals(lines []geom.Segment, vp geom.Point) []float64 {
	residuals := make([]float64, len(lines))
	for i, l := range lines {
		residuals[i] = SegmentMidpointVPError(l, vp)
	}
	return residuals
}

// ChooseBestVPByMaxError scans every pairwise intersection of lines
// and returns the one whose worst per-line error is smallest. Ties
// keep the first candidate in intersection-enumeration order, so
// results are reproducible for a given input order. The second result
// is false when there are no intersections.
func ChooseBestVPByMaxError(lines []geom.Segment) (geom.Point, bool) {
	var best geom.Point
	bestErr := 0.0
	found := false
	for _, p := range geom.AllIntersections(lines) {
		worst := 0.0
		for _, l := range lines {
			if e := SegmentMidpointVPError(l, p); e > worst {
				worst = e
			}
		}
		if !found || worst < bestErr {
			best = p
			bestErr = worst
			found = true
		}
	}
	return best, found
}

// SegmentMidpointVPError measures how well a segment's direction
// points at a vanishing point: the perpendicular distance from one
// segment endpoint to the line through the VP and the segment's own
// midpoint. It is zero when the segment, extended, passes through the
// VP, regardless of how far away the VP is.
func SegmentMidpointVPError(segment geom.Segment, vp geom.Point) float64 {
	mid := segment.Midpoint()
	anchored := geom.Segment{X1: mid.X, Y1: mid.Y, X2: vp.X, Y2: vp.Y}
	d, err := geom.PointToLineDist(segment.Start(), anchored)
	if err != nil {
		// The VP coincides with the midpoint: the segment passes
		// through it exactly.
		return 0
	}
	return d
}

// The model must satisfy the consensus capability contract.
var _ consensus.Model[geom.Segment, geom.Point] = SegmentVPModel{}
