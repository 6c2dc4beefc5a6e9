// Package score compares detected vanishing-point geometry against
// ground truth for benchmarking.
//
// Matching between ground truth and detections is greedy nearest-first
// assignment, a deliberate simplification over optimal bipartite
// assignment. Missing detections are represented with nil sentinels so
// callers can aggregate without branching on errors.
package score

import (
	"math"
	"sort"

	"github.com/banshee-data/horizon.report/internal/geom"
	"github.com/banshee-data/horizon.report/internal/horizon"
)

// ImageDims holds the pixel dimensions of a benchmark image.
type ImageDims struct {
	Width  int
	Height int
}

// PrincipalPoint returns the assumed optical center: the image center,
// with integer halving to match how ground truth was produced.
func (d ImageDims) PrincipalPoint() geom.Point {
	return geom.Point{X: float64(d.Width / 2), Y: float64(d.Height / 2)}
}

// HorizonError measures the worst vertical gap between the detected
// and ground truth horizon lines across the image's x range,
// normalized by image height. The second result is false when either
// horizon is absent.
func HorizonError(groundTruth, detected *horizon.Line, dims ImageDims) (float64, bool) {
	if groundTruth == nil || detected == nil {
		return 0, false
	}
	width := float64(dims.Width)
	gapAt := func(x float64) float64 {
		return math.Abs(groundTruth.At(x) - detected.At(x))
	}
	return math.Max(gapAt(0), gapAt(width)) / float64(dims.Height), true
}

// VPDirectionError measures, per ground truth VP, the angular error of
// its matched detection as seen from the principal point.
//
// Every (ground truth, detected) pair is scored by the difference
// between the two ray angles, folded into [0, 180]. Pairs are sorted
// ascending and assigned greedily, each VP claimable once. The result
// has one entry per ground truth VP, nil for VPs left unmatched.
func VPDirectionError(groundTruthVPs, detectedVPs []geom.Point, dims ImageDims) []*float64 {
	pp := dims.PrincipalPoint()

	type pair struct {
		diff   float64
		gt, dt int
	}
	var pairs []pair
	for g, gtVP := range groundTruthVPs {
		gtAngle := geom.Angle(geom.Segment{X1: pp.X, Y1: pp.Y, X2: gtVP.X, Y2: gtVP.Y})
		for d, dtVP := range detectedVPs {
			dtAngle := geom.Angle(geom.Segment{X1: pp.X, Y1: pp.Y, X2: dtVP.X, Y2: dtVP.Y})
			diff := 180 - math.Abs(math.Abs(gtAngle-dtAngle)-180)
			pairs = append(pairs, pair{diff: diff, gt: g, dt: d})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].diff < pairs[j].diff })

	errors := make([]*float64, len(groundTruthVPs))
	claimedDT := make([]bool, len(detectedVPs))
	for _, p := range pairs {
		if errors[p.gt] != nil || claimedDT[p.dt] {
			continue
		}
		diff := p.diff
		errors[p.gt] = &diff
		claimedDT[p.dt] = true
	}
	return errors
}

// LocationAccuracyError measures the average log distance between
// matched ground truth and detected VPs. Unmatched VPs on either side
// do not count against the score; either set being empty scores 0.
//
// Pairs are sorted by distance before the greedy pass so the closest
// pairs match first regardless of input order.
func LocationAccuracyError(groundTruthVPs, detectedVPs []geom.Point) float64 {
	if len(groundTruthVPs) == 0 || len(detectedVPs) == 0 {
		return 0
	}

	type pair struct {
		dist   float64
		gt, dt int
	}
	var pairs []pair
	for g, gtVP := range groundTruthVPs {
		for d, dtVP := range detectedVPs {
			pairs = append(pairs, pair{dist: geom.Dist(gtVP, dtVP), gt: g, dt: d})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })

	claimedGT := make([]bool, len(groundTruthVPs))
	claimedDT := make([]bool, len(detectedVPs))
	total := 0.0
	for _, p := range pairs {
		if claimedGT[p.gt] || claimedDT[p.dt] {
			continue
		}
		claimedGT[p.gt] = true
		claimedDT[p.dt] = true
		if p.dist > 0 {
			total += math.Log(p.dist)
		}
	}
	return total / float64(min(len(groundTruthVPs), len(detectedVPs)))
}

// ModelCountError is the signed difference in VP counts: positive for
// over-detection, negative for under-detection.
func ModelCountError(groundTruthVPs, detectedVPs []geom.Point) int {
	return len(detectedVPs) - len(groundTruthVPs)
}
