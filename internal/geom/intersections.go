package geom

import (
	"sort"

	"github.com/banshee-data/horizon.report/internal/cluster"
)

// maxIntersectionClusters caps the adaptive search when grouping
// intersection points.
const maxIntersectionClusters = 10

// LargestIntersectionCluster finds the largest cluster of nearby
// pairwise intersections among lines. It is an alternative,
// clustering-based vanishing point estimator: a dominant VP shows up
// as a dense knot of intersection points.
//
// Returns the member points of the biggest cluster, or an empty slice
// when there are no intersections. A single intersection point is its
// own cluster.
func LargestIntersectionCluster(lines []Segment) ([]Point, error) {
	points := AllIntersections(lines)
	if len(points) == 0 {
		return nil, nil
	}
	if len(points) == 1 {
		return points, nil
	}

	samples := make([][]float64, len(points))
	for i, p := range points {
		samples[i] = []float64{p.X, p.Y}
	}
	labels, err := cluster.Adaptive(samples, maxIntersectionClusters, cluster.DefaultKMeansParams())
	if err != nil {
		return nil, err
	}

	byLabel := make(map[int][]Point)
	for i, label := range labels {
		byLabel[label] = append(byLabel[label], points[i])
	}
	largest := []Point(nil)
	largestLabel := -1
	for label, members := range byLabel {
		// Prefer the lower label on ties so the result does not depend
		// on map iteration order.
		if len(members) > len(largest) || (len(members) == len(largest) && label < largestLabel) {
			largest = members
			largestLabel = label
		}
	}
	return largest, nil
}

// BiggestIntersection finds the intersection point crossed by the most
// lines, counting a line as crossing when it passes within threshold
// pixels. The third result is false when the lines produce no
// intersections at all.
func BiggestIntersection(lines []Segment, threshold float64) (Point, []Segment, bool) {
	groups := groupLinesByIntersections(lines, threshold)
	if len(groups) == 0 {
		return Point{}, nil, false
	}

	points := make([]Point, 0, len(groups))
	for p := range groups {
		points = append(points, p)
	}
	// Deterministic order regardless of map iteration: most members
	// first, then coordinates.
	sort.Slice(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if len(groups[a]) != len(groups[b]) {
			return len(groups[a]) > len(groups[b])
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Y < b.Y
	})
	return points[0], groups[points[0]], true
}

// groupLinesByIntersections maps each distinct intersection point to
// the lines passing within threshold of it. A line may belong to any
// number of intersection points.
func groupLinesByIntersections(lines []Segment, threshold float64) map[Point][]Segment {
	groups := make(map[Point][]Segment)
	for _, p := range AllIntersections(lines) {
		if _, ok := groups[p]; ok {
			continue
		}
		var members []Segment
		for _, l := range lines {
			d, err := PointToLineDist(p, l)
			if err != nil {
				continue
			}
			if d < threshold {
				members = append(members, l)
			}
		}
		groups[p] = members
	}
	return groups
}
