// Package geom provides the 2D primitives shared by the vanishing-point
// pipeline: segment intersection, point/line distances, angles and
// slopes, bounding boxes and border projection.
//
// Degenerate geometry is reported with distinct sentinel errors so that
// callers can decide their own fallback policy. Parallel or coincident
// segments are not an error: intersection simply reports no point.
package geom

import (
	"errors"
	"math"
)

// ErrZeroLength is returned when an operation requires a segment with
// two distinct endpoints but was given a zero-length one.
var ErrZeroLength = errors.New("geom: zero-length segment")

// ErrVerticalLine is returned by Slope for vertical segments, whose
// slope is undefined. Callers must handle this distinctly rather than
// substituting a default.
var ErrVerticalLine = errors.New("geom: vertical line has undefined slope")

// Intersect finds the intersection of the infinite lines through two
// segments. The second result is false for parallel or coincident
// lines (including duplicate segments), which is an expected outcome,
// not an error.
func Intersect(a, b Segment) (Point, bool) {
	denom := (a.X1-a.X2)*(b.Y1-b.Y2) - (a.Y1-a.Y2)*(b.X1-b.X2)
	if denom == 0 {
		return Point{}, false
	}
	detA := a.X1*a.Y2 - a.Y1*a.X2
	detB := b.X1*b.Y2 - b.Y1*b.X2
	x := (detA*(b.X1-b.X2) - (a.X1-a.X2)*detB) / denom
	y := (detA*(b.Y1-b.Y2) - (a.Y1-a.Y2)*detB) / denom
	return Point{x, y}, true
}

// AllIntersections returns the intersection points of every pair of
// segments, in pairwise combination order. Duplicate points are kept:
// repeated collinear configurations legitimately intersect at the same
// place, and callers decide whether to dedupe.
func AllIntersections(lines []Segment) []Point {
	var points []Point
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			if p, ok := Intersect(lines[i], lines[j]); ok {
				points = append(points, p)
			}
		}
	}
	return points
}

// PointToLineDist returns the perpendicular distance from a point to
// the infinite line through a segment. Returns ErrZeroLength when the
// segment's endpoints coincide.
func PointToLineDist(p Point, l Segment) (float64, error) {
	length := l.Length()
	if length == 0 {
		return 0, ErrZeroLength
	}
	num := math.Abs((l.Y2-l.Y1)*p.X - (l.X2-l.X1)*p.Y + l.X2*l.Y1 - l.Y2*l.X1)
	return num / length, nil
}

// Dist returns the euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Midpoint returns the point halfway between two points.
func Midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// NearestPoint finds the point in points closest to p. The third
// result is false when points is empty.
func NearestPoint(p Point, points []Point) (Point, float64, bool) {
	if len(points) == 0 {
		return Point{}, 0, false
	}
	nearest := points[0]
	nearestDist := Dist(p, points[0])
	for _, q := range points[1:] {
		if d := Dist(p, q); d < nearestDist {
			nearest = q
			nearestDist = d
		}
	}
	return nearest, nearestDist, true
}

// Angle returns the direction of a segment in degrees in [0, 360),
// measured from the first endpoint to the second.
func Angle(l Segment) float64 {
	deg := math.Atan2(l.Y2-l.Y1, l.X2-l.X1) * 180 / math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Slope returns the slope of the line through a segment. Returns
// ErrVerticalLine for vertical segments; a zero slope (horizontal
// line) is a valid, distinct result.
func Slope(l Segment) (float64, error) {
	dx := l.X2 - l.X1
	if dx == 0 {
		return 0, ErrVerticalLine
	}
	return (l.Y2 - l.Y1) / dx, nil
}

// BoundingBox returns the smallest rectangle containing all points.
// The second result is false when points is empty.
func BoundingBox(points []Point) (Rect, bool) {
	if len(points) == 0 {
		return Rect{}, false
	}
	r := Rect{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r, true
}

// Centroid returns the arithmetic mean of a set of points. The second
// result is false when points is empty.
func Centroid(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(points))
	return Point{sumX / n, sumY / n}, true
}
