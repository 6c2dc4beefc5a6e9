package geom

import "math"

// Point is a 2D image-plane point. Coordinates may be fractional.
//
// Point is comparable and is used as a map key for vanishing-point
// identity. Identity is exact-value based: callers must carry the same
// Point value through rather than re-deriving it with independent
// floating-point rounding.
type Point struct {
	X float64
	Y float64
}

// Segment is a line segment stored as two endpoints. The segment is
// undirected, but angle computations are sensitive to the stored
// endpoint order.
type Segment struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// A Rect is an axis-aligned rectangle described by its lower-left and
// upper-right corners.
type Rect struct {
	Min Point
	Max Point
}

// Width returns the rectangle's extent along the x axis.
func (r Rect) Width() float64 { return math.Abs(r.Max.X - r.Min.X) }

// Height returns the rectangle's extent along the y axis.
func (r Rect) Height() float64 { return math.Abs(r.Max.Y - r.Min.Y) }

// Start returns the segment's first endpoint.
func (s Segment) Start() Point { return Point{s.X1, s.Y1} }

// End returns the segment's second endpoint.
func (s Segment) End() Point { return Point{s.X2, s.Y2} }

// Midpoint returns the point halfway along the segment.
func (s Segment) Midpoint() Point {
	return Midpoint(s.Start(), s.End())
}

// Length returns the segment's euclidean length.
func (s Segment) Length() float64 {
	return Dist(s.Start(), s.End())
}
