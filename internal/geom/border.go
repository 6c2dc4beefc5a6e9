package geom

import (
	"fmt"
	"math"
)

// PointOnRectBorder finds the point on a rectangle's border lying at
// the given angle (degrees) from its center. Used to place off-canvas
// points on the image edge when drawing.
//
// The rectangle is first grown into a square, the border point is
// found on the square, then each axis is rescaled by its own
// width/height ratio. Coordinates are rounded to whole pixels.
func PointOnRectBorder(rect Rect, angleDeg float64) (Point, error) {
	width := rect.Width()
	height := rect.Height()
	if width <= 0 || height <= 0 {
		return Point{}, fmt.Errorf("geom: rect must have positive extent, got %gx%g", width, height)
	}
	squareSize := math.Max(width, height)
	square := Rect{
		Min: rect.Min,
		Max: Point{rect.Min.X + squareSize, rect.Min.Y + squareSize},
	}
	border := pointOnSquareBorder(square, angleDeg)
	return Point{
		X: math.Round(border.X * (width / squareSize)),
		Y: math.Round(border.Y * (height / squareSize)),
	}, nil
}

// pointOnSquareBorder finds the border point of a square at the given
// angle from its center, by clamping the polar ray's magnitude to
// whichever edge it hits first.
func pointOnSquareBorder(square Rect, angleDeg float64) Point {
	angle := angleDeg * math.Pi / 180
	width := square.Width()
	height := square.Height()
	centerX := square.Min.X + width/2
	centerY := square.Min.Y + height/2
	absCos := math.Abs(math.Cos(angle))
	absSin := math.Abs(math.Sin(angle))
	var magnitude float64
	if width/2*absSin <= height/2*absCos {
		magnitude = width / 2 / absCos
	} else {
		magnitude = height / 2 / absSin
	}
	return Point{
		X: math.Round(centerX + math.Cos(angle)*magnitude),
		Y: math.Round(centerY + math.Sin(angle)*magnitude),
	}
}
