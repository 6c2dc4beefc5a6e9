// Package imageutil grows images with constant-color borders so that
// vanishing points lying outside the original canvas can still be
// rendered at their true position.
package imageutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/banshee-data/horizon.report/internal/geom"
)

// DefaultMaxBorderSize caps how far an image is grown to chase distant
// points; vanishing points can be thousands of pixels off-canvas.
const DefaultMaxBorderSize = 1000

// Border returns a copy of img with a constant-color border strip of
// the given size on each side. Negative borders are invalid.
func Border(img image.Image, leftBorder, topBorder int, c color.Color) (image.Image, error) {
	if leftBorder < 0 || topBorder < 0 {
		return nil, fmt.Errorf("imageutil: negative borders are unsupported (%d, %d)", leftBorder, topBorder)
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()+2*leftBorder, b.Dy()+2*topBorder))
	draw.Draw(out, out.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(leftBorder, topBorder, leftBorder+b.Dx(), topBorder+b.Dy()), img, b.Min, draw.Src)
	return out, nil
}

// BorderToAccommodatePoints grows img just enough that every point
// fits inside the new canvas, up to maxBorderSize pixels per side.
// It returns the bordered image, the points shifted into the new
// coordinate frame, and the (left, top) shift itself so callers can
// translate anything else they computed against the original image.
func BorderToAccommodatePoints(img image.Image, points []geom.Point, c color.Color, maxBorderSize int) (image.Image, []geom.Point, geom.Point, error) {
	if maxBorderSize < 0 {
		return nil, nil, geom.Point{}, fmt.Errorf("imageutil: maxBorderSize must be non-negative, got %d", maxBorderSize)
	}
	if len(points) == 0 {
		return img, points, geom.Point{}, nil
	}
	b := img.Bounds()
	left, top := borderSize(b.Dx(), b.Dy(), points, maxBorderSize)
	out, err := Border(img, left, top, c)
	if err != nil {
		return nil, nil, geom.Point{}, err
	}
	shifted := make([]geom.Point, len(points))
	for i, p := range points {
		shifted[i] = geom.Point{X: p.X + float64(left), Y: p.Y + float64(top)}
	}
	return out, shifted, geom.Point{X: float64(left), Y: float64(top)}, nil
}

// borderSize finds per-side border sizes that fit the given points
// alongside the image itself.
func borderSize(imageWidth, imageHeight int, points []geom.Point, maxBorderSize int) (left, top int) {
	all := append([]geom.Point{{X: 0, Y: 0}, {X: float64(imageWidth), Y: float64(imageHeight)}}, points...)
	bounds, _ := geom.BoundingBox(all)

	widthAdjustment := bounds.Width() - float64(imageWidth)
	heightAdjustment := bounds.Height() - float64(imageHeight)
	if widthAdjustment < 0 {
		widthAdjustment = 0
	}
	if heightAdjustment < 0 {
		heightAdjustment = 0
	}
	if widthAdjustment > float64(maxBorderSize*2) {
		widthAdjustment = float64(maxBorderSize * 2)
	}
	if heightAdjustment > float64(maxBorderSize*2) {
		heightAdjustment = float64(maxBorderSize * 2)
	}
	return int(widthAdjustment / 2), int(heightAdjustment / 2)
}
