// Package draw renders detection overlays: line groups in distinct
// colors, intersection points, and fitted vanishing points clamped to
// the image border when they land off-canvas.
package draw

import (
	"image"
	"image/color"
	"log"

	"github.com/fogleman/gg"

	"github.com/banshee-data/horizon.report/internal/geom"
)

// palette is the fixed color table used for line groups, one entry
// per group. Based on "The Best of Metro Colors"
// (https://www.color-hex.com/color-palette/861).
var palette = []color.RGBA{
	{0, 171, 169, 255}, {255, 0, 151, 255}, {162, 0, 255, 255}, {27, 161, 226, 255}, {240, 150, 9, 255},
	{0, 102, 101, 255}, {153, 0, 90, 255}, {97, 0, 153, 255}, {16, 96, 135, 255}, {144, 90, 5, 255},
	{102, 204, 203, 255}, {255, 102, 192, 255}, {199, 102, 255, 255}, {118, 198, 237, 255}, {246, 192, 107, 255},
}

// GroupColor returns the palette color for a line group index, or
// black past the end of the palette.
func GroupColor(i int) color.RGBA {
	if i < 0 || i >= len(palette) {
		return color.RGBA{0, 0, 0, 255}
	}
	return palette[i]
}

// Canvas draws annotations over a copy of an image.
type Canvas struct {
	dc *gg.Context
}

// NewCanvas wraps an image for annotation. The source image is not
// modified.
func NewCanvas(img image.Image) *Canvas {
	return &Canvas{dc: gg.NewContextForImage(img)}
}

// Lines strokes each segment in the given color.
func (c *Canvas) Lines(lines []geom.Segment, col color.Color, thickness float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(thickness)
	for _, l := range lines {
		c.dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		c.dc.Stroke()
	}
}

// Points fills a dot for each point.
func (c *Canvas) Points(points []geom.Point, col color.Color, radius float64) {
	c.dc.SetColor(col)
	for _, p := range points {
		c.dc.DrawCircle(p.X, p.Y, radius)
		c.dc.Fill()
	}
}

// LineGroups strokes each group of segments in its own palette color.
func (c *Canvas) LineGroups(groups [][]geom.Segment) {
	if len(groups) > len(palette) {
		log.Printf("draw: %d line groups exceed the %d-color palette; extras drawn black",
			len(groups), len(palette))
	}
	for i, lines := range groups {
		c.Lines(lines, GroupColor(i), 2)
	}
}

// Horizon strokes a slope/intercept line across the full image width.
func (c *Canvas) Horizon(slope, intercept float64, col color.Color, thickness float64) {
	w := float64(c.dc.Width())
	c.Lines([]geom.Segment{{X1: 0, Y1: intercept, X2: w, Y2: slope*w + intercept}}, col, thickness)
}

// FittedPoint draws a point, or its projection onto the image border
// when the point lies off-canvas (as distant vanishing points do).
func (c *Canvas) FittedPoint(p geom.Point, col color.Color, radius float64) {
	w := float64(c.dc.Width())
	h := float64(c.dc.Height())
	if p.X < 0 || p.X > w || p.Y < 0 || p.Y > h {
		angle := geom.Angle(geom.Segment{X1: w / 2, Y1: h / 2, X2: p.X, Y2: p.Y})
		border, err := geom.PointOnRectBorder(geom.Rect{Max: geom.Point{X: w, Y: h}}, angle)
		if err != nil {
			log.Printf("draw: cannot project point (%g, %g) to border: %v", p.X, p.Y, err)
			return
		}
		p = border
	}
	c.Points([]geom.Point{p}, col, radius)
}

// Image returns the annotated image.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// SavePNG writes the annotated image to a file.
func (c *Canvas) SavePNG(path string) error {
	return c.dc.SavePNG(path)
}
