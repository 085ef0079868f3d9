// Package render composes projected layers into the final poster raster.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Physical poster size in inches, portrait. Pixel dimensions scale with
// DPI while the print size stays fixed.
const (
	PosterWidthIn  = 18
	PosterHeightIn = 24
)

// Canvas owns the pixel buffer from composition until the writer
// serializes it, plus the transform from planar meters to pixels.
type Canvas struct {
	img        *image.RGBA
	dpi        int
	pxPerMeter float64
}

// NewCanvas allocates a poster canvas for the given DPI and data radius,
// filled with the background color. The horizontal extent of the canvas
// covers the full fetch diameter; taller-than-wide posters show extra
// data above and below.
func NewCanvas(dpi int, radiusKm float64, background color.NRGBA) *Canvas {
	width := PosterWidthIn * dpi
	height := PosterHeightIn * dpi

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	return &Canvas{
		img:        img,
		dpi:        dpi,
		pxPerMeter: float64(width) / (2 * radiusKm * 1000),
	}
}

// Image returns the underlying raster.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// DPI returns the requested resolution.
func (c *Canvas) DPI() int {
	return c.dpi
}

// toPixel maps planar meters (origin at the resolved center, y north)
// onto pixel coordinates (origin top-left, y down).
func (c *Canvas) toPixel(x, y float64) (float32, float32) {
	bounds := c.img.Bounds()
	px := float64(bounds.Dx())/2 + x*c.pxPerMeter
	py := float64(bounds.Dy())/2 - y*c.pxPerMeter

	return float32(px), float32(py)
}

// ptToPx converts a stroke width in poster points (1/72 in) to pixels.
func (c *Canvas) ptToPx(pt float64) float64 {
	px := pt * float64(c.dpi) / 72
	if px < 1 {
		px = 1
	}
	return px
}
