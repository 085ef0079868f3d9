package render

import (
	"image"
	"image/color"
	"math"

	"github.com/woozymasta/osmposter/internal/geo"
	"github.com/woozymasta/osmposter/internal/layers"
	"github.com/woozymasta/osmposter/internal/theme"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/vector"
)

// Stroke widths in poster points for non-road geometry.
const (
	areaOutlinePt = 1.0
	pointRadiusPt = 1.5
)

// Compositor draws a projected layer set onto a canvas in strict
// ascending z-order. Identical inputs produce byte-identical rasters:
// every iteration below runs over slices in a fixed order and all
// rasterization is single-threaded.
type Compositor struct {
	Theme *theme.Theme
}

// Compose draws water, then parks, then roads. Empty layers are no-ops.
func (c *Compositor) Compose(cv *Canvas, set layers.ProjectedSet) {
	for _, kind := range layers.Kinds {
		layer := set[kind]
		if len(layer.Features) == 0 {
			continue
		}

		switch kind {
		case layers.Water:
			c.drawArea(cv, layer, c.Theme.Water)
		case layers.Parks:
			c.drawArea(cv, layer, c.Theme.Parks)
		case layers.Roads:
			c.drawRoads(cv, layer)
		}

		log.Debug().
			Str("layer", kind.String()).
			Int("features", len(layer.Features)).
			Msg("Layer drawn")
	}
}

// drawArea renders a filled layer: polygons as fills, open lines as thin
// strokes, points as dots, all in one coverage pass so overlapping
// geometry saturates instead of double-blending.
func (c *Compositor) drawArea(cv *Canvas, layer layers.ProjectedLayer, style theme.AreaStyle) {
	bounds := cv.Image().Bounds()
	r := vector.NewRasterizer(bounds.Dx(), bounds.Dy())

	for _, f := range layer.Features {
		switch f.Geometry.Kind {
		case geo.KindPolygon:
			addRing(r, cv, f.Geometry.Points)
		case geo.KindLine:
			addStroke(r, cv, f.Geometry.Points, cv.ptToPx(areaOutlinePt))
		case geo.KindPoint:
			addDot(r, cv, f.Geometry.Points[0], cv.ptToPx(pointRadiusPt))
		}
	}

	paint(r, cv, style.Fill.WithOpacity(style.Opacity))
}

// drawRoads strokes the roads layer grouped by highway class: the themed
// classes from minor to major, then everything else with the default
// style, matching the circuit-board look where major roads sit on top.
func (c *Compositor) drawRoads(cv *Canvas, layer layers.ProjectedLayer) {
	roads := c.Theme.Roads

	ordered := make(map[string]bool, len(roads.Order))
	for _, class := range roads.Order {
		ordered[class] = true
	}

	for _, class := range roads.Order {
		c.strokeClass(cv, layer, roads.Class(class), roads.Opacity, func(tags map[string]string) bool {
			return tags["highway"] == class
		})
	}

	c.strokeClass(cv, layer, roads.Default, roads.DefaultOpacity, func(tags map[string]string) bool {
		return !ordered[tags["highway"]]
	})
}

// strokeClass draws every matching road in one coverage pass.
func (c *Compositor) strokeClass(cv *Canvas, layer layers.ProjectedLayer, style theme.RoadStyle, opacity float64, match func(map[string]string) bool) {
	bounds := cv.Image().Bounds()

	var r *vector.Rasterizer
	width := cv.ptToPx(style.Width)

	for _, f := range layer.Features {
		if !match(f.Tags) {
			continue
		}
		if r == nil {
			r = vector.NewRasterizer(bounds.Dx(), bounds.Dy())
		}

		switch f.Geometry.Kind {
		case geo.KindLine:
			addStroke(r, cv, f.Geometry.Points, width)
		case geo.KindPolygon:
			ring := append(f.Geometry.Points, f.Geometry.Points[0])
			addStroke(r, cv, ring, width)
		case geo.KindPoint:
			addDot(r, cv, f.Geometry.Points[0], width)
		}
	}

	if r != nil {
		paint(r, cv, style.Color.WithOpacity(opacity))
	}
}

// addRing appends a closed polygon outline to the rasterizer path.
func addRing(r *vector.Rasterizer, cv *Canvas, points []geo.PlanePoint) {
	if len(points) < 3 {
		return
	}

	x, y := cv.toPixel(points[0].X, points[0].Y)
	r.MoveTo(x, y)
	for _, p := range points[1:] {
		x, y = cv.toPixel(p.X, p.Y)
		r.LineTo(x, y)
	}
	r.ClosePath()
}

// addStroke appends a polyline as per-segment quads with square caps.
// Overlapping quads at joints saturate in coverage, so joints stay clean.
func addStroke(r *vector.Rasterizer, cv *Canvas, points []geo.PlanePoint, widthPx float64) {
	if len(points) < 2 {
		return
	}

	hw := widthPx / 2

	for i := 0; i < len(points)-1; i++ {
		ax, ay := cv.toPixel(points[i].X, points[i].Y)
		bx, by := cv.toPixel(points[i+1].X, points[i+1].Y)

		dx := float64(bx - ax)
		dy := float64(by - ay)
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}

		// unit direction and normal, with the cap extension baked in
		ux := dx / length * hw
		uy := dy / length * hw
		nx := -uy
		ny := ux

		r.MoveTo(float32(float64(ax)-ux+nx), float32(float64(ay)-uy+ny))
		r.LineTo(float32(float64(bx)+ux+nx), float32(float64(by)+uy+ny))
		r.LineTo(float32(float64(bx)+ux-nx), float32(float64(by)+uy-ny))
		r.LineTo(float32(float64(ax)-ux-nx), float32(float64(ay)-uy-ny))
		r.ClosePath()
	}
}

// addDot appends a small octagon approximating a filled circle.
func addDot(r *vector.Rasterizer, cv *Canvas, p geo.PlanePoint, radiusPx float64) {
	cx, cy := cv.toPixel(p.X, p.Y)

	const sides = 8
	for i := 0; i <= sides; i++ {
		angle := 2 * math.Pi * float64(i) / sides
		x := float32(float64(cx) + radiusPx*math.Cos(angle))
		y := float32(float64(cy) + radiusPx*math.Sin(angle))
		if i == 0 {
			r.MoveTo(x, y)
		} else {
			r.LineTo(x, y)
		}
	}
	r.ClosePath()
}

// paint composites the accumulated coverage over the canvas. The
// rasterizer clips everything outside the canvas bounds.
func paint(r *vector.Rasterizer, cv *Canvas, col color.NRGBA) {
	r.Draw(cv.Image(), cv.Image().Bounds(), image.NewUniform(col), image.Point{})
}
