package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/woozymasta/osmposter/internal/geo"
	"github.com/woozymasta/osmposter/internal/theme"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Label positions are canvas-relative fractions, so text never collides
// with the data area regardless of radius or feature density.
const (
	titleBaselineFrac  = 0.06 // above the bottom edge
	coordsBaselineFrac = 0.03
	regionTopFrac      = 0.03 // below the top edge
)

// Font sizes in poster points.
const (
	titleSizePt  = 72
	coordsSizePt = 24
	regionSizePt = 28
)

// Labels draws the optional title, coordinate and region text at fixed
// canvas positions.
type Labels struct {
	Theme *theme.Theme

	Title  string
	Region string
	Center geo.Point
}

// Draw renders all labels onto the canvas. Callers that want a bare
// poster simply never call it; omitting labels is configuration, not an
// error path.
func (l *Labels) Draw(cv *Canvas) error {
	img := cv.Image()
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	shadowOffset := cv.DPI() / 75
	if shadowOffset < 1 {
		shadowOffset = 1
	}

	if l.Title != "" {
		face, err := posterFace(float64(titleSizePt) * float64(cv.DPI()) / 72)
		if err != nil {
			return err
		}
		baseline := height - int(float64(height)*titleBaselineFrac)
		drawCentered(img, strings.ToUpper(l.Title), face, width, baseline,
			l.Theme.Text.Color.NRGBA, l.Theme.Text.Shadow.NRGBA, shadowOffset)
	}

	coords := formatCoords(l.Center)
	if l.Title != "" || l.Region != "" {
		face, err := posterFace(float64(coordsSizePt) * float64(cv.DPI()) / 72)
		if err != nil {
			return err
		}
		baseline := height - int(float64(height)*coordsBaselineFrac)
		drawCentered(img, coords, face, width, baseline,
			l.Theme.Text.Color.WithOpacity(0.7), color.NRGBA{}, 0)
	}

	if l.Region != "" {
		face, err := posterFace(float64(regionSizePt) * float64(cv.DPI()) / 72)
		if err != nil {
			return err
		}
		baseline := int(float64(height)*regionTopFrac) + face.Metrics().Ascent.Ceil()
		drawCentered(img, strings.ToUpper(l.Region), face, width, baseline,
			l.Theme.Text.Color.WithOpacity(0.6), color.NRGBA{}, 0)
	}

	return nil
}

// formatCoords renders the center as a degree pair with hemisphere
// suffixes, e.g. "37.3382°N  121.8863°W".
func formatCoords(p geo.Point) string {
	latDir := "N"
	if p.Lat < 0 {
		latDir = "S"
	}
	lonDir := "E"
	if p.Lon < 0 {
		lonDir = "W"
	}

	lat := p.Lat
	if lat < 0 {
		lat = -lat
	}
	lon := p.Lon
	if lon < 0 {
		lon = -lon
	}

	return fmt.Sprintf("%.4f°%s  %.4f°%s", lat, latDir, lon, lonDir)
}

// drawCentered draws text centered horizontally at the given baseline,
// with an optional shadow pass underneath.
func drawCentered(img *image.RGBA, text string, face font.Face, width, baseline int, col color.NRGBA, shadow color.NRGBA, shadowOffset int) {
	textWidth := font.MeasureString(face, text).Ceil()
	x := (width - textWidth) / 2

	if shadowOffset > 0 {
		drawString(img, text, face, x+shadowOffset, baseline+shadowOffset, shadow)
	}
	drawString(img, text, face, x, baseline, col)
}

func drawString(img *image.RGBA, text string, face font.Face, x, y int, col color.NRGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

var (
	posterFontOnce sync.Once
	posterFontErr  error
	posterFont     *opentype.Font

	faceMu    sync.Mutex
	faceCache = make(map[float64]font.Face)
)

// posterFace returns a Go Regular face for the given pixel size, caching
// faces per size.
func posterFace(size float64) (font.Face, error) {
	posterFontOnce.Do(func() {
		posterFont, posterFontErr = opentype.Parse(goregular.TTF)
	})
	if posterFontErr != nil {
		return nil, posterFontErr
	}

	faceMu.Lock()
	defer faceMu.Unlock()

	if face, ok := faceCache[size]; ok {
		return face, nil
	}

	face, err := opentype.NewFace(posterFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	faceCache[size] = face

	return face, nil
}
