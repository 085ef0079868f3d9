package render

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
)

// WriteError reports a failure to serialize the poster.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Write serializes the canvas to the given path, picking the encoder by
// extension: .webp for WebP, PNG otherwise. The file is only created
// after all rendering work is done, so earlier failures leave no partial
// output behind.
func Write(cv *Canvas, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		err = webp.Encode(f, cv.Image(), &webp.Options{Lossless: true})
	default:
		err = png.Encode(f, cv.Image())
	}

	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return &WriteError{Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	bounds := cv.Image().Bounds()
	log.Info().
		Str("path", path).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Int("dpi", cv.DPI()).
		Msg("Poster written")

	return nil
}
