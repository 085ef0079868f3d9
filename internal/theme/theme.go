// Package theme holds the fixed poster palette. The palette ships embedded
// in the binary and is loaded once per run into an immutable table.
package theme

import (
	_ "embed"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed theme.yaml
var themeYAML []byte

// Color is an RGB color parsed from a "#rrggbb" YAML scalar.
type Color struct {
	color.NRGBA
}

// UnmarshalYAML parses a hex color string.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return fmt.Errorf("invalid color %q", value.Value)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("invalid color %q: %w", value.Value, err)
	}

	c.NRGBA = color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}

	return nil
}

// WithOpacity returns the color with its alpha scaled by the given factor.
func (c Color) WithOpacity(opacity float64) color.NRGBA {
	if opacity < 0 {
		opacity = 0
	} else if opacity > 1 {
		opacity = 1
	}

	out := c.NRGBA
	out.A = uint8(opacity*255 + 0.5)
	return out
}

// AreaStyle describes a filled layer.
type AreaStyle struct {
	Fill    Color   `yaml:"fill"`
	Opacity float64 `yaml:"opacity"`
}

// RoadStyle describes one highway class: stroke color and width in
// poster points (scaled by DPI at render time).
type RoadStyle struct {
	Color Color   `yaml:"color"`
	Width float64 `yaml:"width"`
}

// RoadsStyle describes the roads layer: per-class styles, a fallback
// style, the in-layer draw order and the opacities for themed and
// fallback classes.
type RoadsStyle struct {
	Opacity        float64              `yaml:"opacity"`
	DefaultOpacity float64              `yaml:"default_opacity"`
	Order          []string             `yaml:"order"`
	Default        RoadStyle            `yaml:"default"`
	Classes        map[string]RoadStyle `yaml:"classes"`
}

// Class returns the style for a highway class, falling back to Default
// for classes without an explicit entry.
func (r *RoadsStyle) Class(name string) RoadStyle {
	if s, ok := r.Classes[name]; ok {
		return s
	}
	return r.Default
}

// TextStyle describes label colors.
type TextStyle struct {
	Color  Color `yaml:"color"`
	Shadow Color `yaml:"shadow"`
}

// Theme is the full style table for one poster.
type Theme struct {
	Background Color      `yaml:"background"`
	Water      AreaStyle  `yaml:"water"`
	Parks      AreaStyle  `yaml:"parks"`
	Roads      RoadsStyle `yaml:"roads"`
	Text       TextStyle  `yaml:"text"`
}

// Load parses the embedded palette. The returned theme must not be mutated.
func Load() (*Theme, error) {
	var t Theme
	if err := yaml.Unmarshal(themeYAML, &t); err != nil {
		return nil, fmt.Errorf("parse embedded theme: %w", err)
	}

	return &t, nil
}
