// Package render draws country maps to raster images and orchestrates the
// classify → filter → frame → draw pipeline.
package render

import (
	"fmt"
	"image/color"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Colors is the map color scheme. Values are hex strings like "#ffaaaa".
// A Colors value is constructed once per request and never mutated.
type Colors struct {
	Target    string `yaml:"target"`
	Neighbor  string `yaml:"neighbor"`
	Other     string `yaml:"other"`
	Border    string `yaml:"border"`
	Ocean     string `yaml:"ocean"`
	Highlight string `yaml:"highlight"`
	Text      string `yaml:"text"`
}

// DefaultColors returns the standard palette.
func DefaultColors() Colors {
	return Colors{
		Target:    "#ffaaaa",
		Neighbor:  "#aaaaff",
		Other:     "#f5f5f5",
		Border:    "#333333",
		Ocean:     "#e6f2ff",
		Highlight: "#ffff00",
		Text:      "#000000",
	}
}

// LoadColors reads a palette from a YAML style file. Fields missing from
// the file keep their default values.
func LoadColors(path string) (Colors, error) {
	colors := DefaultColors()
	data, err := os.ReadFile(path)
	if err != nil {
		return colors, eris.Wrapf(err, "render: read style file %s", path)
	}
	if err := yaml.Unmarshal(data, &colors); err != nil {
		return colors, eris.Wrapf(err, "render: parse style file %s", path)
	}
	return colors, nil
}

// LabelType selects what text labels carry.
type LabelType string

const (
	// LabelName labels countries with their (localized) display name.
	LabelName LabelType = "name"
	// LabelCode labels countries with their ISO code.
	LabelCode LabelType = "code"
)

// Config holds per-request rendering parameters. It is constructed once
// per request and treated as immutable afterwards.
type Config struct {
	OutputPath       string
	Title            string
	Width            int
	Height           int
	TargetPercentage float64
	ExcludeExclaves  bool
	Colors           Colors
	ShowLabels       bool
	LabelType        LabelType
	BorderWidth      float64
}

// DefaultConfig returns a Config with the standard 12:10 canvas.
func DefaultConfig() Config {
	return Config{
		Width:            1200,
		Height:           1000,
		TargetPercentage: 0.3,
		ExcludeExclaves:  true,
		Colors:           DefaultColors(),
		ShowLabels:       true,
		LabelType:        LabelName,
		BorderWidth:      1.5,
	}
}

// AspectRatio returns width/height of the output image.
func (c Config) AspectRatio() float64 {
	return float64(c.Width) / float64(c.Height)
}

// parseHex converts "#rrggbb" or "#rgb" to an NRGBA color.
func parseHex(s string) (color.NRGBA, error) {
	var r, g, b uint8
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, eris.Wrapf(err, "render: parse color %q", s)
		}
	case 4:
		if _, err := fmt.Sscanf(s, "#%1x%1x%1x", &r, &g, &b); err != nil {
			return color.NRGBA{}, eris.Wrapf(err, "render: parse color %q", s)
		}
		r, g, b = r*17, g*17, b*17
	default:
		return color.NRGBA{}, eris.Errorf("render: parse color %q", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// mustHex is parseHex with a black fallback for malformed values, used
// where a bad color should degrade rather than fail the render.
func mustHex(s string) color.NRGBA {
	c, err := parseHex(s)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return c
}
