package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"
)

// Style holds the fixed look of the power spectrum chart.
type Style struct {
	Title  string
	XLabel string
	YLabel string

	TitleSize vg.Length
	LabelSize vg.Length

	// Width and Height are the figure size. DPI only applies to raster
	// formats.
	Width  vg.Length
	Height vg.Length
	DPI    int

	LineWidth vg.Length
	LineColor color.Color

	GridColor  color.Color
	GridDashes []vg.Length

	Background color.Color
}

// Teal is the line color of the spectrum.
var Teal = color.RGBA{R: 0x00, G: 0x80, B: 0x80, A: 0xff}

// DefaultStyle is an 8x5 inch, 150 DPI semilog chart with a teal line and a
// dashed, partially transparent grid.
func DefaultStyle() Style {
	return Style{
		Title:  "Power Spectrum",
		XLabel: "N(efold)",
		YLabel: "P_R",

		TitleSize: vg.Points(16),
		LabelSize: vg.Points(14),

		Width:  8 * vg.Inch,
		Height: 5 * vg.Inch,
		DPI:    150,

		LineWidth: vg.Points(2),
		LineColor: Teal,

		GridColor:  color.NRGBA{R: 0xb0, G: 0xb0, B: 0xb0, A: 0xb3}, // alpha 0.7
		GridDashes: []vg.Length{vg.Points(4), vg.Points(2)},

		Background: color.White,
	}
}

// Validate reports the first field of s that cannot produce an image.
func (s Style) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("figure size must be positive, got %vx%v", s.Width, s.Height)
	case s.DPI <= 0:
		return fmt.Errorf("dpi must be positive, got %d", s.DPI)
	case s.LineWidth <= 0:
		return fmt.Errorf("line width must be positive, got %v", s.LineWidth)
	case s.LineColor == nil:
		return fmt.Errorf("line color is not set")
	}
	return nil
}

// ParseColor accepts "#rrggbb", "#rrggbbaa" and a few named colors.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "teal":
		return Teal, nil
	case "black":
		return color.Black, nil
	case "white":
		return color.White, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q", s)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
