// Package config reads the optional gcfg file that overrides the chart style
// and the column layout of the data file.
package config

import (
	"fmt"

	"gonum.org/v1/plot/vg"
	"gopkg.in/gcfg.v1"

	"berkotech.co/powerspec/render"
	"berkotech.co/powerspec/spectrum"
)

// Config is the file representation. Unset fields keep their defaults.
//
//	[plot]
//	title = Power Spectrum
//	x-label = N(efold)
//	y-label = P_R
//	width = 8
//	height = 5
//	dpi = 150
//	line-width = 2
//	line-color = "#008080"
//
//	[data]
//	layout = kmode
//	x-offset = 0
type Config struct {
	Plot struct {
		Title     string
		XLabel    string  `gcfg:"x-label"`
		YLabel    string  `gcfg:"y-label"`
		Width     float64 // inches
		Height    float64 // inches
		DPI       int     `gcfg:"dpi"`
		LineWidth float64 `gcfg:"line-width"` // points
		LineColor string  `gcfg:"line-color"`
	}
	Data struct {
		Layout  string
		XOffset float64 `gcfg:"x-offset"`
	}
}

// Read parses the file at path.
func Read(path string) (*Config, error) {
	c := &Config{}
	if err := gcfg.ReadFileInto(c, path); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return c, nil
}

// Parse parses config text.
func Parse(text string) (*Config, error) {
	c := &Config{}
	if err := gcfg.ReadStringInto(c, text); err != nil {
		return nil, err
	}
	return c, nil
}

// Apply copies the settings in c over p's defaults.
func (c *Config) Apply(p *spectrum.Plotter) error {
	layout, err := spectrum.ParseLayout(c.Data.Layout)
	if err != nil {
		return err
	}
	layout.XOffset = c.Data.XOffset
	p.Layout = layout

	st := p.Style
	if c.Plot.Title != "" {
		st.Title = c.Plot.Title
	}
	if c.Plot.XLabel != "" {
		st.XLabel = c.Plot.XLabel
	}
	if c.Plot.YLabel != "" {
		st.YLabel = c.Plot.YLabel
	}
	if c.Plot.Width != 0 {
		st.Width = vg.Length(c.Plot.Width) * vg.Inch
	}
	if c.Plot.Height != 0 {
		st.Height = vg.Length(c.Plot.Height) * vg.Inch
	}
	if c.Plot.DPI != 0 {
		st.DPI = c.Plot.DPI
	}
	if c.Plot.LineWidth != 0 {
		st.LineWidth = vg.Points(c.Plot.LineWidth)
	}
	if c.Plot.LineColor != "" {
		col, err := render.ParseColor(c.Plot.LineColor)
		if err != nil {
			return err
		}
		st.LineColor = col
	}
	if err := st.Validate(); err != nil {
		return err
	}
	p.Style = st
	return nil
}
