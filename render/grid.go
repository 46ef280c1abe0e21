package render

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg/draw"
)

// grid is plotter.Grid with horizontal lines at minor ticks too, which puts
// a line at every 2..9 multiple of each decade on a log axis.
type grid struct {
	Vertical   draw.LineStyle
	Horizontal draw.LineStyle
}

func newGrid(s Style) *grid {
	ls := draw.LineStyle{
		Color:  s.GridColor,
		Width:  s.LineWidth / 4,
		Dashes: s.GridDashes,
	}
	return &grid{Vertical: ls, Horizontal: ls}
}

// Plot implements plot.Plotter.
func (g *grid) Plot(c draw.Canvas, plt *plot.Plot) {
	if g.Vertical.Color == nil && g.Horizontal.Color == nil {
		return
	}
	trX, trY := plt.Transforms(&c)

	for _, tk := range plt.X.Tick.Marker.Ticks(plt.X.Min, plt.X.Max) {
		if tk.IsMinor() || tk.Value < plt.X.Min || tk.Value > plt.X.Max {
			continue
		}
		x := trX(tk.Value)
		c.StrokeLine2(g.Vertical, x, c.Min.Y, x, c.Max.Y)
	}

	for _, tk := range plt.Y.Tick.Marker.Ticks(plt.Y.Min, plt.Y.Max) {
		if tk.Value < plt.Y.Min || tk.Value > plt.Y.Max {
			continue
		}
		y := trY(tk.Value)
		c.StrokeLine2(g.Horizontal, c.Min.X, y, c.Max.X, y)
	}
}
