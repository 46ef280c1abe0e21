// Package render draws (x, y) series as a semilog line chart using gonum/plot
// and writes the result to disk.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// ErrRender wraps every failure raised while building or saving a chart.
var ErrRender = errors.New("rendering failed")

// Formats lists the file extensions Save understands.
var Formats = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".svg", ".pdf", ".eps"}

// Supported reports whether the extension of path is one of Formats.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range Formats {
		if f == ext {
			return true
		}
	}
	return false
}

// Semilog builds a line chart of ys against xs with a logarithmic y axis.
// The ys must be positive and both series finite.
func Semilog(xs, ys []float64, s Style) (p *plot.Plot, err error) {
	defer recoverTo(&err)

	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: x and y arrays must be of the same size", ErrRender)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: nothing to plot", ErrRender)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}

	pts := make(plotter.XYs, len(xs))
	for i := range pts {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}

	p = plot.New()
	p.BackgroundColor = s.Background
	p.Title.Text = s.Title
	p.Title.TextStyle.Font.Size = s.TitleSize
	p.Title.TextStyle.Font.Weight = font.WeightBold
	p.X.Label.Text = s.XLabel
	p.X.Label.TextStyle.Font.Size = s.LabelSize
	p.X.Label.TextStyle.Font.Weight = font.WeightBold
	p.Y.Label.Text = s.YLabel
	p.Y.Label.TextStyle.Font.Size = s.LabelSize
	p.Y.Label.TextStyle.Font.Weight = font.WeightBold

	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = logTicks{plot.LogTicks{Prec: -1}}

	p.Add(newGrid(s))

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRender, err)
	}
	line.LineStyle.Width = s.LineWidth
	line.LineStyle.Color = s.LineColor
	p.Add(line)

	widenDegenerate(p)
	return p, nil
}

// widenDegenerate gives constant series a visible range. plot.Axis would pad
// an empty y range by +-1, which goes negative on a log axis. The padding is
// relative to the value and clamped to the finite positive floats.
func widenDegenerate(p *plot.Plot) {
	if y := p.Y.Min; y == p.Y.Max {
		p.Y.Min = math.Max(y/10, math.SmallestNonzeroFloat64)
		p.Y.Max = math.Min(y*10, math.MaxFloat64)
		if p.Y.Min == p.Y.Max {
			p.Y.Max = math.Nextafter(p.Y.Min, math.Inf(1))
		}
	}
	if x := p.X.Min; x == p.X.Max {
		d := math.Max(1, math.Abs(x)*1e-6)
		lo, hi := x-d, x+d
		if math.IsInf(hi, 1) {
			lo, hi = x-2*d, x
		}
		if math.IsInf(lo, -1) {
			lo, hi = x, x+2*d
		}
		p.X.Min, p.X.Max = lo, hi
	}
}

// minLogTick keeps math.Pow10 of the lowest decade above zero so
// plot.LogTicks terminates near the bottom of the float range.
const minLogTick = 1e-300

// logTicks is plot.LogTicks limited to finite ticks inside [min, max].
type logTicks struct {
	plot.LogTicks
}

// Ticks implements plot.Ticker.
func (t logTicks) Ticks(min, max float64) []plot.Tick {
	lo := math.Max(min, minLogTick)
	hi := math.Max(max, lo)

	var ticks []plot.Tick
	for _, tk := range t.LogTicks.Ticks(lo, hi) {
		if tk.Value < min || tk.Value > max || math.IsInf(tk.Value, 0) {
			continue
		}
		ticks = append(ticks, tk)
	}
	return ticks
}

// Save draws p and writes it to path, choosing the encoder from the file
// extension. The image goes to a temporary file in the same directory first
// and is renamed over path only once complete.
func Save(p *plot.Plot, s Style, path string) (err error) {
	defer recoverTo(&err)

	wt, err := writerTo(p, s, filepath.Ext(path))
	if err != nil {
		return err
	}
	return writeAtomic(wt, path)
}

func writeAtomic(wt io.WriterTo, path string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRender, r)
		}
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = wt.WriteTo(tmp); err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrRender, path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}
	return nil
}

// File is Semilog followed by Save.
func File(xs, ys []float64, s Style, path string) error {
	if !Supported(path) {
		return fmt.Errorf("%w: unsupported image format %q", ErrRender, filepath.Ext(path))
	}
	p, err := Semilog(xs, ys, s)
	if err != nil {
		return err
	}
	return Save(p, s, path)
}

func writerTo(p *plot.Plot, s Style, ext string) (io.WriterTo, error) {
	ext = strings.ToLower(ext)
	switch ext {
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff":
		c := vgimg.NewWith(
			vgimg.UseWH(s.Width, s.Height),
			vgimg.UseDPI(s.DPI),
			vgimg.UseBackgroundColor(s.Background),
		)
		p.Draw(draw.New(c))
		switch ext {
		case ".png":
			return vgimg.PngCanvas{Canvas: c}, nil
		case ".jpg", ".jpeg":
			return vgimg.JpegCanvas{Canvas: c}, nil
		default:
			return vgimg.TiffCanvas{Canvas: c}, nil
		}
	case ".svg", ".pdf", ".eps":
		if ext == ".pdf" {
			defer regularWeight(p)()
		}
		wt, err := p.WriterTo(s.Width, s.Height, ext[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRender, err)
		}
		return wt, nil
	}
	return nil, fmt.Errorf("%w: unsupported image format %q", ErrRender, ext)
}

// regularWeight sets the title and axis labels of p to the normal weight and
// returns a func restoring them. vgpdf registers every face without a style
// and then selects bold ones with "B", so bold text is undefined in PDFs.
func regularWeight(p *plot.Plot) (restore func()) {
	styles := []*text.Style{&p.Title.TextStyle, &p.X.Label.TextStyle, &p.Y.Label.TextStyle}
	saved := make([]font.Weight, len(styles))
	for i, st := range styles {
		saved[i] = st.Font.Weight
		st.Font.Weight = font.WeightNormal
	}
	return func() {
		for i, st := range styles {
			st.Font.Weight = saved[i]
		}
	}
}

// recoverTo turns a panic inside gonum/plot into an ErrRender. It only works
// when deferred directly.
func recoverTo(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrRender, r)
	}
}
