// Package spectrum plots the scalar power spectrum P_R against N(efold) from
// the table written by the inflation solver.
//
// A Plotter loads the table, selects two columns, drops every row that cannot
// sit on a log axis (y <= 0, NaN or infinite values) and renders what is left.
// Progress and errors go to the Plotter's logger; the final confirmation goes
// to its Out writer.
package spectrum

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"berkotech.co/powerspec/render"
	"berkotech.co/powerspec/table"
)

// Plotter holds the settings for one or more Plot calls.
type Plotter struct {
	Layout Layout
	Style  render.Style

	// Started, when set, is the start of the solver run. Data files older
	// than that are reported as stale.
	Started time.Time
	// Prune is a glob of old plot files to delete from the output directory
	// after a successful render.
	Prune string

	Log *slog.Logger
	Out io.Writer

	now func() time.Time
}

// New returns a Plotter with the Efold layout and the default style.
func New(log *slog.Logger, out io.Writer) *Plotter {
	return &Plotter{
		Layout: Efold,
		Style:  render.DefaultStyle(),
		Log:    log,
		Out:    out,
	}
}

// Result describes a successful Plot.
type Result struct {
	Output string
	// Rows is the number of rows read, Points the number plotted.
	Rows   int
	Points int
}

// Dropped is the number of rows removed by the validity mask.
func (r Result) Dropped() int { return r.Rows - r.Points }

// Plot renders dataFile into outFile. On failure the returned error wraps one
// of ErrNotFound, ErrMalformed, ErrEmpty or ErrRender and outFile is left as
// it was.
func (p *Plotter) Plot(dataFile, outFile string) (Result, error) {
	log := p.logger()
	log.Info("Reading data", "path", dataFile)

	p.inspect(log, dataFile)

	m, err := table.Load(dataFile)
	if err != nil {
		return Result{}, p.fail(log, err)
	}

	rows, cols := m.Dims()
	log.Info("Data shape", "rows", rows, "columns", cols, "layout", p.Layout.Name)

	s, err := p.Layout.Extract(m)
	if err != nil {
		return Result{}, p.fail(log, err)
	}

	sum := Summarize(s, cols)
	log.Info("X range", "min", fmt.Sprintf("%.2f", sum.X.Min), "max", fmt.Sprintf("%.2f", sum.X.Max),
		"nonfinite", sum.X.NonFinite)
	log.Info("Y range", "min", fmt.Sprintf("%.6e", sum.Y.Min), "max", fmt.Sprintf("%.6e", sum.Y.Max),
		"nonfinite", sum.Y.NonFinite)

	valid := Filter(s, Mask(s))
	if dropped := s.Len() - valid.Len(); dropped > 0 {
		log.Info("Dropped invalid rows", "count", dropped)
	}
	if valid.Len() == 0 {
		return Result{}, p.fail(log, fmt.Errorf("%w: all %d rows of %s are invalid", ErrEmpty, rows, dataFile))
	}

	if err := render.File(valid.X, valid.Y, p.Style, outFile); err != nil {
		return Result{}, p.fail(log, err)
	}

	res := Result{Output: outFile, Rows: rows, Points: valid.Len()}
	if p.Out != nil {
		fmt.Fprintf(p.Out, "Plot saved to: %s\n", res.Output)
		fmt.Fprintf(p.Out, "Plotted %d data points\n", res.Points)
	}

	if p.Prune != "" {
		removed, err := Prune(outFile, p.Prune)
		if len(removed) > 0 {
			log.Info("Cleaned up old plot files", "count", len(removed), "kept", outFile)
		}
		if err != nil {
			log.Warn("Failed to clean up old plot files", "error", err)
		}
	}
	return res, nil
}

// inspect logs metadata about the data file. Nothing here fails the run.
func (p *Plotter) inspect(log *slog.Logger, dataFile string) {
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	in, err := Inspect(dataFile, p.Started, now())
	if err != nil {
		return
	}

	log.Debug("Data file size", "bytes", in.Size)
	if in.FirstLine != "" {
		log.Debug("First line of data file", "line", in.FirstLine)
	}

	switch in.Freshness {
	case Stale:
		log.Error("Data file was modified before the run started; the plot will not represent the current calculation",
			"path", dataFile, "modified", in.Modified, "started", p.Started,
			"older_by", p.Started.Sub(in.Modified).Round(time.Second))
	case Old:
		log.Warn("Data file is old", "path", dataFile, "age", now().Sub(in.Modified).Round(time.Second))
	case Fresh:
		log.Debug("Data file is fresh", "path", dataFile, "modified", in.Modified)
	}
}

func (p *Plotter) fail(log *slog.Logger, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		log.Error("Data file not found", "error", err)
	case errors.Is(err, ErrEmpty):
		log.Error("No valid data points to plot", "error", err)
	default:
		log.Error("Error plotting data", "error", err)
	}
	return err
}

func (p *Plotter) logger() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Plot renders dataFile into outFile with the default Plotter, logging to
// log and confirming on out.
func Plot(log *slog.Logger, out io.Writer, dataFile, outFile string) (Result, error) {
	return New(log, out).Plot(dataFile, outFile)
}
