// plot_results renders the power spectrum written by the Fortran solver.
//
//	plot_results [flags] <data_file> <output_image>
//
// Progress and errors are logged to stderr; the saved path and point count are
// printed to stdout. The exit status is 0 when the image was written and 1
// otherwise.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"berkotech.co/powerspec/config"
	"berkotech.co/powerspec/spectrum"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("plot_results", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		cfgFile = fs.String("config", "", "optional gcfg file with [plot] and [data] sections")
		layout  = fs.String("layout", "", "column layout: efold (2+ columns) or kmode (3+ columns)")
		started = fs.String("started", "", "solver start time (RFC 3339 or Unix ms); older data files are reported as stale")
		prune   = fs.String("prune", "", "glob of old plots to delete from the output directory after success")
		verbose = fs.Bool("v", false, "log debug details")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: plot_results [flags] <data_file> <output_image>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 1
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	p := spectrum.New(log, stdout)
	if *cfgFile != "" {
		c, err := config.Read(*cfgFile)
		if err != nil {
			log.Error("Failed to load config", "error", err)
			return 1
		}
		if err := c.Apply(p); err != nil {
			log.Error("Invalid config", "path", *cfgFile, "error", err)
			return 1
		}
	}
	if *layout != "" {
		l, err := spectrum.ParseLayout(*layout)
		if err != nil {
			log.Error("Invalid layout", "error", err)
			return 1
		}
		l.XOffset = p.Layout.XOffset
		p.Layout = l
	}

	t, err := spectrum.ParseStart(*started)
	if err != nil {
		log.Error("Invalid start time", "error", err)
		return 1
	}
	p.Started = t
	p.Prune = *prune

	if _, err := p.Plot(fs.Arg(0), fs.Arg(1)); err != nil {
		return 1
	}
	return 0
}
