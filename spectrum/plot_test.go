package spectrum

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPlotter logs into and confirms into buffers so tests can check both
// streams.
func testPlotter() (*Plotter, *bytes.Buffer, *bytes.Buffer) {
	var diag, out bytes.Buffer
	log := slog.New(slog.NewTextHandler(&diag, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(log, &out), &diag, &out
}

func writeTable(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0644))
	return path
}

func kmodeRows(n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf("  %.6f  %.6E  %.6E", 50+float64(i)*0.25, 2.1e-9*(1+float64(i)/100), 1e-3*float64(i+1))
	}
	return rows
}

func TestPlotAllValid(t *testing.T) {
	dir := t.TempDir()
	data := writeTable(t, dir, "n_prz_kmode.txt", kmodeRows(40)...)
	outFile := filepath.Join(dir, "n_prz_kmode_plot_1234abcd.png")

	p, diag, out := testPlotter()
	res, err := p.Plot(data, outFile)
	require.NoError(t, err)

	assert.Equal(t, outFile, res.Output)
	assert.Equal(t, 40, res.Rows)
	assert.Equal(t, 40, res.Points)
	assert.Equal(t, 0, res.Dropped())

	assert.Equal(t, fmt.Sprintf("Plot saved to: %s\nPlotted 40 data points\n", outFile), out.String())
	assert.Contains(t, diag.String(), "Data shape")
	assert.Contains(t, diag.String(), "rows=40")
	assert.Contains(t, diag.String(), "columns=3")
	assert.Contains(t, diag.String(), "X range")
	assert.Contains(t, diag.String(), "Y range")

	f, err := os.Open(outFile)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 750, cfg.Height)
}

func TestPlotDropsInvalidRows(t *testing.T) {
	dir := t.TempDir()
	data := writeTable(t, dir, "data.txt",
		"1 1e-9",
		"2 0",
		"3 NaN",
		"Inf 2e-9",
		"5 3e-9",
	)
	p, diag, _ := testPlotter()
	res, err := p.Plot(data, filepath.Join(dir, "out.png"))
	require.NoError(t, err)
	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, 2, res.Points)
	assert.Equal(t, 3, res.Dropped())
	assert.Contains(t, diag.String(), "Dropped invalid rows")
	assert.Contains(t, diag.String(), `msg="Y range"`)
	assert.Regexp(t, `msg="Y range".* nonfinite=1`, diag.String())
	assert.Regexp(t, `msg="X range".* nonfinite=1`, diag.String())
}

func TestPlotSingleRow(t *testing.T) {
	dir := t.TempDir()
	data := writeTable(t, dir, "one.txt", "60.0 2.1e-9 0.05")
	outFile := filepath.Join(dir, "one.png")

	p, _, out := testPlotter()
	res, err := p.Plot(data, outFile)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Points)
	assert.FileExists(t, outFile)
	assert.Contains(t, out.String(), "Plotted 1 data points")
}

func TestPlotSingleRowExtremes(t *testing.T) {
	for i, row := range []string{"50 1e308", "50 5e-324", "1e20 2e-9"} {
		dir := t.TempDir()
		data := writeTable(t, dir, "one.txt", row)
		outFile := filepath.Join(dir, "one.png")

		p, diag, _ := testPlotter()
		res, err := p.Plot(data, outFile)
		require.NoError(t, err, "%d) %s: %s", i, row, diag.String())
		assert.Equal(t, 1, res.Points)
		assert.FileExists(t, outFile)
	}
}

func TestPlotEmptyAfterFilter(t *testing.T) {
	dir := t.TempDir()
	data := writeTable(t, dir, "zeros.txt", "1 0", "2 -1", "3 nan")
	outFile := filepath.Join(dir, "zeros.png")

	p, diag, out := testPlotter()
	_, err := p.Plot(data, outFile)
	require.ErrorIs(t, err, ErrEmpty)

	assert.NoFileExists(t, outFile)
	assert.Contains(t, diag.String(), "No valid data points")
	assert.Empty(t, out.String())
}

func TestPlotMissingFile(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "n_prz_kmode.txt")
	outFile := filepath.Join(dir, "plot.png")

	p, diag, _ := testPlotter()
	_, err := p.Plot(data, outFile)
	require.ErrorIs(t, err, ErrNotFound)

	assert.NoFileExists(t, outFile)
	assert.Contains(t, diag.String(), "Data file not found")
	assert.Contains(t, diag.String(), data)
}

func TestPlotMissingFileKeepsOldOutput(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "plot.png")
	require.NoError(t, os.WriteFile(outFile, []byte("previous"), 0644))

	p, _, _ := testPlotter()
	_, err := p.Plot(filepath.Join(dir, "missing.txt"), outFile)
	require.Error(t, err)

	b, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(b))
}

func TestPlotMalformed(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		rows   []string
	}{
		{"text", Efold, []string{"1 2", "3 four"}},
		{"ragged", Efold, []string{"1 2", "3"}},
		{"one column", Efold, []string{"1", "2"}},
		{"kmode needs ks_norm", KMode, []string{"1 2", "3 4"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			dir := t.TempDir()
			data := writeTable(t, dir, "bad.txt", test.rows...)
			outFile := filepath.Join(dir, "bad.png")

			p, diag, _ := testPlotter()
			p.Layout = test.layout
			_, err := p.Plot(data, outFile)
			require.ErrorIs(t, err, ErrMalformed)
			assert.NoFileExists(t, outFile)
			assert.Contains(t, diag.String(), "Error plotting data")
		})
	}
}

func TestPlotUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	data := writeTable(t, dir, "data.txt", kmodeRows(5)...)
	outFile := filepath.Join(dir, "plot.gif")

	p, _, _ := testPlotter()
	_, err := p.Plot(data, outFile)
	require.ErrorIs(t, err, ErrRender)
	assert.NoFileExists(t, outFile)
}

func TestPlotOverwrite(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "plot.png")

	p, _, _ := testPlotter()
	first := writeTable(t, dir, "a.txt", kmodeRows(10)...)
	_, err := p.Plot(first, outFile)
	require.NoError(t, err)
	before, err := os.ReadFile(outFile)
	require.NoError(t, err)

	second := writeTable(t, dir, "b.txt", "1 1e-3", "2 1e-6", "3 1e-9")
	res, err := p.Plot(second, outFile)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Points)

	after, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	require.NoError(t, os.Remove(outFile))
	_, err = p.Plot(second, outFile)
	assert.NoError(t, err, "second run must not depend on the first artifact")
}

func TestPlotPrunesOldPlots(t *testing.T) {
	dir := t.TempDir()
	data := writeTable(t, dir, "n_prz_kmode.txt", kmodeRows(10)...)
	old := filepath.Join(dir, "n_prz_kmode_plot_00000000.png")
	require.NoError(t, os.WriteFile(old, []byte("old"), 0644))
	outFile := filepath.Join(dir, "n_prz_kmode_plot_11111111.png")

	p, diag, _ := testPlotter()
	p.Prune = "n_prz_kmode_plot_*.png"
	_, err := p.Plot(data, outFile)
	require.NoError(t, err)

	assert.NoFileExists(t, old)
	assert.FileExists(t, outFile)
	assert.FileExists(t, data)
	assert.Contains(t, diag.String(), "Cleaned up old plot files")
}

func TestPlotReportsStaleData(t *testing.T) {
	dir := t.TempDir()
	data := writeTable(t, dir, "n_prz_kmode.txt", kmodeRows(3)...)
	modified := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(data, modified, modified))

	p, diag, _ := testPlotter()
	p.Started = modified.Add(time.Hour)
	p.now = func() time.Time { return modified.Add(time.Hour + time.Minute) }

	_, err := p.Plot(data, filepath.Join(dir, "plot.png"))
	require.NoError(t, err, "stale data is reported, not rejected")
	assert.Contains(t, diag.String(), "level=ERROR")
	assert.Contains(t, diag.String(), "modified before the run started")
}

func TestPlotPackageFunc(t *testing.T) {
	dir := t.TempDir()
	data := writeTable(t, dir, "data.txt", kmodeRows(4)...)
	var out bytes.Buffer
	res, err := Plot(nil, &out, data, filepath.Join(dir, "plot.svg"))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Points)
	assert.Contains(t, out.String(), "Plot saved to:")
}
