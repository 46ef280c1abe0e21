package spectrum

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"berkotech.co/powerspec/table"
)

// Layout describes which columns of a solver output table hold the series.
type Layout struct {
	Name string
	// MinColumns is the narrowest table the layout accepts.
	MinColumns int
	XColumn    int
	YColumn    int
	// XOffset is added to every x value, e.g. n_back when the solver wrote
	// t(k) alone.
	XOffset float64
}

var (
	// Efold reads N(efold) from column 0 and P_R from column 1. Extra columns
	// are ignored.
	Efold = Layout{Name: "efold", MinColumns: 2, XColumn: 0, YColumn: 1}
	// KMode is the n_prz_kmode.txt line "t(k)+n_back  prk(k)  ks_norm".
	// ks_norm must be present but is not plotted.
	KMode = Layout{Name: "kmode", MinColumns: 3, XColumn: 0, YColumn: 1}
)

// ParseLayout looks a layout up by name. The empty name is Efold.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Efold.Name:
		return Efold, nil
	case KMode.Name:
		return KMode, nil
	}
	return Layout{}, fmt.Errorf("unknown layout %q (want %s or %s)", name, Efold.Name, KMode.Name)
}

// Series is a pair of equal length x and y sequences.
type Series struct {
	X, Y []float64
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.X) }

// Extract pulls the layout's columns out of m. m is not modified.
func (l Layout) Extract(m mat.Matrix) (Series, error) {
	_, c := m.Dims()
	if c < l.MinColumns {
		return Series{}, fmt.Errorf(
			"%w: %s layout needs at least %d columns, got %d",
			ErrMalformed, l.Name, l.MinColumns, c,
		)
	}

	x, err := table.Column(m, l.XColumn)
	if err != nil {
		return Series{}, err
	}
	y, err := table.Column(m, l.YColumn)
	if err != nil {
		return Series{}, err
	}

	if l.XOffset != 0 {
		for i := range x {
			x[i] += l.XOffset
		}
	}
	return Series{X: x, Y: y}, nil
}
