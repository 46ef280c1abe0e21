package spectrum

import (
	"math"

	"github.com/go-gota/gota/series"
)

// Range is the minimum and maximum of a column. Min and Max come from gota's
// comparisons, which only yield NaN when the first value is NaN; NonFinite
// counts the NaN and infinite values so their presence is never hidden.
type Range struct {
	Min, Max  float64
	NonFinite int
}

// Summary describes a table before filtering.
type Summary struct {
	Rows, Columns int
	X, Y          Range
}

// Summarize computes the row count and value ranges of s.
func Summarize(s Series, columns int) Summary {
	return Summary{
		Rows:    s.Len(),
		Columns: columns,
		X:       columnRange(s.X, "x"),
		Y:       columnRange(s.Y, "y"),
	}
}

func columnRange(vals []float64, name string) Range {
	col := series.New(vals, series.Float, name)
	r := Range{Min: col.Min(), Max: col.Max()}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			r.NonFinite++
		}
	}
	return r
}
