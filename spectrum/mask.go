package spectrum

import "math"

// Valid reports whether a point can be drawn on a log y axis.
func Valid(x, y float64) bool {
	return y > 0 && finite(x) && finite(y)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Mask returns Valid for every point of s.
func Mask(s Series) []bool {
	m := make([]bool, s.Len())
	for i := range m {
		m[i] = Valid(s.X[i], s.Y[i])
	}
	return m
}

// Filter returns a new Series holding the points where mask is true.
func Filter(s Series, mask []bool) Series {
	var out Series
	for i, ok := range mask {
		if ok {
			out.X = append(out.X, s.X[i])
			out.Y = append(out.Y, s.Y[i])
		}
	}
	return out
}
