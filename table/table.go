// Package table reads the whitespace separated numeric tables written by the
// Fortran background solver into gonum matrices.
package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotFound is returned when the table file does not exist.
	ErrNotFound = errors.New("data file not found")
	// ErrMalformed is returned when the file exists but is not a rectangular
	// numeric table.
	ErrMalformed = errors.New("malformed data file")
)

// Comment marks the rest of a line as ignored.
const Comment = "#"

// Load reads the table stored at path. Rows are lines, columns are
// whitespace separated fields. A file holding a single row comes back as a
// 1xN matrix.
func Load(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Read parses a table from r. Blank lines and comments are skipped. Every row
// must have as many fields as the first one.
func Read(r io.Reader) (*mat.Dense, error) {
	var (
		vals       []float64
		rows, cols int
		line       int
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.Index(text, Comment); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf(
				"%w: line %d has %d columns, expected %d",
				ErrMalformed, line, len(fields), cols,
			)
		}

		for _, tok := range fields {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf(
					"%w: line %d: could not convert %q to float",
					ErrMalformed, line, tok,
				)
			}
			vals = append(vals, v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if rows == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformed)
	}
	return mat.NewDense(rows, cols, vals), nil
}

// Column copies column j of m. It fails instead of panicking when m is too
// narrow.
func Column(m mat.Matrix, j int) ([]float64, error) {
	_, c := m.Dims()
	if j < 0 || j >= c {
		return nil, fmt.Errorf(
			"%w: column %d requested from a table with %d columns",
			ErrMalformed, j, c,
		)
	}
	return mat.Col(nil, j, m), nil
}
