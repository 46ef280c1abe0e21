package spectrum

import (
	"errors"

	"berkotech.co/powerspec/render"
	"berkotech.co/powerspec/table"
)

// Failure kinds returned by Plot. Match them with errors.Is; the wrapped
// message carries the detail.
var (
	ErrNotFound  = table.ErrNotFound
	ErrMalformed = table.ErrMalformed
	ErrEmpty     = errors.New("no valid data points to plot")
	ErrRender    = render.ErrRender
)
