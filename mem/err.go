package mem

import (
	"errors"

	"github.com/ezrec/npuctl/translate"
)

var f = translate.From

var (
	// Region errors
	ErrBounds    = errors.New(f("access outside region"))
	ErrOverflow  = errors.New(f("buffer full"))
	ErrPageAlign = errors.New(f("region not page aligned"))
)
