package npy

import (
	"errors"

	"github.com/ezrec/npuctl/translate"
)

var f = translate.From

var (
	// Format errors
	ErrFormat       = errors.New(f("not a valid NumPy array"))
	ErrDescr        = errors.New(f("unsupported dtype"))
	ErrFortranOrder = errors.New(f("fortran-order arrays not supported"))

	// Archive content errors
	ErrLayerShape = errors.New(f("layer is not a 2-D float32 matrix"))
	ErrDataset    = errors.New(f("dataset must hold 'x' samples and 'y' labels"))
)
