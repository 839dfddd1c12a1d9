package nn

import (
	"errors"

	"github.com/ezrec/npuctl/translate"
)

var f = translate.From

var (
	// Encoding errors
	ErrShapeRange  = errors.New(f("layer shape exceeds 30-bit field"))
	ErrCore        = errors.New(f("core count below 1"))
	ErrWeightShape = errors.New(f("weight matrix shape mismatch"))
)
