package sim

import (
	"errors"

	"github.com/ezrec/npuctl/translate"
)

var f = translate.From

var (
	// Mapping errors
	ErrUnknownRegion = errors.New(f("region not in the memory map"))
	ErrInputWidth    = errors.New(f("input narrower than the first layer"))
)
