package hwmap

import (
	"errors"

	"github.com/ezrec/npuctl/translate"
)

var f = translate.From

var (
	// Map-file errors
	ErrIncomplete  = errors.New(f("memory map entry missing"))
	ErrBadValue    = errors.New(f("memory map entry must be an address or an (address, size) tuple"))
	ErrEmptyRegion = errors.New(f("memory map region has zero size"))
	ErrOverlap     = errors.New(f("memory map buffer regions overlap"))
)
