package npu

import (
	"errors"

	"github.com/ezrec/npuctl/translate"
)

var f = translate.From

var (
	// Network staging errors
	ErrNoLayers = errors.New(f("network has no layers"))
)
