// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package npy loads NumPy ".npy" arrays and ".npz" archives, just enough to
// consume the layer-weight and dataset archives the NPU tester is fed. The
// NumPy format itself is handled by npyio; this package adds the archive
// walk and the adapters to layers and labeled samples.
package npy

import (
	"fmt"
	"io"

	"github.com/sbinet/npyio"
)

// Array is one decoded array: its dtype descriptor, shape, and elements,
// decoded to float32 or widened to int64 depending on the dtype.
type Array struct {
	Descr string // NumPy dtype descriptor, e.g. "<f4".
	Shape []int

	floats []float32
	ints   []int64
}

// Len returns the element count, the product of the shape.
func (a *Array) Len() (count int) {
	count = 1
	for _, dim := range a.Shape {
		count *= dim
	}
	return
}

// Float32s returns the elements of a "<f4" array.
func (a *Array) Float32s() (values []float32, err error) {
	if a.floats == nil {
		err = fmt.Errorf("%v: %w", a.Descr, ErrDescr)
		return
	}
	values = a.floats
	return
}

// Int64s returns the elements of an integer array, widened to int64.
func (a *Array) Int64s() (values []int64, err error) {
	if a.ints == nil {
		err = fmt.Errorf("%v: %w", a.Descr, ErrDescr)
		return
	}
	values = a.ints
	return
}

// Read parses a single .npy stream.
func Read(r io.Reader) (array *Array, err error) {
	rd, err := npyio.NewReader(r)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrFormat, err)
		return
	}

	descr := rd.Header.Descr
	if descr.Fortran {
		err = ErrFortranOrder
		return
	}
	array = &Array{Descr: descr.Type, Shape: descr.Shape}

	switch descr.Type {
	case "<f4":
		err = rd.Read(&array.floats)
	case "<i1", "|i1":
		var values []int8
		err = rd.Read(&values)
		array.ints = widen(values)
	case "<u1", "|u1":
		var values []uint8
		err = rd.Read(&values)
		array.ints = widen(values)
	case "<i4":
		var values []int32
		err = rd.Read(&values)
		array.ints = widen(values)
	case "<i8":
		err = rd.Read(&array.ints)
	default:
		err = fmt.Errorf("%v: %w", descr.Type, ErrDescr)
	}
	if err != nil {
		array = nil
	}
	return
}

func widen[T int8 | uint8 | int32](values []T) (out []int64) {
	out = make([]int64, len(values))
	for i, value := range values {
		out[i] = int64(value)
	}
	return
}
