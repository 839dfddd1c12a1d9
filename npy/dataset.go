package npy

import (
	"fmt"

	"github.com/ezrec/npuctl/nn"
)

// Layers adapts a layer archive to the network description: every entry must
// be a 2-D float32 matrix, kept in archive (name-sorted) order.
func Layers(ar *Archive) (layers []nn.Layer, err error) {
	for _, entry := range ar.Entries {
		array := entry.Array
		if array.Descr != "<f4" || len(array.Shape) != 2 {
			err = fmt.Errorf("%v: %w", entry.Name, ErrLayerShape)
			return
		}
		weights, e := array.Float32s()
		if e != nil {
			err = fmt.Errorf("%v: %w", entry.Name, e)
			return
		}
		layers = append(layers, nn.Layer{
			Name:    entry.Name,
			In:      array.Shape[0],
			Out:     array.Shape[1],
			Weights: weights,
		})
	}
	return
}

// Dataset extracts the labeled samples from a dataset archive: "x" is a
// [samples][width] float32 matrix, "y" the integer label per sample.
func Dataset(ar *Archive) (inputs [][]float32, labels []int64, err error) {
	x := ar.Lookup("x")
	y := ar.Lookup("y")
	if x == nil || y == nil || len(x.Shape) != 2 {
		err = ErrDataset
		return
	}

	flat, err := x.Float32s()
	if err != nil {
		return
	}
	labels, err = y.Int64s()
	if err != nil {
		return
	}

	samples, width := x.Shape[0], x.Shape[1]
	if len(labels) != samples {
		err = ErrDataset
		return
	}

	inputs = make([][]float32, samples)
	for n := range inputs {
		inputs[n] = flat[n*width : (n+1)*width]
	}
	return
}
