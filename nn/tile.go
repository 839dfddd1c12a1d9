// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package nn

// Tile reorders a row-major [in][out] weight matrix into the stream layout
// the NPU expects when it processes core output lanes in parallel: output
// columns are walked in blocks of core, and within a block every input row
// contributes its block of weights before the next block begins. The final
// block narrows when out is not a multiple of core.
func Tile(weights []float32, in int, out int, core int) (tiled []float32, err error) {
	if core < 1 {
		err = ErrCore
		return
	}
	if len(weights) != in*out {
		err = ErrWeightShape
		return
	}

	tiled = make([]float32, 0, len(weights))
	for offset := 0; offset < out; offset += core {
		width := min(core, out, out-offset)
		for row := 0; row < in; row++ {
			base := row*out + offset
			tiled = append(tiled, weights[base:base+width]...)
		}
	}
	return
}

// Untile is the exact inverse of Tile. The simulator uses it to recover the
// matrix from the weight stream, and the round-trip is the tiler's
// correctness law.
func Untile(tiled []float32, in int, out int, core int) (weights []float32, err error) {
	if core < 1 {
		err = ErrCore
		return
	}
	if len(tiled) != in*out {
		err = ErrWeightShape
		return
	}

	weights = make([]float32, in*out)
	next := 0
	for offset := 0; offset < out; offset += core {
		width := min(core, out, out-offset)
		for row := 0; row < in; row++ {
			base := row*out + offset
			copy(weights[base:base+width], tiled[next:next+width])
			next += width
		}
	}
	return
}
