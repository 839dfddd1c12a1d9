// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package nn describes a dense network the way the NPU consumes it: one
// 64-bit instruction per layer, and weight matrices re-tiled to the
// accelerator's parallel-lane layout.
package nn

// Activation selects the fixed-function activation applied by a layer.
type Activation int

const (
	ActivationNone    = Activation(0) // identity
	ActivationSigmoid = Activation(1) // sigmoid
	ActivationReLU    = Activation(2) // relu
	ActivationSoftmax = Activation(3) // softmax
)

var activationNames = map[string]Activation{
	"sigmoid": ActivationSigmoid,
	"relu":    ActivationReLU,
	"softmax": ActivationSoftmax,
}

// ActivationOf maps an activation name from a layer identifier to its code.
// Unrecognized names resolve to ActivationNone, the hardware's lenient
// default.
func ActivationOf(name string) Activation {
	return activationNames[name]
}

func (a Activation) String() string {
	switch a {
	case ActivationNone:
		return "none"
	case ActivationSigmoid:
		return "sigmoid"
	case ActivationReLU:
		return "relu"
	case ActivationSoftmax:
		return "softmax"
	}
	return "invalid"
}

// Layer is one dense layer as loaded from the layer archive: a row-major
// [In][Out] weight matrix, named per the a<digits>_<activation>_<digits>
// convention.
type Layer struct {
	Name    string
	In      int
	Out     int
	Weights []float32
}
