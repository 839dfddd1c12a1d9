// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package sim is a deterministic in-memory NPU. It implements mem.Mapper,
// handing out register windows that follow the DMA engine state machine and
// plain memory for the staging buffers, and it runs the dense network
// described by the instruction and weight streams whenever a full sample has
// been armed. It exists so the orchestrator and the command line can be
// exercised without hardware.
package sim

import (
	"math"

	"github.com/ezrec/npuctl/dma"
	"github.com/ezrec/npuctl/hwmap"
	"github.com/ezrec/npuctl/mem"
	"github.com/ezrec/npuctl/nn"
)

type role int

const (
	roleConfig = role(iota)
	roleIO
	roleWeight
)

// armOrder is the arrival sequence the accelerator expects.
var armOrder = []role{roleConfig, roleIO, roleWeight}

// Simulator is a software stand-in for the NPU and its three DMA engines.
type Simulator struct {
	Core int // Parallel output lanes; must match the tiling applied by the host.

	hw      hwmap.Map
	engines map[role]*engine
	buffers map[uint64]mem.Bytes // keyed by region base address

	armed      []role
	ioLength   uint64 // armed MM2S length of the io engine
	destLength uint64 // armed S2MM length of the io engine

	failStatus uint32 // injected into the next completion
	stalled    bool   // suppress the next S2MM completion
}

var _ mem.Mapper = (*Simulator)(nil)

// New creates a simulator for the given memory map and lane count.
func New(hw hwmap.Map, core int) *Simulator {
	return &Simulator{
		Core:    core,
		hw:      hw,
		engines: map[role]*engine{},
		buffers: map[uint64]mem.Bytes{},
	}
}

// Map serves a register window or a buffer region from the memory map.
// Regions outside the map are refused, as /dev/mem would refuse an
// unbacked address.
func (s *Simulator) Map(region mem.Region) (m mem.Memory, err error) {
	switch region {
	case s.hw.ConfigRegs:
		m = s.engine(roleConfig)
	case s.hw.WeightRegs:
		m = s.engine(roleWeight)
	case s.hw.IORegs:
		m = s.engine(roleIO)
	case s.hw.ConfigSrc, s.hw.WeightSrc, s.hw.IOSrc, s.hw.IODst:
		m = s.buffer(region)
	default:
		err = ErrUnknownRegion
	}
	return
}

// Close releases nothing; simulator state lives until garbage collection.
func (s *Simulator) Close() (err error) {
	return
}

// FailNext injects status bits into the next transfer completion, as a
// misbehaving engine would report them.
func (s *Simulator) FailNext(bits uint32) {
	s.failStatus = bits
}

// StallResult suppresses the next result delivery: the S2MM status never
// reaches a terminal state and a poll on it runs until its deadline.
func (s *Simulator) StallResult() {
	s.stalled = true
}

// Buffer exposes a staging region's backing bytes to tests.
func (s *Simulator) Buffer(region mem.Region) mem.Bytes {
	return s.buffer(region)
}

func (s *Simulator) engine(r role) *engine {
	e, ok := s.engines[r]
	if !ok {
		e = &engine{sim: s, role: r, regs: make(mem.Bytes, hwmap.REGS_WINDOW_SIZE)}
		s.engines[r] = e
	}
	return e
}

func (s *Simulator) buffer(region mem.Region) mem.Bytes {
	b, ok := s.buffers[region.Addr]
	if !ok {
		b = make(mem.Bytes, region.Size)
		s.buffers[region.Addr] = b
	}
	return b
}

// reset is called on any engine soft reset; a new sample sequence begins.
func (s *Simulator) reset() {
	s.armed = s.armed[:0]
}

// completion returns the status bits for a finishing transfer, consuming
// any injected fault.
func (s *Simulator) completion() uint32 {
	bits := dma.SR_IDLE | dma.SR_IRQ_IOC
	if s.failStatus != 0 {
		bits |= s.failStatus
		s.failStatus = 0
	}
	return bits
}

// sourceArmed handles an MM2S length write: the transfer "happens"
// instantly, and once the full config -> io -> weight sequence has arrived
// the network runs and the result transfer completes.
func (s *Simulator) sourceArmed(r role, length uint64) (status uint32) {
	if len(s.armed) >= len(armOrder) || armOrder[len(s.armed)] != r {
		// Out-of-order arrival; the engine faults instead of streaming.
		return dma.SR_DEC_ERROR | dma.SR_IRQ_ERROR
	}
	s.armed = append(s.armed, r)
	if r == roleIO {
		s.ioLength = length
	}

	status = s.completion()
	if len(s.armed) == len(armOrder) {
		s.deliver()
	}
	return
}

// deliver runs the network and writes the result vector.
func (s *Simulator) deliver() {
	if s.stalled {
		s.stalled = false
		return
	}

	io := s.engine(roleIO)
	output, err := s.forward()
	if err != nil {
		io.regs.PutUint32(dma.S2MM_DMASR, dma.SR_DEC_ERROR|dma.SR_IRQ_ERROR)
		return
	}

	dest := s.buffer(s.hw.IODst)
	size := min(s.destLength, uint64(len(output))*4)
	for i := uint64(0); i*4 < size; i++ {
		dest.PutFloat32(i*4, output[i])
	}

	io.regs.PutUint32(dma.S2MM_DMASR, s.completion())
}

// forward evaluates the staged network on the staged input.
func (s *Simulator) forward() (vector []float32, err error) {
	config := s.buffer(s.hw.ConfigSrc)
	weights := s.buffer(s.hw.WeightSrc)
	input := s.buffer(s.hw.IOSrc)

	vector = make([]float32, s.ioLength/4)
	for i := range vector {
		vector[i] = input.Float32(uint64(i) * 4)
	}

	count := config.Uint64(0)
	next := uint64(0) // float offset into the weight stream
	for layer := uint64(0); layer < count; layer++ {
		inst := nn.Instruction(config.Uint64(8 + layer*8))
		in, out := int(inst.In()), int(inst.Out())

		tiled := make([]float32, in*out)
		for i := range tiled {
			tiled[i] = weights.Float32((next + uint64(i)) * 4)
		}
		next += uint64(len(tiled))

		matrix, e := nn.Untile(tiled, in, out, s.Core)
		if e != nil {
			err = e
			return
		}
		if len(vector) < in {
			err = ErrInputWidth
			return
		}

		vector = activate(matmul(vector[:in], matrix, in, out), inst.Activation())
	}
	return
}

func matmul(input []float32, matrix []float32, in int, out int) (output []float32) {
	output = make([]float32, out)
	for j := 0; j < out; j++ {
		sum := float64(0)
		for i := 0; i < in; i++ {
			sum += float64(input[i]) * float64(matrix[i*out+j])
		}
		output[j] = float32(sum)
	}
	return
}

func activate(values []float32, act nn.Activation) []float32 {
	switch act {
	case nn.ActivationSigmoid:
		for i, v := range values {
			values[i] = float32(1 / (1 + math.Exp(-float64(v))))
		}
	case nn.ActivationReLU:
		for i, v := range values {
			values[i] = max(v, 0)
		}
	case nn.ActivationSoftmax:
		sum := float64(0)
		for _, v := range values {
			sum += math.Exp(float64(v))
		}
		for i, v := range values {
			values[i] = float32(math.Exp(float64(v)) / sum)
		}
	}
	return values
}
