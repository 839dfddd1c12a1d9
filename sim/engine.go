// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package sim

import (
	"github.com/ezrec/npuctl/dma"
	"github.com/ezrec/npuctl/mem"
)

// engine is one simulated DMA engine: a register file whose control writes
// follow the hardware state machine. Everything except PutUint32 is plain
// memory.
type engine struct {
	sim  *Simulator
	role role
	regs mem.Bytes
}

var _ mem.Memory = (*engine)(nil)

func (e *engine) Size() uint64 {
	return e.regs.Size()
}

func (e *engine) Uint32(off uint64) uint32 {
	return e.regs.Uint32(off)
}

// PutUint32 applies register semantics to control and arming writes.
func (e *engine) PutUint32(off uint64, value uint32) {
	switch off {
	case dma.MM2S_DMACR:
		e.control(value, dma.MM2S_DMACR, dma.MM2S_DMASR)
	case dma.S2MM_DMACR:
		e.control(value, dma.S2MM_DMACR, dma.S2MM_DMASR)
	case dma.MM2S_LENGTH:
		e.regs.PutUint32(off, value)
		e.regs.PutUint32(dma.MM2S_DMASR, e.sim.sourceArmed(e.role, uint64(value)))
	case dma.S2MM_LENGTH:
		e.regs.PutUint32(off, value)
		e.sim.destLength = uint64(value)
	default:
		e.regs.PutUint32(off, value)
	}
}

// control handles a DMACR write: soft reset returns the direction to the
// halted state and abandons the current sample sequence; setting or
// clearing the run bit toggles the halted status bit.
func (e *engine) control(value uint32, cr uint64, sr uint64) {
	if value&dma.CR_RESET != 0 {
		e.sim.reset()
		e.regs.PutUint32(cr, 0)
		e.regs.PutUint32(sr, dma.SR_HALTED)
		return
	}

	e.regs.PutUint32(cr, value)

	status := e.regs.Uint32(sr)
	if value&dma.CR_RUN != 0 {
		status &^= dma.SR_HALTED
	} else {
		status |= dma.SR_HALTED
	}
	e.regs.PutUint32(sr, status)
}

func (e *engine) Uint64(off uint64) uint64 {
	return e.regs.Uint64(off)
}

func (e *engine) PutUint64(off uint64, value uint64) {
	e.regs.PutUint64(off, value)
}

func (e *engine) Float32(off uint64) float32 {
	return e.regs.Float32(off)
}

func (e *engine) PutFloat32(off uint64, value float32) {
	e.regs.PutFloat32(off, value)
}

func (e *engine) Read(off uint64, size uint64) ([]byte, error) {
	return e.regs.Read(off, size)
}

func (e *engine) Write(off uint64, src []byte) error {
	return e.regs.Write(off, src)
}

func (e *engine) Zero(off uint64, size uint64) error {
	return e.regs.Zero(off, size)
}
