// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package dma drives one AXI DMA engine per NPU channel through its
// memory-mapped control registers: reset/halt/ready sequencing, interrupt
// configuration, transfer arming, and status polling for both the
// memory-to-stream (MM2S) and stream-to-memory (S2MM) directions.
package dma

import (
	"github.com/ezrec/npuctl/mem"
)

// Engine is one DMA engine: a control-register window, the source buffer its
// MM2S direction streams from, and, when the channel receives results, the
// destination buffer its S2MM direction writes into.
//
// Per direction the engine walks Reset -> Halted -> Configured -> Ready ->
// Running -> done-or-failed; writing the length register is the arming step
// that starts a transfer.
type Engine struct {
	Name   string      // Channel role, diagnostics only.
	Regs   mem.Memory  // Control-register window.
	Source *mem.Buffer // MM2S payload staging.
	Dest   *mem.Buffer // S2MM landing region; nil for send-only channels.
}

// NewEngine constructs an engine over its register window and buffers.
// dest may be nil for a channel that never receives.
func NewEngine(name string, regs mem.Memory, source *mem.Buffer, dest *mem.Buffer) *Engine {
	return &Engine{Name: name, Regs: regs, Source: source, Dest: dest}
}

// Reset pulses the soft-reset bit in both directions; the engine returns to
// the halted state.
func (e *Engine) Reset() {
	e.Regs.PutUint32(MM2S_DMACR, CR_RESET)
	e.Regs.PutUint32(S2MM_DMACR, CR_RESET)
}

// Halt clears the run bit in both directions; the engine stops accepting
// transfers.
func (e *Engine) Halt() {
	e.Regs.PutUint32(MM2S_DMACR, e.Regs.Uint32(MM2S_DMACR)&^CR_RUN)
	e.Regs.PutUint32(S2MM_DMACR, e.Regs.Uint32(S2MM_DMACR)&^CR_RUN)
}

// SetInterrupt writes the interrupt-enable bits and the coalescing
// threshold; a threshold of zero raises the flag on every transfer.
func (e *Engine) SetInterrupt(onComplete bool, onError bool, threshold uint8) {
	var enable uint32
	if onComplete {
		enable |= CR_IRQ_IOC
	}
	if onError {
		enable |= CR_IRQ_ERROR
	}
	enable |= uint32(threshold) << CR_IRQ_THRESHOLD_SHIFT

	e.Regs.PutUint32(MM2S_DMACR, e.Regs.Uint32(MM2S_DMACR)|enable)
	e.Regs.PutUint32(S2MM_DMACR, e.Regs.Uint32(S2MM_DMACR)|enable)
}

// Ready sets the run bit in both directions; the engine then waits for an
// address/length write to start a transfer.
func (e *Engine) Ready() {
	e.Regs.PutUint32(MM2S_DMACR, e.Regs.Uint32(MM2S_DMACR)|CR_RUN)
	e.Regs.PutUint32(S2MM_DMACR, e.Regs.Uint32(S2MM_DMACR)|CR_RUN)
}

// SetSourceAddress loads the MM2S source address register.
func (e *Engine) SetSourceAddress(addr uint64) {
	e.Regs.PutUint32(MM2S_SA, uint32(addr))
}

// SetSourceLength loads the MM2S length register. This write arms the
// outbound transfer.
func (e *Engine) SetSourceLength(size uint64) {
	e.Regs.PutUint32(MM2S_LENGTH, uint32(size))
}

// SetDestinationAddress loads the S2MM destination address register.
func (e *Engine) SetDestinationAddress(addr uint64) {
	e.Regs.PutUint32(S2MM_DA, uint32(addr))
}

// SetDestinationLength loads the S2MM length register. This write arms the
// inbound transfer.
func (e *Engine) SetDestinationLength(size uint64) {
	e.Regs.PutUint32(S2MM_LENGTH, uint32(size))
}

// MM2SStatus reads the outbound status register.
func (e *Engine) MM2SStatus() Status {
	return Status(e.Regs.Uint32(MM2S_DMASR))
}

// S2MMStatus reads the inbound status register.
func (e *Engine) S2MMStatus() Status {
	return Status(e.Regs.Uint32(S2MM_DMASR))
}

// ArmSource points the MM2S direction at the staged source payload and
// starts the transfer.
func (e *Engine) ArmSource() {
	e.SetSourceAddress(e.Source.Addr())
	e.SetSourceLength(e.Source.Cursor())
}

// ArmDestination points the S2MM direction at the destination region for a
// transfer of size bytes.
func (e *Engine) ArmDestination(size uint64) {
	e.SetDestinationAddress(e.Dest.Addr())
	e.SetDestinationLength(size)
}

// AwaitMM2S polls the outbound status until done-or-failed.
func (e *Engine) AwaitMM2S(opts AwaitOptions) (Disposition, Status) {
	return Await(e.MM2SStatus, opts)
}

// AwaitS2MM polls the inbound status until done-or-failed.
func (e *Engine) AwaitS2MM(opts AwaitOptions) (Disposition, Status) {
	return Await(e.S2MMStatus, opts)
}
