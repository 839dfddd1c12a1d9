// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package mem models the physical memory regions shared with the NPU's DMA
// engines: typed word access over a mapped window, append-cursor buffers for
// staging transfer payloads, and the Mapper capability that provides the
// windows (either /dev/mem or a simulator).
package mem

import (
	"encoding/binary"
	"math"
)

// Region is a contiguous physical address range. Immutable once constructed.
type Region struct {
	Addr uint64 // Physical base address.
	Size uint64 // Size in bytes.
}

// Contains reports whether [off, off+size) lies within the region.
func (r Region) Contains(off uint64, size uint64) bool {
	return off <= r.Size && size <= r.Size-off
}

// Memory is bounds-checked typed access to a mapped region. Word accessors
// panic on an out-of-range offset; register offsets are compile-time
// constants, so an out-of-range word access is a programming error, not a
// runtime condition. All multi-byte access is little-endian.
type Memory interface {
	// Size returns the window size in bytes.
	Size() uint64

	// Uint32 reads a 32-bit word at the byte offset.
	Uint32(off uint64) uint32
	// PutUint32 writes a 32-bit word at the byte offset.
	PutUint32(off uint64, value uint32)
	// Uint64 reads a 64-bit word at the byte offset.
	Uint64(off uint64) uint64
	// PutUint64 writes a 64-bit word at the byte offset.
	PutUint64(off uint64, value uint64)
	// Float32 reads an IEEE-754 single at the byte offset.
	Float32(off uint64) float32
	// PutFloat32 writes an IEEE-754 single at the byte offset.
	PutFloat32(off uint64, value float32)

	// Read copies size bytes starting at the byte offset.
	Read(off uint64, size uint64) (data []byte, err error)
	// Write copies src into the window at the byte offset.
	Write(off uint64, src []byte) (err error)
	// Zero clears size bytes starting at the byte offset.
	Zero(off uint64, size uint64) (err error)
}

// Mapper provides Memory windows over physical regions. It is the single
// capability the driver needs from the platform; the real implementation is
// DevMem, and the npuctl simulator provides a deterministic one for tests.
type Mapper interface {
	// Map makes the region accessible as a Memory window.
	Map(region Region) (Memory, error)
	// Close releases every window handed out by Map.
	Close() error
}

// Bytes is a Memory over a plain byte slice.
type Bytes []byte

var _ Memory = Bytes(nil)

func (b Bytes) Size() uint64 {
	return uint64(len(b))
}

func (b Bytes) Uint32(off uint64) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}

func (b Bytes) PutUint32(off uint64, value uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], value)
}

func (b Bytes) Uint64(off uint64) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}

func (b Bytes) PutUint64(off uint64, value uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], value)
}

func (b Bytes) Float32(off uint64) float32 {
	return math.Float32frombits(b.Uint32(off))
}

func (b Bytes) PutFloat32(off uint64, value float32) {
	b.PutUint32(off, math.Float32bits(value))
}

func (b Bytes) Read(off uint64, size uint64) (data []byte, err error) {
	if off+size > uint64(len(b)) || off+size < off {
		err = ErrBounds
		return
	}
	data = make([]byte, size)
	copy(data, b[off:off+size])
	return
}

func (b Bytes) Write(off uint64, src []byte) (err error) {
	if off+uint64(len(src)) > uint64(len(b)) || off+uint64(len(src)) < off {
		err = ErrBounds
		return
	}
	copy(b[off:], src)
	return
}

func (b Bytes) Zero(off uint64, size uint64) (err error) {
	if off+size > uint64(len(b)) || off+size < off {
		err = ErrBounds
		return
	}
	clear(b[off : off+size])
	return
}
