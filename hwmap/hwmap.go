// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package hwmap holds the NPU deployment memory map: the control-register
// window of each DMA engine and the physical buffer regions the engines
// stream from and into. The map is a set of deployment constants, either the
// built-in reference layout or a .hwmap file evaluated as starlark so that
// addresses and sizes can be written as expressions.
package hwmap

import (
	"github.com/ezrec/npuctl/mem"
)

const REGS_WINDOW_SIZE = 0x1_0000 // Register window of each engine.

// Map is the complete deployment memory map.
type Map struct {
	ConfigRegs mem.Region // Configuration engine registers.
	WeightRegs mem.Region // Weight engine registers.
	IORegs     mem.Region // Input/output engine registers.

	ConfigSrc mem.Region // Instruction stream staging.
	WeightSrc mem.Region // Tiled weight staging.
	IOSrc     mem.Region // Per-sample input staging.
	IODst     mem.Region // Result landing region.
}

// Default returns the reference deployment layout.
func Default() Map {
	return Map{
		ConfigRegs: mem.Region{Addr: 0x4040_0000, Size: REGS_WINDOW_SIZE},
		WeightRegs: mem.Region{Addr: 0x4041_0000, Size: REGS_WINDOW_SIZE},
		IORegs:     mem.Region{Addr: 0x4042_0000, Size: REGS_WINDOW_SIZE},
		ConfigSrc:  mem.Region{Addr: 0x3010_0000, Size: 64 * 1024},
		WeightSrc:  mem.Region{Addr: 0x3011_0000, Size: 32 * 1024 * 1024},
		IOSrc:      mem.Region{Addr: 0x3211_0000, Size: 256 * 1024},
		IODst:      mem.Region{Addr: 0x3213_0000, Size: 256 * 1024},
	}
}

// Validate checks that every region has a size and that no two buffer
// regions overlap.
func (m Map) Validate() (err error) {
	regions := []mem.Region{
		m.ConfigRegs, m.WeightRegs, m.IORegs,
		m.ConfigSrc, m.WeightSrc, m.IOSrc, m.IODst,
	}
	for _, region := range regions {
		if region.Size == 0 {
			return ErrEmptyRegion
		}
	}

	buffers := []mem.Region{m.ConfigSrc, m.WeightSrc, m.IOSrc, m.IODst}
	for i, a := range buffers {
		for _, b := range buffers[i+1:] {
			if a.Addr < b.Addr+b.Size && b.Addr < a.Addr+a.Size {
				return ErrOverlap
			}
		}
	}
	return
}
