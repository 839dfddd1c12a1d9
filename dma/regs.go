package dma

// AXI DMA direct-register-mode offsets, one window per engine.
const (
	MM2S_DMACR  = 0x00 // Memory-to-stream control.
	MM2S_DMASR  = 0x04 // Memory-to-stream status.
	MM2S_SA     = 0x18 // Source address (lower 32 bits).
	MM2S_LENGTH = 0x28 // Source length in bytes; writing arms the transfer.
	S2MM_DMACR  = 0x30 // Stream-to-memory control.
	S2MM_DMASR  = 0x34 // Stream-to-memory status.
	S2MM_DA     = 0x48 // Destination address (lower 32 bits).
	S2MM_LENGTH = 0x58 // Destination length in bytes; writing arms the transfer.
)

// Control register bits (DMACR).
const (
	CR_RUN       = uint32(1 << 0)  // Run/stop.
	CR_RESET     = uint32(1 << 2)  // Soft reset; self-clearing.
	CR_IRQ_IOC   = uint32(1 << 12) // Interrupt on complete enable.
	CR_IRQ_ERROR = uint32(1 << 14) // Interrupt on error enable.

	CR_IRQ_THRESHOLD_SHIFT = 16 // Interrupt coalescing threshold, 8 bits.
)

// Status register bits (DMASR).
const (
	SR_HALTED    = uint32(1 << 0)  // Engine halted.
	SR_IDLE      = uint32(1 << 1)  // Engine idle; transfer complete.
	SR_DEC_ERROR = uint32(1 << 4)  // Internal/slave decode error.
	SR_IRQ_IOC   = uint32(1 << 12) // Interrupt-on-complete raised.
	SR_IRQ_ERROR = uint32(1 << 14) // Interrupt-on-error raised.
)
