package dma

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/npuctl/mem"
)

func TestStatusDone(t *testing.T) {
	assert := assert.New(t)

	// Exactly the bits {0, 1, 4, 12, 14} end a poll.
	terminal := []uint32{
		SR_HALTED,
		SR_IDLE,
		SR_DEC_ERROR,
		SR_IRQ_IOC,
		SR_IRQ_ERROR,
		SR_IDLE | SR_IRQ_IOC,
		SR_HALTED | SR_IRQ_ERROR,
		0xffff_ffff,
	}
	for _, bits := range terminal {
		assert.True(Status(bits).Done(), "status %#x", bits)
	}

	inflight := []uint32{
		0,
		1 << 2, // reserved
		1 << 3, // scatter-gather included
		1 << 5, // slave error elsewhere in the map
		1 << 13,
		1 << 15,
		(1 << 2) | (1 << 3) | (1 << 5) | (1 << 13) | (1 << 15),
	}
	for _, bits := range inflight {
		assert.False(Status(bits).Done(), "status %#x", bits)
	}
}

func TestStatusFaulted(t *testing.T) {
	assert := assert.New(t)

	assert.False(Status(SR_IDLE).Faulted())
	assert.False(Status(SR_HALTED | SR_IRQ_IOC).Faulted())
	assert.True(Status(SR_DEC_ERROR).Faulted())
	assert.True(Status(SR_IRQ_ERROR).Faulted())
	assert.True(Status(SR_IDLE | SR_IRQ_ERROR).Faulted())
}

func TestStatusString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("running", Status(0).String())
	assert.Equal("idle|irq-complete", Status(SR_IDLE|SR_IRQ_IOC).String())
	assert.Equal("halted|decode-error|irq-error",
		Status(SR_HALTED|SR_DEC_ERROR|SR_IRQ_ERROR).String())
}

func TestAwait(t *testing.T) {
	assert := assert.New(t)

	// Completes on the third read.
	reads := []Status{0, 0, Status(SR_IDLE | SR_IRQ_IOC)}
	n := 0
	read := func() Status {
		s := reads[n]
		if n < len(reads)-1 {
			n++
		}
		return s
	}

	var observed []Status
	disposition, status := Await(read, AwaitOptions{
		Observe: func(s Status) { observed = append(observed, s) },
	})
	assert.Equal(Completed, disposition)
	assert.Equal(Status(SR_IDLE|SR_IRQ_IOC), status)
	// Observe fires once per change, not per read.
	assert.Equal([]Status{0, Status(SR_IDLE | SR_IRQ_IOC)}, observed)
}

func TestAwaitFaulted(t *testing.T) {
	assert := assert.New(t)

	disposition, status := Await(func() Status { return Status(SR_IRQ_ERROR) }, AwaitOptions{})
	assert.Equal(Faulted, disposition)
	assert.True(status.Faulted())
}

func TestAwaitTimeout(t *testing.T) {
	assert := assert.New(t)

	disposition, _ := Await(func() Status { return 0 }, AwaitOptions{
		Interval: time.Millisecond,
		Timeout:  5 * time.Millisecond,
	})
	assert.Equal(TimedOut, disposition)
}

func TestEngineRegisters(t *testing.T) {
	assert := assert.New(t)

	regs := mem.Bytes(make([]byte, 0x60))
	source := mem.NewBuffer(mem.Bytes(make([]byte, 64)), mem.Region{Addr: 0x3010_0000, Size: 64})
	dest := mem.NewBuffer(mem.Bytes(make([]byte, 64)), mem.Region{Addr: 0x3213_0000, Size: 64})
	engine := NewEngine("io", regs, source, dest)

	engine.Reset()
	assert.Equal(CR_RESET, regs.Uint32(MM2S_DMACR))
	assert.Equal(CR_RESET, regs.Uint32(S2MM_DMACR))

	engine.Halt()
	assert.Equal(CR_RESET, regs.Uint32(MM2S_DMACR)) // run bit was not set

	engine.SetInterrupt(true, true, 0)
	assert.Equal(CR_RESET|CR_IRQ_IOC|CR_IRQ_ERROR, regs.Uint32(MM2S_DMACR))
	assert.Equal(CR_RESET|CR_IRQ_IOC|CR_IRQ_ERROR, regs.Uint32(S2MM_DMACR))

	engine.Ready()
	assert.Equal(CR_RUN, regs.Uint32(MM2S_DMACR)&CR_RUN)
	assert.Equal(CR_RUN, regs.Uint32(S2MM_DMACR)&CR_RUN)

	assert.NoError(source.WriteFloat32(1.0))
	assert.NoError(source.WriteFloat32(2.0))
	engine.ArmSource()
	assert.Equal(uint32(0x3010_0000), regs.Uint32(MM2S_SA))
	assert.Equal(uint32(8), regs.Uint32(MM2S_LENGTH))

	engine.ArmDestination(12)
	assert.Equal(uint32(0x3213_0000), regs.Uint32(S2MM_DA))
	assert.Equal(uint32(12), regs.Uint32(S2MM_LENGTH))

	regs.PutUint32(MM2S_DMASR, SR_IDLE)
	assert.Equal(Status(SR_IDLE), engine.MM2SStatus())
	assert.Equal(Status(0), engine.S2MMStatus())
}

func TestSetInterruptThreshold(t *testing.T) {
	assert := assert.New(t)

	regs := mem.Bytes(make([]byte, 0x60))
	engine := NewEngine("config", regs, nil, nil)

	engine.SetInterrupt(false, false, 4)
	assert.Equal(uint32(4)<<CR_IRQ_THRESHOLD_SHIFT, regs.Uint32(MM2S_DMACR))
}
