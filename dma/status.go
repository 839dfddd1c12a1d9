// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package dma

import (
	"strings"
)

// Status is a DMASR snapshot.
type Status uint32

// Done reports whether the engine has stopped making progress: halted, idle,
// errored, or with either interrupt raised. The hardware protocol treats any
// of these as the end of a transfer; Faulted distinguishes the error cases.
func (s Status) Done() bool {
	return uint32(s)&(SR_HALTED|SR_IDLE|SR_DEC_ERROR|SR_IRQ_IOC|SR_IRQ_ERROR) != 0
}

// Faulted reports whether the engine raised an error condition.
func (s Status) Faulted() bool {
	return uint32(s)&(SR_DEC_ERROR|SR_IRQ_ERROR) != 0
}

var statusNames = []struct {
	bit  uint32
	name string
}{
	{SR_HALTED, "halted"},
	{SR_IDLE, "idle"},
	{SR_DEC_ERROR, "decode-error"},
	{SR_IRQ_IOC, "irq-complete"},
	{SR_IRQ_ERROR, "irq-error"},
}

// String decodes the status into a diagnostic report. It has no effect on
// control flow.
func (s Status) String() string {
	var names []string
	for _, flag := range statusNames {
		if uint32(s)&flag.bit != 0 {
			names = append(names, flag.name)
		}
	}
	if len(names) == 0 {
		return "running"
	}
	return strings.Join(names, "|")
}
