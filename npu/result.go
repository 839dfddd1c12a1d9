// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package npu

import (
	"time"

	"github.com/ezrec/npuctl/dma"
)

// Poll is the outcome of one status poll of the per-sample protocol.
type Poll struct {
	Channel     string
	Disposition dma.Disposition
	Status      dma.Status
}

// Result is the outcome of one inference sample. Output and Class are only
// meaningful when the sample did not time out; a hardware fault still
// produces an output (the protocol does not distinguish them on the wire),
// but Faulted reports that an error bit was observed.
type Result struct {
	Output  []float32
	Class   int
	Elapsed time.Duration
	Polls   []Poll
}

// Faulted reports whether any poll observed a hardware error bit.
func (r *Result) Faulted() bool {
	for _, poll := range r.Polls {
		if poll.Disposition == dma.Faulted {
			return true
		}
	}
	return false
}

// TimedOut reports whether the sample was abandoned by a poll deadline.
func (r *Result) TimedOut() bool {
	for _, poll := range r.Polls {
		if poll.Disposition == dma.TimedOut {
			return true
		}
	}
	return false
}
