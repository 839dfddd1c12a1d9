// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package dma

import (
	"time"
)

// Disposition is the outcome of a status poll.
type Disposition int

const (
	Completed Disposition = iota // Transfer finished without error bits.
	Faulted                      // An error bit ended the poll.
	TimedOut                     // The poll deadline expired first.
)

func (d Disposition) String() string {
	switch d {
	case Completed:
		return "completed"
	case Faulted:
		return "faulted"
	case TimedOut:
		return "timed-out"
	}
	return "unknown"
}

// AwaitOptions tunes a status poll. The zero value busy-polls forever, the
// behavior the hardware protocol was written against.
type AwaitOptions struct {
	Interval time.Duration // Delay between reads; 0 busy-polls.
	Timeout  time.Duration // Poll deadline; 0 polls forever.
	Observe  func(Status)  // Called on every status change, diagnostics only.
}

// Await reads the status until it is done-or-failed. An error bit ends the
// poll exactly like completion, but is reported as Faulted so the caller can
// tell the two apart.
func Await(read func() Status, opts AwaitOptions) (disposition Disposition, status Status) {
	var deadline time.Time
	if opts.Timeout != 0 {
		deadline = time.Now().Add(opts.Timeout)
	}

	seen := Status(0)
	first := true
	for {
		status = read()
		if opts.Observe != nil && (first || status != seen) {
			opts.Observe(status)
			seen = status
			first = false
		}

		if status.Done() {
			if status.Faulted() {
				disposition = Faulted
			}
			return
		}

		if opts.Timeout != 0 && !time.Now().Before(deadline) {
			disposition = TimedOut
			return
		}

		if opts.Interval != 0 {
			time.Sleep(opts.Interval)
		}
	}
}
