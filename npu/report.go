// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package npu

import (
	"strings"
	"time"
)

// Report aggregates sample results into the accuracy and latency summary.
type Report struct {
	Samples  int
	Correct  int
	Faults   int
	Timeouts int
	Elapsed  time.Duration
}

// Add records one sample against its true label.
func (r *Report) Add(result *Result, label int64) {
	r.Samples++
	r.Elapsed += result.Elapsed

	switch {
	case result.TimedOut():
		r.Timeouts++
		return
	case result.Faulted():
		r.Faults++
	}

	if int64(result.Class) == label {
		r.Correct++
	}
}

// Accuracy returns the fraction of correctly classified samples.
func (r *Report) Accuracy() float64 {
	if r.Samples == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Samples)
}

// MeanLatency returns the average per-sample protocol time.
func (r *Report) MeanLatency() time.Duration {
	if r.Samples == 0 {
		return 0
	}
	return r.Elapsed / time.Duration(r.Samples)
}

func (r *Report) String() string {
	var sb strings.Builder
	sb.WriteString(f("Accuracy: %.2f%%", r.Accuracy()*100))
	sb.WriteString("\n")
	sb.WriteString(f("Mean execution time: %v us", r.MeanLatency().Microseconds()))
	if r.Faults > 0 {
		sb.WriteString("\n")
		sb.WriteString(f("Hardware faults: %v", r.Faults))
	}
	if r.Timeouts > 0 {
		sb.WriteString("\n")
		sb.WriteString(f("Timed-out samples: %v", r.Timeouts))
	}
	return sb.String()
}
