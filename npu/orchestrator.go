// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package npu runs inference on the accelerator: it stages the instruction
// and weight streams once, then drives the three DMA channels through the
// fixed per-sample protocol and extracts the classification results.
package npu

import (
	"fmt"
	"time"

	"github.com/ezrec/npuctl/dma"
	"github.com/ezrec/npuctl/hwmap"
	"github.com/ezrec/npuctl/mem"
	"github.com/ezrec/npuctl/nn"
)

// Orchestrator owns the three DMA channels and the per-sample protocol.
// The exported fields tune polling and diagnostics and may be set before
// the first Infer.
type Orchestrator struct {
	// PollInterval is the delay between status reads; 0 busy-polls.
	PollInterval time.Duration
	// Timeout is the per-poll deadline; 0 polls forever.
	Timeout time.Duration
	// Observe is called with the channel name on every status change.
	// Diagnostics only.
	Observe func(string, dma.Status)
	// Warn reports naming-convention misses.
	Warn func(string)

	config *dma.Engine
	weight *dma.Engine
	io     *dma.Engine

	resultWidth uint64
}

// New maps every region of the memory map through the mapper and builds the
// three channels. The configuration and weight channels only send; the io
// channel also receives results.
func New(mapper mem.Mapper, hw hwmap.Map) (o *Orchestrator, err error) {
	o = &Orchestrator{}

	regions := []struct {
		name   string
		regs   mem.Region
		src    mem.Region
		dst    *mem.Region
		engine **dma.Engine
	}{
		{"config", hw.ConfigRegs, hw.ConfigSrc, nil, &o.config},
		{"weight", hw.WeightRegs, hw.WeightSrc, nil, &o.weight},
		{"io", hw.IORegs, hw.IOSrc, &hw.IODst, &o.io},
	}
	for _, ch := range regions {
		regs, e := mapper.Map(ch.regs)
		if e != nil {
			err = fmt.Errorf("%v: %w", ch.name, e)
			return
		}
		src, e := mapper.Map(ch.src)
		if e != nil {
			err = fmt.Errorf("%v: %w", ch.name, e)
			return
		}
		var dst *mem.Buffer
		if ch.dst != nil {
			dstMem, e := mapper.Map(*ch.dst)
			if e != nil {
				err = fmt.Errorf("%v: %w", ch.name, e)
				return
			}
			dst = mem.NewBuffer(dstMem, *ch.dst)
		}
		*ch.engine = dma.NewEngine(ch.name, regs, mem.NewBuffer(src, ch.src), dst)
	}
	return
}

// ResultWidth returns the output width of the last loaded layer.
func (o *Orchestrator) ResultWidth() uint64 {
	return o.resultWidth
}

// LoadNetwork stages the network once: the layer count and one instruction
// per layer on the configuration channel, the tiled weights on the weight
// channel. The destination region is zeroed for the result width so a
// transfer that never lands produces predictable output.
//
// A layer whose identifier does not follow the a<n>_<activation>_<n>
// convention keeps the hardware's lenient no-activation default, but the
// miss is reported through Warn.
func (o *Orchestrator) LoadNetwork(layers []nn.Layer, core int) (err error) {
	if len(layers) == 0 {
		err = ErrNoLayers
		return
	}

	o.config.Source.Rewind()
	o.weight.Source.Rewind()

	err = o.config.Source.WriteUint64(uint64(len(layers)))
	if err != nil {
		return
	}

	for _, layer := range layers {
		name, ok := nn.ParseIdent(layer.Name)
		if !ok && o.Warn != nil {
			o.Warn(f("layer %v: identifier does not follow naming convention, assuming no activation", layer.Name))
		}

		inst, e := nn.Encode(uint64(layer.In), uint64(layer.Out), nn.ActivationOf(name))
		if e != nil {
			err = fmt.Errorf("%v: %w", layer.Name, e)
			return
		}
		err = o.config.Source.WriteUint64(uint64(inst))
		if err != nil {
			err = fmt.Errorf("%v: %w", layer.Name, err)
			return
		}

		tiled, e := nn.Tile(layer.Weights, layer.In, layer.Out, core)
		if e != nil {
			err = fmt.Errorf("%v: %w", layer.Name, e)
			return
		}
		for _, value := range tiled {
			err = o.weight.Source.WriteFloat32(value)
			if err != nil {
				err = fmt.Errorf("%v: %w", layer.Name, err)
				return
			}
		}

		o.resultWidth = uint64(layer.Out)
	}

	err = o.io.Dest.Zero(0, o.resultWidth*4)
	return
}

// await builds the polling options for one named channel.
func (o *Orchestrator) await(name string) dma.AwaitOptions {
	opts := dma.AwaitOptions{
		Interval: o.PollInterval,
		Timeout:  o.Timeout,
	}
	if o.Observe != nil {
		opts.Observe = func(status dma.Status) { o.Observe(name, status) }
	}
	return opts
}

// Infer runs one sample through the accelerator and classifies the result.
//
// The protocol order is a hardware contract: every channel is initialized
// (reset, halt, interrupts, ready) and the destination is armed before any
// source; then the configuration, input, and weight streams are armed and
// awaited in that order; the inbound result transfer is awaited last. A
// hardware fault ends a poll exactly like completion and the protocol keeps
// going, but the result records the fault. A timeout aborts the sample.
func (o *Orchestrator) Infer(input []float32) (result Result, err error) {
	// Stage the input vector.
	o.io.Source.Rewind()
	for _, value := range input {
		err = o.io.Source.WriteFloat32(value)
		if err != nil {
			return
		}
	}

	for _, engine := range []*dma.Engine{o.config, o.weight, o.io} {
		engine.Reset()
		engine.Halt()
		engine.SetInterrupt(true, true, 0)
		engine.Ready()
	}

	// Arm the landing region before any source, so results land in a known
	// place regardless of arrival order.
	o.io.ArmDestination(o.resultWidth * 4)

	start := time.Now()

	steps := []struct {
		engine *dma.Engine
		poll   func(dma.AwaitOptions) (dma.Disposition, dma.Status)
		arm    bool
	}{
		{o.config, o.config.AwaitMM2S, true},
		{o.io, o.io.AwaitMM2S, true},
		{o.weight, o.weight.AwaitMM2S, true},
		{o.io, o.io.AwaitS2MM, false},
	}
	for _, step := range steps {
		if step.arm {
			step.engine.ArmSource()
		}
		disposition, status := step.poll(o.await(step.engine.Name))
		result.Polls = append(result.Polls, Poll{
			Channel:     step.engine.Name,
			Disposition: disposition,
			Status:      status,
		})
		if disposition == dma.TimedOut {
			result.Elapsed = time.Since(start)
			result.Class = -1
			return
		}
	}

	result.Elapsed = time.Since(start)

	result.Output = make([]float32, o.resultWidth)
	for i := range result.Output {
		result.Output[i] = o.io.Dest.Float32(uint64(i) * 4)
	}
	result.Class = Classify(result.Output)
	return
}

// Classify returns the index of the maximum value, first occurrence winning
// ties.
func Classify(output []float32) (class int) {
	if len(output) == 0 {
		return -1
	}
	for i, value := range output {
		if value > output[class] {
			class = i
		}
	}
	return
}
