// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// npuctl runs a dense network on the NPU over its three DMA channels and
// reports classification accuracy and latency for a labeled dataset.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ezrec/npuctl/dma"
	"github.com/ezrec/npuctl/hwmap"
	"github.com/ezrec/npuctl/mem"
	"github.com/ezrec/npuctl/npu"
	"github.com/ezrec/npuctl/npy"
	"github.com/ezrec/npuctl/sim"
)

func main() {
	var core int
	var dir string
	var verbose bool
	var debug bool
	var mapFile string
	var simulate bool
	var timeout time.Duration
	var interval time.Duration

	flag.IntVar(&core, "c", 0, "Number of cores in the NPU (REQUIRED)")
	flag.StringVar(&dir, "d", "", "Directory holding layers.npz and dataset.npz (REQUIRED)")
	flag.BoolVar(&verbose, "v", false, "Per-sample timing output")
	flag.BoolVar(&debug, "debug", false, "Per-sample result dump, pausing after each sample")
	flag.StringVar(&mapFile, "map", "", ".hwmap memory-map file (default: built-in reference map)")
	flag.BoolVar(&simulate, "sim", false, "Run against the built-in simulator instead of /dev/mem")
	flag.DurationVar(&timeout, "timeout", 0, "Abandon a stuck channel poll after this long (0 polls forever)")
	flag.DurationVar(&interval, "interval", 0, "Delay between status polls (0 busy-polls)")

	flag.Parse()

	if core <= 0 || dir == "" || flag.NArg() != 0 {
		flag.Usage()
		os.Exit(0)
	}

	layerArchive, err := npy.LoadArchive(filepath.Join(dir, "layers.npz"))
	if err != nil {
		log.Fatalf("layers: %v", err)
	}
	layers, err := npy.Layers(layerArchive)
	if err != nil {
		log.Fatalf("layers: %v", err)
	}

	datasetArchive, err := npy.LoadArchive(filepath.Join(dir, "dataset.npz"))
	if err != nil {
		log.Fatalf("dataset: %v", err)
	}
	inputs, labels, err := npy.Dataset(datasetArchive)
	if err != nil {
		log.Fatalf("dataset: %v", err)
	}

	hw := hwmap.Default()
	if mapFile != "" {
		hw, err = hwmap.Load(mapFile)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	var mapper mem.Mapper
	if simulate {
		mapper = sim.New(hw, core)
	} else {
		mapper, err = mem.OpenDevMem("")
		if err != nil {
			log.Fatalf("%v", err)
		}
	}
	defer mapper.Close()

	o, err := npu.New(mapper, hw)
	if err != nil {
		log.Fatalf("%v", err)
	}
	o.Timeout = timeout
	o.PollInterval = interval
	o.Warn = func(message string) { log.Print(message) }
	if debug {
		o.Observe = func(channel string, status dma.Status) {
			fmt.Printf("%v: %v\n", channel, status)
		}
	}

	err = o.LoadNetwork(layers, core)
	if err != nil {
		log.Fatalf("network: %v", err)
	}
	if debug {
		fmt.Printf("Loaded %v layers, result width %v\n", len(layers), o.ResultWidth())
	}

	var bar *progressbar.ProgressBar
	if !verbose && !debug {
		bar = progressbar.Default(int64(len(inputs)))
	}

	pause := bufio.NewReader(os.Stdin)
	report := &npu.Report{}
	for n, input := range inputs {
		if bar != nil {
			bar.Add(1)
		}

		result, err := o.Infer(input)
		if err != nil {
			log.Fatalf("sample %v: %v", n, err)
		}
		report.Add(&result, labels[n])

		if verbose || debug {
			fmt.Printf("Execution time: %v us\n", result.Elapsed.Microseconds())
		}
		if debug {
			fmt.Println("Result:")
			for _, value := range result.Output {
				fmt.Printf("\t%v\n", value)
			}
			if int64(result.Class) == labels[n] {
				fmt.Printf("Classification is correct: found (#%v)\n", labels[n])
			} else {
				fmt.Printf("Classification is incorrect: found (#%v) instead of (#%v)\n",
					result.Class, labels[n])
			}
			fmt.Print("Press enter to continue ...")
			pause.ReadString('\n')
		}
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	fmt.Println(report.String())
}
