// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package hwmap

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/npuctl/mem"
)

// Load evaluates a .hwmap file. The file is starlark; each global names one
// map entry, either a bare base address (register windows, which have a
// fixed size) or an (address, size) tuple (buffer regions):
//
//	config_regs = 0x40400000
//	weight_regs = 0x40410000
//	io_regs     = 0x40420000
//	config_src  = (0x30100000, 64 * 1024)
//	weight_src  = (0x30110000, 32 * 1024 * 1024)
//	io_src      = (0x32110000, 256 * 1024)
//	io_dst      = (0x32130000, 256 * 1024)
func Load(path string) (m Map, err error) {
	thread := starlark.Thread{Name: "hwmap"}
	opts := syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(&opts, &thread, path, nil, nil)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}

	entries := []struct {
		name   string
		region *mem.Region
		window bool
	}{
		{"config_regs", &m.ConfigRegs, true},
		{"weight_regs", &m.WeightRegs, true},
		{"io_regs", &m.IORegs, true},
		{"config_src", &m.ConfigSrc, false},
		{"weight_src", &m.WeightSrc, false},
		{"io_src", &m.IOSrc, false},
		{"io_dst", &m.IODst, false},
	}
	for _, entry := range entries {
		value, ok := globals[entry.name]
		if !ok {
			err = fmt.Errorf("%v: %v: %w", path, entry.name, ErrIncomplete)
			return
		}
		*entry.region, err = regionOf(value, entry.window)
		if err != nil {
			err = fmt.Errorf("%v: %v: %w", path, entry.name, err)
			return
		}
	}

	err = m.Validate()
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
	}
	return
}

func regionOf(value starlark.Value, window bool) (region mem.Region, err error) {
	switch v := value.(type) {
	case starlark.Int:
		if !window {
			err = ErrBadValue
			return
		}
		region.Addr, err = addrOf(v)
		region.Size = REGS_WINDOW_SIZE
	case starlark.Tuple:
		if v.Len() != 2 {
			err = ErrBadValue
			return
		}
		addr, aok := v.Index(0).(starlark.Int)
		size, sok := v.Index(1).(starlark.Int)
		if !aok || !sok {
			err = ErrBadValue
			return
		}
		region.Addr, err = addrOf(addr)
		if err != nil {
			return
		}
		region.Size, err = addrOf(size)
	default:
		err = ErrBadValue
	}
	return
}

func addrOf(value starlark.Int) (addr uint64, err error) {
	addr, ok := value.Uint64()
	if !ok {
		err = ErrBadValue
	}
	return
}
