// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package mem

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// DevMem maps physical regions through /dev/mem. All windows are released
// on Close.
type DevMem struct {
	file     *os.File
	mappings [][]byte
}

var _ Mapper = (*DevMem)(nil)

// OpenDevMem opens the physical memory device, by default "/dev/mem".
func OpenDevMem(path string) (dm *DevMem, err error) {
	if path == "" {
		path = "/dev/mem"
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}
	dm = &DevMem{file: file}
	return
}

// Map mmaps the region read/write. The region base must be page aligned.
func (dm *DevMem) Map(region Region) (m Memory, err error) {
	pagesize := uint64(os.Getpagesize())
	if region.Addr%pagesize != 0 {
		err = fmt.Errorf("%#x: %w", region.Addr, ErrPageAlign)
		return
	}
	data, err := unix.Mmap(int(dm.file.Fd()), int64(region.Addr),
		int(region.Size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		err = fmt.Errorf("mmap %#x+%#x: %w", region.Addr, region.Size, err)
		return
	}
	dm.mappings = append(dm.mappings, data)
	m = Bytes(data)
	return
}

// Close unmaps every window and closes the device.
func (dm *DevMem) Close() (err error) {
	for _, data := range dm.mappings {
		e := unix.Munmap(data)
		if e != nil && err == nil {
			err = e
		}
	}
	dm.mappings = nil

	e := dm.file.Close()
	if e != nil && err == nil {
		err = e
	}
	return
}
