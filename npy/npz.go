// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package npy

import (
	"archive/zip"
	"fmt"
	"sort"
	"strings"
)

// Entry is one named array from an archive.
type Entry struct {
	Name  string
	Array *Array
}

// Archive is the decoded content of one .npz file, entries sorted by name.
type Archive struct {
	Entries []Entry
}

// Lookup returns the named array, or nil.
func (ar *Archive) Lookup(name string) *Array {
	for _, entry := range ar.Entries {
		if entry.Name == name {
			return entry.Array
		}
	}
	return nil
}

// LoadArchive reads every .npy member of an .npz file. Member names are
// reported without the .npy suffix, and entries are sorted by name so that
// iteration order is deterministic.
func LoadArchive(path string) (ar *Archive, err error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		err = fmt.Errorf("%v: %w", path, err)
		return
	}
	defer zr.Close()

	ar = &Archive{}
	for _, member := range zr.File {
		name := strings.TrimSuffix(member.Name, ".npy")

		rc, e := member.Open()
		if e != nil {
			err = fmt.Errorf("%v: %v: %w", path, member.Name, e)
			return
		}
		array, e := Read(rc)
		rc.Close()
		if e != nil {
			err = fmt.Errorf("%v: %v: %w", path, member.Name, e)
			return
		}

		ar.Entries = append(ar.Entries, Entry{Name: name, Array: array})
	}

	sort.Slice(ar.Entries, func(i, j int) bool {
		return ar.Entries[i].Name < ar.Entries[j].Name
	})
	return
}
