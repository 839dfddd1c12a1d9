// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package mem

// Buffer is a sequentially-writable view of a mapped region: a Memory window
// plus an append cursor. A DMA engine streams the first Cursor() bytes of
// the region, so the cursor doubles as the transfer length.
type Buffer struct {
	mem    Memory
	region Region
	cursor uint64
}

// NewBuffer wraps a mapped window and its region as an append buffer.
func NewBuffer(m Memory, region Region) *Buffer {
	return &Buffer{mem: m, region: region}
}

// Addr returns the physical base address of the buffer.
func (b *Buffer) Addr() uint64 {
	return b.region.Addr
}

// Size returns the region size in bytes.
func (b *Buffer) Size() uint64 {
	return b.region.Size
}

// Cursor returns the number of bytes appended since the last Rewind.
func (b *Buffer) Cursor() uint64 {
	return b.cursor
}

// Rewind resets the cursor to zero. Memory content is not cleared; bytes
// beyond the next write remain from the previous use.
func (b *Buffer) Rewind() {
	b.cursor = 0
}

// Write appends src at the cursor. On ErrOverflow the cursor is unchanged
// and nothing is written.
func (b *Buffer) Write(src []byte) (err error) {
	if !b.region.Contains(b.cursor, uint64(len(src))) {
		err = ErrOverflow
		return
	}
	err = b.mem.Write(b.cursor, src)
	if err != nil {
		return
	}
	b.cursor += uint64(len(src))
	return
}

// WriteUint64 appends a little-endian 64-bit word at the cursor.
func (b *Buffer) WriteUint64(value uint64) (err error) {
	if !b.region.Contains(b.cursor, 8) {
		err = ErrOverflow
		return
	}
	b.mem.PutUint64(b.cursor, value)
	b.cursor += 8
	return
}

// WriteFloat32 appends an IEEE-754 single at the cursor.
func (b *Buffer) WriteFloat32(value float32) (err error) {
	if !b.region.Contains(b.cursor, 4) {
		err = ErrOverflow
		return
	}
	b.mem.PutFloat32(b.cursor, value)
	b.cursor += 4
	return
}

// Float32 reads an IEEE-754 single at the byte offset, cursor-independent.
// Used to extract results from a destination buffer.
func (b *Buffer) Float32(off uint64) float32 {
	return b.mem.Float32(off)
}

// Zero clears size bytes starting at the byte offset, cursor-independent.
func (b *Buffer) Zero(off uint64, size uint64) (err error) {
	return b.mem.Zero(off, size)
}
