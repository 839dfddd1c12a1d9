package mem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesRoundTrip(t *testing.T) {
	assert := assert.New(t)

	b := Bytes(make([]byte, 32))

	b.PutUint32(0, 0xdeadbeef)
	assert.Equal(uint32(0xdeadbeef), b.Uint32(0))
	// Little-endian on the wire.
	assert.Equal([]byte{0xef, 0xbe, 0xad, 0xde}, []byte(b)[0:4])

	b.PutUint64(8, 0x0123456789abcdef)
	assert.Equal(uint64(0x0123456789abcdef), b.Uint64(8))

	b.PutFloat32(16, 1.5)
	assert.Equal(float32(1.5), b.Float32(16))

	assert.Panics(func() { b.Uint32(30) })
}

func TestBytesReadWriteZero(t *testing.T) {
	assert := assert.New(t)

	b := Bytes(make([]byte, 8))

	assert.NoError(b.Write(2, []byte{1, 2, 3}))
	data, err := b.Read(0, 8)
	assert.NoError(err)
	assert.Equal([]byte{0, 0, 1, 2, 3, 0, 0, 0}, data)

	assert.ErrorIs(b.Write(6, []byte{9, 9, 9}), ErrBounds)

	_, err = b.Read(4, 8)
	assert.ErrorIs(err, ErrBounds)

	assert.NoError(b.Zero(2, 2))
	assert.Equal(Bytes{0, 0, 0, 0, 3, 0, 0, 0}, b)
	assert.ErrorIs(b.Zero(7, 4), ErrBounds)

	// Offsets near the top of the address space must not wrap past the
	// bounds check.
	huge := ^uint64(0) - 1
	assert.ErrorIs(b.Write(huge, []byte{1, 2, 3}), ErrBounds)
	_, err = b.Read(huge, 4)
	assert.ErrorIs(err, ErrBounds)
	assert.ErrorIs(b.Zero(huge, 4), ErrBounds)
}

func TestBufferAppend(t *testing.T) {
	assert := assert.New(t)

	region := Region{Addr: 0x3010_0000, Size: 16}
	buf := NewBuffer(Bytes(make([]byte, 16)), region)

	assert.Equal(uint64(0x3010_0000), buf.Addr())
	assert.Equal(uint64(0), buf.Cursor())

	assert.NoError(buf.WriteUint64(3))
	assert.NoError(buf.WriteFloat32(1.0))
	assert.Equal(uint64(12), buf.Cursor())

	// Overflow leaves the cursor unchanged.
	assert.ErrorIs(buf.WriteUint64(4), ErrOverflow)
	assert.Equal(uint64(12), buf.Cursor())

	assert.NoError(buf.WriteFloat32(2.0))
	assert.ErrorIs(buf.WriteFloat32(3.0), ErrOverflow)
	assert.ErrorIs(buf.Write([]byte{1}), ErrOverflow)

	// Rewind resets the cursor but not the content.
	buf.Rewind()
	assert.Equal(uint64(0), buf.Cursor())
	assert.Equal(float32(1.0), buf.Float32(8))
}

func TestRegionContains(t *testing.T) {
	assert := assert.New(t)

	region := Region{Addr: 0, Size: 8}
	assert.True(region.Contains(0, 8))
	assert.True(region.Contains(8, 0))
	assert.False(region.Contains(8, 1))
	assert.False(region.Contains(4, 5))
	// Offset past the region, even with zero size.
	assert.False(region.Contains(9, 0))
}
