package npy

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// npyBytes builds a version 1.0 .npy stream.
func npyBytes(descr string, shape string, data []byte) []byte {
	header := fmt.Sprintf("{'descr': '%v', 'fortran_order': False, 'shape': %v, }", descr, shape)
	// Pad so that data starts on a 64-byte boundary, per the format spec.
	for (10+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"

	var buf bytes.Buffer
	buf.Write([]byte{0x93, 'N', 'U', 'M', 'P', 'Y', 1, 0})
	binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	buf.Write(data)
	return buf.Bytes()
}

func floatData(values ...float32) []byte {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}

func TestReadFloat32(t *testing.T) {
	assert := assert.New(t)

	stream := npyBytes("<f4", "(2, 3)", floatData(1, 2, 3, 4, 5, 6))
	array, err := Read(bytes.NewReader(stream))
	assert.NoError(err)
	assert.Equal("<f4", array.Descr)
	assert.Equal([]int{2, 3}, array.Shape)
	assert.Equal(6, array.Len())

	values, err := array.Float32s()
	assert.NoError(err)
	assert.Equal([]float32{1, 2, 3, 4, 5, 6}, values)

	_, err = array.Int64s()
	assert.ErrorIs(err, ErrDescr)
}

func TestReadInt8(t *testing.T) {
	assert := assert.New(t)

	stream := npyBytes("|i1", "(4,)", []byte{0, 1, 2, 0xff})
	array, err := Read(bytes.NewReader(stream))
	assert.NoError(err)
	assert.Equal([]int{4}, array.Shape)

	labels, err := array.Int64s()
	assert.NoError(err)
	assert.Equal([]int64{0, 1, 2, -1}, labels)
}

func TestReadScalarShape(t *testing.T) {
	assert := assert.New(t)

	stream := npyBytes("<i8", "()", make([]byte, 8))
	array, err := Read(bytes.NewReader(stream))
	assert.NoError(err)
	assert.Empty(array.Shape)
	assert.Equal(1, array.Len())
}

func TestReadRejects(t *testing.T) {
	assert := assert.New(t)

	_, err := Read(strings.NewReader("not an array at all"))
	assert.ErrorIs(err, ErrFormat)

	bad := npyBytes("<f4", "(1,)", floatData(1))
	bad[6] = 9 // unsupported version
	_, err = Read(bytes.NewReader(bad))
	assert.ErrorIs(err, ErrFormat)

	_, err = Read(bytes.NewReader(npyBytes("<c8", "(1,)", make([]byte, 8))))
	assert.ErrorIs(err, ErrDescr)

	fortran := npyBytes("<f4", "(1,)", floatData(1))
	fortran = bytes.Replace(fortran, []byte("False"), []byte("True "), 1)
	_, err = Read(bytes.NewReader(fortran))
	assert.ErrorIs(err, ErrFortranOrder)

	// Truncated data.
	short := npyBytes("<f4", "(2, 2)", floatData(1, 2))
	_, err = Read(bytes.NewReader(short))
	assert.Error(err)
}

func writeNpz(t *testing.T, path string, members map[string][]byte) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	zw := zip.NewWriter(file)
	for name, data := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadArchive(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "layers.npz")
	writeNpz(t, path, map[string][]byte{
		"a1_softmax_1.npy": npyBytes("<f4", "(3, 2)", floatData(1, 2, 3, 4, 5, 6)),
		"a0_relu_0.npy":    npyBytes("<f4", "(2, 3)", floatData(1, 2, 3, 4, 5, 6)),
	})

	ar, err := LoadArchive(path)
	assert.NoError(err)
	assert.Len(ar.Entries, 2)
	// Sorted by name, .npy suffix stripped.
	assert.Equal("a0_relu_0", ar.Entries[0].Name)
	assert.Equal("a1_softmax_1", ar.Entries[1].Name)
	assert.NotNil(ar.Lookup("a1_softmax_1"))
	assert.Nil(ar.Lookup("missing"))

	layers, err := Layers(ar)
	assert.NoError(err)
	assert.Equal(2, layers[0].In)
	assert.Equal(3, layers[0].Out)
	assert.Equal([]float32{1, 2, 3, 4, 5, 6}, layers[0].Weights)
}

func TestLoadArchiveMissing(t *testing.T) {
	assert := assert.New(t)

	_, err := LoadArchive(filepath.Join(t.TempDir(), "absent.npz"))
	assert.Error(err)
}

func TestLayersRejectsVectors(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "layers.npz")
	writeNpz(t, path, map[string][]byte{
		"a0_relu_0.npy": npyBytes("<f4", "(6,)", floatData(1, 2, 3, 4, 5, 6)),
	})

	ar, err := LoadArchive(path)
	assert.NoError(err)
	_, err = Layers(ar)
	assert.ErrorIs(err, ErrLayerShape)
}

func TestDataset(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "dataset.npz")
	writeNpz(t, path, map[string][]byte{
		"x.npy": npyBytes("<f4", "(2, 3)", floatData(1, 2, 3, 4, 5, 6)),
		"y.npy": npyBytes("|i1", "(2,)", []byte{1, 0}),
	})

	ar, err := LoadArchive(path)
	assert.NoError(err)

	inputs, labels, err := Dataset(ar)
	assert.NoError(err)
	assert.Equal([][]float32{{1, 2, 3}, {4, 5, 6}}, inputs)
	assert.Equal([]int64{1, 0}, labels)
}

func TestDatasetMissingLabels(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "dataset.npz")
	writeNpz(t, path, map[string][]byte{
		"x.npy": npyBytes("<f4", "(2, 3)", floatData(1, 2, 3, 4, 5, 6)),
	})

	ar, err := LoadArchive(path)
	assert.NoError(err)
	_, _, err = Dataset(ar)
	assert.ErrorIs(err, ErrDataset)
}
