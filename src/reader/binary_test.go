package reader

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFull(t *testing.T) {
	src := NewBytes([]byte{1, 2, 3, 4})

	b, err := ReadFull(src, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
	assert.Equal(t, int64(3), src.Pos())

	_, err = ReadFull(src, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestReadFullEmpty(t *testing.T) {
	src := NewBytes(nil)

	_, err := ReadFull(src, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestSkip(t *testing.T) {
	src := NewBytes(make([]byte, 10))

	require.NoError(t, Skip(src, 6))
	assert.Equal(t, int64(6), src.Pos())

	err := Skip(src, 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutOfBounds))
	assert.Equal(t, int64(6), src.Pos())
}

func TestIntegerReaders(t *testing.T) {
	src := NewBytes([]byte{0x12, 0x34, 0x56, 0x78})
	v16, err := ReadU16BE(src)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), v16)

	require.NoError(t, src.Seek(0))
	v16, err = ReadU16LE(src)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x3412), v16)

	require.NoError(t, src.Seek(0))
	v32, err := ReadU32BE(src)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), v32)

	require.NoError(t, src.Seek(0))
	v32, err = ReadU32LE(src)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x78563412), v32)
}

func TestReadInto(t *testing.T) {
	src := NewBytes([]byte{0x01, 0x00, 0x02, 0x00, 0x00, 0x00})

	var hdr struct {
		A uint16
		B uint32
	}
	require.NoError(t, ReadInto(src, binary.LittleEndian, &hdr))
	assert.Equal(t, uint16(1), hdr.A)
	assert.Equal(t, uint32(2), hdr.B)

	err := ReadInto(src, binary.LittleEndian, &hdr)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestBytesSourceBounds(t *testing.T) {
	src := NewBytes([]byte{1, 2, 3})

	assert.Equal(t, int64(3), src.Size())
	require.NoError(t, src.Seek(3))
	assert.Error(t, src.Seek(4))
	assert.Error(t, src.Seek(-1))
	assert.Equal(t, int64(3), src.Pos())
}
