package reader

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ReadFull reads exactly n bytes from src. A short read fails with
// ErrInsufficientData so parsers never act on partial headers.
func ReadFull(src Source, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(src, buf)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("wanted %d bytes, got %d: %w", n, read, ErrInsufficientData)
		}
		return nil, err
	}
	return buf, nil
}

// Skip advances the position by n bytes, validating bounds.
func Skip(src Source, n int64) error {
	return src.Seek(src.Pos() + n)
}

// ReadInto unpacks fixed-size binary data from src into v (a pointer to a
// struct of fixed-size fields or an integer), in the given byte order.
func ReadInto(src Source, order binary.ByteOrder, v interface{}) error {
	if err := binary.Read(src, order, v); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return fmt.Errorf("unpack %T: %w", v, ErrInsufficientData)
		}
		return err
	}
	return nil
}

func ReadU8(src Source) (uint8, error) {
	b, err := ReadFull(src, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func ReadU16BE(src Source) (uint16, error) {
	b, err := ReadFull(src, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func ReadU16LE(src Source) (uint16, error) {
	b, err := ReadFull(src, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func ReadU32BE(src Source) (uint32, error) {
	b, err := ReadFull(src, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func ReadU32LE(src Source) (uint32, error) {
	b, err := ReadFull(src, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func ReadU64BE(src Source) (uint64, error) {
	b, err := ReadFull(src, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func ReadU64LE(src Source) (uint64, error) {
	b, err := ReadFull(src, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func ReadI32LE(src Source) (int32, error) {
	v, err := ReadU32LE(src)
	return int32(v), err
}

func ReadI64LE(src Source) (int64, error) {
	v, err := ReadU64LE(src)
	return int64(v), err
}
