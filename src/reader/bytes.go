package reader

import (
	"fmt"
	"io"
)

// BytesSource serves a byte slice already in memory. Mostly useful for
// tests and for callers that sniffed a buffer themselves.
type BytesSource struct {
	data []byte
	pos  int64
}

func NewBytes(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

func (s *BytesSource) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *BytesSource) Seek(offset int64) error {
	if offset < 0 || offset > int64(len(s.data)) {
		return fmt.Errorf("seek to %d: %w", offset, ErrOutOfBounds)
	}
	s.pos = offset
	return nil
}

func (s *BytesSource) Pos() int64 {
	return s.pos
}

func (s *BytesSource) Size() int64 {
	return int64(len(s.data))
}

func (s *BytesSource) Close() error {
	return nil
}
