package reader

import (
	"fmt"
	"io"
	"os"
)

// FileSource is the local-disk backend. The size is queried once at open;
// reads go through ReadAt so the OS file offset is never shared state.
type FileSource struct {
	f    *os.File
	size int64
	pos  int64
}

func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return &FileSource{f: f, size: stat.Size()}, nil
}

func (s *FileSource) Read(p []byte) (int, error) {
	if s.pos >= s.size {
		return 0, io.EOF
	}

	n, err := s.f.ReadAt(p, s.pos)
	s.pos += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

func (s *FileSource) Seek(offset int64) error {
	if offset < 0 || offset > s.size {
		return fmt.Errorf("seek to %d: %w", offset, ErrOutOfBounds)
	}
	s.pos = offset
	return nil
}

func (s *FileSource) Pos() int64 {
	return s.pos
}

func (s *FileSource) Size() int64 {
	return s.size
}

func (s *FileSource) Close() error {
	return s.f.Close()
}
