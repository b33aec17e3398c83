package reader

import "fmt"

// Constrained is the per-parser view of a shared Source. Each candidate
// parser gets a fresh one positioned at offset 0, so no parser observes the
// seeks of a previous one. Closing it never closes the shared source, and
// seeks outside [0, size] surface as typed errors rather than being passed
// through to a backend request.
type Constrained struct {
	src Source
}

func Constrain(src Source) (*Constrained, error) {
	if err := src.Seek(0); err != nil {
		return nil, err
	}
	return &Constrained{src: src}, nil
}

func (c *Constrained) Read(p []byte) (int, error) {
	return c.src.Read(p)
}

func (c *Constrained) Seek(offset int64) error {
	if offset < 0 || offset > c.src.Size() {
		return fmt.Errorf("seek to %d: %w", offset, ErrOutOfBounds)
	}
	return c.src.Seek(offset)
}

func (c *Constrained) Pos() int64 {
	return c.src.Pos()
}

func (c *Constrained) Size() int64 {
	return c.src.Size()
}

func (c *Constrained) Close() error {
	return nil
}
