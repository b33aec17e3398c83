package reader

import "io"

// Source is a random-access byte stream of known size. Offsets are absolute
// and zero-based; Read advances the position by the number of bytes
// delivered. A Source is created per parse and is not safe for concurrent
// use.
type Source interface {
	io.Reader
	io.Closer

	// Seek moves the position to an absolute offset from the start.
	Seek(offset int64) error
	// Pos reports the current position.
	Pos() int64
	// Size reports the total byte length of the underlying object.
	Size() int64
}

// Every backend provides the full contract.
var (
	_ Source = (*FileSource)(nil)
	_ Source = (*HTTPSource)(nil)
	_ Source = (*S3Source)(nil)
	_ Source = (*BytesSource)(nil)
	_ Source = (*Constrained)(nil)
)
