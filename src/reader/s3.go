package reader

import (
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3API is the slice of the S3 client the source needs.
type S3API interface {
	GetObject(*s3.GetObjectInput) (*s3.GetObjectOutput, error)
}

type S3Options struct {
	MaxRequests int
	MaxBytes    int64
}

// S3Source reads an S3 object through ranged GetObject calls, with the same
// size-learning and cap accounting as the HTTP backend.
type S3Source struct {
	api    S3API
	bucket string
	key    string

	pos  int64
	size int64 // -1 until learned

	requests    int
	bytesRead   int64
	maxRequests int
	maxBytes    int64
}

func NewS3(api S3API, bucket, key string, opts S3Options) *S3Source {
	maxRequests := opts.MaxRequests
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &S3Source{
		api:         api,
		bucket:      bucket,
		key:         key,
		size:        -1,
		maxRequests: maxRequests,
		maxBytes:    maxBytes,
	}
}

func (s *S3Source) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.size >= 0 && s.pos >= s.size {
		return 0, io.EOF
	}
	if s.requests+1 > s.maxRequests {
		return 0, &CapExceededError{Cap: "s3 requests", Limit: int64(s.maxRequests)}
	}
	s.requests++

	out, err := s.api.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", s.pos, s.pos+int64(len(p))-1)),
	})
	if err != nil {
		return 0, s.classify(err)
	}
	defer out.Body.Close()

	if s.size < 0 {
		if out.ContentRange != nil {
			if total, ok := parseContentRange(*out.ContentRange); ok {
				s.size = total
			}
		} else if out.ContentLength != nil {
			s.size = *out.ContentLength
		}
	}

	body, err := io.ReadAll(io.LimitReader(out.Body, int64(len(p))))
	if err != nil {
		return 0, fmt.Errorf("read s3://%s/%s: %w", s.bucket, s.key, err)
	}
	s.bytesRead += int64(len(body))
	if s.bytesRead > s.maxBytes {
		return 0, &CapExceededError{Cap: "s3 bytes", Limit: s.maxBytes}
	}
	if len(body) == 0 {
		return 0, io.EOF
	}

	n := copy(p, body)
	s.pos += int64(n)
	return n, nil
}

func (s *S3Source) classify(err error) error {
	if rf, ok := err.(awserr.RequestFailure); ok {
		switch {
		case rf.StatusCode() == 416:
			return io.EOF
		case rf.StatusCode() >= 500:
			return &HTTPError{StatusCode: rf.StatusCode(), Retriable: true}
		case rf.StatusCode() >= 400:
			return &HTTPError{StatusCode: rf.StatusCode(), Retriable: false}
		}
	}
	return fmt.Errorf("get s3://%s/%s: %w", s.bucket, s.key, err)
}

func (s *S3Source) Seek(offset int64) error {
	if offset < 0 || (s.size >= 0 && offset > s.size) {
		return fmt.Errorf("seek to %d: %w", offset, ErrOutOfBounds)
	}
	s.pos = offset
	return nil
}

func (s *S3Source) Pos() int64 {
	return s.pos
}

func (s *S3Source) Size() int64 {
	if s.size < 0 {
		buf := make([]byte, 1)
		pos := s.pos
		s.pos = 0
		_, _ = s.Read(buf)
		s.pos = pos
	}
	if s.size < 0 {
		return 0
	}
	return s.size
}

func (s *S3Source) Close() error {
	return nil
}
