package reader

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultMaxRequests bounds the number of HTTP GETs a single parse may
	// issue across all candidate parsers.
	DefaultMaxRequests = 10
	// DefaultMaxBytes bounds the total bytes fetched during a single parse.
	DefaultMaxBytes = int64(4 << 20)
)

var defaultClient = &http.Client{Timeout: time.Second * 30}

type HTTPOptions struct {
	Headers     map[string]string
	MaxRequests int
	MaxBytes    int64
	Client      *http.Client
}

// HTTPSource is the remote backend. It fetches byte ranges on demand and
// learns the object size from Content-Range (or Content-Length on servers
// that ignore range requests). Redirects are followed by the client with the
// range header intact.
type HTTPSource struct {
	client  *http.Client
	url     string
	headers map[string]string

	pos  int64
	size int64 // -1 until learned

	requests    int
	bytesRead   int64
	maxRequests int
	maxBytes    int64

	err error // sticky infrastructure failure
}

func NewHTTP(url string, opts HTTPOptions) *HTTPSource {
	client := opts.Client
	if client == nil {
		client = defaultClient
	}
	maxRequests := opts.MaxRequests
	if maxRequests <= 0 {
		maxRequests = DefaultMaxRequests
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &HTTPSource{
		client:      client,
		url:         url,
		headers:     opts.Headers,
		size:        -1,
		maxRequests: maxRequests,
		maxBytes:    maxBytes,
	}
}

func (s *HTTPSource) Read(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if s.size >= 0 && s.pos >= s.size {
		return 0, io.EOF
	}

	body, err := s.fetchRange(s.pos, len(p))
	if err != nil {
		if IsFatal(err) {
			s.err = err
		}
		return 0, err
	}
	if len(body) == 0 {
		return 0, io.EOF
	}

	n := copy(p, body)
	s.pos += int64(n)
	return n, nil
}

// fetchRange issues a single ranged GET. An empty slice with a nil error
// means the server had no bytes for us there (416).
func (s *HTTPSource) fetchRange(offset int64, n int) ([]byte, error) {
	if s.requests+1 > s.maxRequests {
		return nil, &CapExceededError{Cap: "http requests", Limit: int64(s.maxRequests)}
	}
	s.requests++

	req, err := http.NewRequest(http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("bad url %s: %w", s.url, err)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+int64(n)-1))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusPartialContent:
		s.learnSize(resp)
		return s.readBody(resp.Body, n)
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// Server ignored the range; take the body as the requested window.
		s.learnSize(resp)
		return s.readBody(resp.Body, n)
	case resp.StatusCode == http.StatusRequestedRangeNotSatisfiable:
		return nil, nil
	case resp.StatusCode >= 500:
		return nil, &HTTPError{StatusCode: resp.StatusCode, Retriable: true}
	default:
		return nil, &HTTPError{StatusCode: resp.StatusCode, Retriable: false}
	}
}

func (s *HTTPSource) readBody(r io.Reader, n int) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.url, err)
	}

	s.bytesRead += int64(len(body))
	if s.bytesRead > s.maxBytes {
		return nil, &CapExceededError{Cap: "http bytes", Limit: s.maxBytes}
	}
	return body, nil
}

func (s *HTTPSource) learnSize(resp *http.Response) {
	if s.size >= 0 {
		return
	}
	if total, ok := parseContentRange(resp.Header.Get("Content-Range")); ok {
		s.size = total
		return
	}
	if resp.StatusCode == http.StatusOK && resp.ContentLength >= 0 {
		s.size = resp.ContentLength
	}
}

// parseContentRange extracts the total length Z from "bytes X-Y/Z" or
// "X-Y/Z". An unknown total ("*") reports no size.
func parseContentRange(v string) (int64, bool) {
	if v == "" {
		return 0, false
	}
	v = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(v), "bytes"))
	slash := strings.LastIndexByte(v, '/')
	if slash < 0 {
		return 0, false
	}
	total, err := strconv.ParseInt(strings.TrimSpace(v[slash+1:]), 10, 64)
	if err != nil || total < 0 {
		return 0, false
	}
	return total, true
}

func (s *HTTPSource) Seek(offset int64) error {
	if offset < 0 || (s.size >= 0 && offset > s.size) {
		return fmt.Errorf("seek to %d: %w", offset, ErrOutOfBounds)
	}
	s.pos = offset
	return nil
}

func (s *HTTPSource) Pos() int64 {
	return s.pos
}

// Size reports the learned object size, probing with a one-byte range
// request if no response has revealed it yet.
func (s *HTTPSource) Size() int64 {
	if s.size < 0 && s.err == nil {
		if _, err := s.fetchRange(0, 1); err != nil && IsFatal(err) {
			s.err = err
		}
	}
	if s.size < 0 {
		return 0
	}
	return s.size
}

func (s *HTTPSource) Close() error {
	return nil
}
