package parsers

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"path/filepath"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

// Options control a single parse.
type Options struct {
	// All collects a result from every matching parser instead of stopping
	// at the first.
	All bool
	// Natures/Formats restrict the candidate parsers. Empty means no
	// restriction.
	Natures []probe.Nature
	Formats []string
	// Headers are passed through on HTTP parses and ignored for local ones.
	Headers map[string]string
	// MaxRequests/MaxBytes override the remote resource caps (0 keeps the
	// defaults). They have no effect on local parses.
	MaxRequests int
	MaxBytes    int64
	// Client overrides the HTTP client (timeouts, redirect policy).
	Client *http.Client
}

// ParseFile identifies the file at path. In first-match mode (the default)
// the returned slice has at most one element.
func ParseFile(path string, opts Options) ([]probe.Result, error) {
	return Default().ParseFile(path, opts)
}

// ParseHTTP identifies the object behind an http(s) URL using ranged
// requests; see the reader package for the cap semantics.
func ParseHTTP(url string, opts Options) ([]probe.Result, error) {
	return Default().ParseHTTP(url, opts)
}

func (r *Registry) ParseFile(p string, opts Options) ([]probe.Result, error) {
	src, err := reader.OpenFile(p)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return r.ParseSource(src, filepath.Base(p), opts)
}

func (r *Registry) ParseHTTP(rawurl string, opts Options) ([]probe.Result, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, fmt.Errorf("bad url %s: %w", rawurl, err)
	}

	src := reader.NewHTTP(rawurl, reader.HTTPOptions{
		Headers:     opts.Headers,
		MaxRequests: opts.MaxRequests,
		MaxBytes:    opts.MaxBytes,
		Client:      opts.Client,
	})
	defer src.Close()

	return r.ParseSource(src, path.Base(u.Path), opts)
}

// ParseSource runs the dispatch loop over an already open source. Every
// candidate parser sees a fresh view positioned at offset 0. Parser-local
// failures (short reads, structure mismatches) select the next candidate;
// infrastructure failures abort the whole parse.
func (r *Registry) ParseSource(src reader.Source, name string, opts Options) ([]probe.Result, error) {
	var results []probe.Result

	for _, e := range r.candidates(name, opts) {
		view, err := reader.Constrain(src)
		if err != nil {
			if reader.IsFatal(err) {
				return nil, err
			}
			continue
		}

		res, err := e.parser.Parse(view)
		if err != nil {
			if reader.IsFatal(err) {
				return nil, err
			}
			continue
		}
		if res == nil {
			continue
		}

		results = append(results, res)
		if !opts.All {
			break
		}
	}

	return results, nil
}
