package job

import "github.com/mediaprobe/MediaProbe/src/probe"

// Job is one parse request taken off the job queue.
type Job struct {
	ID string `json:"id"`

	Provider Provider `json:"provider"`

	// Local paths
	Path string `json:"path,omitempty"`

	// HTTP sources
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`

	// AWS sources
	Bucket string `json:"bucket,omitempty"`
	Key    string `json:"key,omitempty"`

	All     bool     `json:"all,omitempty"`
	Natures []string `json:"natures,omitempty"`
	Formats []string `json:"formats,omitempty"`
}

type Provider string

const (
	LocalProvider Provider = "local"
	HTTPProvider  Provider = "http"
	AwsProvider   Provider = "aws"
)

// Result is published to the result queue for every processed job.
type Result struct {
	JobID     string         `json:"job_id"`
	Success   bool           `json:"success"`
	Ambiguous bool           `json:"ambiguous,omitempty"`
	Results   []probe.Result `json:"results"`
	Error     string         `json:"error,omitempty"`
}
