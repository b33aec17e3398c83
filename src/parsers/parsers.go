package parsers

import (
	"sort"
	"sync"

	"github.com/mediaprobe/MediaProbe/src/parsers/aiff"
	"github.com/mediaprobe/MediaProbe/src/parsers/bmp"
	"github.com/mediaprobe/MediaProbe/src/parsers/flac"
	"github.com/mediaprobe/MediaProbe/src/parsers/gif"
	"github.com/mediaprobe/MediaProbe/src/parsers/jpeg"
	"github.com/mediaprobe/MediaProbe/src/parsers/mp3"
	"github.com/mediaprobe/MediaProbe/src/parsers/ogg"
	"github.com/mediaprobe/MediaProbe/src/parsers/pdf"
	"github.com/mediaprobe/MediaProbe/src/parsers/png"
	"github.com/mediaprobe/MediaProbe/src/parsers/psd"
	"github.com/mediaprobe/MediaProbe/src/parsers/tiff"
	"github.com/mediaprobe/MediaProbe/src/parsers/wav"
	"github.com/mediaprobe/MediaProbe/src/parsers/zip"
	"github.com/mediaprobe/MediaProbe/src/probe"
)

type entry struct {
	parser   probe.Parser
	natures  []probe.Nature
	formats  []string
	priority int
	seq      int
}

// Registry is the table of registered parsers. It is populated once by
// Setup and read-only afterwards, so concurrent parses share it freely.
type Registry struct {
	entries []entry
}

// Register adds a parser keyed by its natures and format tags. Lower
// priority values are tried earlier; ties keep registration order.
func (r *Registry) Register(p probe.Parser, natures []probe.Nature, formats []string, priority int) {
	r.entries = append(r.entries, entry{
		parser:   p,
		natures:  natures,
		formats:  formats,
		priority: priority,
		seq:      len(r.entries),
	})
}

func (e entry) matchesNature(natures []probe.Nature) bool {
	if len(natures) == 0 {
		return true
	}
	for _, want := range natures {
		for _, have := range e.natures {
			if want == have {
				return true
			}
		}
	}
	return false
}

func (e entry) matchesFormat(formats []string) bool {
	if len(formats) == 0 {
		return true
	}
	for _, want := range formats {
		for _, have := range e.formats {
			if want == have {
				return true
			}
		}
	}
	return false
}

// candidates filters by the requested natures/formats and orders the rest:
// filename-hinted parsers first, then by priority, then registration order.
// The hint is a heuristic only; unhinted parsers still run after.
func (r *Registry) candidates(name string, opts Options) []entry {
	out := make([]entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.matchesNature(opts.Natures) && e.matchesFormat(opts.Formats) {
			out = append(out, e)
		}
	}

	band := func(e entry) int {
		if name != "" && e.parser.LikelyMatch(name) {
			return 0
		}
		return 1
	}
	sort.Slice(out, func(i, j int) bool {
		bi, bj := band(out[i]), band(out[j])
		if bi != bj {
			return bi < bj
		}
		if out[i].priority != out[j].priority {
			return out[i].priority < out[j].priority
		}
		return out[i].seq < out[j].seq
	})
	return out
}

var (
	defaultRegistry Registry
	setupOnce       sync.Once
)

// Setup populates the process-wide registry. The list is explicit so the
// set of parsers and their order is visible in one place rather than spread
// across package init side effects.
func Setup() {
	setupOnce.Do(func() {
		r := &defaultRegistry

		r.Register(jpeg.Parser{}, []probe.Nature{probe.Image}, []string{"jpg", "jpeg"}, 0)
		r.Register(png.Parser{}, []probe.Nature{probe.Image}, []string{"png"}, 1)
		r.Register(gif.Parser{}, []probe.Nature{probe.Image}, []string{"gif"}, 2)
		r.Register(tiff.Parser{}, []probe.Nature{probe.Image}, []string{"tiff", "tif"}, 3)
		r.Register(bmp.Parser{}, []probe.Nature{probe.Image}, []string{"bmp"}, 4)
		r.Register(psd.Parser{}, []probe.Nature{probe.Image}, []string{"psd"}, 5)

		r.Register(mp3.Parser{}, []probe.Nature{probe.Audio}, []string{"mp3"}, 1)
		r.Register(ogg.Parser{}, []probe.Nature{probe.Audio}, []string{"ogg"}, 2)
		r.Register(flac.Parser{}, []probe.Nature{probe.Audio}, []string{"flac"}, 3)
		r.Register(wav.Parser{}, []probe.Nature{probe.Audio}, []string{"wav"}, 4)
		r.Register(aiff.Parser{}, []probe.Nature{probe.Audio}, []string{"aiff", "aif"}, 5)

		r.Register(pdf.Parser{}, []probe.Nature{probe.Document}, []string{"pdf"}, 1)
		r.Register(zip.Parser{}, []probe.Nature{probe.Document}, []string{"zip", "docx", "xlsx", "pptx"}, 2)
	})
}

// Default returns the process-wide registry, populating it on first use.
func Default() *Registry {
	Setup()
	return &defaultRegistry
}
