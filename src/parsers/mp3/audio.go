package mp3

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"strings"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

// How far past the ID3 tag to look for the first frame sync.
const syncWindow = 16 << 10

// MPEG1 Layer III bitrates in kbps, indexed by the header's bitrate field.
var bitratesV1 = [16]int{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0}

// MPEG2/2.5 Layer III bitrates.
var bitratesV2 = [16]int{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, 0}

var sampleRatesV1 = [4]int{44100, 48000, 32000, 0}

type frameHeader struct {
	mpeg1      bool
	bitrate    int // bps
	sampleRate int
	channels   int
	mono       bool
}

type Parser struct{}

func (Parser) LikelyMatch(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".mp3"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	intro, err := reader.ReadFull(src, 4)
	if err != nil {
		return nil, err
	}

	var tagSize int64
	if string(intro[0:3]) == "ID3" {
		id3, err := reader.ReadFull(src, 6)
		if err != nil {
			return nil, err
		}
		tagSize = 10 + syncsafe(id3[2:6])
		if id3[1]&0x10 != 0 {
			tagSize += 10 // footer
		}
	} else if intro[0] != 0xFF || intro[1]&0xE0 != 0xE0 {
		return nil, nil
	}

	if err := src.Seek(tagSize); err != nil {
		return nil, err
	}

	window := src.Size() - tagSize
	if window > syncWindow {
		window = syncWindow
	}
	if window < 4 {
		return nil, nil
	}
	buf, err := reader.ReadFull(src, int(window))
	if err != nil {
		return nil, err
	}

	frameOffset, hdr := findFrame(buf)
	if hdr == nil {
		return nil, nil
	}

	duration, vbr := vbrDuration(buf[frameOffset:], hdr)
	if !vbr {
		duration = cbrDuration(src.Size()-tagSize, hdr)
	}
	if math.IsInf(duration, 0) || math.IsNaN(duration) || duration <= 0 {
		return nil, nil
	}

	return &probe.AudioResult{
		Format:       "mp3",
		SampleRateHz: hdr.sampleRate,
		NumChannels:  hdr.channels,
		DurationS:    duration,
		ContentType:  "audio/mpeg",
		Intrinsics: map[string]interface{}{
			"bitrate_bps": hdr.bitrate,
			"vbr":         vbr,
		},
	}, nil
}

// findFrame scans for the first offset whose four bytes decode as a valid
// Layer III frame header.
func findFrame(buf []byte) (int, *frameHeader) {
	for i := 0; i+4 <= len(buf); i++ {
		if buf[i] != 0xFF || buf[i+1]&0xE0 != 0xE0 {
			continue
		}
		if hdr := decodeHeader(binary.BigEndian.Uint32(buf[i : i+4])); hdr != nil {
			return i, hdr
		}
	}
	return 0, nil
}

func decodeHeader(h uint32) *frameHeader {
	version := (h >> 19) & 0x3
	layer := (h >> 17) & 0x3
	if version == 1 || layer != 1 { // reserved version, or not Layer III
		return nil
	}
	mpeg1 := version == 3

	bitrateIdx := (h >> 12) & 0xF
	if bitrateIdx == 0 || bitrateIdx == 15 {
		return nil
	}
	var bitrate int
	if mpeg1 {
		bitrate = bitratesV1[bitrateIdx] * 1000
	} else {
		bitrate = bitratesV2[bitrateIdx] * 1000
	}

	rateIdx := (h >> 10) & 0x3
	sampleRate := sampleRatesV1[rateIdx]
	if sampleRate == 0 {
		return nil
	}
	switch version {
	case 2: // MPEG2
		sampleRate /= 2
	case 0: // MPEG2.5
		sampleRate /= 4
	}

	mono := (h>>6)&0x3 == 3
	channels := 2
	if mono {
		channels = 1
	}

	return &frameHeader{
		mpeg1:      mpeg1,
		bitrate:    bitrate,
		sampleRate: sampleRate,
		channels:   channels,
		mono:       mono,
	}
}

// vbrDuration reads the Xing/Info (or VBRI) frame-count header inside the
// first frame, when present.
func vbrDuration(frame []byte, hdr *frameHeader) (float64, bool) {
	// Side info separates the frame header from the Xing block.
	sideInfo := 32
	if hdr.mpeg1 && hdr.mono {
		sideInfo = 17
	} else if !hdr.mpeg1 {
		sideInfo = 17
		if hdr.mono {
			sideInfo = 9
		}
	}

	off := 4 + sideInfo
	if off+12 <= len(frame) {
		tag := string(frame[off : off+4])
		if tag == "Xing" || tag == "Info" {
			flags := binary.BigEndian.Uint32(frame[off+4 : off+8])
			if flags&0x1 != 0 {
				frames := binary.BigEndian.Uint32(frame[off+8 : off+12])
				return framesDuration(frames, hdr), true
			}
		}
	}

	// VBRI sits at a fixed 32-byte offset regardless of side info.
	if 4+32+18 <= len(frame) && string(frame[36:40]) == "VBRI" {
		frames := binary.BigEndian.Uint32(frame[50:54])
		return framesDuration(frames, hdr), true
	}

	return 0, false
}

func framesDuration(frames uint32, hdr *frameHeader) float64 {
	samplesPerFrame := 1152.0
	if !hdr.mpeg1 {
		samplesPerFrame = 576.0
	}
	return float64(frames) * samplesPerFrame / float64(hdr.sampleRate)
}

func cbrDuration(audioBytes int64, hdr *frameHeader) float64 {
	if hdr.bitrate == 0 {
		return 0
	}
	return float64(audioBytes*8) / float64(hdr.bitrate)
}

// syncsafe decodes the 28-bit big-endian size used by ID3v2 headers.
func syncsafe(b []byte) int64 {
	return int64(b[0]&0x7F)<<21 | int64(b[1]&0x7F)<<14 | int64(b[2]&0x7F)<<7 | int64(b[3]&0x7F)
}
