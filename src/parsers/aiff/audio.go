package aiff

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"strings"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

type Parser struct{}

func (Parser) LikelyMatch(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".aiff" || ext == ".aif" || ext == ".aifc"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	form, err := reader.ReadFull(src, 12)
	if err != nil {
		return nil, err
	}
	if string(form[0:4]) != "FORM" {
		return nil, nil
	}
	kind := string(form[8:12])
	if kind != "AIFF" && kind != "AIFC" {
		return nil, nil
	}

	// IFF chunk walk until COMM shows up.
	for {
		hdr, err := reader.ReadFull(src, 8)
		if err != nil {
			return nil, nil
		}
		size := int64(binary.BigEndian.Uint32(hdr[4:8]))

		if string(hdr[0:4]) != "COMM" {
			if err := reader.Skip(src, size+(size&1)); err != nil {
				return nil, nil
			}
			continue
		}

		if size < 18 {
			return nil, nil
		}
		comm, err := reader.ReadFull(src, 18)
		if err != nil {
			return nil, err
		}

		channels := int(binary.BigEndian.Uint16(comm[0:2]))
		numFrames := binary.BigEndian.Uint32(comm[2:6])
		sampleRate := extendedFloat(comm[8:18])

		if channels <= 0 || sampleRate <= 0 || math.IsInf(sampleRate, 0) || math.IsNaN(sampleRate) {
			return nil, nil
		}
		duration := float64(numFrames) / sampleRate
		if math.IsInf(duration, 0) || math.IsNaN(duration) || duration <= 0 {
			return nil, nil
		}

		return &probe.AudioResult{
			Format:       "aiff",
			SampleRateHz: int(sampleRate),
			NumChannels:  channels,
			DurationS:    duration,
			ContentType:  "audio/x-aiff",
		}, nil
	}
}

// extendedFloat decodes the 80-bit IEEE 754 extended-precision sample rate
// used by the COMM chunk.
func extendedFloat(b []byte) float64 {
	sign := 1.0
	if b[0]&0x80 != 0 {
		sign = -1.0
	}
	exponent := int(binary.BigEndian.Uint16(b[0:2]) & 0x7FFF)
	mantissa := binary.BigEndian.Uint64(b[2:10])

	if exponent == 0 && mantissa == 0 {
		return 0
	}
	if exponent == 0x7FFF {
		return math.Inf(int(sign))
	}

	return sign * float64(mantissa) * math.Pow(2, float64(exponent-16383-63))
}
