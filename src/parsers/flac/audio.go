package flac

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"strings"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

const blockStreamInfo = 0

type Parser struct{}

func (Parser) LikelyMatch(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".flac"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	magic, err := reader.ReadFull(src, 4)
	if err != nil {
		return nil, err
	}
	if string(magic) != "fLaC" {
		return nil, nil
	}

	// Metadata block walk; STREAMINFO is mandatory and nearly always first.
	for {
		hdr, err := reader.ReadFull(src, 4)
		if err != nil {
			return nil, err
		}
		last := hdr[0]&0x80 != 0
		blockType := hdr[0] & 0x7F
		length := int64(hdr[1])<<16 | int64(hdr[2])<<8 | int64(hdr[3])

		if blockType != blockStreamInfo {
			if last {
				return nil, nil
			}
			if err := reader.Skip(src, length); err != nil {
				return nil, nil
			}
			continue
		}

		if length < 34 {
			return nil, nil
		}
		info, err := reader.ReadFull(src, 34)
		if err != nil {
			return nil, err
		}

		// Bytes 10..17 pack rate (20 bits), channels-1 (3), bps-1 (5) and
		// total samples (36).
		packed := binary.BigEndian.Uint64(info[10:18])
		sampleRate := int(packed >> 44)
		channels := int((packed>>41)&0x7) + 1
		totalSamples := packed & 0xFFFFFFFFF

		if sampleRate <= 0 || totalSamples == 0 {
			return nil, nil
		}
		duration := float64(totalSamples) / float64(sampleRate)
		if math.IsInf(duration, 0) || math.IsNaN(duration) || duration <= 0 {
			return nil, nil
		}

		return &probe.AudioResult{
			Format:       "flac",
			SampleRateHz: sampleRate,
			NumChannels:  channels,
			DurationS:    duration,
			ContentType:  "audio/flac",
			Intrinsics: map[string]interface{}{
				"bits_per_sample": int((packed>>36)&0x1F) + 1,
			},
		}, nil
	}
}
