package wav

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
	return ext == ".wav" || ext == ".wave"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	riff, err := reader.ReadFull(src, 12)
	if err != nil {
		return nil, err
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, nil
	}

	var (
		channels   int
		sampleRate int
		byteRate   int
		dataSize   int64
		haveFmt    bool
		haveData   bool
	)

	// RIFF chunk walk; chunk bodies are word-aligned.
	for !(haveFmt && haveData) {
		hdr, err := reader.ReadFull(src, 8)
		if err != nil {
			break
		}
		size := int64(binary.LittleEndian.Uint32(hdr[4:8]))

		switch string(hdr[0:4]) {
		case "fmt ":
			if size < 16 {
				return nil, nil
			}
			fmtChunk, err := reader.ReadFull(src, 16)
			if err != nil {
				return nil, err
			}
			channels = int(binary.LittleEndian.Uint16(fmtChunk[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(fmtChunk[4:8]))
			byteRate = int(binary.LittleEndian.Uint32(fmtChunk[8:12]))
			haveFmt = true
			size -= 16
		case "data":
			// Duration only needs the declared size, not the samples.
			dataSize = size
			haveData = true
		}

		if haveFmt && haveData {
			break
		}
		if err := reader.Skip(src, size+(size&1)); err != nil {
			break
		}
	}

	if !haveFmt || !haveData || channels <= 0 || sampleRate <= 0 || byteRate <= 0 {
		return nil, nil
	}

	duration := float64(dataSize) / float64(byteRate)
	if math.IsInf(duration, 0) || math.IsNaN(duration) || duration <= 0 {
		return nil, nil
	}

	return &probe.AudioResult{
		Format:       "wav",
		SampleRateHz: sampleRate,
		NumChannels:  channels,
		DurationS:    duration,
		ContentType:  "audio/x-wav",
	}, nil
}
