package aiff

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

func extended(rate uint64, exp2 int) []byte {
	// Encodes rate itself. exp2 must be floor(log2(rate)) so that the
	// mantissa rate << (63 - exp2) is normalized (top bit set).
	b := make([]byte, 10)
	binary.BigEndian.PutUint16(b[0:2], uint16(16383+exp2))
	binary.BigEndian.PutUint64(b[2:10], rate<<(63-exp2))
	return b
}

func buildAIFF(channels uint16, numFrames uint32, rateBytes []byte) []byte {
	out := []byte("FORM\x00\x00\x00\x00AIFF")

	out = append(out, "COMM"...)
	out = append(out, 0, 0, 0, 18)
	comm := make([]byte, 8)
	binary.BigEndian.PutUint16(comm[0:2], channels)
	binary.BigEndian.PutUint32(comm[2:6], numFrames)
	binary.BigEndian.PutUint16(comm[6:8], 16) // sample size
	out = append(out, comm...)
	out = append(out, rateBytes...)
	return out
}

func TestParse(t *testing.T) {
	// 44100 = 1.345... * 2^15
	res, err := Parser{}.Parse(reader.NewBytes(buildAIFF(2, 441000, extended(44100, 15))))
	require.NoError(t, err)
	require.NotNil(t, res)

	audio := res.(*probe.AudioResult)
	assert.Equal(t, "aiff", audio.Format)
	assert.Equal(t, 44100, audio.SampleRateHz)
	assert.Equal(t, 2, audio.NumChannels)
	assert.InDelta(t, 10.0, audio.DurationS, 0.000001)
	assert.Equal(t, "audio/x-aiff", audio.ContentType)
}

func TestParseSkipsLeadingChunks(t *testing.T) {
	out := []byte("FORM\x00\x00\x00\x00AIFF")
	out = append(out, "NAME"...)
	out = append(out, 0, 0, 0, 4)
	out = append(out, "song"...)
	rest := buildAIFF(1, 8000, extended(8000, 12))
	out = append(out, rest[12:]...)

	res, err := Parser{}.Parse(reader.NewBytes(out))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.InDelta(t, 1.0, res.(*probe.AudioResult).DurationS, 0.000001)
}

func TestParseNotAIFF(t *testing.T) {
	res, err := Parser{}.Parse(reader.NewBytes([]byte("FORMxxxxWAVEdata")))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestExtendedFloat(t *testing.T) {
	assert.InDelta(t, 44100.0, extendedFloat(extended(44100, 15)), 0.0001)
	assert.InDelta(t, 48000.0, extendedFloat(extended(48000, 15)), 0.0001)
	assert.InDelta(t, 8000.0, extendedFloat(extended(8000, 12)), 0.0001)
	assert.Equal(t, 0.0, extendedFloat(make([]byte, 10)))
}
