package mp3

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

// 0xFFFB9000: MPEG1 Layer III, 128 kbps, 44100 Hz, stereo.
var cbrHeader = []byte{0xFF, 0xFB, 0x90, 0x00}

func id3Header(size int64) []byte {
	hdr := []byte{'I', 'D', '3', 3, 0, 0}
	hdr = append(hdr,
		byte(size>>21&0x7F), byte(size>>14&0x7F), byte(size>>7&0x7F), byte(size&0x7F))
	return hdr
}

func TestParseCBR(t *testing.T) {
	data := append([]byte{}, cbrHeader...)
	data = append(data, make([]byte, 159996)...) // 160000 bytes of audio

	res, err := Parser{}.Parse(reader.NewBytes(data))
	require.NoError(t, err)
	require.NotNil(t, res)

	audio := res.(*probe.AudioResult)
	assert.Equal(t, "mp3", audio.Format)
	assert.Equal(t, 44100, audio.SampleRateHz)
	assert.Equal(t, 2, audio.NumChannels)
	// 160000 bytes * 8 / 128000 bps
	assert.InDelta(t, 10.0, audio.DurationS, 0.000001)
	assert.Equal(t, "audio/mpeg", audio.ContentType)
	assert.Equal(t, false, audio.Intrinsics["vbr"])
}

func TestParseWithID3(t *testing.T) {
	tagBody := make([]byte, 500)
	data := id3Header(500)
	data = append(data, tagBody...)
	data = append(data, cbrHeader...)
	data = append(data, make([]byte, 31996)...) // 32000 audio bytes

	res, err := Parser{}.Parse(reader.NewBytes(data))
	require.NoError(t, err)
	require.NotNil(t, res)

	audio := res.(*probe.AudioResult)
	assert.InDelta(t, 2.0, audio.DurationS, 0.000001)
}

func TestParseXing(t *testing.T) {
	frame := append([]byte{}, cbrHeader...)
	frame = append(frame, make([]byte, 32)...) // MPEG1 stereo side info
	frame = append(frame, 'X', 'i', 'n', 'g')

	flags := make([]byte, 4)
	binary.BigEndian.PutUint32(flags, 0x1)
	frame = append(frame, flags...)

	frames := make([]byte, 4)
	binary.BigEndian.PutUint32(frames, 10000)
	frame = append(frame, frames...)
	frame = append(frame, make([]byte, 2048)...)

	res, err := Parser{}.Parse(reader.NewBytes(frame))
	require.NoError(t, err)
	require.NotNil(t, res)

	audio := res.(*probe.AudioResult)
	// 10000 frames * 1152 samples / 44100 Hz
	assert.InDelta(t, 261.224489, audio.DurationS, 0.000001)
	assert.Equal(t, true, audio.Intrinsics["vbr"])
}

func TestParseMono(t *testing.T) {
	hdr := append([]byte{}, cbrHeader...)
	hdr[3] = 0xC0 // mono channel mode
	data := append(hdr, make([]byte, 16000)...)

	res, err := Parser{}.Parse(reader.NewBytes(data))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.(*probe.AudioResult).NumChannels)
}

func TestParseNotMP3(t *testing.T) {
	res, err := Parser{}.Parse(reader.NewBytes([]byte("OggS and then more bytes")))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestParseID3WithoutFrames(t *testing.T) {
	data := id3Header(100)
	data = append(data, make([]byte, 200)...)

	res, err := Parser{}.Parse(reader.NewBytes(data))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestSyncsafe(t *testing.T) {
	assert.Equal(t, int64(500), syncsafe([]byte{0x00, 0x00, 0x03, 0x74}))
	assert.Equal(t, int64(0x0FFFFFFF), syncsafe([]byte{0x7F, 0x7F, 0x7F, 0x7F}))
}

func TestLikelyMatch(t *testing.T) {
	assert.True(t, Parser{}.LikelyMatch("song.mp3"))
	assert.False(t, Parser{}.LikelyMatch("song.flac"))
}
