package png

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

func buildPNG(width, height uint32, colorType byte, extra []byte) []byte {
	out := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth
	ihdr[9] = colorType

	out = append(out, 0x00, 0x00, 0x00, 0x0D)
	out = append(out, 'I', 'H', 'D', 'R')
	out = append(out, ihdr...)
	out = append(out, 0xDE, 0xAD, 0xBE, 0xEF) // CRC, not validated
	out = append(out, extra...)
	return out
}

func actlChunk(numFrames, loopCount uint32) []byte {
	chunk := make([]byte, 8+8+4)
	binary.BigEndian.PutUint32(chunk[0:4], 8)
	copy(chunk[4:8], "acTL")
	binary.BigEndian.PutUint32(chunk[8:12], numFrames)
	binary.BigEndian.PutUint32(chunk[12:16], loopCount)
	return chunk
}

func TestParseRGBA(t *testing.T) {
	res, err := Parser{}.Parse(reader.NewBytes(buildPNG(180, 180, 6, nil)))
	require.NoError(t, err)
	require.NotNil(t, res)

	img := res.(*probe.ImageResult)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 180, img.WidthPx)
	assert.Equal(t, 180, img.HeightPx)
	assert.Equal(t, probe.RGBA, img.ColorMode)
	assert.True(t, img.HasTransparency)
	assert.False(t, img.HasMultipleFrames)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, probe.Image, img.Nature())
}

func TestParseColorModes(t *testing.T) {
	for _, tt := range []struct {
		colorType byte
		mode      probe.ColorMode
		alpha     bool
	}{
		{0, probe.Grayscale, true},
		{2, probe.RGB, false},
		{3, probe.Indexed, false},
		{4, probe.Grayscale, true},
		{6, probe.RGBA, true},
	} {
		res, err := Parser{}.Parse(reader.NewBytes(buildPNG(10, 10, tt.colorType, nil)))
		require.NoError(t, err)
		require.NotNil(t, res, "color type %d", tt.colorType)

		img := res.(*probe.ImageResult)
		assert.Equal(t, tt.mode, img.ColorMode, "color type %d", tt.colorType)
		assert.Equal(t, tt.alpha, img.HasTransparency, "color type %d", tt.colorType)
	}
}

func TestParseUnknownColorType(t *testing.T) {
	res, err := Parser{}.Parse(reader.NewBytes(buildPNG(10, 10, 7, nil)))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestParseAnimated(t *testing.T) {
	res, err := Parser{}.Parse(reader.NewBytes(buildPNG(180, 180, 6, actlChunk(12, 0))))
	require.NoError(t, err)
	require.NotNil(t, res)

	img := res.(*probe.ImageResult)
	assert.True(t, img.HasMultipleFrames)
	assert.Equal(t, 12, img.NumFrames)
}

func TestParseNonActlSecondChunk(t *testing.T) {
	idat := []byte{0x00, 0x00, 0x00, 0x00, 'I', 'D', 'A', 'T'}
	res, err := Parser{}.Parse(reader.NewBytes(buildPNG(180, 180, 6, idat)))
	require.NoError(t, err)
	require.NotNil(t, res)

	img := res.(*probe.ImageResult)
	assert.False(t, img.HasMultipleFrames)
	assert.Zero(t, img.NumFrames)
}

func TestParseWrongSignature(t *testing.T) {
	res, err := Parser{}.Parse(reader.NewBytes([]byte("GIF89a..whatever")))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestParseFirstChunkNotIHDR(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	data = append(data, 0x00, 0x00, 0x00, 0x0D)
	data = append(data, 'p', 'H', 'Y', 's')
	data = append(data, make([]byte, 13)...)

	res, err := Parser{}.Parse(reader.NewBytes(data))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestParseTruncated(t *testing.T) {
	_, err := Parser{}.Parse(reader.NewBytes([]byte{0x89, 'P', 'N'}))
	assert.Error(t, err)
}

func TestLikelyMatch(t *testing.T) {
	assert.True(t, Parser{}.LikelyMatch("photo.png"))
	assert.True(t, Parser{}.LikelyMatch("anim.APNG"))
	assert.False(t, Parser{}.LikelyMatch("photo.jpg"))
}
