package png

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

// PNG Magic Numbers
// https://www.garykessler.net/library/file_sigs.html
var signature = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

type Parser struct{}

func (Parser) LikelyMatch(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".png" || ext == ".apng"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	sig, err := reader.ReadFull(src, 8)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(sig, signature) {
		return nil, nil
	}

	// IHDR must be the first chunk and is always 13 bytes.
	length, err := reader.ReadU32BE(src)
	if err != nil {
		return nil, err
	}
	ctype, err := reader.ReadFull(src, 4)
	if err != nil {
		return nil, err
	}
	if string(ctype) != "IHDR" || length != 13 {
		return nil, nil
	}

	ihdr, err := reader.ReadFull(src, 13)
	if err != nil {
		return nil, err
	}
	width := binary.BigEndian.Uint32(ihdr[0:4])
	height := binary.BigEndian.Uint32(ihdr[4:8])
	bitDepth := ihdr[8]
	colorType := ihdr[9]
	interlace := ihdr[12]

	if width == 0 || height == 0 {
		return nil, nil
	}

	var mode probe.ColorMode
	var alpha bool
	switch colorType {
	case 0:
		mode, alpha = probe.Grayscale, true
	case 2:
		mode, alpha = probe.RGB, false
	case 3:
		mode, alpha = probe.Indexed, false
	case 4:
		mode, alpha = probe.Grayscale, true
	case 6:
		mode, alpha = probe.RGBA, true
	default:
		return nil, nil
	}

	res := &probe.ImageResult{
		Format:          "png",
		WidthPx:         int(width),
		HeightPx:        int(height),
		ColorMode:       mode,
		HasTransparency: alpha,
		ContentType:     "image/png",
		Intrinsics: map[string]interface{}{
			"bit_depth":  int(bitDepth),
			"interlaced": interlace == 1,
		},
	}

	// An acTL chunk directly after IHDR marks an APNG. Anything else (or a
	// truncated file) leaves the animation fields unset.
	if err := reader.Skip(src, 4); err != nil {
		return res, nil
	}
	hdr, err := reader.ReadFull(src, 8)
	if err != nil {
		return res, nil
	}
	if string(hdr[4:8]) == "acTL" && binary.BigEndian.Uint32(hdr[0:4]) == 8 {
		actl, err := reader.ReadFull(src, 8)
		if err != nil {
			return res, nil
		}
		res.HasMultipleFrames = true
		res.NumFrames = int(binary.BigEndian.Uint32(actl[0:4]))
	}

	return res, nil
}
