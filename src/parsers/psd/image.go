package psd

import (
	"encoding/binary"
	"path/filepath"
	"strings"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

type Parser struct{}

func (Parser) LikelyMatch(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".psd" || ext == ".psb"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	hdr, err := reader.ReadFull(src, 26)
	if err != nil {
		return nil, err
	}
	if string(hdr[0:4]) != "8BPS" {
		return nil, nil
	}
	version := binary.BigEndian.Uint16(hdr[4:6])
	if version != 1 && version != 2 {
		return nil, nil
	}

	channels := int(binary.BigEndian.Uint16(hdr[12:14]))
	height := int(binary.BigEndian.Uint32(hdr[14:18]))
	width := int(binary.BigEndian.Uint32(hdr[18:22]))
	depth := int(binary.BigEndian.Uint16(hdr[22:24]))
	colorMode := binary.BigEndian.Uint16(hdr[24:26])

	if width == 0 || height == 0 {
		return nil, nil
	}

	var mode probe.ColorMode
	var alpha bool
	switch colorMode {
	case 0, 1, 8: // bitmap, grayscale, duotone
		mode = probe.Grayscale
	case 2:
		mode = probe.Indexed
	case 3:
		mode = probe.RGB
		if channels >= 4 {
			mode, alpha = probe.RGBA, true
		}
	case 4:
		mode = probe.CMYK
	default:
		return nil, nil
	}

	return &probe.ImageResult{
		Format:          "psd",
		WidthPx:         width,
		HeightPx:        height,
		ColorMode:       mode,
		HasTransparency: alpha,
		ContentType:     "image/vnd.adobe.photoshop",
		Intrinsics: map[string]interface{}{
			"channels":  channels,
			"bit_depth": depth,
		},
	}, nil
}
