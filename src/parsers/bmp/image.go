package bmp

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
	return ext == ".bmp" || ext == ".dib"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	hdr, err := reader.ReadFull(src, 18)
	if err != nil {
		return nil, err
	}
	if hdr[0] != 'B' || hdr[1] != 'M' {
		return nil, nil
	}

	dibSize := binary.LittleEndian.Uint32(hdr[14:18])

	var width, height int
	var bpp uint16
	if dibSize == 12 {
		// BITMAPCOREHEADER: 16-bit dimensions.
		core, err := reader.ReadFull(src, 8)
		if err != nil {
			return nil, err
		}
		width = int(binary.LittleEndian.Uint16(core[0:2]))
		height = int(binary.LittleEndian.Uint16(core[2:4]))
		bpp = binary.LittleEndian.Uint16(core[6:8])
	} else {
		info, err := reader.ReadFull(src, 12)
		if err != nil {
			return nil, err
		}
		width = int(int32(binary.LittleEndian.Uint32(info[0:4])))
		// Negative height means top-down row order.
		h := int(int32(binary.LittleEndian.Uint32(info[4:8])))
		if h < 0 {
			h = -h
		}
		height = h
		bpp = binary.LittleEndian.Uint16(info[10:12])
	}

	if width <= 0 || height <= 0 {
		return nil, nil
	}

	var mode probe.ColorMode
	var alpha bool
	switch {
	case bpp <= 8:
		mode = probe.Indexed
	case bpp == 32:
		mode, alpha = probe.RGBA, true
	default:
		mode = probe.RGB
	}

	return &probe.ImageResult{
		Format:          "bmp",
		WidthPx:         width,
		HeightPx:        height,
		ColorMode:       mode,
		HasTransparency: alpha,
		ContentType:     "image/bmp",
		Intrinsics: map[string]interface{}{
			"bits_per_pixel": int(bpp),
		},
	}, nil
}
