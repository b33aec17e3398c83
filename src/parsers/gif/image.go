package gif

import (
	"encoding/binary"
	"path/filepath"
	"strings"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

// Frame counting walks the block stream in memory; files larger than this
// report the frames seen inside the prefix.
const maxScan = 1 << 20

type Parser struct{}

func (Parser) LikelyMatch(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".gif"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	hdr, err := reader.ReadFull(src, 13)
	if err != nil {
		return nil, err
	}
	version := string(hdr[0:6])
	if version != "GIF87a" && version != "GIF89a" {
		return nil, nil
	}

	width := int(binary.LittleEndian.Uint16(hdr[6:8]))
	height := int(binary.LittleEndian.Uint16(hdr[8:10]))
	if width == 0 || height == 0 {
		return nil, nil
	}
	packed := hdr[10]

	remaining := src.Size() - src.Pos()
	if remaining > maxScan {
		remaining = maxScan
	}
	body, err := reader.ReadFull(src, int(remaining))
	if err != nil {
		return nil, err
	}

	frames, transparent := walkBlocks(body, packed)
	if frames == 0 {
		return nil, nil
	}

	res := &probe.ImageResult{
		Format:          "gif",
		WidthPx:         width,
		HeightPx:        height,
		ColorMode:       probe.Indexed,
		HasTransparency: transparent,
		ContentType:     "image/gif",
	}
	if frames > 1 {
		res.HasMultipleFrames = true
		res.NumFrames = frames
	}
	return res, nil
}

// walkBlocks counts image descriptors and spots the transparency flag in
// graphic control extensions. packed is the logical screen descriptor's
// packed byte (global color table flag + size).
func walkBlocks(body []byte, packed byte) (frames int, transparent bool) {
	pos := 0
	if packed&0x80 != 0 {
		pos += 3 * (1 << ((packed & 0x07) + 1))
	}

	for pos < len(body) {
		switch body[pos] {
		case 0x2C: // image descriptor
			frames++
			if pos+10 > len(body) {
				return
			}
			local := body[pos+9]
			pos += 10
			if local&0x80 != 0 {
				pos += 3 * (1 << ((local & 0x07) + 1))
			}
			pos++ // LZW minimum code size
			pos = skipSubBlocks(body, pos)

		case 0x21: // extension
			if pos+2 > len(body) {
				return
			}
			label := body[pos+1]
			pos += 2
			if label == 0xF9 && pos+2 <= len(body) && body[pos] >= 1 {
				transparent = transparent || body[pos+1]&0x01 != 0
			}
			pos = skipSubBlocks(body, pos)

		case 0x3B: // trailer
			return

		default:
			return
		}
		if pos < 0 {
			return
		}
	}
	return
}

func skipSubBlocks(body []byte, pos int) int {
	for pos < len(body) {
		size := int(body[pos])
		pos++
		if size == 0 {
			return pos
		}
		pos += size
	}
	return pos
}
