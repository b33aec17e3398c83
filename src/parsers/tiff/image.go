package tiff

import (
	"bytes"
	"path/filepath"
	"strings"

	exiftiff "github.com/rwcarlsen/goexif/tiff"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

// How much of the file the IFD walk may span. TIFF directories normally sit
// well within this; anything beyond is treated as not parseable.
const maxPrefix = 256 << 10

const (
	tagImageWidth      = 0x0100
	tagImageLength     = 0x0101
	tagPhotometric     = 0x0106
	tagOrientation     = 0x0112
	tagSamplesPerPixel = 0x0115
)

var orientations = map[int64]probe.Orientation{
	1: probe.TopLeft,
	2: probe.TopRight,
	3: probe.BottomRight,
	4: probe.BottomLeft,
	5: probe.LeftTop,
	6: probe.RightTop,
	7: probe.RightBottom,
	8: probe.LeftBottom,
}

type Parser struct{}

func (Parser) LikelyMatch(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".tif" || ext == ".tiff"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	n := src.Size()
	if n > maxPrefix {
		n = maxPrefix
	}
	if n < 8 {
		return nil, nil
	}
	prefix, err := reader.ReadFull(src, int(n))
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(prefix, []byte("II*\x00")) && !bytes.HasPrefix(prefix, []byte("MM\x00*")) {
		return nil, nil
	}

	tif, err := exiftiff.Decode(bytes.NewReader(prefix))
	if err != nil || len(tif.Dirs) == 0 {
		return nil, nil
	}
	ifd0 := tif.Dirs[0]

	width := tagInt(ifd0, tagImageWidth)
	height := tagInt(ifd0, tagImageLength)
	if width <= 0 || height <= 0 {
		return nil, nil
	}

	samples := tagInt(ifd0, tagSamplesPerPixel)
	var mode probe.ColorMode
	var alpha bool
	switch tagInt(ifd0, tagPhotometric) {
	case 0, 1:
		mode = probe.Grayscale
	case 2:
		mode = probe.RGB
		if samples >= 4 {
			mode, alpha = probe.RGBA, true
		}
	case 3:
		mode = probe.Indexed
	case 5:
		mode = probe.CMYK
	case 6:
		mode = probe.RGB // YCbCr
	default:
		return nil, nil
	}

	res := &probe.ImageResult{
		Format:          "tiff",
		WidthPx:         int(width),
		HeightPx:        int(height),
		ColorMode:       mode,
		HasTransparency: alpha,
		ContentType:     "image/tiff",
	}
	if o, ok := orientations[tagInt(ifd0, tagOrientation)]; ok {
		res.Orientation = o
	}
	return res, nil
}

func tagInt(dir *exiftiff.Dir, id uint16) int64 {
	for _, tag := range dir.Tags {
		if tag.Id == id {
			if v, err := tag.Int(0); err == nil {
				return int64(v)
			}
			return -1
		}
	}
	return -1
}
