package jpeg

import (
	"bytes"
	"path/filepath"
	"strings"

	exiftiff "github.com/rwcarlsen/goexif/tiff"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

const (
	markerSOS  = 0xDA
	markerAPP1 = 0xE1
	markerEOI  = 0xD9

	tagOrientation = 0x0112
)

var exifHeader = []byte("Exif\x00\x00")

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
	return ext == ".jpg" || ext == ".jpeg" || ext == ".jpe"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	soi, err := reader.ReadFull(src, 2)
	if err != nil {
		return nil, err
	}
	if soi[0] != 0xFF || soi[1] != 0xD8 {
		return nil, nil
	}

	res := &probe.ImageResult{Format: "jpg", ContentType: "image/jpeg"}
	haveFrame := false

	for {
		marker, err := nextMarker(src)
		if err != nil {
			return nil, err
		}

		switch {
		case marker == markerSOS || marker == markerEOI:
			// Entropy-coded data follows; every header we care about is
			// behind us.
			if !haveFrame {
				return nil, nil
			}
			return res, nil

		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			// Standalone markers carry no length.
			continue
		}

		length, err := reader.ReadU16BE(src)
		if err != nil {
			return nil, err
		}
		if length < 2 {
			return nil, nil
		}
		payload := int64(length) - 2

		switch {
		case isSOF(marker):
			if payload < 6 {
				return nil, nil
			}
			sof, err := reader.ReadFull(src, 6)
			if err != nil {
				return nil, err
			}
			res.HeightPx = int(uint16(sof[1])<<8 | uint16(sof[2]))
			res.WidthPx = int(uint16(sof[3])<<8 | uint16(sof[4]))
			if res.WidthPx == 0 || res.HeightPx == 0 {
				return nil, nil
			}
			switch sof[5] {
			case 1:
				res.ColorMode = probe.Grayscale
			case 3:
				res.ColorMode = probe.RGB
			case 4:
				res.ColorMode = probe.CMYK
			default:
				return nil, nil
			}
			haveFrame = true
			if err := reader.Skip(src, payload-6); err != nil {
				return nil, err
			}

		case marker == markerAPP1:
			body, err := reader.ReadFull(src, int(payload))
			if err != nil {
				return nil, err
			}
			if o, ok := exifOrientation(body); ok {
				res.Orientation = o
			}

		default:
			if err := reader.Skip(src, payload); err != nil {
				return nil, err
			}
		}
	}
}

// nextMarker consumes fill bytes (0xFF runs) and returns the marker code.
func nextMarker(src reader.Source) (byte, error) {
	b, err := reader.ReadU8(src)
	if err != nil {
		return 0, err
	}
	if b != 0xFF {
		return 0, reader.ErrInsufficientData
	}
	for b == 0xFF {
		b, err = reader.ReadU8(src)
		if err != nil {
			return 0, err
		}
	}
	return b, nil
}

// SOF0..SOF15 carry frame dimensions, except the table/extension markers
// that share the range (DHT, JPG, DAC).
func isSOF(marker byte) bool {
	if marker < 0xC0 || marker > 0xCF {
		return false
	}
	return marker != 0xC4 && marker != 0xC8 && marker != 0xCC
}

// exifOrientation decodes the APP1 payload as EXIF and pulls the
// orientation tag out of IFD0.
func exifOrientation(app1 []byte) (probe.Orientation, bool) {
	if !bytes.HasPrefix(app1, exifHeader) {
		return "", false
	}

	tif, err := exiftiff.Decode(bytes.NewReader(app1[len(exifHeader):]))
	if err != nil || len(tif.Dirs) == 0 {
		return "", false
	}

	for _, tag := range tif.Dirs[0].Tags {
		if tag.Id != tagOrientation {
			continue
		}
		v, err := tag.Int(0)
		if err != nil {
			return "", false
		}
		o, ok := orientations[int64(v)]
		return o, ok
	}
	return "", false
}
