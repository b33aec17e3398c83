package zip

import (
	"encoding/binary"
	"path/filepath"
	"strings"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

const (
	localHeaderSig = 0x04034b50
	maxEntries     = 8
)

var officeTypes = map[string]string{
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
}

type Parser struct{}

func (Parser) LikelyMatch(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".zip", ".docx", ".xlsx", ".pptx":
		return true
	}
	return false
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	sig, err := reader.ReadFull(src, 4)
	if err != nil {
		return nil, err
	}
	if binary.LittleEndian.Uint32(sig) != localHeaderSig {
		return nil, nil
	}
	if err := src.Seek(0); err != nil {
		return nil, err
	}

	// An unreadable entry table still identifies as a plain zip.
	names := scanLocalHeaders(src)

	format := "zip"
	for _, name := range names {
		switch {
		case strings.HasPrefix(name, "word/"):
			format = "docx"
		case strings.HasPrefix(name, "xl/"):
			format = "xlsx"
		case strings.HasPrefix(name, "ppt/"):
			format = "pptx"
		default:
			continue
		}
		break
	}

	contentType := "application/zip"
	if ct, ok := officeTypes[format]; ok {
		contentType = ct
	}

	return &probe.DocumentResult{
		Format:      format,
		ContentType: contentType,
		Intrinsics: map[string]interface{}{
			"entries_scanned": len(names),
		},
	}, nil
}

// scanLocalHeaders walks the first few local file headers and collects the
// stored names. The walk stops at anything it cannot skip deterministically
// (data descriptors, the central directory).
func scanLocalHeaders(src reader.Source) []string {
	var names []string

	for len(names) < maxEntries {
		hdr, err := reader.ReadFull(src, 30)
		if err != nil {
			break
		}
		if binary.LittleEndian.Uint32(hdr[0:4]) != localHeaderSig {
			break
		}

		flags := binary.LittleEndian.Uint16(hdr[6:8])
		compSize := int64(binary.LittleEndian.Uint32(hdr[18:22]))
		nameLen := int(binary.LittleEndian.Uint16(hdr[26:28]))
		extraLen := int64(binary.LittleEndian.Uint16(hdr[28:30]))

		if nameLen == 0 || nameLen > 512 {
			break
		}
		name, err := reader.ReadFull(src, nameLen)
		if err != nil {
			break
		}
		names = append(names, string(name))

		// Streaming entries put sizes in a trailing descriptor; without the
		// size there is nothing to skip by.
		if flags&0x8 != 0 {
			break
		}
		if err := reader.Skip(src, extraLen+compSize); err != nil {
			break
		}
	}

	return names
}
