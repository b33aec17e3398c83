package ogg

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"strings"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

// Ogg framing per RFC 3533: a page is a 27-byte header, a segment table and
// up to 255*255 bytes of payload.
const (
	headerSize  = 27
	maxSegments = 255
	maxPageSize = headerSize + maxSegments + maxSegments*255 // 65307
)

var magic = []byte("OggS")

type Parser struct{}

func (Parser) LikelyMatch(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".ogg" || ext == ".oga"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	head, err := reader.ReadFull(src, 4)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(head, magic) {
		return nil, nil
	}

	// Vorbis identification header: the first packet starts right after the
	// first page's single-segment table, at offset 28.
	if err := src.Seek(28); err != nil {
		return nil, err
	}
	id, err := reader.ReadFull(src, 16)
	if err != nil {
		return nil, err
	}
	if id[0] != 1 || string(id[1:7]) != "vorbis" {
		return nil, nil
	}
	channels := int(id[11])
	sampleRate := binary.LittleEndian.Uint32(id[12:16])

	granule, ok, err := lastGranulePosition(src)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	duration := float64(granule) / float64(sampleRate)
	if math.IsInf(duration, 0) || math.IsNaN(duration) || duration <= 0 {
		return nil, nil
	}

	return &probe.AudioResult{
		Format:       "ogg",
		SampleRateHz: int(sampleRate),
		NumChannels:  channels,
		DurationS:    duration,
		ContentType:  "audio/ogg",
	}, nil
}

// lastGranulePosition scans the final maxPageSize bytes for the last valid
// page and returns its granule position. Candidates are checked in
// descending offset order; CRC validation weeds out OggS sequences that
// merely appear inside a payload.
func lastGranulePosition(src reader.Source) (int64, bool, error) {
	size := src.Size()
	tailLen := int64(maxPageSize)
	if size < tailLen {
		tailLen = size
	}
	if err := src.Seek(size - tailLen); err != nil {
		return 0, false, err
	}
	tail, err := reader.ReadFull(src, int(tailLen))
	if err != nil {
		return 0, false, err
	}

	for window := tail; ; {
		i := bytes.LastIndex(window, magic)
		if i < 0 {
			return 0, false, nil
		}
		if granule, ok := validatePage(tail[i:]); ok {
			return granule, true, nil
		}
		window = window[:i]
	}
}

// validatePage checks a candidate page start: full header, nonzero segment
// table, the whole page inside the buffer, and a matching CRC.
func validatePage(page []byte) (int64, bool) {
	if len(page) < headerSize {
		return 0, false
	}
	segments := int(page[26])
	if segments == 0 {
		return 0, false
	}
	if len(page) < headerSize+segments {
		return 0, false
	}

	payload := 0
	for _, b := range page[headerSize : headerSize+segments] {
		payload += int(b)
	}
	total := headerSize + segments + payload
	if len(page) < total {
		return 0, false
	}

	stored := binary.LittleEndian.Uint32(page[22:26])
	if pageCRC(page[:total]) != stored {
		return 0, false
	}

	return int64(binary.LittleEndian.Uint64(page[6:14])), true
}

// "unreflected" crc used by libogg, polynomial 0x04C11DB7, register
// initialized to zero. The checksum field itself is hashed as zero.
var crcTable = makeCRCTable()

func makeCRCTable() [256]uint32 {
	var table [256]uint32
	for i := range table {
		r := uint32(i) << 24
		for k := 0; k < 8; k++ {
			if r&0x80000000 != 0 {
				r = (r << 1) ^ 0x04C11DB7
			} else {
				r <<= 1
			}
		}
		table[i] = r
	}
	return table
}

func pageCRC(page []byte) uint32 {
	var c uint32
	for i, b := range page {
		if i >= 22 && i < 26 {
			b = 0
		}
		c = (c << 8) ^ crcTable[byte(c>>24)^b]
	}
	return c
}
