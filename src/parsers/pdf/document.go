package pdf

import (
	"path/filepath"
	"strings"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

type Parser struct{}

func (Parser) LikelyMatch(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".pdf"
}

func (Parser) Parse(src reader.Source) (probe.Result, error) {
	hdr, err := reader.ReadFull(src, 8)
	if err != nil {
		return nil, err
	}
	if string(hdr[0:5]) != "%PDF-" {
		return nil, nil
	}

	res := &probe.DocumentResult{
		Format:      "pdf",
		ContentType: "application/pdf",
	}
	if version := strings.TrimRight(string(hdr[5:8]), "\r\n"); len(version) == 3 {
		res.Intrinsics = map[string]interface{}{"version": version}
	}
	return res, nil
}
