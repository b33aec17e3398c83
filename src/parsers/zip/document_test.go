package zip

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

func localEntry(name string, body []byte) []byte {
	hdr := make([]byte, 30)
	binary.LittleEndian.PutUint32(hdr[0:4], localHeaderSig)
	binary.LittleEndian.PutUint32(hdr[18:22], uint32(len(body))) // compressed size
	binary.LittleEndian.PutUint32(hdr[22:26], uint32(len(body)))
	binary.LittleEndian.PutUint16(hdr[26:28], uint16(len(name)))

	out := append(hdr, name...)
	return append(out, body...)
}

func TestParsePlainZip(t *testing.T) {
	data := localEntry("readme.txt", []byte("hello"))
	data = append(data, localEntry("a/b.txt", []byte("x"))...)

	res, err := Parser{}.Parse(reader.NewBytes(data))
	require.NoError(t, err)
	require.NotNil(t, res)

	doc := res.(*probe.DocumentResult)
	assert.Equal(t, "zip", doc.Format)
	assert.Equal(t, "application/zip", doc.ContentType)
	assert.Equal(t, probe.Document, doc.Nature())
}

func TestParseDocx(t *testing.T) {
	data := localEntry("[Content_Types].xml", []byte("<xml/>"))
	data = append(data, localEntry("word/document.xml", []byte("<doc/>"))...)

	res, err := Parser{}.Parse(reader.NewBytes(data))
	require.NoError(t, err)
	require.NotNil(t, res)

	doc := res.(*probe.DocumentResult)
	assert.Equal(t, "docx", doc.Format)
	assert.Contains(t, doc.ContentType, "wordprocessingml")
}

func TestParseXlsx(t *testing.T) {
	data := localEntry("[Content_Types].xml", []byte("<xml/>"))
	data = append(data, localEntry("xl/workbook.xml", []byte("<wb/>"))...)

	res, err := Parser{}.Parse(reader.NewBytes(data))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "xlsx", res.(*probe.DocumentResult).Format)
}

func TestParseNotZip(t *testing.T) {
	res, err := Parser{}.Parse(reader.NewBytes([]byte("%PDF-1.4 nope")))
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestParseTruncatedEntryTable(t *testing.T) {
	data := localEntry("readme.txt", []byte("hello"))
	data = data[:35] // cut inside the name

	res, err := Parser{}.Parse(reader.NewBytes(data))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "zip", res.(*probe.DocumentResult).Format)
}
