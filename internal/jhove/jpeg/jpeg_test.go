package jpeg

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/digler/internal/jhove/bin"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

func sofSegment(marker byte, height, width uint16) []byte {
	// marker, len(hi,lo), precision, height(2), width(2), 1 component,
	// component id/sampling/quant-table (3 bytes)
	seg := []byte{0xff, marker, 0, 11, 8, 0, 0, 0, 0, 1, 1, 0x11, 0}
	binary.BigEndian.PutUint16(seg[5:7], height)
	binary.BigEndian.PutUint16(seg[7:9], width)
	return seg
}

func buildMinimalJPEG(t *testing.T, height, width uint16) []byte {
	t.Helper()
	var buf []byte
	buf = append(buf, 0xff, soiMarker)
	buf = append(buf, sofSegment(sof0Marker, height, width)...)
	buf = append(buf, 0xff, eoiMarker)
	return buf
}

func newSource(b []byte) bin.Source {
	return bin.NewSource(byteReaderAt(b), int64(len(b)))
}

type byteReaderAt []byte

func (b byteReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func TestModule_Parse_ReadsDimensions(t *testing.T) {
	data := buildMinimalJPEG(t, 100, 200)
	src := newSource(data)

	info := repinfo.New("sample.jpg")
	m := New()
	require.NoError(t, m.Parse(src, info, module.Options{}))
	require.Equal(t, repinfo.True, info.WellFormed)

	found := false
	for _, p := range info.Properties {
		if p.Name() == "ImageWidth" {
			found = true
		}
	}
	require.True(t, found)
}

func TestModule_Parse_MissingSOIIsFatal(t *testing.T) {
	data := []byte{0x00, 0x00}
	src := newSource(data)

	info := repinfo.New("sample.jpg")
	m := New()
	require.NoError(t, m.Parse(src, info, module.Options{}))
	require.NotEmpty(t, info.Messages)
}

func TestModule_CheckSignatures_RecognizesJPEG(t *testing.T) {
	data := buildMinimalJPEG(t, 1, 1)
	src := newSource(data)

	info := repinfo.New("sample.jpg")
	m := New()
	require.NoError(t, m.CheckSignatures("JPEG-hul", src, info))
	require.Equal(t, "JPEG", info.Format)
}
