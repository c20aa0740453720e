package tiff

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/digler/internal/jhove/bin"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

func TestModule_CheckSignatures(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	b.Short(TagImageWidth, 100)
	src, _ := b.Build()

	m := New()
	info := repinfo.New("test.tif")
	require.NoError(t, m.CheckSignatures("test.tif", src, info))
	require.Contains(t, info.SigMatch, "TIFF-hul")
	require.Equal(t, "TIFF", info.Format)
}

func TestModule_Parse_WellFormedSimpleFile(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	b.Short(TagImageWidth, 100)
	b.Short(TagImageLength, 200)
	b.Short(TagBitsPerSample, 8)
	b.Long(TagStripOffsets, 999)
	src, _ := b.Build()

	m := New()
	info := repinfo.New("test.tif")
	require.NoError(t, m.Parse(src, info, module.Options{}))
	require.Equal(t, repinfo.True, info.WellFormed)
	require.False(t, info.HasFatal())
}

func TestModule_Parse_FollowsGlobalParamsIFDPointer(t *testing.T) {
	// header(8) + main IFD (2 count + 12 entry + 4 next = 18, at offset 8..26)
	// + GlobalParams sub-IFD (2 count + 4 next = 6, at offset 26..32), with
	// no entries of its own.
	buf := make([]byte, 32)
	buf[0], buf[1] = 'I', 'I'
	binary.LittleEndian.PutUint16(buf[2:4], tiffMagic)
	binary.LittleEndian.PutUint32(buf[4:8], 8)

	binary.LittleEndian.PutUint16(buf[8:10], 1) // one entry
	binary.LittleEndian.PutUint16(buf[10:12], TagGlobalParamsIFDPointer)
	binary.LittleEndian.PutUint16(buf[12:14], uint16(LONG))
	binary.LittleEndian.PutUint32(buf[14:18], 1)
	binary.LittleEndian.PutUint32(buf[18:22], 26) // sub-IFD offset
	binary.LittleEndian.PutUint32(buf[22:26], 0)  // no next main IFD

	binary.LittleEndian.PutUint16(buf[26:28], 0) // sub-IFD has 0 entries
	binary.LittleEndian.PutUint32(buf[28:32], 0) // no next

	src := bin.NewSource(byteSource(buf), int64(len(buf)))

	m := New()
	info := repinfo.New("globalparams.tif")
	require.NoError(t, m.Parse(src, info, module.Options{}))
	require.Equal(t, repinfo.True, info.WellFormed)
	require.False(t, info.HasFatal())

	found := false
	for _, p := range info.Properties {
		if p.Name() == "GlobalParamsIFDPointer" {
			found = true
		}
	}
	require.True(t, found, "expected GlobalParamsIFDPointer property to be recorded")
}

func TestModule_Parse_InvalidMagicIsFatal(t *testing.T) {
	bad := badMagicSource()
	m := New()
	info := repinfo.New("bad.tif")
	require.NoError(t, m.Parse(bad, info, module.Options{}))
	require.Equal(t, repinfo.False, info.WellFormed)
	require.True(t, info.HasFatal())
}
