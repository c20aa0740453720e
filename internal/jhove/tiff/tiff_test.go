package tiff

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/msg"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

func TestParseIFD_OutOfOrderTags(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	b.Short(TagCompression, 1)
	b.Short(TagImageWidth, 100) // 256 < 259: out of order
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	_, err := w.ParseIFD(off, Main, info, module.Options{}, LookupMainTag, nil)
	require.NoError(t, err)

	require.True(t, hasMessageID(info, "TIFF-HUL-2"))
}

func TestParseIFD_OddOffsetFatalByDefault(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	// A one-byte out-of-line value shifts the next entry's out-of-line
	// value onto an odd offset, which the strict (non-ByteOffsetIsValid)
	// path must reject.
	b.entries = append(b.entries, entryBuilder{tag: 700, typ: BYTE, count: 1, out: []byte{0xAB}})
	b.entries = append(b.entries, entryBuilder{tag: 701, typ: SHORT, count: 3, out: make([]byte, 6)})
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	_, err := w.ParseIFD(off, Main, info, module.Options{}, LookupMainTag, nil)
	require.Error(t, err)
	var fe *msg.FatalError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "TIFF-HUL-4", fe.Message.ID)
}

func TestParseIFD_OddOffsetToleratedWhenByteOffsetIsValid(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	b.entries = append(b.entries, entryBuilder{tag: 700, typ: BYTE, count: 1, out: []byte{0xAB}})
	b.entries = append(b.entries, entryBuilder{tag: 701, typ: SHORT, count: 3, out: make([]byte, 6)})
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	_, err := w.ParseIFD(off, Main, info, module.Options{ByteOffsetIsValid: true}, LookupMainTag, nil)
	require.NoError(t, err)
	require.True(t, hasMessageID(info, "TIFF-HUL-4"))
}

func TestParseIFD_UnknownTypeSkipsEntry(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	b.RawType(TagSoftware, Type(99), 1, []byte{1, 0, 0, 0})
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	ifd, err := w.ParseIFD(off, Main, info, module.Options{}, LookupMainTag, nil)
	require.NoError(t, err)
	require.Empty(t, ifd.Entries)
	require.True(t, hasMessageID(info, "TIFF-HUL-3"))
}

func TestParseIFD_UnknownTagNumberEmitsGenericProperty(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	b.Short(60001, 7)
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	_, err := w.ParseIFD(off, Main, info, module.Options{}, LookupMainTag, nil)
	require.NoError(t, err)
	require.Len(t, info.Properties, 1)
	require.Equal(t, "Unknown Tag 60001", info.Properties[0].Name())
}

func TestParseIFD_EmptyIFD(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	ifd, err := w.ParseIFD(off, Main, info, module.Options{}, LookupMainTag, nil)
	require.NoError(t, err)
	require.Empty(t, ifd.Entries)
	require.Equal(t, int64(0), ifd.Next)
}

func TestParseIFD_CyclicChainIsFatal(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	b.Short(TagImageWidth, 10)
	b.Next(headerSize) // points back at itself
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	_, err := w.ParseIFD(off, Main, info, module.Options{}, LookupMainTag, nil)
	require.NoError(t, err)

	_, err = w.ParseIFD(int64(headerSize), Main, info, module.Options{}, LookupMainTag, nil)
	require.Error(t, err)
	var fe *msg.FatalError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "TIFF-HUL-9", fe.Message.ID)
}

func TestParseIFD_StripAndTileMutuallyExclusive(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	b.Long(TagStripOffsets, 500)
	b.Long(TagTileOffsets, 600)
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	ifd, err := w.ParseIFD(off, Main, info, module.Options{}, LookupMainTag, MainPostParse)
	require.NoError(t, err)
	require.NotEmpty(t, ifd.Errors)
}

func TestParseIFD_SamplesPerPixelBelowBitsPerSampleCount(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	// Three-component BitsPerSample (RGB) but SamplesPerPixel claims one.
	bps := make([]byte, 6)
	binary.LittleEndian.PutUint16(bps[0:2], 8)
	binary.LittleEndian.PutUint16(bps[2:4], 8)
	binary.LittleEndian.PutUint16(bps[4:6], 8)
	b.entries = append(b.entries, entryBuilder{tag: TagBitsPerSample, typ: SHORT, count: 3, out: bps})
	b.Short(TagSamplesPerPixel, 1)
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	ifd, err := w.ParseIFD(off, Main, info, module.Options{}, LookupMainTag, MainPostParse)
	require.NoError(t, err)
	require.NotEmpty(t, ifd.Errors)
}

func TestParseIFD_SamplesPerPixelMatchesBitsPerSampleCount(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	bps := make([]byte, 6)
	binary.LittleEndian.PutUint16(bps[0:2], 8)
	binary.LittleEndian.PutUint16(bps[2:4], 8)
	binary.LittleEndian.PutUint16(bps[4:6], 8)
	b.entries = append(b.entries, entryBuilder{tag: TagBitsPerSample, typ: SHORT, count: 3, out: bps})
	b.Short(TagSamplesPerPixel, 3)
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	ifd, err := w.ParseIFD(off, Main, info, module.Options{}, LookupMainTag, MainPostParse)
	require.NoError(t, err)
	require.Empty(t, ifd.Errors)
}

func TestReadASCIIArray_ReturnsAllDelimitedStrings(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	e := entryBuilder{
		tag:   700,
		typ:   ASCII,
		count: 9,
		out:   append(append(append([]byte("ab"), 0), append([]byte("cde"), 0)...), append([]byte("f"), 0)...),
	}
	b.entries = append(b.entries, e)
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	ifd, err := w.ParseIFD(off, Main, info, module.Options{}, func(w *Walker, ifd *IFD, ent Entry, info *repinfo.RepInfo, opts module.Options) error {
		return nil
	}, nil)
	require.NoError(t, err)
	require.Len(t, ifd.Entries, 1)

	strs, err := ReadASCIIArray(src, binary.LittleEndian, ifd.Entries[0])
	require.NoError(t, err)
	require.Equal(t, []string{"ab", "cde", "f"}, strs)
}

func hasMessageID(info *repinfo.RepInfo, id string) bool {
	for _, m := range info.Messages {
		if m.ID == id {
			return true
		}
	}
	return false
}
