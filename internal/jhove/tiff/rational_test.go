package tiff

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/rational"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

// TestReadRationalArray_DoesNotDuplicateNumerator pins the correct
// numerator-then-denominator layout (num[0] den[0] num[1] den[1] ...)
// against a transcription slip some ports of this routine carry, where a
// loop reads two u32s per element but assigns both to the numerator
// field. original_source's IFD.java reads numerator then denominator
// correctly; this test would fail if that regression were introduced.
func TestReadRationalArray_DoesNotDuplicateNumerator(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	b.RationalArray(500, [][2]int64{{1, 2}, {3, 4}, {5, 6}})
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	ifd, err := w.ParseIFD(off, Main, info, module.Options{}, func(*Walker, *IFD, Entry, *repinfo.RepInfo, module.Options) error {
		return nil
	}, nil)
	require.NoError(t, err)
	require.Len(t, ifd.Entries, 1)

	vals, err := ReadRationalArray(src, binary.LittleEndian, ifd.Entries[0])
	require.NoError(t, err)
	require.Equal(t, []rational.Rational{
		rational.New(1, 2),
		rational.New(3, 4),
		rational.New(5, 6),
	}, vals)
}

func TestReadSignedRationalArray_PreservesSign(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	e := entryBuilder{tag: 600, typ: SRATIONALTy, count: 2}
	buf := make([]byte, 16)
	n1, d1, n2, d2 := int32(-1), int32(2), int32(3), int32(-4)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(n1))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(d1))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(n2))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(d2))
	e.out = buf
	b.entries = append(b.entries, e)
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	ifd, err := w.ParseIFD(off, Main, info, module.Options{}, func(*Walker, *IFD, Entry, *repinfo.RepInfo, module.Options) error {
		return nil
	}, nil)
	require.NoError(t, err)

	vals, err := ReadSignedRationalArray(src, binary.LittleEndian, ifd.Entries[0])
	require.NoError(t, err)
	require.Equal(t, []rational.Rational{
		rational.New(-1, 2),
		rational.New(3, -4),
	}, vals)
}
