package tiff

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/prop"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

func TestAddBitmaskProperty_InterpretedListsSetBits(t *testing.T) {
	ifd := &IFD{}
	p := AddBitmaskProperty(ifd, "NewSubfileType", 0b101, newSubfileTypeLabels, false)

	require.Equal(t, prop.List, p.Arity())
	var got []string
	for _, c := range p.Children() {
		got = append(got, c.Str())
	}
	require.Equal(t, []string{"ReducedResolution", "TransparencyMask"}, got)
	require.Empty(t, ifd.Errors)
}

func TestAddBitmaskProperty_RawEmitsBareInteger(t *testing.T) {
	ifd := &IFD{}
	p := AddBitmaskProperty(ifd, "NewSubfileType", 0b11, newSubfileTypeLabels, true)

	require.Equal(t, prop.Int64, p.Type())
	require.Equal(t, int64(0b11), p.Int())
}

func TestAddBitmaskProperty_OutOfRangeBitRecordsIFDError(t *testing.T) {
	ifd := &IFD{}
	AddBitmaskProperty(ifd, "NewSubfileType", 1<<10, newSubfileTypeLabels, false)
	require.NotEmpty(t, ifd.Errors)
}

func TestLookupMainTag_NewSubfileTypeIsBitmask(t *testing.T) {
	b := NewIFDBuilder(binary.LittleEndian)
	b.Long(TagNewSubfileType, 0b1)
	src, off := b.Build()

	info := repinfo.New("test")
	w := NewWalker(src, binary.LittleEndian)
	_, err := w.ParseIFD(off, Main, info, module.Options{}, LookupMainTag, nil)
	require.NoError(t, err)

	var found *prop.Property
	for i := range info.Properties {
		if info.Properties[i].Name() == "NewSubfileType" {
			found = &info.Properties[i]
		}
	}
	require.NotNil(t, found)
	require.Equal(t, prop.List, found.Arity())
}
