package tiff

import (
	"encoding/binary"
	"io"

	"github.com/ostafen/digler/internal/jhove/bin"
)

// entryBuilder is one staged 12-byte entry awaiting layout.
type entryBuilder struct {
	tag   uint16
	typ   Type
	count uint32
	// inline holds the raw 4-byte value field when the value fits inline;
	// out holds out-of-line bytes to be appended after the IFD and linked
	// via an offset.
	inline []byte
	out    []byte
}

// IFDBuilder assembles a byte-exact TIFF header + single IFD fixture for
// tests, entry by entry, without hand-computing offsets at each call
// site.
type IFDBuilder struct {
	order   binary.ByteOrder
	entries []entryBuilder
	next    uint32
}

func NewIFDBuilder(order binary.ByteOrder) *IFDBuilder {
	return &IFDBuilder{order: order}
}

func (b *IFDBuilder) Next(offset uint32) *IFDBuilder {
	b.next = offset
	return b
}

func (b *IFDBuilder) addInline(tag uint16, typ Type, count uint32, inline []byte) *IFDBuilder {
	buf := make([]byte, 4)
	copy(buf, inline)
	b.entries = append(b.entries, entryBuilder{tag: tag, typ: typ, count: count, inline: buf})
	return b
}

func (b *IFDBuilder) Short(tag uint16, v uint16) *IFDBuilder {
	buf := make([]byte, 2)
	b.order.PutUint16(buf, v)
	return b.addInline(tag, SHORT, 1, buf)
}

func (b *IFDBuilder) Long(tag uint16, v uint32) *IFDBuilder {
	buf := make([]byte, 4)
	b.order.PutUint32(buf, v)
	return b.addInline(tag, LONG, 1, buf)
}

func (b *IFDBuilder) ASCII(tag uint16, s string) *IFDBuilder {
	raw := append([]byte(s), 0)
	e := entryBuilder{tag: tag, typ: ASCII, count: uint32(len(raw)), out: raw}
	if len(raw) <= 4 {
		e.inline = make([]byte, 4)
		copy(e.inline, raw)
		e.out = nil
	}
	b.entries = append(b.entries, e)
	return b
}

func (b *IFDBuilder) RawType(tag uint16, typ Type, count uint32, valueField []byte) *IFDBuilder {
	buf := make([]byte, 4)
	copy(buf, valueField)
	b.entries = append(b.entries, entryBuilder{tag: tag, typ: typ, count: count, inline: buf})
	return b
}

func (b *IFDBuilder) RationalArray(tag uint16, pairs [][2]int64) *IFDBuilder {
	out := make([]byte, 0, 8*len(pairs))
	buf4 := make([]byte, 4)
	for _, p := range pairs {
		b.order.PutUint32(buf4, uint32(p[0]))
		out = append(out, buf4...)
		b.order.PutUint32(buf4, uint32(p[1]))
		out = append(out, buf4...)
	}
	b.entries = append(b.entries, entryBuilder{tag: tag, typ: RATIONALTy, count: uint32(len(pairs)), out: out})
	return b
}

// Build lays out a well-formed TIFF header at offset 0, the IFD
// immediately following it at headerSize, and any out-of-line values
// after the IFD, patching each entry's value/offset field appropriately.
// It returns a bin.Source over the assembled bytes and the IFD's offset
// (always headerSize).
func (b *IFDBuilder) Build() (bin.Source, int64) {
	ifdOffset := int64(headerSize)
	n := len(b.entries)
	ifdSize := 2 + 12*n + 4
	outStart := ifdOffset + int64(ifdSize)

	buf := make([]byte, outStart)
	if b.order == binary.LittleEndian {
		copy(buf[0:2], littleEndianMarker)
	} else {
		copy(buf[0:2], bigEndianMarker)
	}
	b.order.PutUint16(buf[2:4], tiffMagic)
	b.order.PutUint32(buf[4:8], uint32(ifdOffset))

	b.order.PutUint16(buf[ifdOffset:ifdOffset+2], uint16(n))

	cursor := outStart
	for i, e := range b.entries {
		base := ifdOffset + 2 + int64(12*i)
		b.order.PutUint16(buf[base:base+2], e.tag)
		b.order.PutUint16(buf[base+2:base+4], uint16(e.typ))
		b.order.PutUint32(buf[base+4:base+8], e.count)

		if e.out != nil {
			var off = cursor
			buf = append(buf, e.out...)
			cursor += int64(len(e.out))
			b.order.PutUint32(buf[base+8:base+12], uint32(off))
		} else {
			copy(buf[base+8:base+12], e.inline)
		}
	}

	nextBase := ifdOffset + 2 + int64(12*n)
	b.order.PutUint32(buf[nextBase:nextBase+4], b.next)

	return bin.NewSource(byteSource(buf), int64(len(buf))), ifdOffset
}

// badMagicSource returns an eight-byte source with a valid endian marker
// but a wrong magic number, for testing the header-validation failure
// path.
func badMagicSource() bin.Source {
	buf := make([]byte, headerSize)
	copy(buf[0:2], littleEndianMarker)
	binary.LittleEndian.PutUint16(buf[2:4], 7)
	binary.LittleEndian.PutUint32(buf[4:8], headerSize)
	return bin.NewSource(byteSource(buf), int64(len(buf)))
}

// byteSource adapts a []byte to io.ReaderAt for bin.NewSource.
type byteSource []byte

func (s byteSource) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(s)) {
		return 0, io.EOF
	}
	n := copy(p, s[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
