// Package jpeg implements the JPEG module: a RandomAccessModule proving
// the module framework generalizes past TIFF, and demonstrating format
// composition — a JPEG's embedded EXIF APP1 segment is itself a
// byte-for-byte TIFF header plus IFD chain, handed to
// internal/jhove/tiff's Walker over a bin.Source scoped to just that
// segment.
//
// Marker-walking is grounded on the teacher's internal/format/jpeg.go
// (ScanJPEG), itself adapted from the standard library's image/jpeg
// decode loop: the same SOI/marker/length walk, generalized from "find
// EOI to bound a carved file" into full segment enumeration with an APP1
// EXIF hook. Marker constants are kept from the teacher's
// sof0Marker..app15Marker names where they mean the same thing.
package jpeg

import (
	"encoding/binary"
	"fmt"

	"github.com/ostafen/digler/internal/jhove/bin"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/msg"
	"github.com/ostafen/digler/internal/jhove/prop"
	"github.com/ostafen/digler/internal/jhove/repinfo"
	"github.com/ostafen/digler/internal/jhove/sig"
	"github.com/ostafen/digler/internal/jhove/tiff"
)

const (
	sof0Marker = 0xc0
	sof1Marker = 0xc1
	sof2Marker = 0xc2
	dhtMarker  = 0xc4
	rst0Marker = 0xd0
	rst7Marker = 0xd7
	soiMarker  = 0xd8
	eoiMarker  = 0xd9
	sosMarker  = 0xda
	dqtMarker  = 0xdb
	driMarker  = 0xdd
	comMarker  = 0xfe
	app0Marker  = 0xe0
	app1Marker  = 0xe1
	app14Marker = 0xee
	app15Marker = 0xef
)

var exifHeader = [6]byte{'E', 'x', 'i', 'f', 0, 0}

// Module is the RandomAccessModule for JPEG/JFIF.
type Module struct{}

func New() *Module { return &Module{} }

func (m *Module) Descriptor() module.Descriptor {
	return module.Descriptor{
		Name:      "JPEG-hul",
		Release:   "1.0",
		Date:      "2026-08-06",
		Vendor:    "Harvard University Library",
		Formats:   []string{"JPEG"},
		MIMETypes: []string{"image/jpeg"},
		Signatures: []sig.Signature{
			{Kind: sig.Internal, Pattern: []byte{0xff, 0xd8, 0xff}, Offset: 0, Mandatory: true},
			{Kind: sig.External, Ext: "jpg"},
			{Kind: sig.External, Ext: "jpeg"},
		},
		Specifications: []string{"ISO/IEC 10918-1", "JFIF 1.02", "Exif 2.3"},
	}
}

func (m *Module) IsRandomAccess() bool { return true }
func (m *Module) Reset()               {}

func (m *Module) CheckSignatures(name string, src bin.Source, info *repinfo.RepInfo) error {
	rd := bin.New(src)
	b, err := rd.ReadBytes(0, 3)
	if err != nil || len(b) < 3 || b[0] != 0xff || b[1] != soiMarker {
		return nil
	}
	info.SigMatch = append(info.SigMatch, "JPEG-hul")
	info.Format = "JPEG"
	info.MIMEType = "image/jpeg"
	info.SetValid(repinfo.Undetermined)
	return nil
}

// Parse walks JPEG segments from offset 0 to EOI, decoding SOF0/1/2
// frame dimensions and following an APP1 Exif segment into the TIFF
// walker when present.
func (m *Module) Parse(src bin.Source, info *repinfo.RepInfo, opts module.Options) error {
	rd := bin.New(src)

	b, err := rd.ReadBytes(0, 2)
	if err != nil || b[0] != 0xff || b[1] != soiMarker {
		info.AddMessage(msg.NewFatal("JPEG-HUL-1", "missing SOI marker"))
		return nil
	}
	info.SetWellFormed(repinfo.True)
	info.SetValid(repinfo.True)

	off := int64(2)
	for {
		if opts.Aborted() {
			return nil
		}
		marker, next, err := readMarker(rd, off)
		if err != nil {
			info.AddMessage(msg.NewFatal("JPEG-HUL-1", err.Error()))
			return nil
		}
		off = next

		if marker == eoiMarker {
			return nil
		}
		if rst0Marker <= marker && marker <= rst7Marker {
			continue
		}

		lenBytes, err := rd.ReadBytes(off, 2)
		if err != nil {
			info.AddMessage(msg.NewFatal("JPEG-HUL-1", fmt.Sprintf("truncated segment length at offset %d", off)))
			return nil
		}
		segLen := int(binary.BigEndian.Uint16(lenBytes)) - 2
		if segLen < 0 {
			info.AddMessage(msg.NewError("JPEG-HUL-2", fmt.Sprintf("segment at offset %d has an invalid length", off)))
			return nil
		}
		dataOff := off + 2

		switch marker {
		case sof0Marker, sof1Marker, sof2Marker:
			m.readSOF(rd, dataOff, info)
		case app1Marker:
			m.readAPP1(src, rd, dataOff, segLen, info, opts)
		}

		off = dataOff + int64(segLen)
	}
}

func readMarker(rd *bin.Reader, off int64) (marker byte, next int64, err error) {
	for {
		b, err := rd.ReadBytes(off, 1)
		if err != nil {
			return 0, 0, err
		}
		off++
		if b[0] != 0xff {
			continue
		}
		for {
			m, err := rd.ReadBytes(off, 1)
			if err != nil {
				return 0, 0, err
			}
			off++
			if m[0] == 0 {
				break // stuffed 0xff00: not a marker, keep scanning
			}
			if m[0] != 0xff {
				return m[0], off, nil
			}
		}
	}
}

func (m *Module) readSOF(rd *bin.Reader, off int64, info *repinfo.RepInfo) {
	buf, err := rd.ReadBytes(off, 5)
	if err != nil {
		return
	}
	height := binary.BigEndian.Uint16(buf[1:3])
	width := binary.BigEndian.Uint16(buf[3:5])
	info.AddProperty(prop.NewUint32("ImageHeight", uint32(height)))
	info.AddProperty(prop.NewUint32("ImageWidth", uint32(width)))
}

func (m *Module) readAPP1(src bin.Source, rd *bin.Reader, off int64, segLen int, info *repinfo.RepInfo, opts module.Options) {
	if segLen < 6 {
		return
	}
	hdr, err := rd.ReadBytes(off, 6)
	if err != nil || hdr[0] != exifHeader[0] || hdr[1] != exifHeader[1] || hdr[2] != exifHeader[2] || hdr[3] != exifHeader[3] {
		return
	}

	tiffOff := off + 6
	tiffLen := int64(segLen) - 6
	if tiffOff+tiffLen > src.Size() {
		tiffLen = src.Size() - tiffOff
	}
	sub := bin.NewSource(&offsetSource{base: src, offset: tiffOff}, tiffLen)

	subRd := bin.New(sub)
	head, err := subRd.ReadBytes(0, 8)
	if err != nil {
		return
	}
	var order binary.ByteOrder
	switch string(head[0:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return
	}
	firstIFD := int64(order.Uint32(head[4:8]))

	w := tiff.NewWalker(sub, order)
	if _, err := w.ParseIFD(firstIFD, tiff.ExifKind, info, opts, tiff.LookupExifTag, nil); err != nil {
		info.AddMessage(msg.NewInfo("JPEG-HUL-3", fmt.Sprintf("embedded Exif segment could not be parsed: %v", err)))
	}
}

// offsetSource adapts a bin.Source to expose a window starting at offset,
// so the TIFF walker addresses the embedded Exif block with offsets
// relative to the block's own header the way a standalone TIFF file
// would, rather than relative to the JPEG file.
type offsetSource struct {
	base   bin.Source
	offset int64
}

func (o *offsetSource) ReadAt(p []byte, off int64) (int, error) {
	return o.base.ReadAt(p, o.offset+off)
}

func (o *offsetSource) Size() int64 { return o.base.Size() - o.offset }
