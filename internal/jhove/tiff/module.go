package tiff

import (
	"encoding/binary"
	"fmt"

	"github.com/ostafen/digler/internal/jhove/bin"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/msg"
	"github.com/ostafen/digler/internal/jhove/repinfo"
	"github.com/ostafen/digler/internal/jhove/sig"
)

const (
	littleEndianMarker = "II"
	bigEndianMarker    = "MM"
	tiffMagic          = 42
	headerSize         = 8
)

// Module is the RandomAccessModule for TIFF. Header parsing keeps the
// teacher's ScanTIFF shape (II/MM marker, magic 42, first-IFD offset)
// verbatim; everything past the header is full semantic decoding via
// Walker instead of ScanTIFF's byte-skipping loop.
type Module struct{}

func New() *Module { return &Module{} }

func (m *Module) Descriptor() module.Descriptor {
	return module.Descriptor{
		Name:      "TIFF-hul",
		Release:   "1.0",
		Date:      "2026-08-06",
		Vendor:    "Harvard University Library",
		Formats:   []string{"TIFF"},
		MIMETypes: []string{"image/tiff"},
		Signatures: []sig.Signature{
			{Kind: sig.Internal, Pattern: []byte(littleEndianMarker), Offset: 0, Mandatory: true},
			{Kind: sig.Internal, Pattern: []byte(bigEndianMarker), Offset: 0, Mandatory: true},
			{Kind: sig.External, Ext: "tif"},
			{Kind: sig.External, Ext: "tiff"},
		},
		Specifications: []string{"TIFF 6.0", "Exif 2.3"},
	}
}

func (m *Module) IsRandomAccess() bool { return true }

func (m *Module) Reset() {}

// header holds the decoded eight-byte TIFF header.
type header struct {
	order        binary.ByteOrder
	firstIFDOff  int64
}

func parseHeader(src bin.Source) (header, error) {
	rd := bin.New(src)
	raw, err := rd.ReadBytes(0, headerSize)
	if err != nil {
		return header{}, err
	}
	var order binary.ByteOrder
	switch string(raw[0:2]) {
	case littleEndianMarker:
		order = binary.LittleEndian
	case bigEndianMarker:
		order = binary.BigEndian
	default:
		return header{}, fmt.Errorf("invalid endian marker %q", raw[0:2])
	}
	if magic := order.Uint16(raw[2:4]); magic != tiffMagic {
		return header{}, fmt.Errorf("invalid TIFF magic number 0x%04x", magic)
	}
	return header{order: order, firstIFDOff: int64(order.Uint32(raw[4:8]))}, nil
}

// CheckSignatures peeks the header without consuming the stream past it
// (bin.Source is addressed by offset, so there is nothing to seek back).
func (m *Module) CheckSignatures(name string, src bin.Source, info *repinfo.RepInfo) error {
	if _, err := parseHeader(src); err != nil {
		return nil // not a signature match; dispatcher tries the next candidate
	}
	info.SigMatch = append(info.SigMatch, "TIFF-hul")
	info.Format = "TIFF"
	info.MIMEType = "image/tiff"
	info.SetValid(repinfo.Undetermined)
	return nil
}

// Parse walks the header, then the primary IFD chain (first IFD, then a
// thumbnail IFD if a second link follows, then any additional pages),
// following Exif/GPS/Interop/GlobalParameters sub-IFD pointers from each
// main IFD as they are encountered.
func (m *Module) Parse(src bin.Source, info *repinfo.RepInfo, opts module.Options) error {
	h, err := parseHeader(src)
	if err != nil {
		info.AddMessage(msg.NewFatal("TIFF-HUL-5", err.Error()))
		return nil
	}
	info.SetWellFormed(repinfo.True)
	info.SetValid(repinfo.True)

	if h.firstIFDOff < headerSize {
		info.AddMessage(msg.NewFatal("TIFF-HUL-5", fmt.Sprintf("first IFD offset %d precedes the header", h.firstIFDOff)))
		return nil
	}

	w := NewWalker(src, h.order)

	offset := h.firstIFDOff
	page := 0
	for offset != 0 {
		if opts.Aborted() {
			return nil
		}
		ifd, err := w.ParseIFD(offset, Main, info, opts, LookupMainTag, MainPostParse)
		if err != nil {
			m.reportChainError(info, err, opts)
			return nil
		}
		if ifd == nil {
			return nil
		}
		ifd.First = page == 0
		ifd.Thumbnail = page == 1
		for _, ierr := range ifd.Errors {
			info.AddMessage(msg.NewError("TIFF-HUL-8", ierr))
		}

		if err := m.followSubIFDs(w, ifd, info, opts); err != nil {
			m.reportChainError(info, err, opts)
			return nil
		}

		offset = ifd.Next
		page++
	}
	return nil
}

func (m *Module) followSubIFDs(w *Walker, ifd *IFD, info *repinfo.RepInfo, opts module.Options) error {
	if opts.Aborted() {
		return nil
	}
	if e, ok := ifd.byTag(TagExifIFDPointer); ok {
		off, err := readUintGeneric(w, e)
		if err == nil {
			exif, err := w.ParseIFD(int64(off), ExifKind, info, opts, LookupExifTag, nil)
			if err != nil {
				return err
			}
			if exif != nil {
				if e2, ok := exif.byTag(TagInteropIFDPointer); ok {
					off2, err := readUintGeneric(w, e2)
					if err == nil {
						if _, err := w.ParseIFD(int64(off2), Interop, info, opts, LookupInteropTag, nil); err != nil {
							return err
						}
					}
				}
			}
		}
	}
	if e, ok := ifd.byTag(TagGPSInfoIFDPointer); ok {
		off, err := readUintGeneric(w, e)
		if err == nil {
			if _, err := w.ParseIFD(int64(off), GPS, info, opts, LookupGPSTag, nil); err != nil {
				return err
			}
		}
	}
	if e, ok := ifd.byTag(TagGlobalParamsIFDPointer); ok {
		off, err := readUintGeneric(w, e)
		if err == nil {
			if _, err := w.ParseIFD(int64(off), GlobalParams, info, opts, LookupGlobalParamsTag, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// reportChainError records a Fatal from deep in the IFD chain onto info,
// downgrading to Info instead when opts.SuppressErrors is set (the
// module-wide "stop following the chain but still return a result"
// contract from module.Options).
func (m *Module) reportChainError(info *repinfo.RepInfo, err error, opts module.Options) {
	fe, ok := err.(*msg.FatalError)
	if !ok {
		if opts.SuppressErrors {
			info.AddMessage(msg.NewInfo("TIFF-HUL-5", err.Error()))
			return
		}
		info.AddMessage(msg.NewFatal("TIFF-HUL-5", err.Error()))
		return
	}
	if opts.SuppressErrors {
		info.AddMessage(msg.NewInfoAt(fe.Message.ID, fe.Message.Text, derefOffset(fe.Message.Offset)))
		return
	}
	info.AddMessage(fe.Message)
}

func derefOffset(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
