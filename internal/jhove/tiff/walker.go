package tiff

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ostafen/digler/internal/jhove/bin"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/msg"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

// TagLookup decodes one entry's value into ifd/info, dispatched by the
// IFD's Kind. It replaces the original's subclass-specific lookupTag
// override with a plain function value: LookupMainTag, LookupExifTag,
// LookupGPSTag, LookupInteropTag and LookupGlobalParamsTag are the five
// concrete implementations, one per Kind.
type TagLookup func(w *Walker, ifd *IFD, entry Entry, info *repinfo.RepInfo, opts module.Options) error

// PostParse runs once an IFD's entries have all been decoded, for
// cross-tag invariants that no single entry can check alone (e.g.
// strip/tile exclusivity, or a value cross-check that needs to decode a
// second entry's contents once the first is known to be present). It
// takes the same Walker its entries were decoded with, so it can read
// entry values itself rather than being limited to what lookup already
// staged as properties. It is a function value rather than a subclass
// override of postParseInitialization.
type PostParse func(w *Walker, ifd *IFD, info *repinfo.RepInfo) error

// Walker walks a TIFF IFD chain over a single byte order, tracking
// visited offsets to reject cycles. A Walker is single-use per top-level
// chain: construct a fresh one for each file (or each independent chain
// within a file, e.g. a sub-IFD pointer that should not share the primary
// chain's visited set) unless a shared cross-chain cycle is meant to be
// tracked.
type Walker struct {
	src   bin.Source
	order binary.ByteOrder
	rd    *bin.Reader

	visited map[int64]bool
}

// NewWalker returns a Walker over src, decoding multi-byte fields with
// order.
func NewWalker(src bin.Source, order binary.ByteOrder) *Walker {
	return &Walker{src: src, order: order, rd: bin.New(src), visited: map[int64]bool{}}
}

// Reader exposes the underlying endian-aware reader for tag lookups that
// need to pull additional bytes (e.g. following a sub-IFD pointer).
func (w *Walker) Reader() *bin.Reader { return w.rd }

// Source exposes the underlying byte source, for the free-function type
// readers in read.go that take a bin.Source explicitly.
func (w *Walker) Source() bin.Source { return w.src }

// Order returns the byte order this walker decodes multi-byte fields with.
func (w *Walker) Order() binary.ByteOrder { return w.order }

// ParseIFD decodes the IFD at offset. lookup dispatches each entry by
// ifd.Kind; post, if non-nil, runs once all entries are decoded.
func (w *Walker) ParseIFD(offset int64, kind Kind, info *repinfo.RepInfo, opts module.Options, lookup TagLookup, post PostParse) (*IFD, error) {
	if opts.Aborted() {
		return nil, nil
	}
	if w.visited[offset] {
		return nil, msg.NewFatalError("TIFF-HUL-9", fmt.Sprintf("IFD chain contains a cycle at offset %d", offset), offset)
	}
	w.visited[offset] = true

	n, err := w.rd.ReadU16(offset, w.order)
	if err != nil {
		return nil, msg.NewFatalError("TIFF-HUL-1", fmt.Sprintf("could not read IFD entry count at offset %d: %v", offset, err), offset)
	}

	view, err := w.rd.View(offset+2, 12*int(n))
	if err != nil {
		return nil, msg.NewFatalError("TIFF-HUL-1", fmt.Sprintf("could not read %d IFD entries at offset %d: %v", n, offset, err), offset)
	}

	next, err := w.rd.ReadU32(offset+2+12*int64(n), w.order)
	if err != nil {
		return nil, msg.NewFatalError("TIFF-HUL-1", fmt.Sprintf("could not read next-IFD offset at %d: %v", offset+2+12*int64(n), err), offset)
	}

	ifd := &IFD{Offset: offset, Kind: kind, Next: int64(next), Version: 5}

	var prevTag uint16
	for i := 0; i < int(n); i++ {
		base := int64(12 * i)
		tag, terr := view.ReadU16(base, w.order)
		typRaw, yerr := view.ReadU16(base+2, w.order)
		count, cerr := view.ReadU32(base+4, w.order)
		valOff, verr := view.ReadU32(base+8, w.order)
		if terr != nil || yerr != nil || cerr != nil || verr != nil {
			return nil, msg.NewFatalError("TIFF-HUL-1", fmt.Sprintf("could not decode IFD entry %d at offset %d", i, offset), offset)
		}

		if i > 0 && tag <= prevTag && !opts.DebugAllowOutOfSequence {
			info.AddMessage(msg.NewError("TIFF-HUL-2", fmt.Sprintf("tag %d is out of sequence (previous tag was %d)", tag, prevTag)))
		}
		prevTag = tag

		typ := Type(typRaw)
		if !typ.Valid() {
			info.AddMessage(msg.NewError("TIFF-HUL-3", fmt.Sprintf("tag %d has invalid type %d", tag, typRaw)))
			continue
		}
		if typ >= SBYTE {
			ifd.Version = 6
		}

		entry := Entry{Tag: tag, Type: typ, Count: count, ValueOrOffset: valOff}
		sizeBytes := int64(elementSize(typ)) * int64(count)
		if sizeBytes <= 4 {
			entry.inline = true
			entry.inlineOffset = offset + 2 + base + 8
		} else {
			entry.inline = false
			if valOff%2 != 0 {
				if opts.ByteOffsetIsValid {
					info.AddMessage(msg.NewInfo("TIFF-HUL-4", fmt.Sprintf("tag %d has an odd value offset %d", tag, valOff)))
				} else {
					return nil, msg.NewFatalError("TIFF-HUL-4", fmt.Sprintf("tag %d has an odd value offset %d", tag, valOff), int64(valOff))
				}
			}
		}

		ifd.Entries = append(ifd.Entries, entry)

		if lookup != nil {
			if err := lookup(w, ifd, entry, info, opts); err != nil {
				return nil, err
			}
		}
	}

	if post != nil {
		if err := post(w, ifd, info); err != nil {
			return nil, err
		}
	}

	return ifd, nil
}

// CheckType accepts BYTE/SHORT/LONG/IFDType interchangeably against any
// expected unsigned-integer type, matching IFD.java's checkType, and
// rejects any other mismatch as TIFF-HUL-7.
func CheckType(tag uint16, typ, expected Type) error {
	if typ == expected {
		return nil
	}
	if isUnsignedIntType(typ) && isUnsignedIntType(expected) {
		return nil
	}
	return &typeMismatchError{tag: tag, got: typ, want: expected}
}

func isUnsignedIntType(t Type) bool {
	switch t {
	case BYTE, SHORT, LONG, IFDType:
		return true
	default:
		return false
	}
}

type typeMismatchError struct {
	tag      uint16
	got, want Type
}

func (e *typeMismatchError) Error() string {
	return fmt.Sprintf("TIFF-HUL-7: tag %d has type %s, expected %s", e.tag, e.got, e.want)
}

func (e *typeMismatchError) ToMessage() msg.Message {
	return msg.NewError("TIFF-HUL-7", e.Error())
}

// CheckCount rejects count < min as TIFF-HUL-6.
func CheckCount(tag uint16, count uint32, min int) error {
	if int(count) < min {
		return fmt.Errorf("TIFF-HUL-6: tag %d has count %d, expected at least %d", tag, count, min)
	}
	return nil
}

// CheckCountArray rejects a count too large to safely allocate for,
// before any allocation is attempted.
func CheckCountArray(tag uint16, count uint32) error {
	if count > math.MaxInt32 {
		return fmt.Errorf("TIFF-HUL-6: tag %d has an unreasonable count %d", tag, count)
	}
	return nil
}
