package tiff

import (
	"fmt"

	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/msg"
	"github.com/ostafen/digler/internal/jhove/prop"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

// Baseline TIFF 6.0 tag numbers, grounded on the union of
// mdouchement/tiff's tag table and fedragon/tiff-parser's entry.ID
// constants.
const (
	TagNewSubfileType           = 254
	TagImageWidth               = 256
	TagImageLength               = 257
	TagBitsPerSample             = 258
	TagCompression                = 259
	TagPhotometricInterpretation = 262
	TagStripOffsets              = 273
	TagSamplesPerPixel           = 277
	TagRowsPerStrip              = 278
	TagStripByteCounts           = 279
	TagXResolution               = 282
	TagYResolution               = 283
	TagPlanarConfiguration       = 284
	TagResolutionUnit            = 296
	TagSoftware                  = 305
	TagDateTime                  = 306
	TagArtist                    = 315
	TagPredictor                 = 317
	TagCopyright                 = 33432
	TagTileWidth                 = 322
	TagTileLength                = 323
	TagTileOffsets               = 324
	TagTileByteCounts            = 325
	TagSampleFormat              = 339
	TagExifIFDPointer            = 0x8769
	TagGPSInfoIFDPointer         = 0x8825
)

var compressionLabels = map[int64]string{
	1: "Uncompressed", 2: "CCITT 1D", 3: "CCITT Group 3", 4: "CCITT Group 4",
	5: "LZW", 6: "JPEG (old-style)", 7: "JPEG", 8: "Deflate", 32773: "PackBits",
}

var photometricLabels = map[int64]string{
	0: "WhiteIsZero", 1: "BlackIsZero", 2: "RGB", 3: "Palette Color",
	4: "Transparency Mask", 5: "CMYK", 6: "YCbCr", 8: "CIELab",
}

var resolutionUnitLabels = map[int64]string{
	1: "None", 2: "Inch", 3: "Centimeter",
}

var planarConfigLabels = map[int64]string{
	1: "Chunky", 2: "Planar",
}

var predictorLabels = map[int64]string{
	1: "None", 2: "Horizontal differencing", 3: "Floating point",
}

// newSubfileTypeLabels indexes NewSubfileType's bit flags by bit position,
// per TIFF 6.0 §8: bit 0 marks a reduced-resolution version of another
// image in the file, bit 1 marks one page of a multi-page document, bit 2
// marks a transparency mask for another image.
var newSubfileTypeLabels = []string{
	"ReducedResolution", "MultiPage", "TransparencyMask",
}

// LookupMainTag decodes one entry of the primary (or a subsequent page's)
// IFD, replacing MainIFD's lookupTag override.
func LookupMainTag(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, opts module.Options) error {
	switch e.Tag {
	case TagNewSubfileType:
		return addBitmask(w, ifd, e, info, "NewSubfileType", newSubfileTypeLabels, opts.Raw)
	case TagImageWidth:
		return addUintScalar(w, ifd, e, info, "ImageWidth")
	case TagImageLength:
		return addUintScalar(w, ifd, e, info, "ImageLength")
	case TagBitsPerSample:
		return addUintArray(w, ifd, e, info, "BitsPerSample")
	case TagCompression:
		return addLabeled(w, ifd, e, info, "Compression", compressionLabels, opts.Raw)
	case TagPhotometricInterpretation:
		return addLabeled(w, ifd, e, info, "PhotometricInterpretation", photometricLabels, opts.Raw)
	case TagStripOffsets:
		return addUintArray(w, ifd, e, info, "StripOffsets")
	case TagSamplesPerPixel:
		return addUintScalar(w, ifd, e, info, "SamplesPerPixel")
	case TagRowsPerStrip:
		return addUintScalar(w, ifd, e, info, "RowsPerStrip")
	case TagStripByteCounts:
		return addUintArray(w, ifd, e, info, "StripByteCounts")
	case TagXResolution:
		return addRationalScalar(w, ifd, e, info, "XResolution")
	case TagYResolution:
		return addRationalScalar(w, ifd, e, info, "YResolution")
	case TagPlanarConfiguration:
		return addLabeled(w, ifd, e, info, "PlanarConfiguration", planarConfigLabels, opts.Raw)
	case TagResolutionUnit:
		return addLabeled(w, ifd, e, info, "ResolutionUnit", resolutionUnitLabels, opts.Raw)
	case TagSoftware:
		return addASCII(w, ifd, e, info, "Software")
	case TagDateTime:
		return addASCII(w, ifd, e, info, "DateTime")
	case TagArtist:
		return addASCII(w, ifd, e, info, "Artist")
	case TagCopyright:
		return addASCII(w, ifd, e, info, "Copyright")
	case TagPredictor:
		return addLabeled(w, ifd, e, info, "Predictor", predictorLabels, opts.Raw)
	case TagTileWidth:
		return addUintScalar(w, ifd, e, info, "TileWidth")
	case TagTileLength:
		return addUintScalar(w, ifd, e, info, "TileLength")
	case TagTileOffsets:
		return addUintArray(w, ifd, e, info, "TileOffsets")
	case TagTileByteCounts:
		return addUintArray(w, ifd, e, info, "TileByteCounts")
	case TagSampleFormat:
		return addUintArray(w, ifd, e, info, "SampleFormat")
	case TagExifIFDPointer, TagGPSInfoIFDPointer, TagGlobalParamsIFDPointer:
		// Followed by Module.followSubIFDs after the main IFD is fully
		// decoded; recorded here only as a plain pointer property so it
		// is visible in the tree even if the sub-IFD walk is skipped.
		return addUintScalar(w, ifd, e, info, pointerName(e.Tag))
	default:
		return LookupUnknownTag(w, ifd, e, info, opts)
	}
}

func pointerName(tag uint16) string {
	switch tag {
	case TagExifIFDPointer:
		return "ExifIFDPointer"
	case TagGPSInfoIFDPointer:
		return "GPSInfoIFDPointer"
	case TagGlobalParamsIFDPointer:
		return "GlobalParamsIFDPointer"
	default:
		return fmt.Sprintf("IFDPointer%d", tag)
	}
}

// LookupUnknownTag emits a generic property for a tag number this module
// does not recognize, preserving type/count/raw bytes rather than
// treating an unrecognized tag as an error.
func LookupUnknownTag(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, opts module.Options) error {
	raw, err := readRawValueBytes(w, e)
	if err != nil {
		return err
	}
	info.AddProperty(prop.NewMap(fmt.Sprintf("Unknown Tag %d", e.Tag), map[string]prop.Property{
		"Type":  prop.NewString("Type", e.Type.String()),
		"Count": prop.NewUint32("Count", e.Count),
		"Value": prop.NewRaw("Value", raw),
	}))
	return nil
}

func readRawValueBytes(w *Walker, e Entry) ([]byte, error) {
	size := elementSize(e.Type) * int(e.Count)
	if size <= 0 {
		return nil, nil
	}
	if err := CheckCountArray(e.Tag, e.Count); err != nil {
		return nil, nil
	}
	return w.Reader().ReadBytes(e.ValueOffset(), size)
}

func addUintScalar(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, name string) error {
	v, err := readUintGeneric(w, e)
	if err != nil {
		return nil
	}
	info.AddProperty(prop.NewUint64(name, v))
	return nil
}

func addUintArray(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, name string) error {
	if err := CheckCountArray(e.Tag, e.Count); err != nil {
		info.AddMessage(msg.NewError("TIFF-HUL-6", err.Error()))
		return nil
	}
	vals, err := readUintArrayGeneric(w, e)
	if err != nil {
		return nil
	}
	info.AddProperty(prop.NewUintArray(name, vals))
	return nil
}

func addLabeled(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, name string, labels map[int64]string, raw bool) error {
	v, err := readUintGeneric(w, e)
	if err != nil {
		return nil
	}
	info.AddProperty(AddIntegerProperty(name, int64(v), labels, raw))
	return nil
}

func addBitmask(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, name string, labels []string, raw bool) error {
	v, err := readUintGeneric(w, e)
	if err != nil {
		return nil
	}
	info.AddProperty(AddBitmaskProperty(ifd, name, int64(v), labels, raw))
	return nil
}

func addRationalScalar(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, name string) error {
	if err := CheckType(e.Tag, e.Type, RATIONALTy); err != nil {
		info.AddMessage(msg.NewError("TIFF-HUL-7", err.Error()))
		return nil
	}
	if err := CheckCount(e.Tag, e.Count, 1); err != nil {
		info.AddMessage(msg.NewError("TIFF-HUL-6", err.Error()))
		return nil
	}
	v, err := ReadRational(w.Source(), w.Order(), e)
	if err != nil {
		return nil
	}
	info.AddProperty(prop.NewRational(name, v))
	return nil
}

// addRationalArray decodes a RATIONAL array tag, rejecting a count below
// minCount (e.g. GPSLatitude/GPSLongitude's fixed 3-element
// degrees/minutes/seconds triple) as TIFF-HUL-6 before ever reading it.
func addRationalArray(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, name string, minCount int) error {
	if err := CheckType(e.Tag, e.Type, RATIONALTy); err != nil {
		info.AddMessage(msg.NewError("TIFF-HUL-7", err.Error()))
		return nil
	}
	if err := CheckCount(e.Tag, e.Count, minCount); err != nil {
		info.AddMessage(msg.NewError("TIFF-HUL-6", err.Error()))
		return nil
	}
	if err := CheckCountArray(e.Tag, e.Count); err != nil {
		info.AddMessage(msg.NewError("TIFF-HUL-6", err.Error()))
		return nil
	}
	vals, err := ReadRationalArray(w.Source(), w.Order(), e)
	if err != nil {
		return nil
	}
	info.AddProperty(prop.NewRationalArray(name, vals))
	return nil
}

func addASCII(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, name string) error {
	if err := CheckType(e.Tag, e.Type, ASCII); err != nil {
		info.AddMessage(msg.NewError("TIFF-HUL-7", err.Error()))
		return nil
	}
	s, err := ReadASCII(w.Source(), w.Order(), e)
	if err != nil {
		return nil
	}
	info.AddProperty(prop.NewString(name, s))
	return nil
}

// readUintGeneric reads a single unsigned integer value regardless of
// whether it was encoded as BYTE, SHORT, LONG or IFD, per checkType's
// unsigned-integer interchangeability rule.
func readUintGeneric(w *Walker, e Entry) (uint64, error) {
	switch e.Type {
	case BYTE:
		v, err := ReadByte(w.Source(), w.Order(), e)
		return uint64(v), err
	case SHORT:
		v, err := ReadShort(w.Source(), w.Order(), e)
		return uint64(v), err
	case LONG, IFDType:
		v, err := ReadLong(w.Source(), w.Order(), e)
		return uint64(v), err
	default:
		return 0, fmt.Errorf("tag %d: unsupported integer type %s", e.Tag, e.Type)
	}
}

func readUintArrayGeneric(w *Walker, e Entry) ([]uint64, error) {
	switch e.Type {
	case BYTE:
		bs, err := ReadByteArray(w.Source(), w.Order(), e)
		if err != nil {
			return nil, err
		}
		out := make([]uint64, len(bs))
		for i, b := range bs {
			out[i] = uint64(b)
		}
		return out, nil
	case SHORT:
		ss, err := ReadShortArray(w.Source(), w.Order(), e)
		if err != nil {
			return nil, err
		}
		out := make([]uint64, len(ss))
		for i, s := range ss {
			out[i] = uint64(s)
		}
		return out, nil
	case LONG, IFDType:
		ls, err := ReadLongArray(w.Source(), w.Order(), e)
		if err != nil {
			return nil, err
		}
		out := make([]uint64, len(ls))
		for i, l := range ls {
			out[i] = uint64(l)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("tag %d: unsupported array integer type %s", e.Tag, e.Type)
	}
}

