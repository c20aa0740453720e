package tiff

import (
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/msg"
	"github.com/ostafen/digler/internal/jhove/prop"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

// Exif sub-IFD tag numbers, grounded on fedragon/tiff-parser/tiff/entry
// and jrm-1535/exif's tag naming.
const (
	TagExposureTime        = 0x829a
	TagFNumber              = 0x829d
	TagISOSpeedRatings      = 0x8827
	TagDateTimeOriginal     = 0x9003
	TagOffsetTimeOriginal   = 0x9011
	TagExifVersion          = 0x9000
	TagColorSpace           = 0xa001
	TagPixelXDimension      = 0xa002
	TagPixelYDimension      = 0xa003
	TagInteropIFDPointer    = 0xa005
)

var colorSpaceLabels = map[int64]string{
	1: "sRGB", 65535: "Uncalibrated",
}

// LookupExifTag decodes one entry of an Exif sub-IFD, replacing ExifIFD's
// lookupTag override.
func LookupExifTag(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, opts module.Options) error {
	switch e.Tag {
	case TagExposureTime:
		return addRationalScalar(w, ifd, e, info, "ExposureTime")
	case TagFNumber:
		return addRationalScalar(w, ifd, e, info, "FNumber")
	case TagISOSpeedRatings:
		return addUintArray(w, ifd, e, info, "ISOSpeedRatings")
	case TagDateTimeOriginal:
		return addASCII(w, ifd, e, info, "DateTimeOriginal")
	case TagOffsetTimeOriginal:
		return addASCII(w, ifd, e, info, "OffsetTimeOriginal")
	case TagExifVersion:
		return addUndefinedAsASCII(w, ifd, e, info, "ExifVersion")
	case TagColorSpace:
		return addLabeled(w, ifd, e, info, "ColorSpace", colorSpaceLabels, opts.Raw)
	case TagPixelXDimension:
		return addUintScalar(w, ifd, e, info, "PixelXDimension")
	case TagPixelYDimension:
		return addUintScalar(w, ifd, e, info, "PixelYDimension")
	case TagInteropIFDPointer:
		return addUintScalar(w, ifd, e, info, "InteropIFDPointer")
	default:
		return LookupUnknownTag(w, ifd, e, info, opts)
	}
}

// addUndefinedAsASCII reads an UNDEFINED-typed tag's raw bytes and stores
// them as a printable string, for tags like ExifVersion that are four
// ASCII digits packed into an UNDEFINED field per the Exif spec.
func addUndefinedAsASCII(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, name string) error {
	if err := CheckType(e.Tag, e.Type, UNDEFINED); err != nil {
		info.AddMessage(msg.NewError("TIFF-HUL-7", err.Error()))
		return nil
	}
	raw, err := ReadByteArray(w.Source(), w.Order(), e)
	if err != nil {
		return nil
	}
	info.AddProperty(prop.NewString(name, string(raw)))
	return nil
}
