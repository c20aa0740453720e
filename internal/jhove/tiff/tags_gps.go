package tiff

import (
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

// GPS sub-IFD tag numbers, grounded on the same fedragon/tiff-parser
// constants used for Exif, plus thraxil/exifgo's GPSIFD tag id for the
// pointer itself (referenced from tags_main.go's TagGPSInfoIFDPointer).
const (
	TagGPSLatitudeRef  = 1
	TagGPSLatitude     = 2
	TagGPSLongitudeRef = 3
	TagGPSLongitude    = 4
)

// LookupGPSTag decodes one entry of a GPS sub-IFD, replacing GPSIFD's
// lookupTag override.
func LookupGPSTag(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, opts module.Options) error {
	switch e.Tag {
	case TagGPSLatitudeRef:
		return addASCII(w, ifd, e, info, "GPSLatitudeRef")
	case TagGPSLatitude:
		return addRationalArray(w, ifd, e, info, "GPSLatitude", 3)
	case TagGPSLongitudeRef:
		return addASCII(w, ifd, e, info, "GPSLongitudeRef")
	case TagGPSLongitude:
		return addRationalArray(w, ifd, e, info, "GPSLongitude", 3)
	default:
		return LookupUnknownTag(w, ifd, e, info, opts)
	}
}
