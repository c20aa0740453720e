package tiff

import (
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/repinfo"
)

// Interoperability sub-IFD tag numbers.
const (
	TagInteroperabilityIndex = 0x0001
)

// LookupInteropTag decodes one entry of an Interoperability sub-IFD,
// replacing InteropIFD's lookupTag override.
func LookupInteropTag(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, opts module.Options) error {
	switch e.Tag {
	case TagInteroperabilityIndex:
		return addASCII(w, ifd, e, info, "InteroperabilityIndex")
	default:
		return LookupUnknownTag(w, ifd, e, info, opts)
	}
}

// GlobalParams sub-IFD tag numbers, per TIFF/EP's global parameters IFD.
const (
	TagGlobalParamsIFDPointer = 0x9224
)

// LookupGlobalParamsTag decodes one entry of a GlobalParameters sub-IFD,
// replacing GlobalParametersIFD's lookupTag override. This IFD kind
// carries no baseline tags of its own in the core spec; unrecognized
// entries are reported generically like any other module's unknown tags.
func LookupGlobalParamsTag(w *Walker, ifd *IFD, e Entry, info *repinfo.RepInfo, opts module.Options) error {
	return LookupUnknownTag(w, ifd, e, info, opts)
}
