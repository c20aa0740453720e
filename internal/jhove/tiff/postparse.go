package tiff

import (
	"fmt"

	"github.com/ostafen/digler/internal/jhove/repinfo"
)

// MainPostParse enforces cross-tag invariants of a primary IFD that no
// single entry's lookup can check alone: StripOffsets and TileOffsets are
// mutually exclusive per TIFF 6.0, and a SamplesPerPixel below the count
// implied by BitsPerSample suggests a truncated color description.
// Replaces MainIFD's postParseInitialization override.
func MainPostParse(w *Walker, ifd *IFD, info *repinfo.RepInfo) error {
	_, hasStrips := ifd.byTag(TagStripOffsets)
	_, hasTiles := ifd.byTag(TagTileOffsets)
	if hasStrips && hasTiles {
		ifd.Errors = append(ifd.Errors, "StripOffsets and TileOffsets are both present; TIFF 6.0 requires exactly one")
	}

	if bpsEntry, ok := ifd.byTag(TagBitsPerSample); ok {
		if sppEntry, ok := ifd.byTag(TagSamplesPerPixel); ok {
			spp, err := readUintGeneric(w, sppEntry)
			if err == nil && int(spp) < int(bpsEntry.Count) {
				ifd.Errors = append(ifd.Errors, fmt.Sprintf(
					"SamplesPerPixel is %d but BitsPerSample lists %d components; the color description looks truncated",
					spp, bpsEntry.Count))
			}
		}
	}
	return nil
}
