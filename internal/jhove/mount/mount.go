// Package mount exposes a set of byte ranges within a disk image as a
// synthetic read-only directory, via FUSE, so the dispatcher can run
// against each range as an ordinary file path without ever copying it out
// of the image first.
//
// Adapted from the teacher's internal/fuse: RecoverFS there synthesizes a
// flat directory of carved (name, offset, size) entries over a disk
// image's io.ReaderAt so a scan's carving results can be browsed without
// re-copying them to disk. This package keeps that exact mechanism and
// repurposes its output for characterization instead of browsing: mount a
// disk image (or a set of already-carved ranges within one), then hand
// the mountpoint to dispatch.Dispatcher.Sweep so every entry is
// identified, validated, and characterized in place.
package mount

// Entry is one byte range within a disk image to expose as a file.
type Entry struct {
	Name   string
	Offset uint64
	Size   uint64
}

// WholeImage returns a single Entry spanning all of r, named name, for the
// common case of characterizing a disk image (or any other non-regular-file
// io.ReaderAt source) as if it were one ordinary file.
func WholeImage(name string, size int64) []Entry {
	return []Entry{{Name: name, Offset: 0, Size: uint64(size)}}
}
