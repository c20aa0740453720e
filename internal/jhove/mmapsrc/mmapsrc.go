// Package mmapsrc adapts the teacher's internal/mmap (a page-aligned
// memory-mapped file region, originally used to back a disk image being
// carved without copying it through read syscalls) into a bin.Source, for
// characterizing very large files — a multi-gigabyte TIFF with deep IFD
// chains, say — without a read(2) call per field access.
package mmapsrc

import (
	"fmt"

	"github.com/ostafen/digler/internal/jhove/bin"
	"github.com/ostafen/digler/internal/mmap"
)

// Source wraps a memory-mapped file as a bin.Source.
type Source struct {
	mf *mmap.MmapFile
}

// Open memory-maps the whole file at path and returns it as a bin.Source.
func Open(path string) (*Source, error) {
	mf, err := mmap.NewMmapFile(path)
	if err != nil {
		return nil, err
	}
	return &Source{mf: mf}, nil
}

func (s *Source) Size() int64 { return int64(s.mf.FileSize) }

func (s *Source) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(s.mf.Data)) {
		return 0, fmt.Errorf("mmapsrc: offset %d out of range [0, %d)", off, len(s.mf.Data))
	}
	n := copy(p, s.mf.Data[off:])
	if n < len(p) {
		return n, fmt.Errorf("mmapsrc: short read at offset %d: got %d of %d bytes", off, n, len(p))
	}
	return n, nil
}

// Close unmaps the underlying region.
func (s *Source) Close() error { return s.mf.Close() }

var _ bin.Source = (*Source)(nil)
