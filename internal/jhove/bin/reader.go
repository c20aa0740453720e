// Package bin provides endian-aware primitive reads over seekable,
// byte-addressable storage. Endianness is always an explicit per-call
// argument, never a package global, so a single Reader can serve both
// little-endian and big-endian regions of the same file (as TIFF requires
// once it starts following offsets into sub-IFDs written by a different
// tool).
package bin

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Source is the storage a Reader reads from: anything that can answer a
// ReadAt at an absolute offset and report its own size. *os.File and
// io.NewSectionReader both satisfy it.
type Source interface {
	io.ReaderAt
	Size() int64
}

// sizedReaderAt adapts an io.ReaderAt with a known size to Source.
type sizedReaderAt struct {
	io.ReaderAt
	size int64
}

func (s sizedReaderAt) Size() int64 { return s.size }

// NewSource wraps an io.ReaderAt of known size as a Source.
func NewSource(r io.ReaderAt, size int64) Source {
	return sizedReaderAt{ReaderAt: r, size: size}
}

// ErrUnexpectedEOF is returned, wrapped with the failing offset, whenever a
// read runs past the end of the Source.
var ErrUnexpectedEOF = io.ErrUnexpectedEOF

// EOFError reports the absolute offset a read failed at.
type EOFError struct {
	Offset int64
	Err    error
}

func (e *EOFError) Error() string {
	return fmt.Sprintf("read past end of stream at offset %d: %v", e.Offset, e.Err)
}

func (e *EOFError) Unwrap() error { return e.Err }

// Reader is a thin, allocation-free wrapper around a Source exposing
// typed, endian-aware reads at absolute offsets.
type Reader struct {
	src Source
}

// New returns a Reader over src.
func New(src Source) *Reader {
	return &Reader{src: src}
}

func (r *Reader) Size() int64 { return r.src.Size() }

func (r *Reader) ReadBytes(off int64, n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("bin: negative read length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(io.NewSectionReader(r.src, off, int64(n)), buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, &EOFError{Offset: off, Err: err}
		}
		return nil, err
	}
	return buf, nil
}

func (r *Reader) ReadU8(off int64) (uint8, error) {
	b, err := r.ReadBytes(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadI8(off int64) (int8, error) {
	v, err := r.ReadU8(off)
	return int8(v), err
}

func (r *Reader) ReadU16(off int64, order binary.ByteOrder) (uint16, error) {
	b, err := r.ReadBytes(off, 2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

func (r *Reader) ReadI16(off int64, order binary.ByteOrder) (int16, error) {
	v, err := r.ReadU16(off, order)
	return int16(v), err
}

func (r *Reader) ReadU32(off int64, order binary.ByteOrder) (uint32, error) {
	b, err := r.ReadBytes(off, 4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}

func (r *Reader) ReadI32(off int64, order binary.ByteOrder) (int32, error) {
	v, err := r.ReadU32(off, order)
	return int32(v), err
}

func (r *Reader) ReadU64(off int64, order binary.ByteOrder) (uint64, error) {
	b, err := r.ReadBytes(off, 8)
	if err != nil {
		return 0, err
	}
	return order.Uint64(b), nil
}

func (r *Reader) ReadI64(off int64, order binary.ByteOrder) (int64, error) {
	v, err := r.ReadU64(off, order)
	return int64(v), err
}

func (r *Reader) ReadF32(off int64, order binary.ByteOrder) (float32, error) {
	v, err := r.ReadU32(off, order)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (r *Reader) ReadF64(off int64, order binary.ByteOrder) (float64, error) {
	v, err := r.ReadU64(off, order)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// View returns a memory-backed window over [off, off+n) so a caller can
// decode many small fields (e.g. a whole IFD's worth of 12-byte entries)
// without issuing a ReadAt per field.
func (r *Reader) View(off int64, n int) (*View, error) {
	buf, err := r.ReadBytes(off, n)
	if err != nil {
		return nil, err
	}
	return &View{buf: buf, base: off}, nil
}

// View is a prefetched byte window with the same typed-read surface as
// Reader, addressed by offset relative to the window's start.
type View struct {
	buf  []byte
	base int64
}

func (v *View) Len() int { return len(v.buf) }

// BaseOffset returns the absolute file offset the window starts at.
func (v *View) BaseOffset() int64 { return v.base }

func (v *View) slice(off int64, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+int64(n) > int64(len(v.buf)) {
		return nil, &EOFError{Offset: v.base + off, Err: io.ErrUnexpectedEOF}
	}
	return v.buf[off : off+int64(n)], nil
}

func (v *View) ReadU8(off int64) (uint8, error) {
	b, err := v.slice(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (v *View) ReadU16(off int64, order binary.ByteOrder) (uint16, error) {
	b, err := v.slice(off, 2)
	if err != nil {
		return 0, err
	}
	return order.Uint16(b), nil
}

func (v *View) ReadU32(off int64, order binary.ByteOrder) (uint32, error) {
	b, err := v.slice(off, 4)
	if err != nil {
		return 0, err
	}
	return order.Uint32(b), nil
}
