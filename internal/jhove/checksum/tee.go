package checksum

import (
	"io"
	"sync"

	"github.com/ostafen/digler/internal/jhove/bin"
)

// TeeSource wraps a bin.Source, feeding every byte the source hands back
// through the requested digests exactly once, in file order, as a module
// reads it — so a module's own Parse pass over src is also the checksum
// pass spec.md §4.H calls for ("a tee over the input stream ... in a
// single pass co-mingled with parse"), with no second read of the file
// afterward. Bytes a random-access parse jumps over rather than visits in
// order are filled in from the same src the first time the gap is
// crossed; bytes it revisits are not re-hashed.
type TeeSource struct {
	src  bin.Source
	mu   sync.Mutex
	next int64
	w    io.Writer
	sums func() map[string]string
}

// NewTee builds a TeeSource computing every digest in algs as src is read.
func NewTee(src bin.Source, algs ...Algorithm) *TeeSource {
	w, sums := hashers(algs)
	return &TeeSource{src: src, w: w, sums: sums}
}

func (t *TeeSource) Size() int64 { return t.src.Size() }

func (t *TeeSource) ReadAt(p []byte, off int64) (int, error) {
	n, err := t.src.ReadAt(p, off)
	if n > 0 {
		t.observe(off, p[:n])
	}
	return n, err
}

// observe feeds any bytes of p not already hashed into the digest,
// reading the gap between the current high-water mark and off directly
// from src first if the two don't already meet.
func (t *TeeSource) observe(off int64, p []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if off > t.next {
		gap := make([]byte, off-t.next)
		n, _ := t.src.ReadAt(gap, t.next)
		if n > 0 {
			t.w.Write(gap[:n])
			t.next += int64(n)
		}
		if t.next < off {
			// src couldn't fill the gap; give up rather than hash a
			// discontiguous stream out of order.
			return
		}
	}

	end := off + int64(len(p))
	if end <= t.next {
		return
	}
	t.w.Write(p[t.next-off:])
	t.next = end
}

// Finish hashes any trailing bytes Parse never read and returns every
// requested digest as lowercase hex, keyed by Algorithm. Safe to call
// once, after the parse pass over the wrapped source has finished.
func (t *TeeSource) Finish() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()

	const chunk = 64 * 1024
	size := t.src.Size()
	buf := make([]byte, chunk)
	for t.next < size {
		n := int64(len(buf))
		if remaining := size - t.next; remaining < n {
			n = remaining
		}
		read, err := t.src.ReadAt(buf[:n], t.next)
		if read > 0 {
			t.w.Write(buf[:read])
			t.next += int64(read)
		}
		if err != nil {
			break
		}
	}
	return t.sums()
}

var _ bin.Source = (*TeeSource)(nil)
