package checksum

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/digler/internal/jhove/bin"
)

func TestTeeSource_SequentialReadMatchesCompute(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, twice over")
	src := bin.NewSource(bytes.NewReader(data), int64(len(data)))

	want, err := Compute(bytes.NewReader(data), CRC32, MD5, SHA256)
	require.NoError(t, err)

	tee := NewTee(src, CRC32, MD5, SHA256)
	buf := make([]byte, 8)
	for off := int64(0); off < int64(len(data)); off += int64(len(buf)) {
		n, _ := tee.ReadAt(buf, off)
		_ = n
	}
	require.Equal(t, want, tee.Finish())
}

func TestTeeSource_OutOfOrderAndRevisitedReadsStillMatch(t *testing.T) {
	data := []byte("0123456789abcdefghijklmnopqrstuvwxyz")
	src := bin.NewSource(bytes.NewReader(data), int64(len(data)))

	want, err := Compute(bytes.NewReader(data), MD5)
	require.NoError(t, err)

	tee := NewTee(src, MD5)

	// Read the tail first, leaving a gap TeeSource must backfill.
	tail := make([]byte, 10)
	tee.ReadAt(tail, int64(len(data)-10))

	// Revisit the same tail — must not be hashed twice.
	tee.ReadAt(tail, int64(len(data)-10))

	// Read the head, which the first tail read already backfilled — must
	// not be hashed again either.
	head := make([]byte, 5)
	tee.ReadAt(head, 0)

	require.Equal(t, want, tee.Finish())
}

func TestTeeSource_NoReadsAtAllStillDigestsWholeFileOnFinish(t *testing.T) {
	data := []byte("untouched")
	src := bin.NewSource(bytes.NewReader(data), int64(len(data)))

	want, err := Compute(bytes.NewReader(data), SHA1)
	require.NoError(t, err)

	tee := NewTee(src, SHA1)
	require.Equal(t, want, tee.Finish())
}
