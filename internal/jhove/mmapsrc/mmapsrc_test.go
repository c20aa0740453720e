package mmapsrc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSource_ReadAtAndSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.bin")
	want := []byte("the quick brown fox jumps over the lazy dog")
	require.NoError(t, os.WriteFile(path, want, 0o644))

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, int64(len(want)), src.Size())

	got := make([]byte, 5)
	n, err := src.ReadAt(got, 4)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, want[4:9], got)
}

func TestSource_ReadAtOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	_, err = src.ReadAt(make([]byte, 1), 100)
	require.Error(t, err)
}
