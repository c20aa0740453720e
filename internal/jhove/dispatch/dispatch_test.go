package dispatch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ostafen/digler/internal/jhove/bin"
	"github.com/ostafen/digler/internal/jhove/checksum"
	"github.com/ostafen/digler/internal/jhove/handler"
	"github.com/ostafen/digler/internal/jhove/module"
	"github.com/ostafen/digler/internal/jhove/repinfo"
	"github.com/ostafen/digler/internal/jhove/tiff"
)

type recordingHandler struct {
	handler.Base
	seen []*repinfo.RepInfo
}

func (r *recordingHandler) ShowHeader() error                                   { return nil }
func (r *recordingHandler) ShowModule(module.Descriptor) error                  { return nil }
func (r *recordingHandler) ShowRepInfo(info *repinfo.RepInfo) error             { r.seen = append(r.seen, info); return nil }
func (r *recordingHandler) ShowHandlerSelf(name, release string) error          { return nil }
func (r *recordingHandler) ShowApp(name, release, buildDate string) error       { return nil }
func (r *recordingHandler) ShowFooter() error                                   { return nil }
func (r *recordingHandler) Close() error                                        { return nil }
func (r *recordingHandler) StartDirectory(path string) error                    { return nil }
func (r *recordingHandler) EndDirectory() error                                 { return nil }

func writeTIFF(t *testing.T, path string) {
	t.Helper()
	buf := []byte{
		'I', 'I', 42, 0, // header
		8, 0, 0, 0, // first IFD at offset 8
		0, 0, // 0 entries
		0, 0, 0, 0, // next = 0
	}
	require.NoError(t, os.WriteFile(path, buf, 0644))
}

func TestDispatcher_ProcessPath_RecognizesTIFF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.tif")
	writeTIFF(t, path)

	d := New(module.Options{})
	d.RegisterRandomAccess(tiff.New())

	h := &recordingHandler{}
	require.NoError(t, d.ProcessPath(path, h))
	require.Len(t, h.seen, 1)
	require.Equal(t, "TIFF-hul", h.seen[0].Module)
	require.Equal(t, repinfo.True, h.seen[0].WellFormed)
}

func TestDispatcher_ProcessSource_RecognizesTIFF(t *testing.T) {
	buf := []byte{
		'I', 'I', 42, 0,
		8, 0, 0, 0,
		0, 0,
		0, 0, 0, 0,
	}
	src := bin.NewSource(bytes.NewReader(buf), int64(len(buf)))

	d := New(module.Options{})
	d.RegisterRandomAccess(tiff.New())

	h := &recordingHandler{}
	require.NoError(t, d.ProcessSource("sample.tif", src, int64(len(buf)), time.Now(), h))
	require.Len(t, h.seen, 1)
	require.Equal(t, "TIFF-hul", h.seen[0].Module)
	require.Equal(t, repinfo.True, h.seen[0].WellFormed)
}

func TestDispatcher_ProcessPath_ComputesRequestedChecksums(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.tif")
	writeTIFF(t, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := checksum.Compute(bytes.NewReader(raw), checksum.CRC32, checksum.MD5)
	require.NoError(t, err)

	d := New(module.Options{})
	d.RegisterRandomAccess(tiff.New())
	d.Checksums = []checksum.Algorithm{checksum.CRC32, checksum.MD5}

	h := &recordingHandler{}
	require.NoError(t, d.ProcessPath(path, h))
	require.Len(t, h.seen, 1)
	require.Equal(t, want, h.seen[0].Checksums)
}

func TestDispatcher_ProcessSource_ComputesRequestedChecksumsWithoutRereadingFile(t *testing.T) {
	buf := []byte{
		'I', 'I', 42, 0,
		8, 0, 0, 0,
		0, 0,
		0, 0, 0, 0,
	}
	want, err := checksum.Compute(bytes.NewReader(buf), checksum.SHA1)
	require.NoError(t, err)

	src := bin.NewSource(bytes.NewReader(buf), int64(len(buf)))

	d := New(module.Options{})
	d.RegisterRandomAccess(tiff.New())
	d.Checksums = []checksum.Algorithm{checksum.SHA1}

	h := &recordingHandler{}
	require.NoError(t, d.ProcessSource("sample.tif", src, int64(len(buf)), time.Now(), h))
	require.Len(t, h.seen, 1)
	require.Equal(t, want, h.seen[0].Checksums)
}

func TestDispatcher_ProcessPath_UnrecognizedFileIsInfoNotError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.bin")
	require.NoError(t, os.WriteFile(path, []byte("not a real format"), 0644))

	d := New(module.Options{})
	d.RegisterRandomAccess(tiff.New())

	h := &recordingHandler{}
	require.NoError(t, d.ProcessPath(path, h))
	require.Len(t, h.seen, 1)
	require.Empty(t, h.seen[0].Module)
}
