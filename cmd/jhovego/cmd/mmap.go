package cmd

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ostafen/digler/internal/jhove/dispatch"
	"github.com/ostafen/digler/internal/jhove/handler"
	"github.com/ostafen/digler/internal/jhove/mmapsrc"
)

// identifyMmapped characterizes path the same way Sweep does, but backs
// each file with a memory-mapped bin.Source (internal/jhove/mmapsrc)
// instead of read(2) calls, so a multi-gigabyte file with a deep IFD
// chain doesn't cost a syscall per field access.
func identifyMmapped(d *dispatch.Dispatcher, path string, h handler.Handler) error {
	st, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return processMmappedFile(d, path, st.Size(), st.ModTime(), h)
	}
	return mmapDir(d, path, h)
}

func mmapDir(d *dispatch.Dispatcher, dir string, h handler.Handler) error {
	if err := h.StartDirectory(dir); err != nil {
		return err
	}
	defer h.EndDirectory()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if err := mmapDir(d, full, h); err != nil {
				return err
			}
			continue
		}
		info, err := e.Info()
		if err != nil {
			return err
		}
		if err := processMmappedFile(d, full, info.Size(), info.ModTime(), h); err != nil {
			return err
		}
	}
	return nil
}

func processMmappedFile(d *dispatch.Dispatcher, path string, size int64, modTime time.Time, h handler.Handler) error {
	src, err := mmapsrc.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	return d.ProcessSource(path, src, size, modTime, h)
}
