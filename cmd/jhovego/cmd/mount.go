package cmd

import (
	"fmt"
	"os"

	"github.com/ostafen/digler/internal/jhove/dispatch"
	"github.com/ostafen/digler/internal/jhove/handler"
	"github.com/ostafen/digler/internal/jhove/mount"
)

// identifyMounted treats imagePath as a raw disk image, FUSE-mounts its
// contents as a single synthetic file at a temporary mountpoint, and runs
// d against the mounted path — used for images that aren't (or shouldn't
// be) copied out before characterization, e.g. a large disk image where a
// caller only wants to identify the container format without extracting
// it first.
func identifyMounted(d *dispatch.Dispatcher, imagePath string, h handler.Handler) error {
	f, err := os.Open(imagePath)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	mountpoint, err := os.MkdirTemp("", "jhovego-mount-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(mountpoint)

	name := st.Name()
	entries := mount.WholeImage(name, st.Size())

	return mount.Mount(mountpoint, f, entries, func(mp string) error {
		return d.Sweep(fmt.Sprintf("%s/%s", mp, name), h)
	})
}
