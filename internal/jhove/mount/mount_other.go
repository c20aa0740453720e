//go:build !linux
// +build !linux

package mount

import (
	"fmt"
	"io"
)

// Mount is unsupported outside Linux, matching the teacher's own
// FUSE-mount platform restriction.
func Mount(mountpoint string, r io.ReaderAt, entries []Entry, fn func(mountpoint string) error) error {
	return fmt.Errorf("mount: FUSE mount is only supported on Linux")
}
