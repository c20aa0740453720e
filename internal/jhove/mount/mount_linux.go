//go:build linux
// +build linux

package mount

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
)

// Mount serves entries backed by r as a read-only synthetic directory at
// mountpoint, running fn once the filesystem is live, then unmounts
// before returning. Unlike the teacher's Mount (which serves until a
// termination signal arrives, since it backs an interactive recovery
// browsing session), this Mount runs a single characterization pass and
// tears the mount down itself, since a dispatcher sweep is a bounded
// operation rather than a session a user interacts with over the
// mountpoint.
func Mount(mountpoint string, r io.ReaderAt, entries []Entry, fn func(mountpoint string) error) error {
	created, err := prepareMountpoint(mountpoint)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(mountpoint)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	defer c.Close()

	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}
	ifs := &imageFS{r: r, entries: byName}

	serveErr := make(chan error, 1)
	go func() {
		srv := fusefs.New(c, nil)
		serveErr <- srv.Serve(ifs)
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigc)

	fnErr := make(chan error, 1)
	go func() { fnErr <- fn(mountpoint) }()

	select {
	case err := <-fnErr:
		unmountRetry(mountpoint)
		return err
	case sig := <-sigc:
		slog.Info("mount: signal received, unmounting", "signal", sig)
		unmountRetry(mountpoint)
		return fmt.Errorf("mount: interrupted by %v", sig)
	case err := <-serveErr:
		return fmt.Errorf("mount: fuse server exited: %w", err)
	}
}

func unmountRetry(mountpoint string) {
	const maxAttempts = 3
	for i := 0; i < maxAttempts; i++ {
		if err := fuse.Unmount(mountpoint); err == nil {
			return
		}
	}
	slog.Warn("mount: could not unmount cleanly after retries", "mountpoint", mountpoint)
}

// prepareMountpoint ensures mountpoint is a valid, empty directory,
// creating it if necessary. Returns true if it created the directory.
func prepareMountpoint(mountpoint string) (bool, error) {
	finfo, err := os.Stat(mountpoint)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(mountpoint, 0755); err != nil {
			return false, fmt.Errorf("failed to create mountpoint %s: %w", mountpoint, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat mountpoint %s: %w", mountpoint, err)
	}
	if !finfo.IsDir() {
		return false, fmt.Errorf("mountpoint %s is not a directory", mountpoint)
	}

	empty, err := isDirEmpty(mountpoint)
	if err != nil {
		return false, fmt.Errorf("failed to check if mountpoint %s is empty: %w", mountpoint, err)
	}
	if !empty {
		return false, fmt.Errorf("mountpoint %s is not empty", mountpoint)
	}
	return false, nil
}

func isDirEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	entries, err := f.Readdir(1)
	if err != nil {
		if err == io.EOF {
			return true, nil
		}
		return false, err
	}
	return len(entries) == 0, nil
}
