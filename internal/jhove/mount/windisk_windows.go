//go:build windows
// +build windows

package mount

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Device is a raw Windows physical drive or volume opened for
// sector-aligned reading, adapted from the teacher's WindowsDiskFile
// (internal/fs/windows.go): Windows refuses unaligned ReadFile calls
// against a raw device handle, so every read is expanded to a
// sector-aligned buffer and trimmed back down to the caller's request.
// This is what lets `jhovego identify --mount \\.\PhysicalDrive0` treat a
// physical drive the same as any other io.ReaderAt-backed image source.
type Device struct {
	handle windows.Handle
	size   int64
}

const sectorSize = 512

type diskGeometry struct {
	Cylinders         int64
	MediaType         uint32
	TracksPerCylinder uint32
	SectorsPerTrack   uint32
	BytesPerSector    uint32
}

const ioctlDiskGetDriveGeometry = 0x70000

// OpenDevice opens a raw disk or volume path (e.g. `\\.\PhysicalDrive0`)
// for read-only access and queries its size via drive geometry.
func OpenDevice(path string) (*Device, error) {
	handle, err := windows.CreateFile(
		windows.StringToUTF16Ptr(path),
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil,
		windows.OPEN_EXISTING,
		0,
		0,
	)
	if err != nil {
		return nil, fmt.Errorf("mount: opening device %q: %w", path, err)
	}

	var geometry diskGeometry
	var bytesReturned uint32
	if err := windows.DeviceIoControl(
		handle,
		ioctlDiskGetDriveGeometry,
		nil, 0,
		(*byte)(unsafe.Pointer(&geometry)), uint32(unsafe.Sizeof(geometry)),
		&bytesReturned, nil,
	); err != nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("mount: querying geometry of %q: %w", path, err)
	}

	size := geometry.Cylinders * int64(geometry.TracksPerCylinder) *
		int64(geometry.SectorsPerTrack) * int64(geometry.BytesPerSector)

	return &Device{handle: handle, size: size}, nil
}

func (d *Device) Size() int64 { return d.size }

func (d *Device) ReadAt(p []byte, off int64) (int, error) {
	alignedOffset := off / sectorSize * sectorSize
	alignmentDiff := int(off - alignedOffset)
	alignedSize := ((len(p) + alignmentDiff + sectorSize - 1) / sectorSize) * sectorSize

	buf := make([]byte, alignedSize)

	var bytesRead uint32
	ov := new(windows.Overlapped)
	ov.Offset = uint32(alignedOffset)
	ov.OffsetHigh = uint32(alignedOffset >> 32)

	err := windows.ReadFile(d.handle, buf, &bytesRead, ov)
	if err != nil {
		if err == syscall.ERROR_IO_PENDING {
			err = windows.GetOverlappedResult(d.handle, ov, &bytesRead, true)
		}
		if err != nil {
			return 0, fmt.Errorf("mount: aligned read failed: %w", err)
		}
	}

	n := copy(p, buf[alignmentDiff:])
	return n, nil
}

func (d *Device) Close() error {
	return windows.CloseHandle(d.handle)
}
