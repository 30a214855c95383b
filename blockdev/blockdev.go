// Package blockdev implements the block I/O shim: a thin wrapper around a
// fixed-geometry virtual disk exposing make/open/close/read_block/write_block
// against a file-backed or in-memory byte stream. It owns no knowledge of
// what the blocks mean; that's the job of the packages built on top of it.
package blockdev

import (
	"fmt"
	"io"
	"os"

	fserrors "github.com/aaron-ang/file-system/errors"
)

const (
	// BlockSize is the number of bytes per disk block.
	BlockSize = 4096
	// DiskBlocks is the total number of blocks on the disk.
	DiskBlocks = 8192
)

// Device is a fixed-geometry virtual disk: exactly DiskBlocks blocks of
// BlockSize bytes each, addressed by block number.
type Device struct {
	stream io.ReadWriteSeeker
	closer io.Closer
	isOpen bool
}

// MakeDisk creates (or truncates and reinitializes) a file-backed disk image
// of exactly BlockSize*DiskBlocks bytes, all zeroed, and leaves it closed.
func MakeDisk(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return fserrors.ErrIOFailed.WrapError(err)
	}
	defer f.Close()

	if err := f.Truncate(BlockSize * DiskBlocks); err != nil {
		return fserrors.ErrIOFailed.WrapError(err)
	}
	return nil
}

// OpenDisk opens a previously created file-backed disk image for reading and
// writing.
func OpenDisk(name string) (*Device, error) {
	f, err := os.OpenFile(name, os.O_RDWR, 0o644)
	if err != nil {
		return nil, fserrors.ErrIOFailed.WrapError(err)
	}
	return &Device{stream: f, closer: f, isOpen: true}, nil
}

// CloseDisk releases the underlying handle. The Device must not be used
// afterward.
func (d *Device) CloseDisk() error {
	if !d.isOpen {
		return nil
	}
	d.isOpen = false
	if d.closer == nil {
		return nil
	}
	if err := d.closer.Close(); err != nil {
		return fserrors.ErrIOFailed.WrapError(err)
	}
	return nil
}

// ReadBlock reads exactly BlockSize bytes from block n into buf.
func (d *Device) ReadBlock(n int, buf []byte) error {
	if err := checkBlockArgs(n, len(buf)); err != nil {
		return err
	}
	if _, err := d.stream.Seek(int64(n)*BlockSize, io.SeekStart); err != nil {
		return fserrors.ErrIOFailed.WrapError(err)
	}
	if _, err := io.ReadFull(d.stream, buf[:BlockSize]); err != nil {
		return fserrors.ErrIOFailed.WrapError(err)
	}
	return nil
}

// WriteBlock writes exactly BlockSize bytes from buf to block n.
func (d *Device) WriteBlock(n int, buf []byte) error {
	if err := checkBlockArgs(n, len(buf)); err != nil {
		return err
	}
	if _, err := d.stream.Seek(int64(n)*BlockSize, io.SeekStart); err != nil {
		return fserrors.ErrIOFailed.WrapError(err)
	}
	if _, err := d.stream.Write(buf[:BlockSize]); err != nil {
		return fserrors.ErrIOFailed.WrapError(err)
	}
	return nil
}

func checkBlockArgs(n int, bufLen int) error {
	if n < 0 || n >= DiskBlocks {
		return fserrors.ErrOutOfRange.WithMessage(
			fmt.Sprintf("block %d not in range [0, %d)", n, DiskBlocks),
		)
	}
	if bufLen < BlockSize {
		return fserrors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("buffer must be at least %d bytes, got %d", BlockSize, bufLen),
		)
	}
	return nil
}
