package blockdev

import (
	"github.com/xaionaro-go/bytesextra"
)

// NewMemoryDevice creates a Device backed entirely by memory instead of a
// file on disk. It offers the same read_block/write_block/close operations
// as a file-backed Device, which lets tests exercise block I/O without
// touching the real filesystem. The fs package does not use it: fs.Mount
// only opens a file-backed disk by path.
//
// The returned Device is already "open"; there is no separate make/open step
// because there is no backing file to create.
func NewMemoryDevice() *Device {
	storage := make([]byte, BlockSize*DiskBlocks)
	return &Device{
		stream: bytesextra.NewReadWriteSeeker(storage),
		isOpen: true,
	}
}
