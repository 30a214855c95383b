package fs

import (
	"fmt"

	fserrors "github.com/aaron-ang/file-system/errors"
)

func (v *Volume) checkMounted() error {
	if v.device == nil {
		return fserrors.ErrNotMounted
	}
	return nil
}

// Create makes an empty regular file with the given name: it claims an
// inode, allocates the initial direct[0] data block, and adds a directory
// entry. New files have file_size = 0 and exactly one allocated data block
// (spec.md invariant 4).
func (v *Volume) Create(name string) error {
	if err := v.checkMounted(); err != nil {
		v.logger.Printf("fs_create: %v", err)
		return err
	}
	if len(name) < 1 || len(name) > MaxFileNameChars {
		err := fserrors.ErrInvalidName.WithMessage(
			fmt.Sprintf("name must be 1-%d characters, got %d", MaxFileNameChars, len(name)),
		)
		v.logger.Printf("fs_create: %v", err)
		return err
	}
	if v.dirTable.lookup(name) >= 0 {
		err := fserrors.ErrExists.WithMessage(fmt.Sprintf("%q already exists", name))
		v.logger.Printf("fs_create: %v", err)
		return err
	}
	if v.inodeBitmap.IsAllOnes(MaxFiles) {
		err := fserrors.ErrNoSpaceOnDevice.WithMessage("inode table is full")
		v.logger.Printf("fs_create: %v", err)
		return err
	}

	inodeIndex := v.inodeBitmap.FirstClear(MaxFiles)

	dataBlock, err := v.claimUnusedDataBlock()
	if err != nil {
		v.logger.Printf("fs_create: %v", err)
		return err
	}

	if v.dirTable.claim(uint16(inodeIndex), name) < 0 {
		// Unreachable: the inode bitmap and directory table are kept in
		// lockstep (invariant 1), so a free inode implies a free slot.
		return fserrors.ErrFileSystemCorrupted.WithMessage("directory table full but inode bitmap was not")
	}

	v.inodeBitmap.Set(inodeIndex, true)
	v.inodes.inodes[inodeIndex] = rawInode{}
	v.inodes.inodes[inodeIndex].Direct[0] = dataBlock
	return nil
}
