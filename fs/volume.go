package fs

import (
	"log"
	"os"

	"github.com/aaron-ang/file-system/bitmap"
	"github.com/aaron-ang/file-system/blockdev"
	fserrors "github.com/aaron-ang/file-system/errors"
	"github.com/hashicorp/go-multierror"
)

// fileDescriptor is the in-memory handle pairing an inode number with a seek
// offset. It has no on-disk representation; Unmount zeroes the whole table.
type fileDescriptor struct {
	isUsed      bool
	inodeNumber uint16
	offset      int32
}

// Volume is the mounted, in-memory state of a virtual disk: the superblock,
// bitmaps, directory and inode tables, and open file descriptors. All public
// operations except Make and Mount are methods on a Volume; there is no
// global mount state (see spec.md §9 — "process-wide mutable state ...
// re-architect as a single owned volume value").
type Volume struct {
	device *blockdev.Device

	super       superblock
	dirTable    directoryTable
	inodeBitmap *bitmap.Bitmap
	blockBitmap *bitmap.Bitmap
	inodes      inodeTable
	fds         [MaxOpenFiles]fileDescriptor

	logger *log.Logger
}

// Logger is the package-wide diagnostics sink; swap it in tests to capture
// or silence output, matching spec.md §7's "diagnostic written to the error
// stream".
var Logger = log.New(os.Stderr, "", log.LstdFlags)

// Make creates the backing virtual disk, zeros it, and writes the initial
// superblock and used-block bitmap. It does not mount the result.
func Make(diskName string) error {
	if err := blockdev.MakeDisk(diskName); err != nil {
		Logger.Printf("make_fs: make_disk failed: %v", err)
		return err
	}

	device, err := blockdev.OpenDisk(diskName)
	if err != nil {
		Logger.Printf("make_fs: open_disk failed: %v", err)
		return err
	}
	defer device.CloseDisk()

	sb := newSuperblock()
	if err := device.WriteBlock(superblockBlockNum, sb.marshal()); err != nil {
		Logger.Printf("make_fs: super block write failed: %v", err)
		return err
	}

	// The bitmap only needs DiskBlocks/8 bytes of actual bits, but it is
	// written out as a full disk block, so back it with a full zeroed block.
	blockBitmap := bitmap.FromBytes(make([]byte, BlockSize), DiskBlocks)
	for i := 0; i < MetadataBlocks; i++ {
		blockBitmap.Set(i, true)
	}
	if err := device.WriteBlock(blockBitmapBlockNum, blockBitmap.Bytes()); err != nil {
		Logger.Printf("make_fs: used block bitmap write failed: %v", err)
		return err
	}

	return nil
}

// Mount opens the virtual disk and loads its five metadata blocks into
// memory.
func Mount(diskName string) (*Volume, error) {
	device, err := blockdev.OpenDisk(diskName)
	if err != nil {
		Logger.Printf("mount_fs: open_disk failed: %v", err)
		return nil, err
	}

	v := &Volume{device: device, logger: Logger}

	sbBlock := make([]byte, BlockSize)
	if err := device.ReadBlock(superblockBlockNum, sbBlock); err != nil {
		Logger.Printf("mount_fs: super block read failed: %v", err)
		return nil, err
	}
	if err := v.super.unmarshal(sbBlock); err != nil {
		return nil, err
	}
	if v.super.DirTableOffset == 0 {
		Logger.Printf("mount_fs: file system not initialized")
		return nil, fserrors.ErrNotInitialized
	}

	dirBlock := make([]byte, BlockSize)
	if err := device.ReadBlock(int(v.super.DirTableOffset), dirBlock); err != nil {
		Logger.Printf("mount_fs: directory table read failed: %v", err)
		return nil, err
	}
	if err := v.dirTable.unmarshal(dirBlock); err != nil {
		return nil, err
	}

	inodeBitmapBlock := make([]byte, BlockSize)
	if err := device.ReadBlock(int(v.super.InodeBitmapOffset), inodeBitmapBlock); err != nil {
		Logger.Printf("mount_fs: inode bitmap read failed: %v", err)
		return nil, err
	}
	v.inodeBitmap = bitmap.FromBytes(inodeBitmapBlock, MaxFiles)

	blockBitmapBlock := make([]byte, BlockSize)
	if err := device.ReadBlock(int(v.super.BlockBitmapOffset), blockBitmapBlock); err != nil {
		Logger.Printf("mount_fs: used block bitmap read failed: %v", err)
		return nil, err
	}
	v.blockBitmap = bitmap.FromBytes(blockBitmapBlock, DiskBlocks)

	inodeTableBlock := make([]byte, BlockSize)
	if err := device.ReadBlock(int(v.super.InodeTableOffset), inodeTableBlock); err != nil {
		Logger.Printf("mount_fs: inode table read failed: %v", err)
		return nil, err
	}
	if err := v.inodes.unmarshal(inodeTableBlock); err != nil {
		return nil, err
	}

	return v, nil
}

// Unmount writes the five metadata blocks back to their fixed block numbers,
// closes the disk, zeros the descriptor table, and invalidates the Volume.
//
// If any block fails to flush (or the close fails), every error is
// accumulated and returned; the in-memory state is left untouched so the
// caller can retry or otherwise investigate (spec.md §4.3, §7).
func (v *Volume) Unmount() error {
	var result *multierror.Error

	if err := v.device.WriteBlock(superblockBlockNum, v.super.marshal()); err != nil {
		result = multierror.Append(result, err)
	}
	if err := v.device.WriteBlock(int(v.super.DirTableOffset), v.dirTable.marshal()); err != nil {
		result = multierror.Append(result, err)
	}
	if err := v.device.WriteBlock(int(v.super.InodeBitmapOffset), v.inodeBitmap.Bytes()); err != nil {
		result = multierror.Append(result, err)
	}
	if err := v.device.WriteBlock(int(v.super.BlockBitmapOffset), v.blockBitmap.Bytes()); err != nil {
		result = multierror.Append(result, err)
	}
	if err := v.device.WriteBlock(int(v.super.InodeTableOffset), v.inodes.marshal()); err != nil {
		result = multierror.Append(result, err)
	}

	if result.ErrorOrNil() != nil {
		Logger.Printf("umount_fs: failed to flush metadata: %v", result)
		return result
	}

	if err := v.device.CloseDisk(); err != nil {
		Logger.Printf("umount_fs: close_disk failed: %v", err)
		return err
	}

	v.fds = [MaxOpenFiles]fileDescriptor{}
	v.device = nil
	return nil
}
