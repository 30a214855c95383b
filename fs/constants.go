// Package fs implements a single-user, single-threaded, block-based file
// system over a fixed-size virtual disk: a flat namespace of regular files,
// inodes with direct/single-indirect/double-indirect block pointers, and the
// allocation bookkeeping that backs create/write/delete/truncate.
package fs

import "github.com/aaron-ang/file-system/blockdev"

const (
	// BlockSize is the number of bytes per disk block.
	BlockSize = blockdev.BlockSize
	// DiskBlocks is the total number of blocks on the virtual disk.
	DiskBlocks = blockdev.DiskBlocks

	// MaxFiles bounds the number of inodes, and therefore the number of
	// directory entries and distinct files the volume can hold at once.
	MaxFiles = 64
	// MaxFileNameChars is the longest a file name may be.
	MaxFileNameChars = 16
	// MaxOpenFiles bounds the number of concurrently open file descriptors.
	MaxOpenFiles = 32
	// DirectPointersPerInode is the number of direct block pointers an inode
	// carries before falling back to indirection.
	DirectPointersPerInode = 12
	// PointersPerBlock is the number of 16-bit block pointers that fit in one
	// indirection block.
	PointersPerBlock = BlockSize / 2
	// MaxFileSize is the largest a file is allowed to grow, enforced by
	// Write.
	MaxFileSize = 40 * 1024 * 1024
	// MetadataBlocks is the count of fixed blocks reserved for filesystem
	// metadata (superblock, directory table, inode bitmap, used-block
	// bitmap, inode table); it also doubles as the first data block number.
	MetadataBlocks = 5

	// Fixed block numbers, per the on-disk layout.
	superblockBlockNum  = 0
	dirTableBlockNum    = 1
	inodeBitmapBlockNum = 2
	blockBitmapBlockNum = 3
	inodeTableBlockNum  = 4
	dataBlockStart      = MetadataBlocks
)
