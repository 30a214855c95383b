package fs

import fserrors "github.com/aaron-ang/file-system/errors"

// Read copies up to len(buf) bytes from fd's current offset, clamped to the
// file's size, and advances the offset by the number of bytes actually
// copied. It returns the number of bytes read.
func (v *Volume) Read(fd int, buf []byte) (int, error) {
	if err := v.checkMounted(); err != nil {
		v.logger.Printf("fs_read: %v", err)
		return -1, err
	}
	if err := v.checkFD(fd); err != nil {
		v.logger.Printf("fs_read: %v", err)
		return -1, err
	}

	inodeIndex := int(v.fds[fd].inodeNumber)
	inode := &v.inodes.inodes[inodeIndex]

	remaining := int(inode.FileSize) - int(v.fds[fd].offset)
	if remaining < 0 {
		remaining = 0
	}
	toRead := len(buf)
	if toRead > remaining {
		toRead = remaining
	}

	block := make([]byte, BlockSize)
	copied := 0
	for copied < toRead {
		offset := int(v.fds[fd].offset)
		blockNum, err := v.dataBlockOf(inodeIndex, offset)
		if err != nil {
			v.logger.Printf("fs_read: %v", err)
			return copied, err
		}
		if blockNum == 0 {
			// Invariant 4 guarantees every logical block within file_size is
			// allocated; this would mean the on-disk structure is corrupt.
			err := fserrors.ErrFileSystemCorrupted.WithMessage("hole within file bounds")
			v.logger.Printf("fs_read: %v", err)
			return copied, err
		}

		if err := v.device.ReadBlock(int(blockNum), block); err != nil {
			v.logger.Printf("fs_read: %v", err)
			return copied, err
		}

		blockOffset := offset % BlockSize
		n := BlockSize - blockOffset
		if remainingInRead := toRead - copied; n > remainingInRead {
			n = remainingInRead
		}

		copy(buf[copied:copied+n], block[blockOffset:blockOffset+n])
		copied += n
		v.fds[fd].offset += int32(n)
	}

	return copied, nil
}

// Write copies up to len(buf) bytes into fd's file starting at its current
// offset, clamped so the file never exceeds MaxFileSize, allocating data
// blocks as needed. It advances the offset and grows file_size to cover any
// newly written bytes, then returns the number of bytes actually written.
//
// If the disk fills up partway through, Write stops after flushing the last
// complete block and returns the count of bytes successfully written so far
// (possibly 0); it is not retried automatically.
func (v *Volume) Write(fd int, buf []byte) (int, error) {
	if err := v.checkMounted(); err != nil {
		v.logger.Printf("fs_write: %v", err)
		return -1, err
	}
	if err := v.checkFD(fd); err != nil {
		v.logger.Printf("fs_write: %v", err)
		return -1, err
	}

	inodeIndex := int(v.fds[fd].inodeNumber)
	inode := &v.inodes.inodes[inodeIndex]

	room := MaxFileSize - int(v.fds[fd].offset)
	if room < 0 {
		room = 0
	}
	toWrite := len(buf)
	if toWrite > room {
		toWrite = room
	}

	block := make([]byte, BlockSize)
	copied := 0
	diskFull := false

	for copied < toWrite {
		offset := int(v.fds[fd].offset)
		blockNum, err := v.dataBlockOf(inodeIndex, offset)
		if err != nil {
			v.logger.Printf("fs_write: %v", err)
			return copied, err
		}
		if blockNum == 0 {
			blockNum, err = v.claimUnusedDataBlock()
			if err != nil {
				diskFull = true
				break
			}
			if err := v.attachBlock(inodeIndex, blockNum); err != nil {
				diskFull = true
				break
			}
		}

		if err := v.device.ReadBlock(int(blockNum), block); err != nil {
			v.logger.Printf("fs_write: %v", err)
			return copied, err
		}

		blockOffset := offset % BlockSize
		n := BlockSize - blockOffset
		if remainingToWrite := toWrite - copied; n > remainingToWrite {
			n = remainingToWrite
		}

		copy(block[blockOffset:blockOffset+n], buf[copied:copied+n])
		if err := v.device.WriteBlock(int(blockNum), block); err != nil {
			v.logger.Printf("fs_write: %v", err)
			return copied, err
		}

		copied += n
		v.fds[fd].offset += int32(n)
		if int(v.fds[fd].offset) > int(inode.FileSize) {
			inode.FileSize = v.fds[fd].offset
		}
	}

	if diskFull {
		v.logger.Printf("fs_write: %v", fserrors.ErrNoSpaceOnDevice)
	}
	return copied, nil
}
