package fs

import (
	"fmt"

	fserrors "github.com/aaron-ang/file-system/errors"
)

// Open returns a new file descriptor for an existing file, with the offset
// at 0. Multiple descriptors may point at the same inode.
func (v *Volume) Open(name string) (int, error) {
	if err := v.checkMounted(); err != nil {
		v.logger.Printf("fs_open: %v", err)
		return -1, err
	}

	dirIndex := v.dirTable.lookup(name)
	if dirIndex < 0 {
		err := fserrors.ErrNotFound.WithMessage(fmt.Sprintf("%q not found", name))
		v.logger.Printf("fs_open: %v", err)
		return -1, err
	}

	for fd := range v.fds {
		if !v.fds[fd].isUsed {
			v.fds[fd] = fileDescriptor{
				isUsed:      true,
				inodeNumber: v.dirTable.entries[dirIndex].InodeNumber,
				offset:      0,
			}
			return fd, nil
		}
	}

	err := fserrors.ErrTooManyOpenFiles
	v.logger.Printf("fs_open: %v", err)
	return -1, err
}

// Close releases a file descriptor.
func (v *Volume) Close(fd int) error {
	if err := v.checkMounted(); err != nil {
		v.logger.Printf("fs_close: %v", err)
		return err
	}
	if err := v.checkFD(fd); err != nil {
		v.logger.Printf("fs_close: %v", err)
		return err
	}
	v.fds[fd] = fileDescriptor{}
	return nil
}

func (v *Volume) checkFD(fd int) error {
	if fd < 0 || fd >= MaxOpenFiles || !v.fds[fd].isUsed {
		return fserrors.ErrInvalidFileDescriptor
	}
	return nil
}

// GetFilesize returns the current size, in bytes, of the file behind fd.
func (v *Volume) GetFilesize(fd int) (int, error) {
	if err := v.checkMounted(); err != nil {
		v.logger.Printf("fs_get_filesize: %v", err)
		return -1, err
	}
	if err := v.checkFD(fd); err != nil {
		v.logger.Printf("fs_get_filesize: %v", err)
		return -1, err
	}
	inode := &v.inodes.inodes[v.fds[fd].inodeNumber]
	return int(inode.FileSize), nil
}

// Lseek sets fd's offset. Seeking past the current end of file is not
// permitted.
func (v *Volume) Lseek(fd int, offset int) error {
	if err := v.checkMounted(); err != nil {
		v.logger.Printf("fs_lseek: %v", err)
		return err
	}
	if err := v.checkFD(fd); err != nil {
		v.logger.Printf("fs_lseek: %v", err)
		return err
	}
	inode := &v.inodes.inodes[v.fds[fd].inodeNumber]
	if offset < 0 || offset > int(inode.FileSize) {
		err := fserrors.ErrOutOfRange.WithMessage(
			fmt.Sprintf("offset %d not in [0, %d]", offset, inode.FileSize),
		)
		v.logger.Printf("fs_lseek: %v", err)
		return err
	}
	v.fds[fd].offset = int32(offset)
	return nil
}

// ListFiles returns the names of every used directory entry, in directory
// order. The caller owns the returned slice; mutating the directory table
// afterward does not affect it.
func (v *Volume) ListFiles() ([]string, error) {
	if err := v.checkMounted(); err != nil {
		v.logger.Printf("fs_listfiles: %v", err)
		return nil, err
	}
	names := make([]string, 0, MaxFiles)
	for i := range v.dirTable.entries {
		if v.dirTable.entries[i].IsUsed {
			names = append(names, v.dirTable.entries[i].name())
		}
	}
	return names, nil
}
