// Sentinel error values for the filesystem's precondition and I/O failures.
// Modeled after errno-style string sentinels rather than syscall.Errno, since
// this filesystem has no real kernel to source error codes from.

package errors

import (
	"fmt"
)

type FSError string

const ErrNotMounted = FSError("file system not mounted")
const ErrAlreadyMounted = FSError("file system already mounted")
const ErrNotInitialized = FSError("file system not initialized")
const ErrExists = FSError("file exists")
const ErrNotFound = FSError("no such file")
const ErrInvalidArgument = FSError("invalid argument")
const ErrInvalidName = FSError("invalid file name")
const ErrInvalidFileDescriptor = FSError("bad file descriptor")
const ErrTooManyOpenFiles = FSError("too many open files")
const ErrBusy = FSError("file is open")
const ErrNoSpaceOnDevice = FSError("no space left on device")
const ErrFileTooLarge = FSError("file too large")
const ErrOutOfRange = FSError("numerical argument out of domain")
const ErrIOFailed = FSError("input/output error")
const ErrFileSystemCorrupted = FSError("structure needs cleaning")

func (e FSError) Error() string {
	return string(e)
}

func (e FSError) WithMessage(message string) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", string(e), message),
		originalError: e,
	}
}

func (e FSError) WrapError(err error) DriverError {
	return customDriverError{
		message:       fmt.Sprintf("%s: %s", string(e), err.Error()),
		originalError: err,
	}
}
