package errors_test

import (
	"errors"
	"testing"

	fserrors "github.com/aaron-ang/file-system/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSError_WithMessage(t *testing.T) {
	err := fserrors.ErrNotFound.WithMessage(`"report.txt"`)
	assert.Equal(t, `no such file: "report.txt"`, err.Error())
}

func TestFSError_WrapError(t *testing.T) {
	underlying := errors.New("short read")
	err := fserrors.ErrIOFailed.WrapError(underlying)
	assert.Equal(t, "input/output error: short read", err.Error())
	require.True(t, errors.Is(err.(interface{ Unwrap() error }).Unwrap(), underlying))
}

func TestFSError_ErrorsAsMatchesSentinel(t *testing.T) {
	err := fserrors.ErrExists.WithMessage("f")
	var target fserrors.DriverError
	require.ErrorAs(t, err, &target)
}
