package blockdev_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aaron-ang/file-system/blockdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeOpenReadWriteClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")

	require.NoError(t, blockdev.MakeDisk(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.EqualValues(t, blockdev.BlockSize*blockdev.DiskBlocks, info.Size())

	dev, err := blockdev.OpenDisk(path)
	require.NoError(t, err)

	buf := bytes.Repeat([]byte{0xAB}, blockdev.BlockSize)
	require.NoError(t, dev.WriteBlock(42, buf))

	readBuf := make([]byte, blockdev.BlockSize)
	require.NoError(t, dev.ReadBlock(42, readBuf))
	assert.Equal(t, buf, readBuf)

	// Untouched blocks remain zeroed.
	require.NoError(t, dev.ReadBlock(0, readBuf))
	assert.Equal(t, make([]byte, blockdev.BlockSize), readBuf)

	require.NoError(t, dev.CloseDisk())
}

func TestReadWriteBlockOutOfRange(t *testing.T) {
	dev := blockdev.NewMemoryDevice()
	buf := make([]byte, blockdev.BlockSize)

	assert.Error(t, dev.ReadBlock(-1, buf))
	assert.Error(t, dev.ReadBlock(blockdev.DiskBlocks, buf))
	assert.Error(t, dev.WriteBlock(blockdev.DiskBlocks, buf))
}

func TestMemoryDeviceReadsBackWrittenBlock(t *testing.T) {
	dev := blockdev.NewMemoryDevice()
	buf := bytes.Repeat([]byte{0x7E}, blockdev.BlockSize)
	require.NoError(t, dev.WriteBlock(100, buf))

	readBuf := make([]byte, blockdev.BlockSize)
	require.NoError(t, dev.ReadBlock(100, readBuf))
	assert.Equal(t, buf, readBuf)
}
