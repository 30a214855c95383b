package fs_test

import (
	"testing"

	"github.com/aaron-ang/file-system/fs"
	"github.com/stretchr/testify/require"
)

func TestDeleteUnknownNameFails(t *testing.T) {
	v := makeAndMount(t)
	require.Error(t, v.Delete("ghost.txt"))
}

// S4: delete must fail while any descriptor referencing the file is open,
// and succeed once every descriptor referencing it is closed.
func TestDeleteFailsWhileFileIsOpen(t *testing.T) {
	v := makeAndMount(t)
	fd := createAndOpen(t, v, "busy.txt")

	err := v.Delete("busy.txt")
	require.Error(t, err)

	require.NoError(t, v.Close(fd))
	require.NoError(t, v.Delete("busy.txt"))

	names, err := v.ListFiles()
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestDeleteReleasesBlocksForReuse(t *testing.T) {
	v := makeAndMount(t)
	fd := createAndOpen(t, v, "a.txt")
	_, err := v.Write(fd, make([]byte, fs.BlockSize*20))
	require.NoError(t, err)
	require.NoError(t, v.Close(fd))
	require.NoError(t, v.Delete("a.txt"))

	fd2 := createAndOpen(t, v, "b.txt")
	n, err := v.Write(fd2, make([]byte, fs.BlockSize*20))
	require.NoError(t, err)
	require.Equal(t, fs.BlockSize*20, n)
}

// S6: truncating to a shorter length frees blocks beyond the new length,
// clamps any open descriptor's offset, and leaves the retained bytes intact.
func TestTruncateShrinksFileAndClampsOffset(t *testing.T) {
	v := makeAndMount(t)
	fd := createAndOpen(t, v, "a.txt")

	payload := make([]byte, fs.BlockSize*3+10)
	for i := range payload {
		payload[i] = byte(i % 256)
	}
	_, err := v.Write(fd, payload)
	require.NoError(t, err)

	newLen := fs.BlockSize + 5
	require.NoError(t, v.Truncate(fd, newLen))

	size, err := v.GetFilesize(fd)
	require.NoError(t, err)
	require.Equal(t, newLen, size)

	// The offset was past newLen, so it is clamped to newLen and a one-byte
	// write lands right at the new end of file.
	wrote, err := v.Write(fd, []byte{0xEE})
	require.NoError(t, err)
	require.Equal(t, 1, wrote)
	size, err = v.GetFilesize(fd)
	require.NoError(t, err)
	require.Equal(t, newLen+1, size)

	require.NoError(t, v.Lseek(fd, 0))
	buf := make([]byte, newLen)
	n, err := v.Read(fd, buf)
	require.NoError(t, err)
	require.Equal(t, newLen, n)
	require.Equal(t, payload[:newLen], buf)
}

func TestTruncateRejectsGrowingLength(t *testing.T) {
	v := makeAndMount(t)
	fd := createAndOpen(t, v, "a.txt")
	_, err := v.Write(fd, []byte("abc"))
	require.NoError(t, err)

	err = v.Truncate(fd, 10)
	require.Error(t, err)
}

func TestTruncateToZeroThenWriteAgain(t *testing.T) {
	v := makeAndMount(t)
	fd := createAndOpen(t, v, "a.txt")
	_, err := v.Write(fd, make([]byte, fs.BlockSize*5))
	require.NoError(t, err)

	require.NoError(t, v.Truncate(fd, 0))
	size, err := v.GetFilesize(fd)
	require.NoError(t, err)
	require.Equal(t, 0, size)

	require.NoError(t, v.Lseek(fd, 0))
	n, err := v.Write(fd, []byte("fresh"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestTruncateAcrossDoubleIndirectBoundary(t *testing.T) {
	v := makeAndMount(t)
	fd := createAndOpen(t, v, "huge.bin")

	singleIndirectReach := fs.DirectPointersPerInode + fs.PointersPerBlock
	size := (singleIndirectReach + 10) * fs.BlockSize
	_, err := v.Write(fd, make([]byte, size))
	require.NoError(t, err)

	newLen := (fs.DirectPointersPerInode + 2) * fs.BlockSize
	require.NoError(t, v.Truncate(fd, newLen))

	fileSize, err := v.GetFilesize(fd)
	require.NoError(t, err)
	require.Equal(t, newLen, fileSize)
}

// Truncating to a length that only needs to release blocks in the
// double-indirect zone must leave every block in the fully-live
// single-indirect zone intact and readable.
func TestTruncateInsideDoubleIndirectZoneKeepsSingleIndirectDataLive(t *testing.T) {
	v := makeAndMount(t)
	fd := createAndOpen(t, v, "huge.bin")

	totalBlocks := 2500
	require.Greater(t, totalBlocks, fs.DirectPointersPerInode+fs.PointersPerBlock)

	payload := make([]byte, totalBlocks*fs.BlockSize)
	for b := 0; b < totalBlocks; b++ {
		payload[b*fs.BlockSize] = byte(b % 256)
	}
	_, err := v.Write(fd, payload)
	require.NoError(t, err)

	newLenBlocks := 2200
	require.NoError(t, v.Truncate(fd, newLenBlocks*fs.BlockSize))

	size, err := v.GetFilesize(fd)
	require.NoError(t, err)
	require.Equal(t, newLenBlocks*fs.BlockSize, size)

	// Block 2000 sits well inside the single-indirect zone (blocks
	// 12..2059), which must remain fully live and readable.
	probeBlock := 2000
	require.NoError(t, v.Lseek(fd, probeBlock*fs.BlockSize))
	buf := make([]byte, 1)
	n, err := v.Read(fd, buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, byte(probeBlock%256), buf[0])
}
