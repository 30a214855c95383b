package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/aaron-ang/file-system/blockdev"
	"github.com/aaron-ang/file-system/fs"
	"github.com/stretchr/testify/require"
)

func makeAndMount(t *testing.T) *fs.Volume {
	t.Helper()
	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, fs.Make(path))
	v, err := fs.Mount(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		if v != nil {
			_ = v.Unmount()
		}
	})
	return v
}

func TestMountRejectsUninitializedDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.img")
	require.NoError(t, blockdev.MakeDisk(path))

	_, err := fs.Mount(path)
	require.Error(t, err)
}

func TestMakeThenMountThenUnmount(t *testing.T) {
	v := makeAndMount(t)
	names, err := v.ListFiles()
	require.NoError(t, err)
	require.Empty(t, names)
}

func TestPersistenceAcrossUnmountAndRemount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, fs.Make(path))

	v, err := fs.Mount(path)
	require.NoError(t, err)
	require.NoError(t, v.Create("report.txt"))
	fd, err := v.Open("report.txt")
	require.NoError(t, err)
	n, err := v.Write(fd, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.NoError(t, v.Close(fd))
	require.NoError(t, v.Unmount())

	v2, err := fs.Mount(path)
	require.NoError(t, err)
	defer v2.Unmount()

	names, err := v2.ListFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"report.txt"}, names)

	fd2, err := v2.Open("report.txt")
	require.NoError(t, err)
	size, err := v2.GetFilesize(fd2)
	require.NoError(t, err)
	require.Equal(t, 5, size)

	buf := make([]byte, 5)
	n2, err := v2.Read(fd2, buf)
	require.NoError(t, err)
	require.Equal(t, 5, n2)
	require.Equal(t, "hello", string(buf))
}

func TestOperationsFailWhenNotMounted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	require.NoError(t, fs.Make(path))
	v, err := fs.Mount(path)
	require.NoError(t, err)
	require.NoError(t, v.Unmount())

	require.Error(t, v.Create("a.txt"))
	_, err = v.Open("a.txt")
	require.Error(t, err)
	_, err = v.ListFiles()
	require.Error(t, err)
}
