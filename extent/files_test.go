package extent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arloliu/jseis/errs"
	"github.com/stretchr/testify/require"
)

func TestCreateExtents(t *testing.T) {
	dir := t.TempDir()

	paths, err := CreateExtents(dir, "TraceFile", 4, 12, 10)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(dir, "TraceFile0"),
		filepath.Join(dir, "TraceFile1"),
		filepath.Join(dir, "TraceFile2"),
	}, paths)

	sizes := []int64{48, 48, 24}
	for i, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		require.Equal(t, sizes[i], info.Size())
	}

	_, err = CreateExtents(dir, "TraceFile", 0, 12, 10)
	require.ErrorIs(t, err, errs.ErrAddressing)
	_, err = CreateExtents(dir, "TraceFile", 4, 12, 0)
	require.ErrorIs(t, err, errs.ErrAddressing)
}

func TestCreateExtents_SingleExtent(t *testing.T) {
	dir := t.TempDir()

	paths, err := CreateExtents(dir, "TraceHeaders", 6, 72, 6)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	info, err := os.Stat(paths[0])
	require.NoError(t, err)
	require.Equal(t, int64(6*72), info.Size())
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	found, err := Discover(dir, "TraceFile")
	require.NoError(t, err)
	require.Empty(t, found)

	paths, err := CreateExtents(dir, "TraceFile", 2, 4, 5)
	require.NoError(t, err)
	_, err = CreateExtents(dir, "TraceHeaders", 5, 4, 5)
	require.NoError(t, err)

	found, err = Discover(dir, "TraceFile")
	require.NoError(t, err)
	require.Equal(t, paths, found)

	// A gap ends discovery.
	require.NoError(t, os.Remove(paths[1]))
	found, err = Discover(dir, "TraceFile")
	require.NoError(t, err)
	require.Equal(t, paths[:1], found)
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	paths, err := CreateExtents(dir, "tmp.TraceFile", 1, 4, 2)
	require.NoError(t, err)

	require.NoError(t, Remove(append(paths, filepath.Join(dir, "absent"))))
	for _, p := range paths {
		require.NoFileExists(t, p)
	}
}

func TestExtentCount(t *testing.T) {
	require.Equal(t, 0, ExtentCount(0, 4))
	require.Equal(t, 0, ExtentCount(4, 0))
	require.Equal(t, 1, ExtentCount(4, 4))
	require.Equal(t, 2, ExtentCount(5, 4))
}

func TestDescriptor_Capacity(t *testing.T) {
	d := NewDescriptor("TraceHeaders", 6, 72, 1)
	require.Equal(t, int64(432), d.ExtentSize)
	require.Equal(t, DescriptorVersion, d.Version)
	require.Equal(t, PolicyRandom, d.Policy)

	capacity, err := d.Capacity(72)
	require.NoError(t, err)
	require.Equal(t, int64(6), capacity)

	_, err = d.Capacity(80)
	require.ErrorIs(t, err, errs.ErrInvalidMetadata)

	d.MaxPos = 0
	_, err = d.Capacity(72)
	require.ErrorIs(t, err, errs.ErrAddressing)
}
