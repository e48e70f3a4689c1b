package jseis

import (
	"path/filepath"
	"testing"

	"github.com/arloliu/jseis/dataset"
	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/format"
	"github.com/stretchr/testify/require"
)

func TestCreateOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "line.js")
	g := Geometry{SampleCount: 4, TracesPerFrame: 2, FrameCount: 1, VolumeCount: 1}

	ds, err := Create(dir, g, dataset.WithDescriptiveName("line"))
	require.NoError(t, err)
	require.NoError(t, ds.WriteTrace(0, []float32{1.0, -1.0, 0.5, 0.0}))
	require.NoError(t, ds.Save())
	require.NoError(t, ds.Close())

	rw, err := Open(dir)
	require.NoError(t, err)
	require.False(t, rw.ReadOnly())
	require.NoError(t, rw.Close())

	ro, err := OpenReadOnly(dir)
	require.NoError(t, err)
	defer ro.Close()

	require.True(t, ro.ReadOnly())
	require.ErrorIs(t, ro.WriteTrace(1, make([]float32, 4)), errs.ErrReadOnly)

	samples, err := ro.ReadTrace(0)
	require.NoError(t, err)
	require.InDelta(t, 0.5, samples[2], 1.0/32766)
}

func TestDefaultSchema(t *testing.T) {
	s := DefaultSchema()
	require.Equal(t, 18, s.Len())
	require.Equal(t, 72, s.TotalBytes())
	require.True(t, s.Has("TRC_TYPE"))
}

func TestNewTraceCodec(t *testing.T) {
	le, err := NewTraceCodec(format.TraceCompressedInt16, 3, false)
	require.NoError(t, err)
	be, err := NewTraceCodec(format.TraceCompressedInt16, 3, true)
	require.NoError(t, err)

	a, err := le.Encode([]float32{1, 2, 3})
	require.NoError(t, err)
	b, err := be.Encode([]float32{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, a, 12)
	require.NotEqual(t, a, b)

	_, err = NewTraceCodec(format.TraceFloat32, 0, false)
	require.ErrorIs(t, err, errs.ErrInvalidGeometry)
}
