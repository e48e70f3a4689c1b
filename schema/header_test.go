package schema

import (
	"math"
	"testing"

	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/format"
	"github.com/stretchr/testify/require"
)

func newTestLayout(t *testing.T, engine endian.EndianEngine) *Layout {
	t.Helper()

	s, err := New(
		Field("I32", format.KindInt32, 1),
		Field("I64", format.KindInt64, 1),
		Field("F32", format.KindFloat32, 2),
		Field("F64", format.KindFloat64, 1),
	)
	require.NoError(t, err)

	return s.Compile(engine)
}

func TestLayout_Compile(t *testing.T) {
	l := newTestLayout(t, endian.GetLittleEndianEngine())
	require.Equal(t, 4+8+8+8, l.Size())

	// F32 < F64 < I32 < I64
	expected := []struct {
		label  string
		offset int
	}{{"F32", 0}, {"F64", 8}, {"I32", 16}, {"I64", 20}}
	for i, e := range expected {
		require.Equal(t, e.label, l.Slots()[i].Label)
		require.Equal(t, e.offset, l.Slots()[i].Offset)
	}

	slot, ok := l.Slot("F32")
	require.True(t, ok)
	require.Equal(t, 4, slot.Width())
	require.Equal(t, 2, slot.Count)

	_, ok = l.Slot("NOPE")
	require.False(t, ok)
}

func TestHeader_Accessors(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		t.Run(endian.Name(engine), func(t *testing.T) {
			l := newTestLayout(t, engine)
			h := l.NewHeader()

			require.NoError(t, h.SetInt("I32", -7))
			require.NoError(t, h.SetInt("I64", math.MaxInt64))
			require.NoError(t, h.SetFloatAt("F32", 1, 2.5))
			require.NoError(t, h.SetFloat("F64", math.Pi))

			i32, err := h.Int("I32")
			require.NoError(t, err)
			require.Equal(t, int64(-7), i32)

			i64, err := h.Int("I64")
			require.NoError(t, err)
			require.Equal(t, int64(math.MaxInt64), i64)

			f32, err := h.FloatAt("F32", 1)
			require.NoError(t, err)
			require.InDelta(t, 2.5, f32, 0)

			f64, err := h.Float("F64")
			require.NoError(t, err)
			require.InDelta(t, math.Pi, f64, 0)

			all, err := h.Floats("F32")
			require.NoError(t, err)
			require.Equal(t, []float64{0, 2.5}, all)

			decoded, err := l.DecodeHeader(h.Bytes())
			require.NoError(t, err)
			require.Equal(t, h.Bytes(), decoded.Bytes())
		})
	}
}

func TestHeader_Conversions(t *testing.T) {
	l := newTestLayout(t, endian.GetLittleEndianEngine())
	h := l.NewHeader()

	require.NoError(t, h.SetFloat("I32", 2.6))
	v, err := h.Int("I32")
	require.NoError(t, err)
	require.Equal(t, int64(3), v)

	require.NoError(t, h.SetInt("F64", 12))
	f, err := h.Float("F64")
	require.NoError(t, err)
	require.InDelta(t, 12.0, f, 0)

	require.NoError(t, h.SetFloat("F64", -4.9))
	v, err = h.Int("F64")
	require.NoError(t, err)
	require.Equal(t, int64(-4), v)
}

func TestHeader_Errors(t *testing.T) {
	l := newTestLayout(t, endian.GetLittleEndianEngine())
	h := l.NewHeader()

	_, err := h.Int("MISSING")
	require.ErrorIs(t, err, errs.ErrUnknownLabel)
	require.ErrorIs(t, h.SetFloat("MISSING", 1), errs.ErrUnknownLabel)

	_, err = h.FloatAt("F32", 2)
	require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	require.ErrorIs(t, h.SetIntAt("I32", -1, 0), errs.ErrIndexOutOfRange)

	_, err = l.DecodeHeader(make([]byte, l.Size()-1))
	require.ErrorIs(t, err, errs.ErrInvalidRecordSize)
}

func TestHeader_CopyCommon(t *testing.T) {
	oldSchema, err := New(
		Field("KEEP", format.KindInt64, 1),
		Field("WIDEN", format.KindFloat32, 1),
		Field("SHRINK", format.KindInt32, 3),
		Field("DROP", format.KindInt32, 1),
	)
	require.NoError(t, err)
	oldLayout := oldSchema.Compile(endian.GetBigEndianEngine())

	src := oldLayout.NewHeader()
	require.NoError(t, src.SetInt("KEEP", 1<<40+1))
	require.NoError(t, src.SetFloat("WIDEN", 1.25))
	for i := range 3 {
		require.NoError(t, src.SetIntAt("SHRINK", i, int64(10+i)))
	}
	require.NoError(t, src.SetInt("DROP", 5))

	newSchema := oldSchema.Clone()
	require.NoError(t, newSchema.Delete("DROP"))
	require.NoError(t, newSchema.Replace(Field("WIDEN", format.KindFloat64, 1)))
	require.NoError(t, newSchema.Replace(Field("SHRINK", format.KindInt32, 2)))
	require.NoError(t, newSchema.Add(Field("NEW", format.KindInt32, 1)))
	newLayout := newSchema.Compile(endian.GetLittleEndianEngine())

	dst := newLayout.NewHeader()
	dst.CopyCommon(src)

	keep, _ := dst.Int("KEEP")
	require.Equal(t, int64(1<<40+1), keep)
	widen, _ := dst.Float("WIDEN")
	require.InDelta(t, 1.25, widen, 0)
	shrink, _ := dst.Floats("SHRINK")
	require.Equal(t, []float64{10, 11}, shrink)
	added, _ := dst.Int("NEW")
	require.Zero(t, added)
}
