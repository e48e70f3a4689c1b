package encoding

import (
	"math"
	"testing"

	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/format"
	"github.com/stretchr/testify/require"
)

func TestFloat32Codec_RoundTrip(t *testing.T) {
	samples := []float32{0, 1.5, -2.25, math.MaxFloat32, math.SmallestNonzeroFloat32}

	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		c, err := NewFloat32Codec(len(samples), engine)
		require.NoError(t, err)
		require.Equal(t, 4*len(samples), c.RecordSize())
		require.Equal(t, format.TraceFloat32, c.Format())

		record, err := c.Encode(samples)
		require.NoError(t, err)
		require.Len(t, record, c.RecordSize())

		decoded, err := c.Decode(record, nil)
		require.NoError(t, err)
		require.Equal(t, samples, decoded)

		into := make([]byte, c.RecordSize())
		require.NoError(t, c.EncodeInto(into, samples))
		require.Equal(t, record, into)

		i := 0
		for v := range c.All(record) {
			require.Equal(t, samples[i], v)
			i++
		}
		require.Equal(t, len(samples), i)

		v, ok := c.At(record, 2)
		require.True(t, ok)
		require.Equal(t, samples[2], v)
		_, ok = c.At(record, len(samples))
		require.False(t, ok)
	}
}

func TestFloat32Codec_Errors(t *testing.T) {
	_, err := NewFloat32Codec(0, endian.GetLittleEndianEngine())
	require.ErrorIs(t, err, errs.ErrInvalidGeometry)

	c, err := NewFloat32Codec(2, endian.GetLittleEndianEngine())
	require.NoError(t, err)

	_, err = c.Encode([]float32{1})
	require.ErrorIs(t, err, errs.ErrShapeMismatch)

	_, err = c.Decode(make([]byte, 7), nil)
	require.ErrorIs(t, err, errs.ErrInvalidRecordSize)
}

func TestNewTraceCodec(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	c, err := NewTraceCodec(format.TraceCompressedInt16, 10, engine)
	require.NoError(t, err)
	require.IsType(t, &CompressedInt16Codec{}, c)

	c, err = NewTraceCodec(format.TraceFloat32, 10, engine)
	require.NoError(t, err)
	require.IsType(t, &Float32Codec{}, c)

	_, err = NewTraceCodec(format.TraceFormat(99), 10, engine)
	require.ErrorIs(t, err, errs.ErrInvalidMetadata)

	_, err = NewTraceCodec(format.TraceCompressedInt16, 0, engine)
	require.ErrorIs(t, err, errs.ErrInvalidGeometry)
}
