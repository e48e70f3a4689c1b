package encoding

import (
	"iter"
	"math"

	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/format"
)

const (
	// WindowLength is the number of consecutive samples sharing one scalar.
	WindowLength = 100

	// quantBias is the stored value of a zero sample.
	quantBias = 32767
	// quantRange is the magnitude the window peak is scaled to.
	quantRange = 32766.0
)

// CompressedInt16Codec is a lossy, deterministic, per-window linear quantizer.
//
// Record layout (dataset byte order):
//
//	[window_count x float32 scalar][padded_sample_count x uint16 sample]
//
// For each window the scalar is 32766 / max|s|, or 0 for a window without a
// finite nonzero sample. A sample is stored as round(scalar*s) + 32767 clamped
// to [0, 65535]; windows with a zero scalar store 32767 everywhere. An odd
// sample count is padded with one trailing 32767 sample that decoding never
// exposes.
//
// Within a window the decode error is bounded by max|s| / 32766, and windows
// that are identically zero decode exactly to zero. NaN samples are stored as
// zero. A window holding an infinite sample has an infinite peak, so its scalar
// is 0 and the whole window decodes to zero.
type CompressedInt16Codec struct {
	engine      endian.EndianEngine
	sampleCount int
	windowCount int
	paddedCount int
	recordSize  int
}

var _ TraceCodec = (*CompressedInt16Codec)(nil)

// NewCompressedInt16Codec creates a codec for traces of sampleCount samples.
//
// Returns:
//   - *CompressedInt16Codec: Codec instance
//   - error: ErrInvalidGeometry if sampleCount <= 0
func NewCompressedInt16Codec(sampleCount int, engine endian.EndianEngine) (*CompressedInt16Codec, error) {
	if err := checkSampleCount(sampleCount); err != nil {
		return nil, err
	}

	windowCount := (sampleCount + WindowLength - 1) / WindowLength
	paddedCount := sampleCount + sampleCount%2

	return &CompressedInt16Codec{
		engine:      engine,
		sampleCount: sampleCount,
		windowCount: windowCount,
		paddedCount: paddedCount,
		recordSize:  4*windowCount + 2*paddedCount,
	}, nil
}

func (c *CompressedInt16Codec) Format() format.TraceFormat { return format.TraceCompressedInt16 }

func (c *CompressedInt16Codec) SampleCount() int { return c.sampleCount }

func (c *CompressedInt16Codec) RecordSize() int { return c.recordSize }

// WindowCount returns the number of scalars stored per record.
func (c *CompressedInt16Codec) WindowCount() int { return c.windowCount }

// PaddedSampleCount returns the number of stored 16-bit samples, always even.
func (c *CompressedInt16Codec) PaddedSampleCount() int { return c.paddedCount }

func (c *CompressedInt16Codec) Encode(samples []float32) ([]byte, error) {
	if err := checkShape(samples, c.sampleCount); err != nil {
		return nil, err
	}

	record := make([]byte, c.recordSize)
	c.encode(record, samples)

	return record, nil
}

func (c *CompressedInt16Codec) EncodeInto(record []byte, samples []float32) error {
	if err := checkShape(samples, c.sampleCount); err != nil {
		return err
	}
	if err := checkRecord(record, c.recordSize); err != nil {
		return err
	}
	c.encode(record, samples)

	return nil
}

func (c *CompressedInt16Codec) encode(record []byte, samples []float32) {
	base := 4 * c.windowCount

	for w := range c.windowCount {
		k1 := w * WindowLength
		k2 := min(k1+WindowLength, c.sampleCount)

		scalar := windowScalar(samples[k1:k2])
		c.engine.PutUint32(record[4*w:], math.Float32bits(scalar))

		for i := k1; i < k2; i++ {
			q := uint16(quantBias)
			if scalar > 0 {
				q = quantize(float64(scalar) * float64(samples[i]))
			}
			c.engine.PutUint16(record[base+2*i:], q)
		}
	}

	if c.paddedCount > c.sampleCount {
		c.engine.PutUint16(record[base+2*c.sampleCount:], quantBias)
	}
}

func (c *CompressedInt16Codec) Decode(record []byte, dst []float32) ([]float32, error) {
	if err := checkRecord(record, c.recordSize); err != nil {
		return nil, err
	}

	dst = resize(dst, c.sampleCount)
	base := 4 * c.windowCount

	for w := range c.windowCount {
		k1 := w * WindowLength
		k2 := min(k1+WindowLength, c.sampleCount)

		scalar := math.Float32frombits(c.engine.Uint32(record[4*w:]))
		if !(scalar > 0) {
			clear(dst[k1:k2])
			continue
		}

		inv := 1.0 / float64(scalar)
		for i := k1; i < k2; i++ {
			q := int32(c.engine.Uint16(record[base+2*i:]))
			dst[i] = float32(inv * float64(q-quantBias))
		}
	}

	return dst, nil
}

func (c *CompressedInt16Codec) At(record []byte, index int) (float32, bool) {
	if index < 0 || index >= c.sampleCount || len(record) != c.recordSize {
		return 0, false
	}

	return c.at(record, index), true
}

func (c *CompressedInt16Codec) at(record []byte, index int) float32 {
	scalar := math.Float32frombits(c.engine.Uint32(record[4*(index/WindowLength):]))
	if !(scalar > 0) {
		return 0
	}
	q := int32(c.engine.Uint16(record[4*c.windowCount+2*index:]))

	return float32(float64(q-quantBias) / float64(scalar))
}

func (c *CompressedInt16Codec) All(record []byte) iter.Seq[float32] {
	return func(yield func(float32) bool) {
		if len(record) != c.recordSize {
			return
		}
		for i := range c.sampleCount {
			if !yield(c.at(record, i)) {
				return
			}
		}
	}
}

// windowScalar returns 32766 / max|s| over window, or 0 when the peak is zero
// or infinite. NaN samples do not count toward the peak.
func windowScalar(window []float32) float32 {
	var peak float64
	for _, v := range window {
		a := math.Abs(float64(v))
		if math.IsInf(a, 0) {
			return 0
		}
		if a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return 0
	}

	return float32(min(quantRange/peak, math.MaxFloat32))
}

func quantize(x float64) uint16 {
	if math.IsNaN(x) {
		return quantBias
	}
	v := math.Round(x) + quantBias
	switch {
	case v < 0:
		return 0
	case v > math.MaxUint16:
		return math.MaxUint16
	default:
		return uint16(v)
	}
}
