package encoding

import (
	"iter"
	"math"

	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/format"
)

// Float32Codec stores samples as raw IEEE-754 single precision values in the
// dataset byte order. Records are 4 x SampleCount bytes and round trip exactly.
type Float32Codec struct {
	engine      endian.EndianEngine
	sampleCount int
}

var _ TraceCodec = (*Float32Codec)(nil)

// NewFloat32Codec creates a raw codec for traces of sampleCount samples.
//
// Returns:
//   - *Float32Codec: Codec instance
//   - error: ErrInvalidGeometry if sampleCount <= 0
func NewFloat32Codec(sampleCount int, engine endian.EndianEngine) (*Float32Codec, error) {
	if err := checkSampleCount(sampleCount); err != nil {
		return nil, err
	}

	return &Float32Codec{engine: engine, sampleCount: sampleCount}, nil
}

func (c *Float32Codec) Format() format.TraceFormat { return format.TraceFloat32 }

func (c *Float32Codec) SampleCount() int { return c.sampleCount }

func (c *Float32Codec) RecordSize() int { return 4 * c.sampleCount }

func (c *Float32Codec) Encode(samples []float32) ([]byte, error) {
	if err := checkShape(samples, c.sampleCount); err != nil {
		return nil, err
	}

	record := make([]byte, 0, c.RecordSize())
	for _, v := range samples {
		record = c.engine.AppendUint32(record, math.Float32bits(v))
	}

	return record, nil
}

func (c *Float32Codec) EncodeInto(record []byte, samples []float32) error {
	if err := checkShape(samples, c.sampleCount); err != nil {
		return err
	}
	if err := checkRecord(record, c.RecordSize()); err != nil {
		return err
	}

	for i, v := range samples {
		c.engine.PutUint32(record[4*i:], math.Float32bits(v))
	}

	return nil
}

func (c *Float32Codec) Decode(record []byte, dst []float32) ([]float32, error) {
	if err := checkRecord(record, c.RecordSize()); err != nil {
		return nil, err
	}

	dst = resize(dst, c.sampleCount)
	for i := range dst {
		dst[i] = math.Float32frombits(c.engine.Uint32(record[4*i:]))
	}

	return dst, nil
}

func (c *Float32Codec) At(record []byte, index int) (float32, bool) {
	if index < 0 || index >= c.sampleCount || len(record) != c.RecordSize() {
		return 0, false
	}

	return math.Float32frombits(c.engine.Uint32(record[4*index:])), true
}

func (c *Float32Codec) All(record []byte) iter.Seq[float32] {
	return func(yield func(float32) bool) {
		if len(record) != c.RecordSize() {
			return
		}
		for i := range c.sampleCount {
			if !yield(math.Float32frombits(c.engine.Uint32(record[4*i:]))) {
				return
			}
		}
	}
}
