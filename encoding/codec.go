package encoding

import (
	"fmt"
	"iter"

	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/format"
)

// TraceCodec encodes one trace of SampleCount samples into exactly RecordSize bytes.
type TraceCodec interface {
	// Format identifies the on-disk trace format.
	Format() format.TraceFormat

	// SampleCount returns the number of samples per trace.
	SampleCount() int

	// RecordSize returns the encoded trace length in bytes.
	RecordSize() int

	// Encode returns a newly allocated record for samples.
	// It fails with ErrShapeMismatch if len(samples) != SampleCount().
	Encode(samples []float32) ([]byte, error)

	// EncodeInto writes samples into record, which must be RecordSize() bytes long.
	EncodeInto(record []byte, samples []float32) error

	// Decode returns the samples stored in record. If dst has enough capacity
	// it is reused, otherwise a new slice is allocated.
	// It fails with ErrInvalidRecordSize if len(record) != RecordSize().
	Decode(record []byte, dst []float32) ([]float32, error)

	// At decodes the single sample at index. The second return value is false
	// when index is outside [0, SampleCount()) or the record has the wrong size.
	At(record []byte, index int) (float32, bool)

	// All returns an iterator over the decoded samples of record.
	// It yields nothing for a record of the wrong size.
	All(record []byte) iter.Seq[float32]
}

// NewTraceCodec is a factory function that creates the codec for a trace format.
//
// Parameters:
//   - traceFormat: On-disk trace format
//   - sampleCount: Samples per trace, must be positive
//   - engine: Byte order of the dataset
//
// Returns:
//   - TraceCodec: Codec instance
//   - error: ErrInvalidGeometry for a non-positive sample count, ErrInvalidMetadata for an unknown format
func NewTraceCodec(traceFormat format.TraceFormat, sampleCount int, engine endian.EndianEngine) (TraceCodec, error) {
	switch traceFormat {
	case format.TraceCompressedInt16:
		return NewCompressedInt16Codec(sampleCount, engine)
	case format.TraceFloat32:
		return NewFloat32Codec(sampleCount, engine)
	default:
		return nil, fmt.Errorf("%w: unsupported trace format %s", errs.ErrInvalidMetadata, traceFormat)
	}
}

func checkSampleCount(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: sample count must be positive, got %d", errs.ErrInvalidGeometry, n)
	}

	return nil
}

func checkShape(samples []float32, n int) error {
	if len(samples) != n {
		return fmt.Errorf("%w: got %d samples, codec expects %d", errs.ErrShapeMismatch, len(samples), n)
	}

	return nil
}

func checkRecord(record []byte, size int) error {
	if len(record) != size {
		return fmt.Errorf("%w: trace record has %d bytes, codec expects %d", errs.ErrInvalidRecordSize, len(record), size)
	}

	return nil
}

func resize(dst []float32, n int) []float32 {
	if cap(dst) < n {
		return make([]float32, n)
	}

	return dst[:n]
}
