// Package jseis stores seismic trace data in JavaSeis-style extent datasets.
//
// A dataset keeps fixed-length trace records and typed header records in
// fixed-capacity extent files, with a lossy 16-bit windowed trace codec and a
// header schema that can be changed after the data is written.
//
// # Core Features
//
//   - Extent-addressed storage: record i lives in extent i / capacity
//   - COMPRESSED_INT16 traces: one float32 scalar per 100-sample window
//   - Mutable header schema with in-place migration of stored headers
//   - Per-frame fold map and live-trace filtering
//   - JavaSeis metadata side-files (FileProperties.xml, TraceFile.xml, ...)
//
// # Basic Usage
//
// Creating a dataset and writing a trace:
//
//	ds, err := jseis.Create("/data/line7.js", jseis.Geometry{
//	    SampleCount:    1001,
//	    TracesPerFrame: 120,
//	    FrameCount:     40,
//	    VolumeCount:    1,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ds.Close()
//
//	h := ds.NewHeader()
//	_ = h.SetInt("TRC_TYPE", 1)
//	_ = ds.WriteHeader(0, h)
//	_ = ds.WriteTrace(0, samples)
//	_ = ds.Save()
//
// Reading the live traces of a frame:
//
//	ds, _ := jseis.OpenReadOnly("/data/line7.js")
//	traces, _ := ds.ReadLiveFrame(3)
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the dataset
// package. The schema, encoding, extent, fold and metadata packages expose the
// individual building blocks.
package jseis

import (
	"github.com/arloliu/jseis/dataset"
	"github.com/arloliu/jseis/encoding"
	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/format"
	"github.com/arloliu/jseis/schema"
)

// Geometry is the scalar shape of a dataset.
type Geometry = dataset.Geometry

// Create lays out a new dataset in dir.
//
// Available options:
//   - dataset.WithLittleEndian() / dataset.WithBigEndian()
//   - dataset.WithTraceFormat(format.TraceCompressedInt16|TraceFloat32)
//   - dataset.WithFields(...) to replace the default header fields
//   - dataset.WithExtentCapacity(n)
//   - dataset.WithDescriptiveName(name), dataset.WithDataType(t), dataset.WithAxisLabels(...)
//   - dataset.WithLivenessField(label), dataset.WithLogger(logger)
//
// Example:
//
//	ds, err := jseis.Create(dir, geometry,
//	    dataset.WithBigEndian(),
//	    dataset.WithExtentCapacity(10000),
//	)
func Create(dir string, geometry Geometry, opts ...dataset.Option) (*dataset.Dataset, error) {
	return dataset.Create(dir, geometry, opts...)
}

// Open binds to an existing dataset for reading and writing.
func Open(dir string, opts ...dataset.Option) (*dataset.Dataset, error) {
	return dataset.Open(dir, opts...)
}

// OpenReadOnly binds to an existing dataset without write access.
func OpenReadOnly(dir string, opts ...dataset.Option) (*dataset.Dataset, error) {
	return dataset.Open(dir, append(opts, dataset.WithReadOnly())...)
}

// DefaultSchema returns a schema holding the standard JavaSeis trace properties.
func DefaultSchema() *schema.HeaderSchema {
	s, err := schema.New(schema.DefaultFields()...)
	if err != nil {
		panic(err)
	}

	return s
}

// NewTraceCodec creates a standalone trace codec, e.g. to encode records
// outside a dataset.
//
// Parameters:
//   - traceFormat: On-disk trace format
//   - sampleCount: Samples per trace
//   - bigEndian: Use big-endian byte order instead of little-endian
//
// Returns:
//   - encoding.TraceCodec: Codec instance
//   - error: ErrInvalidGeometry or ErrInvalidMetadata
func NewTraceCodec(traceFormat format.TraceFormat, sampleCount int, bigEndian bool) (encoding.TraceCodec, error) {
	engine := endian.GetLittleEndianEngine()
	if bigEndian {
		engine = endian.GetBigEndianEngine()
	}

	return encoding.NewTraceCodec(traceFormat, sampleCount, engine)
}
