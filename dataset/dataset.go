package dataset

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/jseis/encoding"
	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/extent"
	"github.com/arloliu/jseis/fold"
	"github.com/arloliu/jseis/internal/options"
	"github.com/arloliu/jseis/metadata"
	"github.com/arloliu/jseis/schema"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Dataset is an open trace archive: one header schema, one trace codec, the
// header and trace extent families, and the fold map.
//
// Record reads may run concurrently with each other. Writes assume a single
// writer, and schema mutation, fold updates, Save and Close must not run
// concurrently with other calls on the same dataset.
type Dataset struct {
	dir      string
	geometry Geometry
	engine   endian.EndianEngine
	codec    encoding.TraceCodec
	liveness string
	readOnly bool
	logger   *slog.Logger

	mu      sync.RWMutex
	schema  *schema.HeaderSchema
	layout  *schema.Layout
	headers *extent.Family
	traces  *extent.Family
	fold    *fold.Map
	meta    *metadata.Set
	closed  bool

	hasTraces atomic.Bool
}

// Trace is one header and trace pair read from a frame.
type Trace struct {
	Index   int64
	Header  *schema.Header
	Samples []float32
}

// Create lays out a new dataset in dir.
//
// Every family gets preallocated extents sized to hold all trace slots, the
// fold map starts at full fold, and all metadata is written before Create
// returns. Geometry and the initial schema are validated before any file is
// touched.
//
// Parameters:
//   - dir: Dataset directory, created if missing
//   - geometry: Dataset shape
//   - opts: Create options
//
// Returns:
//   - *Dataset: Writable dataset, release with Close
//   - error: ErrInvalidGeometry, ErrEmptySchema, schema errors or I/O errors
func Create(dir string, geometry Geometry, opts ...Option) (*Dataset, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.readOnly {
		return nil, fmt.Errorf("%w: cannot create a read-only dataset", errs.ErrReadOnly)
	}
	if err := geometry.Validate(); err != nil {
		return nil, err
	}
	if len(cfg.fields) == 0 {
		return nil, errs.ErrEmptySchema
	}

	hs, err := schema.New(cfg.fields...)
	if err != nil {
		return nil, err
	}
	codec, err := encoding.NewTraceCodec(cfg.traceFormat, geometry.SampleCount, cfg.engine)
	if err != nil {
		return nil, err
	}
	fm, err := fold.NewFull(geometry.FrameCount, geometry.VolumeCount, geometry.TracesPerFrame)
	if err != nil {
		return nil, err
	}

	total := geometry.TraceCount()
	capacity := total
	if cfg.extentCapacity > 0 && cfg.extentCapacity < total {
		capacity = cfg.extentCapacity
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset directory: %w", err)
	}

	headerPaths, err := extent.CreateExtents(dir, metadata.TraceHeadersPrefix, capacity, hs.TotalBytes(), total)
	if err != nil {
		return nil, err
	}
	tracePaths, err := extent.CreateExtents(dir, metadata.TraceFilePrefix, capacity, codec.RecordSize(), total)
	if err != nil {
		_ = extent.Remove(headerPaths)
		return nil, err
	}

	removeExtents := func() error {
		return errors.Join(extent.Remove(headerPaths), extent.Remove(tracePaths))
	}

	headers, err := extent.NewFamily(headerPaths, capacity, hs.TotalBytes(), false)
	if err != nil {
		return nil, errors.Join(err, removeExtents())
	}
	traces, err := extent.NewFamily(tracePaths, capacity, codec.RecordSize(), false)
	if err != nil {
		return nil, errors.Join(err, headers.Close(), removeExtents())
	}

	file := metadata.NewFileProperties(geometry.AxisLengths(), cfg.traceFormat, cfg.engine)
	file.DataType = cfg.dataType
	copy(file.AxisLabels, cfg.axisLabels)

	d := &Dataset{
		dir:      dir,
		geometry: geometry,
		engine:   cfg.engine,
		codec:    codec,
		liveness: cfg.livenessLabel,
		logger:   cfg.logger,
		schema:   hs,
		layout:   hs.Compile(cfg.engine),
		headers:  headers,
		traces:   traces,
		fold:     fm,
		meta: &metadata.Set{
			File:         file,
			Custom:       metadata.NewCustomProperties(),
			TraceFile:    extent.NewDescriptor(metadata.TraceFilePrefix, capacity, codec.RecordSize(), len(tracePaths)),
			TraceHeaders: extent.NewDescriptor(metadata.TraceHeadersPrefix, capacity, hs.TotalBytes(), len(headerPaths)),
			Folders:      metadata.NewVirtualFolders(),
			Name:         metadata.NewNameProperties(cfg.descriptiveName),
		},
	}
	d.syncSchemaMetadata()

	if err := d.save(); err != nil {
		return nil, errors.Join(err, d.closeFamilies(), removeExtents())
	}

	d.logger.Info("dataset created",
		"dir", dir,
		"id", d.meta.Name.DatasetID,
		"traces", total,
		"extents", len(tracePaths),
		"trace_bytes", humanize.IBytes(uint64(total)*uint64(codec.RecordSize())),
		"header_bytes", humanize.IBytes(uint64(total)*uint64(hs.TotalBytes())),
	)

	return d, nil
}

// Open binds to the dataset stored in dir.
//
// Returns:
//   - *Dataset: Opened dataset, release with Close
//   - error: ErrMissingMetadata for an absent side-file, ErrInvalidMetadata or
//     ErrSchemaMismatch for inconsistent metadata, ErrMissingExtent when fewer
//     extents exist than the metadata declares
func Open(dir string, opts ...Option) (*Dataset, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	meta, err := metadata.Read(dir)
	if err != nil {
		return nil, err
	}

	geometry, err := GeometryFromAxes(meta.File.AxisLengths)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidMetadata, err)
	}

	hs, err := schema.FromPersisted(meta.Fields)
	if err != nil {
		return nil, err
	}
	if hs.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", errs.ErrEmptySchema, metadata.FilePropertiesFile)
	}
	if hs.TotalBytes() != meta.File.HeaderLengthBytes {
		return nil, fmt.Errorf("%w: header length %d, fields span %d bytes",
			errs.ErrSchemaMismatch, meta.File.HeaderLengthBytes, hs.TotalBytes())
	}
	if h := meta.Custom.HeaderSchemaHash; h != 0 && h != hs.Fingerprint() {
		return nil, fmt.Errorf("%w: fingerprint %d, fields hash to %d", errs.ErrSchemaMismatch, h, hs.Fingerprint())
	}

	engine := meta.File.ByteOrder
	codec, err := encoding.NewTraceCodec(meta.File.TraceFormat, geometry.SampleCount, engine)
	if err != nil {
		return nil, err
	}

	total := geometry.TraceCount()
	headers, err := openFamily(dir, meta.TraceHeaders, hs.TotalBytes(), total, cfg.readOnly)
	if err != nil {
		return nil, err
	}
	traces, err := openFamily(dir, meta.TraceFile, codec.RecordSize(), total, cfg.readOnly)
	if err != nil {
		_ = headers.Close()
		return nil, err
	}

	fm, err := fold.Load(filepath.Join(dir, fold.FileName),
		geometry.FrameCount, geometry.VolumeCount, geometry.TracesPerFrame, engine)
	if err != nil {
		_ = errors.Join(headers.Close(), traces.Close())
		return nil, err
	}

	d := &Dataset{
		dir:      dir,
		geometry: geometry,
		engine:   engine,
		codec:    codec,
		liveness: cfg.livenessLabel,
		readOnly: cfg.readOnly,
		logger:   cfg.logger,
		schema:   hs,
		layout:   hs.Compile(engine),
		headers:  headers,
		traces:   traces,
		fold:     fm,
		meta:     meta,
	}
	d.hasTraces.Store(meta.Status.HasTraces)

	d.logger.Debug("dataset opened",
		"dir", dir,
		"id", meta.Name.DatasetID,
		"traces", total,
		"format", meta.File.TraceFormat,
		"byte_order", endian.Name(engine),
		"read_only", cfg.readOnly,
	)

	return d, nil
}

func openFamily(dir string, desc extent.Descriptor, recordSize int, total int64, readOnly bool) (*extent.Family, error) {
	capacity, err := desc.Capacity(recordSize)
	if err != nil {
		return nil, err
	}

	paths, err := extent.Discover(dir, desc.Name)
	if err != nil {
		return nil, err
	}
	need := max(desc.MaxFile, extent.ExtentCount(total, capacity))
	if len(paths) < need {
		return nil, fmt.Errorf("%w: found %d %s extents, need %d", errs.ErrMissingExtent, len(paths), desc.Name, need)
	}

	return extent.NewFamily(paths[:need], capacity, recordSize, readOnly)
}

// Dir returns the dataset directory.
func (d *Dataset) Dir() string { return d.dir }

// Geometry returns the dataset shape.
func (d *Dataset) Geometry() Geometry { return d.geometry }

// ByteOrder returns the byte order of every record.
func (d *Dataset) ByteOrder() endian.EndianEngine { return d.engine }

// Codec returns the trace codec.
func (d *Dataset) Codec() encoding.TraceCodec { return d.codec }

// TraceCount returns the number of trace slots.
func (d *Dataset) TraceCount() int64 { return d.geometry.TraceCount() }

// ReadOnly reports whether the dataset was opened with WithReadOnly.
func (d *Dataset) ReadOnly() bool { return d.readOnly }

// HasTraces reports whether any trace has been written.
func (d *Dataset) HasTraces() bool { return d.hasTraces.Load() }

// ID returns the dataset id from Name.properties.
func (d *Dataset) ID() uuid.UUID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.meta.Name.DatasetID
}

// DescriptiveName returns the human readable dataset name.
func (d *Dataset) DescriptiveName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.meta.Name.DescriptiveName
}

// Schema returns a copy of the current header schema.
func (d *Dataset) Schema() *schema.HeaderSchema {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.schema.Clone()
}

// Layout returns the compiled header layout. It changes after every schema mutation.
func (d *Dataset) Layout() *schema.Layout {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.layout
}

// NewHeader returns a zeroed header record for the current layout.
func (d *Dataset) NewHeader() *schema.Header {
	return d.Layout().NewHeader()
}

// Save persists metadata, status and the fold map.
func (d *Dataset) Save() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.checkWritable(); err != nil {
		return err
	}

	return d.save()
}

func (d *Dataset) save() error {
	d.meta.Status.HasTraces = d.hasTraces.Load()
	d.meta.Status.LastModified = time.Now()

	if err := errors.Join(d.headers.Sync(), d.traces.Sync()); err != nil {
		return fmt.Errorf("sync extents: %w", err)
	}
	if err := d.meta.Write(d.dir); err != nil {
		return err
	}
	if err := d.fold.Save(filepath.Join(d.dir, fold.FileName), d.engine); err != nil {
		return err
	}

	d.logger.Debug("dataset saved", "dir", d.dir, "has_traces", d.meta.Status.HasTraces)

	return nil
}

// Close releases every extent handle. It does not save; call Save first to
// persist fold and status changes. Close is safe to call more than once.
func (d *Dataset) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	err := d.closeFamilies()
	d.logger.Debug("dataset closed", "dir", d.dir, "error", err)

	return err
}

func (d *Dataset) closeFamilies() error {
	return errors.Join(d.headers.Close(), d.traces.Close())
}

func (d *Dataset) checkOpen() error {
	if d.closed {
		return errs.ErrClosed
	}

	return nil
}

func (d *Dataset) checkWritable() error {
	if d.closed {
		return errs.ErrClosed
	}
	if d.readOnly {
		return errs.ErrReadOnly
	}

	return nil
}

// syncSchemaMetadata copies the current schema into the metadata set.
func (d *Dataset) syncSchemaMetadata() {
	d.meta.Fields = d.schema.Fields()
	d.meta.File.HeaderLengthBytes = d.schema.TotalBytes()
	d.meta.Custom.HeaderSchemaHash = d.schema.Fingerprint()
}
