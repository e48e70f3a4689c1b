// Package errs defines the sentinel errors shared by all jseis packages.
//
// Call sites wrap these values with context using fmt.Errorf and the %w verb,
// so callers can classify a failure with errors.Is regardless of the message.
package errs

import "errors"

// Geometry and schema errors.
var (
	// ErrInvalidGeometry is returned when dataset or codec dimensions are not positive.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrDuplicateLabel is returned when adding a header field whose label already exists.
	ErrDuplicateLabel = errors.New("duplicate header label")
	// ErrUnknownLabel is returned when a header field label is not part of the schema.
	ErrUnknownLabel = errors.New("unknown header label")
	// ErrInvalidField is returned for a field descriptor with an empty label, bad kind or count.
	ErrInvalidField = errors.New("invalid header field")
	// ErrEmptySchema is returned when a dataset would be left with zero-byte header records.
	ErrEmptySchema = errors.New("header schema has no fields")
	// ErrSchemaMismatch is returned when persisted byte offsets disagree with the canonical layout.
	ErrSchemaMismatch = errors.New("header schema does not match its persisted layout")
)

// Addressing and I/O errors.
var (
	// ErrAddressing is returned for negative record indexes or a non-positive extent capacity.
	ErrAddressing = errors.New("invalid extent address")
	// ErrIndexOutOfRange is returned for a logical index outside the dataset or fold map bounds.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrMissingExtent is returned when an address resolves past the last known extent file.
	ErrMissingExtent = errors.New("missing extent file")
	// ErrShortRead is returned when an extent holds fewer bytes than a full record.
	ErrShortRead = errors.New("short read from extent")
	// ErrInvalidRecordSize is returned when a record buffer does not match the family record size.
	ErrInvalidRecordSize = errors.New("invalid record size")
	// ErrShapeMismatch is returned when a sample vector length differs from the codec sample count.
	ErrShapeMismatch = errors.New("sample vector length mismatch")
	// ErrFoldOutOfRange is returned when a fold value is negative or exceeds traces per frame.
	ErrFoldOutOfRange = errors.New("fold out of range")
)

// Metadata and lifecycle errors.
var (
	// ErrMissingMetadata is returned when a required metadata artifact is absent.
	ErrMissingMetadata = errors.New("missing metadata")
	// ErrInvalidMetadata is returned when a metadata artifact exists but cannot be interpreted.
	ErrInvalidMetadata = errors.New("invalid metadata")
	// ErrReadOnly is returned when a write is attempted on a dataset opened read-only.
	ErrReadOnly = errors.New("dataset is read-only")
	// ErrClosed is returned when a dataset is used after Close.
	ErrClosed = errors.New("dataset is closed")
)
