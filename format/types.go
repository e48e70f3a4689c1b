package format

import (
	"fmt"

	"github.com/arloliu/jseis/errs"
)

type (
	FieldKind   uint8
	TraceFormat uint8
)

const (
	KindInt32   FieldKind = 0x1 // KindInt32 is a signed 32-bit integer header element (INTEGER).
	KindInt64   FieldKind = 0x2 // KindInt64 is a signed 64-bit integer header element (LONG).
	KindFloat32 FieldKind = 0x3 // KindFloat32 is an IEEE-754 single precision element (FLOAT).
	KindFloat64 FieldKind = 0x4 // KindFloat64 is an IEEE-754 double precision element (DOUBLE).

	TraceCompressedInt16 TraceFormat = 0x1 // TraceCompressedInt16 is the windowed 16-bit fixed-point trace codec.
	TraceFloat32         TraceFormat = 0x2 // TraceFloat32 stores raw 32-bit float samples.
)

// String returns the metadata format name of the kind.
func (k FieldKind) String() string {
	switch k {
	case KindInt32:
		return "INTEGER"
	case KindInt64:
		return "LONG"
	case KindFloat32:
		return "FLOAT"
	case KindFloat64:
		return "DOUBLE"
	default:
		return "Unknown"
	}
}

// Width returns the byte width of one element of kind, or 0 for an unknown kind.
func (k FieldKind) Width() int {
	switch k {
	case KindInt32, KindFloat32:
		return 4
	case KindInt64, KindFloat64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether the kind holds floating point elements.
func (k FieldKind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// Valid reports whether k is one of the defined kinds.
func (k FieldKind) Valid() bool {
	return k.Width() > 0
}

// ParseFieldKind maps a metadata format name to its kind.
func ParseFieldKind(name string) (FieldKind, error) {
	switch name {
	case "INTEGER":
		return KindInt32, nil
	case "LONG":
		return KindInt64, nil
	case "FLOAT":
		return KindFloat32, nil
	case "DOUBLE":
		return KindFloat64, nil
	default:
		return 0, fmt.Errorf("%w: unsupported header format %q", errs.ErrInvalidField, name)
	}
}

func (f TraceFormat) String() string {
	switch f {
	case TraceCompressedInt16:
		return "COMPRESSED_INT16"
	case TraceFloat32:
		return "FLOAT"
	default:
		return "Unknown"
	}
}

// ParseTraceFormat maps a metadata TraceFormat name to its value.
func ParseTraceFormat(name string) (TraceFormat, error) {
	switch name {
	case "COMPRESSED_INT16":
		return TraceCompressedInt16, nil
	case "FLOAT":
		return TraceFloat32, nil
	default:
		return 0, fmt.Errorf("%w: unsupported trace format %q", errs.ErrInvalidMetadata, name)
	}
}
