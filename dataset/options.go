package dataset

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/format"
	"github.com/arloliu/jseis/internal/options"
	"github.com/arloliu/jseis/schema"
)

// Config holds the settings used by Create and Open.
//
// Byte order, trace format, initial fields, extent capacity and the naming
// options only affect Create; an opened dataset takes them from its metadata.
type Config struct {
	engine          endian.EndianEngine
	traceFormat     format.TraceFormat
	fields          []schema.FieldDescriptor
	livenessLabel   string
	extentCapacity  int64
	descriptiveName string
	dataType        string
	axisLabels      []string
	logger          *slog.Logger
	readOnly        bool
}

func newConfig() *Config {
	return &Config{
		engine:        endian.GetLittleEndianEngine(),
		traceFormat:   format.TraceCompressedInt16,
		fields:        schema.DefaultFields(),
		livenessLabel: schema.LivenessLabel,
		dataType:      "UNKNOWN",
		logger:        slog.New(slog.DiscardHandler),
	}
}

// Option represents a functional option for configuring a dataset.
type Option = options.Option[*Config]

// WithLittleEndian stores records in little-endian byte order. It is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *Config) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian stores records in big-endian byte order.
func WithBigEndian() Option {
	return options.NoError(func(c *Config) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithTraceFormat selects the on-disk trace format. The default is
// format.TraceCompressedInt16.
func WithTraceFormat(f format.TraceFormat) Option {
	return options.New(func(c *Config) error {
		switch f {
		case format.TraceCompressedInt16, format.TraceFloat32:
			c.traceFormat = f
			return nil
		default:
			return fmt.Errorf("%w: unsupported trace format %s", errs.ErrInvalidMetadata, f)
		}
	})
}

// WithFields replaces the default header fields of a new dataset.
func WithFields(fields ...schema.FieldDescriptor) Option {
	return options.NoError(func(c *Config) {
		c.fields = slices.Clone(fields)
	})
}

// WithLivenessField names the header field whose zero value marks a dead
// trace in ReadLiveFrame. The default is TRC_TYPE.
func WithLivenessField(label string) Option {
	return options.New(func(c *Config) error {
		if label == "" {
			return fmt.Errorf("%w: empty liveness label", errs.ErrInvalidField)
		}
		c.livenessLabel = label

		return nil
	})
}

// WithExtentCapacity splits each record family of a new dataset into extents
// of at most n records. By default each family is a single extent.
func WithExtentCapacity(n int64) Option {
	return options.New(func(c *Config) error {
		if n <= 0 {
			return fmt.Errorf("%w: extent capacity must be positive, got %d", errs.ErrAddressing, n)
		}
		c.extentCapacity = n

		return nil
	})
}

// WithDescriptiveName sets the human readable dataset name.
func WithDescriptiveName(name string) Option {
	return options.NoError(func(c *Config) {
		c.descriptiveName = name
	})
}

// WithDataType sets the DataType file property, e.g. "CMP" or "SOURCE".
func WithDataType(dataType string) Option {
	return options.NoError(func(c *Config) {
		c.dataType = dataType
	})
}

// WithAxisLabels overrides the default axis labels, starting with the sample axis.
// Labels may contain spaces but not double quotes.
func WithAxisLabels(labels ...string) Option {
	return options.New(func(c *Config) error {
		for _, l := range labels {
			if strings.ContainsRune(l, '"') {
				return fmt.Errorf("%w: axis label %q contains a double quote", errs.ErrInvalidMetadata, l)
			}
		}
		c.axisLabels = slices.Clone(labels)

		return nil
	})
}

// WithLogger sets the logger for lifecycle events. Logging is disabled by default.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithReadOnly opens the dataset without write access. Every mutating call
// then fails with ErrReadOnly.
func WithReadOnly() Option {
	return options.NoError(func(c *Config) {
		c.readOnly = true
	})
}
