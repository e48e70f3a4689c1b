package schema

import (
	"fmt"
	"math"

	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/format"
)

// kindOps is the per-kind entry of the header element dispatch table.
type kindOps struct {
	width    int
	getInt   func(e endian.EndianEngine, b []byte) int64
	getFloat func(e endian.EndianEngine, b []byte) float64
	putInt   func(e endian.EndianEngine, b []byte, v int64)
	putFloat func(e endian.EndianEngine, b []byte, v float64)
}

// kindTable maps every format.FieldKind to its element codec. Integer kinds
// round float input to the nearest integer; float kinds convert integer input.
var kindTable = [...]kindOps{
	format.KindInt32: {
		width:    4,
		getInt:   func(e endian.EndianEngine, b []byte) int64 { return int64(int32(e.Uint32(b))) },
		getFloat: func(e endian.EndianEngine, b []byte) float64 { return float64(int32(e.Uint32(b))) },
		putInt:   func(e endian.EndianEngine, b []byte, v int64) { e.PutUint32(b, uint32(int32(v))) },
		putFloat: func(e endian.EndianEngine, b []byte, v float64) { e.PutUint32(b, uint32(int32(math.Round(v)))) },
	},
	format.KindInt64: {
		width:    8,
		getInt:   func(e endian.EndianEngine, b []byte) int64 { return int64(e.Uint64(b)) },
		getFloat: func(e endian.EndianEngine, b []byte) float64 { return float64(int64(e.Uint64(b))) },
		putInt:   func(e endian.EndianEngine, b []byte, v int64) { e.PutUint64(b, uint64(v)) },
		putFloat: func(e endian.EndianEngine, b []byte, v float64) { e.PutUint64(b, uint64(int64(math.Round(v)))) },
	},
	format.KindFloat32: {
		width:    4,
		getInt:   func(e endian.EndianEngine, b []byte) int64 { return int64(math.Float32frombits(e.Uint32(b))) },
		getFloat: func(e endian.EndianEngine, b []byte) float64 { return float64(math.Float32frombits(e.Uint32(b))) },
		putInt:   func(e endian.EndianEngine, b []byte, v int64) { e.PutUint32(b, math.Float32bits(float32(v))) },
		putFloat: func(e endian.EndianEngine, b []byte, v float64) { e.PutUint32(b, math.Float32bits(float32(v))) },
	},
	format.KindFloat64: {
		width:    8,
		getInt:   func(e endian.EndianEngine, b []byte) int64 { return int64(math.Float64frombits(e.Uint64(b))) },
		getFloat: func(e endian.EndianEngine, b []byte) float64 { return math.Float64frombits(e.Uint64(b)) },
		putInt:   func(e endian.EndianEngine, b []byte, v int64) { e.PutUint64(b, math.Float64bits(float64(v))) },
		putFloat: func(e endian.EndianEngine, b []byte, v float64) { e.PutUint64(b, math.Float64bits(v)) },
	},
}

// Slot is one compiled field of a Layout.
type Slot struct {
	Label  string
	Kind   format.FieldKind
	Offset int
	Count  int
	ops    *kindOps
}

// Width returns the element width of the slot.
func (s *Slot) Width() int {
	return s.ops.width
}

func (s *Slot) element(buf []byte, i int) ([]byte, error) {
	if i < 0 || i >= s.Count {
		return nil, fmt.Errorf("%w: element %d of %q (count %d)", errs.ErrIndexOutOfRange, i, s.Label, s.Count)
	}
	start := s.Offset + i*s.ops.width

	return buf[start : start+s.ops.width], nil
}

// Layout is the compiled, immutable binary layout of a header record.
// It is safe for concurrent use.
type Layout struct {
	slots  []Slot
	index  map[string]int
	size   int
	engine endian.EndianEngine
}

func newLayout(fields []FieldDescriptor, size int, engine endian.EndianEngine) *Layout {
	l := &Layout{
		slots:  make([]Slot, len(fields)),
		index:  make(map[string]int, len(fields)),
		size:   size,
		engine: engine,
	}
	for i, f := range fields {
		l.slots[i] = Slot{
			Label:  f.Label,
			Kind:   f.Kind,
			Offset: f.Offset,
			Count:  f.Count,
			ops:    &kindTable[f.Kind],
		}
		l.index[f.Label] = i
	}

	return l
}

// Size returns the header record length in bytes.
func (l *Layout) Size() int {
	return l.size
}

// Engine returns the byte order of the layout.
func (l *Layout) Engine() endian.EndianEngine {
	return l.engine
}

// Slots returns the compiled fields in record order.
func (l *Layout) Slots() []Slot {
	return l.slots
}

// Slot returns the compiled field for label.
func (l *Layout) Slot(label string) (*Slot, bool) {
	i, ok := l.index[label]
	if !ok {
		return nil, false
	}

	return &l.slots[i], true
}

func (l *Layout) slot(label string) (*Slot, error) {
	s, ok := l.Slot(label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownLabel, label)
	}

	return s, nil
}

// NewHeader returns a zeroed header record for this layout.
func (l *Layout) NewHeader() *Header {
	return &Header{layout: l, buf: make([]byte, l.size)}
}

// DecodeHeader returns a header backed by a copy of record.
//
// Returns:
//   - *Header: Decoded header
//   - error: ErrInvalidRecordSize if len(record) differs from Size()
func (l *Layout) DecodeHeader(record []byte) (*Header, error) {
	if len(record) != l.size {
		return nil, fmt.Errorf("%w: header record has %d bytes, layout expects %d",
			errs.ErrInvalidRecordSize, len(record), l.size)
	}

	h := l.NewHeader()
	copy(h.buf, record)

	return h, nil
}
