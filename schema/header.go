package schema

// Header is a mutable view over one header record.
//
// Integer accessors on float fields truncate toward zero; float setters on
// integer fields round to the nearest integer.
type Header struct {
	layout *Layout
	buf    []byte
}

// Layout returns the layout the header was built with.
func (h *Header) Layout() *Layout {
	return h.layout
}

// Bytes returns the encoded record. The slice aliases the header storage.
func (h *Header) Bytes() []byte {
	return h.buf
}

// Int returns the first element of label as an integer.
func (h *Header) Int(label string) (int64, error) {
	return h.IntAt(label, 0)
}

// IntAt returns element i of label as an integer.
func (h *Header) IntAt(label string, i int) (int64, error) {
	s, err := h.layout.slot(label)
	if err != nil {
		return 0, err
	}
	b, err := s.element(h.buf, i)
	if err != nil {
		return 0, err
	}

	return s.ops.getInt(h.layout.engine, b), nil
}

// Float returns the first element of label as a float.
func (h *Header) Float(label string) (float64, error) {
	return h.FloatAt(label, 0)
}

// FloatAt returns element i of label as a float.
func (h *Header) FloatAt(label string, i int) (float64, error) {
	s, err := h.layout.slot(label)
	if err != nil {
		return 0, err
	}
	b, err := s.element(h.buf, i)
	if err != nil {
		return 0, err
	}

	return s.ops.getFloat(h.layout.engine, b), nil
}

// Floats returns every element of label as floats.
func (h *Header) Floats(label string) ([]float64, error) {
	s, err := h.layout.slot(label)
	if err != nil {
		return nil, err
	}

	out := make([]float64, s.Count)
	for i := range out {
		b, _ := s.element(h.buf, i)
		out[i] = s.ops.getFloat(h.layout.engine, b)
	}

	return out, nil
}

// SetInt sets the first element of label.
func (h *Header) SetInt(label string, v int64) error {
	return h.SetIntAt(label, 0, v)
}

// SetIntAt sets element i of label.
func (h *Header) SetIntAt(label string, i int, v int64) error {
	s, err := h.layout.slot(label)
	if err != nil {
		return err
	}
	b, err := s.element(h.buf, i)
	if err != nil {
		return err
	}
	s.ops.putInt(h.layout.engine, b, v)

	return nil
}

// SetFloat sets the first element of label.
func (h *Header) SetFloat(label string, v float64) error {
	return h.SetFloatAt(label, 0, v)
}

// SetFloatAt sets element i of label.
func (h *Header) SetFloatAt(label string, i int, v float64) error {
	s, err := h.layout.slot(label)
	if err != nil {
		return err
	}
	b, err := s.element(h.buf, i)
	if err != nil {
		return err
	}
	s.ops.putFloat(h.layout.engine, b, v)

	return nil
}

// CopyCommon copies every field present in both src and h, element by element
// up to the smaller element count, converting between kinds. Fields only in h
// keep their current value.
func (h *Header) CopyCommon(src *Header) {
	for i := range h.layout.slots {
		dst := &h.layout.slots[i]
		from, ok := src.layout.Slot(dst.Label)
		if !ok {
			continue
		}

		n := min(dst.Count, from.Count)
		intPath := !dst.Kind.IsFloat() && !from.Kind.IsFloat()
		for e := range n {
			sb, _ := from.element(src.buf, e)
			db, _ := dst.element(h.buf, e)
			if intPath {
				dst.ops.putInt(h.layout.engine, db, from.ops.getInt(src.layout.engine, sb))
			} else {
				dst.ops.putFloat(h.layout.engine, db, from.ops.getFloat(src.layout.engine, sb))
			}
		}
	}
}
