package schema

import (
	"fmt"

	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/format"
)

// FieldDescriptor describes one typed header field and its place in the header record.
type FieldDescriptor struct {
	// Label identifies the field; unique within a schema.
	Label string
	// Description is free text persisted alongside the field.
	Description string
	// Kind is the element type.
	Kind format.FieldKind
	// Count is the number of elements, at least 1.
	Count int
	// Offset is the byte offset of the first element inside the header record.
	// It is assigned by the schema on every mutation; values passed in by callers are ignored.
	Offset int
}

// Field returns a descriptor with the given label, kind and element count.
func Field(label string, kind format.FieldKind, count int) FieldDescriptor {
	return FieldDescriptor{Label: label, Kind: kind, Count: count}
}

// Width returns the number of bytes the field occupies.
func (f FieldDescriptor) Width() int {
	return f.Kind.Width() * f.Count
}

// End returns the offset one past the last byte of the field.
func (f FieldDescriptor) End() int {
	return f.Offset + f.Width()
}

func (f FieldDescriptor) validate() error {
	if f.Label == "" {
		return fmt.Errorf("%w: empty label", errs.ErrInvalidField)
	}
	if !f.Kind.Valid() {
		return fmt.Errorf("%w: field %q has unknown kind %d", errs.ErrInvalidField, f.Label, f.Kind)
	}
	if f.Count <= 0 {
		return fmt.Errorf("%w: field %q has element count %d", errs.ErrInvalidField, f.Label, f.Count)
	}

	return nil
}

func (f FieldDescriptor) String() string {
	return fmt.Sprintf("%s(%s x%d @%d)", f.Label, f.Kind, f.Count, f.Offset)
}
