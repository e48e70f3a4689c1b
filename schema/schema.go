package schema

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/arloliu/jseis/endian"
	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/internal/hash"
)

// HeaderSchema is the ordered catalogue of header fields of a dataset.
//
// Fields are always kept in canonical order: sorted by label, with byte offsets
// packed contiguously from 0 in that order. Every mutation recomputes the whole
// layout ("remap"), so the byte layout depends only on the current field set and
// never on the order fields were added in.
//
// The alphabetical packing is carried over from existing datasets for
// compatibility. It looks like an artifact of the tool that first wrote the
// format rather than a deliberate rule, so callers should address fields by
// label and never rely on offsets being stable across mutations.
//
// Mutations are all-or-nothing: a failed Add, Delete or Replace leaves the
// schema unchanged.
//
// HeaderSchema is not safe for concurrent mutation.
type HeaderSchema struct {
	fields     []FieldDescriptor
	index      map[string]int
	totalBytes int
}

// New creates a schema holding the given fields in canonical layout.
//
// Parameters:
//   - fields: Initial fields; offsets are ignored and recomputed
//
// Returns:
//   - *HeaderSchema: Remapped schema
//   - error: ErrInvalidField or ErrDuplicateLabel
func New(fields ...FieldDescriptor) (*HeaderSchema, error) {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if err := f.validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[f.Label]; ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateLabel, f.Label)
		}
		seen[f.Label] = struct{}{}
	}

	s := &HeaderSchema{}
	s.install(slices.Clone(fields))

	return s, nil
}

// FromPersisted rebuilds a schema from fields read back from metadata and checks
// that their stored offsets match the canonical layout.
//
// Returns:
//   - *HeaderSchema: Remapped schema
//   - error: ErrSchemaMismatch if any stored offset differs, or New errors
func FromPersisted(fields []FieldDescriptor) (*HeaderSchema, error) {
	s, err := New(fields...)
	if err != nil {
		return nil, err
	}

	for _, f := range fields {
		got, _ := s.Get(f.Label)
		if got.Offset != f.Offset {
			return nil, fmt.Errorf("%w: field %q stored at offset %d, canonical offset is %d",
				errs.ErrSchemaMismatch, f.Label, f.Offset, got.Offset)
		}
	}

	return s, nil
}

// Get returns the descriptor for label.
func (s *HeaderSchema) Get(label string) (FieldDescriptor, bool) {
	i, ok := s.index[label]
	if !ok {
		return FieldDescriptor{}, false
	}

	return s.fields[i], true
}

// Has reports whether label is part of the schema.
func (s *HeaderSchema) Has(label string) bool {
	_, ok := s.index[label]
	return ok
}

// Add appends a field and remaps.
//
// Returns:
//   - error: ErrDuplicateLabel if the label already exists, ErrInvalidField for a bad descriptor
func (s *HeaderSchema) Add(f FieldDescriptor) error {
	if err := f.validate(); err != nil {
		return err
	}
	if s.Has(f.Label) {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateLabel, f.Label)
	}

	next := make([]FieldDescriptor, 0, len(s.fields)+1)
	next = append(next, s.fields...)
	next = append(next, f)
	s.install(next)

	return nil
}

// Delete removes a field and remaps.
//
// Returns:
//   - error: ErrUnknownLabel if the label is absent
func (s *HeaderSchema) Delete(label string) error {
	i, ok := s.index[label]
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrUnknownLabel, label)
	}

	next := make([]FieldDescriptor, 0, len(s.fields)-1)
	next = append(next, s.fields[:i]...)
	next = append(next, s.fields[i+1:]...)
	s.install(next)

	return nil
}

// Replace swaps the field carrying f.Label for f and remaps.
//
// Returns:
//   - error: ErrUnknownLabel if the label is absent, ErrInvalidField for a bad descriptor
func (s *HeaderSchema) Replace(f FieldDescriptor) error {
	i, ok := s.index[f.Label]
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrUnknownLabel, f.Label)
	}
	if err := f.validate(); err != nil {
		return err
	}

	next := slices.Clone(s.fields)
	next[i] = f
	s.install(next)

	return nil
}

// Fields returns a copy of the fields in canonical order.
func (s *HeaderSchema) Fields() []FieldDescriptor {
	return slices.Clone(s.fields)
}

// Labels returns the field labels in canonical order.
func (s *HeaderSchema) Labels() []string {
	labels := make([]string, len(s.fields))
	for i, f := range s.fields {
		labels[i] = f.Label
	}

	return labels
}

// Len returns the number of fields.
func (s *HeaderSchema) Len() int {
	return len(s.fields)
}

// TotalBytes returns the header record length.
func (s *HeaderSchema) TotalBytes() int {
	return s.totalBytes
}

// Clone returns an independent copy of the schema.
func (s *HeaderSchema) Clone() *HeaderSchema {
	c := &HeaderSchema{}
	c.install(slices.Clone(s.fields))

	return c
}

// Compile builds the binary layout used to encode and decode header records.
// It must be called again after every mutation.
func (s *HeaderSchema) Compile(engine endian.EndianEngine) *Layout {
	return newLayout(s.fields, s.totalBytes, engine)
}

// Fingerprint returns a hash of the canonical layout. Two schemas with the same
// fingerprint produce byte-compatible header records.
func (s *HeaderSchema) Fingerprint() uint64 {
	parts := make([]string, 0, len(s.fields)*4)
	for _, f := range s.fields {
		parts = append(parts, f.Label, f.Kind.String(), strconv.Itoa(f.Count), strconv.Itoa(f.Offset))
	}

	return hash.Fingerprint(parts...)
}

// install remaps fields and makes them the schema state.
func (s *HeaderSchema) install(fields []FieldDescriptor) {
	s.fields, s.index, s.totalBytes = remap(fields)
}

// remap sorts fields by label and assigns contiguous offsets from 0.
func remap(fields []FieldDescriptor) ([]FieldDescriptor, map[string]int, int) {
	slices.SortFunc(fields, func(a, b FieldDescriptor) int {
		return cmp.Compare(a.Label, b.Label)
	})

	index := make(map[string]int, len(fields))
	offset := 0
	for i := range fields {
		fields[i].Offset = offset
		offset += fields[i].Width()
		index[fields[i].Label] = i
	}

	return fields, index, offset
}
