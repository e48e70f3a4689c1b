// Package schema manages the typed header fields of a trace dataset.
//
// A HeaderSchema is the mutable catalogue of fields; Compile turns it into an
// immutable Layout that encodes and decodes fixed-size header records through
// a closed dispatch table keyed by format.FieldKind.
//
//	s, _ := schema.New(schema.DefaultFields()...)
//	_ = s.Add(schema.Field("FFID", format.KindInt32, 1))
//	layout := s.Compile(endian.GetLittleEndianEngine())
//	h := layout.NewHeader()
//	_ = h.SetInt("FFID", 1001)
package schema
