package schema

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/arloliu/jseis/errs"
	"github.com/arloliu/jseis/format"
	"github.com/stretchr/testify/require"
)

func requireCanonical(t *testing.T, s *HeaderSchema) {
	t.Helper()

	offset := 0
	fields := s.Fields()
	for i, f := range fields {
		if i > 0 {
			require.Less(t, fields[i-1].Label, f.Label, "fields must be sorted by label")
		}
		require.Equal(t, offset, f.Offset, "field %s", f.Label)
		offset += f.Width()

		got, ok := s.Get(f.Label)
		require.True(t, ok)
		require.Equal(t, f, got)
	}
	require.Equal(t, offset, s.TotalBytes())
}

func TestHeaderSchema_AlphabeticalRemap(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	require.Zero(t, s.TotalBytes())

	require.NoError(t, s.Add(Field("FOO", format.KindInt32, 1)))
	require.NoError(t, s.Add(Field("BAR", format.KindFloat64, 1)))

	require.Equal(t, []string{"BAR", "FOO"}, s.Labels())
	bar, _ := s.Get("BAR")
	foo, _ := s.Get("FOO")
	require.Equal(t, 0, bar.Offset)
	require.Equal(t, 8, foo.Offset)
	require.Equal(t, 12, s.TotalBytes())

	t.Run("delete shifts remaining fields", func(t *testing.T) {
		c := s.Clone()
		require.NoError(t, c.Delete("BAR"))

		foo, ok := c.Get("FOO")
		require.True(t, ok)
		require.Equal(t, 0, foo.Offset)
		require.Equal(t, 4, c.TotalBytes())

		// the original is untouched
		require.Equal(t, 12, s.TotalBytes())
	})
}

func TestHeaderSchema_Errors(t *testing.T) {
	s, err := New(Field("A", format.KindInt32, 1), Field("B", format.KindInt64, 2))
	require.NoError(t, err)
	before := s.Fields()

	t.Run("duplicate add", func(t *testing.T) {
		err := s.Add(Field("A", format.KindFloat32, 1))
		require.ErrorIs(t, err, errs.ErrDuplicateLabel)
	})

	t.Run("unknown delete", func(t *testing.T) {
		require.ErrorIs(t, s.Delete("Z"), errs.ErrUnknownLabel)
	})

	t.Run("unknown replace", func(t *testing.T) {
		require.ErrorIs(t, s.Replace(Field("Z", format.KindInt32, 1)), errs.ErrUnknownLabel)
	})

	t.Run("invalid fields", func(t *testing.T) {
		require.ErrorIs(t, s.Add(Field("", format.KindInt32, 1)), errs.ErrInvalidField)
		require.ErrorIs(t, s.Add(Field("C", format.FieldKind(0), 1)), errs.ErrInvalidField)
		require.ErrorIs(t, s.Add(Field("C", format.KindInt32, 0)), errs.ErrInvalidField)
		require.ErrorIs(t, s.Replace(Field("A", format.KindInt32, -1)), errs.ErrInvalidField)
	})

	t.Run("duplicate in constructor", func(t *testing.T) {
		_, err := New(Field("A", format.KindInt32, 1), Field("A", format.KindInt32, 1))
		require.ErrorIs(t, err, errs.ErrDuplicateLabel)
	})

	require.Equal(t, before, s.Fields(), "failed mutations must not change the schema")
}

func TestHeaderSchema_Replace(t *testing.T) {
	s, err := New(Field("A", format.KindInt32, 1), Field("B", format.KindInt32, 1))
	require.NoError(t, err)

	repl := Field("A", format.KindFloat64, 3)
	repl.Description = "widened"
	repl.Offset = 999
	require.NoError(t, s.Replace(repl))

	a, _ := s.Get("A")
	b, _ := s.Get("B")
	require.Equal(t, format.KindFloat64, a.Kind)
	require.Equal(t, "widened", a.Description)
	require.Equal(t, 0, a.Offset)
	require.Equal(t, 24, b.Offset)
	require.Equal(t, 28, s.TotalBytes())
}

func TestHeaderSchema_PackingInvariant(t *testing.T) {
	kinds := []format.FieldKind{format.KindInt32, format.KindInt64, format.KindFloat32, format.KindFloat64}
	rng := rand.New(rand.NewSource(42))

	s, err := New()
	require.NoError(t, err)

	for range 500 {
		label := fmt.Sprintf("F%02d", rng.Intn(30))
		f := Field(label, kinds[rng.Intn(len(kinds))], 1+rng.Intn(4))

		switch rng.Intn(3) {
		case 0:
			had := s.Has(label)
			err = s.Add(f)
			if had {
				require.ErrorIs(t, err, errs.ErrDuplicateLabel)
			} else {
				require.NoError(t, err)
			}
		case 1:
			had := s.Has(label)
			err = s.Delete(label)
			if !had {
				require.ErrorIs(t, err, errs.ErrUnknownLabel)
			}
		case 2:
			had := s.Has(label)
			err = s.Replace(f)
			if !had {
				require.ErrorIs(t, err, errs.ErrUnknownLabel)
			}
		}
		requireCanonical(t, s)
	}
}

func TestHeaderSchema_InsertionOrderIndependent(t *testing.T) {
	a, err := New(Field("X", format.KindInt32, 1), Field("A", format.KindFloat64, 2), Field("M", format.KindInt64, 1))
	require.NoError(t, err)

	b, err := New()
	require.NoError(t, err)
	require.NoError(t, b.Add(Field("M", format.KindInt64, 1)))
	require.NoError(t, b.Add(Field("X", format.KindInt32, 1)))
	require.NoError(t, b.Add(Field("A", format.KindFloat64, 2)))

	require.Equal(t, a.Fields(), b.Fields())
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	require.NoError(t, b.Replace(Field("X", format.KindInt64, 1)))
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestFromPersisted(t *testing.T) {
	canonical, err := New(DefaultFields()...)
	require.NoError(t, err)

	t.Run("matching offsets", func(t *testing.T) {
		s, err := FromPersisted(canonical.Fields())
		require.NoError(t, err)
		require.Equal(t, canonical.Fields(), s.Fields())
	})

	t.Run("stale offsets", func(t *testing.T) {
		fields := canonical.Fields()
		fields[0].Offset = 68
		_, err := FromPersisted(fields)
		require.ErrorIs(t, err, errs.ErrSchemaMismatch)
	})
}

func TestDefaultFields(t *testing.T) {
	s, err := New(DefaultFields()...)
	require.NoError(t, err)
	require.Equal(t, 18, s.Len())
	require.Equal(t, 72, s.TotalBytes())
	require.True(t, s.Has(LivenessLabel))
	requireCanonical(t, s)
}
