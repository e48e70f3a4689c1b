package format

import (
	"testing"

	"github.com/arloliu/jseis/errs"
	"github.com/stretchr/testify/require"
)

func TestFieldKind(t *testing.T) {
	tests := []struct {
		kind    FieldKind
		name    string
		width   int
		isFloat bool
	}{
		{KindInt32, "INTEGER", 4, false},
		{KindInt64, "LONG", 8, false},
		{KindFloat32, "FLOAT", 4, true},
		{KindFloat64, "DOUBLE", 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.name, tt.kind.String())
			require.Equal(t, tt.width, tt.kind.Width())
			require.Equal(t, tt.isFloat, tt.kind.IsFloat())
			require.True(t, tt.kind.Valid())

			parsed, err := ParseFieldKind(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.kind, parsed)
		})
	}

	require.False(t, FieldKind(0).Valid())
	require.Equal(t, "Unknown", FieldKind(9).String())

	_, err := ParseFieldKind("SHORT")
	require.ErrorIs(t, err, errs.ErrInvalidField)
}

func TestTraceFormat(t *testing.T) {
	for _, f := range []TraceFormat{TraceCompressedInt16, TraceFloat32} {
		parsed, err := ParseTraceFormat(f.String())
		require.NoError(t, err)
		require.Equal(t, f, parsed)
	}

	_, err := ParseTraceFormat("INT08")
	require.ErrorIs(t, err, errs.ErrInvalidMetadata)
}
