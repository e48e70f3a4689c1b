package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetRecord(t *testing.T) {
	buf, release := GetRecord(64)
	require.Len(t, buf, 64)
	for i := range buf {
		buf[i] = byte(i)
	}
	release()

	buf, release = GetRecord(16)
	defer release()
	require.Len(t, buf, 16)

	large, releaseLarge := GetRecord(RecordBufferMaxThreshold + 1)
	require.Len(t, large, RecordBufferMaxThreshold+1)
	releaseLarge()
}
