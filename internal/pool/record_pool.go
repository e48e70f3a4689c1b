// Package pool provides reusable scratch buffers for extent record transfers.
package pool

import "sync"

// RecordBufferMaxThreshold is the largest buffer capacity kept in the pool.
// Larger record buffers are dropped on release.
const RecordBufferMaxThreshold = 1024 * 1024 // 1MiB

var recordPool = sync.Pool{
	New: func() any { return &[]byte{} },
}

// GetRecord retrieves a byte slice of exactly size bytes from the pool.
//
// The slice contents are unspecified. The caller must call the returned
// cleanup function (typically with defer) once the slice is no longer used.
//
// Example:
//
//	buf, release := pool.GetRecord(family.RecordSize())
//	defer release()
func GetRecord(size int) ([]byte, func()) {
	ptr, _ := recordPool.Get().(*[]byte)
	buf := *ptr

	if cap(buf) < size {
		buf = make([]byte, size)
	} else {
		buf = buf[:size]
	}
	*ptr = buf

	return buf, func() {
		if cap(*ptr) > RecordBufferMaxThreshold {
			return
		}
		recordPool.Put(ptr)
	}
}
