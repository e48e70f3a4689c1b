// Package endian provides byte order utilities for extent records and side-files.
//
// An EndianEngine combines binary.ByteOrder and binary.AppendByteOrder, so the
// same value can be used to patch fixed-size records in place and to append to
// growing buffers. A dataset carries exactly one engine; every trace record,
// header record and fold entry of that dataset uses it.
//
// # Basic Usage
//
//	engine, err := endian.Parse("LITTLE_ENDIAN")
//	if err != nil {
//	    return err
//	}
//	engine.PutUint32(record[0:4], math.Float32bits(scalar))
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/arloliu/jseis/errs"
)

// Names used for the ByteOrder property of dataset metadata.
const (
	LittleEndianName = "LITTLE_ENDIAN"
	BigEndianName    = "BIG_ENDIAN"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
//
// This interface is satisfied by binary.LittleEndian and binary.BigEndian.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() EndianEngine {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNative reports whether engine matches the host byte order.
func IsNative(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// Parse maps a metadata ByteOrder value to its engine.
//
// Parameters:
//   - name: LITTLE_ENDIAN or BIG_ENDIAN
//
// Returns:
//   - EndianEngine: matching engine
//   - error: ErrInvalidMetadata for any other value
func Parse(name string) (EndianEngine, error) {
	switch name {
	case LittleEndianName:
		return binary.LittleEndian, nil
	case BigEndianName:
		return binary.BigEndian, nil
	default:
		return nil, fmt.Errorf("%w: unknown byte order %q", errs.ErrInvalidMetadata, name)
	}
}

// Name returns the metadata ByteOrder value for engine.
func Name(engine EndianEngine) string {
	if engine == binary.BigEndian {
		return BigEndianName
	}

	return LittleEndianName
}
