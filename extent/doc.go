// Package extent maps logical record indexes of one record family onto
// fixed-capacity extent files.
//
// A family stores records of a fixed byte length. Record i lives in extent
// i / capacity at byte offset (i % capacity) * recordSize, and extent N is the
// file named <prefix>N in the dataset directory.
//
// # Basic Usage
//
//	paths, err := extent.CreateExtents(dir, "TraceHeaders", capacity, recordSize, total)
//	if err != nil {
//	    return err
//	}
//	fam, err := extent.NewFamily(paths, capacity, recordSize, false)
//	if err != nil {
//	    return err
//	}
//	defer fam.Close()
//
//	err = fam.WriteRecord(42, record)
//
// # Thread Safety
//
// The handle cache of a Family is guarded by a mutex and records are
// transferred with positional I/O, so concurrent readers are safe. Writers must
// be serialized by the caller, and readers observe no consistent snapshot while
// a writer is active.
package extent
