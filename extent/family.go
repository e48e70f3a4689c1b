package extent

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/arloliu/jseis/errs"
)

// Address is the physical location of one logical record.
type Address struct {
	Extent int
	Offset int64
}

// Family is the ordered set of extent files holding one record family.
type Family struct {
	capacity   int64
	recordSize int
	paths      []string
	readOnly   bool

	mu      sync.Mutex
	handles map[int]*os.File
	closed  bool
}

// NewFamily creates a family over existing extent files.
//
// Parameters:
//   - paths: Extent files in extent-number order
//   - capacity: Logical records per extent
//   - recordSize: Record length in bytes
//   - readOnly: Open extents read-only
//
// Returns:
//   - *Family: Family handle, release with Close
//   - error: ErrAddressing if capacity or recordSize is not positive
func NewFamily(paths []string, capacity int64, recordSize int, readOnly bool) (*Family, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity per extent must be positive, got %d", errs.ErrAddressing, capacity)
	}
	if recordSize <= 0 {
		return nil, fmt.Errorf("%w: record size must be positive, got %d", errs.ErrAddressing, recordSize)
	}

	return &Family{
		capacity:   capacity,
		recordSize: recordSize,
		paths:      append([]string(nil), paths...),
		readOnly:   readOnly,
		handles:    make(map[int]*os.File),
	}, nil
}

// Capacity returns the number of records per extent.
func (f *Family) Capacity() int64 { return f.capacity }

// RecordSize returns the record length in bytes.
func (f *Family) RecordSize() int { return f.recordSize }

// Paths returns the extent file paths.
func (f *Family) Paths() []string { return append([]string(nil), f.paths...) }

// ExtentCount returns the number of extent files.
func (f *Family) ExtentCount() int { return len(f.paths) }

// Resolve maps a logical record index to its extent and byte offset.
//
// Returns:
//   - Address: Extent number and byte offset
//   - error: ErrAddressing for a negative index, ErrMissingExtent when the
//     extent number is past the last extent file
func (f *Family) Resolve(index int64) (Address, error) {
	if index < 0 {
		return Address{}, fmt.Errorf("%w: negative record index %d", errs.ErrAddressing, index)
	}

	addr := Address{
		Extent: int(index / f.capacity),
		Offset: (index % f.capacity) * int64(f.recordSize),
	}
	if addr.Extent >= len(f.paths) {
		return Address{}, fmt.Errorf("%w: record %d resolves to extent %d, family has %d",
			errs.ErrMissingExtent, index, addr.Extent, len(f.paths))
	}

	return addr, nil
}

// ReadRecord reads record index into dst, which must be RecordSize bytes long.
//
// Returns:
//   - error: ErrInvalidRecordSize for a wrong-length dst, ErrShortRead when the
//     extent is truncated, or a Resolve error
func (f *Family) ReadRecord(index int64, dst []byte) error {
	if len(dst) != f.recordSize {
		return fmt.Errorf("%w: buffer has %d bytes, record is %d", errs.ErrInvalidRecordSize, len(dst), f.recordSize)
	}

	addr, err := f.Resolve(index)
	if err != nil {
		return err
	}
	h, err := f.handle(addr.Extent)
	if err != nil {
		return err
	}

	n, err := h.ReadAt(dst, addr.Offset)
	if n == len(dst) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: record %d: got %d of %d bytes from %s",
			errs.ErrShortRead, index, n, len(dst), f.paths[addr.Extent])
	}

	return fmt.Errorf("read record %d: %w", index, err)
}

// WriteRecord writes data as record index. The extent must already be sized.
//
// Returns:
//   - error: ErrReadOnly, ErrInvalidRecordSize for a wrong-length data, or a
//     Resolve error
func (f *Family) WriteRecord(index int64, data []byte) error {
	if f.readOnly {
		return errs.ErrReadOnly
	}
	if len(data) != f.recordSize {
		return fmt.Errorf("%w: data has %d bytes, record is %d", errs.ErrInvalidRecordSize, len(data), f.recordSize)
	}

	addr, err := f.Resolve(index)
	if err != nil {
		return err
	}
	h, err := f.handle(addr.Extent)
	if err != nil {
		return err
	}

	if _, err := h.WriteAt(data, addr.Offset); err != nil {
		return fmt.Errorf("write record %d: %w", index, err)
	}

	return nil
}

// Sync flushes every open extent to stable storage.
func (f *Family) Sync() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errList []error
	for _, h := range f.handles {
		if err := h.Sync(); err != nil {
			errList = append(errList, err)
		}
	}

	return errors.Join(errList...)
}

// Close releases every cached handle. It is safe to call more than once.
func (f *Family) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	var errList []error
	for n, h := range f.handles {
		if err := h.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close extent %d: %w", n, err))
		}
		delete(f.handles, n)
	}

	return errors.Join(errList...)
}

// handle returns the cached handle of extent n, opening it on first use.
func (f *Family) handle(n int) (*os.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, errs.ErrClosed
	}
	if n < 0 || n >= len(f.paths) {
		return nil, fmt.Errorf("%w: extent %d, family has %d", errs.ErrMissingExtent, n, len(f.paths))
	}
	if h, ok := f.handles[n]; ok {
		return h, nil
	}

	flag := os.O_RDWR
	if f.readOnly {
		flag = os.O_RDONLY
	}
	h, err := os.OpenFile(f.paths[n], flag, 0)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingExtent, f.paths[n])
		}

		return nil, fmt.Errorf("open extent %d: %w", n, err)
	}
	f.handles[n] = h

	return h, nil
}
