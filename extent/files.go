package extent

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/arloliu/jseis/errs"
)

// Path returns the file path of extent n of the family named prefix.
func Path(dir, prefix string, n int) string {
	return filepath.Join(dir, prefix+strconv.Itoa(n))
}

// ExtentCount returns the number of extents needed to hold total records.
func ExtentCount(total, capacity int64) int {
	if total <= 0 || capacity <= 0 {
		return 0
	}

	return int((total + capacity - 1) / capacity)
}

// CreateExtents creates and preallocates the extent files for total records.
// Every extent but the last holds exactly capacity records; the last one is
// sized to the remaining records. Existing files are truncated.
//
// Parameters:
//   - dir: Dataset directory
//   - prefix: Extent name prefix
//   - capacity: Records per extent
//   - recordSize: Record length in bytes
//   - total: Total logical records
//
// Returns:
//   - []string: Created extent paths in extent-number order
//   - error: ErrAddressing for non-positive sizes, or the file system error.
//     Files created before a failure are removed.
func CreateExtents(dir, prefix string, capacity int64, recordSize int, total int64) ([]string, error) {
	if capacity <= 0 || recordSize <= 0 || total <= 0 {
		return nil, fmt.Errorf("%w: capacity=%d recordSize=%d total=%d",
			errs.ErrAddressing, capacity, recordSize, total)
	}

	count := ExtentCount(total, capacity)
	paths := make([]string, 0, count)
	for n := range count {
		records := min(capacity, total-int64(n)*capacity)
		p := Path(dir, prefix, n)
		if err := preallocate(p, records*int64(recordSize)); err != nil {
			_ = Remove(paths)
			return nil, err
		}
		paths = append(paths, p)
	}

	return paths, nil
}

func preallocate(path string, size int64) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create extent: %w", err)
	}
	if err := f.Truncate(size); err != nil {
		_ = f.Close()
		return fmt.Errorf("preallocate extent %s: %w", path, err)
	}

	return f.Close()
}

// Discover returns the extents of prefix found in dir by probing extent
// numbers from 0 until one is missing.
func Discover(dir, prefix string) ([]string, error) {
	var paths []string
	for n := 0; ; n++ {
		p := Path(dir, prefix, n)
		info, err := os.Stat(p)
		if errors.Is(err, os.ErrNotExist) {
			return paths, nil
		}
		if err != nil {
			return nil, fmt.Errorf("stat extent %s: %w", p, err)
		}
		if info.IsDir() {
			return paths, nil
		}
		paths = append(paths, p)
	}
}

// Remove deletes the given extent files, ignoring files that do not exist.
func Remove(paths []string) error {
	var errList []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			errList = append(errList, err)
		}
	}

	return errors.Join(errList...)
}
