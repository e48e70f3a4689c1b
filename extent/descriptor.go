package extent

import (
	"fmt"

	"github.com/arloliu/jseis/errs"
)

// Descriptor values written for new families.
const (
	DescriptorVersion = "2006.2"
	PolicyRandom      = "RANDOM"
	PolicySequential  = "SEQUENTIAL"
)

// Descriptor is the persisted description of one extent family, stored in the
// ExtentManager side-file of the family.
type Descriptor struct {
	Version    string // VFIO_VERSION
	ExtentSize int64  // VFIO_EXTSIZE, bytes of a full extent
	MaxFile    int    // VFIO_MAXFILE, declared extent count
	MaxPos     int64  // VFIO_MAXPOS, records per extent
	Name       string // VFIO_EXTNAME, extent file prefix
	Policy     string // VFIO_POLICY
}

// NewDescriptor describes a family of extentCount extents holding capacity
// records of recordSize bytes each.
func NewDescriptor(name string, capacity int64, recordSize int, extentCount int) Descriptor {
	return Descriptor{
		Version:    DescriptorVersion,
		ExtentSize: capacity * int64(recordSize),
		MaxFile:    extentCount,
		MaxPos:     capacity,
		Name:       name,
		Policy:     PolicyRandom,
	}
}

// Capacity returns the records per extent and checks it against recordSize.
//
// Returns:
//   - int64: Records per extent
//   - error: ErrAddressing for a non-positive capacity, ErrInvalidMetadata when
//     the extent size is not capacity*recordSize
func (d Descriptor) Capacity(recordSize int) (int64, error) {
	if d.MaxPos <= 0 {
		return 0, fmt.Errorf("%w: %s declares %d records per extent", errs.ErrAddressing, d.Name, d.MaxPos)
	}
	if d.ExtentSize != d.MaxPos*int64(recordSize) {
		return 0, fmt.Errorf("%w: %s extent size %d does not hold %d records of %d bytes",
			errs.ErrInvalidMetadata, d.Name, d.ExtentSize, d.MaxPos, recordSize)
	}

	return d.MaxPos, nil
}
