// Package hash computes the stable fingerprints persisted in dataset metadata.
package hash

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint computes the xxHash64 of an ordered list of parts. Each part is
// length-prefixed so that ("ab", "c") and ("a", "bc") hash differently.
func Fingerprint(parts ...string) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.WriteString(strconv.Itoa(len(p)))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(p)
	}

	return d.Sum64()
}
