package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// ContentHash computes the xxHash64 of the given bytes: the same cheap
// 64-bit content fingerprint job as ID, used to let a caller detect a
// corrupted or truncated bulk-data file before handing it to the
// streaming runtime.
func ContentHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}
