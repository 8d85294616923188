//go:build nobuild

package bulkcodec

import "github.com/valyala/gozstd"

// Compress compresses data using the cgo-accelerated zstd binding. Gated
// behind "nobuild": the pure-Go path in zstd_pure.go is the default, and
// this file replaces it only when the build sets the nobuild tag (the
// binding itself also needs cgo).
func (c ZstdCodec) Compress(data []byte) ([]byte, error) {
	return gozstd.CompressLevel(nil, data, 3), nil
}

func (c ZstdCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return gozstd.Decompress(nil, data)
}
