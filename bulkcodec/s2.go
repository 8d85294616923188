package bulkcodec

import "github.com/klauspost/compress/s2"

// S2Codec compresses with S2, klauspost/compress's Snappy-compatible,
// throughput-oriented format: a good fit for a one-shot recompression pass
// over an already-packed bulk-data file where encode speed matters more
// than ratio.
type S2Codec struct{}

var _ Codec = (*S2Codec)(nil)

// NewS2Codec creates an S2 codec.
func NewS2Codec() S2Codec { return S2Codec{} }

// Compress compresses data with S2.
func (c S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Encode(nil, data), nil
}

// Decompress decompresses S2-compressed data.
func (c S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	return s2.Decode(nil, data)
}
