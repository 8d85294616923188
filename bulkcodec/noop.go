package bulkcodec

// NoOpCodec bypasses compression entirely; it is the default codec so
// nanitepack.Build's primary output stays the byte-exact, uncompressed
// page image the streaming runtime requires.
type NoOpCodec struct{}

var _ Codec = (*NoOpCodec)(nil)

// NewNoOpCodec creates a no-operation codec.
func NewNoOpCodec() NoOpCodec { return NoOpCodec{} }

// Compress returns data unchanged.
func (c NoOpCodec) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged.
func (c NoOpCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
