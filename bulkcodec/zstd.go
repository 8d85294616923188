package bulkcodec

// ZstdCodec compresses with Zstandard: the best ratio of the three bulk
// codecs, suited to cold-storage archival of a finished bulk-data file
// where decode happens rarely and every byte saved matters.
type ZstdCodec struct{}

var _ Codec = (*ZstdCodec)(nil)

// NewZstdCodec creates a Zstd codec with default settings.
func NewZstdCodec() ZstdCodec { return ZstdCodec{} }
