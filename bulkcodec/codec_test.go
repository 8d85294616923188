package bulkcodec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodecsRoundTrip(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeated: " +
		"the quick brown fox jumps over the lazy dog")

	for _, kind := range []Kind{None, Zstd, S2, LZ4} {
		codec, err := CreateCodec(kind, "test")
		require.NoError(t, err, kind)

		compressed, err := codec.Compress(data)
		require.NoError(t, err, kind)

		decompressed, err := codec.Decompress(compressed)
		require.NoError(t, err, kind)

		require.Equal(t, data, decompressed, kind)
	}
}

func TestCreateCodec_InvalidKind(t *testing.T) {
	_, err := CreateCodec(Kind(99), "resource blob")
	require.Error(t, err)
}

func TestGetCodec_BuiltinKinds(t *testing.T) {
	for _, kind := range []Kind{None, Zstd, S2, LZ4} {
		_, err := GetCodec(kind)
		require.NoError(t, err)
	}
}

func TestNoOpCodec_EmptyInputRoundTrips(t *testing.T) {
	codec := NewNoOpCodec()
	out, err := codec.Compress(nil)
	require.NoError(t, err)
	require.Nil(t, out)
}
