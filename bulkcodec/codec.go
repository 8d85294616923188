// Package bulkcodec compresses the finished resource blob (nanitepack.Resources.RootData)
// for at-rest storage. It never touches bytes inside a page image — the
// page layout is byte-exact and uncompressed by contract — but the
// concatenated root_data blob a real asset pipeline writes to a bulk-data
// file is a legitimate target for independent compression, the way
// mesh-compression pipelines routinely let the outer container be
// compressed separately from the fixed layout the GPU loader parses after
// decompression.
package bulkcodec

import "fmt"

// Kind identifies a bulk-compression algorithm.
type Kind int

const (
	None Kind = iota
	Zstd
	S2
	LZ4
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case S2:
		return "s2"
	case LZ4:
		return "lz4"
	default:
		return "unknown"
	}
}

// Compressor compresses a finished root_data blob for at-rest storage.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor's output.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec for the named
// Kind. target is used only to make an invalid-kind error message more
// specific.
func CreateCodec(kind Kind, target string) (Codec, error) {
	switch kind {
	case None:
		return NewNoOpCodec(), nil
	case Zstd:
		return NewZstdCodec(), nil
	case S2:
		return NewS2Codec(), nil
	case LZ4:
		return NewLZ4Codec(), nil
	default:
		return nil, fmt.Errorf("invalid %s bulk compression kind: %v", target, kind)
	}
}

var builtinCodecs = map[Kind]Codec{
	None: NewNoOpCodec(),
	Zstd: NewZstdCodec(),
	S2:   NewS2Codec(),
	LZ4:  NewLZ4Codec(),
}

// GetCodec retrieves a built-in Codec for kind.
func GetCodec(kind Kind) (Codec, error) {
	if c, ok := builtinCodecs[kind]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unsupported bulk compression kind: %v", kind)
}
