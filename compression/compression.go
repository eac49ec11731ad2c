package compression

import "errors"

// CompressionType is the per-block compression algorithm to use.
type CompressionType byte

// The available compression types.
const (
	NoCompression CompressionType = iota
	SnappyCompression
	ZstdCompression
)

var ErrDataMismatch = errors.New("compressed data mismatch")

type ICompression interface {
	GetType() CompressionType
	// Compress a block, appending the compressed data to dst[:0].
	Compress(dst, src []byte) []byte
	// Decompress decompresses compressed into buf. The buf slice must
	// have the exact size of the decompressed value; callers may use
	// DecompressedLen to determine it.
	Decompress(buf, compressed []byte) error
	// DecompressedLen returns the length of the provided block once
	// decompressed.
	DecompressedLen(b []byte) (decompressedLen int, err error)
}

func NewCompressor(ct CompressionType) ICompression {
	switch ct {
	case NoCompression:
		return &noopCompressor{}
	case SnappyCompression:
		return &snappyCompressor{}
	case ZstdCompression:
		return &zstdCompressor{}
	default:
		panic("unknown compression type")
	}
}

// noopCompressor passes blocks through unchanged.
type noopCompressor struct{}

func (n *noopCompressor) GetType() CompressionType {
	return NoCompression
}

func (n *noopCompressor) Compress(dst, src []byte) []byte {
	return append(dst[:0], src...)
}

func (n *noopCompressor) Decompress(buf, compressed []byte) error {
	if len(buf) != len(compressed) {
		return ErrDataMismatch
	}
	copy(buf, compressed)
	return nil
}

func (n *noopCompressor) DecompressedLen(b []byte) (int, error) {
	return len(b), nil
}

var _ ICompression = (*noopCompressor)(nil)
