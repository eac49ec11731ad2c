package compression

import (
	"encoding/binary"
	"fmt"

	"github.com/DataDog/zstd"
)

const defaultZstdLevel = 3

// zstdCompressor prefixes every compressed block with a uvarint encoding
// of the decompressed length, since the zstd frame itself does not carry
// a size that is cheap to recover.
type zstdCompressor struct{}

func (z *zstdCompressor) GetType() CompressionType {
	return ZstdCompression
}

func (z *zstdCompressor) Compress(dst, src []byte) []byte {
	if len(dst) < binary.MaxVarintLen64 {
		dst = append(dst, make([]byte, binary.MaxVarintLen64-len(dst))...)
	}

	// Allocate up to the bound ourselves so the library cannot reallocate
	// away from the uvarint prefix.
	bound := zstd.CompressBound(len(src))
	if cap(dst) < binary.MaxVarintLen64+bound {
		dst = make([]byte, binary.MaxVarintLen64, binary.MaxVarintLen64+bound)
	}

	zCtx := zstd.NewCtx()
	varIntLen := binary.PutUvarint(dst, uint64(len(src)))
	result, err := zCtx.CompressLevel(dst[varIntLen:varIntLen+bound], src, defaultZstdLevel)
	if err != nil {
		panic("zstd compression failed despite allocating CompressBound bytes")
	}
	if &result[0] != &dst[varIntLen] {
		panic("zstd allocated a new buffer despite checking CompressBound")
	}

	return dst[:varIntLen+len(result)]
}

func (z *zstdCompressor) Decompress(buf, compressed []byte) error {
	_, prefixLen := binary.Uvarint(compressed)
	if prefixLen <= 0 {
		return fmt.Errorf("%w: invalid zstd length prefix", ErrDataMismatch)
	}
	compressed = compressed[prefixLen:]
	if len(compressed) == 0 {
		return fmt.Errorf("%w: empty zstd payload", ErrDataMismatch)
	}
	if len(buf) == 0 {
		return fmt.Errorf("%w: empty destination buffer", ErrDataMismatch)
	}
	zCtx := zstd.NewCtx()
	if _, err := zCtx.DecompressInto(buf, compressed); err != nil {
		return err
	}
	return nil
}

func (z *zstdCompressor) DecompressedLen(b []byte) (decompressedLen int, err error) {
	decodedLen, varIntLen := binary.Uvarint(b)
	if varIntLen <= 0 {
		return 0, fmt.Errorf("%w: invalid zstd length prefix", ErrDataMismatch)
	}
	return int(decodedLen), nil
}

var _ ICompression = (*zstdCompressor)(nil)
