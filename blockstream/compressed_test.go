package blockstream

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/datnguyenzzz/nogodb/lib/go-linestream/compression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CompressedStream_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		codec compression.CompressionType
	}{
		{name: "none", codec: compression.NoCompression},
		{name: "snappy", codec: compression.SnappyCompression},
		{name: "zstd", codec: compression.ZstdCompression},
	}

	payloads := [][]byte{
		[]byte("a single line\r\n"),
		bytes.Repeat([]byte("compressible content "), 500),
		{0x00, 0x01, 0xFF, 0xFE},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var sink bytes.Buffer
			s := NewCompressedStream("rt", &sink, tc.codec)

			for _, p := range payloads {
				b, err := s.Allocate(int64(len(p)))
				require.NoError(t, err)
				copy(b.Data, p)
				require.NoError(t, s.Write(b, len(p)))
				require.NoError(t, s.Release(b))
			}
			require.NoError(t, s.Close())

			var logical int64
			for _, p := range payloads {
				logical += int64(len(p))
			}
			assert.Equal(t, logical, s.TotalLength())

			blocks, err := ReadFrames(&sink)
			require.NoError(t, err)
			require.Len(t, blocks, len(payloads))
			for i, p := range payloads {
				assert.Equal(t, p, blocks[i])
			}
		})
	}
}

func Test_ReadFrames_CorruptChecksum(t *testing.T) {
	var sink bytes.Buffer
	s := NewCompressedStream("corrupt", &sink, compression.SnappyCompression)

	b, err := s.Allocate(64)
	require.NoError(t, err)
	copy(b.Data, "payload under test")
	require.NoError(t, s.Write(b, 18))
	require.NoError(t, s.Release(b))

	raw := sink.Bytes()
	raw[len(raw)-1] ^= 0xFF

	_, err = ReadFrames(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrCorruptFrame)
}

func Test_ReadFrames_Truncated(t *testing.T) {
	var sink bytes.Buffer
	s := NewCompressedStream("trunc", &sink, compression.NoCompression)

	b, err := s.Allocate(64)
	require.NoError(t, err)
	copy(b.Data, "some bytes")
	require.NoError(t, s.Write(b, 10))
	require.NoError(t, s.Release(b))

	raw := sink.Bytes()
	_, err = ReadFrames(bytes.NewReader(raw[:len(raw)-3]))
	assert.ErrorIs(t, err, ErrCorruptFrame)
}

func Test_ReadFrames_ImplausibleDecompressedLen(t *testing.T) {
	// The length prefix of a zstd payload is covered by the frame
	// checksum, so a corrupt frame can carry any value and still pass the
	// CRC. Build frames by hand around such payloads.
	buildFrame := func(codec byte, payload []byte) []byte {
		out := []byte{codec}
		var checksum [4]byte
		binary.LittleEndian.PutUint32(checksum[:], crc32.ChecksumIEEE(payload))
		out = append(out, checksum[:]...)
		out = binary.AppendUvarint(out, uint64(len(payload)))
		return append(out, payload...)
	}

	tests := []struct {
		name   string
		rawLen uint64
	}{
		{name: "length overflows int", rawLen: 1 << 63},
		{name: "length beyond the block bound", rawLen: 1 << 40},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := binary.AppendUvarint(nil, tc.rawLen)
			payload = append(payload, 0x01, 0x02)
			frame := buildFrame(byte(compression.ZstdCompression), payload)

			_, err := ReadFrames(bytes.NewReader(frame))
			assert.ErrorIs(t, err, ErrCorruptFrame)
		})
	}
}

func Test_ReadFrames_UnknownCodec(t *testing.T) {
	raw := []byte{0x7F, 0, 0, 0, 0, 0}
	_, err := ReadFrames(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrCorruptFrame)
}
