package blockstream

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/datnguyenzzz/nogodb/lib/go-linestream/compression"
)

// CompressedStream commits each block as a self-describing frame written
// to an arbitrary io.Writer:
//
//	+----------+----------------------+----------------------+---------+
//	| codec 1B | payload crc32 (4B LE)| payload len (uvarint) | payload |
//	+----------+----------------------+----------------------+---------+
//
// The payload is the block's committed bytes compressed with the
// configured codec. The checksum covers the payload as stored. Frames
// are read back with ReadFrames.
type CompressedStream struct {
	streamCore
	name  string
	codec compression.ICompression
	w     io.Writer
	// scratch holds the compressed payload between commits.
	scratch []byte
}

func NewCompressedStream(name string, w io.Writer, ct compression.CompressionType) *CompressedStream {
	return &CompressedStream{
		streamCore: newStreamCore(),
		name:       name,
		codec:      compression.NewCompressor(ct),
		w:          w,
	}
}

func (s *CompressedStream) Allocate(capacity int64) (*Block, error) {
	return s.allocate(capacity)
}

func (s *CompressedStream) Write(b *Block, n int) error {
	if err := s.checkCommit(b, n); err != nil {
		return err
	}

	s.scratch = s.codec.Compress(s.scratch[:0], b.Data[:n])

	var header [5 + binary.MaxVarintLen64]byte
	header[0] = byte(s.codec.GetType())
	binary.LittleEndian.PutUint32(header[1:5], crc32.ChecksumIEEE(s.scratch))
	hn := 5 + binary.PutUvarint(header[5:], uint64(len(s.scratch)))

	if _, err := s.w.Write(header[:hn]); err != nil {
		return err
	}
	if _, err := s.w.Write(s.scratch); err != nil {
		return err
	}

	// Accounting is over the logical bytes, not the frame.
	s.account(b.Data[:n])
	return nil
}

func (s *CompressedStream) Release(b *Block) error {
	return s.release(b)
}

func (s *CompressedStream) Flush() error {
	if s.closed {
		return ErrStreamClosed
	}
	type syncer interface{ Sync() error }
	if f, ok := s.w.(syncer); ok {
		return f.Sync()
	}
	return nil
}

func (s *CompressedStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *CompressedStream) URI() string {
	return "compressed://" + s.name
}

var _ IBlockStream = (*CompressedStream)(nil)

// ReadFrames decodes a sequence of frames produced by a CompressedStream
// and returns the decompressed bytes of each block, validating the
// per-frame checksum on the way.
func ReadFrames(r io.Reader) ([][]byte, error) {
	br := bufio.NewReader(r)
	var blocks [][]byte

	for {
		codecByte, err := br.ReadByte()
		if err == io.EOF {
			return blocks, nil
		}
		if err != nil {
			return nil, err
		}

		var checksum [4]byte
		if _, err := io.ReadFull(br, checksum[:]); err != nil {
			return nil, fmt.Errorf("%w: truncated checksum", ErrCorruptFrame)
		}
		payloadLen, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, fmt.Errorf("%w: truncated payload length", ErrCorruptFrame)
		}

		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, fmt.Errorf("%w: truncated payload", ErrCorruptFrame)
		}
		if crc32.ChecksumIEEE(payload) != binary.LittleEndian.Uint32(checksum[:]) {
			return nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptFrame)
		}

		if codecByte > byte(compression.ZstdCompression) {
			return nil, fmt.Errorf("%w: unknown codec %d", ErrCorruptFrame, codecByte)
		}
		codec := compression.NewCompressor(compression.CompressionType(codecByte))
		rawLen, err := codec.DecompressedLen(payload)
		if err != nil {
			return nil, err
		}
		// The length prefix sits inside the checksummed payload, so a
		// corrupt frame can carry an arbitrary value. Reject anything
		// beyond the block size bound before allocating.
		if rawLen < 0 || int64(rawLen) > maxBlockBytes {
			return nil, fmt.Errorf("%w: implausible decompressed length %d", ErrCorruptFrame, rawLen)
		}
		raw := make([]byte, rawLen)
		if err := codec.Decompress(raw, payload); err != nil {
			return nil, err
		}
		blocks = append(blocks, raw)
	}
}
