package blockstream

import "errors"

// Block is a fixed-capacity byte region. It is owned exclusively by the
// caller between Allocate and Release; len(Data) is the capacity, which
// may exceed what was requested.
type Block struct {
	Data []byte
}

// IBlockStream hands out blocks and commits their bytes to an underlying
// medium. Implementations decide what the medium is and whether commits
// block on I/O.
type IBlockStream interface {
	// Allocate returns a block whose capacity is at least the requested
	// number of bytes.
	Allocate(capacity int64) (*Block, error)

	// Write commits the first n bytes of the block to the underlying
	// medium.
	Write(b *Block, n int) error

	// Release returns the block to the stream's pool. The caller must not
	// touch the block afterwards.
	Release(b *Block) error

	// Flush drains any stream level buffering down to the medium.
	Flush() error

	// Close releases the stream's resources. No further calls are allowed
	// after Close.
	Close() error

	// URI identifies the destination of the stream.
	URI() string

	// TotalLength returns the number of bytes committed to the stream so
	// far.
	TotalLength() int64

	// EnableFingerprint starts maintaining a running content fingerprint
	// over all committed bytes. It fails unless called before the first
	// write.
	EnableFingerprint() error

	// Fingerprint returns the running content fingerprint. It fails
	// unless EnableFingerprint was called before the first write.
	Fingerprint() (uint64, error)
}

// maxBlockBytes bounds a single block to just under 2GB, no frame can
// legitimately decompress to more.
const maxBlockBytes int64 = 0x7FFFFFF8

// Errors \\

var (
	ErrStreamClosed        = errors.New("block stream is closed")
	ErrStreamWritten       = errors.New("block stream has already been written to")
	ErrFingerprintDisabled = errors.New("fingerprint is not enabled")
	ErrBadCommitSize       = errors.New("commit size is out of range")
	ErrCorruptFrame        = errors.New("block frame is corrupted")
)
