package go_linestream

import "errors"

const (
	// defaultBlockSize is the starting capacity of a freshly grown block.
	defaultBlockSize = 256 * 1024 // 256KB

	// maxBlockSize bounds the capacity of a single block, and therefore a
	// single record, to just under 2GB.
	maxBlockSize int64 = 0x7FFFFFF8
)

// crlf terminates every record on the wire, regardless of encoding.
const crlf = "\r\n"

// Errors \\

var (
	ErrRecordTooLarge      = errors.New("record is too large")
	ErrFingerprintDisabled = errors.New("fingerprint is not enabled")
	ErrClosed              = errors.New("line writer is closed")
	ErrInvariant           = errors.New("line writer invariant violated")
)
