package blockstream

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/datnguyenzzz/nogodb/lib/go-linestream/bufferpool"
)

// streamCore carries the bookkeeping shared by the shipped stream
// implementations: pooled block buffers, commit accounting and the
// optional running fingerprint.
type streamCore struct {
	pool   *bufferpool.Pool
	digest *xxhash.Digest
	total  int64
	closed bool
}

func newStreamCore() streamCore {
	return streamCore{pool: bufferpool.New()}
}

func (c *streamCore) allocate(capacity int64) (*Block, error) {
	if c.closed {
		return nil, ErrStreamClosed
	}
	buf := c.pool.Get(int(capacity))
	// The pool rounds capacities up, hand the whole buffer out.
	return &Block{Data: buf[:cap(buf)]}, nil
}

func (c *streamCore) release(b *Block) error {
	if b == nil || b.Data == nil {
		return nil
	}
	c.pool.Put(b.Data[:0])
	b.Data = nil
	return nil
}

// account records n committed bytes, feeding the fingerprint if enabled.
func (c *streamCore) account(p []byte) {
	c.total += int64(len(p))
	if c.digest != nil {
		_, _ = c.digest.Write(p)
	}
}

func (c *streamCore) checkCommit(b *Block, n int) error {
	if c.closed {
		return ErrStreamClosed
	}
	if b == nil || n < 0 || n > len(b.Data) {
		return fmt.Errorf("%w: n=%d", ErrBadCommitSize, n)
	}
	return nil
}

func (c *streamCore) EnableFingerprint() error {
	if c.total > 0 {
		return fmt.Errorf("%w: fingerprint must be enabled before the first write", ErrStreamWritten)
	}
	if c.digest == nil {
		c.digest = xxhash.New()
	}
	return nil
}

func (c *streamCore) Fingerprint() (uint64, error) {
	if c.digest == nil {
		return 0, ErrFingerprintDisabled
	}
	return c.digest.Sum64(), nil
}

func (c *streamCore) TotalLength() int64 {
	return c.total
}
