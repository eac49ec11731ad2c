package blockstream

import (
	"bytes"
	"sync"
)

// InmemStream commits blocks into process memory. It is useful for tests
// and for staging content that is copied elsewhere afterwards.
type InmemStream struct {
	streamCore
	name string
	buf  bytes.Buffer
	mu   sync.Mutex
}

func NewInmemStream(name string) *InmemStream {
	return &InmemStream{
		streamCore: newStreamCore(),
		name:       name,
	}
}

func (s *InmemStream) Allocate(capacity int64) (*Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allocate(capacity)
}

func (s *InmemStream) Write(b *Block, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCommit(b, n); err != nil {
		return err
	}
	s.buf.Write(b.Data[:n])
	s.account(b.Data[:n])
	return nil
}

func (s *InmemStream) Release(b *Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.release(b)
}

func (s *InmemStream) Flush() error {
	// There is no buffering below the committed bytes.
	return nil
}

func (s *InmemStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *InmemStream) URI() string {
	return "mem://" + s.name
}

// Bytes returns a snapshot of all committed bytes.
func (s *InmemStream) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]byte, s.buf.Len())
	copy(out, s.buf.Bytes())
	return out
}

var _ IBlockStream = (*InmemStream)(nil)
