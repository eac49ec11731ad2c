package blockstream

import (
	"os"

	"go.uber.org/zap"
)

type FileStreamOptionFn func(*FileStream)

// WithFileSync opens the file with O_SYNC so that every commit goes
// through the OS buffer cache down onto the disk. Required for
// durability of individual commits, at the cost of slower writes.
func WithFileSync() FileStreamOptionFn {
	return func(s *FileStream) {
		s.sync = true
	}
}

// FileStream commits blocks by appending their bytes to a local file.
type FileStream struct {
	streamCore
	path string
	sync bool
	f    *os.File
}

func NewFileStream(path string, opts ...FileStreamOptionFn) (*FileStream, error) {
	s := &FileStream{
		streamCore: newStreamCore(),
		path:       path,
	}
	for _, o := range opts {
		o(s)
	}

	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if s.sync {
		flag |= os.O_SYNC
	}
	f, err := os.OpenFile(path, flag, 0644)
	if err != nil {
		zap.L().Error("Failed to open block stream file", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	s.f = f
	return s, nil
}

func (s *FileStream) Allocate(capacity int64) (*Block, error) {
	return s.allocate(capacity)
}

func (s *FileStream) Write(b *Block, n int) error {
	if err := s.checkCommit(b, n); err != nil {
		return err
	}
	if _, err := s.f.Write(b.Data[:n]); err != nil {
		zap.L().Error("Failed to commit block", zap.String("path", s.path), zap.Error(err))
		return err
	}
	s.account(b.Data[:n])
	return nil
}

func (s *FileStream) Release(b *Block) error {
	return s.release(b)
}

func (s *FileStream) Flush() error {
	if s.closed {
		return ErrStreamClosed
	}
	return s.f.Sync()
}

func (s *FileStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}

func (s *FileStream) URI() string {
	return "file://" + s.path
}

var _ IBlockStream = (*FileStream)(nil)
