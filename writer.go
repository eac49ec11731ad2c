package go_linestream

import (
	"errors"
	"fmt"
	"runtime"
	"unicode/utf8"

	"github.com/datnguyenzzz/nogodb/lib/go-linestream/blockstream"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// LineWriter buffers whole lines into a single held block and retires
// the block to the stream once the worst-case next line no longer fits.
//
// A LineWriter performs no internal locking and must not be used from
// multiple goroutines without external synchronization.
type LineWriter struct {
	stream blockstream.IBlockStream
	opts   options

	// rawCRLF is true when the encoder is a superset of raw ASCII bytes,
	// allowing the terminator to be written directly without going
	// through the encoder.
	rawCRLF bool

	block *blockstream.Block
	// committedEnd..pendingEnd is the region of the held block carrying
	// bytes of a line in flight. The two are equal outside WriteLine.
	committedEnd int
	pendingEnd   int

	// nextBlockSize is the candidate capacity for the next grown block.
	// It doubles once per empty-and-still-too-small growth step and
	// saturates at maxBlockSize. Ordinary retirement never changes it.
	nextBlockSize int64
	// lastAllocSize is the capacity that was requested for the currently
	// held block.
	lastAllocSize int64

	// written is the sum of all bytes committed to the stream across
	// retired blocks. It does not include the held block.
	written int64

	closed bool
}

func New(stream blockstream.IBlockStream, opts ...OptionFn) (*LineWriter, error) {
	if stream == nil {
		return nil, errors.New("block stream must not be nil")
	}

	w := &LineWriter{
		stream: stream,
		opts:   defaultOptions,
	}
	for _, o := range opts {
		o(w)
	}
	if w.opts.enc == nil {
		return nil, errors.New("encoder must not be nil")
	}

	w.rawCRLF = w.opts.enc.ASCIICompatible()
	w.nextBlockSize = min(max(defaultBlockSize, w.opts.bufferSizeHint/2), maxBlockSize)

	if w.opts.fingerprint {
		if err := w.stream.EnableFingerprint(); err != nil {
			return nil, err
		}
	}

	// Safety net only: release the held block if the writer is discarded
	// without Close. Correct code always calls Close explicitly and must
	// not rely on finalizer timing.
	runtime.SetFinalizer(w, func(w *LineWriter) {
		if w.closed || w.block == nil {
			return
		}
		zap.L().Warn("Line writer discarded without Close, releasing held block",
			zap.String("uri", w.stream.URI()))
		_ = w.stream.Release(w.block)
		w.block = nil
	})

	return w, nil
}

// WriteLine appends text followed by a CRLF terminator as one atomic
// record and returns the number of encoded bytes produced.
func (w *LineWriter) WriteLine(text string) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}

	// Worst case bound covering the payload and the two terminator
	// characters, for any encoding expansion.
	maxBytes := w.opts.enc.MaxByteCount(utf8.RuneCountInString(text) + 2)
	if int64(maxBytes) > maxBlockSize {
		return 0, fmt.Errorf("%w: worst case encoded size %d exceeds the maximum block size %d",
			ErrRecordTooLarge, maxBytes, maxBlockSize)
	}

	for w.capacity()-w.pendingEnd < maxBytes {
		if err := w.grow(); err != nil {
			return 0, err
		}
	}

	n, err := w.opts.enc.Encode(w.block.Data[w.pendingEnd:], text)
	if err != nil {
		// Nothing was committed, drop the in-flight bytes.
		w.pendingEnd = w.committedEnd
		return 0, err
	}
	w.pendingEnd += n

	if w.rawCRLF {
		w.block.Data[w.pendingEnd] = '\r'
		w.block.Data[w.pendingEnd+1] = '\n'
		w.pendingEnd += 2
	} else {
		t, err := w.opts.enc.Encode(w.block.Data[w.pendingEnd:], crlf)
		if err != nil {
			w.pendingEnd = w.committedEnd
			return 0, err
		}
		w.pendingEnd += t
	}

	total := w.pendingEnd - w.committedEnd
	w.committedEnd = w.pendingEnd
	return total, nil
}

// Flush retires any committed bytes and forwards a flush request to the
// underlying stream, so that stream level buffering is drained as well.
func (w *LineWriter) Flush() error {
	if w.closed {
		return ErrClosed
	}
	return w.flush()
}

// Close is idempotent. Teardown is attempted end to end even when an
// earlier step fails, so a failed flush cannot leak the held block; the
// errors are aggregated.
func (w *LineWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	runtime.SetFinalizer(w, nil)

	err := w.flush()
	if w.block != nil {
		err = multierr.Append(err, w.stream.Release(w.block))
		w.block = nil
	}
	err = multierr.Append(err, w.stream.Close())
	if err != nil {
		zap.L().Error("Failed to close line writer",
			zap.String("uri", w.stream.URI()), zap.Error(err))
	}
	return err
}

// Length returns the number of bytes representing all fully formed
// records produced so far, flushed or still buffered.
func (w *LineWriter) Length() int64 {
	return w.written + int64(w.committedEnd)
}

// ChannelURI returns the URI of the stream destination.
func (w *LineWriter) ChannelURI() string {
	return w.stream.URI()
}

// TotalLength returns the total number of bytes the stream reports as
// committed.
func (w *LineWriter) TotalLength() int64 {
	return w.stream.TotalLength()
}

// FingerprintEnabled reports whether the running content fingerprint is
// being maintained.
func (w *LineWriter) FingerprintEnabled() bool {
	return w.opts.fingerprint
}

// SetFingerprintEnabled turns the running content fingerprint on or off.
// Enabling fails unless it happens before the first write.
func (w *LineWriter) SetFingerprintEnabled(enabled bool) error {
	if enabled && !w.opts.fingerprint {
		if err := w.stream.EnableFingerprint(); err != nil {
			return err
		}
	}
	w.opts.fingerprint = enabled
	return nil
}

// Fingerprint returns the stream's running fingerprint over all content
// written so far.
func (w *LineWriter) Fingerprint() (uint64, error) {
	if !w.opts.fingerprint {
		return 0, fmt.Errorf("%w: enable the fingerprint before the first write", ErrFingerprintDisabled)
	}
	return w.stream.Fingerprint()
}

func (w *LineWriter) capacity() int {
	if w.block == nil {
		return 0
	}
	return len(w.block.Data)
}

// grow runs a single admission step when the held block cannot fit the
// worst-case next line: either escalate to a bigger empty block, or
// retire the committed data and continue on a fresh block of the same
// capacity. Capacity only escalates on the empty path; retirement reuses
// the stabilized size indefinitely.
func (w *LineWriter) grow() error {
	if w.committedEnd > 0 {
		return w.retire()
	}

	// The held block is empty, there is nothing to preserve.
	if w.block != nil && w.lastAllocSize >= w.nextBlockSize {
		// The candidate size has saturated and a just-grown block is
		// still insufficient.
		return fmt.Errorf("%w: a block of %d bytes cannot hold the record", ErrRecordTooLarge, w.lastAllocSize)
	}
	if w.block != nil {
		if err := w.stream.Release(w.block); err != nil {
			w.block = nil
			return err
		}
		w.block = nil
	}

	b, err := w.stream.Allocate(w.nextBlockSize)
	if err != nil {
		return err
	}
	w.block = b
	w.lastAllocSize = w.nextBlockSize

	w.nextBlockSize *= 2
	if w.nextBlockSize > maxBlockSize || w.nextBlockSize < 0 {
		w.nextBlockSize = maxBlockSize
	}
	return nil
}

// retire persists the committed bytes of the held block, then replaces
// it with a fresh block of the same capacity.
func (w *LineWriter) retire() error {
	capacity := w.lastAllocSize

	if err := w.stream.Write(w.block, w.committedEnd); err != nil {
		return err
	}
	w.written += int64(w.committedEnd)

	// Preserve in-flight bytes past the committed boundary. There are
	// none on the admission path, since admission runs before any byte of
	// the new line is encoded.
	var residue []byte
	if w.pendingEnd > w.committedEnd {
		residue = append(residue, w.block.Data[w.committedEnd:w.pendingEnd]...)
	}

	if err := w.stream.Release(w.block); err != nil {
		w.block = nil
		w.committedEnd, w.pendingEnd = 0, 0
		return err
	}
	w.block = nil

	b, err := w.stream.Allocate(capacity)
	if err != nil {
		w.committedEnd, w.pendingEnd = 0, 0
		return err
	}
	w.block = b
	copy(w.block.Data, residue)
	w.committedEnd = 0
	w.pendingEnd = len(residue)
	return nil
}

func (w *LineWriter) flush() error {
	if w.committedEnd != w.pendingEnd {
		return fmt.Errorf("%w: flush with a line in flight (committed=%d, pending=%d)",
			ErrInvariant, w.committedEnd, w.pendingEnd)
	}
	if w.committedEnd > 0 {
		if err := w.retire(); err != nil {
			return err
		}
	}
	return w.stream.Flush()
}

var _ ILineWriter = (*LineWriter)(nil)
