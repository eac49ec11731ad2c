package go_linestream

import (
	"github.com/datnguyenzzz/nogodb/lib/go-linestream/encoding"
)

type OptionFn func(*LineWriter)

type options struct {
	// bufferSizeHint is the caller requested starting/average block size.
	// The first grown block has capacity max(defaultBlockSize, hint/2).
	bufferSizeHint int64

	// enc converts line characters into bytes inside the held block.
	enc encoding.IEncoder

	// fingerprint asks the stream to maintain a running content
	// fingerprint. It has to be set before the first write for the
	// fingerprint to cover all content.
	fingerprint bool
}

var defaultOptions = options{
	bufferSizeHint: defaultBlockSize,
	enc:            encoding.UTF8(),
	fingerprint:    false,
}

func WithBufferSizeHint(hint int64) OptionFn {
	return func(w *LineWriter) {
		w.opts.bufferSizeHint = hint
	}
}

func WithEncoder(enc encoding.IEncoder) OptionFn {
	return func(w *LineWriter) {
		w.opts.enc = enc
	}
}

func WithFingerprint(enabled bool) OptionFn {
	return func(w *LineWriter) {
		w.opts.fingerprint = enabled
	}
}
