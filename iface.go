package go_linestream

// ILineWriter serializes text lines into fixed-capacity blocks obtained
// from a block stream.
type ILineWriter interface {
	// WriteLine appends text followed by a CRLF terminator as one atomic
	// record and returns the number of encoded bytes produced, payload
	// plus terminator. A record is never split across two blocks.
	WriteLine(text string) (int, error)

	// Flush retires any buffered records to the stream and forwards a
	// flush request to it.
	Flush() error

	// Close flushes buffered records, releases the held block and closes
	// the underlying stream. Calling Close more than once is a no-op.
	Close() error

	// Length returns the number of bytes representing all fully formed
	// records produced so far, flushed or still buffered.
	Length() int64
}
