package encoding

import (
	"errors"
	"fmt"
	"unicode/utf8"

	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// IEncoder converts a sequence of characters to bytes inside an
// externally supplied destination buffer.
type IEncoder interface {
	// MaxByteCount returns the worst case number of bytes needed to
	// encode nChars characters. It is an upper bound used for admission
	// checks, not an exact size.
	MaxByteCount(nChars int) int

	// Encode writes the encoded form of s into dst and returns the number
	// of bytes produced.
	Encode(dst []byte, s string) (int, error)

	// ASCIICompatible reports whether the encoding is a superset of raw
	// ASCII bytes, i.e. a CRLF terminator can be emitted as the two raw
	// bytes 0x0D 0x0A without going through the encoder.
	ASCIICompatible() bool
}

var ErrShortBuffer = errors.New("destination buffer is too short")

// UTF8 \\

type utf8Encoder struct{}

// UTF8 returns the default encoder. Encoding is a plain copy since
// source strings already carry UTF-8 bytes.
func UTF8() IEncoder {
	return utf8Encoder{}
}

func (utf8Encoder) MaxByteCount(nChars int) int {
	return nChars * utf8.UTFMax
}

func (utf8Encoder) Encode(dst []byte, s string) (int, error) {
	if len(dst) < len(s) {
		return 0, fmt.Errorf("%w: need %d bytes, have %d", ErrShortBuffer, len(s), len(dst))
	}
	return copy(dst, s), nil
}

func (utf8Encoder) ASCIICompatible() bool {
	return true
}

// Charsets backed by golang.org/x/text \\

type charsetEncoder struct {
	name string
	enc  *xencoding.Encoder
	// maxBytesPerChar is the worst case expansion of a single character
	// under this charset.
	maxBytesPerChar int
	ascii           bool
}

// UTF16LE returns a little-endian UTF-16 encoder without a BOM.
func UTF16LE() IEncoder {
	return &charsetEncoder{
		name:            "utf-16le",
		enc:             unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder(),
		maxBytesPerChar: 4,
	}
}

// UTF16BE returns a big-endian UTF-16 encoder without a BOM.
func UTF16BE() IEncoder {
	return &charsetEncoder{
		name:            "utf-16be",
		enc:             unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder(),
		maxBytesPerChar: 4,
	}
}

// Latin1 returns an ISO 8859-1 encoder. Characters outside the charset
// fail the encode rather than being silently replaced.
func Latin1() IEncoder {
	return &charsetEncoder{
		name:            "latin1",
		enc:             charmap.ISO8859_1.NewEncoder(),
		maxBytesPerChar: 1,
		ascii:           true,
	}
}

func (c *charsetEncoder) MaxByteCount(nChars int) int {
	return nChars * c.maxBytesPerChar
}

func (c *charsetEncoder) Encode(dst []byte, s string) (int, error) {
	// The transformer is stateful across calls, reset before every use.
	c.enc.Reset()
	nDst, _, err := c.enc.Transform(dst, []byte(s), true)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", c.name, err)
	}
	return nDst, nil
}

func (c *charsetEncoder) ASCIICompatible() bool {
	return c.ascii
}

var _ IEncoder = (*charsetEncoder)(nil)
var _ IEncoder = utf8Encoder{}
