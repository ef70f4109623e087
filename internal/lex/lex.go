// Package lex implements the RFC 7230 §3.2.6 lexical classes and the two
// fixed-token decoders (a single space, CRLF) that the start-line and
// header-block decoders use as synchronising tokens.
package lex

import "github.com/andycostintoma/httpcodec/internal/codec"

// IsDigit reports whether b is an ASCII digit.
func IsDigit(b byte) bool { return b >= '0' && b <= '9' }

// IsAlpha reports whether b is an ASCII letter.
func IsAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

// IsTChar reports whether b is a "tchar" per RFC 7230 §3.2.6:
//
//	tchar = "!" / "#" / "$" / "%" / "&" / "'" / "*" / "+" / "-" / "." /
//	        "^" / "_" / "`" / "|" / "~" / DIGIT / ALPHA
func IsTChar(b byte) bool {
	switch b {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	default:
		return IsDigit(b) || IsAlpha(b)
	}
}

// IsVChar reports whether b is a "VCHAR" (visible USASCII, 0x21..0x7E).
func IsVChar(b byte) bool { return b >= 0x21 && b <= 0x7E }

// IsWhitespace reports whether b is SP or HTAB.
func IsWhitespace(b byte) bool { return b == ' ' || b == '\t' }

// IsPhraseChar reports whether b may appear in a reason-phrase: a VCHAR or
// whitespace.
func IsPhraseChar(b byte) bool { return IsVChar(b) || IsWhitespace(b) }

// NewSpaceDecoder makes a decoder asserting the next byte is a single SP.
func NewSpaceDecoder() *codec.FixedLiteralDecoder {
	return codec.NewFixedLiteralDecoder([]byte{' '}, "space")
}

// NewCRLFDecoder makes a decoder asserting the next two bytes are CRLF.
func NewCRLFDecoder() *codec.FixedLiteralDecoder {
	return codec.NewFixedLiteralDecoder([]byte{'\r', '\n'}, "CRLF")
}

// WithSuffix decodes an inner element then asserts a fixed literal
// immediately follows it, discarding the literal and returning the inner
// item — the generic shape of original_source/src/util.rs's
// WithSpDecoder/WithCrlfDecoder, used to attach the single space after an
// HTTP-version in a status-line or the CRLF after it in a request-line.
type WithSuffix[T any] struct {
	inner     codec.Decoder[T]
	suffix    *codec.FixedLiteralDecoder
	innerItem T
	innerDone bool
}

// NewWithSuffix wraps inner, requiring suffix to follow it exactly.
func NewWithSuffix[T any](inner codec.Decoder[T], suffix *codec.FixedLiteralDecoder) *WithSuffix[T] {
	return &WithSuffix[T]{inner: inner, suffix: suffix}
}

func (w *WithSuffix[T]) Decode(buf []byte, eos codec.Eos) (int, error) {
	offset := 0
	if !w.innerDone {
		n, err := w.inner.Decode(buf, eos)
		offset += n
		if err != nil {
			return offset, err
		}
		if !w.inner.IsIdle() {
			return offset, nil
		}
		item, err := w.inner.FinishDecoding()
		if err != nil {
			return offset, err
		}
		w.innerItem = item
		w.innerDone = true
	}
	n, err := w.suffix.Decode(buf[offset:], eos)
	offset += n
	return offset, err
}

func (w *WithSuffix[T]) FinishDecoding() (T, error) {
	if _, err := w.suffix.FinishDecoding(); err != nil {
		var zero T
		return zero, err
	}
	item := w.innerItem
	w.innerDone = false
	var zero T
	w.innerItem = zero
	return item, nil
}

func (w *WithSuffix[T]) IsIdle() bool { return w.innerDone && w.suffix.IsIdle() }

func (w *WithSuffix[T]) RequiringBytes() codec.ByteCount {
	if !w.innerDone {
		return w.inner.RequiringBytes().AddForDecoding(w.suffix.RequiringBytes())
	}
	return w.suffix.RequiringBytes()
}
