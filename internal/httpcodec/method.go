package httpcodec

import (
	"github.com/andycostintoma/httpcodec/internal/codec"
	"github.com/andycostintoma/httpcodec/internal/lex"
)

// Method is a validated HTTP method token.
type Method string

// NewMethod validates s as a non-empty run of tchar bytes per RFC 7230
// §3.2.6, returning a Method or a KindInvalidInput error.
func NewMethod(s string) (Method, error) {
	if len(s) == 0 {
		return "", codec.New(codec.KindInvalidInput, "method must not be empty")
	}
	for i := 0; i < len(s); i++ {
		if !lex.IsTChar(s[i]) {
			return "", codec.Newf(codec.KindInvalidInput, "method contains non-tchar byte %q", s[i])
		}
	}
	return Method(s), nil
}

// NewMethodUnchecked builds a Method without validation; callers must be
// certain s is a valid tchar-only token.
func NewMethodUnchecked(s string) Method { return Method(s) }

func (m Method) String() string { return string(m) }

// methodDecoder reads a method token terminated by a single space, keeping
// only the running length of the token across restarts (the orchestrator
// that owns the raw buffer knows the start offset).
type methodDecoder struct {
	size   int
	done   bool
	result int
}

func (d *methodDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	if d.done {
		return 0, nil
	}
	for i := 0; i < len(buf); i++ {
		if !lex.IsTChar(buf[i]) {
			if buf[i] != ' ' {
				return i, codec.Newf(codec.KindInvalidInput, "method: expected space, got %q", buf[i])
			}
			d.result = d.size + i
			d.size = 0
			d.done = true
			return i + 1, nil
		}
	}
	if eos.Reached() {
		return len(buf), codec.New(codec.KindUnexpectedEos, "method: eos reached before terminator")
	}
	d.size += len(buf)
	return len(buf), nil
}

func (d *methodDecoder) FinishDecoding() (int, error) {
	if !d.done {
		return 0, codec.New(codec.KindIncompleteDecoding, "method decoder is not idle")
	}
	if d.result == 0 {
		d.done = false
		return 0, codec.New(codec.KindInvalidInput, "method must not be empty")
	}
	result := d.result
	d.done = false
	return result, nil
}

func (d *methodDecoder) IsIdle() bool { return d.done }

func (d *methodDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }
