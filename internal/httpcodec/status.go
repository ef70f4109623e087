package httpcodec

import (
	"strconv"

	"github.com/andycostintoma/httpcodec/internal/codec"
	"github.com/andycostintoma/httpcodec/internal/lex"
)

// StatusCode is a validated HTTP status code, 100 <= code < 1000.
type StatusCode int

// NewStatusCode validates code against RFC 7230's [100, 1000) range.
func NewStatusCode(code int) (StatusCode, error) {
	if code < 100 || code >= 1000 {
		return 0, codec.Newf(codec.KindInvalidInput, "status code %d out of range [100,1000)", code)
	}
	return StatusCode(code), nil
}

// NewStatusCodeUnchecked builds a StatusCode without validation.
func NewStatusCodeUnchecked(code int) StatusCode { return StatusCode(code) }

func (s StatusCode) String() string { return strconv.Itoa(int(s)) }

// bytes returns the three ASCII digits of the status code, zero-padded.
func (s StatusCode) bytes() [3]byte {
	n := int(s)
	return [3]byte{
		byte('0' + (n/100)%10),
		byte('0' + (n/10)%10),
		byte('0' + n%10),
	}
}

// statusCodeDecoder reads three ASCII digits followed by a single space.
type statusCodeDecoder struct {
	digits codec.FixedBytesDecoder
	done   bool
}

func newStatusCodeDecoder() *statusCodeDecoder {
	d := &statusCodeDecoder{}
	d.digits.Size = 3
	return d
}

func (d *statusCodeDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	if d.done {
		return 0, nil
	}
	offset := 0
	if !d.digits.IsIdle() {
		n, err := d.digits.Decode(buf, eos)
		offset += n
		if err != nil {
			return offset, err
		}
		if !d.digits.IsIdle() {
			return offset, nil
		}
	}
	if offset >= len(buf) {
		if eos.Reached() {
			return offset, codec.New(codec.KindUnexpectedEos, "status-code: eos before trailing space")
		}
		return offset, nil
	}
	if buf[offset] != ' ' {
		return offset, codec.Newf(codec.KindInvalidInput, "status-code: expected space, got %q", buf[offset])
	}
	offset++
	d.done = true
	return offset, nil
}

func (d *statusCodeDecoder) FinishDecoding() (StatusCode, error) {
	if !d.done {
		return 0, codec.New(codec.KindIncompleteDecoding, "status-code decoder is not idle")
	}
	digits, err := d.digits.FinishDecoding()
	d.done = false
	if err != nil {
		return 0, err
	}
	n := 0
	for _, b := range digits {
		if !lex.IsDigit(b) {
			return 0, codec.Newf(codec.KindInvalidInput, "status-code contains non-digit byte %q", b)
		}
		n = n*10 + int(b-'0')
	}
	return NewStatusCode(n)
}

func (d *statusCodeDecoder) IsIdle() bool { return d.done }

func (d *statusCodeDecoder) RequiringBytes() codec.ByteCount {
	if d.done {
		return codec.Finite(0)
	}
	return codec.Finite(1).AddForDecoding(d.digits.RequiringBytes())
}

// ReasonPhrase is a validated reason phrase (phrase-char run, may be empty).
type ReasonPhrase string

// NewReasonPhrase validates s as a (possibly empty) run of phrase-char bytes.
func NewReasonPhrase(s string) (ReasonPhrase, error) {
	for i := 0; i < len(s); i++ {
		if !lex.IsPhraseChar(s[i]) {
			return "", codec.Newf(codec.KindInvalidInput, "reason-phrase contains invalid byte %q", s[i])
		}
	}
	return ReasonPhrase(s), nil
}

// NewReasonPhraseUnchecked builds a ReasonPhrase without validation.
func NewReasonPhraseUnchecked(s string) ReasonPhrase { return ReasonPhrase(s) }

func (r ReasonPhrase) String() string { return string(r) }

// reasonPhraseDecoder reads a run of phrase-char bytes terminated by CRLF,
// accumulating only the running length (the two-stage "expect LF after CR"
// sub-state mirrors spec.md §4.3).
type reasonPhraseDecoder struct {
	size  int
	sawCR bool
	done  bool
}

func (d *reasonPhraseDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	if d.done {
		return 0, nil
	}
	offset := 0
	if !d.sawCR {
		for offset < len(buf) && lex.IsPhraseChar(buf[offset]) {
			offset++
		}
		if offset == len(buf) {
			if eos.Reached() {
				return offset, codec.New(codec.KindUnexpectedEos, "reason-phrase: eos before CR")
			}
			d.size += offset
			return offset, nil
		}
		if buf[offset] != '\r' {
			return offset, codec.Newf(codec.KindInvalidInput, "reason-phrase contains invalid byte %q", buf[offset])
		}
		d.size += offset
		offset++
		d.sawCR = true
	}
	if offset >= len(buf) {
		if eos.Reached() {
			return offset, codec.New(codec.KindUnexpectedEos, "reason-phrase: eos before LF")
		}
		return offset, nil
	}
	if buf[offset] != '\n' {
		return offset, codec.Newf(codec.KindInvalidInput, "reason-phrase: expected LF, got %q", buf[offset])
	}
	offset++
	d.done = true
	return offset, nil
}

func (d *reasonPhraseDecoder) FinishDecoding() (int, error) {
	if !d.done {
		return 0, codec.New(codec.KindIncompleteDecoding, "reason-phrase decoder is not idle")
	}
	size := d.size
	d.size = 0
	d.sawCR = false
	d.done = false
	return size, nil
}

func (d *reasonPhraseDecoder) IsIdle() bool { return d.done }

func (d *reasonPhraseDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }
