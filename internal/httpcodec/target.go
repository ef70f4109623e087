package httpcodec

import (
	"strings"

	"github.com/andycostintoma/httpcodec/internal/codec"
	"github.com/andycostintoma/httpcodec/internal/lex"
)

// RequestTarget is a validated request-target per RFC 7230 §5.3 (opaque at
// this layer — origin-form/absolute-form/asterisk-form distinctions are a
// higher-level concern; see ParsedURL for an optional adapter).
type RequestTarget string

// NewRequestTarget validates s as a non-empty run of VCHAR bytes.
func NewRequestTarget(s string) (RequestTarget, error) {
	if len(s) == 0 {
		return "", codec.New(codec.KindInvalidInput, "request-target must not be empty")
	}
	for i := 0; i < len(s); i++ {
		if !lex.IsVChar(s[i]) {
			return "", codec.Newf(codec.KindInvalidInput, "request-target contains non-vchar byte %q", s[i])
		}
	}
	return RequestTarget(s), nil
}

// NewRequestTargetUnchecked builds a RequestTarget without validation.
func NewRequestTargetUnchecked(s string) RequestTarget { return RequestTarget(s) }

func (t RequestTarget) String() string { return string(t) }

// ParsedURL is the lazily-computed split of a request-target into its
// origin-form/absolute-form/asterisk-form components, adapted from the
// teacher's URL parser (internal/httpx/url.go): most callers of this codec
// never need anything beyond the opaque target string, so this split is an
// opt-in accessor rather than something every decode pays for.
type ParsedURL struct {
	Scheme   string
	Host     string
	Path     string
	RawQuery string
}

// Parsed splits t into scheme/host/path/query per RFC 7230 §5.3's three
// supported forms (origin-form, absolute-form, asterisk-form).
func (t RequestTarget) Parsed() (ParsedURL, error) {
	raw := string(t)
	if raw == "" {
		return ParsedURL{}, codec.New(codec.KindInvalidInput, "empty request-target")
	}
	if strings.ContainsAny(raw, " \r\n") {
		return ParsedURL{}, codec.New(codec.KindInvalidInput, "invalid characters in request-target")
	}

	if raw == "*" {
		return ParsedURL{Path: "*"}, nil
	}

	u := ParsedURL{}
	switch {
	case strings.HasPrefix(raw, "http://"):
		u.Scheme = "http"
		rest := strings.TrimPrefix(raw, "http://")
		slash := strings.IndexByte(rest, '/')
		if slash == -1 {
			u.Host = strings.ToLower(rest)
			u.Path = "/"
			return u, nil
		}
		u.Host = strings.ToLower(rest[:slash])
		raw = rest[slash:]

	case strings.HasPrefix(raw, "https://"):
		u.Scheme = "https"
		rest := strings.TrimPrefix(raw, "https://")
		slash := strings.IndexByte(rest, '/')
		if slash == -1 {
			u.Host = strings.ToLower(rest)
			u.Path = "/"
			return u, nil
		}
		u.Host = strings.ToLower(rest[:slash])
		raw = rest[slash:]

	default:
		// origin-form (/path?query)
	}

	if qmark := strings.IndexByte(raw, '?'); qmark >= 0 {
		u.Path = raw[:qmark]
		u.RawQuery = raw[qmark+1:]
	} else {
		u.Path = raw
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// requestTargetDecoder reads a request-target token terminated by a single
// space, mirroring methodDecoder's running-length-in-state shape.
type requestTargetDecoder struct {
	size   int
	done   bool
	result int
}

func (d *requestTargetDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	if d.done {
		return 0, nil
	}
	for i := 0; i < len(buf); i++ {
		if !lex.IsVChar(buf[i]) {
			if buf[i] != ' ' {
				return i, codec.Newf(codec.KindInvalidInput, "request-target: expected space, got %q", buf[i])
			}
			d.result = d.size + i
			d.size = 0
			d.done = true
			return i + 1, nil
		}
	}
	if eos.Reached() {
		return len(buf), codec.New(codec.KindUnexpectedEos, "request-target: eos reached before terminator")
	}
	d.size += len(buf)
	return len(buf), nil
}

func (d *requestTargetDecoder) FinishDecoding() (int, error) {
	if !d.done {
		return 0, codec.New(codec.KindIncompleteDecoding, "request-target decoder is not idle")
	}
	if d.result == 0 {
		d.done = false
		return 0, codec.New(codec.KindInvalidInput, "request-target must not be empty")
	}
	result := d.result
	d.done = false
	return result, nil
}

func (d *requestTargetDecoder) IsIdle() bool { return d.done }

func (d *requestTargetDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }
