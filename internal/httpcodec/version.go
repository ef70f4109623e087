package httpcodec

import "github.com/andycostintoma/httpcodec/internal/codec"

// HTTPVersion is one of the two supported HTTP/1.x version tokens.
type HTTPVersion int

const (
	// V10 is "HTTP/1.0".
	V10 HTTPVersion = iota
	// V11 is "HTTP/1.1".
	V11
)

// String returns the wire literal ("HTTP/1.0" or "HTTP/1.1").
func (v HTTPVersion) String() string {
	switch v {
	case V10:
		return "HTTP/1.0"
	case V11:
		return "HTTP/1.1"
	default:
		return "HTTP/1.?"
	}
}

// versionDecoder reads exactly 8 bytes and accepts only the two supported
// literals.
type versionDecoder struct {
	inner *codec.FixedBytesDecoder
}

func newVersionDecoder() *versionDecoder {
	return &versionDecoder{inner: codec.NewFixedBytesDecoder(8)}
}

func (d *versionDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	return d.inner.Decode(buf, eos)
}

func (d *versionDecoder) FinishDecoding() (HTTPVersion, error) {
	got, err := d.inner.FinishDecoding()
	if err != nil {
		return 0, err
	}
	switch string(got) {
	case "HTTP/1.0":
		return V10, nil
	case "HTTP/1.1":
		return V11, nil
	default:
		return 0, codec.Newf(codec.KindInvalidInput, "unknown HTTP version %q", got)
	}
}

func (d *versionDecoder) IsIdle() bool { return d.inner.IsIdle() }

func (d *versionDecoder) RequiringBytes() codec.ByteCount { return d.inner.RequiringBytes() }
