package httpcodec

import (
	"github.com/google/uuid"

	"github.com/andycostintoma/httpcodec/internal/codec"
)

// Message decoding/encoding proceeds in three stages, shared by requests
// and responses: the start line, the header block, then the body. Only
// the start-line grammar and the body-presence rule differ between the
// two, so RequestDecoder/ResponseDecoder each own their start-line
// decoder and embed messageCore for the rest.
const (
	stageStartLine = iota
	stageHeader
	stageBody
	stageDone
)

// messageCore is the raw-buffer-owning engine behind RequestDecoder and
// ResponseDecoder: it accumulates every byte of the message as it
// arrives, so the header block's field positions remain valid views into
// one contiguous buffer for the message's whole lifetime (spec.md's
// data-model invariant that header fields never copy).
type messageCore struct {
	raw    []byte
	header *codec.Peekable[[]FieldPosition]
	body   *BodyDecoder
	opts   Options
}

func newMessageCore(opts Options) *messageCore {
	return &messageCore{
		header: codec.NewPeekable[[]FieldPosition](codec.NewMaxBytes[[]FieldPosition](&headerDecoder{}, opts.MaxHeaderSize)),
		body:   NewBodyDecoder(),
		opts:   opts,
	}
}

func (c *messageCore) headerInner() *headerDecoder {
	maxBytes := c.header.InnerMut().(*codec.MaxBytes[[]FieldPosition])
	return maxBytes.InnerMut().(*headerDecoder)
}

// decodeHeader feeds buf to the header stage, recording consumed bytes
// into the raw buffer. It returns (offset, true, nil) once the header's
// finished field positions are ready to be peeked.
func (c *messageCore) decodeHeader(buf []byte, eos codec.Eos) (int, bool, error) {
	n, err := c.header.Decode(buf, eos)
	c.raw = append(c.raw, buf[:n]...)
	if err != nil {
		return n, false, err
	}
	return n, c.header.HasItem(), nil
}

func (c *messageCore) headerView() Header {
	fields, _ := c.header.Peek()
	return NewHeaderView(c.raw, fields)
}

func (c *messageCore) decodeBody(buf []byte, eos codec.Eos) (int, error) {
	n, err := c.body.Decode(buf, eos)
	c.raw = append(c.raw, buf[:n]...)
	return n, err
}

func (c *messageCore) reset() {
	c.raw = nil
	c.header.TakeItem()
	c.body = NewBodyDecoder()
}

// messageEncodeCore is the write-side counterpart: it owns the append-only
// raw buffer holding the rendered start line and header block, plus the
// field positions the HeaderMut writes populate, and tracks how much of
// that buffer has been copied into callers' output buffers; the request and
// response encoders drain it before handing the rest of the output to the
// body encoder.
type messageEncodeCore struct {
	raw    []byte
	fields []FieldPosition
	body   *BodyEncoder
	// active is what Encode drains bytes from: body itself, unless the
	// message forbids a body on the wire (a HEAD response), in which case
	// it's a HeadBodyEncoder wrapping body so the framing header still
	// reflects what a body would have sent.
	active codec.Encoder[[]byte]
	opts   Options
	stage  int
	sent   int
}

func newMessageEncodeCore(opts Options) *messageEncodeCore {
	body := NewBodyEncoder()
	return &messageEncodeCore{body: body, active: body, opts: opts}
}

func (c *messageEncodeCore) headerMut() HeaderMut {
	return newHeaderMut(&c.raw, &c.fields)
}

func (c *messageEncodeCore) finishHeader() {
	c.raw = append(c.raw, '\r', '\n')
}

// drain copies whatever remains of the rendered raw buffer into buf,
// starting where the previous Encode call left off.
func (c *messageEncodeCore) drain(buf []byte) int {
	n := copy(buf, c.raw[c.sent:])
	c.sent += n
	return n
}

func (c *messageEncodeCore) headerFullySent() bool { return c.sent >= len(c.raw) }

func (c *messageEncodeCore) reset() {
	c.raw = nil
	c.fields = nil
	c.sent = 0
	c.stage = stageStartLine
	c.body = NewBodyEncoder()
	c.active = c.body
}

// newTraceID returns a fresh correlation ID when the option is enabled,
// stamped once at message construction and never re-derived mid-stream
// (spec.md §4.4): it never appears on the wire, only in logs/diagnostics.
func newTraceID(opts Options) (uuid.UUID, bool) {
	if !opts.TraceIDs {
		return uuid.UUID{}, false
	}
	return uuid.New(), true
}
