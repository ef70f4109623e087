package httpcodec

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/andycostintoma/httpcodec/internal/codec"
	"github.com/andycostintoma/httpcodec/internal/lex"
	"github.com/andycostintoma/httpcodec/internal/netx"
	"github.com/andycostintoma/httpcodec/internal/obs"
)

// Response is a fully decoded HTTP/1.x response message.
type Response struct {
	Version HTTPVersion
	Status  StatusCode
	Reason  ReasonPhrase
	Header  Header
	Body    []byte

	traceID    uuid.UUID
	hasTraceID bool
}

// TraceID returns the correlation ID stamped on this response, if
// WithTraceIDs was enabled on the decoder that produced it.
func (r Response) TraceID() (uuid.UUID, bool) { return r.traceID, r.hasTraceID }

// String reconstructs the response's wire form.
func (r Response) String() string {
	var b strings.Builder
	b.WriteString(r.Version.String())
	b.WriteByte(' ')
	b.WriteString(r.Status.String())
	b.WriteByte(' ')
	b.WriteString(r.Reason.String())
	b.WriteString("\r\n")
	for _, f := range r.Header.Fields() {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.Write(r.Body)
	return b.String()
}

// SplitBody returns a shallow copy of r with Body cleared, and the body
// bytes separately — useful for handing the body to a streaming consumer
// without holding a second reference to it via the Response itself.
func (r Response) SplitBody() (Response, []byte) {
	body := r.Body
	r.Body = nil
	return r, body
}

// MapBody returns a copy of r with Body replaced by fn(r.Body).
func (r Response) MapBody(fn func([]byte) []byte) Response {
	r.Body = fn(r.Body)
	return r
}

// hasNoBody reports whether RFC 7230 §3.3 forbids a body on this response
// regardless of headers: a response to a HEAD request, or any 1xx/204/304.
func hasNoBody(requestMethod Method, status StatusCode) bool {
	if requestMethod == "HEAD" {
		return true
	}
	n := int(status)
	if n >= 100 && n < 200 {
		return true
	}
	return n == 204 || n == 304
}

// statusLineResult is the status-line decoder's output: Version and
// Status already resolved to typed values, Reason a byte range into the
// decoder's own start-line buffer.
type statusLineResult struct {
	Version HTTPVersion
	Status  StatusCode
	Reason  Range
}

// statusLineDecoder reads "HTTP-version SP status-code SP reason-phrase
// CRLF".
type statusLineDecoder struct {
	stage       int
	offset      int
	version     *lex.WithSuffix[HTTPVersion]
	status      *statusCodeDecoder
	reason      reasonPhraseDecoder
	reasonStart int
	reasonEnd   int
	result      statusLineResult
	done        bool
}

func newStatusLineDecoder() *statusLineDecoder {
	return &statusLineDecoder{
		version: lex.NewWithSuffix[HTTPVersion](newVersionDecoder(), lex.NewSpaceDecoder()),
		status:  newStatusCodeDecoder(),
	}
}

func (d *statusLineDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	offset := 0
	for {
		switch d.stage {
		case 0:
			n, err := d.version.Decode(buf[offset:], eos)
			offset += n
			d.offset += n
			if err != nil {
				return offset, err
			}
			if !d.version.IsIdle() {
				return offset, nil
			}
			v, err := d.version.FinishDecoding()
			if err != nil {
				return offset, err
			}
			d.result.Version = v
			d.stage = 1

		case 1:
			n, err := d.status.Decode(buf[offset:], eos)
			offset += n
			d.offset += n
			if err != nil {
				return offset, err
			}
			if !d.status.IsIdle() {
				return offset, nil
			}
			s, err := d.status.FinishDecoding()
			if err != nil {
				return offset, err
			}
			d.result.Status = s
			d.reasonStart = d.offset
			d.stage = 2

		case 2:
			n, err := d.reason.Decode(buf[offset:], eos)
			offset += n
			d.offset += n
			if err != nil {
				return offset, err
			}
			if !d.reason.IsIdle() {
				return offset, nil
			}
			length, err := d.reason.FinishDecoding()
			if err != nil {
				return offset, err
			}
			d.reasonEnd = d.reasonStart + length
			d.result.Reason = Range{d.reasonStart, d.reasonEnd}
			d.done = true
			return offset, nil
		}
	}
}

func (d *statusLineDecoder) FinishDecoding() (statusLineResult, error) {
	if !d.done {
		return statusLineResult{}, codec.New(codec.KindIncompleteDecoding, "status-line decoder is not idle")
	}
	r := d.result
	d.done = false
	d.stage = 0
	d.offset = 0
	d.reasonStart, d.reasonEnd = 0, 0
	return r, nil
}

func (d *statusLineDecoder) IsIdle() bool { return d.done }

func (d *statusLineDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }

// ResponseDecoder incrementally decodes one HTTP/1.x response. Callers
// decoding a response to a HEAD request must call SetRequestMethod first,
// since body presence for a HEAD response can't be determined from the
// response's own bytes.
type ResponseDecoder struct {
	core          *messageCore
	startLine     *codec.MaxBytes[statusLineResult]
	startLineRaw  []byte
	stage         int
	result        statusLineResult
	requestMethod Method
	opts          Options
}

// NewResponseDecoder makes a ResponseDecoder configured by opts.
func NewResponseDecoder(opts Options) *ResponseDecoder {
	return &ResponseDecoder{
		core:      newMessageCore(opts),
		startLine: codec.NewMaxBytes[statusLineResult](newStatusLineDecoder(), opts.MaxStartLineSize),
		opts:      opts,
	}
}

// SetRequestMethod records the method of the request this response
// answers, for the HEAD-response no-body rule; call it before Decode.
func (d *ResponseDecoder) SetRequestMethod(m Method) { d.requestMethod = m }

func (d *ResponseDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	offset := 0
	// The body stage is visited even when no bytes remain: a body-less
	// response completes as soon as its header block ends, and a
	// connection-close-delimited body (no Content-Length or chunked
	// framing) only learns the message is complete from eos itself, which
	// can arrive on a call carrying zero new bytes.
	for offset < len(buf) || d.stage == stageBody {
		switch d.stage {
		case stageStartLine:
			n, err := d.startLine.Decode(buf[offset:], eos)
			d.startLineRaw = append(d.startLineRaw, buf[offset:offset+n]...)
			offset += n
			if err != nil {
				return offset, err
			}
			if !d.startLine.IsIdle() {
				return offset, nil
			}
			result, err := d.startLine.FinishDecoding()
			if err != nil {
				return offset, err
			}
			d.result = result
			d.core.headerInner().SetStartPosition(0)
			d.stage = stageHeader

		case stageHeader:
			n, done, err := d.core.decodeHeader(buf[offset:], eos)
			offset += n
			if err != nil {
				return offset, err
			}
			if !done {
				return offset, nil
			}
			header := d.core.headerView()
			hasBody := !hasNoBody(d.requestMethod, d.result.Status)
			if err := d.core.body.Initialize(header, hasBody, true, d.core.opts.logger()); err != nil {
				return offset, err
			}
			d.stage = stageBody

		case stageBody:
			n, err := d.core.decodeBody(buf[offset:], eos)
			offset += n
			if err != nil {
				return offset, err
			}
			if !d.core.body.IsIdle() {
				return offset, nil
			}
			d.stage = stageDone
			return offset, nil
		}
	}
	if eos.Reached() && d.stage != stageDone {
		return offset, codec.New(codec.KindUnexpectedEos, "response: eos before message complete")
	}
	return offset, nil
}

func (d *ResponseDecoder) FinishDecoding() (Response, error) {
	if d.stage != stageDone {
		return Response{}, codec.New(codec.KindIncompleteDecoding, "response decoder is not idle")
	}
	body, err := d.core.body.FinishDecoding()
	if err != nil {
		return Response{}, err
	}

	resp := Response{
		Version: d.result.Version,
		Status:  d.result.Status,
		Reason:  NewReasonPhraseUnchecked(d.result.Reason.slice(d.startLineRaw)),
		Header:  d.core.headerView(),
		Body:    body,
	}
	resp.traceID, resp.hasTraceID = newTraceID(d.opts)
	if resp.hasTraceID {
		d.opts.logger().Debugw("decoded response", obs.FieldTraceID, resp.traceID)
	}

	d.startLineRaw = nil
	d.stage = stageStartLine
	d.core.reset()
	return resp, nil
}

func (d *ResponseDecoder) IsIdle() bool { return d.stage == stageDone }

func (d *ResponseDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }

// ResponseEncoder serializes a Response onto the wire incrementally.
type ResponseEncoder struct {
	core          *messageEncodeCore
	requestMethod Method
	opts          Options
}

// NewResponseEncoder makes a ResponseEncoder configured by opts.
func NewResponseEncoder(opts Options) *ResponseEncoder {
	return &ResponseEncoder{core: newMessageEncodeCore(opts), opts: opts}
}

// SetRequestMethod records the method of the request this response
// answers, so StartEncoding can switch to a HeadBodyEncoder automatically.
func (e *ResponseEncoder) SetRequestMethod(m Method) { e.requestMethod = m }

func (e *ResponseEncoder) StartEncoding(resp Response) error {
	if !e.IsIdle() {
		return codec.ErrEncoderFull
	}
	e.core.raw = append(e.core.raw, resp.Version.String()...)
	e.core.raw = append(e.core.raw, ' ')
	e.core.raw = append(e.core.raw, strconv.Itoa(int(resp.Status))...)
	e.core.raw = append(e.core.raw, ' ')
	e.core.raw = append(e.core.raw, resp.Reason.String()...)
	e.core.raw = append(e.core.raw, '\r', '\n')

	if e.opts.ChunkedBody {
		e.core.body.UseChunked()
	}
	if hasNoBody(e.requestMethod, resp.Status) {
		e.core.active = NewHeadBodyEncoder(e.core.body)
	} else {
		e.core.active = e.core.body
	}
	if err := e.core.active.StartEncoding(resp.Body); err != nil {
		return err
	}
	if err := e.core.body.WriteFramingHeader(e.core.headerMut(), len(resp.Body)); err != nil {
		return err
	}

	for _, f := range resp.Header.Fields() {
		if err := e.core.headerMut().AddField(f.Name, f.Value); err != nil {
			return err
		}
	}
	e.core.finishHeader()

	e.core.stage = stageBody
	return nil
}

func (e *ResponseEncoder) Encode(buf []byte, eos codec.Eos) (int, error) {
	total := 0
	for len(buf) > 0 {
		switch e.core.stage {
		case stageBody:
			if !e.core.headerFullySent() {
				n := e.core.drain(buf)
				total += n
				buf = buf[n:]
				continue
			}
			n, err := e.core.active.Encode(buf, eos)
			total += n
			if err != nil {
				return total, err
			}
			if e.core.active.IsIdle() {
				e.core.reset()
				return total, nil
			}
			return total, nil
		default:
			return total, nil
		}
	}
	return total, nil
}

func (e *ResponseEncoder) IsIdle() bool {
	return e.core.stage == stageStartLine && len(e.core.raw) == 0
}

func (e *ResponseEncoder) RequiringBytes() codec.ByteCount {
	if e.IsIdle() {
		return codec.Finite(0)
	}
	return codec.UnknownCount
}

// ReadResponse pumps bytes from r into a fresh ResponseDecoder until one
// response is fully decoded. requestMethod is the method of the request this
// response answers, needed up front for the HEAD no-body rule.
func ReadResponse(ctx context.Context, r io.Reader, requestMethod Method, opts Options) (Response, error) {
	d := NewResponseDecoder(opts)
	d.SetRequestMethod(requestMethod)
	return netx.Next(ctx, netx.NewPump(r), d)
}

// WriteResponse encodes resp and writes its wire bytes to w. requestMethod
// is the method of the request this response answers, needed so a HEAD
// response's body is suppressed on the wire while its framing header still
// reflects resp.Body's length.
func WriteResponse(w io.Writer, resp Response, requestMethod Method, opts Options) error {
	e := NewResponseEncoder(opts)
	e.SetRequestMethod(requestMethod)
	return netx.Drain[Response](w, e, resp)
}
