package httpcodec

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/andycostintoma/httpcodec/internal/codec"
	"github.com/andycostintoma/httpcodec/internal/lex"
	"github.com/andycostintoma/httpcodec/internal/netx"
	"github.com/andycostintoma/httpcodec/internal/obs"
)

// Request is a fully decoded HTTP/1.x request message.
type Request struct {
	Method  Method
	Target  RequestTarget
	Version HTTPVersion
	Header  Header
	Body    []byte

	traceID    uuid.UUID
	hasTraceID bool
}

// TraceID returns the correlation ID stamped on this request, if
// WithTraceIDs was enabled on the decoder that produced it.
func (r Request) TraceID() (uuid.UUID, bool) { return r.traceID, r.hasTraceID }

// String reconstructs the request's wire form.
func (r Request) String() string {
	var b strings.Builder
	b.WriteString(r.Method.String())
	b.WriteByte(' ')
	b.WriteString(r.Target.String())
	b.WriteByte(' ')
	b.WriteString(r.Version.String())
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

// requestLineResult is the request-line decoder's output: Method and
// Target as byte ranges into the decoder's own start-line buffer (not
// messageCore's raw buffer — the start line and header block are kept in
// separate buffers since their offsets are independent), Version already
// resolved to its typed value.
type requestLineResult struct {
	Method  Range
	Target  Range
	Version HTTPVersion
}

// requestLineDecoder reads "method SP request-target SP HTTP-version CRLF",
// mirroring headerDecoder's running-offset/rebase approach.
type requestLineDecoder struct {
	stage       int
	offset      int
	method      methodDecoder
	target      requestTargetDecoder
	version     *lex.WithSuffix[HTTPVersion]
	methodEnd   int
	targetStart int
	targetEnd   int
	result      requestLineResult
	done        bool
}

func newRequestLineDecoder() *requestLineDecoder {
	return &requestLineDecoder{
		version: lex.NewWithSuffix[HTTPVersion](newVersionDecoder(), lex.NewCRLFDecoder()),
	}
}

func (d *requestLineDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	offset := 0
	for {
		switch d.stage {
		case 0:
			n, err := d.method.Decode(buf[offset:], eos)
			offset += n
			d.offset += n
			if err != nil {
				return offset, err
			}
			if !d.method.IsIdle() {
				return offset, nil
			}
			length, err := d.method.FinishDecoding()
			if err != nil {
				return offset, err
			}
			d.methodEnd = length
			d.targetStart = length + 1
			d.stage = 1

		case 1:
			n, err := d.target.Decode(buf[offset:], eos)
			offset += n
			d.offset += n
			if err != nil {
				return offset, err
			}
			if !d.target.IsIdle() {
				return offset, nil
			}
			length, err := d.target.FinishDecoding()
			if err != nil {
				return offset, err
			}
			d.targetEnd = d.targetStart + length
			d.stage = 2

		case 2:
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
			d.result = requestLineResult{
				Method:  Range{0, d.methodEnd},
				Target:  Range{d.targetStart, d.targetEnd},
				Version: v,
			}
			d.done = true
			return offset, nil
		}
	}
}

func (d *requestLineDecoder) FinishDecoding() (requestLineResult, error) {
	if !d.done {
		return requestLineResult{}, codec.New(codec.KindIncompleteDecoding, "request-line decoder is not idle")
	}
	r := d.result
	d.done = false
	d.stage = 0
	d.methodEnd, d.targetStart, d.targetEnd = 0, 0, 0
	return r, nil
}

func (d *requestLineDecoder) IsIdle() bool { return d.done }

func (d *requestLineDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }

// RequestDecoder incrementally decodes one HTTP/1.x request per spec.md's
// message lifecycle: start line, then header block, then body, restartable
// at any byte boundary.
type RequestDecoder struct {
	core         *messageCore
	startLine    *codec.MaxBytes[requestLineResult]
	startLineRaw []byte
	stage        int
	result       requestLineResult
	opts         Options
}

// NewRequestDecoder makes a RequestDecoder configured by opts.
func NewRequestDecoder(opts Options) *RequestDecoder {
	return &RequestDecoder{
		core:      newMessageCore(opts),
		startLine: codec.NewMaxBytes[requestLineResult](newRequestLineDecoder(), opts.MaxStartLineSize),
		opts:      opts,
	}
}

func (d *RequestDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	offset := 0
	// The body stage is visited even when no bytes remain, so a request
	// without a body completes as soon as its header block ends.
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
			if err := d.core.body.Initialize(header, true, false, d.core.opts.logger()); err != nil {
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
		return offset, codec.New(codec.KindUnexpectedEos, "request: eos before message complete")
	}
	return offset, nil
}

func (d *RequestDecoder) FinishDecoding() (Request, error) {
	if d.stage != stageDone {
		return Request{}, codec.New(codec.KindIncompleteDecoding, "request decoder is not idle")
	}
	body, err := d.core.body.FinishDecoding()
	if err != nil {
		return Request{}, err
	}

	req := Request{
		Method:  NewMethodUnchecked(d.result.Method.slice(d.startLineRaw)),
		Target:  NewRequestTargetUnchecked(d.result.Target.slice(d.startLineRaw)),
		Version: d.result.Version,
		Header:  d.core.headerView(),
		Body:    body,
	}
	req.traceID, req.hasTraceID = newTraceID(d.opts)
	if req.hasTraceID {
		d.opts.logger().Debugw("decoded request", obs.FieldTraceID, req.traceID)
	}

	d.startLineRaw = nil
	d.stage = stageStartLine
	d.core.reset()
	return req, nil
}

func (d *RequestDecoder) IsIdle() bool { return d.stage == stageDone }

func (d *RequestDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }

// RequestEncoder serializes a Request onto the wire incrementally.
type RequestEncoder struct {
	core *messageEncodeCore
	opts Options
}

// NewRequestEncoder makes a RequestEncoder configured by opts.
func NewRequestEncoder(opts Options) *RequestEncoder {
	return &RequestEncoder{core: newMessageEncodeCore(opts), opts: opts}
}

func (e *RequestEncoder) StartEncoding(req Request) error {
	if !e.IsIdle() {
		return codec.ErrEncoderFull
	}
	e.core.raw = append(e.core.raw, req.Method.String()...)
	e.core.raw = append(e.core.raw, ' ')
	e.core.raw = append(e.core.raw, req.Target.String()...)
	e.core.raw = append(e.core.raw, ' ')
	e.core.raw = append(e.core.raw, req.Version.String()...)
	e.core.raw = append(e.core.raw, '\r', '\n')

	if e.opts.ChunkedBody {
		e.core.body.UseChunked()
	}
	e.core.active = e.core.body
	if err := e.core.active.StartEncoding(req.Body); err != nil {
		return err
	}
	if err := e.core.body.WriteFramingHeader(e.core.headerMut(), len(req.Body)); err != nil {
		return err
	}

	for _, f := range req.Header.Fields() {
		if err := e.core.headerMut().AddField(f.Name, f.Value); err != nil {
			return err
		}
	}
	e.core.finishHeader()

	e.core.stage = stageBody
	return nil
}

func (e *RequestEncoder) Encode(buf []byte, eos codec.Eos) (int, error) {
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

func (e *RequestEncoder) IsIdle() bool {
	return e.core.stage == stageStartLine && len(e.core.raw) == 0
}

func (e *RequestEncoder) RequiringBytes() codec.ByteCount {
	if e.IsIdle() {
		return codec.Finite(0)
	}
	return codec.UnknownCount
}

// ReadRequest pumps bytes from r into a fresh RequestDecoder until one
// request is fully decoded, mirroring the teacher's ParseRequest(r, limits)
// against the restartable byte-slice contract instead of a line reader.
func ReadRequest(ctx context.Context, r io.Reader, opts Options) (Request, error) {
	return netx.Next(ctx, netx.NewPump(r), NewRequestDecoder(opts))
}

// WriteRequest encodes req and writes its wire bytes to w.
func WriteRequest(w io.Writer, req Request, opts Options) error {
	return netx.Drain[Request](w, NewRequestEncoder(opts), req)
}
