package codec

// FixedBytesDecoder reads exactly Size bytes and returns them verbatim. It
// underlies the lexical SP/CRLF decoders and the HTTP-version/status-code
// fixed-width fields.
type FixedBytesDecoder struct {
	Size int

	buf  []byte
	got  int
	idle bool
}

// NewFixedBytesDecoder makes a decoder that reads exactly size bytes.
func NewFixedBytesDecoder(size int) *FixedBytesDecoder {
	return &FixedBytesDecoder{Size: size}
}

func (d *FixedBytesDecoder) Decode(buf []byte, eos Eos) (int, error) {
	if d.buf == nil {
		d.buf = make([]byte, d.Size)
	}
	n := copy(d.buf[d.got:], buf)
	d.got += n
	if d.got < d.Size {
		if eos.Reached() {
			return n, New(KindUnexpectedEos, "eof before fixed-size field completed")
		}
		return n, nil
	}
	d.idle = true
	return n, nil
}

func (d *FixedBytesDecoder) FinishDecoding() ([]byte, error) {
	if !d.idle {
		return nil, New(KindIncompleteDecoding, "fixed-bytes decoder is not idle")
	}
	item := d.buf
	d.buf = nil
	d.got = 0
	d.idle = false
	return item, nil
}

func (d *FixedBytesDecoder) IsIdle() bool { return d.idle }

func (d *FixedBytesDecoder) RequiringBytes() ByteCount {
	if d.idle {
		return Finite(0)
	}
	return Finite(uint64(d.Size - d.got))
}

// FixedLiteralDecoder reads exactly len(Literal) bytes and asserts they
// match Literal verbatim, failing with KindInvalidInput on mismatch. It
// implements the "atomic synchronising tokens" (a single space, CRLF) that
// the start-line and header-block decoders rely on.
type FixedLiteralDecoder struct {
	Literal []byte
	Name    string

	inner *FixedBytesDecoder
}

// NewFixedLiteralDecoder makes a decoder asserting buf matches literal
// exactly; name is used in error messages (e.g. "CRLF", "space").
func NewFixedLiteralDecoder(literal []byte, name string) *FixedLiteralDecoder {
	return &FixedLiteralDecoder{Literal: literal, Name: name, inner: NewFixedBytesDecoder(len(literal))}
}

func (d *FixedLiteralDecoder) Decode(buf []byte, eos Eos) (int, error) {
	return d.inner.Decode(buf, eos)
}

func (d *FixedLiteralDecoder) FinishDecoding() (struct{}, error) {
	got, err := d.inner.FinishDecoding()
	if err != nil {
		return struct{}{}, err
	}
	for i, b := range d.Literal {
		if got[i] != b {
			return struct{}{}, Newf(KindInvalidInput, "expected %s, got %q", d.Name, got)
		}
	}
	return struct{}{}, nil
}

func (d *FixedLiteralDecoder) IsIdle() bool { return d.inner.IsIdle() }

func (d *FixedLiteralDecoder) RequiringBytes() ByteCount { return d.inner.RequiringBytes() }

// BytesEncoder emits a pre-loaded byte slice, suspending when the caller's
// buffer is smaller than what remains.
type BytesEncoder struct {
	buf    []byte
	offset int
}

// NewBytesEncoder makes an idle BytesEncoder.
func NewBytesEncoder() *BytesEncoder { return &BytesEncoder{} }

func (e *BytesEncoder) StartEncoding(item []byte) error {
	if !e.IsIdle() {
		return ErrEncoderFull
	}
	e.buf = item
	e.offset = 0
	return nil
}

func (e *BytesEncoder) Encode(buf []byte, _ Eos) (int, error) {
	n := copy(buf, e.buf[e.offset:])
	e.offset += n
	return n, nil
}

func (e *BytesEncoder) IsIdle() bool { return e.offset >= len(e.buf) }

func (e *BytesEncoder) RequiringBytes() ByteCount { return Finite(uint64(len(e.buf) - e.offset)) }

func (e *BytesEncoder) ExactRequiringBytes() uint64 { return uint64(len(e.buf) - e.offset) }
