package httpcodec

import (
	"strings"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/andycostintoma/httpcodec/internal/codec"
	"github.com/andycostintoma/httpcodec/internal/lex"
)

// Range is a half-open byte-index range into a raw message buffer.
type Range struct {
	Start int
	End   int
}

func (r Range) slice(buf []byte) string { return string(buf[r.Start:r.End]) }

// FieldPosition is a decoded header field's (name, value) byte ranges into
// the owning message's raw buffer — the data-model invariant from spec.md
// §3: names/values are views, never copies.
type FieldPosition struct {
	Name  Range
	Value Range
}

func (p FieldPosition) addOffset(offset int) FieldPosition {
	return FieldPosition{
		Name:  Range{p.Name.Start + offset, p.Name.End + offset},
		Value: Range{p.Value.Start + offset, p.Value.End + offset},
	}
}

// HeaderField is a resolved (name, value) pair borrowed from a raw buffer.
type HeaderField struct {
	Name  string
	Value string
}

// Header is a read-only view of a header block over its owning message's
// raw buffer; field order (including duplicate names) is preserved,
// lookups are case-insensitive.
type Header struct {
	buf    []byte
	fields []FieldPosition
}

// NewHeaderView builds a Header view over buf using the given positions.
func NewHeaderView(buf []byte, fields []FieldPosition) Header {
	return Header{buf: buf, fields: fields}
}

// Fields returns every header field in wire order.
func (h Header) Fields() []HeaderField {
	out := make([]HeaderField, len(h.fields))
	for i, f := range h.fields {
		out[i] = HeaderField{Name: f.Name.slice(h.buf), Value: f.Value.slice(h.buf)}
	}
	return out
}

// Get returns the first value for name (case-insensitive), if any.
func (h Header) Get(name string) (string, bool) {
	for _, f := range h.fields {
		if strings.EqualFold(f.Name.slice(h.buf), name) {
			return f.Value.slice(h.buf), true
		}
	}
	return "", false
}

// Values returns every value for name (case-insensitive), in wire order.
func (h Header) Values(name string) []string {
	var out []string
	for _, f := range h.fields {
		if strings.EqualFold(f.Name.slice(h.buf), name) {
			out = append(out, f.Value.slice(h.buf))
		}
	}
	return out
}

// HeaderMut appends fields to an outbound message's raw buffer, recording
// their positions as they're written.
type HeaderMut struct {
	buf    *[]byte
	fields *[]FieldPosition
}

func newHeaderMut(buf *[]byte, fields *[]FieldPosition) HeaderMut {
	return HeaderMut{buf: buf, fields: fields}
}

// AddField validates and appends a "name: value\r\n" field.
func (h HeaderMut) AddField(name, value string) error {
	if err := validateFieldName(name); err != nil {
		return err
	}
	if err := validateFieldValue(value); err != nil {
		return err
	}
	nameStart := len(*h.buf)
	*h.buf = append(*h.buf, name...)
	nameEnd := len(*h.buf)
	*h.buf = append(*h.buf, ':', ' ')
	valueStart := len(*h.buf)
	*h.buf = append(*h.buf, value...)
	valueEnd := len(*h.buf)
	*h.buf = append(*h.buf, '\r', '\n')
	*h.fields = append(*h.fields, FieldPosition{
		Name:  Range{nameStart, nameEnd},
		Value: Range{valueStart, valueEnd},
	})
	return nil
}

// AddFieldUnchecked appends a field without validation; callers must be
// certain name/value are already well-formed (used internally by body
// codecs appending Content-Length/Transfer-Encoding, which they construct
// themselves).
func (h HeaderMut) AddFieldUnchecked(name, value string) {
	nameStart := len(*h.buf)
	*h.buf = append(*h.buf, name...)
	nameEnd := len(*h.buf)
	*h.buf = append(*h.buf, ':', ' ')
	valueStart := len(*h.buf)
	*h.buf = append(*h.buf, value...)
	valueEnd := len(*h.buf)
	*h.buf = append(*h.buf, '\r', '\n')
	*h.fields = append(*h.fields, FieldPosition{
		Name:  Range{nameStart, nameEnd},
		Value: Range{valueStart, valueEnd},
	})
}

func validateFieldName(s string) error {
	if s == "" {
		return codec.New(codec.KindInvalidInput, "header field name must not be empty")
	}
	for i := 0; i < len(s); i++ {
		if !lex.IsTChar(s[i]) {
			return codec.Newf(codec.KindInvalidInput, "header field name %q contains non-tchar byte %q", s, s[i])
		}
	}
	return nil
}

func validateFieldValue(s string) error {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !lex.IsVChar(b) && !lex.IsWhitespace(b) {
			return codec.Newf(codec.KindInvalidInput, "header field value %q contains invalid byte %q", s, b)
		}
	}
	return nil
}

// Limits bounds a bulk header validation pass (field count, key/value
// sizes), mirroring the teacher's HeaderLimits/ValidateHeader surface.
type Limits struct {
	MaxFields           int
	MaxKeyBytes         int
	MaxValueBytes       int
	MaxTotalValuesBytes int
}

// ValidateFields bulk-validates a set of outbound fields against lim,
// collecting every violation via multierror instead of stopping at the
// first so a caller building a message from untrusted input sees the full
// picture in one pass.
func ValidateFields(fields []HeaderField, lim Limits) error {
	var result *multierror.Error
	if lim.MaxFields > 0 && len(fields) > lim.MaxFields {
		result = multierror.Append(result, codec.Newf(codec.KindInvalidInput, "%d fields exceeds limit of %d", len(fields), lim.MaxFields))
	}
	totalBytes := 0
	for _, f := range fields {
		if err := validateFieldName(f.Name); err != nil {
			result = multierror.Append(result, err)
		} else if lim.MaxKeyBytes > 0 && len(f.Name) > lim.MaxKeyBytes {
			result = multierror.Append(result, codec.Newf(codec.KindInvalidInput, "field name %q exceeds %d bytes", f.Name, lim.MaxKeyBytes))
		}
		if err := validateFieldValue(f.Value); err != nil {
			result = multierror.Append(result, err)
		} else if lim.MaxValueBytes > 0 && len(f.Value) > lim.MaxValueBytes {
			result = multierror.Append(result, codec.Newf(codec.KindInvalidInput, "field %q value exceeds %d bytes", f.Name, lim.MaxValueBytes))
		}
		totalBytes += len(f.Value)
	}
	if lim.MaxTotalValuesBytes > 0 && totalBytes > lim.MaxTotalValuesBytes {
		result = multierror.Append(result, codec.Newf(codec.KindInvalidInput, "total header value bytes %d exceeds %d", totalBytes, lim.MaxTotalValuesBytes))
	}
	return result.ErrorOrNil()
}

// -----------------------------------------------------------------------
// Decoders
// -----------------------------------------------------------------------

// fieldNameDecoder reads tchar+ terminated by ':'.
type fieldNameDecoder struct {
	size   int
	done   bool
	result int
}

func (d *fieldNameDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	if d.done {
		return 0, nil
	}
	for i := 0; i < len(buf); i++ {
		if !lex.IsTChar(buf[i]) {
			if buf[i] != ':' {
				return i, codec.Newf(codec.KindInvalidInput, "header field name: expected ':', got %q", buf[i])
			}
			d.result = d.size + i
			d.size = 0
			d.done = true
			return i + 1, nil
		}
	}
	if eos.Reached() {
		return len(buf), codec.New(codec.KindUnexpectedEos, "header field name: eos before ':'")
	}
	d.size += len(buf)
	return len(buf), nil
}

func (d *fieldNameDecoder) FinishDecoding() (int, error) {
	if !d.done {
		return 0, codec.New(codec.KindIncompleteDecoding, "header field name decoder is not idle")
	}
	result := d.result
	d.done = false
	if result == 0 {
		return 0, codec.New(codec.KindInvalidInput, "header field name must not be empty")
	}
	return result, nil
}

func (d *fieldNameDecoder) IsIdle() bool { return d.done }

func (d *fieldNameDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }

// fieldValueDecoder reads OWS-stripped vchar/whitespace content terminated
// by CRLF, committing trailing whitespace lazily so it never lands in the
// emitted range (spec.md §4.6).
type fieldValueDecoder struct {
	start         int
	size          int
	trailingWS    int
	beforeNewline bool
	done          bool
	resultStart   int
	resultEnd     int
}

func (d *fieldValueDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	offset := 0
	if d.size == 0 && !d.beforeNewline {
		for offset < len(buf) && lex.IsWhitespace(buf[offset]) {
			offset++
		}
		d.start += offset
	}
	for offset < len(buf) {
		b := buf[offset]
		offset++
		switch {
		case lex.IsWhitespace(b):
			d.trailingWS++
		case lex.IsVChar(b):
			d.size += d.trailingWS + 1
			d.trailingWS = 0
		case d.beforeNewline:
			if b != '\n' {
				return offset, codec.Newf(codec.KindInvalidInput, "header field value: expected LF, got %q", b)
			}
			d.resultStart = d.start
			d.resultEnd = d.start + d.size
			d.done = true
			return offset, nil
		default:
			if b != '\r' {
				return offset, codec.Newf(codec.KindInvalidInput, "header field value contains invalid byte %q", b)
			}
			d.beforeNewline = true
		}
	}
	if eos.Reached() {
		return offset, codec.New(codec.KindUnexpectedEos, "header field value: eos before CRLF")
	}
	return offset, nil
}

func (d *fieldValueDecoder) FinishDecoding() (Range, error) {
	if !d.done {
		return Range{}, codec.New(codec.KindIncompleteDecoding, "header field value decoder is not idle")
	}
	r := Range{Start: d.resultStart, End: d.resultEnd}
	*d = fieldValueDecoder{}
	return r, nil
}

func (d *fieldValueDecoder) IsIdle() bool { return d.done }

func (d *fieldValueDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }

// fieldTupleDecoder sequences a name then a value, both ranges relative to
// the field's own start (the header decoder rebases them afterwards).
type fieldTupleDecoder struct {
	name     fieldNameDecoder
	value    fieldValueDecoder
	nameDone bool
	nameLen  int
}

func (d *fieldTupleDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	offset := 0
	if !d.nameDone {
		n, err := d.name.Decode(buf, eos)
		offset += n
		if err != nil {
			return offset, err
		}
		if !d.name.IsIdle() {
			return offset, nil
		}
		nameLen, err := d.name.FinishDecoding()
		if err != nil {
			return offset, err
		}
		d.nameLen = nameLen
		d.nameDone = true
		d.value.start = nameLen + 1 // ':' byte
	}
	n, err := d.value.Decode(buf[offset:], eos)
	offset += n
	return offset, err
}

func (d *fieldTupleDecoder) IsIdle() bool { return d.nameDone && d.value.IsIdle() }

func (d *fieldTupleDecoder) FinishDecoding() (FieldPosition, error) {
	valueRange, err := d.value.FinishDecoding()
	if err != nil {
		return FieldPosition{}, err
	}
	pos := FieldPosition{Name: Range{0, d.nameLen}, Value: valueRange}
	d.nameDone = false
	d.nameLen = 0
	return pos, nil
}

// headerDecoder is the nested header-block state machine of spec.md §4.6:
// a reusable field decoder plus a 2-byte peek to distinguish another field
// from the blank line that ends the block.
type headerDecoder struct {
	fieldStart int
	fieldEnd   int
	peek       [2]byte
	peekLen    int
	field      *fieldTupleDecoder
	active     bool
	fields     []FieldPosition
	done       bool
}

// SetStartPosition tells the decoder where, in the external raw buffer it
// does not itself own, the header block begins.
func (d *headerDecoder) SetStartPosition(n int) {
	d.fieldStart = n
	d.fieldEnd = n
}

func (d *headerDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	offset := 0
	for offset < len(buf) {
		if d.active {
			n, err := d.field.Decode(buf[offset:], eos)
			offset += n
			d.fieldEnd += n
			if err != nil {
				return offset, err
			}
			if d.field.IsIdle() {
				pos, err := d.field.FinishDecoding()
				if err != nil {
					return offset, err
				}
				d.fields = append(d.fields, pos.addOffset(d.fieldStart))
				d.fieldStart = d.fieldEnd
				d.active = false
				d.field = nil
			}
			continue
		}

		for d.peekLen < 2 && offset < len(buf) {
			d.peek[d.peekLen] = buf[offset]
			d.peekLen++
			offset++
			d.fieldEnd++
		}
		if d.peekLen < 2 {
			break
		}
		if d.peek == [2]byte{'\r', '\n'} {
			d.done = true
			return offset, nil
		}

		d.field = &fieldTupleDecoder{}
		n, err := d.field.Decode(d.peek[:], codec.NotReached)
		if err != nil {
			return offset, err
		}
		if n != 2 {
			return offset, codec.New(codec.KindOther, "header field decoder did not consume its own lookahead bytes")
		}
		d.peekLen = 0
		d.active = true
		if d.field.IsIdle() {
			pos, err := d.field.FinishDecoding()
			if err != nil {
				return offset, err
			}
			d.fields = append(d.fields, pos.addOffset(d.fieldStart))
			d.fieldStart = d.fieldEnd
			d.active = false
			d.field = nil
		}
	}
	if offset == len(buf) && eos.Reached() && !d.done {
		return offset, codec.New(codec.KindUnexpectedEos, "header block: eos before terminating blank line")
	}
	return offset, nil
}

func (d *headerDecoder) FinishDecoding() ([]FieldPosition, error) {
	if !d.done {
		return nil, codec.New(codec.KindIncompleteDecoding, "header decoder is not idle")
	}
	fields := d.fields
	d.fields = nil
	d.done = false
	d.peekLen = 0
	d.fieldStart = 0
	d.fieldEnd = 0
	return fields, nil
}

func (d *headerDecoder) IsIdle() bool { return d.done }

func (d *headerDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }
