package httpcodec

import (
	"fmt"
	"math"

	"github.com/andycostintoma/httpcodec/internal/codec"
	"github.com/andycostintoma/httpcodec/internal/obs"
)

// Chunk-size prefix widths, ported from the size table in
// original_source/src/chunked_body.rs: the width (hex digits + "N\r\n"
// overhead) a chunk's size line occupies depends on which bracket its data
// length falls into.
const (
	chunkSizeBracket1 = 0xF
	chunkSizeBracket2 = 0xFF
	chunkSizeBracket3 = 0xFFF
	chunkSizeBracket4 = 0xFFFF
	chunkSizeBracket5 = 0xFFFFF
	chunkSizeBracket6 = 0xFFFFFF
	chunkSizeBracket7 = 0xFFFFFFF
)

var chunkSizePrefixWidths = []struct {
	prefixLen int
	bracket   uint64
}{
	{3, chunkSizeBracket1},
	{4, chunkSizeBracket2},
	{5, chunkSizeBracket3},
	{6, chunkSizeBracket4},
	{7, chunkSizeBracket5},
	{8, chunkSizeBracket6},
	{9, chunkSizeBracket7},
	{10, math.MaxUint64},
}

// maxChunkData returns the largest chunk data length whose size-line
// ("<hex>\r\n") and at least one data byte fit in an output buffer of cap
// bytes. The data's trailing CRLF is allowed to spill into the next Encode
// call via the encoder's pending buffer, so it is not counted against cap
// here — only the size-line, which must be written in full before any data
// byte can be emitted.
func maxChunkData(cap int) int {
	best := 0
	for _, w := range chunkSizePrefixWidths {
		room := cap - w.prefixLen
		if room <= 0 {
			continue
		}
		n := uint64(room)
		if n > w.bracket {
			n = w.bracket
		}
		if int(n) > best {
			best = int(n)
		}
	}
	return best
}

func hexVal(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}

// chunkSizeDecoder reads a chunk-size line: hex digits terminated by CRLF.
// Chunk extensions (";ext=value") are a deliberately unsupported wire
// feature (spec.md's documented limitation); encountering one fails fast
// rather than silently discarding it.
type chunkSizeDecoder struct {
	value uint64
	any   bool
	sawCR bool
	done  bool
}

func (d *chunkSizeDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	if d.done {
		return 0, nil
	}
	offset := 0
	if !d.sawCR {
		for offset < len(buf) {
			v, ok := hexVal(buf[offset])
			if !ok {
				break
			}
			d.value = d.value*16 + uint64(v)
			d.any = true
			offset++
		}
		if offset == len(buf) {
			if eos.Reached() {
				return offset, codec.New(codec.KindUnexpectedEos, "chunk-size: eos before CRLF")
			}
			return offset, nil
		}
		switch buf[offset] {
		case ';':
			obs.L().Debugw("rejecting chunk-size line with an unsupported chunk extension",
				obs.FieldBytes, offset)
			return offset, codec.New(codec.KindInvalidInput, "chunk extensions are not supported")
		case '\r':
			offset++
			d.sawCR = true
		default:
			return offset, codec.Newf(codec.KindInvalidInput, "chunk-size: expected CR, got %q", buf[offset])
		}
	}
	if offset >= len(buf) {
		if eos.Reached() {
			return offset, codec.New(codec.KindUnexpectedEos, "chunk-size: eos before LF")
		}
		return offset, nil
	}
	if buf[offset] != '\n' {
		return offset, codec.Newf(codec.KindInvalidInput, "chunk-size: expected LF, got %q", buf[offset])
	}
	offset++
	d.done = true
	return offset, nil
}

func (d *chunkSizeDecoder) FinishDecoding() (uint64, error) {
	if !d.done {
		return 0, codec.New(codec.KindIncompleteDecoding, "chunk-size decoder is not idle")
	}
	d.done = false
	if !d.any {
		d.value, d.any, d.sawCR = 0, false, false
		return 0, codec.New(codec.KindInvalidInput, "chunk-size must have at least one hex digit")
	}
	v := d.value
	d.value, d.any, d.sawCR = 0, false, false
	return v, nil
}

func (d *chunkSizeDecoder) IsIdle() bool { return d.done }

func (d *chunkSizeDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }

// chunked body decoder stages.
const (
	chunkedDecSize = iota
	chunkedDecData
	chunkedDecDataCRLF
	chunkedDecFinalCRLF
)

// chunkedBodyDecoder reassembles a chunked-transfer-coded body into a
// contiguous byte slice, stripping chunk framing as it goes; trailer
// fields after the zero-size chunk are unsupported (a bare CRLF is
// required immediately), the same limitation chunkSizeDecoder enforces
// for chunk extensions.
type chunkedBodyDecoder struct {
	size        chunkSizeDecoder
	data        *codec.Slice[[]byte]
	trailerCRLF *codec.FixedLiteralDecoder
	finalCRLF   *codec.FixedLiteralDecoder
	stage       int
	out         []byte
	done        bool
}

func newChunkedBodyDecoder() *chunkedBodyDecoder {
	return &chunkedBodyDecoder{
		trailerCRLF: codec.NewFixedLiteralDecoder([]byte("\r\n"), "CRLF"),
		finalCRLF:   codec.NewFixedLiteralDecoder([]byte("\r\n"), "CRLF"),
	}
}

func (d *chunkedBodyDecoder) Decode(buf []byte, eos codec.Eos) (int, error) {
	offset := 0
	for offset < len(buf) {
		switch d.stage {
		case chunkedDecSize:
			n, err := d.size.Decode(buf[offset:], eos)
			offset += n
			if err != nil {
				return offset, err
			}
			if !d.size.IsIdle() {
				return offset, nil
			}
			size, err := d.size.FinishDecoding()
			if err != nil {
				return offset, err
			}
			if size == 0 {
				d.stage = chunkedDecFinalCRLF
				continue
			}
			d.data = codec.NewSlice[[]byte](codec.NewFixedBytesDecoder(int(size)))
			d.data.SetRemaining(size)
			d.stage = chunkedDecData

		case chunkedDecData:
			n, err := d.data.Decode(buf[offset:], eos)
			offset += n
			if err != nil {
				return offset, err
			}
			if !d.data.IsIdle() {
				return offset, nil
			}
			chunk, err := d.data.FinishDecoding()
			if err != nil {
				return offset, err
			}
			d.out = append(d.out, chunk...)
			d.data = nil
			d.stage = chunkedDecDataCRLF

		case chunkedDecDataCRLF:
			n, err := d.trailerCRLF.Decode(buf[offset:], eos)
			offset += n
			if err != nil {
				return offset, err
			}
			if !d.trailerCRLF.IsIdle() {
				return offset, nil
			}
			if _, err := d.trailerCRLF.FinishDecoding(); err != nil {
				return offset, err
			}
			d.stage = chunkedDecSize

		case chunkedDecFinalCRLF:
			n, err := d.finalCRLF.Decode(buf[offset:], eos)
			offset += n
			if err != nil {
				return offset, err
			}
			if !d.finalCRLF.IsIdle() {
				return offset, nil
			}
			if _, err := d.finalCRLF.FinishDecoding(); err != nil {
				return offset, err
			}
			d.done = true
			return offset, nil
		}
	}
	if eos.Reached() && !d.done {
		return offset, codec.New(codec.KindUnexpectedEos, "chunked body: eos mid-stream")
	}
	return offset, nil
}

func (d *chunkedBodyDecoder) FinishDecoding() ([]byte, error) {
	if !d.done {
		return nil, codec.New(codec.KindIncompleteDecoding, "chunked body decoder is not idle")
	}
	out := d.out
	d.out = nil
	d.done = false
	d.stage = chunkedDecSize
	return out, nil
}

func (d *chunkedBodyDecoder) IsIdle() bool { return d.done }

func (d *chunkedBodyDecoder) RequiringBytes() codec.ByteCount { return codec.UnknownCount }

// chunked body encoder phases.
const (
	chunkedEncData = iota
	chunkedEncTerminator
	chunkedEncDone
)

// ChunkedBodyEncoder frames a byte slice as chunked-transfer-coded wire
// bytes, splitting it across as many Encode calls as the caller's output
// buffer capacity demands; each call picks the chunk length from
// maxChunkData so a chunk's size line and data fit the buffer it's writing
// into, while the chunk's trailing CRLF may carry over to the next call
// (spec.md §4.7.3).
type ChunkedBodyEncoder struct {
	item    []byte
	offset  int
	phase   int
	pending []byte
}

// NewChunkedBodyEncoder makes an idle ChunkedBodyEncoder.
func NewChunkedBodyEncoder() *ChunkedBodyEncoder {
	return &ChunkedBodyEncoder{phase: chunkedEncDone}
}

// StartEncoding arms the encoder with the full body to frame.
func (e *ChunkedBodyEncoder) StartEncoding(item []byte) error {
	if !e.IsIdle() {
		return codec.ErrEncoderFull
	}
	e.item = item
	e.offset = 0
	e.phase = chunkedEncData
	e.pending = nil
	return nil
}

func (e *ChunkedBodyEncoder) IsIdle() bool {
	return e.phase == chunkedEncDone && len(e.pending) == 0
}

func (e *ChunkedBodyEncoder) Encode(buf []byte, _ codec.Eos) (int, error) {
	total := 0
	for len(buf) > 0 {
		if len(e.pending) > 0 {
			n := copy(buf, e.pending)
			e.pending = e.pending[n:]
			buf = buf[n:]
			total += n
			continue
		}
		switch e.phase {
		case chunkedEncDone:
			return total, nil

		case chunkedEncTerminator:
			e.pending = []byte("0\r\n\r\n")
			e.phase = chunkedEncDone

		case chunkedEncData:
			remaining := e.item[e.offset:]
			if len(remaining) == 0 {
				e.phase = chunkedEncTerminator
				continue
			}
			n := maxChunkData(len(buf))
			if n == 0 {
				return total, nil
			}
			if n > len(remaining) {
				n = len(remaining)
			}
			chunk := make([]byte, 0, len(fmt.Sprintf("%x", n))+2+n+2)
			chunk = fmt.Appendf(chunk, "%x\r\n", n)
			chunk = append(chunk, remaining[:n]...)
			chunk = append(chunk, '\r', '\n')
			e.offset += n
			e.pending = chunk
		}
	}
	return total, nil
}

func (e *ChunkedBodyEncoder) RequiringBytes() codec.ByteCount {
	if e.IsIdle() {
		return codec.Finite(0)
	}
	return codec.UnknownCount
}
