package netx

import (
	"context"
	"io"

	"github.com/andycostintoma/httpcodec/internal/codec"
)

// DefaultReadSize is the chunk size Pump reads from its source per Read
// call, matching CRLFFastReader's DefaultBufSize.
const DefaultReadSize = 4096

// Pump drives an incremental codec.Decoder[T] from an io.Reader, replacing
// CRLFFastReader's line-oriented ReadLine/Peek with the byte-slice codec's
// restartable Decode/FinishDecoding contract: there are no logical lines to
// buffer up front, so the pump reads fixed-size chunks into one scratch
// buffer and feeds each to the decoder until an item is ready.
type Pump struct {
	r       io.Reader
	buf     []byte
	readLen int
}

// NewPump wraps r with a scratch buffer of DefaultReadSize.
func NewPump(r io.Reader) *Pump {
	return &Pump{r: r, buf: make([]byte, DefaultReadSize), readLen: DefaultReadSize}
}

// Reset allows reusing the pump with a new underlying source.
func (p *Pump) Reset(src io.Reader) { p.r = src }

// Next drives dec with bytes read from the pump's source until dec reports
// an item is ready (IsIdle), ctx is cancelled, or a read error occurs. On
// success it returns the decoded item. Every read must be consumed in full:
// if dec stops short of the end of a read (for example because the read
// also holds the start of the next message), Next fails with a KindOther
// error, and those leftover bytes are not carried over to a later call.
func Next[T any](ctx context.Context, p *Pump, dec codec.Decoder[T]) (T, error) {
	var zero T
	for {
		if dec.IsIdle() {
			return dec.FinishDecoding()
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		n, rerr := p.r.Read(p.buf[:p.readLen])
		eos := codec.NotReached
		if rerr == io.EOF {
			eos = codec.Reached
		} else if rerr != nil {
			return zero, rerr
		}

		consumed, derr := dec.Decode(p.buf[:n], eos)
		if derr != nil {
			return zero, derr
		}
		if consumed < n {
			return zero, codec.New(codec.KindOther, "pump: decoder did not consume full read; streaming re-feed not supported")
		}
		if dec.IsIdle() {
			return dec.FinishDecoding()
		}
		if eos.Reached() {
			return zero, codec.New(codec.KindUnexpectedEos, "pump: source exhausted before decoder finished")
		}
	}
}

// Drain writes every byte an incremental codec.Encoder[T] produces for item
// to w, encoding into a fixed scratch buffer of DefaultReadSize bytes and
// writing each filled prefix in turn.
func Drain[T any](w io.Writer, enc codec.Encoder[T], item T) error {
	if err := enc.StartEncoding(item); err != nil {
		return err
	}
	scratch := make([]byte, DefaultReadSize)
	for !enc.IsIdle() {
		n, err := enc.Encode(scratch, codec.NotReached)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		if _, werr := w.Write(scratch[:n]); werr != nil {
			return werr
		}
	}
	return nil
}
