// Package codec provides the generic incremental-codec contract that the
// rest of this module's HTTP/1.x parsers and serializers are built on: a
// decoder consumes a prefix of a byte slice and reports how many bytes it
// took, an encoder fills a prefix of a caller-supplied buffer, and both can
// suspend at any byte boundary and resume on the next call.
package codec

// Eos ("end of stream") tells a Decode/Encode call whether any further bytes
// will ever arrive after the ones passed in this call.
type Eos bool

// Reached reports whether the stream has ended.
func (e Eos) Reached() bool { return bool(e) }

// NotReached is the common case: more bytes may still follow.
const NotReached Eos = false

// Reached signals the stream has no further bytes.
const Reached Eos = true

// Decoder is a restartable, incremental decoder for a single syntactic
// element. Decode(Decode) never consumes more bytes than belong to its item
// and may consume zero bytes. FinishDecoding is only valid once IsIdle
// reports true; it returns the completed item and resets the decoder so it
// can be reused for the next element.
type Decoder[T any] interface {
	// Decode consumes a prefix of buf, returning how many bytes were taken.
	// If eos.Reached() is true and the item is still incomplete, Decode (or
	// the subsequent FinishDecoding) must fail with a kind-UnexpectedEos
	// error.
	Decode(buf []byte, eos Eos) (int, error)

	// FinishDecoding returns the completed item, failing with
	// kind-IncompleteDecoding if the decoder is not idle.
	FinishDecoding() (T, error)

	// IsIdle reports whether a finished item is ready to be taken, or the
	// decoder has just been constructed/reset and has consumed nothing.
	IsIdle() bool

	// RequiringBytes is a lower-bound hint on the bytes needed to progress.
	RequiringBytes() ByteCount
}

// Encoder is the write-side counterpart of Decoder: it fills a prefix of a
// caller-supplied buffer from a previously loaded item, suspending between
// calls when the buffer runs out before the item is fully emitted.
type Encoder[T any] interface {
	// StartEncoding loads item for encoding, failing with kind-EncoderFull
	// if the encoder is not idle.
	StartEncoding(item T) error

	// Encode fills a prefix of buf, returning how many bytes were written.
	Encode(buf []byte, eos Eos) (int, error)

	// IsIdle reports whether the encoder has no item loaded and is safe to
	// StartEncoding or discard.
	IsIdle() bool

	// RequiringBytes is a lower-bound hint on the bytes still to be written.
	RequiringBytes() ByteCount
}

// ExactByteser is implemented by encoders that know precisely how many bytes
// remain to be written, not merely a lower bound.
type ExactByteser interface {
	ExactRequiringBytes() uint64
}
