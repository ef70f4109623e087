package codec

// Slice bounds an inner decoder to a caller-armed number of remaining
// bytes, so the inner decoder never observes bytes past a sub-region of
// the stream (e.g. a single chunk's payload within a chunked body). The
// chunked body decoder re-arms it via SetRemaining for every chunk.
type Slice[T any] struct {
	inner     Decoder[T]
	remaining uint64
}

// NewSlice wraps inner in a Slice adapter with zero remaining bytes armed.
func NewSlice[T any](inner Decoder[T]) *Slice[T] {
	return &Slice[T]{inner: inner}
}

// SetRemaining arms the slice with n consumable bytes.
func (s *Slice[T]) SetRemaining(n uint64) { s.remaining = n }

// Remaining reports how many bytes the slice still permits the inner
// decoder to consume.
func (s *Slice[T]) Remaining() uint64 { return s.remaining }

// InnerMut exposes the wrapped decoder.
func (s *Slice[T]) InnerMut() Decoder[T] { return s.inner }

func (s *Slice[T]) Decode(buf []byte, eos Eos) (int, error) {
	limited := buf
	truncated := false
	if uint64(len(limited)) > s.remaining {
		limited = limited[:s.remaining]
		truncated = true
	}
	// If this call's buffer extends past the slice boundary, bytes belonging
	// to the next region of the stream follow in this same call, so the
	// inner decoder must not be told eos even when the outer caller is at
	// the true end of stream.
	innerEos := eos
	if truncated {
		innerEos = NotReached
	}
	n, err := s.inner.Decode(limited, innerEos)
	s.remaining -= uint64(n)
	return n, err
}

func (s *Slice[T]) FinishDecoding() (T, error) { return s.inner.FinishDecoding() }

func (s *Slice[T]) IsIdle() bool { return s.inner.IsIdle() }

func (s *Slice[T]) RequiringBytes() ByteCount {
	rb := s.inner.RequiringBytes()
	if n, ok := rb.IsFinite(); ok {
		if n > s.remaining {
			return Finite(s.remaining)
		}
		return Finite(n)
	}
	return Finite(s.remaining)
}
