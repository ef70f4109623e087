package codec

import "github.com/andycostintoma/httpcodec/internal/obs"

// MaxBytes caps the total number of bytes an inner decoder may consume
// across its lifetime (i.e. up to one FinishDecoding/reset cycle), failing
// with KindInvalidInput the instant the cap is exceeded. It implements the
// per-part size-limit enforcement spec.md requires for the start-line and
// header regions.
type MaxBytes[T any] struct {
	inner    Decoder[T]
	max      uint64
	consumed uint64
}

// NewMaxBytes wraps inner with a hard cap of max bytes.
func NewMaxBytes[T any](inner Decoder[T], max uint64) *MaxBytes[T] {
	return &MaxBytes[T]{inner: inner, max: max}
}

// InnerMut exposes the wrapped decoder, mirroring Buffered.InnerMut, for
// call sites that must reach through two layers of adapter (the message
// orchestrator configures headerDecoder through MaxBytes and Peekable both).
func (m *MaxBytes[T]) InnerMut() Decoder[T] { return m.inner }

func (m *MaxBytes[T]) Decode(buf []byte, eos Eos) (int, error) {
	n, err := m.inner.Decode(buf, eos)
	m.consumed += uint64(n)
	if err != nil {
		return n, err
	}
	if m.consumed > m.max {
		obs.L().Warnw("decoder exceeded its configured byte limit", obs.FieldBytes, m.consumed)
		return n, Newf(KindInvalidInput, "exceeded maximum of %d bytes", m.max)
	}
	return n, nil
}

func (m *MaxBytes[T]) FinishDecoding() (T, error) {
	item, err := m.inner.FinishDecoding()
	m.consumed = 0
	return item, err
}

func (m *MaxBytes[T]) IsIdle() bool { return m.inner.IsIdle() }

func (m *MaxBytes[T]) RequiringBytes() ByteCount { return m.inner.RequiringBytes() }
