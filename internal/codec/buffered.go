package codec

// Buffered wraps an inner decoder and caches its finished item instead of
// requiring the caller to take it immediately: once the inner decoder goes
// idle, Buffered drives FinishDecoding on it internally and holds the
// result, so a caller can Peek at the completed item (to make a decision
// that affects a sibling decoder, e.g. the message orchestrator peeking at
// the finished header field positions to initialize the body decoder)
// before committing to take it.
type Buffered[T any] struct {
	inner Decoder[T]
	item  *T
}

// NewBuffered wraps inner in a Buffered adapter.
func NewBuffered[T any](inner Decoder[T]) *Buffered[T] {
	return &Buffered[T]{inner: inner}
}

// HasItem reports whether a finished item is cached and ready.
func (b *Buffered[T]) HasItem() bool { return b.item != nil }

// Peek returns the cached item without consuming it.
func (b *Buffered[T]) Peek() (T, bool) {
	if b.item == nil {
		var zero T
		return zero, false
	}
	return *b.item, true
}

// TakeItem returns and clears the cached item.
func (b *Buffered[T]) TakeItem() (T, bool) {
	if b.item == nil {
		var zero T
		return zero, false
	}
	item := *b.item
	b.item = nil
	return item, true
}

// InnerMut exposes the wrapped decoder for configuration that must happen
// before any bytes are fed to it (e.g. headerDecoder.SetStartPosition).
func (b *Buffered[T]) InnerMut() Decoder[T] { return b.inner }

func (b *Buffered[T]) Decode(buf []byte, eos Eos) (int, error) {
	if b.item != nil {
		return 0, nil
	}
	n, err := b.inner.Decode(buf, eos)
	if err != nil {
		return n, err
	}
	if b.inner.IsIdle() {
		item, err := b.inner.FinishDecoding()
		if err != nil {
			return n, err
		}
		b.item = &item
	}
	return n, nil
}

func (b *Buffered[T]) FinishDecoding() (T, error) {
	item, ok := b.TakeItem()
	if !ok {
		var zero T
		return zero, New(KindIncompleteDecoding, "buffered decoder has no cached item")
	}
	return item, nil
}

func (b *Buffered[T]) IsIdle() bool { return b.item != nil }

func (b *Buffered[T]) RequiringBytes() ByteCount {
	if b.item != nil {
		return Finite(0)
	}
	return b.inner.RequiringBytes()
}

// Peekable is Buffered under the name the message orchestrator uses for its
// header-block lookahead stage; the mechanics are identical, only the
// vocabulary differs by call site (mirrors the source's separate
// Buffered/Peekable combinators, which behaved the same way).
type Peekable[T any] = Buffered[T]

// NewPeekable is an alias of NewBuffered for call sites that want the
// "peekable" vocabulary.
func NewPeekable[T any](inner Decoder[T]) *Peekable[T] { return NewBuffered(inner) }
