package netx

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/andycostintoma/httpcodec/internal/codec"
)

func TestNextReadsUntilDecoderIdle(t *testing.T) {
	p := NewPump(strings.NewReader("hello"))
	item, err := Next[[]byte](context.Background(), p, codec.NewFixedBytesDecoder(5))
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if string(item) != "hello" {
		t.Fatalf("item = %q, want hello", item)
	}
}

func TestNextPropagatesReadError(t *testing.T) {
	p := NewPump(&errReader{err: errBoom})
	_, err := Next[[]byte](context.Background(), p, codec.NewFixedBytesDecoder(5))
	if err != errBoom {
		t.Fatalf("err = %v, want %v", err, errBoom)
	}
}

func TestNextUnexpectedEos(t *testing.T) {
	p := NewPump(strings.NewReader("ab"))
	_, err := Next[[]byte](context.Background(), p, codec.NewFixedBytesDecoder(5))
	if codec.KindOf(err) != codec.KindUnexpectedEos {
		t.Fatalf("err = %v, want KindUnexpectedEos", err)
	}
}

func TestNextRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPump(strings.NewReader("hello"))
	_, err := Next[[]byte](ctx, p, codec.NewFixedBytesDecoder(5))
	if err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestDrainWritesAllEncodedBytes(t *testing.T) {
	enc := codec.NewBytesEncoder()
	var buf bytes.Buffer
	if err := Drain[[]byte](&buf, enc, []byte("hello world")); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if buf.String() != "hello world" {
		t.Fatalf("wrote %q, want %q", buf.String(), "hello world")
	}
}

func TestPumpReset(t *testing.T) {
	p := NewPump(strings.NewReader("first"))
	item, err := Next[[]byte](context.Background(), p, codec.NewFixedBytesDecoder(5))
	if err != nil || string(item) != "first" {
		t.Fatalf("first Next: %q, %v", item, err)
	}
	p.Reset(strings.NewReader("second"))
	item, err = Next[[]byte](context.Background(), p, codec.NewFixedBytesDecoder(6))
	if err != nil || string(item) != "second" {
		t.Fatalf("second Next: %q, %v", item, err)
	}
}

var errBoom = &boomError{}

type boomError struct{}

func (*boomError) Error() string { return "boom" }

type errReader struct{ err error }

func (r *errReader) Read([]byte) (int, error) { return 0, r.err }
