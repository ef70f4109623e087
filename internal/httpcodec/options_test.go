package httpcodec

import (
	"testing"

	"github.com/andycostintoma/httpcodec/internal/codec"
)

func TestNewOptionsDefaults(t *testing.T) {
	o := NewOptions()
	if o.MaxStartLineSize != defaultMaxBytes || o.MaxHeaderSize != defaultMaxBytes {
		t.Fatalf("defaults = %+v, want both capped at %d", o, defaultMaxBytes)
	}
	if o.TraceIDs {
		t.Fatal("TraceIDs should default to off")
	}
}

func TestWithMaxStartLineSizeAndHeaderSize(t *testing.T) {
	o := NewOptions(WithMaxStartLineSize(10), WithMaxHeaderSize(20))
	if o.MaxStartLineSize != 10 || o.MaxHeaderSize != 20 {
		t.Fatalf("o = %+v, want 10/20", o)
	}
}

func TestWithTraceIDsStampsMessages(t *testing.T) {
	req := decodeRequest(t, "GET / HTTP/1.1\r\n\r\n")
	if _, ok := req.TraceID(); ok {
		t.Fatal("TraceID should be unset when WithTraceIDs is off")
	}

	d := NewRequestDecoder(NewOptions(WithTraceIDs(true)))
	raw := "GET / HTTP/1.1\r\n\r\n"
	if _, err := d.Decode([]byte(raw), codec.Reached); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := d.FinishDecoding()
	if err != nil {
		t.Fatalf("FinishDecoding: %v", err)
	}
	id, ok := got.TraceID()
	if !ok {
		t.Fatal("expected a trace ID when WithTraceIDs is on")
	}
	if id.String() == "" {
		t.Fatal("expected a non-empty trace ID")
	}
}
