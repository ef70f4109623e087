package httpcodec

import (
	"testing"

	"github.com/andycostintoma/httpcodec/internal/codec"
)

func TestNewStatusCodeRange(t *testing.T) {
	if _, err := NewStatusCode(200); err != nil {
		t.Fatalf("200 should be valid: %v", err)
	}
	if _, err := NewStatusCode(99); err == nil {
		t.Fatal("99 is below the valid range")
	}
	if _, err := NewStatusCode(1000); err == nil {
		t.Fatal("1000 is at/above the valid range")
	}
}

func TestStatusCodeDecoder(t *testing.T) {
	d := newStatusCodeDecoder()
	n, err := d.Decode([]byte("404 "), codec.NotReached)
	if err != nil || n != 4 {
		t.Fatalf("Decode: %d, %v", n, err)
	}
	if !d.IsIdle() {
		t.Fatal("expected idle after digits+space")
	}
	got, err := d.FinishDecoding()
	if err != nil || got != 404 {
		t.Fatalf("FinishDecoding = %v, %v, want 404", got, err)
	}
}

func TestStatusCodeDecoderRequiresTrailingSpace(t *testing.T) {
	d := newStatusCodeDecoder()
	if _, err := d.Decode([]byte("200X"), codec.NotReached); codec.KindOf(err) != codec.KindInvalidInput {
		t.Fatalf("err = %v, want KindInvalidInput", err)
	}
}

func TestReasonPhraseAllowsEmpty(t *testing.T) {
	r, err := NewReasonPhrase("")
	if err != nil || r.String() != "" {
		t.Fatalf("empty reason phrase should be valid: %q, %v", r, err)
	}
}

func TestReasonPhraseRejectsCR(t *testing.T) {
	if _, err := NewReasonPhrase("bad\rphrase"); err == nil {
		t.Fatal("expected error for CR in reason phrase")
	}
}

func TestReasonPhraseDecoderReadsUntilCRLF(t *testing.T) {
	d := &reasonPhraseDecoder{}
	n, err := d.Decode([]byte("Not Found\r\n"), codec.NotReached)
	if err != nil || n != 11 {
		t.Fatalf("Decode: %d, %v", n, err)
	}
	length, err := d.FinishDecoding()
	if err != nil || length != len("Not Found") {
		t.Fatalf("FinishDecoding = %d, %v, want %d", length, err, len("Not Found"))
	}
}
