package httpcodec

import (
	"testing"

	"github.com/andycostintoma/httpcodec/internal/codec"
)

func TestHTTPVersionString(t *testing.T) {
	if V10.String() != "HTTP/1.0" {
		t.Errorf("V10.String() = %q", V10.String())
	}
	if V11.String() != "HTTP/1.1" {
		t.Errorf("V11.String() = %q", V11.String())
	}
}

func TestVersionDecoderAcceptsBothSupportedLiterals(t *testing.T) {
	for lit, want := range map[string]HTTPVersion{"HTTP/1.0": V10, "HTTP/1.1": V11} {
		d := newVersionDecoder()
		n, err := d.Decode([]byte(lit), codec.NotReached)
		if err != nil || n != 8 {
			t.Fatalf("Decode(%q): %d, %v", lit, n, err)
		}
		got, err := d.FinishDecoding()
		if err != nil || got != want {
			t.Fatalf("FinishDecoding(%q) = %v, %v, want %v", lit, got, err, want)
		}
	}
}

func TestVersionDecoderRejectsUnknownLiteral(t *testing.T) {
	d := newVersionDecoder()
	if _, err := d.Decode([]byte("HTTP/2.0"), codec.NotReached); err != nil {
		t.Fatalf("Decode should accept any 8 bytes before validating: %v", err)
	}
	if _, err := d.FinishDecoding(); codec.KindOf(err) != codec.KindInvalidInput {
		t.Fatalf("FinishDecoding() = %v, want KindInvalidInput", err)
	}
}
