package codec

import (
	"errors"
	"testing"
)

func TestKindOfAndIs(t *testing.T) {
	err := New(KindInvalidInput, "bad byte")
	if KindOf(err) != KindInvalidInput {
		t.Fatalf("KindOf = %v, want KindInvalidInput", KindOf(err))
	}
	if !Is(err, KindInvalidInput) {
		t.Fatal("Is(err, KindInvalidInput) = false")
	}
	if Is(err, KindEncoderFull) {
		t.Fatal("Is(err, KindEncoderFull) = true, want false")
	}
}

func TestKindOfDefaultsToOtherForForeignErrors(t *testing.T) {
	if KindOf(errors.New("not ours")) != KindOther {
		t.Fatal("KindOf(foreign error) should default to KindOther")
	}
}

func TestNewfFormats(t *testing.T) {
	err := Newf(KindInvalidInput, "exceeded maximum of %d bytes", 64)
	if err.Error() == "" {
		t.Fatal("expected a non-empty message")
	}
	if KindOf(err) != KindInvalidInput {
		t.Fatalf("KindOf = %v, want KindInvalidInput", KindOf(err))
	}
}

func TestWrapPreservesCauseChain(t *testing.T) {
	cause := errors.New("underlying read failure")
	err := Wrap(KindUnexpectedEos, "read failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("Wrap should keep cause reachable via errors.Is")
	}
	if KindOf(err) != KindUnexpectedEos {
		t.Fatalf("KindOf = %v, want KindUnexpectedEos", KindOf(err))
	}
}

func TestWrapWithNilCauseActsLikeNew(t *testing.T) {
	err := Wrap(KindOther, "no cause here", nil)
	if KindOf(err) != KindOther {
		t.Fatalf("KindOf = %v, want KindOther", KindOf(err))
	}
}

func TestSentinelErrorsCarryTheirKind(t *testing.T) {
	if KindOf(ErrEncoderFull) != KindEncoderFull {
		t.Fatal("ErrEncoderFull should report KindEncoderFull")
	}
	if KindOf(ErrIncompleteDecoding) != KindIncompleteDecoding {
		t.Fatal("ErrIncompleteDecoding should report KindIncompleteDecoding")
	}
	if KindOf(ErrDecoderTerminated) != KindDecoderTerminated {
		t.Fatal("ErrDecoderTerminated should report KindDecoderTerminated")
	}
}
