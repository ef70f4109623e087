package codec

import "testing"

func TestMaxBytesAllowsUpToCap(t *testing.T) {
	m := NewMaxBytes[[]byte](NewFixedBytesDecoder(4), 4)
	n, err := m.Decode([]byte("abcd"), NotReached)
	if err != nil || n != 4 {
		t.Fatalf("Decode: %d, %v", n, err)
	}
	if !m.IsIdle() {
		t.Fatal("expected idle at exactly the cap")
	}
}

func TestMaxBytesRejectsOverCap(t *testing.T) {
	m := NewMaxBytes[[]byte](NewFixedBytesDecoder(10), 4)
	_, err := m.Decode([]byte("abcde"), NotReached)
	if KindOf(err) != KindInvalidInput {
		t.Fatalf("err = %v, want KindInvalidInput", err)
	}
}

func TestMaxBytesResetsOnFinish(t *testing.T) {
	m := NewMaxBytes[[]byte](NewFixedBytesDecoder(2), 2)
	if _, err := m.Decode([]byte("ab"), NotReached); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, err := m.FinishDecoding(); err != nil {
		t.Fatalf("FinishDecoding: %v", err)
	}
	// Cap should apply fresh to the next item, not carry over consumed bytes.
	if _, err := m.Decode([]byte("cd"), NotReached); err != nil {
		t.Fatalf("Decode after reset: %v", err)
	}
}
