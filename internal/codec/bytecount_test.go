package codec

import "testing"

func TestByteCountAddForDecoding(t *testing.T) {
	if got := Finite(3).AddForDecoding(Finite(4)); got != Finite(7) {
		t.Errorf("Finite(3)+Finite(4) = %v, want Finite(7)", got)
	}
	if got := Finite(3).AddForDecoding(InfiniteCount); !got.IsInfinite() {
		t.Errorf("Finite+Infinite = %v, want Infinite", got)
	}
	if got := InfiniteCount.AddForDecoding(UnknownCount); !got.IsInfinite() {
		t.Errorf("Infinite+Unknown = %v, want Infinite (infinite dominates)", got)
	}
	if got := Finite(3).AddForDecoding(UnknownCount); !got.IsUnknown() {
		t.Errorf("Finite+Unknown = %v, want Unknown", got)
	}
}

func TestByteCountAddForEncoding(t *testing.T) {
	if got := Finite(3).AddForEncoding(Finite(4)); got != Finite(7) {
		t.Errorf("Finite(3)+Finite(4) (encoding) = %v, want Finite(7)", got)
	}
	if got := Finite(3).AddForEncoding(UnknownCount); !got.IsUnknown() {
		t.Errorf("Finite+Unknown (encoding) = %v, want Unknown", got)
	}
}

func TestByteCountIsFinite(t *testing.T) {
	n, ok := Finite(5).IsFinite()
	if !ok || n != 5 {
		t.Errorf("IsFinite() = %d, %v, want 5, true", n, ok)
	}
	if _, ok := InfiniteCount.IsFinite(); ok {
		t.Errorf("InfiniteCount.IsFinite() = true, want false")
	}
	if _, ok := UnknownCount.IsFinite(); ok {
		t.Errorf("UnknownCount.IsFinite() = true, want false")
	}
}
