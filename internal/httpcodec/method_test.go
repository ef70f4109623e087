package httpcodec

import "testing"

func TestNewMethodAcceptsStandardTokens(t *testing.T) {
	for _, s := range []string{"GET", "POST", "PURGE", "M-SEARCH"} {
		m, err := NewMethod(s)
		if err != nil {
			t.Errorf("NewMethod(%q): %v", s, err)
		}
		if m.String() != s {
			t.Errorf("String() = %q, want %q", m.String(), s)
		}
	}
}

func TestNewMethodRejectsEmpty(t *testing.T) {
	if _, err := NewMethod(""); err == nil {
		t.Fatal("expected error for empty method")
	}
}

func TestNewMethodRejectsNonTChar(t *testing.T) {
	if _, err := NewMethod("GE T"); err == nil {
		t.Fatal("expected error for method containing a space")
	}
}
