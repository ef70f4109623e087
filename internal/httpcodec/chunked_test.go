package httpcodec

import (
	"testing"

	"github.com/andycostintoma/httpcodec/internal/codec"
)

func decodeChunkedBody(t *testing.T, raw string) []byte {
	t.Helper()
	d := newChunkedBodyDecoder()
	n, err := d.Decode([]byte(raw), codec.NotReached)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if n != len(raw) {
		t.Fatalf("consumed %d of %d bytes", n, len(raw))
	}
	if !d.IsIdle() {
		t.Fatalf("decoder not idle after full input")
	}
	body, err := d.FinishDecoding()
	if err != nil {
		t.Fatalf("FinishDecoding: %v", err)
	}
	return body
}

func TestChunkedBodyDecodeZeroPaddedSizes(t *testing.T) {
	body := decodeChunkedBody(t, "1\r\na\r\n03\r\nfoo\r\n00000\r\n\r\n")
	if string(body) != "afoo" {
		t.Fatalf("got %q, want %q", body, "afoo")
	}
}

func TestChunkedBodyDecodeMultiChunk(t *testing.T) {
	body := decodeChunkedBody(t, "1\r\na\r\n1\r\nb\r\n1\r\nc\r\n0\r\n\r\n")
	if string(body) != "abc" {
		t.Fatalf("got %q, want %q", body, "abc")
	}
}

func TestChunkedBodyDecodeRejectsExtensions(t *testing.T) {
	d := newChunkedBodyDecoder()
	_, err := d.Decode([]byte("1;ext=value\r\na\r\n0\r\n\r\n"), codec.NotReached)
	if codec.KindOf(err) != codec.KindInvalidInput {
		t.Fatalf("got %v, want KindInvalidInput", err)
	}
}

func TestChunkedBodyDecodeByteAtATime(t *testing.T) {
	raw := "1\r\na\r\n1\r\nb\r\n1\r\nc\r\n0\r\n\r\n"
	d := newChunkedBodyDecoder()
	for i := 0; i < len(raw); i++ {
		eos := codec.NotReached
		if i == len(raw)-1 {
			eos = codec.Reached
		}
		n, err := d.Decode([]byte{raw[i]}, eos)
		if err != nil {
			t.Fatalf("byte %d: %v", i, err)
		}
		if n != 1 {
			t.Fatalf("byte %d: consumed %d, want 1", i, n)
		}
	}
	body, err := d.FinishDecoding()
	if err != nil {
		t.Fatalf("FinishDecoding: %v", err)
	}
	if string(body) != "abc" {
		t.Fatalf("got %q, want %q", body, "abc")
	}
}

// TestMaxChunkData matches spec.md §8's chunk-encoder-widths scenario: the
// hex width chosen for a given output buffer capacity, including the points
// right at a bracket boundary where the chosen width steps up a digit.
func TestMaxChunkData(t *testing.T) {
	cases := []struct {
		cap  int
		want int
	}{
		{1, 0},
		{3, 0},
		{4, 1},
		{0xF + 2, 0xE},  // 17 -> 0xE ("e"), one short of the bracket-1 max
		{0xF + 3, 0xF},  // 18 -> 0xF ("f"), bracket-1's max width
		{0xF + 5, 0x10}, // 20 -> 0x10 ("10"), bracket-2 overtakes bracket-1
	}
	for _, c := range cases {
		got := maxChunkData(c.cap)
		if got != c.want {
			t.Errorf("maxChunkData(%d) = %d, want %d", c.cap, got, c.want)
		}
	}

	// The size-line plus at least one data byte must always fit; the
	// trailing CRLF may legitimately spill into the next Encode call.
	for cap := 0; cap < 64; cap++ {
		n := maxChunkData(cap)
		if n == 0 {
			continue
		}
		sizeLine := len(fmtHexPrefix(n)) + 2
		if sizeLine+1 > cap {
			t.Errorf("maxChunkData(%d) = %d, size-line+1 byte doesn't fit", cap, n)
		}
	}
}

func fmtHexPrefix(n int) string {
	const hex = "0123456789abcdef"
	if n == 0 {
		return "0"
	}
	var out []byte
	for n > 0 {
		out = append([]byte{hex[n%16]}, out...)
		n /= 16
	}
	return string(out)
}

func TestChunkedBodyEncodeRoundTrip(t *testing.T) {
	e := NewChunkedBodyEncoder()
	if err := e.StartEncoding([]byte("hello world")); err != nil {
		t.Fatalf("StartEncoding: %v", err)
	}
	var wire []byte
	buf := make([]byte, 4)
	for !e.IsIdle() {
		n, err := e.Encode(buf, codec.NotReached)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		wire = append(wire, buf[:n]...)
		if n == 0 {
			t.Fatalf("Encode made no progress with room in buf")
		}
	}
	body := decodeChunkedBody(t, string(wire))
	if string(body) != "hello world" {
		t.Fatalf("round trip got %q", body)
	}
}
