package httpcodec

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andycostintoma/httpcodec/internal/codec"
)

func decodeRequest(t *testing.T, raw string) Request {
	t.Helper()
	d := NewRequestDecoder(NewOptions())
	n, err := d.Decode([]byte(raw), codec.Reached)
	require.NoError(t, err)
	require.Equal(t, len(raw), n)
	require.True(t, d.IsIdle())
	req, err := d.FinishDecoding()
	require.NoError(t, err)
	return req
}

// TestRequestDecodeFixedLength mirrors spec.md §8 scenario 1.
func TestRequestDecodeFixedLength(t *testing.T) {
	req := decodeRequest(t, "GET /foo HTTP/1.1\r\nContent-Length: 6\r\n\r\nbarbaz")
	require.Equal(t, Method("GET"), req.Method)
	require.Equal(t, RequestTarget("/foo"), req.Target)
	require.Equal(t, V11, req.Version)
	require.Equal(t, []byte("barbaz"), req.Body)
	fields := req.Header.Fields()
	require.Len(t, fields, 1)
	require.Equal(t, "Content-Length", fields[0].Name)
	require.Equal(t, "6", fields[0].Value)
}

func TestRequestEncodeFixedLength(t *testing.T) {
	e := NewRequestEncoder(NewOptions())
	req := Request{
		Method:  "GET",
		Target:  "/foo",
		Version: V11,
		Header:  NewHeaderView(nil, nil),
		Body:    []byte("barbaz"),
	}
	require.NoError(t, e.StartEncoding(req))

	var wire []byte
	buf := make([]byte, 8)
	for !e.IsIdle() {
		n, err := e.Encode(buf, codec.NotReached)
		require.NoError(t, err)
		if n == 0 {
			break
		}
		wire = append(wire, buf[:n]...)
	}
	require.Equal(t, "GET /foo HTTP/1.1\r\nContent-Length: 6\r\n\r\nbarbaz", string(wire))
}

func TestRequestDecodeBoundarySplitting(t *testing.T) {
	raw := "POST /submit HTTP/1.1\r\nHost: example.com\r\nContent-Length: 3\r\n\r\nabc"
	d := NewRequestDecoder(NewOptions())
	for i := 0; i < len(raw); i++ {
		eos := codec.NotReached
		if i == len(raw)-1 {
			eos = codec.Reached
		}
		n, err := d.Decode([]byte{raw[i]}, eos)
		require.NoErrorf(t, err, "byte %d", i)
		require.Equal(t, 1, n)
	}
	require.True(t, d.IsIdle())
	req, err := d.FinishDecoding()
	require.NoError(t, err)
	require.Equal(t, Method("POST"), req.Method)
	require.Equal(t, []byte("abc"), req.Body)
}

func TestRequestRoundTrip(t *testing.T) {
	orig := Request{
		Method:  "PUT",
		Target:  "/things/42",
		Version: V11,
		Header:  NewHeaderView(nil, nil),
		Body:    []byte(`{"ok":true}`),
	}

	enc := NewRequestEncoder(NewOptions())
	require.NoError(t, enc.StartEncoding(orig))
	var wire []byte
	buf := make([]byte, 16)
	for !enc.IsIdle() {
		n, err := enc.Encode(buf, codec.NotReached)
		require.NoError(t, err)
		if n == 0 {
			break
		}
		wire = append(wire, buf[:n]...)
	}

	got := decodeRequest(t, string(wire))
	require.Equal(t, orig.Method, got.Method)
	require.Equal(t, orig.Target, got.Target)
	require.Equal(t, orig.Version, got.Version)
	require.Equal(t, orig.Body, got.Body)
}

func TestRequestNoBodyNoFraming(t *testing.T) {
	req := decodeRequest(t, "GET / HTTP/1.1\r\nHost: example.com\r\n\r\n")
	require.Empty(t, req.Body)
}

func TestWriteThenReadRequest(t *testing.T) {
	orig := Request{
		Method:  "POST",
		Target:  "/items",
		Version: V11,
		Header:  NewHeaderView(nil, nil),
		Body:    []byte(`{"n":1}`),
	}
	var wire bytes.Buffer
	require.NoError(t, WriteRequest(&wire, orig, NewOptions()))

	got, err := ReadRequest(context.Background(), strings.NewReader(wire.String()), NewOptions())
	require.NoError(t, err)
	require.Equal(t, orig.Method, got.Method)
	require.Equal(t, orig.Target, got.Target)
	require.Equal(t, orig.Version, got.Version)
	require.Equal(t, orig.Body, got.Body)
}

func TestRequestString(t *testing.T) {
	var raw []byte
	var positions []FieldPosition
	hm := newHeaderMut(&raw, &positions)
	require.NoError(t, hm.AddField("Host", "example.com"))
	r := Request{
		Method:  "GET",
		Target:  "/foo",
		Version: V11,
		Header:  NewHeaderView(raw, positions),
		Body:    nil,
	}
	want := "GET /foo HTTP/1.1\r\nHost: example.com\r\n\r\n"
	if got := r.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
