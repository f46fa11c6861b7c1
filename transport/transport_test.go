package transport

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopCloser struct{ io.ReadWriter }

func (nopCloser) Close() error { return nil }

func TestEndpointReadWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf, &buf)
	n, err := e.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	got := make([]byte, 5)
	_, err = io.ReadFull(e, got)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestEndpointReadByte(t *testing.T) {
	e := New(bytes.NewReader([]byte{0xAB, 0xCD}), io.Discard)
	b, err := e.ReadByte()
	require.NoError(t, err)
	assert.EqualValues(t, 0xAB, b)
}

func TestEndpointCloseClosesUnderlying(t *testing.T) {
	closed := false
	rw := struct {
		io.Reader
		io.Writer
	}{bytes.NewReader(nil), io.Discard}
	c := closerFunc(func() error { closed = true; return nil })
	e := New(rw.Reader, rw.Writer)
	e.closers = append(e.closers, c)
	require.NoError(t, e.Close())
	assert.True(t, closed)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
