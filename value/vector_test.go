package value

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorRoundTripEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeVector(&buf, nil))
	got, err := DecodeVector(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestVectorRoundTripSingle(t *testing.T) {
	var buf bytes.Buffer
	values := []Value{NewU32(7)}
	require.NoError(t, EncodeVector(&buf, values))
	got, err := DecodeVector(&buf)
	require.NoError(t, err)
	require.Len(t, got, 1)
	n, err := got[0].ExpectU32()
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}

func TestVectorRoundTripMixed(t *testing.T) {
	var buf bytes.Buffer
	values := []Value{
		NewString("a"),
		NewBool(true),
		NewU64(1234),
		NewBytes([]byte{1, 2, 3}),
		NewToken(DataToken(5)),
	}
	require.NoError(t, EncodeVector(&buf, values))
	got, err := DecodeVector(&buf)
	require.NoError(t, err)
	require.Len(t, got, len(values))
	for i, v := range values {
		assert.Equal(t, v.Kind(), got[i].Kind())
	}
	assert.Zero(t, buf.Len())
}

func TestVectorTruncatedFailsMidDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeVector(&buf, []Value{NewU32(1), NewU32(2)}))
	truncated := buf.Bytes()[:len(buf.Bytes())-2]
	_, err := DecodeVector(bytes.NewReader(truncated))
	assert.Error(t, err)
}
