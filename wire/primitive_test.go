package wire

import (
	"bytes"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteU8(&buf, 0xAB))
	require.NoError(t, WriteI8(&buf, -5))
	require.NoError(t, WriteU16(&buf, 0xBEEF))
	require.NoError(t, WriteI16(&buf, -1234))
	require.NoError(t, WriteU32(&buf, 0xDEADBEEF))
	require.NoError(t, WriteI32(&buf, -123456))
	require.NoError(t, WriteU64(&buf, 0x0123456789ABCDEF))
	require.NoError(t, WriteI64(&buf, -9223372036854775808))
	require.NoError(t, WriteF32(&buf, 3.14))
	require.NoError(t, WriteF64(&buf, 2.71828))
	require.NoError(t, WriteBool(&buf, true))
	require.NoError(t, WriteBool(&buf, false))
	require.NoError(t, WriteUsize(&buf, 42))
	require.NoError(t, WriteIsize(&buf, -42))
	require.NoError(t, WriteString(&buf, "hello, ufo"))
	require.NoError(t, WriteBytes(&buf, []byte{1, 2, 3, 4}))

	u8, err := ReadU8(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 0xAB, u8)

	i8, err := ReadI8(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, -5, i8)

	u16, err := ReadU16(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 0xBEEF, u16)

	i16, err := ReadI16(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, -1234, i16)

	u32, err := ReadU32(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 0xDEADBEEF, u32)

	i32, err := ReadI32(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, -123456, i32)

	u64, err := ReadU64(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 0x0123456789ABCDEF, u64)

	i64, err := ReadI64(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, -9223372036854775808, i64)

	f32, err := ReadF32(&buf)
	require.NoError(t, err)
	assert.InDelta(t, 3.14, f32, 0.0001)

	f64, err := ReadF64(&buf)
	require.NoError(t, err)
	assert.InDelta(t, 2.71828, f64, 0.00001)

	b1, err := ReadBool(&buf)
	require.NoError(t, err)
	assert.True(t, b1)

	b2, err := ReadBool(&buf)
	require.NoError(t, err)
	assert.False(t, b2)

	us, err := ReadUsize(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, 42, us)

	is, err := ReadIsize(&buf)
	require.NoError(t, err)
	assert.EqualValues(t, -42, is)

	s, err := ReadString(&buf)
	require.NoError(t, err)
	assert.Equal(t, "hello, ufo", s)

	bs, err := ReadBytes(&buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, bs)

	assert.Zero(t, buf.Len())
}

func TestFloatNaNBitRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	nan32 := math.Float32frombits(0x7fc00001)
	require.NoError(t, WriteF32(&buf, nan32))
	got32, err := ReadF32(&buf)
	require.NoError(t, err)
	assert.Equal(t, math.Float32bits(nan32), math.Float32bits(got32))

	nan64 := math.Float64frombits(0x7ff8000000000001)
	require.NoError(t, WriteF64(&buf, nan64))
	got64, err := ReadF64(&buf)
	require.NoError(t, err)
	assert.Equal(t, math.Float64bits(nan64), math.Float64bits(got64))
}

func TestReadStringInvalidUTF8(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBytes(&buf, []byte{0xff, 0xfe, 0xfd}))
	_, err := ReadString(&buf)
	assert.Error(t, err)
}

func TestEmptyBytesAndString(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBytes(&buf, nil))
	got, err := ReadBytes(&buf)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, WriteString(&buf, ""))
	s, err := ReadString(&buf)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestShortReadIsUnexpectedEOF(t *testing.T) {
	buf := bytes.NewReader([]byte{1, 2})
	_, err := ReadU32(buf)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestDecodeProtocolConstant(t *testing.T) {
	c, err := DecodeProtocolConstant(0xc5)
	require.NoError(t, err)
	assert.Equal(t, Result, c)

	_, err = DecodeProtocolConstant(0x42)
	require.Error(t, err)
	var unk UnknownProtocolConstantError
	assert.ErrorAs(t, err, &unk)
	assert.EqualValues(t, 0x42, unk.Got)
}

func TestDecodeValueKind(t *testing.T) {
	k, err := DecodeValueKind(uint8(KindMarker))
	require.NoError(t, err)
	assert.Equal(t, KindMarker, k)

	_, err = DecodeValueKind(200)
	require.Error(t, err)
	var unk UnknownGenericTypeError
	assert.ErrorAs(t, err, &unk)
}

func TestProtocolConstantByteAssignments(t *testing.T) {
	// These exact byte values are pinned and must never change.
	assert.EqualValues(t, 0x00, Hello)
	assert.EqualValues(t, 0x01, DefineFunction)
	assert.EqualValues(t, 0x02, DefineData)
	assert.EqualValues(t, 0x03, Call)
	assert.EqualValues(t, 0x04, FreeFunction)
	assert.EqualValues(t, 0x05, FreeData)
	assert.EqualValues(t, 0x06, Peek)
	assert.EqualValues(t, 0x07, Poke)
	assert.EqualValues(t, 0x08, Log)
	assert.EqualValues(t, 0xc5, Result)
	assert.EqualValues(t, 0x5c, Erroneous)
	assert.EqualValues(t, 0xff, Goodbye)
}
