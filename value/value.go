// Package value implements the generic value codec: the tagged-union Value
// type used everywhere "auxiliary data" or a user payload crosses the wire,
// and the homogeneous-sequence ("value_vec") framing built on top of it.
package value

import (
	"io"
	"math"

	"github.com/ufo-org/ufo-ipc/wire"
)

// DataToken is the opaque 64-bit identifier of a subordinate-registered
// data blob. It is one of the Value variants; FunctionToken is
// not, since function tokens never cross the wire as a bare value.
type DataToken uint64

// Value is the tagged union carried by every Value slot on the wire: one
// type tag byte followed by a type-specific payload. The send path takes
// borrowed Go values (plain scalars, string/[]byte) and writes them without
// an intermediate buffer, though a string payload is converted to a []byte
// (a copy) at the write; the receive
// path always materializes owned values, since byte slices and strings read
// off a pipe cannot alias caller-owned memory.
type Value struct {
	kind   wire.ValueKind
	number uint64 // bit-pattern storage for all scalar kinds (ints, floats, bool, marker, token)
	text   string
	raw    []byte
}

func (v Value) Kind() wire.ValueKind { return v.kind }

// Constructors. One per ValueKind.

func NewU8(v uint8) Value   { return Value{kind: wire.KindU8, number: uint64(v)} }
func NewI8(v int8) Value    { return Value{kind: wire.KindI8, number: uint64(uint8(v))} }
func NewU16(v uint16) Value { return Value{kind: wire.KindU16, number: uint64(v)} }
func NewI16(v int16) Value  { return Value{kind: wire.KindI16, number: uint64(uint16(v))} }
func NewU32(v uint32) Value { return Value{kind: wire.KindU32, number: uint64(v)} }
func NewI32(v int32) Value  { return Value{kind: wire.KindI32, number: uint64(uint32(v))} }
func NewU64(v uint64) Value { return Value{kind: wire.KindU64, number: v} }
func NewI64(v int64) Value  { return Value{kind: wire.KindI64, number: uint64(v)} }

func NewF32(v float32) Value { return Value{kind: wire.KindF32, number: uint64(math.Float32bits(v))} }
func NewF64(v float64) Value { return Value{kind: wire.KindF64, number: math.Float64bits(v)} }

func NewUsize(v uint) Value { return Value{kind: wire.KindUsize, number: uint64(v)} }
func NewIsize(v int) Value  { return Value{kind: wire.KindIsize, number: uint64(int64(v))} }

func NewBool(v bool) Value {
	var n uint64
	if v {
		n = 1
	}
	return Value{kind: wire.KindBool, number: n}
}

func NewString(v string) Value { return Value{kind: wire.KindString, text: v} }
func NewBytes(v []byte) Value  { return Value{kind: wire.KindBytes, raw: v} }
func NewToken(v DataToken) Value {
	return Value{kind: wire.KindToken, number: uint64(v)}
}
func NewMarker(v uint8) Value { return Value{kind: wire.KindMarker, number: uint64(v)} }

// Accessors. Each fails with wire.UnexpectedGenericTypeError when the
// value's actual kind does not match.

func (v Value) ExpectU8() (uint8, error) {
	if err := v.check(wire.KindU8); err != nil {
		return 0, err
	}
	return uint8(v.number), nil
}

func (v Value) ExpectI8() (int8, error) {
	if err := v.check(wire.KindI8); err != nil {
		return 0, err
	}
	return int8(uint8(v.number)), nil
}

func (v Value) ExpectU16() (uint16, error) {
	if err := v.check(wire.KindU16); err != nil {
		return 0, err
	}
	return uint16(v.number), nil
}

func (v Value) ExpectI16() (int16, error) {
	if err := v.check(wire.KindI16); err != nil {
		return 0, err
	}
	return int16(uint16(v.number)), nil
}

func (v Value) ExpectU32() (uint32, error) {
	if err := v.check(wire.KindU32); err != nil {
		return 0, err
	}
	return uint32(v.number), nil
}

func (v Value) ExpectI32() (int32, error) {
	if err := v.check(wire.KindI32); err != nil {
		return 0, err
	}
	return int32(uint32(v.number)), nil
}

func (v Value) ExpectU64() (uint64, error) {
	if err := v.check(wire.KindU64); err != nil {
		return 0, err
	}
	return v.number, nil
}

func (v Value) ExpectI64() (int64, error) {
	if err := v.check(wire.KindI64); err != nil {
		return 0, err
	}
	return int64(v.number), nil
}

func (v Value) ExpectF32() (float32, error) {
	if err := v.check(wire.KindF32); err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v.number)), nil
}

func (v Value) ExpectF64() (float64, error) {
	if err := v.check(wire.KindF64); err != nil {
		return 0, err
	}
	return math.Float64frombits(v.number), nil
}

func (v Value) ExpectUsize() (uint, error) {
	if err := v.check(wire.KindUsize); err != nil {
		return 0, err
	}
	return uint(v.number), nil
}

func (v Value) ExpectIsize() (int, error) {
	if err := v.check(wire.KindIsize); err != nil {
		return 0, err
	}
	return int(int64(v.number)), nil
}

func (v Value) ExpectBool() (bool, error) {
	if err := v.check(wire.KindBool); err != nil {
		return false, err
	}
	return v.number != 0, nil
}

func (v Value) ExpectString() (string, error) {
	if err := v.check(wire.KindString); err != nil {
		return "", err
	}
	return v.text, nil
}

func (v Value) ExpectBytes() ([]byte, error) {
	if err := v.check(wire.KindBytes); err != nil {
		return nil, err
	}
	return v.raw, nil
}

func (v Value) ExpectToken() (DataToken, error) {
	if err := v.check(wire.KindToken); err != nil {
		return 0, err
	}
	return DataToken(v.number), nil
}

func (v Value) ExpectMarker() (uint8, error) {
	if err := v.check(wire.KindMarker); err != nil {
		return 0, err
	}
	return uint8(v.number), nil
}

func (v Value) check(want wire.ValueKind) error {
	if v.kind != want {
		return wire.UnexpectedGenericTypeError{Expected: want, Actual: v.kind}
	}
	return nil
}

// Encode writes the value's type tag followed by its payload.
func Encode(w io.Writer, v Value) error {
	if err := wire.WriteU8(w, uint8(v.kind)); err != nil {
		return err
	}
	switch v.kind {
	case wire.KindU8:
		return wire.WriteU8(w, uint8(v.number))
	case wire.KindI8:
		return wire.WriteI8(w, int8(uint8(v.number)))
	case wire.KindU16:
		return wire.WriteU16(w, uint16(v.number))
	case wire.KindI16:
		return wire.WriteI16(w, int16(uint16(v.number)))
	case wire.KindU32:
		return wire.WriteU32(w, uint32(v.number))
	case wire.KindI32:
		return wire.WriteI32(w, int32(uint32(v.number)))
	case wire.KindU64:
		return wire.WriteU64(w, v.number)
	case wire.KindI64:
		return wire.WriteI64(w, int64(v.number))
	case wire.KindF32:
		return wire.WriteU32(w, uint32(v.number))
	case wire.KindF64:
		return wire.WriteU64(w, v.number)
	case wire.KindUsize:
		return wire.WriteUsize(w, uint(v.number))
	case wire.KindIsize:
		return wire.WriteIsize(w, int(int64(v.number)))
	case wire.KindBool:
		return wire.WriteBool(w, v.number != 0)
	case wire.KindString:
		return wire.WriteString(w, v.text)
	case wire.KindBytes:
		return wire.WriteBytes(w, v.raw)
	case wire.KindToken:
		return wire.WriteU64(w, v.number)
	case wire.KindMarker:
		return wire.WriteU8(w, uint8(v.number))
	}
	return wire.UnknownGenericTypeError{Got: uint8(v.kind)}
}

// Decode reads a type tag and its payload, materializing an owned Value.
func Decode(r io.Reader) (Value, error) {
	tagByte, err := wire.ReadU8(r)
	if err != nil {
		return Value{}, err
	}
	kind, err := wire.DecodeValueKind(tagByte)
	if err != nil {
		return Value{}, err
	}
	switch kind {
	case wire.KindU8:
		n, err := wire.ReadU8(r)
		return Value{kind: kind, number: uint64(n)}, err
	case wire.KindI8:
		n, err := wire.ReadI8(r)
		return Value{kind: kind, number: uint64(uint8(n))}, err
	case wire.KindU16:
		n, err := wire.ReadU16(r)
		return Value{kind: kind, number: uint64(n)}, err
	case wire.KindI16:
		n, err := wire.ReadI16(r)
		return Value{kind: kind, number: uint64(uint16(n))}, err
	case wire.KindU32:
		n, err := wire.ReadU32(r)
		return Value{kind: kind, number: uint64(n)}, err
	case wire.KindI32:
		n, err := wire.ReadI32(r)
		return Value{kind: kind, number: uint64(uint32(n))}, err
	case wire.KindU64:
		n, err := wire.ReadU64(r)
		return Value{kind: kind, number: n}, err
	case wire.KindI64:
		n, err := wire.ReadI64(r)
		return Value{kind: kind, number: uint64(n)}, err
	case wire.KindF32:
		n, err := wire.ReadU32(r)
		return Value{kind: kind, number: uint64(n)}, err
	case wire.KindF64:
		n, err := wire.ReadU64(r)
		return Value{kind: kind, number: n}, err
	case wire.KindUsize:
		n, err := wire.ReadUsize(r)
		return Value{kind: kind, number: uint64(n)}, err
	case wire.KindIsize:
		n, err := wire.ReadIsize(r)
		return Value{kind: kind, number: uint64(int64(n))}, err
	case wire.KindBool:
		n, err := wire.ReadBool(r)
		var b uint64
		if n {
			b = 1
		}
		return Value{kind: kind, number: b}, err
	case wire.KindString:
		s, err := wire.ReadString(r)
		return Value{kind: kind, text: s}, err
	case wire.KindBytes:
		b, err := wire.ReadBytes(r)
		return Value{kind: kind, raw: b}, err
	case wire.KindToken:
		n, err := wire.ReadU64(r)
		return Value{kind: kind, number: n}, err
	case wire.KindMarker:
		n, err := wire.ReadU8(r)
		return Value{kind: kind, number: uint64(n)}, err
	}
	return Value{}, wire.UnknownGenericTypeError{Got: uint8(kind)}
}
