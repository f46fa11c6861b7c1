// Package wire implements the fixed-width, native-endian primitive codec
// that every other layer of ufo-ipc is built on: signed/unsigned integers,
// IEEE-754 floats, machine-word sized integers, booleans, and length-prefixed
// byte/UTF-8 strings. It also owns the one-byte enum tags shared by the
// protocol and value layers (protocol constants, value type tags, remote
// error kinds, log kinds) and their decode errors.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"unicode/utf8"
)

// wordSize is the width, in bytes, of the host machine word. usize/isize
// values are encoded at this width, matching the Rust reference
// implementation's use of the host's native usize/isize.
const wordSize = strconv.IntSize / 8

// ReadExact fills buf entirely from r, or returns an error. A short read due
// to EOF mid-message is surfaced as io.ErrUnexpectedEOF: short reads are a
// protocol error only if EOF occurs mid-message.
func ReadExact(r io.Reader, buf []byte) error {
	_, err := io.ReadFull(r, buf)
	return err
}

// WriteAll writes buf entirely to w.
func WriteAll(w io.Writer, buf []byte) error {
	_, err := w.Write(buf)
	return err
}

func ReadU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if err := ReadExact(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func WriteU8(w io.Writer, v uint8) error {
	return WriteAll(w, []byte{v})
}

func ReadI8(r io.Reader) (int8, error) {
	v, err := ReadU8(r)
	return int8(v), err
}

func WriteI8(w io.Writer, v int8) error {
	return WriteU8(w, uint8(v))
}

func ReadBool(r io.Reader) (bool, error) {
	v, err := ReadU8(r)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func WriteBool(w io.Writer, v bool) error {
	if v {
		return WriteU8(w, 1)
	}
	return WriteU8(w, 0)
}

func ReadU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if err := ReadExact(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint16(buf[:]), nil
}

func WriteU16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.NativeEndian.PutUint16(buf[:], v)
	return WriteAll(w, buf[:])
}

func ReadI16(r io.Reader) (int16, error) {
	v, err := ReadU16(r)
	return int16(v), err
}

func WriteI16(w io.Writer, v int16) error {
	return WriteU16(w, uint16(v))
}

func ReadU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if err := ReadExact(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint32(buf[:]), nil
}

func WriteU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.NativeEndian.PutUint32(buf[:], v)
	return WriteAll(w, buf[:])
}

func ReadI32(r io.Reader) (int32, error) {
	v, err := ReadU32(r)
	return int32(v), err
}

func WriteI32(w io.Writer, v int32) error {
	return WriteU32(w, uint32(v))
}

func ReadF32(r io.Reader) (float32, error) {
	v, err := ReadU32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func WriteF32(w io.Writer, v float32) error {
	return WriteU32(w, math.Float32bits(v))
}

func ReadU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if err := ReadExact(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.NativeEndian.Uint64(buf[:]), nil
}

func WriteU64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], v)
	return WriteAll(w, buf[:])
}

func ReadI64(r io.Reader) (int64, error) {
	v, err := ReadU64(r)
	return int64(v), err
}

func WriteI64(w io.Writer, v int64) error {
	return WriteU64(w, uint64(v))
}

func ReadF64(r io.Reader) (float64, error) {
	v, err := ReadU64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func WriteF64(w io.Writer, v float64) error {
	return WriteU64(w, math.Float64bits(v))
}

// ReadUsize and WriteUsize encode a machine-word sized unsigned integer,
// sized to the host's word width (strconv.IntSize).
func ReadUsize(r io.Reader) (uint, error) {
	if wordSize == 8 {
		v, err := ReadU64(r)
		return uint(v), err
	}
	v, err := ReadU32(r)
	return uint(v), err
}

func WriteUsize(w io.Writer, v uint) error {
	if wordSize == 8 {
		return WriteU64(w, uint64(v))
	}
	return WriteU32(w, uint32(v))
}

func ReadIsize(r io.Reader) (int, error) {
	if wordSize == 8 {
		v, err := ReadI64(r)
		return int(v), err
	}
	v, err := ReadI32(r)
	return int(v), err
}

func WriteIsize(w io.Writer, v int) error {
	if wordSize == 8 {
		return WriteI64(w, int64(v))
	}
	return WriteI32(w, int32(v))
}

// ReadBytes reads a usize length prefix followed by that many raw bytes.
// Callers must treat the counterparty as trusted: no maximum-length sanity
// check is performed.
func ReadBytes(r io.Reader) ([]byte, error) {
	n, err := ReadUsize(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	if err := ReadExact(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func WriteBytes(w io.Writer, v []byte) error {
	if err := WriteUsize(w, uint(len(v))); err != nil {
		return err
	}
	return WriteAll(w, v)
}

// ReadString reads a byte-string and validates it as UTF-8, failing with a
// framing error (not silent replacement) on invalid bytes.
func ReadString(r io.Reader) (string, error) {
	raw, err := ReadBytes(r)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("wire: invalid UTF-8 in string field")
	}
	return string(raw), nil
}

func WriteString(w io.Writer, v string) error {
	return WriteBytes(w, []byte(v))
}
