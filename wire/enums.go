package wire

import "fmt"

// ProtocolConstant identifies the opcode byte that opens every message on
// the wire. Byte assignments are pinned and must not change: Result,
// Erroneous, and Goodbye deliberately sit on non-sequential high-magic
// bytes.
type ProtocolConstant uint8

const (
	Hello          ProtocolConstant = 0x00
	DefineFunction ProtocolConstant = 0x01
	DefineData     ProtocolConstant = 0x02
	Call           ProtocolConstant = 0x03
	FreeFunction   ProtocolConstant = 0x04
	FreeData       ProtocolConstant = 0x05
	Peek           ProtocolConstant = 0x06
	Poke           ProtocolConstant = 0x07
	Log            ProtocolConstant = 0x08
	Result         ProtocolConstant = 0xc5
	Erroneous      ProtocolConstant = 0x5c
	Goodbye        ProtocolConstant = 0xff
)

func (c ProtocolConstant) String() string {
	switch c {
	case Hello:
		return "Hello"
	case DefineFunction:
		return "DefineFunction"
	case DefineData:
		return "DefineData"
	case Call:
		return "Call"
	case FreeFunction:
		return "FreeFunction"
	case FreeData:
		return "FreeData"
	case Peek:
		return "Peek"
	case Poke:
		return "Poke"
	case Log:
		return "Log"
	case Result:
		return "Result"
	case Erroneous:
		return "Erroneous"
	case Goodbye:
		return "Goodbye"
	}
	return fmt.Sprintf("ProtocolConstant(0x%02x)", uint8(c))
}

// DecodeProtocolConstant is the total function u8 -> ProtocolConstant |
// UnknownProtocolConstant.
func DecodeProtocolConstant(b uint8) (ProtocolConstant, error) {
	switch ProtocolConstant(b) {
	case Hello, DefineFunction, DefineData, Call, FreeFunction, FreeData,
		Peek, Poke, Log, Result, Erroneous, Goodbye:
		return ProtocolConstant(b), nil
	}
	return 0, UnknownProtocolConstantError{Got: b}
}

// ValueKind is the one-byte type tag prefixing every Value on the wire.
// Tags are sequential from 0 in declared order.
type ValueKind uint8

const (
	KindU8 ValueKind = iota
	KindI8
	KindU16
	KindI16
	KindU32
	KindI32
	KindU64
	KindI64
	KindF32
	KindF64
	KindUsize
	KindIsize
	KindBool
	KindString
	KindBytes
	KindToken
	KindMarker
)

func (k ValueKind) String() string {
	switch k {
	case KindU8:
		return "Su8"
	case KindI8:
		return "Si8"
	case KindU16:
		return "Su16"
	case KindI16:
		return "Si16"
	case KindU32:
		return "Su32"
	case KindI32:
		return "Si32"
	case KindU64:
		return "Su64"
	case KindI64:
		return "Si64"
	case KindF32:
		return "Sf32"
	case KindF64:
		return "Sf64"
	case KindUsize:
		return "Susize"
	case KindIsize:
		return "Sisize"
	case KindBool:
		return "Sbool"
	case KindString:
		return "Sstring"
	case KindBytes:
		return "Sbytes"
	case KindToken:
		return "Token"
	case KindMarker:
		return "Marker"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// DecodeValueKind is the total function u8 -> ValueKind | UnknownGenericType:
// a reader that encounters an unknown tag byte fails with
// UnknownGenericTypeError rather than guessing.
func DecodeValueKind(b uint8) (ValueKind, error) {
	if b <= uint8(KindMarker) {
		return ValueKind(b), nil
	}
	return 0, UnknownGenericTypeError{Got: b}
}

// RemoteErrorType classifies an Erroneous response, sequential from 0 in
// declared order.
type RemoteErrorType uint8

const (
	UserspaceException RemoteErrorType = iota
	ProtocolErrorKind
	GenericTypeError
)

func (t RemoteErrorType) String() string {
	switch t {
	case UserspaceException:
		return "UserspaceException"
	case ProtocolErrorKind:
		return "ProtocolError"
	case GenericTypeError:
		return "GenericTypeError"
	}
	return fmt.Sprintf("RemoteErrorType(%d)", uint8(t))
}

func DecodeRemoteErrorType(b uint8) (RemoteErrorType, error) {
	switch RemoteErrorType(b) {
	case UserspaceException, ProtocolErrorKind, GenericTypeError:
		return RemoteErrorType(b), nil
	}
	return 0, UnknownErrorTypeError{Got: b}
}

// LogKind distinguishes the two log streams a subordinate may forward,
// sequential from 0.
type LogKind uint8

const (
	Stdout LogKind = iota
	Stderr
)

func (k LogKind) String() string {
	switch k {
	case Stdout:
		return "Stdout"
	case Stderr:
		return "Stderr"
	}
	return fmt.Sprintf("LogKind(%d)", uint8(k))
}

func DecodeLogKind(b uint8) (LogKind, error) {
	switch LogKind(b) {
	case Stdout, Stderr:
		return LogKind(b), nil
	}
	return 0, UnknownLogKindError{Got: b}
}
