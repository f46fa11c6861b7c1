package wire

import "fmt"

// UnknownProtocolConstantError is returned when a byte read off the wire
// does not decode to any ProtocolConstant. The session is no longer usable
// once this occurs.
type UnknownProtocolConstantError struct {
	Got uint8
}

func (e UnknownProtocolConstantError) Error() string {
	return fmt.Sprintf("wire: unknown protocol constant 0x%02x", e.Got)
}

// UnknownErrorTypeError is returned when a byte read as a RemoteErrorType
// does not decode to a known variant.
type UnknownErrorTypeError struct {
	Got uint8
}

func (e UnknownErrorTypeError) Error() string {
	return fmt.Sprintf("wire: unknown remote error type %d", e.Got)
}

// UnknownLogKindError is returned when a byte read as a LogKind does not
// decode to a known variant.
type UnknownLogKindError struct {
	Got uint8
}

func (e UnknownLogKindError) Error() string {
	return fmt.Sprintf("wire: unknown log kind %d", e.Got)
}

// UnknownGenericTypeError is returned when a Value's type tag byte does not
// decode to any ValueKind. The session is no longer usable once this
// occurs.
type UnknownGenericTypeError struct {
	Got uint8
}

func (e UnknownGenericTypeError) Error() string {
	return fmt.Sprintf("wire: unknown generic type %d", e.Got)
}

// UnexpectedProtocolConstantError is returned when a valid protocol constant
// arrives where a different one was required.
type UnexpectedProtocolConstantError struct {
	Got, Expected ProtocolConstant
}

func (e UnexpectedProtocolConstantError) Error() string {
	return fmt.Sprintf("wire: unexpected protocol constant: expected %v, got %v", e.Expected, e.Got)
}

// InappropriateProtocolConstantError is returned when a valid protocol
// constant arrives in a context where it is not a legal request opener on
// the subordinate side.
type InappropriateProtocolConstantError struct {
	Got ProtocolConstant
}

func (e InappropriateProtocolConstantError) Error() string {
	return fmt.Sprintf("wire: inappropriate protocol constant %v", e.Got)
}

// UnexpectedGenericTypeError is returned by a Value accessor when the
// caller's expected type does not match the value's actual type. It is a
// local, recoverable error: it does not corrupt the byte stream.
type UnexpectedGenericTypeError struct {
	Expected, Actual ValueKind
}

func (e UnexpectedGenericTypeError) Error() string {
	return fmt.Sprintf("wire: unexpected generic type: expected %v, got %v", e.Expected, e.Actual)
}
