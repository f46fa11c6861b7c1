package value

import (
	"io"

	"github.com/ufo-org/ufo-ipc/wire"
)

// EncodeVector writes a usize length prefix followed by each value in
// order, the "value_vec" framing used for Call arguments, Result payloads,
// and Peek/Poke buffers.
func EncodeVector(w io.Writer, values []Value) error {
	if err := wire.WriteUsize(w, uint(len(values))); err != nil {
		return err
	}
	for _, v := range values {
		if err := Encode(w, v); err != nil {
			return err
		}
	}
	return nil
}

// DecodeVector reads a usize length prefix followed by that many Values.
func DecodeVector(r io.Reader) ([]Value, error) {
	n, err := wire.ReadUsize(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return []Value{}, nil
	}
	values := make([]Value, n)
	for i := range values {
		v, err := Decode(r)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
