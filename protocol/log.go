package protocol

import (
	"io"

	"github.com/ufo-org/ufo-ipc/wire"
)

// LogEntry is one line a subordinate forwards to the controller alongside a
// Result. The current wire format always writes a zero-length log vector;
// the type and its codec exist so a subordinate-side log source can be
// plumbed in later without a wire change.
type LogEntry struct {
	Kind wire.LogKind
	Line string
}

func encodeLogs(w io.Writer, logs []LogEntry) error {
	if err := wire.WriteUsize(w, uint(len(logs))); err != nil {
		return err
	}
	for _, l := range logs {
		if err := wire.WriteU8(w, uint8(l.Kind)); err != nil {
			return err
		}
		if err := wire.WriteString(w, l.Line); err != nil {
			return err
		}
	}
	return nil
}

func decodeLogs(r io.Reader) ([]LogEntry, error) {
	n, err := wire.ReadUsize(r)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	logs := make([]LogEntry, n)
	for i := range logs {
		kindByte, err := wire.ReadU8(r)
		if err != nil {
			return nil, err
		}
		kind, err := wire.DecodeLogKind(kindByte)
		if err != nil {
			return nil, err
		}
		line, err := wire.ReadString(r)
		if err != nil {
			return nil, err
		}
		logs[i] = LogEntry{Kind: kind, Line: line}
	}
	return logs, nil
}
