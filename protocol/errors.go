package protocol

import (
	"fmt"

	"github.com/ufo-org/ufo-ipc/value"
	"github.com/ufo-org/ufo-ipc/wire"
)

// RemoteError reports that the subordinate answered a request with an
// Erroneous envelope. It is non-fatal to the session: the controller may
// issue further requests after receiving one.
type RemoteError struct {
	Type wire.RemoteErrorType
	Aux  []value.Value
}

func (e RemoteError) Error() string {
	return fmt.Sprintf("protocol: remote error %v (aux: %d value(s))", e.Type, len(e.Aux))
}

// ShutdownError wraps whatever failed during shutdown: the Goodbye write,
// and/or reaping the child. When both the write and the wait fail, this type
// carries both so a caller inspecting it can tell which failed.
type ShutdownError struct {
	WriteErr error
	WaitErr  error
}

func (e ShutdownError) Error() string {
	switch {
	case e.WriteErr != nil && e.WaitErr != nil:
		return fmt.Sprintf("protocol: shutdown: goodbye write failed (%v) and wait failed (%v)", e.WriteErr, e.WaitErr)
	case e.WriteErr != nil:
		return fmt.Sprintf("protocol: shutdown: goodbye write failed: %v", e.WriteErr)
	default:
		return fmt.Sprintf("protocol: shutdown: wait failed: %v", e.WaitErr)
	}
}

func (e ShutdownError) Unwrap() error {
	if e.WriteErr != nil {
		return e.WriteErr
	}
	return e.WaitErr
}
