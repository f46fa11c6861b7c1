package protocol

import (
	"io"
	"sync"

	"github.com/op/go-logging"
	uuid "github.com/satori/go.uuid"

	"github.com/ufo-org/ufo-ipc/internal/ipclog"
	"github.com/ufo-org/ufo-ipc/value"
	"github.com/ufo-org/ufo-ipc/wire"
)

// Waiter is satisfied by *os.Process / *exec.Cmd: anything ControllerProcess
// can block on to reap the subordinate at shutdown.
type Waiter interface {
	Wait() error
}

// ControllerProcess drives the parent side of a session. It owns the token
// counter, the pipe endpoint, and the subordinate's Waiter.
type ControllerProcess struct {
	endpoint  io.ReadWriter
	flusher   interface{ Flush() error }
	child     Waiter
	tokens    tokenCounter
	SessionID uuid.UUID
	log       *logging.Logger

	mu    sync.Mutex
	state ControllerState
}

// NewControllerProcess wraps an already-connected endpoint and child handle.
// The caller performs bootstrap (pipe creation, fd-env publishing, spawn)
// separately; this constructor only holds the resulting handles. Every
// ControllerProcess is tagged with a fresh session UUID (never sent on the
// wire) so its log lines can be correlated against the subordinate's own
// inherited stdout/stderr stream.
func NewControllerProcess(endpoint io.ReadWriter, child Waiter) *ControllerProcess {
	cp := &ControllerProcess{
		endpoint:  endpoint,
		child:     child,
		state:     ControllerUnstarted,
		SessionID: uuid.NewV4(),
		log:       ipclog.New("ufo-ipc.controller"),
	}
	if f, ok := endpoint.(interface{ Flush() error }); ok {
		cp.flusher = f
	}
	return cp
}

// DebugRecentTokens returns the controller's bounded diagnostic view of
// recently minted tokens. See tokenCounter.DebugRecentTokens.
func (cp *ControllerProcess) DebugRecentTokens() map[uint64]string {
	return cp.tokens.DebugRecentTokens()
}

func (cp *ControllerProcess) flush() error {
	if cp.flusher == nil {
		return nil
	}
	return cp.flusher.Flush()
}

// State reports the controller's current lifecycle state.
func (cp *ControllerProcess) State() ControllerState {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	return cp.state
}

// Hello performs the controller's half of the handshake: write Hello, flush,
// read and require Hello back. The controller initiates.
func (cp *ControllerProcess) Hello() (err error) {
	cp.mu.Lock()
	cp.state = ControllerAwaitingHello
	cp.mu.Unlock()

	if err = wire.WriteU8(cp.endpoint, uint8(wire.Hello)); err != nil {
		return
	}
	if err = cp.flush(); err != nil {
		return
	}
	var gotByte uint8
	if gotByte, err = wire.ReadU8(cp.endpoint); err != nil {
		return
	}
	var got wire.ProtocolConstant
	if got, err = wire.DecodeProtocolConstant(gotByte); err != nil {
		return
	}
	if got != wire.Hello {
		err = wire.UnexpectedProtocolConstantError{Got: got, Expected: wire.Hello}
		return
	}

	cp.mu.Lock()
	cp.state = ControllerReady
	cp.mu.Unlock()
	cp.log.Debugf("session %s ready", cp.SessionID)
	return nil
}

func (cp *ControllerProcess) beginRequest() (err error) {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if cp.state != ControllerReady {
		return StateError{Op: "request", Got: cp.state, Want: ControllerReady.String()}
	}
	cp.state = ControllerInFlight
	return nil
}

func (cp *ControllerProcess) endRequest() {
	cp.mu.Lock()
	cp.state = ControllerReady
	cp.mu.Unlock()
}

// readResponse implements the response-parsing algorithm common to every
// operation: flush, read a protocol constant, then dispatch to
// Result or Erroneous. A nil *Response with a non-nil error of type
// RemoteError means the peer reported a userspace/protocol error; any other
// error is a framing failure. The controller does not record a framing
// failure: when the request returns, its state is back to ControllerReady and
// further requests are accepted.
func (cp *ControllerProcess) readResponse() (*Response, error) {
	if err := cp.flush(); err != nil {
		return nil, err
	}
	tagByte, err := wire.ReadU8(cp.endpoint)
	if err != nil {
		return nil, err
	}
	constant, err := wire.DecodeProtocolConstant(tagByte)
	if err != nil {
		return nil, err
	}
	switch constant {
	case wire.Result:
		logs, err := decodeLogs(cp.endpoint)
		if err != nil {
			return nil, err
		}
		aux, err := value.DecodeVector(cp.endpoint)
		if err != nil {
			return nil, err
		}
		val, err := value.DecodeVector(cp.endpoint)
		if err != nil {
			return nil, err
		}
		return &Response{Logs: logs, ResponseAux: aux, Value: val}, nil
	case wire.Erroneous:
		typeByte, err := wire.ReadU8(cp.endpoint)
		if err != nil {
			return nil, err
		}
		errType, err := wire.DecodeRemoteErrorType(typeByte)
		if err != nil {
			return nil, err
		}
		aux, err := value.DecodeVector(cp.endpoint)
		if err != nil {
			return nil, err
		}
		return nil, RemoteError{Type: errType, Aux: aux}
	default:
		return nil, wire.UnexpectedProtocolConstantError{Got: constant, Expected: wire.Result}
	}
}

// DefineFunction registers a function blob in the subordinate and returns
// the freshly minted token naming it.
func (cp *ControllerProcess) DefineFunction(blob []byte, associatedData, aux []value.Value) (tok FunctionToken, resp *Response, err error) {
	if err = cp.beginRequest(); err != nil {
		return
	}
	defer cp.endRequest()

	tok = cp.tokens.mintFunction()
	if err = wire.WriteU8(cp.endpoint, uint8(wire.DefineFunction)); err != nil {
		return
	}
	if err = wire.WriteU64(cp.endpoint, uint64(tok)); err != nil {
		return
	}
	if err = wire.WriteBytes(cp.endpoint, blob); err != nil {
		return
	}
	if err = value.EncodeVector(cp.endpoint, associatedData); err != nil {
		return
	}
	if err = value.EncodeVector(cp.endpoint, aux); err != nil {
		return
	}
	resp, err = cp.readResponse()
	return
}

// DefineData registers a data blob in the subordinate and returns the
// freshly minted token naming it.
func (cp *ControllerProcess) DefineData(val, aux []value.Value) (tok value.DataToken, resp *Response, err error) {
	if err = cp.beginRequest(); err != nil {
		return
	}
	defer cp.endRequest()

	tok = cp.tokens.mintData()
	if err = wire.WriteU8(cp.endpoint, uint8(wire.DefineData)); err != nil {
		return
	}
	if err = wire.WriteU64(cp.endpoint, uint64(tok)); err != nil {
		return
	}
	if err = value.EncodeVector(cp.endpoint, val); err != nil {
		return
	}
	if err = value.EncodeVector(cp.endpoint, aux); err != nil {
		return
	}
	resp, err = cp.readResponse()
	return
}

// CallFunction invokes a previously defined function by token.
func (cp *ControllerProcess) CallFunction(tok FunctionToken, args, aux []value.Value) (resp *Response, err error) {
	if err = cp.beginRequest(); err != nil {
		return
	}
	defer cp.endRequest()

	if err = wire.WriteU8(cp.endpoint, uint8(wire.Call)); err != nil {
		return
	}
	if err = wire.WriteU64(cp.endpoint, uint64(tok)); err != nil {
		return
	}
	if err = value.EncodeVector(cp.endpoint, args); err != nil {
		return
	}
	if err = value.EncodeVector(cp.endpoint, aux); err != nil {
		return
	}
	resp, err = cp.readResponse()
	return
}

// FreeFunction releases a function binding. The token ceases to be valid but
// the token counter does not decrement.
func (cp *ControllerProcess) FreeFunction(tok FunctionToken, aux []value.Value) (resp *Response, err error) {
	if err = cp.beginRequest(); err != nil {
		return
	}
	defer cp.endRequest()

	if err = wire.WriteU8(cp.endpoint, uint8(wire.FreeFunction)); err != nil {
		return
	}
	if err = wire.WriteU64(cp.endpoint, uint64(tok)); err != nil {
		return
	}
	if err = value.EncodeVector(cp.endpoint, aux); err != nil {
		return
	}
	resp, err = cp.readResponse()
	return
}

// FreeData releases a data binding.
func (cp *ControllerProcess) FreeData(tok value.DataToken, aux []value.Value) (resp *Response, err error) {
	if err = cp.beginRequest(); err != nil {
		return
	}
	defer cp.endRequest()

	if err = wire.WriteU8(cp.endpoint, uint8(wire.FreeData)); err != nil {
		return
	}
	if err = wire.WriteU64(cp.endpoint, uint64(tok)); err != nil {
		return
	}
	if err = value.EncodeVector(cp.endpoint, aux); err != nil {
		return
	}
	resp, err = cp.readResponse()
	return
}

// Peek reads subordinate-side key/value state.
func (cp *ControllerProcess) Peek(key string, aux []value.Value) (resp *Response, err error) {
	if err = cp.beginRequest(); err != nil {
		return
	}
	defer cp.endRequest()

	if err = wire.WriteU8(cp.endpoint, uint8(wire.Peek)); err != nil {
		return
	}
	if err = wire.WriteString(cp.endpoint, key); err != nil {
		return
	}
	if err = value.EncodeVector(cp.endpoint, aux); err != nil {
		return
	}
	resp, err = cp.readResponse()
	return
}

// Poke writes subordinate-side key/value state.
func (cp *ControllerProcess) Poke(key string, val, aux []value.Value) (resp *Response, err error) {
	if err = cp.beginRequest(); err != nil {
		return
	}
	defer cp.endRequest()

	if err = wire.WriteU8(cp.endpoint, uint8(wire.Poke)); err != nil {
		return
	}
	if err = wire.WriteString(cp.endpoint, key); err != nil {
		return
	}
	if err = value.EncodeVector(cp.endpoint, val); err != nil {
		return
	}
	if err = value.EncodeVector(cp.endpoint, aux); err != nil {
		return
	}
	resp, err = cp.readResponse()
	return
}

// Shutdown writes Goodbye and blocks until the subordinate exits. If the
// write fails the controller still waits for the child. If either step
// failed, the returned ShutdownError carries both the write error and the
// wait error (either of which may be nil).
func (cp *ControllerProcess) Shutdown(aux []value.Value) error {
	cp.mu.Lock()
	if cp.state != ControllerReady {
		err := StateError{Op: "shutdown", Got: cp.state, Want: ControllerReady.String()}
		cp.mu.Unlock()
		return err
	}
	cp.state = ControllerShuttingDown
	cp.mu.Unlock()

	writeErr := wire.WriteU8(cp.endpoint, uint8(wire.Goodbye))
	if writeErr == nil {
		writeErr = value.EncodeVector(cp.endpoint, aux)
	}
	if writeErr == nil {
		writeErr = cp.flush()
	}

	waitErr := cp.child.Wait()

	cp.mu.Lock()
	cp.state = ControllerTerminated
	cp.mu.Unlock()

	if writeErr != nil || waitErr != nil {
		err := ShutdownError{WriteErr: writeErr, WaitErr: waitErr}
		cp.log.Error(err)
		return err
	}
	cp.log.Debugf("session %s terminated cleanly", cp.SessionID)
	return nil
}
