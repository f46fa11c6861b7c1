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

// SubordinateProcess drives the child side of a session.
type SubordinateProcess struct {
	endpoint  io.ReadWriter
	flusher   interface{ Flush() error }
	SessionID uuid.UUID
	log       *logging.Logger

	mu    sync.Mutex
	state SubordinateState
}

// NewSubordinateProcess wraps an already-adopted endpoint.
func NewSubordinateProcess(endpoint io.ReadWriter) *SubordinateProcess {
	sp := &SubordinateProcess{
		endpoint:  endpoint,
		state:     SubordinateUnconnected,
		SessionID: uuid.NewV4(),
		log:       ipclog.New("ufo-ipc.subordinate"),
	}
	if f, ok := endpoint.(interface{ Flush() error }); ok {
		sp.flusher = f
	}
	return sp
}

func (sp *SubordinateProcess) flush() error {
	if sp.flusher == nil {
		return nil
	}
	return sp.flusher.Flush()
}

// State reports the subordinate's current lifecycle state.
func (sp *SubordinateProcess) State() SubordinateState {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.state
}

// Hello performs the subordinate's half of the handshake: read and require
// Hello, then write Hello back. The subordinate answers second.
func (sp *SubordinateProcess) Hello() (err error) {
	sp.mu.Lock()
	sp.state = SubordinateAwaitingHello
	sp.mu.Unlock()

	var gotByte uint8
	if gotByte, err = wire.ReadU8(sp.endpoint); err != nil {
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
	if err = wire.WriteU8(sp.endpoint, uint8(wire.Hello)); err != nil {
		return
	}
	if err = sp.flush(); err != nil {
		return
	}

	sp.mu.Lock()
	sp.state = SubordinateListening
	sp.mu.Unlock()
	sp.log.Debugf("session %s listening", sp.SessionID)
	return nil
}

// RecvCommand reads one protocol constant, dispatches to the matching
// per-command parser, and returns the resulting Request. A Shutdown
// request is returned like any other, but the caller should stop
// calling RecvCommand afterward: the subordinate has moved to Shutdown.
func (sp *SubordinateProcess) RecvCommand() (*Request, error) {
	sp.mu.Lock()
	if sp.state != SubordinateListening {
		err := StateError{Op: "recv_command", Got: sp.state, Want: SubordinateListening.String()}
		sp.mu.Unlock()
		return nil, err
	}
	sp.state = SubordinateHandling
	sp.mu.Unlock()

	tagByte, err := wire.ReadU8(sp.endpoint)
	if err != nil {
		return nil, err
	}
	constant, err := wire.DecodeProtocolConstant(tagByte)
	if err != nil {
		return nil, err
	}

	var req Request
	switch constant {
	case wire.DefineFunction:
		req.Command = CmdDefineFunction
		if req.Token, err = wire.ReadU64(sp.endpoint); err != nil {
			return nil, err
		}
		if req.FunctionBlob, err = wire.ReadBytes(sp.endpoint); err != nil {
			return nil, err
		}
		if req.AssociatedData, err = value.DecodeVector(sp.endpoint); err != nil {
			return nil, err
		}
	case wire.DefineData:
		req.Command = CmdDefineData
		if req.Token, err = wire.ReadU64(sp.endpoint); err != nil {
			return nil, err
		}
		if req.Value, err = value.DecodeVector(sp.endpoint); err != nil {
			return nil, err
		}
	case wire.Call:
		req.Command = CmdCall
		if req.Token, err = wire.ReadU64(sp.endpoint); err != nil {
			return nil, err
		}
		if req.Args, err = value.DecodeVector(sp.endpoint); err != nil {
			return nil, err
		}
	case wire.FreeFunction:
		req.Command = CmdFreeFunction
		if req.Token, err = wire.ReadU64(sp.endpoint); err != nil {
			return nil, err
		}
	case wire.FreeData:
		req.Command = CmdFreeData
		if req.Token, err = wire.ReadU64(sp.endpoint); err != nil {
			return nil, err
		}
	case wire.Peek:
		req.Command = CmdPeek
		if req.Key, err = wire.ReadString(sp.endpoint); err != nil {
			return nil, err
		}
	case wire.Poke:
		req.Command = CmdPoke
		if req.Key, err = wire.ReadString(sp.endpoint); err != nil {
			return nil, err
		}
		if req.Value, err = value.DecodeVector(sp.endpoint); err != nil {
			return nil, err
		}
	case wire.Goodbye:
		req.Command = CmdShutdown
		if req.Aux, err = value.DecodeVector(sp.endpoint); err != nil {
			return nil, err
		}
		sp.mu.Lock()
		sp.state = SubordinateShutdown
		sp.mu.Unlock()
		return &req, nil
	default:
		return nil, wire.InappropriateProtocolConstantError{Got: constant}
	}

	if req.Aux, err = value.DecodeVector(sp.endpoint); err != nil {
		return nil, err
	}
	return &req, nil
}

func (sp *SubordinateProcess) endHandling() {
	sp.mu.Lock()
	if sp.state == SubordinateHandling {
		sp.state = SubordinateListening
	}
	sp.mu.Unlock()
}

// respond writes Result ‖ usize log_ct ‖ logs ‖ value_vec aux ‖ value_vec
// payload and flushes. Every respond_to_X operation shares this tail; only
// the payload vector differs per command.
func (sp *SubordinateProcess) respond(logs []LogEntry, aux, payload []value.Value) error {
	defer sp.endHandling()

	if err := wire.WriteU8(sp.endpoint, uint8(wire.Result)); err != nil {
		return err
	}
	if err := encodeLogs(sp.endpoint, logs); err != nil {
		return err
	}
	if err := value.EncodeVector(sp.endpoint, aux); err != nil {
		return err
	}
	if err := value.EncodeVector(sp.endpoint, payload); err != nil {
		return err
	}
	return sp.flush()
}

// RespondToDefineFunction answers a DefineFunction request; the token
// payload is empty on the wire (the controller already knows the token it
// minted), matching the FunctionToken response shape.
func (sp *SubordinateProcess) RespondToDefineFunction(aux []value.Value) error {
	return sp.respond(nil, aux, nil)
}

// RespondToDefineData answers a DefineData request.
func (sp *SubordinateProcess) RespondToDefineData(aux []value.Value) error {
	return sp.respond(nil, aux, nil)
}

// RespondToCall answers a Call request with the function's return values.
func (sp *SubordinateProcess) RespondToCall(aux, result []value.Value) error {
	return sp.respond(nil, aux, result)
}

// RespondToFreeFunction answers a FreeFunction request.
func (sp *SubordinateProcess) RespondToFreeFunction(aux []value.Value) error {
	return sp.respond(nil, aux, nil)
}

// RespondToFreeData answers a FreeData request.
func (sp *SubordinateProcess) RespondToFreeData(aux []value.Value) error {
	return sp.respond(nil, aux, nil)
}

// RespondToPeek answers a Peek request with the looked-up value vector.
func (sp *SubordinateProcess) RespondToPeek(aux, result []value.Value) error {
	return sp.respond(nil, aux, result)
}

// RespondToPoke answers a Poke request.
func (sp *SubordinateProcess) RespondToPoke(aux []value.Value) error {
	return sp.respond(nil, aux, nil)
}

// RespondWithError writes Erroneous ‖ RemoteErrorType ‖ value_vec aux and
// flushes. The error envelope carries no log vector on either side of the
// wire; do not add one.
func (sp *SubordinateProcess) RespondWithError(errType wire.RemoteErrorType, aux []value.Value) error {
	defer sp.endHandling()

	if err := wire.WriteU8(sp.endpoint, uint8(wire.Erroneous)); err != nil {
		return err
	}
	if err := wire.WriteU8(sp.endpoint, uint8(errType)); err != nil {
		return err
	}
	if err := value.EncodeVector(sp.endpoint, aux); err != nil {
		return err
	}
	return sp.flush()
}
