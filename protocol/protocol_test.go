package protocol

import (
	"errors"
	"net"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ufo-org/ufo-ipc/value"
	"github.com/ufo-org/ufo-ipc/wire"
)

// fakeFlusher adapts a net.Conn (unbuffered, so nothing to flush) to the
// optional Flush() interface both endpoints probe for.
type fakeFlusher struct{ net.Conn }

func (fakeFlusher) Flush() error { return nil }

// fakeWaiter stands in for the subordinate process handle in tests that
// never actually spawn a child.
type fakeWaiter struct{ err error }

func (w fakeWaiter) Wait() error { return w.err }

func newConnectedPair() (*ControllerProcess, *SubordinateProcess) {
	a, b := net.Pipe()
	cp := NewControllerProcess(fakeFlusher{a}, fakeWaiter{})
	sp := NewSubordinateProcess(fakeFlusher{b})
	return cp, sp
}

func handshake(t *testing.T, cp *ControllerProcess, sp *SubordinateProcess) {
	t.Helper()
	var wg sync.WaitGroup
	var cErr, sErr error
	wg.Add(2)
	go func() { defer wg.Done(); cErr = cp.Hello() }()
	go func() { defer wg.Done(); sErr = sp.Hello() }()
	wg.Wait()
	require.NoError(t, cErr)
	require.NoError(t, sErr)
}

func TestHandshakeReachesReadyAndListening(t *testing.T) {
	cp, sp := newConnectedPair()
	handshake(t, cp, sp)
	assert.Equal(t, ControllerReady, cp.State())
	assert.Equal(t, SubordinateListening, sp.State())
}

// TestPeekReturnsTypedString exercises a Peek round trip.
func TestPeekReturnsTypedString(t *testing.T) {
	cp, sp := newConnectedPair()
	handshake(t, cp, sp)

	done := make(chan error, 1)
	go func() {
		req, err := sp.RecvCommand()
		if err != nil {
			done <- err
			return
		}
		if req.Command != CmdPeek || req.Key != "test" {
			done <- errors.New("unexpected request")
			return
		}
		done <- sp.RespondToPeek([]value.Value{value.NewString("test")}, []value.Value{value.NewString("test response")})
	}()

	resp, err := cp.Peek("test", nil)
	require.NoError(t, err)
	require.NoError(t, <-done)

	require.Len(t, resp.ResponseAux, 1)
	aux, err := resp.ResponseAux[0].ExpectString()
	require.NoError(t, err)
	assert.Equal(t, "test", aux)

	require.Len(t, resp.Value, 1)
	val, err := resp.Value[0].ExpectString()
	require.NoError(t, err)
	assert.Equal(t, "test response", val)
	assert.Empty(t, resp.Logs)
}

// TestPokeEchoesKeyValueAsAux exercises a Poke round trip.
func TestPokeEchoesKeyValueAsAux(t *testing.T) {
	cp, sp := newConnectedPair()
	handshake(t, cp, sp)

	done := make(chan error, 1)
	go func() {
		req, err := sp.RecvCommand()
		if err != nil {
			done <- err
			return
		}
		if req.Command != CmdPoke {
			done <- errors.New("unexpected request")
			return
		}
		s, err := req.Value[0].ExpectString()
		if err != nil {
			done <- err
			return
		}
		done <- sp.RespondToPoke([]value.Value{value.NewString(req.Key), value.NewString(s)})
	}()

	resp, err := cp.Poke("test", []value.Value{value.NewString("testing")}, nil)
	require.NoError(t, err)
	require.NoError(t, <-done)

	require.Len(t, resp.ResponseAux, 2)
	k, _ := resp.ResponseAux[0].ExpectString()
	v, _ := resp.ResponseAux[1].ExpectString()
	assert.Equal(t, "test", k)
	assert.Equal(t, "testing", v)
	assert.Empty(t, resp.Value)
}

// TestDefineCallFree exercises DefineFunction, Call, and FreeFunction in sequence.
func TestDefineCallFree(t *testing.T) {
	cp, sp := newConnectedPair()
	handshake(t, cp, sp)

	serverDone := make(chan error, 1)
	go func() {
		req, err := sp.RecvCommand()
		if err != nil {
			serverDone <- err
			return
		}
		if req.Command != CmdDefineFunction {
			serverDone <- errors.New("expected DefineFunction")
			return
		}
		if err := sp.RespondToDefineFunction(nil); err != nil {
			serverDone <- err
			return
		}

		req, err = sp.RecvCommand()
		if err != nil {
			serverDone <- err
			return
		}
		if req.Command != CmdCall {
			serverDone <- errors.New("expected Call")
			return
		}
		if err := sp.RespondToCall(nil, []value.Value{value.NewI32(10)}); err != nil {
			serverDone <- err
			return
		}

		req, err = sp.RecvCommand()
		if err != nil {
			serverDone <- err
			return
		}
		if req.Command != CmdFreeFunction {
			serverDone <- errors.New("expected FreeFunction")
			return
		}
		serverDone <- sp.RespondToFreeFunction(nil)
	}()

	tok, _, err := cp.DefineFunction([]byte{0xDE, 0xAD}, []value.Value{value.NewU64(7)}, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, tok)

	callResp, err := cp.CallFunction(tok, []value.Value{value.NewI32(-5)}, nil)
	require.NoError(t, err)
	require.Len(t, callResp.Value, 1)
	ret, err := callResp.Value[0].ExpectI32()
	require.NoError(t, err)
	assert.EqualValues(t, 10, ret)

	freeResp, err := cp.FreeFunction(tok, nil)
	require.NoError(t, err)
	assert.Empty(t, freeResp.Value)

	require.NoError(t, <-serverDone)
}

// TestTokenNamespaceSharesCounter checks that a FunctionToken and a DataToken
// minted back to back never collide as raw 64-bit integers.
func TestTokenNamespaceSharesCounter(t *testing.T) {
	cp, sp := newConnectedPair()
	handshake(t, cp, sp)

	done := make(chan error, 1)
	go func() {
		if _, err := sp.RecvCommand(); err != nil {
			done <- err
			return
		}
		if err := sp.RespondToDefineFunction(nil); err != nil {
			done <- err
			return
		}
		if _, err := sp.RecvCommand(); err != nil {
			done <- err
			return
		}
		done <- sp.RespondToDefineData(nil)
	}()

	fnTok, _, err := cp.DefineFunction(nil, nil, nil)
	require.NoError(t, err)
	dataTok, _, err := cp.DefineData(nil, nil)
	require.NoError(t, err)
	require.NoError(t, <-done)

	assert.NotEqual(t, uint64(fnTok), uint64(dataTok))
}

// TestRemoteErrorSurfaced exercises a subordinate error response.
func TestRemoteErrorSurfaced(t *testing.T) {
	cp, sp := newConnectedPair()
	handshake(t, cp, sp)

	done := make(chan error, 1)
	go func() {
		if _, err := sp.RecvCommand(); err != nil {
			done <- err
			return
		}
		done <- sp.RespondWithError(wire.ProtocolErrorKind, []value.Value{value.NewString("bad")})
	}()

	_, err := cp.Peek("whatever", nil)
	require.NoError(t, <-done)
	require.Error(t, err)

	var remoteErr RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, wire.ProtocolErrorKind, remoteErr.Type)
	require.Len(t, remoteErr.Aux, 1)
	s, _ := remoteErr.Aux[0].ExpectString()
	assert.Equal(t, "bad", s)
}

// TestShutdownIsClean exercises a clean Goodbye/Wait shutdown.
func TestShutdownIsClean(t *testing.T) {
	cp, sp := newConnectedPair()
	handshake(t, cp, sp)

	done := make(chan *Request, 1)
	go func() {
		req, err := sp.RecvCommand()
		require.NoError(t, err)
		done <- req
	}()

	err := cp.Shutdown(nil)
	require.NoError(t, err)
	assert.Equal(t, ControllerTerminated, cp.State())

	req := <-done
	assert.Equal(t, CmdShutdown, req.Command)
	assert.Equal(t, SubordinateShutdown, sp.State())
}

func TestInappropriateConstantIsReported(t *testing.T) {
	cp, sp := newConnectedPair()
	handshake(t, cp, sp)

	done := make(chan error, 1)
	go func() {
		_, err := sp.RecvCommand()
		done <- err
	}()

	// Hello is a valid protocol constant but not a legal request opener once
	// the subordinate is already Listening.
	require.NoError(t, wire.WriteU8(cp.endpoint, uint8(wire.Hello)))
	err := <-done
	require.Error(t, err)
	var bad wire.InappropriateProtocolConstantError
	assert.ErrorAs(t, err, &bad)
}
