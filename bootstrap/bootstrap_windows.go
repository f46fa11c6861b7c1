//go:build windows

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/Microsoft/go-winio"

	"github.com/ufo-org/ufo-ipc/protocol"
	"github.com/ufo-org/ufo-ipc/transport"
)

// SubordinatePipeNameEnv carries a named-pipe path instead of raw descriptor
// numbers. Win32 does not give a spawned process arbitrary numbered
// descriptors the way POSIX dup/exec does, so this is the equivalent
// facility used in place of SubordinateInEnv/SubordinateOutEnv on this
// platform.
const SubordinatePipeNameEnv = "UFO_SUBORDINATE_PIPENAME"

func startSubordinateProcess(cmd *exec.Cmd) (*protocol.ControllerProcess, error) {
	pipeName := fmt.Sprintf(`\\.\pipe\ufo-ipc-%d`, os.Getpid())

	listener, err := winio.ListenPipe(pipeName, nil)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: listen named pipe: %w", err)
	}

	cmd.Env = append(append([]string{}, cmd.Env...), fmt.Sprintf("%s=%s", SubordinatePipeNameEnv, pipeName))
	cmd.Stdin = nil
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		listener.Close()
		return nil, fmt.Errorf("bootstrap: spawn subordinate: %w", err)
	}

	conn, err := listener.Accept()
	listener.Close()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: accept named pipe: %w", err)
	}

	endpoint := transport.New(conn, conn)
	controller := protocol.NewControllerProcess(endpoint, cmd)
	if err := controller.Hello(); err != nil {
		return nil, err
	}
	return controller, nil
}

func subordinateBegin() (*protocol.SubordinateProcess, error) {
	pipeName, ok := os.LookupEnv(SubordinatePipeNameEnv)
	if !ok {
		return nil, MissingEnvError{Name: SubordinatePipeNameEnv, Err: fmt.Errorf("not set")}
	}

	conn, err := winio.DialPipeContext(context.Background(), pipeName)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: dial named pipe: %w", err)
	}

	endpoint := transport.New(conn, conn)
	sub := protocol.NewSubordinateProcess(endpoint)
	if err := sub.Hello(); err != nil {
		return nil, err
	}
	return sub, nil
}
