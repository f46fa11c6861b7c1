//go:build unix

package bootstrap

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"golang.org/x/sys/unix"

	"github.com/ufo-org/ufo-ipc/protocol"
	"github.com/ufo-org/ufo-ipc/transport"
)

// startSubordinateProcess mirrors the ExtraFiles pattern minimega's
// container launcher uses for its console/log pipes: os.Pipe() per
// direction, the child's ends handed to cmd.ExtraFiles, and the resulting
// descriptor numbers (3, 4, … after stdin/stdout/stderr) threaded to the
// child through environment variables since Go chooses those numbers, not
// the caller.
func startSubordinateProcess(cmd *exec.Cmd) (*protocol.ControllerProcess, error) {
	parentToChildR, parentToChildW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: parent->child pipe: %w", err)
	}
	childToParentR, childToParentW, err := os.Pipe()
	if err != nil {
		parentToChildR.Close()
		parentToChildW.Close()
		return nil, fmt.Errorf("bootstrap: child->parent pipe: %w", err)
	}

	childIn := parentToChildR
	childOut := childToParentW

	baseFD := 3 + len(cmd.ExtraFiles)
	cmd.ExtraFiles = append(cmd.ExtraFiles, childIn, childOut)
	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}
	cmd.Env = append(append([]string{}, env...),
		fmt.Sprintf("%s=%d", SubordinateInEnv, baseFD),
		fmt.Sprintf("%s=%d", SubordinateOutEnv, baseFD+1),
	)
	cmd.Stdin = nil
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		parentToChildR.Close()
		parentToChildW.Close()
		childToParentR.Close()
		childToParentW.Close()
		return nil, fmt.Errorf("bootstrap: spawn subordinate: %w", err)
	}

	// The child has its own copies of childIn/childOut now (dup'd in by
	// os/exec); the controller's copies must be dropped so EOF propagates
	// correctly once the child exits.
	childIn.Close()
	childOut.Close()

	endpoint := transport.New(childToParentR, parentToChildW)
	controller := protocol.NewControllerProcess(endpoint, cmd)
	if err := controller.Hello(); err != nil {
		return nil, err
	}
	return controller, nil
}

// subordinateBegin adopts the two inherited descriptors by number, clearing
// close-on-exec defensively.
func subordinateBegin() (*protocol.SubordinateProcess, error) {
	fdIn, err := readFDEnv(SubordinateInEnv)
	if err != nil {
		return nil, err
	}
	fdOut, err := readFDEnv(SubordinateOutEnv)
	if err != nil {
		return nil, err
	}

	_ = unix.SetNonblock(fdIn, false)
	_ = unix.SetNonblock(fdOut, false)
	clearCloexec(fdIn)
	clearCloexec(fdOut)

	in := os.NewFile(uintptr(fdIn), "ufo-ipc-in")
	out := os.NewFile(uintptr(fdOut), "ufo-ipc-out")

	endpoint := transport.New(in, out)
	sub := protocol.NewSubordinateProcess(endpoint)
	if err := sub.Hello(); err != nil {
		return nil, err
	}
	return sub, nil
}

func readFDEnv(name string) (int, error) {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return 0, MissingEnvError{Name: name, Err: fmt.Errorf("not set")}
	}
	fd, err := strconv.Atoi(raw)
	if err != nil {
		return 0, MissingEnvError{Name: name, Err: err}
	}
	return fd, nil
}

func clearCloexec(fd int) {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	if err != nil {
		return
	}
	_, _ = unix.FcntlInt(uintptr(fd), unix.F_SETFD, flags &^ unix.FD_CLOEXEC)
}
