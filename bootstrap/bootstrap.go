// Package bootstrap implements the file-descriptor inheritance mechanism
// that gets the two pipes of a session into a freshly spawned subordinate:
// creating the pipes, publishing descriptor numbers via environment
// variables, constructing the ControllerProcess and SubordinateProcess
// handles, and dropping the controller's copy of the child's pipe ends once
// the spawn has succeeded.
package bootstrap

import (
	"fmt"
	"os/exec"

	"github.com/ufo-org/ufo-ipc/protocol"
)

// Environment variable names the subordinate reads at start-up. Missing or
// non-integer values make subordinate start-up fail with an I/O error.
const (
	SubordinateInEnv  = "UFO_SUBORDINATE_PIPEFD_IN"
	SubordinateOutEnv = "UFO_SUBORDINATE_PIPEFD_OUT"
)

// MissingEnvError reports that a required bootstrap environment variable was
// absent or malformed in the subordinate process.
type MissingEnvError struct {
	Name string
	Err  error
}

func (e MissingEnvError) Error() string {
	return fmt.Sprintf("bootstrap: environment variable %s: %v", e.Name, e.Err)
}

func (e MissingEnvError) Unwrap() error { return e.Err }

// StartSubordinateProcess creates the two pipes, arranges for the child to
// inherit its ends via cmd.ExtraFiles, publishes the descriptor numbers
// through SubordinateInEnv/SubordinateOutEnv, starts cmd with null stdin and
// inherited stdout/stderr, performs the controller's half of the
// handshake, and drops the controller's copy of the child's pipe ends.
// cmd.Env, if already set, is preserved; the two bootstrap variables are
// appended.
func StartSubordinateProcess(cmd *exec.Cmd) (*protocol.ControllerProcess, error) {
	return startSubordinateProcess(cmd)
}

// SubordinateBegin reads the bootstrap environment variables, adopts the
// two inherited descriptors as the subordinate's pipe ends, and performs the
// subordinate's half of the handshake. The subordinate never creates pipes
// itself.
func SubordinateBegin() (*protocol.SubordinateProcess, error) {
	return subordinateBegin()
}
