//go:build unix

package bootstrap

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ufo-org/ufo-ipc/value"
)

// subordinateHelperEnv marks a re-exec of the test binary as the
// subordinate under test, the same trick minimega's container launcher leans
// on: spawn the test binary again with a
// marker so TestMain can branch into child behavior instead of running the
// test suite.
const subordinateHelperEnv = "UFO_IPC_TEST_BE_SUBORDINATE"

func TestMain(m *testing.M) {
	if os.Getenv(subordinateHelperEnv) == "1" {
		runSubordinateHelper()
		return
	}
	os.Exit(m.Run())
}

// runSubordinateHelper plays the role of a real subordinate binary: adopt
// the inherited pipes, shake hands, answer exactly one Peek, then shut down.
func runSubordinateHelper() {
	sub, err := SubordinateBegin()
	if err != nil {
		os.Exit(1)
	}
	req, err := sub.RecvCommand()
	if err != nil {
		os.Exit(1)
	}
	if req.Command.String() == "Peek" {
		if err := sub.RespondToPeek(nil, []value.Value{value.NewString("ok")}); err != nil {
			os.Exit(1)
		}
	}
	req, err = sub.RecvCommand()
	if err != nil || req.Command.String() != "Shutdown" {
		os.Exit(1)
	}
	os.Exit(0)
}

func TestStartSubordinateProcessEndToEnd(t *testing.T) {
	self, err := os.Executable()
	require.NoError(t, err)

	cmd := exec.Command(self, "-test.run=^$")
	cmd.Env = append(os.Environ(), subordinateHelperEnv+"=1")

	controller, err := StartSubordinateProcess(cmd)
	require.NoError(t, err)

	resp, err := controller.Peek("anything", nil)
	require.NoError(t, err)
	require.Len(t, resp.Value, 1)
	s, err := resp.Value[0].ExpectString()
	require.NoError(t, err)
	assert.Equal(t, "ok", s)

	require.NoError(t, controller.Shutdown(nil))
}
