package ipclog

import (
	"os"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
)

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("UFO_IPC_LOG_LEVEL", "DEBUG")
	assert.Equal(t, logging.DEBUG, levelFromEnv())

	t.Setenv("UFO_IPC_LOG_LEVEL", "")
	assert.Equal(t, logging.NOTICE, levelFromEnv())

	t.Setenv("UFO_IPC_LOG_LEVEL", "nonsense")
	assert.Equal(t, logging.NOTICE, levelFromEnv())
}

func TestNewReturnsUsableLogger(t *testing.T) {
	logger := New("ufo-ipc.test")
	assert.NotNil(t, logger)
	logger.Debug("exercised without panicking")
	_ = os.Stderr
}
