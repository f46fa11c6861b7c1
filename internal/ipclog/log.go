// Package ipclog sets up the structured logger shared by every ufo-ipc
// package, in the style of krd's log2.SetupLogging: one op/go-logging
// instance, backed by a colorized stderr writer on a real terminal and a
// plain writer otherwise.
package ipclog

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/op/go-logging"
)

const levelEnv = "UFO_IPC_LOG_LEVEL"

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{shortfunc} ▶ %{level:.4s}%{color:reset} %{message}`,
)

// New builds a named op/go-logging.Logger writing to stderr. Output is
// routed through go-colorable on Windows so %{color} directives render, and
// color is disabled outright when stderr is not a terminal (matching
// fatih/color's own NoColor auto-detection via go-isatty).
func New(name string) *logging.Logger {
	writer := colorable.NewColorableStderr()
	fmtr := format
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color.NoColor = true
		fmtr = logging.MustStringFormatter(
			`%{time:15:04:05.000} %{shortfunc} ▶ %{level:.4s} %{message}`,
		)
	}

	backend := logging.NewLogBackend(writer, "", 0)
	formatted := logging.NewBackendFormatter(backend, fmtr)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(levelFromEnv(), "")

	logger := logging.MustGetLogger(name)
	logger.SetBackend(leveled)
	return logger
}

func levelFromEnv() logging.Level {
	switch os.Getenv(levelEnv) {
	case "DEBUG":
		return logging.DEBUG
	case "INFO":
		return logging.INFO
	case "NOTICE":
		return logging.NOTICE
	case "WARNING":
		return logging.WARNING
	case "ERROR":
		return logging.ERROR
	case "CRITICAL":
		return logging.CRITICAL
	default:
		return logging.NOTICE
	}
}
