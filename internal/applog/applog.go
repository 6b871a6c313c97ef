// Package applog configures the engine's diagnostic logging, kept
// entirely separate from the UCI wire protocol: UCI "info" lines go
// to stdout because GUIs parse them, everything here goes to stderr.
package applog

import (
	"os"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Log is the engine-wide logger. Every package that needs to report a
// warning or a diagnostic (as opposed to a UCI response) logs through
// this.
var Log = logging.MustGetLogger("corella")

var numbers = message.NewPrinter(language.English)

var logFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.4s} %{message}`,
)

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetBackend(logging.NewBackendFormatter(backend, logFormat))
	logging.SetLevel(logging.INFO, "corella")
}

// SetLevel parses a go-logging level name (CRITICAL, ERROR, WARNING,
// NOTICE, INFO, DEBUG) and applies it, falling back to INFO on an
// unrecognised name.
func SetLevel(name string) {
	lvl, err := logging.LogLevel(name)
	if err != nil {
		lvl = logging.INFO
	}
	logging.SetLevel(lvl, "corella")
}

// FormatCount renders n with locale thousands separators, for the
// human-facing log lines (never for UCI "info" output, which GUIs
// parse as plain integers).
func FormatCount(n uint64) string {
	return numbers.Sprintf("%d", n)
}

// FormatNPS renders a nodes-per-second figure the same way.
func FormatNPS(nodes uint64, nanos int64) string {
	if nanos <= 0 {
		return numbers.Sprintf("%d", nodes)
	}
	nps := nodes * uint64(1e9) / uint64(nanos)
	return numbers.Sprintf("%d", nps)
}
