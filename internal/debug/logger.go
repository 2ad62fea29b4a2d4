package debug

import (
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
)

var (
	writer io.Writer = io.Discard
	logger           = zerolog.Nop()

	spewConfig = spew.ConfigState{
		Indent:   "  ",
		SortKeys: true,
		MaxDepth: 3,
	}
)

// SetOutput sets the debug output destination
func SetOutput(w io.Writer) {
	writer = w
	if w == io.Discard {
		logger = zerolog.Nop()
		return
	}
	logger = zerolog.New(w).With().Timestamp().Logger()
}

// Log writes a debug message
func Log(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return writer != io.Discard
}

// Logger returns a sub-logger tagged with module
func Logger(module string) zerolog.Logger {
	return logger.With().Str("module", module).Logger()
}

// Dump logs a deep print of v under msg. Solver results are the usual
// subject.
func Dump(msg string, v interface{}) {
	if !Enabled() {
		return
	}
	logger.Debug().Str("value", spewConfig.Sdump(v)).Msg(msg)
}
