package log

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is the process-wide logger. All packages log through the helpers
// below so output stays uniform.
var Logger zerolog.Logger

func init() {
	// Console writer for human-readable colored output on stderr.
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}

	Logger = zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()

	log.Logger = Logger
}

// Info logs an info message.
func Info() *zerolog.Event {
	return Logger.Info()
}

// Error logs an error message.
func Error() *zerolog.Event {
	return Logger.Error()
}

// Warn logs a warning message.
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Debug logs a debug message.
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Fatal logs a fatal message and exits.
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// SetDebugMode switches the logger to debug level.
func SetDebugMode() {
	Logger = Logger.Level(zerolog.DebugLevel)
	log.Logger = Logger
}
