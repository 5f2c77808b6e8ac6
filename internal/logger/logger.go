// Package logger configures the application-wide structured logger.
package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root zerolog logger. Console output is used in development,
// plain JSON everywhere else.
func New(level, environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = zerolog.InfoLevel
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', defaulting to 'info'\n", level)
	}

	var l zerolog.Logger
	if environment == "development" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		l = zerolog.New(os.Stderr)
	}

	l = l.Level(logLevel).With().Timestamp().Int("pid", os.Getpid()).Logger()
	zerolog.DefaultContextLogger = &l
	return l
}
