// +build !logless

// Package onnxlog provides the package-level structured logger used by the
// parser, engine, and CLI.
package onnxlog

import (
	"os"

	"github.com/rs/zerolog"
	logger "github.com/rs/zerolog/log"
)

// Log is the shared logger, with caller info and a console writer on stderr.
var Log = logger.With().Caller().Logger().Output(zerolog.ConsoleWriter{Out: os.Stderr})

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
