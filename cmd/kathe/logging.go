package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/avuko/kathe-cli/internal/ingest"
)

// newLogger returns a console-formatted zerolog logger writing to stderr,
// the structured replacement for the reference tool's eprintln! calls.
func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
}

// zerologIngestLogger adapts a zerolog.Logger to ingest.Logger, so
// internal/ingest stays free of any logging library dependency.
type zerologIngestLogger struct {
	log zerolog.Logger
}

func (l zerologIngestLogger) Record(state ingest.State, kind, inputName, digest string, err error) {
	evt := l.log.Debug()
	switch kind {
	case "store-transient":
		evt = l.log.Error()
	case "malformed-digest", "input-parse", "scorer-unavailable":
		evt = l.log.Warn()
	}

	evt = evt.Str("state", string(state)).Str("inputname", inputName).Str("ssdeep", digest)
	if kind != "" {
		evt = evt.Str("kind", kind)
	}
	if err != nil {
		evt = evt.Err(err)
	}
	evt.Msg("record")
}
