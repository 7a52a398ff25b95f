package opmode

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LogWriter is an io.Writer that forwards each log line to a channel,
// dropping lines while the channel is full.
type LogWriter struct {
	ch chan string
}

// NewLogWriter returns a writer buffering up to size lines.
func NewLogWriter(size int) *LogWriter {
	return &LogWriter{ch: make(chan string, size)}
}

func (w *LogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	select {
	case w.ch <- msg:
	default:
		// Drop if channel full
	}
	return len(p), nil
}

// Lines returns the channel log lines arrive on.
func (w *LogWriter) Lines() <-chan string {
	return w.ch
}

// NewConsoleLogger returns a human-readable logger writing to out at
// level.
func NewConsoleLogger(out io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()
}
