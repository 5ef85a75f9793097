// Package slogx holds the process-wide slog setup: level parsing, the stderr
// logger and a channel-backed logger used for worker fan-in.
package slogx

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
)

// level is shared by every logger built here, so LOG_LEVEL also applies to worker logs.
var level = new(slog.LevelVar)

// ChanWriter buffers writes and sends complete lines to channel.
// Used with slog.TextHandler for fan-in logging.
type ChanWriter struct {
	Ch  chan<- string
	Buf []byte
}

func (w *ChanWriter) Write(p []byte) (n int, err error) {
	w.Buf = append(w.Buf, p...)
	for {
		i := bytes.IndexByte(w.Buf, '\n')
		if i < 0 {
			break
		}
		line := string(w.Buf[:i])
		w.Buf = w.Buf[i+1:]
		select {
		case w.Ch <- line:
		default:
			// channel đầy thì bỏ dòng, không chặn worker
		}
	}
	return len(p), nil
}

// NewChanLogger creates a slog.Logger that writes to the channel in text format.
func NewChanLogger(ch chan<- string) *slog.Logger {
	return New(&ChanWriter{Ch: ch})
}

// New creates a text logger on w at the shared level.
func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel converts string (debug|info|warn|error) to slog.Level. Unknown → info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLevel changes the shared level.
func SetLevel(s string) {
	level.Set(ParseLevel(s))
}

// NewDefault sets the shared level and creates a logger writing to stderr.
func NewDefault(lvl string) *slog.Logger {
	SetLevel(lvl)
	return New(os.Stderr)
}
