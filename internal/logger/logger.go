// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package logger wraps zerolog for the bankconnect CLI and the fake bank.
//
// Both binaries log JSON with a "role" field naming the process. The fake
// bank writes to stdout; the CLI writes to a "logs" file so the wizard
// screen stays clean. Handlers pick up request-scoped loggers with
// FromRequest.
package logger

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger embeds zerolog.Logger; pass it by pointer.
type Logger struct {
	zerolog.Logger
}

// NewLogger constructs a *Logger for the given role label (e.g. "fakebank")
// that writes JSON to os.Stdout.
//
// Every entry carries a "role" field, a timestamp and a "func" caller field
// holding the fully-qualified function name instead of file:line.
func NewLogger(role string) *Logger {
	return newLogger(os.Stdout, role, zerolog.DebugLevel)
}

// NewClientLogger constructs the logger used by interactive client commands.
// Output goes to a "logs" file next to the executable so it does not
// interfere with the terminal UI; stdout is used if the file cannot be
// opened. level is parsed with zerolog.ParseLevel and defaults to debug.
func NewClientLogger(role, level string) *Logger {
	execPath, _ := os.Executable()
	logPath := filepath.Join(filepath.Dir(execPath), "logs")

	var out io.Writer
	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		out = os.Stdout
	} else {
		out = logFile
	}

	return newLogger(out, role, parseLevel(level))
}

func newLogger(out io.Writer, role string, level zerolog.Level) *Logger {
	zerolog.SetGlobalLevel(level)
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return runtime.FuncForPC(pc).Name()
	}
	zerolog.CallerFieldName = "func"

	logger := zerolog.New(out).With().
		Str("role", role).
		Timestamp().
		Caller().
		Logger()

	return &Logger{logger}
}

func parseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.DebugLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.DebugLevel
	}
	return lvl
}

// Nop discards everything. Constructors fall back to it when given a nil
// logger.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// GetChildLogger copies the receiver so fields added to the child stay
// off the parent.
func (l *Logger) GetChildLogger() *Logger {
	return &Logger{l.With().Logger()}
}

// WithContext attaches the logger to ctx so FromContext can find it
// further down the call chain.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromRequest is FromContext(r.Context()).
func FromRequest(r *http.Request) *Logger {
	return &Logger{*log.Ctx(r.Context())}
}

// FromContext returns the logger attached by WithContext, or zerolog's
// default logger when there is none. It never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
