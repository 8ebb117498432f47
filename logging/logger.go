// Package logging carries the two logging concerns of the server: the
// operator's line-oriented Logger and the structured match Event stream.
package logging

import "log"

// Logger is the operator-facing line logger
type Logger interface {
	Printf(format string, args ...any)
}

// LoggerFunc adapts a function into a Logger
type LoggerFunc func(format string, args ...any)

// Printf implements Logger
func (f LoggerFunc) Printf(format string, args ...any) {
	if f == nil {
		return
	}
	f(format, args...)
}

// WrapLogger adapts a standard library logger; nil selects log.Default
func WrapLogger(logger *log.Logger) Logger {
	if logger == nil {
		logger = log.Default()
	}
	return &loggerAdapter{logger: logger}
}

type loggerAdapter struct {
	logger *log.Logger
}

func (l *loggerAdapter) Printf(format string, args ...any) {
	l.logger.Printf(format, args...)
}

// Discard drops every line
var Discard Logger = LoggerFunc(func(string, ...any) {})
