// Package obslog is a thin wrapper over the standard log package that
// prefixes every line with a request ID.
package obslog

import "log"

// Logger prefixes every message with a request ID.
type Logger struct {
	requestID string
}

// For returns a Logger scoped to requestID.
func For(requestID string) *Logger {
	return &Logger{requestID: requestID}
}

func (l *Logger) Printf(format string, args ...any) {
	log.Printf("[%s] "+format, append([]any{l.requestID}, args...)...)
}

func (l *Logger) Errorf(format string, args ...any) {
	log.Printf("[%s] ERROR "+format, append([]any{l.requestID}, args...)...)
}
