package testutil

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// CaptureLogger records every log call so tests can assert on runtime
// diagnostics (e.g. the unhandled-broadcast log line). Safe for concurrent
// use; messages are rendered printf-style like the production loggers.
type CaptureLogger struct {
	mu      sync.Mutex
	entries []string
}

// NewCaptureLogger creates an empty CaptureLogger.
func NewCaptureLogger() *CaptureLogger { return &CaptureLogger{} }

func (l *CaptureLogger) record(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.entries = append(l.entries, level+": "+msg)
}

// Debug records a debug entry.
func (l *CaptureLogger) Debug(msg string, args ...any) { l.record("DEBUG", msg, args...) }

// Info records an info entry.
func (l *CaptureLogger) Info(msg string, args ...any) { l.record("INFO", msg, args...) }

// Warn records a warn entry.
func (l *CaptureLogger) Warn(msg string, args ...any) { l.record("WARN", msg, args...) }

// Error records an error entry.
func (l *CaptureLogger) Error(msg string, args ...any) { l.record("ERROR", msg, args...) }

// Entries returns a copy of all recorded entries.
func (l *CaptureLogger) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Contains reports whether any recorded entry contains substr.
func (l *CaptureLogger) Contains(substr string) bool {
	for _, e := range l.Entries() {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

// Eventually polls cond every tick until it returns true or the timeout
// elapses, reporting whether the condition was met.
func Eventually(timeout, tick time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(tick)
	}
	return cond()
}
