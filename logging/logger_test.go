package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Interface compliance (compile-time assertions)
var (
	_ Logger              = (*SlogAdapter)(nil)
	_ Logger              = NoOpLogger{}
	_ Logger              = (*RuntimeLogger)(nil)
	_ DeliveryEventLogger = (*RuntimeLogger)(nil)
)

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "INFO", LogLevelInfo.String())
	assert.Equal(t, "WARN", LogLevelWarn.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
}

func TestRuntimeLoggerOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "text", Output: &buf, Component: "runtime"})

	l.Info("hello %s", "world")
	out := buf.String()
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "component=runtime")
}

func TestRuntimeLoggerLevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "text", Output: &buf})

	l.Debug("quiet")
	l.Info("quiet")
	assert.Empty(t, buf.String())

	l.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestRuntimeLoggerDeliveryEvents(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "text", Output: &buf})

	l.LogDelivery("worker/w1", true, time.Millisecond, nil)
	l.LogPublish("events/s1", 2, time.Millisecond)
	l.LogDropped("send", "worker/w1")

	out := buf.String()
	assert.Contains(t, out, "Message delivered")
	assert.Contains(t, out, "recipient=worker/w1")
	assert.Contains(t, out, "Broadcast published")
	assert.Contains(t, out, "recipients=2")
	assert.Contains(t, out, "Message dropped by intervention")
}
