package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// TestLogBuffer collects log output from concurrent writers.
type TestLogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// GetTestLogger returns a debug-level JSON logger writing into a fresh buffer.
func GetTestLogger(t *testing.T) (*slog.Logger, *TestLogBuffer) {
	t.Helper()
	buf := &TestLogBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// AssertLogContains fails t unless the captured output mentions content.
func AssertLogContains(t *testing.T, buf *TestLogBuffer, content string) {
	t.Helper()
	if out := buf.String(); !strings.Contains(out, content) {
		t.Errorf("log output missing %q:\n%s", content, out)
	}
}

// AssertLogNotContains fails t if the captured output mentions content.
func AssertLogNotContains(t *testing.T, buf *TestLogBuffer, content string) {
	t.Helper()
	if out := buf.String(); strings.Contains(out, content) {
		t.Errorf("log output unexpectedly contains %q:\n%s", content, out)
	}
}
