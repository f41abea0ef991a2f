package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))

			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)
	prog.done("Contracted 4 nodes")

	out := buf.String()
	if !strings.Contains(out, "Contracted 4 nodes") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "ms)") && !strings.Contains(out, "s)") {
		t.Errorf("output missing duration: %q", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("expected log.Default() without an attached logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("hello")
	if buf.Len() == 0 {
		t.Error("attached logger should write to its buffer")
	}
}
