package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newBufLogger() (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return New(Config{Level: slog.LevelDebug, Component: ComponentApp, Handler: handler}), &buf
}

func TestLoggerAttachesComponent(t *testing.T) {
	l, buf := newBufLogger()

	l.Info("started", FieldOperation, OpStartup)
	line := buf.String()
	if !strings.Contains(line, FieldComponent+"="+ComponentApp) {
		t.Fatalf("missing component attr: %s", line)
	}
	if !strings.Contains(line, FieldOperation+"="+OpStartup) {
		t.Fatalf("missing operation attr: %s", line)
	}
}

func TestWithComponentRescopes(t *testing.T) {
	l, buf := newBufLogger()

	l.WithComponent(ComponentCache).Debug("cleanup", "entries_removed", 3)
	line := buf.String()
	if !strings.Contains(line, FieldComponent+"="+ComponentCache) {
		t.Fatalf("expected cache component: %s", line)
	}

	buf.Reset()
	l.Info("unchanged")
	if !strings.Contains(buf.String(), FieldComponent+"="+ComponentApp) {
		t.Fatalf("WithComponent must not mutate the receiver: %s", buf.String())
	}
}

func TestContextVariants(t *testing.T) {
	l, buf := newBufLogger()
	ctx := context.Background()

	l.InfoContext(ctx, "requested")
	l.ErrorContext(ctx, "failed", FieldError, "boom")
	out := buf.String()
	if strings.Count(out, FieldComponent+"="+ComponentApp) != 2 {
		t.Fatalf("every context line carries the component: %s", out)
	}
	if !strings.Contains(out, FieldError+"=boom") {
		t.Fatalf("missing error attr: %s", out)
	}
}
