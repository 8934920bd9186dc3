package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	ctx := context.Background()

	l.Info(ctx, "info message", "k", "v")
	l.Warn(ctx, "warn message")
	l.Error(ctx, "error message")

	out := buf.String()
	for _, want := range []string{"info message", "warn message", "error message", "k=v"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	child := l.With("component", "auth")
	child.Info(context.Background(), "hello")

	if !strings.Contains(buf.String(), "component=auth") {
		t.Errorf("child logger output missing bound attribute:\n%s", buf.String())
	}
}

func TestNopLogger(t *testing.T) {
	var l Logger = NewNopLogger()
	// Must not panic and With must return a usable logger.
	l.Info(context.Background(), "x")
	l.With("a", 1).Error(context.Background(), "y")
}
