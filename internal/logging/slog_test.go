package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTextLogger_FiltersByLevel(t *testing.T) {
	tests := []struct {
		level   string
		want    []string
		notWant []string
	}{
		{"debug", []string{"level=DEBUG", "level=INFO", "level=ERROR"}, nil},
		{"", []string{"level=INFO", "level=WARN"}, []string{"level=DEBUG"}},
		{"warning", []string{"level=WARN", "level=ERROR"}, []string{"level=INFO"}},
		{"error", []string{"level=ERROR"}, []string{"level=WARN"}},
	}
	for _, tc := range tests {
		t.Run(tc.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := newTextLogger(&buf, tc.level)
			ctx := context.Background()

			log.Debug(ctx, "restoring session")
			log.Info(ctx, "session started", "user", "bob_01")
			log.Warn(ctx, "api unreachable")
			log.Error(ctx, "failed to persist session")

			for _, s := range tc.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tc.notWant {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestSlogLogger_WithTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	log := newTextLogger(&buf, "info").With("component", "profile")
	log.Info(context.Background(), "profile saved", "user", "bob_01", "uploads", 2)

	for _, s := range []string{"msg=\"profile saved\"", "component=profile", "user=bob_01", "uploads=2"} {
		assert.Contains(t, buf.String(), s)
	}
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, slogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, slogLevel("warn"))
	assert.Equal(t, slog.LevelInfo, slogLevel("verbose"))
}
