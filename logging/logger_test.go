package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		debugOn bool
		infoOn  bool
		warnOn  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"", false, true, true},
		{"warning", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := NewLogger(&Config{Level: tt.level, Format: "text", Output: "discard"})
			ctx := context.Background()
			assert.Equal(t, tt.debugOn, l.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.infoOn, l.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tt.warnOn, l.Enabled(ctx, slog.LevelWarn))
		})
	}
}

func TestLogger_WithContextKeepsLoggerWithoutRequestID(t *testing.T) {
	l := NewLogger(&Config{Output: "discard"})
	assert.Same(t, l, l.WithContext(context.Background()))
}

func TestLogger_WithContextAddsRequestID(t *testing.T) {
	l := NewLogger(&Config{Output: "discard"})
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	assert.NotSame(t, l, l.WithContext(ctx))
}

func TestLogger_Performance(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	l.Performance("journal_prune", 1500*time.Millisecond, slog.Int64("removed", 4))

	var record map[string]any
	assert.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "performance", record["msg"])
	assert.Equal(t, "journal_prune", record["operation"])
	assert.Equal(t, float64(1500), record["duration_ms"])
	assert.Equal(t, float64(4), record["removed"])
}
