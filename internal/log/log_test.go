package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", LevelTrace},
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewHandlerSplitsByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(NewHandler(&out, &errOut, LevelTrace))

	logger.Log(context.Background(), LevelTrace, "frame")
	logger.Info("hello")
	logger.Error("boom")

	assert.Contains(t, out.String(), "level=TRACE msg=frame")
	assert.Contains(t, out.String(), "msg=hello")
	assert.NotContains(t, out.String(), "boom")
	assert.Contains(t, errOut.String(), "level=ERROR msg=boom")
	assert.NotContains(t, errOut.String(), "hello")
}

func TestNewHandlerRespectsLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(NewHandler(&out, &errOut, slog.LevelWarn))

	logger.Debug("quiet")
	logger.Info("quiet")
	logger.Warn("loud")

	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("\n")))
	assert.Contains(t, out.String(), "msg=loud")
	assert.Empty(t, errOut.String())
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := &rawLogger{w: &buf, now: func() time.Time {
		return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	}}

	r.Log(true, []byte{0x04, 0x44, 0x01})
	r.Log(false, []byte{0x4f, 0x82, 0x10, 0x00})
	r.Log(true, nil)

	assert.Equal(t,
		"2024/03/01 12:30:00.000 << 04:44:01\n"+
			"2024/03/01 12:30:00.000 >> 4f:82:10:00\n",
		buf.String())
}

func TestRawLoggerNilWriter(t *testing.T) {
	assert.NotPanics(t, func() { NewRaw(nil).Log(true, []byte{1}) })
}
