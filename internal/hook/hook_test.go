package hook_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecinput/cecinput/internal/hook"
)

func newRunner() (*hook.Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	return hook.NewRunner(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))), &buf
}

func TestRun(t *testing.T) {
	r, logs := newRunner()
	marker := filepath.Join(t.TempDir(), "ran")

	require.NoError(t, r.Run(context.Background(), "onstandby", "echo hi && touch "+marker))
	_, err := os.Stat(marker)
	assert.NoError(t, err)
	assert.Contains(t, logs.String(), "output=hi")
}

func TestRunEmptyIsNoop(t *testing.T) {
	r, logs := newRunner()
	assert.NoError(t, r.Run(context.Background(), "onactivate", "   "))
	assert.Empty(t, logs.String())
}

func TestRunFailureIsReported(t *testing.T) {
	r, logs := newRunner()
	err := r.Run(context.Background(), "ondeactivate", "exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ondeactivate")
	assert.Contains(t, logs.String(), "level=ERROR msg=\"Hook failed\"")
}

func TestRunTimeout(t *testing.T) {
	r, _ := newRunner()
	r.Timeout = 50 * time.Millisecond
	start := time.Now()
	err := r.Run(context.Background(), "slow", "sleep 5")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
}
