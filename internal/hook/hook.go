// Package hook runs the user's shell commands for lifecycle events.
package hook

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single hook run.
const DefaultTimeout = 30 * time.Second

// Runner executes hook commands through /bin/sh.
type Runner struct {
	Shell   string
	Timeout time.Duration
	Logger  *slog.Logger
}

func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{Shell: "/bin/sh", Timeout: DefaultTimeout, Logger: logger}
}

// Run executes command and waits for it. An empty command is a no-op.
// Failures are logged and returned.
func (r *Runner) Run(ctx context.Context, name, command string) error {
	if strings.TrimSpace(command) == "" {
		return nil
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, r.Shell, "-c", command)
	cmd.Stdout = &out
	cmd.Stderr = &out
	cmd.WaitDelay = time.Second

	r.Logger.Info("Running hook", "hook", name, "command", command)
	err := cmd.Run()
	if s := strings.TrimSpace(out.String()); s != "" {
		r.Logger.Debug("Hook output", "hook", name, "output", s)
	}
	if err != nil {
		r.Logger.Error("Hook failed", "hook", name, "command", command, "error", err)
		return fmt.Errorf("hook %s: %w", name, err)
	}
	return nil
}
