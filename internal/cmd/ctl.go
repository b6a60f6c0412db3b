package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cecinput/cecinput/ctlclient"
	"github.com/cecinput/cecinput/internal/ctl"
)

// Ctl sends one request to a running daemon.
type Ctl struct {
	Path    string        `arg:"" help:"Request path: ping, status, key/<name>, standby, restart, exit, keymap"`
	Payload string        `arg:"" optional:"" help:"Request payload"`
	Socket  string        `help:"Control socket path" default:"${ctl_socket}" env:"CECINPUT_CTL_SOCKET"`
	Timeout time.Duration `help:"Request timeout" default:"5s"`
}

func (c *Ctl) Run() error {
	_, tty := terminalWidth(os.Stdout)
	return c.Do(context.Background(), os.Stdout, tty)
}

// Do performs the request and writes the response to w, indented when pretty
// is set. A problem response is returned as a *ctl.Error.
func (c *Ctl) Do(ctx context.Context, w io.Writer, pretty bool) error {
	t := ctlclient.NewTransportWithConfig(c.Socket, &ctlclient.Config{
		DialTimeout:  c.Timeout,
		ReadTimeout:  c.Timeout,
		WriteTimeout: c.Timeout,
	})
	line, err := ctlclient.WithTransport(t).Raw(ctx, c.Path, c.Payload)
	if err != nil {
		return fmt.Errorf("control socket %s: %w", c.Socket, err)
	}

	var problem ctl.Error
	if err := json.Unmarshal([]byte(line), &problem); err == nil && problem.Status != 0 {
		return &problem
	}

	out := line
	if pretty && line != "" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(line), "", "  "); err == nil {
			out = buf.String()
		}
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
