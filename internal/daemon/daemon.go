// Package daemon ties the CEC adapter, the key state machine and the command
// queue together and drives the open, run, close cycle.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cecinput/cecinput/cec"
	"github.com/cecinput/cecinput/dispatch"
	"github.com/cecinput/cecinput/keystate"
)

// Config carries the user settings the daemon acts on.
type Config struct {
	Device       string
	Activate     bool
	OnStandby    string
	OnActivate   string
	OnDeactivate string
	PingInterval time.Duration
}

// HookRunner runs a configured shell command.
type HookRunner interface {
	Run(ctx context.Context, name, command string) error
}

// Daemon is the process-wide context. It implements cec.Handler for the
// adapter and dispatch.Executor for the queue.
type Daemon struct {
	cfg     Config
	adapter cec.Adapter
	keys    *keystate.Machine
	hooks   HookRunner
	queue   *dispatch.Queue
	logger  *slog.Logger

	active atomic.Bool
	la     atomic.Uint32
	cycles atomic.Int64

	notify     func(c chan<- os.Signal, sig ...os.Signal)
	stopNotify func(c chan<- os.Signal)
}

var (
	_ cec.Handler       = (*Daemon)(nil)
	_ dispatch.Executor = (*Daemon)(nil)
)

func New(cfg Config, adapter cec.Adapter, keys *keystate.Machine, hooks HookRunner, logger *slog.Logger) *Daemon {
	d := &Daemon{
		cfg:        cfg,
		adapter:    adapter,
		keys:       keys,
		hooks:      hooks,
		queue:      dispatch.NewQueue(cfg.PingInterval, logger),
		logger:     logger,
		notify:     signal.Notify,
		stopNotify: signal.Stop,
	}
	d.active.Store(cfg.Activate)
	d.la.Store(uint32(cec.LogicalAddressUnknown))
	return d
}

// Run opens the adapter and serves commands until Exit. A Restart closes and
// reopens the adapter. Failing to open the adapter ends Run with an error.
func (d *Daemon) Run(ctx context.Context) error {
	for {
		n := d.cycles.Add(1)
		d.queue.Start()
		if err := d.adapter.Open(d.cfg.Device, d); err != nil {
			d.queue.Stop()
			return fmt.Errorf("open CEC adapter: %w", err)
		}
		d.logger.Info("CEC adapter opened", "device", d.cfg.Device, "cycle", n)

		stopSignals := d.watchSignals(ctx)
		if d.active.Load() {
			if err := d.adapter.MakeActiveSource(); err != nil {
				d.logger.Warn("Failed to become active source", "error", err)
			}
		}

		out := d.queue.Run(d, d.adapter.Ping)

		stopSignals()
		d.keys.ReleaseAll()
		if err := d.adapter.Close(!out.Restart); err != nil {
			d.logger.Warn("Failed to close CEC adapter", "error", err)
		}
		if !out.Restart {
			d.logger.Info("Stopped")
			return nil
		}
		d.logger.Info("Restarting CEC connection", "probeFailed", out.ProbeFailed)
	}
}

// SignalCommand maps a process signal to the command it requests.
func SignalCommand(sig os.Signal) (dispatch.Command, bool) {
	switch sig {
	case syscall.SIGHUP:
		return dispatch.Command{Kind: dispatch.Restart}, true
	case syscall.SIGINT, syscall.SIGTERM:
		return dispatch.Command{Kind: dispatch.Exit}, true
	default:
		return dispatch.Command{}, false
	}
}

// watchSignals forwards SIGHUP, SIGINT, SIGTERM and ctx cancellation to the
// queue until the returned stop function is called.
func (d *Daemon) watchSignals(ctx context.Context) (stop func()) {
	ch := make(chan os.Signal, 4)
	d.notify(ch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctxDone := ctx.Done()
		for {
			select {
			case sig := <-ch:
				if cmd, ok := SignalCommand(sig); ok {
					d.logger.Info("Received signal", "signal", sig, "command", cmd)
					d.queue.Push(cmd)
				}
			case <-ctxDone:
				d.queue.Push(dispatch.Command{Kind: dispatch.Exit})
				ctxDone = nil
			case <-done:
				return
			}
		}
	}()

	return func() {
		d.stopNotify(ch)
		close(done)
		wg.Wait()
	}
}

// Push queues a command for the consumer. It reports false when the daemon
// is not running.
func (d *Daemon) Push(cmd dispatch.Command) bool {
	return d.queue.Push(cmd)
}

// Execute performs queued commands; Restart and Exit never reach it.
func (d *Daemon) Execute(cmd dispatch.Command) {
	switch cmd.Kind {
	case dispatch.Standby:
		if d.cfg.OnStandby != "" {
			d.runHook("onstandby", d.cfg.OnStandby)
		} else {
			d.keys.Tap(cec.KeyPower)
		}
	case dispatch.Active:
		d.active.Store(true)
		d.runHook("onactivate", d.cfg.OnActivate)
	case dispatch.Inactive:
		d.active.Store(false)
		d.runHook("ondeactivate", d.cfg.OnDeactivate)
	case dispatch.KeyPress:
		d.keys.Tap(cmd.Key)
	}
}

func (d *Daemon) runHook(name, command string) {
	if command == "" {
		return
	}
	// Errors are logged by the runner and do not affect the loop.
	_ = d.hooks.Run(context.Background(), name, command)
}

// Status is a snapshot for the control socket.
type Status struct {
	Running        bool   `json:"running"`
	Active         bool   `json:"active"`
	LogicalAddress string `json:"logicalAddress"`
	Held           string `json:"held"`
	Cycles         int64  `json:"cycles"`
	Device         string `json:"device"`
}

func (d *Daemon) Status() Status {
	la := d.LogicalAddress()
	laStr := "unknown"
	if la.Valid() {
		laStr = fmt.Sprintf("%d (%s)", uint8(la), la)
	}
	return Status{
		Running:        d.queue.Running(),
		Active:         d.active.Load(),
		LogicalAddress: laStr,
		Held:           d.keys.Held().String(),
		Cycles:         d.cycles.Load(),
		Device:         d.cfg.Device,
	}
}

func (d *Daemon) LogicalAddress() cec.LogicalAddress {
	return cec.LogicalAddress(d.la.Load())
}

func (d *Daemon) Active() bool { return d.active.Load() }
