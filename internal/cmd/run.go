package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cecinput/cecinput/cec"
	"github.com/cecinput/cecinput/cecdev"
	"github.com/cecinput/cecinput/internal/ctl"
	"github.com/cecinput/cecinput/internal/daemon"
	"github.com/cecinput/cecinput/internal/hook"
	"github.com/cecinput/cecinput/internal/log"
	"github.com/cecinput/cecinput/keymap"
	"github.com/cecinput/cecinput/keystate"
	"github.com/cecinput/cecinput/uinput"
)

// Version is set at build time.
var Version = "dev"

const defaultOSDName = "linux PC"

// CtlServerConfig configures the control socket.
type CtlServerConfig struct {
	Socket string `help:"Control socket path; empty disables it" default:"${ctl_socket}" env:"CECINPUT_CTL_SOCKET"`
}

// Run is the daemon command.
type Run struct {
	Device        string          `arg:"" optional:"" help:"CEC adapter: /dev/cecN, N, or empty for the first one" env:"CECINPUT_DEVICE"`
	Name          string          `help:"OSD name shown by the TV (defaults to the host name)" env:"CECINPUT_NAME"`
	Port          string          `help:"HDMI port A, or physical address A.B.C.D" env:"CECINPUT_PORT"`
	DoNotActivate bool            `name:"donotactivate" short:"a" help:"Do not become the active source on startup" env:"CECINPUT_DONOTACTIVATE"`
	Keymap        string          `short:"k" type:"path" help:"Key map override file" env:"CECINPUT_KEYMAP"`
	OnStandby     string          `name:"onstandby" help:"Command to run when the TV sends standby" env:"CECINPUT_ONSTANDBY"`
	OnActivate    string          `name:"onactivate" help:"Command to run when this device becomes the active source" env:"CECINPUT_ONACTIVATE"`
	OnDeactivate  string          `name:"ondeactivate" help:"Command to run when another source becomes active" env:"CECINPUT_ONDEACTIVATE"`
	PingInterval  time.Duration   `help:"Idle time before probing the adapter" default:"43s" env:"CECINPUT_PING_INTERVAL"`
	RepeatTimeout time.Duration   `help:"Release a held key when the remote stops repeating" default:"500ms" env:"CECINPUT_REPEAT_TIMEOUT"`
	UinputPath    string          `help:"uinput device node" default:"/dev/uinput" env:"CECINPUT_UINPUT_PATH"`
	UinputName    string          `help:"Name of the virtual keyboard" default:"cecinput" env:"CECINPUT_UINPUT_NAME"`
	Ctl           CtlServerConfig `embed:"" prefix:"ctl."`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	return r.Serve(context.Background(), logger, rawLogger)
}

// Serve runs the daemon until it exits or ctx is canceled.
func (r *Run) Serve(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	names := keymap.NewNames()
	keys := keymap.NewStore(r.loadKeymap(names, logger))

	osdName := r.osdName()
	var phys cec.PhysicalAddress
	if r.Port != "" {
		p, err := cec.ParsePhysicalAddress(r.Port)
		if err != nil {
			return fmt.Errorf("--port: %w", err)
		}
		phys = p
	}

	kbd, err := uinput.Create(r.UinputPath, r.UinputName, emittableKeys(keys.Load(), names))
	if err != nil {
		return fmt.Errorf("create virtual keyboard: %w", err)
	}
	defer func() {
		if err := kbd.Close(); err != nil {
			logger.Warn("Failed to destroy virtual keyboard", "error", err)
		}
	}()
	logger.Info("Virtual keyboard created", "name", kbd.Name(), "path", r.UinputPath)

	adapter := cecdev.New(cecdev.Config{
		OSDName:         osdName,
		PhysicalAddress: phys,
		RepeatTimeout:   r.RepeatTimeout,
	}, rawLogger)

	machine := keystate.New(keys, kbd, logger)
	d := daemon.New(daemon.Config{
		Device:       r.Device,
		Activate:     !r.DoNotActivate,
		OnStandby:    r.OnStandby,
		OnActivate:   r.OnActivate,
		OnDeactivate: r.OnDeactivate,
		PingInterval: r.PingInterval,
	}, adapter, machine, hook.NewRunner(logger), logger)

	if r.Ctl.Socket != "" {
		srv := ctl.New(r.Ctl.Socket, logger)
		ctl.RegisterRoutes(srv.Router(), d, keys, names, Version)
		if err := srv.Start(); err != nil {
			logger.Warn("Control socket disabled", "error", err)
		} else {
			defer srv.Close()
		}
	}

	logger.Info("Starting cecinput", "version", Version, "device", r.Device, "osdName", osdName,
		"pingInterval", r.PingInterval.String(), "activate", !r.DoNotActivate)
	return d.Run(ctx)
}

// loadKeymap returns the override table when one loads, otherwise the
// defaults.
func (r *Run) loadKeymap(names *keymap.Names, logger *slog.Logger) *keymap.Table {
	if r.Keymap == "" {
		return keymap.Default()
	}
	t, err := keymap.LoadOverride(r.Keymap, names, logger)
	switch {
	case err == nil:
		return t
	case errors.Is(err, keymap.ErrNoMappings):
		logger.Warn("Key map file has no valid mappings, using defaults", "file", r.Keymap)
	default:
		logger.Error("Failed to load key map, using defaults", "file", r.Keymap, "error", err)
	}
	return keymap.Default()
}

func (r *Run) osdName() string {
	if r.Name != "" {
		return r.Name
	}
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return defaultOSDName
}

// emittableKeys is every key the keyboard may send: the active table plus
// every named output key.
func emittableKeys(t *keymap.Table, names *keymap.Names) []keymap.OutputKey {
	seen := map[keymap.OutputKey]bool{}
	var out []keymap.OutputKey
	for _, k := range append(t.OutputKeys(), names.OutputKeys()...) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
