package ctl

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cecinput/cecinput/dispatch"
	"github.com/cecinput/cecinput/internal/daemon"
	"github.com/cecinput/cecinput/keymap"
)

// Controller is the part of the daemon the control socket drives.
type Controller interface {
	Push(cmd dispatch.Command) bool
	Status() daemon.Status
}

type PingResponse struct {
	Server  string `json:"server"`
	Version string `json:"version"`
}

type CommandResponse struct {
	Queued string `json:"queued"`
}

// KeymapResponse maps remote key names to the output key names they produce.
type KeymapResponse struct {
	Keys map[string][]string `json:"keys"`
}

// RegisterRoutes installs every control route on r.
func RegisterRoutes(r *Router, c Controller, keys *keymap.Store, names *keymap.Names, version string) {
	r.Register("ping", Ping(version))
	r.Register("status", Status(c))
	r.Register("key/{name}", Key(c, names))
	r.Register("standby", Push(c, dispatch.Command{Kind: dispatch.Standby}))
	r.Register("restart", Push(c, dispatch.Command{Kind: dispatch.Restart}))
	r.Register("exit", Push(c, dispatch.Command{Kind: dispatch.Exit}))
	r.Register("keymap", Keymap(keys, names))
}

func writeJSON(res *Response, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	res.JSON = string(b)
	return nil
}

func Ping(version string) HandlerFunc {
	return func(req *Request, res *Response, logger *slog.Logger) error {
		return writeJSON(res, PingResponse{Server: "cecinput", Version: version})
	}
}

func Status(c Controller) HandlerFunc {
	return func(req *Request, res *Response, logger *slog.Logger) error {
		return writeJSON(res, c.Status())
	}
}

// Push queues a fixed command.
func Push(c Controller, cmd dispatch.Command) HandlerFunc {
	return func(req *Request, res *Response, logger *slog.Logger) error {
		return queue(c, cmd, res, logger)
	}
}

// Key queues a tap of the named remote key, e.g. "key/select".
func Key(c Controller, names *keymap.Names) HandlerFunc {
	return func(req *Request, res *Response, logger *slog.Logger) error {
		name := strings.ToUpper(req.Params["name"])
		code, ok := names.Remote(name)
		if !ok {
			return ErrNotFound(fmt.Sprintf("unknown remote key: %s", name))
		}
		return queue(c, dispatch.Press(code), res, logger)
	}
}

func queue(c Controller, cmd dispatch.Command, res *Response, logger *slog.Logger) error {
	if !c.Push(cmd) {
		return ErrConflict("daemon is not accepting commands")
	}
	logger.Info("Queued command from control socket", "command", cmd)
	return writeJSON(res, CommandResponse{Queued: cmd.String()})
}

// Keymap dumps the active key table. Unmapped remote keys are omitted.
func Keymap(keys *keymap.Store, names *keymap.Names) HandlerFunc {
	return func(req *Request, res *Response, logger *slog.Logger) error {
		t := keys.Load()
		out := KeymapResponse{Keys: map[string][]string{}}
		for _, remote := range names.RemoteNames() {
			code, _ := names.Remote(remote)
			chord, ok := t.Lookup(code)
			if !ok || chord.Empty() {
				continue
			}
			outs := make([]string, 0, chord.Len())
			for _, k := range chord.Keys() {
				if n, ok := names.OutputName(k); ok {
					outs = append(outs, n)
				} else {
					outs = append(outs, k.String())
				}
			}
			out.Keys[remote] = outs
		}
		return writeJSON(res, out)
	}
}
