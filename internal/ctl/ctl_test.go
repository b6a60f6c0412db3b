package ctl_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecinput/cecinput/cec"
	"github.com/cecinput/cecinput/ctlclient"
	"github.com/cecinput/cecinput/dispatch"
	"github.com/cecinput/cecinput/internal/ctl"
	"github.com/cecinput/cecinput/internal/daemon"
	"github.com/cecinput/cecinput/keymap"
)

type fakeController struct {
	mu     sync.Mutex
	pushed []dispatch.Command
	reject bool
	status daemon.Status
}

func (c *fakeController) Push(cmd dispatch.Command) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reject {
		return false
	}
	c.pushed = append(c.pushed, cmd)
	return true
}

func (c *fakeController) Status() daemon.Status { return c.status }

func (c *fakeController) Pushed() []dispatch.Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.pushed)
}

func startServer(t *testing.T, c ctl.Controller) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "c.sock")
	srv := ctl.New(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctl.RegisterRoutes(srv.Router(), c, keymap.NewStore(keymap.Default()), keymap.NewNames(), "test")
	require.NoError(t, srv.Start())
	t.Cleanup(srv.Close)
	return path
}

func TestRouterMatch(t *testing.T) {
	r := ctl.NewRouter()
	var hit string
	mk := func(name string) ctl.HandlerFunc {
		return func(*ctl.Request, *ctl.Response, *slog.Logger) error { hit = name; return nil }
	}
	r.Register("status", mk("status"))
	r.Register("key/{name}", mk("key"))

	tests := []struct {
		path   string
		want   string
		params map[string]string
	}{
		{"status", "status", map[string]string{}},
		{"STATUS", "status", map[string]string{}},
		{"key/select", "key", map[string]string{"name": "select"}},
		{"key", "", nil},
		{"key/select/extra", "", nil},
		{"other", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			hit = ""
			h, params := r.Match(tt.path)
			if tt.want == "" {
				assert.Nil(t, h)
				return
			}
			require.NotNil(t, h)
			require.NoError(t, h(nil, nil, nil))
			assert.Equal(t, tt.want, hit)
			assert.Equal(t, tt.params, params)
		})
	}
	assert.Equal(t, []string{"status", "key/{name}"}, r.Routes())
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, ctl.WrapError(nil))

	nf := ctl.ErrNotFound("x")
	assert.Same(t, nf, ctl.WrapError(nf))
	assert.Same(t, nf, ctl.WrapError(errors.Join(errors.New("ctx"), nf)))

	e := ctl.WrapError(errors.New("boom"))
	assert.Equal(t, 500, e.Status)
	assert.Equal(t, "500 Internal Server Error: boom", e.Error())
}

func TestServerRoutes(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		reject     bool
		want       string
		wantPushed []dispatch.Command
	}{
		{
			name: "ping",
			path: "ping",
			want: `{"server":"cecinput","version":"test"}`,
		},
		{
			name:       "key",
			path:       "key/select",
			want:       `{"queued":"keypress(select)"}`,
			wantPushed: []dispatch.Command{dispatch.Press(cec.KeySelect)},
		},
		{
			name:       "key with underscore",
			path:       "key/left_up",
			want:       `{"queued":"keypress(left up)"}`,
			wantPushed: []dispatch.Command{dispatch.Press(cec.KeyLeftUp)},
		},
		{
			name: "unknown key",
			path: "key/bogus",
			want: `{"status":404,"title":"Not Found","detail":"unknown remote key: BOGUS"}`,
		},
		{
			name:       "standby",
			path:       "standby",
			want:       `{"queued":"standby"}`,
			wantPushed: []dispatch.Command{{Kind: dispatch.Standby}},
		},
		{
			name:       "restart",
			path:       "restart",
			want:       `{"queued":"restart"}`,
			wantPushed: []dispatch.Command{{Kind: dispatch.Restart}},
		},
		{
			name:       "exit",
			path:       "exit",
			want:       `{"queued":"exit"}`,
			wantPushed: []dispatch.Command{{Kind: dispatch.Exit}},
		},
		{
			name:   "rejected while stopped",
			path:   "standby",
			reject: true,
			want:   `{"status":409,"title":"Conflict","detail":"daemon is not accepting commands"}`,
		},
		{
			name: "unknown path",
			path: "nope",
			want: `{"status":404,"title":"Not Found","detail":"unknown path: nope"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeController{reject: tt.reject}
			path := startServer(t, c)

			line, err := ctlclient.NewTransport(path).Do(tt.path, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, line)
			assert.Equal(t, tt.wantPushed, c.Pushed())
		})
	}
}

func TestServerStatus(t *testing.T) {
	c := &fakeController{status: daemon.Status{Running: true, Active: true, LogicalAddress: "4 (Playback 1)", Held: "none", Cycles: 2}}
	path := startServer(t, c)

	line, err := ctlclient.NewTransport(path).Do("status", nil, nil)
	require.NoError(t, err)

	var got daemon.Status
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, c.status, got)
}

func TestServerKeymap(t *testing.T) {
	path := startServer(t, &fakeController{})

	line, err := ctlclient.NewTransport(path).Do("keymap", nil, nil)
	require.NoError(t, err)

	var got ctl.KeymapResponse
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, []string{"ENTER"}, got.Keys["SELECT"])
	assert.Equal(t, []string{"LEFT", "UP"}, got.Keys["LEFT_UP"])
	assert.NotContains(t, got.Keys, "NUMBER11")
}

func TestServerSocketMode(t *testing.T) {
	path := startServer(t, &fakeController{})
	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, ctl.SocketMode, fi.Mode().Perm())
	assert.NotZero(t, fi.Mode()&os.ModeSocket)
}

func TestServerReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	ln.(*net.UnixListener).SetUnlinkOnClose(false)
	require.NoError(t, ln.Close())

	srv := ctl.New(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, srv.Start())
	srv.Close()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "socket removed on close")
}

func TestServerRefusesRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.sock")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	srv := ctl.New(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err := srv.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a socket")
}

func TestServerMissingTerminator(t *testing.T) {
	path := startServer(t, &fakeController{})

	conn, err := net.Dial("unix", path)
	require.NoError(t, err)
	defer conn.Close()
	_, err = conn.Write([]byte("ping"))
	require.NoError(t, err)
	require.NoError(t, conn.(*net.UnixConn).CloseWrite())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	b, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, `{"status":400,"title":"Bad Request","detail":"missing request terminator"}`+"\n", string(b))
}
