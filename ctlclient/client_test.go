package ctlclient_test

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecinput/cecinput/ctlclient"
	"github.com/cecinput/cecinput/internal/ctl"
)

// startTestServer accepts one connection, records the request up to the
// terminator and writes response.
func startTestServer(t *testing.T, response string) (path string, got <-chan string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "c.sock")
	ln, err := net.Listen("unix", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	ch := make(chan string, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var buf []byte
		var tmp [1]byte
		for {
			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			if _, err := conn.Read(tmp[:]); err != nil {
				break
			}
			buf = append(buf, tmp[0])
			if tmp[0] == '\x00' {
				break
			}
		}
		ch <- string(buf)
		_, _ = conn.Write([]byte(response))
	}()
	return path, ch
}

func TestTransportFraming(t *testing.T) {
	type S struct {
		A int `json:"a"`
	}
	tests := []struct {
		name    string
		path    string
		payload any
		params  map[string]string
		want    string
	}{
		{name: "nil payload", path: "ping", want: "ping\x00"},
		{name: "empty string payload", path: "ping", payload: "", want: "ping\x00"},
		{name: "bytes payload", path: "echo", payload: []byte("raw"), want: "echo raw\x00"},
		{name: "string with newline", path: "echo", payload: "a\nb", want: "echo a\nb\x00"},
		{name: "struct payload", path: "echo", payload: S{A: 7}, want: "echo {\"a\":7}\x00"},
		{name: "path params", path: "key/{name}", params: map[string]string{"name": "SELECT"}, want: "key/select\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, got := startTestServer(t, "ok\n")
			out, err := ctlclient.NewTransport(path).Do(tt.path, tt.payload, tt.params)
			require.NoError(t, err)
			assert.Equal(t, "ok", out)
			assert.Equal(t, tt.want, <-got)
		})
	}
}

func TestTransportDialError(t *testing.T) {
	_, err := ctlclient.NewTransport(filepath.Join(t.TempDir(), "missing.sock")).Do("ping", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dial")
}

func TestTransportCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ctlclient.NewTransport("/nonexistent").DoCtx(ctx, "ping", nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func testClient(responses map[string]string, err error) *ctlclient.Client {
	return ctlclient.WithTransport(ctlclient.NewMockTransport(func(path string, _ any, _ map[string]string) (string, error) {
		if err != nil {
			return "", err
		}
		return responses[path], nil
	}))
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	responses := map[string]string{
		"ping":       `{"server":"cecinput","version":"dev"}`,
		"status":     `{"running":true,"active":false,"logicalAddress":"4 (Playback 1)","held":"none","cycles":1,"device":""}`,
		"key/{name}": `{"queued":"keypress(select)"}`,
		"standby":    `{"status":409,"title":"Conflict","detail":"daemon is not accepting commands"}`,
		"keymap":     `{"keys":{"SELECT":["ENTER"]}}`,
	}
	c := testClient(responses, nil)

	ping, err := c.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dev", ping.Version)

	st, err := c.Status(ctx)
	require.NoError(t, err)
	assert.True(t, st.Running)
	assert.Equal(t, "4 (Playback 1)", st.LogicalAddress)

	q, err := c.Key(ctx, "SELECT")
	require.NoError(t, err)
	assert.Equal(t, "keypress(select)", q.Queued)

	_, err = c.Standby(ctx)
	var ce *ctl.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 409, ce.Status)

	km, err := c.Keymap(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ENTER"}, km.Keys["SELECT"])

	_, err = c.Exit(ctx)
	assert.EqualError(t, err, "empty response")
}

func TestClientTransportError(t *testing.T) {
	sentinel := errors.New("dial failed")
	_, err := testClient(nil, sentinel).Restart(context.Background())
	assert.ErrorIs(t, err, sentinel)
}
