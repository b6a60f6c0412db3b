package uinput

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	evdev "github.com/gvalkov/golang-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecinput/cecinput/keymap"
	"github.com/cecinput/cecinput/keystate"
)

func TestUserDevLayout(t *testing.T) {
	dev := userDev{ID: inputID{Bustype: busVirtual, Vendor: 1, Product: 2, Version: 3}}
	copy(dev.Name[:], "cecinput")
	b := encodeUserDev(&dev)

	require.Len(t, b, 80+8+4+4*absCnt*4)
	assert.Equal(t, "cecinput", string(bytes.TrimRight(b[:80], "\x00")))
	assert.Equal(t, uint16(busVirtual), binary.NativeEndian.Uint16(b[80:]))
	assert.Equal(t, uint16(2), binary.NativeEndian.Uint16(b[84:]))
}

func readEvents(t *testing.T, b []byte) []evdev.InputEvent {
	t.Helper()
	var out []evdev.InputEvent
	r := bytes.NewReader(b)
	for r.Len() > 0 {
		var ev evdev.InputEvent
		require.NoError(t, binary.Read(r, binary.NativeEndian, &ev))
		out = append(out, ev)
	}
	return out
}

func TestKeyboardEvents(t *testing.T) {
	var buf bytes.Buffer
	k := &Keyboard{w: &buf, name: "test"}

	require.NoError(t, k.Emit(keymap.KeyEnter, keystate.Press))
	require.NoError(t, k.Emit(keymap.KeyEnter, keystate.Repeat))
	require.NoError(t, k.Emit(keymap.KeyEnter, keystate.Release))
	require.NoError(t, k.Sync())

	evs := readEvents(t, buf.Bytes())
	require.Len(t, evs, 4)
	assert.Equal(t, uint16(evdev.EV_KEY), evs[0].Type)
	assert.Equal(t, uint16(evdev.KEY_ENTER), evs[0].Code)
	assert.Equal(t, int32(1), evs[0].Value)
	assert.Equal(t, int32(2), evs[1].Value)
	assert.Equal(t, int32(0), evs[2].Value)
	assert.Equal(t, uint16(evdev.EV_SYN), evs[3].Type)
	assert.Equal(t, uint16(evdev.SYN_REPORT), evs[3].Code)

	require.NoError(t, k.Close())
	assert.ErrorIs(t, k.Sync(), os.ErrClosed)
}

func TestCreateRejectsNonUinputNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uinput")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := Create(path, "cecinput", []keymap.OutputKey{keymap.KeyEnter})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UI_SET_EVBIT")

	_, err = Create(filepath.Join(t.TempDir(), "missing"), "cecinput", nil)
	assert.Error(t, err)

	_, err = Create(path, "", nil)
	assert.Error(t, err)
}
