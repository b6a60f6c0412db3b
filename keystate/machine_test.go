package keystate_test

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cecinput/cecinput/cec"
	th "github.com/cecinput/cecinput/internal/testing"
	"github.com/cecinput/cecinput/keymap"
	"github.com/cecinput/cecinput/keystate"
)

func newMachine(t *testing.T) (*keystate.Machine, *th.RecordingSink, *th.SleepRecorder) {
	t.Helper()
	sink := &th.RecordingSink{}
	sleeps := &th.SleepRecorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := keystate.New(keymap.NewStore(keymap.Default()), sink, logger, keystate.WithSleep(sleeps.Sleep))
	return m, sink, sleeps
}

func press(code cec.UserControlCode) cec.KeyPress { return cec.KeyPress{Code: code} }

func timed(code cec.UserControlCode, ms int) cec.KeyPress {
	return cec.KeyPress{Code: code, Duration: time.Duration(ms) * time.Millisecond}
}

func TestTranslate_OutOfRange(t *testing.T) {
	m, sink, _ := newMachine(t)
	m.Translate(press(cec.KeyUp))
	sink.Reset()

	for _, code := range []cec.UserControlCode{cec.UserControlCodeMax + 1, 0xA0, cec.KeyUnknown} {
		m.Translate(press(code))
		m.Translate(timed(code, 50))
	}
	assert.Empty(t, sink.Events())
	assert.Equal(t, keymap.NewChord(keymap.KeyUp), m.Held())
}

func TestTranslate_Unmapped(t *testing.T) {
	m, sink, _ := newMachine(t)
	m.Translate(press(cec.KeyNextFavorite))
	m.Translate(timed(cec.KeyNumber11, 30))
	assert.Empty(t, sink.Events())
	assert.True(t, m.Held().Empty())
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name       string
		setup      []cec.KeyPress
		in         cec.KeyPress
		want       []th.KeyEvent
		wantHeld   keymap.Chord
		wantSleeps int
	}{
		{
			name:     "press from idle",
			in:       press(cec.KeyUp),
			want:     []th.KeyEvent{th.Press(keymap.KeyUp), th.Sync},
			wantHeld: keymap.NewChord(keymap.KeyUp),
		},
		{
			name:     "repeat of held chord",
			setup:    []cec.KeyPress{press(cec.KeyRightUp)},
			in:       press(cec.KeyRightUp),
			want:     []th.KeyEvent{th.Rep(keymap.KeyRight), th.Rep(keymap.KeyUp), th.Sync},
			wantHeld: keymap.NewChord(keymap.KeyRight, keymap.KeyUp),
		},
		{
			name:  "new press releases stale hold",
			setup: []cec.KeyPress{press(cec.KeyRightUp)},
			in:    press(cec.KeyLeftDown),
			want: []th.KeyEvent{
				th.Rel(keymap.KeyRight), th.Rel(keymap.KeyUp),
				th.Press(keymap.KeyLeft), th.Press(keymap.KeyDown),
				th.Sync,
			},
			wantHeld: keymap.NewChord(keymap.KeyLeft, keymap.KeyDown),
		},
		{
			name:     "different remote key with same chord repeats",
			setup:    []cec.KeyPress{press(cec.KeySelect)},
			in:       press(cec.KeyEnter),
			want:     []th.KeyEvent{th.Rep(keymap.KeyEnter), th.Sync},
			wantHeld: keymap.NewChord(keymap.KeyEnter),
		},
		{
			name: "timed press from idle",
			in:   timed(cec.KeyPlay, 250),
			want: []th.KeyEvent{
				th.Press(keymap.KeyPlay), th.Sync,
				th.Rel(keymap.KeyPlay), th.Sync,
			},
			wantSleeps: 1,
		},
		{
			name:  "timed release of held chord",
			setup: []cec.KeyPress{press(cec.KeyDown)},
			in:    timed(cec.KeyDown, 400),
			want:  []th.KeyEvent{th.Rel(keymap.KeyDown), th.Sync},
		},
		{
			name:  "timed press over stale hold",
			setup: []cec.KeyPress{press(cec.KeyDown)},
			in:    timed(cec.KeyRightDown, 120),
			want: []th.KeyEvent{
				th.Rel(keymap.KeyDown),
				th.Press(keymap.KeyRight), th.Press(keymap.KeyDown), th.Sync,
				th.Rel(keymap.KeyRight), th.Rel(keymap.KeyDown), th.Sync,
			},
			wantSleeps: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sink, sleeps := newMachine(t)
			for _, kp := range tt.setup {
				m.Translate(kp)
			}
			sink.Reset()

			m.Translate(tt.in)

			assert.Equal(t, tt.want, sink.Events())
			assert.Equal(t, tt.wantHeld, m.Held())
			assert.Len(t, sleeps.Sleeps, tt.wantSleeps)
			for _, d := range sleeps.Sleeps {
				assert.Equal(t, keystate.Dwell, d)
			}
		})
	}
}

func TestTap(t *testing.T) {
	m, sink, sleeps := newMachine(t)
	m.Tap(cec.KeyPower)

	assert.Equal(t, []th.KeyEvent{
		th.Press(keymap.KeyPower), th.Sync,
		th.Rel(keymap.KeyPower), th.Sync,
	}, sink.Events())
	assert.Equal(t, []time.Duration{keystate.Dwell}, sleeps.Sleeps)
	assert.True(t, m.Held().Empty())
}

func TestReleaseAll(t *testing.T) {
	m, sink, _ := newMachine(t)
	m.ReleaseAll()
	assert.Empty(t, sink.Events())

	m.Translate(press(cec.KeyLeftUp))
	sink.Reset()
	m.ReleaseAll()
	assert.Equal(t, []th.KeyEvent{th.Rel(keymap.KeyLeft), th.Rel(keymap.KeyUp), th.Sync}, sink.Events())
	assert.True(t, m.Held().Empty())
}

func TestSinkErrorsDoNotStopTranslation(t *testing.T) {
	m, sink, _ := newMachine(t)
	sink.Err = errors.New("device gone")
	m.Translate(press(cec.KeyUp))
	assert.Equal(t, []th.KeyEvent{th.Press(keymap.KeyUp), th.Sync}, sink.Events())
	assert.Equal(t, keymap.NewChord(keymap.KeyUp), m.Held())
}

func TestUsesActiveTable(t *testing.T) {
	sink := &th.RecordingSink{}
	store := keymap.NewStore(keymap.Default())
	m := keystate.New(store, sink, slog.New(slog.NewTextHandler(io.Discard, nil)))

	override, err := keymap.ParseOverride(
		strings.NewReader("SELECT=OK\n"), keymap.NewNames(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, err)
	store.Replace(override)

	m.Translate(press(cec.KeySelect))
	assert.Equal(t, []th.KeyEvent{th.Press(keymap.KeyOK), th.Sync}, sink.Events())
}

func TestConcurrentTranslate(t *testing.T) {
	m, sink, _ := newMachine(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.Translate(press(cec.KeyUp))
				m.Translate(timed(cec.KeyUp, 10))
			}
		}()
	}
	wg.Wait()

	// Every press is matched by a release once all goroutines are done.
	depth := 0
	for _, ev := range sink.Events() {
		switch {
		case ev.Sync:
		case ev.Action == keystate.Press:
			depth++
		case ev.Action == keystate.Release:
			depth--
		}
		assert.GreaterOrEqual(t, depth, 0)
		assert.LessOrEqual(t, depth, 1)
	}
	assert.Equal(t, 0, depth)
	assert.True(t, m.Held().Empty())
}
