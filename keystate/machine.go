// Package keystate turns remote key notifications into ordered press, repeat
// and release events on the virtual keyboard.
package keystate

import (
	"log/slog"
	"sync"
	"time"

	evdev "github.com/gvalkov/golang-evdev"

	"github.com/cecinput/cecinput/cec"
	"github.com/cecinput/cecinput/keymap"
)

// Action is the value of an EV_KEY event.
type Action int32

const (
	Release Action = Action(evdev.KeyUp)
	Press   Action = Action(evdev.KeyDown)
	Repeat  Action = Action(evdev.KeyHold)
)

func (a Action) String() string {
	switch a {
	case Release:
		return "release"
	case Press:
		return "press"
	case Repeat:
		return "repeat"
	default:
		return "unknown"
	}
}

// Sink receives key events. Events become visible to readers on Sync.
type Sink interface {
	Emit(key keymap.OutputKey, action Action) error
	Sync() error
}

// Dwell is how long a synthesized press is held before its release.
const Dwell = 100 * time.Millisecond

// Machine tracks the chord currently held on the sink. It is safe for
// concurrent use; calls are serialized.
type Machine struct {
	mu     sync.Mutex
	keys   *keymap.Store
	sink   Sink
	logger *slog.Logger
	sleep  func(time.Duration)
	held   keymap.Chord
}

type Option func(*Machine)

// WithSleep replaces time.Sleep for the dwell between press and release.
func WithSleep(fn func(time.Duration)) Option {
	return func(m *Machine) { m.sleep = fn }
}

func New(keys *keymap.Store, sink Sink, logger *slog.Logger, opts ...Option) *Machine {
	m := &Machine{
		keys:   keys,
		sink:   sink,
		logger: logger,
		sleep:  time.Sleep,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Held returns the chord that is pressed and not yet released.
func (m *Machine) Held() keymap.Chord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held
}

// Translate applies one key notification. A zero duration is a press or an
// autorepeat; a positive duration is a press that already ended.
func (m *Machine) Translate(kp cec.KeyPress) {
	m.mu.Lock()
	defer m.mu.Unlock()

	chord, ok := m.keys.Load().Lookup(kp.Code)
	if !ok {
		m.logger.Warn("Ignoring out of range key code", "code", uint8(kp.Code))
		return
	}
	if chord.Empty() {
		m.logger.Debug("Key not mapped", "key", kp.Code)
		return
	}
	m.logger.Debug("Key", "key", kp.Code, "duration", kp.Duration, "chord", chord)

	if kp.Duration == 0 {
		if chord == m.held {
			m.emitAll(chord, Repeat)
		} else {
			m.emitAll(m.held, Release)
			m.emitAll(chord, Press)
			m.held = chord
		}
		m.sync()
		return
	}

	if chord != m.held {
		m.emitAll(m.held, Release)
		m.emitAll(chord, Press)
		m.held = chord
		m.sync()
		m.sleep(Dwell)
	}
	m.emitAll(m.held, Release)
	m.held = keymap.Chord{}
	m.sync()
}

// Tap presses and releases code as if the remote sent both notifications.
func (m *Machine) Tap(code cec.UserControlCode) {
	m.Translate(cec.KeyPress{Code: code})
	m.sleep(Dwell)
	m.Translate(cec.KeyPress{Code: code, Duration: Dwell})
}

// ReleaseAll releases whatever is still held.
func (m *Machine) ReleaseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.held.Empty() {
		return
	}
	m.emitAll(m.held, Release)
	m.held = keymap.Chord{}
	m.sync()
}

func (m *Machine) emitAll(c keymap.Chord, a Action) {
	for _, k := range c.Keys() {
		if err := m.sink.Emit(k, a); err != nil {
			m.logger.Error("Failed to emit key event", "key", k, "action", a, "error", err)
		}
	}
}

func (m *Machine) sync() {
	if err := m.sink.Sync(); err != nil {
		m.logger.Error("Failed to sync key events", "error", err)
	}
}
