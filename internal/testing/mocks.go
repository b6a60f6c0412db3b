package testing

import (
	"fmt"
	"io"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/cecinput/cecinput/cec"
	"github.com/cecinput/cecinput/keymap"
	"github.com/cecinput/cecinput/keystate"
)

// KeyEvent is one recorded sink call. Sync calls are recorded with Sync set.
type KeyEvent struct {
	Key    keymap.OutputKey
	Action keystate.Action
	Sync   bool
}

func (e KeyEvent) String() string {
	if e.Sync {
		return "SYNC"
	}
	return fmt.Sprintf("%s %s", e.Action, e.Key)
}

// Press, Rel, Rep and Sync build expected KeyEvent sequences.
func Press(k keymap.OutputKey) KeyEvent { return KeyEvent{Key: k, Action: keystate.Press} }
func Rel(k keymap.OutputKey) KeyEvent   { return KeyEvent{Key: k, Action: keystate.Release} }
func Rep(k keymap.OutputKey) KeyEvent   { return KeyEvent{Key: k, Action: keystate.Repeat} }

var Sync = KeyEvent{Sync: true}

// RecordingSink is a keystate.Sink that remembers every call.
type RecordingSink struct {
	mu     sync.Mutex
	events []KeyEvent
	// Err is returned from every call when set.
	Err error
}

func (s *RecordingSink) Emit(key keymap.OutputKey, action keystate.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, KeyEvent{Key: key, Action: action})
	return s.Err
}

func (s *RecordingSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Sync)
	return s.Err
}

func (s *RecordingSink) Events() []KeyEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.events)
}

func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// SleepRecorder replaces time.Sleep and records the requested durations.
type SleepRecorder struct {
	mu     sync.Mutex
	Sleeps []time.Duration
}

func (r *SleepRecorder) Sleep(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sleeps = append(r.Sleeps, d)
}

// FakeAdapter is an in-memory cec.Adapter. Tests drive callbacks through
// Handler after Open.
type FakeAdapter struct {
	t *testing.T

	mu          sync.Mutex
	handler     cec.Handler
	opens       int
	closes      []bool
	activations int

	// OpenErr is returned from Open when set.
	OpenErr error
	// PingResult is returned from Ping.
	PingResult bool
	// Opened receives the open count after each successful Open.
	Opened chan int
}

func NewFakeAdapter(t *testing.T) *FakeAdapter {
	return &FakeAdapter{t: t, PingResult: true, Opened: make(chan int, 16)}
}

func (a *FakeAdapter) Open(selector string, h cec.Handler) error {
	a.mu.Lock()
	if a.OpenErr != nil {
		a.mu.Unlock()
		return a.OpenErr
	}
	a.handler = h
	a.opens++
	n := a.opens
	a.mu.Unlock()
	a.Opened <- n
	return nil
}

func (a *FakeAdapter) Close(final bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = nil
	a.closes = append(a.closes, final)
	return nil
}

func (a *FakeAdapter) Ping() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.PingResult
}

func (a *FakeAdapter) MakeActiveSource() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.activations++
	return nil
}

func (a *FakeAdapter) ListDevices(w io.Writer) error {
	_, err := fmt.Fprintln(w, "fake adapter")
	return err
}

// Handler returns the handler registered by the last Open. It fails the test
// when the adapter is closed.
func (a *FakeAdapter) Handler() cec.Handler {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.handler == nil {
		a.t.Fatalf("fake adapter is not open")
	}
	return a.handler
}

func (a *FakeAdapter) SetPing(ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.PingResult = ok
}

func (a *FakeAdapter) Closes() []bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.closes)
}

func (a *FakeAdapter) Activations() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activations
}

var _ cec.Adapter = (*FakeAdapter)(nil)
var _ keystate.Sink = (*RecordingSink)(nil)
