package cecdev

import (
	"time"

	"github.com/cecinput/cecinput/cec"
)

// DefaultRepeatTimeout is how long a held remote key survives without a
// repeated USER_CONTROL_PRESSED before it is released.
const DefaultRepeatTimeout = 500 * time.Millisecond

// keyTracker turns USER_CONTROL_PRESSED / USER_CONTROL_RELEASED into
// KeyPress notifications carrying hold durations.
type keyTracker struct {
	timeout time.Duration
	holding bool
	code    cec.UserControlCode
	since   time.Time
	last    time.Time
}

func (t *keyTracker) pressed(code cec.UserControlCode, now time.Time) []cec.KeyPress {
	var out []cec.KeyPress
	if t.holding && t.code != code {
		out = append(out, t.release(now))
	}
	if !t.holding {
		t.holding = true
		t.code = code
		t.since = now
	}
	t.last = now
	return append(out, cec.KeyPress{Code: code})
}

func (t *keyTracker) released(now time.Time) []cec.KeyPress {
	if !t.holding {
		return nil
	}
	return []cec.KeyPress{t.release(now)}
}

// expire releases a held key whose repeat stopped arriving.
func (t *keyTracker) expire(now time.Time) []cec.KeyPress {
	if !t.holding || now.Sub(t.last) < t.timeout {
		return nil
	}
	return []cec.KeyPress{t.release(now)}
}

// deadline reports when expire will next release a key.
func (t *keyTracker) deadline() (time.Time, bool) {
	if !t.holding {
		return time.Time{}, false
	}
	return t.last.Add(t.timeout), true
}

func (t *keyTracker) release(now time.Time) cec.KeyPress {
	d := now.Sub(t.since).Truncate(time.Millisecond)
	if d < time.Millisecond {
		d = time.Millisecond
	}
	t.holding = false
	return cec.KeyPress{Code: t.code, Duration: d}
}
