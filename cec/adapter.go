package cec

import (
	"io"
	"log/slog"
	"time"
)

// KeyPress is a remote button notification. A zero Duration means the button
// went down; a positive Duration means it was released after being held that
// long.
type KeyPress struct {
	Code     UserControlCode
	Duration time.Duration
}

// Alert is an out-of-band adapter condition.
type Alert int

const (
	AlertServiceDevice Alert = iota
	AlertConnectionLost
	AlertPermissionError
	AlertPortBusy
	AlertPhysicalAddressError
	AlertTVPollFailed
)

func (a Alert) String() string {
	switch a {
	case AlertServiceDevice:
		return "service device"
	case AlertConnectionLost:
		return "connection lost"
	case AlertPermissionError:
		return "permission error"
	case AlertPortBusy:
		return "port busy"
	case AlertPhysicalAddressError:
		return "physical address error"
	case AlertTVPollFailed:
		return "TV poll failed"
	default:
		return "unknown"
	}
}

// MenuState is the device menu state reported through MENU_STATUS.
type MenuState byte

const (
	MenuStateActivated   MenuState = 0x00
	MenuStateDeactivated MenuState = 0x01
)

func (s MenuState) String() string {
	if s == MenuStateActivated {
		return "activated"
	}
	return "deactivated"
}

// Handler receives adapter notifications. Implementations must not block:
// callbacks run on the adapter's reader goroutine, one at a time.
type Handler interface {
	OnLogMessage(level slog.Level, msg string)
	OnKeyPress(key KeyPress)
	OnCommand(msg Message)
	OnAlert(alert Alert, param int)
	OnConfigurationChanged(la LogicalAddress)
	OnMenuStateChanged(state MenuState)
	OnSourceActivated(la LogicalAddress, activated bool)
}

// Adapter is a connection to a single CEC adapter.
type Adapter interface {
	// Open connects to the adapter picked by selector (empty for the first
	// one found) and starts delivering callbacks to h.
	Open(selector string, h Handler) error
	// Close stops callbacks before returning. final is false when the caller
	// is about to reopen the same adapter.
	Close(final bool) error
	// Ping probes the connection and reports whether it is still usable.
	Ping() bool
	MakeActiveSource() error
	ListDevices(w io.Writer) error
}
