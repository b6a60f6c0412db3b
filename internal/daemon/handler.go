package daemon

import (
	"context"
	"log/slog"

	"github.com/cecinput/cecinput/cec"
	"github.com/cecinput/cecinput/dispatch"
)

// Adapter callbacks. They run on the adapter's reader goroutine and must
// only translate keys or push commands.

func (d *Daemon) OnLogMessage(level slog.Level, msg string) {
	d.logger.Log(context.Background(), level, msg, "source", "cec")
}

func (d *Daemon) OnKeyPress(kp cec.KeyPress) {
	d.keys.Translate(kp)
}

func (d *Daemon) OnCommand(m cec.Message) {
	if cmd, ok := d.busCommand(m); ok {
		d.logger.Debug("Bus command", "message", m, "command", cmd)
		d.queue.Push(cmd)
	}
}

// busCommand decides how to react to a message from the bus. Only messages
// from the TV addressed to us or broadcast are considered.
func (d *Daemon) busCommand(m cec.Message) (dispatch.Command, bool) {
	if !m.HasOpcode || m.Initiator != cec.LogicalAddressTV || !m.AddressedTo(d.LogicalAddress()) {
		return dispatch.Command{}, false
	}
	switch m.Opcode {
	case cec.OpStandby:
		return dispatch.Command{Kind: dispatch.Standby}, true
	case cec.OpRequestActiveSource:
		if d.active.Load() {
			return dispatch.Command{Kind: dispatch.Active}, true
		}
	case cec.OpSetMenuLanguage:
		if len(m.Parameters) == 3 {
			d.logger.Debug("TV menu language", "language", string(m.Parameters))
		}
	case cec.OpDeckControl:
		if len(m.Parameters) == 0 {
			break
		}
		switch m.Parameters[0] {
		case cec.DeckControlStop:
			return dispatch.Press(cec.KeyStop), true
		case cec.DeckControlSkipForwardWind:
			return dispatch.Press(cec.KeyFastForward), true
		case cec.DeckControlSkipReverseRewind:
			return dispatch.Press(cec.KeyRewind), true
		}
	case cec.OpPlay:
		if len(m.Parameters) == 0 {
			break
		}
		switch m.Parameters[0] {
		case cec.PlayModeForward:
			return dispatch.Press(cec.KeyPlay), true
		case cec.PlayModeStill:
			return dispatch.Press(cec.KeyPause), true
		}
	}
	return dispatch.Command{}, false
}

func (d *Daemon) OnAlert(alert cec.Alert, param int) {
	switch alert {
	case cec.AlertConnectionLost, cec.AlertPermissionError, cec.AlertPortBusy,
		cec.AlertPhysicalAddressError, cec.AlertTVPollFailed:
		d.logger.Warn("CEC adapter alert, restarting", "alert", alert, "param", param)
		d.queue.Push(dispatch.Command{Kind: dispatch.Restart})
	default:
		d.logger.Info("CEC adapter alert", "alert", alert, "param", param)
	}
}

func (d *Daemon) OnConfigurationChanged(la cec.LogicalAddress) {
	d.logger.Info("Logical address changed", "address", la, "value", uint8(la))
	d.la.Store(uint32(la))
}

func (d *Daemon) OnMenuStateChanged(state cec.MenuState) {
	d.logger.Debug("Menu state changed", "state", state)
	d.queue.Push(dispatch.Press(cec.KeyContentsMenu))
}

func (d *Daemon) OnSourceActivated(la cec.LogicalAddress, activated bool) {
	if la != d.LogicalAddress() {
		return
	}
	d.logger.Info("Source activation changed", "active", activated)
	if activated {
		d.queue.Push(dispatch.Command{Kind: dispatch.Active})
	} else {
		d.queue.Push(dispatch.Command{Kind: dispatch.Inactive})
	}
}
