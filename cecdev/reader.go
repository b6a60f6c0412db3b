package cecdev

import (
	"errors"
	"log/slog"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/cecinput/cecinput/cec"
)

func (s *session) readLoop() {
	defer close(s.done)

	fds := []unix.PollFd{
		{Fd: int32(s.fd), Events: unix.POLLIN | unix.POLLPRI},
		{Fd: int32(s.wake), Events: unix.POLLIN},
	}
	for {
		timeout := -1
		if dl, ok := s.keys.deadline(); ok {
			timeout = max(0, int(time.Until(dl).Milliseconds())+1)
		}
		n, err := unix.Poll(fds, timeout)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			s.lost(err)
			return
		}
		if fds[1].Revents != 0 {
			return
		}
		for _, kp := range s.keys.expire(time.Now()) {
			s.h.OnKeyPress(kp)
		}
		if n == 0 {
			continue
		}

		re := fds[0].Revents
		if re&unix.POLLPRI != 0 {
			if err := s.drainEvents(); err != nil {
				s.lost(err)
				return
			}
		}
		if re&unix.POLLIN != 0 {
			if err := s.drainMessages(); err != nil {
				s.lost(err)
				return
			}
		}
		if re&(unix.POLLERR|unix.POLLHUP|unix.POLLNVAL) != 0 {
			s.lost(errors.New("device hung up"))
			return
		}
	}
}

func (s *session) lost(err error) {
	s.logf(slog.LevelError, "connection to %s lost: %v", s.path, err)
	s.h.OnAlert(cec.AlertConnectionLost, 0)
}

func (s *session) drainMessages() error {
	for {
		var m msg
		if err := ioctl(s.fd, receive, unsafe.Pointer(&m)); err != nil {
			if errors.Is(err, unix.EAGAIN) {
				return nil
			}
			return err
		}
		if m.Sequence != 0 && m.RxStatus == 0 {
			if m.TxStatus&txStatusOK == 0 {
				s.logf(slog.LevelDebug, "transmit %x failed: status 0x%02x", m.frame(), m.TxStatus)
			}
			continue
		}
		frame := m.frame()
		s.raw.Log(true, frame)
		parsed, err := cec.ParseMessage(frame)
		if err != nil {
			s.logf(slog.LevelWarn, "dropping frame %x: %v", frame, err)
			continue
		}
		s.handleMessage(parsed, time.Now())
	}
}

func (s *session) drainEvents() error {
	for {
		var ev event
		if err := ioctl(s.fd, dqEvent, unsafe.Pointer(&ev)); err != nil {
			if errors.Is(err, unix.EAGAIN) {
				return nil
			}
			return err
		}
		switch ev.Event {
		case eventStateChange:
			pa, mask := ev.stateChange()
			s.handleStateChange(cec.PhysicalAddress(pa), mask)
		case eventLostMsgs:
			s.logf(slog.LevelWarn, "kernel dropped CEC messages")
		}
	}
}

func (s *session) handleStateChange(pa cec.PhysicalAddress, mask uint16) {
	s.setPhys(pa)
	if pa == cec.PhysicalAddressInvalid {
		s.logf(slog.LevelInfo, "HDMI disconnected")
	} else {
		s.logf(slog.LevelInfo, "physical address %s", pa)
	}
	if mask == 0 {
		return
	}
	for la := cec.LogicalAddress(0); la < cec.LogicalAddressBroadcast; la++ {
		if mask&(1<<la) != 0 {
			s.setLogicalAddress(la)
			return
		}
	}
}

// handleMessage reacts to one received frame and forwards it to the handler.
func (s *session) handleMessage(m cec.Message, now time.Time) {
	s.logf(slog.LevelDebug, "<< %s", m)
	if !m.HasOpcode {
		return
	}
	la := s.logicalAddress()
	direct := m.Destination == la && la != cec.LogicalAddressUnknown

	switch m.Opcode {
	case cec.OpUserControlPressed:
		if !direct || len(m.Parameters) == 0 {
			return
		}
		for _, kp := range s.keys.pressed(cec.UserControlCode(m.Parameters[0]), now) {
			s.h.OnKeyPress(kp)
		}
		return
	case cec.OpUserControlReleased:
		if !direct {
			return
		}
		for _, kp := range s.keys.released(now) {
			s.h.OnKeyPress(kp)
		}
		return

	case cec.OpGiveOSDName:
		if direct {
			s.reply(cec.NewMessage(la, m.Initiator, cec.OpSetOSDName, osdName(s.cfg.OSDName)...))
		}
	case cec.OpGiveDevicePowerStatus:
		if direct {
			s.reply(cec.NewMessage(la, m.Initiator, cec.OpReportPowerStatus, cec.PowerStatusOn))
		}
	case cec.OpMenuRequest:
		if direct {
			s.reply(cec.NewMessage(la, m.Initiator, cec.OpMenuStatus, byte(cec.MenuStateActivated)))
			if len(m.Parameters) > 0 && m.Parameters[0] <= byte(cec.MenuStateDeactivated) {
				s.h.OnMenuStateChanged(cec.MenuState(m.Parameters[0]))
			}
		}
	case cec.OpRequestActiveSource:
		if s.active.Load() && la != cec.LogicalAddressUnknown {
			pa := s.physicalAddress()
			s.reply(cec.NewMessage(la, cec.LogicalAddressBroadcast, cec.OpActiveSource, byte(pa>>8), byte(pa)))
		}
	case cec.OpActiveSource:
		if pa, ok := addrParam(m.Parameters, 0); ok {
			s.setActive(pa == s.physicalAddress())
		}
	case cec.OpRoutingChange:
		if pa, ok := addrParam(m.Parameters, 2); ok {
			s.setActive(pa == s.physicalAddress())
		}
	case cec.OpSetStreamPath:
		if pa, ok := addrParam(m.Parameters, 0); ok {
			s.setActive(pa == s.physicalAddress())
		}
	}
	s.h.OnCommand(m)
}

func (s *session) reply(m cec.Message) {
	if err := s.send(m); err != nil {
		s.logf(slog.LevelWarn, "reply failed: %v", err)
	}
}

func addrParam(p []byte, off int) (cec.PhysicalAddress, bool) {
	if len(p) < off+2 {
		return 0, false
	}
	return cec.PhysicalAddress(p[off])<<8 | cec.PhysicalAddress(p[off+1]), true
}

func osdName(name string) []byte {
	b := []byte(name)
	if len(b) > maxOSDName {
		b = b[:maxOSDName]
	}
	return b
}
