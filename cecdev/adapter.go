// Package cecdev implements cec.Adapter on the Linux kernel CEC framework
// (/dev/cecN). It claims a playback device address, reports remote key
// presses and answers the handful of queries a TV sends to a source.
package cecdev

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/cecinput/cecinput/cec"
	"github.com/cecinput/cecinput/internal/log"
)

var ErrNoAdapter = errors.New("no CEC adapter found")

// Config describes how the adapter presents itself on the bus.
type Config struct {
	// OSDName is the name shown by the TV; at most 14 bytes are used.
	OSDName string
	// PhysicalAddress overrides the address from EDID when the driver lets
	// userspace set it. Zero keeps the driver's address.
	PhysicalAddress cec.PhysicalAddress
	// RepeatTimeout releases a held key when no repeat arrives in time.
	RepeatTimeout time.Duration
	// DevGlob matches adapter nodes when no selector is given.
	DevGlob string
}

// Adapter is a cec.Adapter backed by a /dev/cecN character device.
type Adapter struct {
	cfg Config
	raw log.RawLogger

	mu   sync.Mutex
	sess *session
}

var _ cec.Adapter = (*Adapter)(nil)

func New(cfg Config, raw log.RawLogger) *Adapter {
	if cfg.RepeatTimeout <= 0 {
		cfg.RepeatTimeout = DefaultRepeatTimeout
	}
	if cfg.DevGlob == "" {
		cfg.DevGlob = "/dev/cec*"
	}
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Adapter{cfg: cfg, raw: raw}
}

// ResolveDevice maps a selector to a device node: "" picks the first
// adapter, "N" and "cecN" name /dev/cecN, anything else is used as a path.
func ResolveDevice(selector, glob string) (string, error) {
	switch {
	case selector == "":
		nodes, err := listNodes(glob)
		if err != nil {
			return "", err
		}
		if len(nodes) == 0 {
			return "", ErrNoAdapter
		}
		return nodes[0], nil
	case strings.HasPrefix(selector, "cec"):
		return "/dev/" + selector, nil
	default:
		if _, err := strconv.Atoi(selector); err == nil {
			return "/dev/cec" + selector, nil
		}
		return selector, nil
	}
}

func listNodes(glob string) ([]string, error) {
	nodes, err := filepath.Glob(glob)
	if err != nil {
		return nil, err
	}
	sort.Strings(nodes)
	return nodes, nil
}

func (a *Adapter) Open(selector string, h cec.Handler) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sess != nil {
		return errors.New("adapter already open")
	}

	path, err := ResolveDevice(selector, a.cfg.DevGlob)
	if err != nil {
		return err
	}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	s := &session{
		path: path,
		fd:   fd,
		wake: -1,
		cfg:  a.cfg,
		raw:  a.raw,
		h:    h,
		keys: keyTracker{timeout: a.cfg.RepeatTimeout},
		la:   cec.LogicalAddressUnknown,
		done: make(chan struct{}),
	}
	s.send = s.transmit
	if err := s.setup(); err != nil {
		s.closeFds()
		return fmt.Errorf("%s: %w", path, err)
	}
	wake, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		s.closeFds()
		return fmt.Errorf("eventfd: %w", err)
	}
	s.wake = wake

	a.sess = s
	go s.readLoop()
	return nil
}

func (a *Adapter) Close(final bool) error {
	a.mu.Lock()
	s := a.sess
	a.sess = nil
	a.mu.Unlock()
	if s == nil {
		return nil
	}

	var errs []error
	var one [8]byte
	one[0] = 1
	if _, err := unix.Write(s.wake, one[:]); err != nil {
		errs = append(errs, fmt.Errorf("wake reader: %w", err))
	}
	<-s.done

	if final && s.claimed {
		var la logAddrs
		if err := ioctl(s.fd, adapSLogAddrs, unsafe.Pointer(&la)); err != nil {
			errs = append(errs, fmt.Errorf("release logical address: %w", err))
		}
	}
	errs = append(errs, s.closeFds())
	return errors.Join(errs...)
}

func (a *Adapter) current() *session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sess
}

// Ping reports whether the adapter still answers ioctls.
func (a *Adapter) Ping() bool {
	s := a.current()
	if s == nil {
		return false
	}
	var phys uint16
	return ioctl(s.fd, adapGPhysAddr, unsafe.Pointer(&phys)) == nil
}

// MakeActiveSource wakes the TV and switches it to this device.
func (a *Adapter) MakeActiveSource() error {
	s := a.current()
	if s == nil {
		return errors.New("adapter not open")
	}
	return s.makeActive()
}

// LogicalAddress returns the claimed address, or LogicalAddressUnknown.
func (a *Adapter) LogicalAddress() cec.LogicalAddress {
	s := a.current()
	if s == nil {
		return cec.LogicalAddressUnknown
	}
	return s.logicalAddress()
}

type session struct {
	path string
	fd   int
	wake int
	cfg  Config
	raw  log.RawLogger
	h    cec.Handler
	send func(cec.Message) error

	mu      sync.Mutex
	la      cec.LogicalAddress
	phys    cec.PhysicalAddress
	claimed bool
	active  atomic.Bool

	keys keyTracker
	done chan struct{}
}

func (s *session) logf(level slog.Level, format string, args ...any) {
	s.h.OnLogMessage(level, fmt.Sprintf(format, args...))
}

func (s *session) setup() error {
	var c caps
	if err := ioctl(s.fd, adapGCaps, unsafe.Pointer(&c)); err != nil {
		return fmt.Errorf("CEC_ADAP_G_CAPS: %w", err)
	}
	s.logf(slog.LevelInfo, "adapter %s (%s), available logical addresses %d",
		c.name(), c.driver(), c.AvailableLogAddrs)
	if c.Capabilities&capTransmit == 0 {
		return errors.New("adapter cannot transmit")
	}

	if s.cfg.PhysicalAddress != 0 {
		if c.Capabilities&capPhysAddr == 0 {
			s.logf(slog.LevelWarn, "adapter takes its physical address from EDID, ignoring %s", s.cfg.PhysicalAddress)
		} else {
			pa := uint16(s.cfg.PhysicalAddress)
			if err := ioctl(s.fd, adapSPhysAddr, unsafe.Pointer(&pa)); err != nil {
				return fmt.Errorf("CEC_ADAP_S_PHYS_ADDR: %w", err)
			}
		}
	}

	mode := uint32(modeInitiator | modeFollower)
	if err := ioctl(s.fd, sMode, unsafe.Pointer(&mode)); err != nil {
		return fmt.Errorf("CEC_S_MODE: %w", err)
	}

	var pa uint16
	if err := ioctl(s.fd, adapGPhysAddr, unsafe.Pointer(&pa)); err != nil {
		return fmt.Errorf("CEC_ADAP_G_PHYS_ADDR: %w", err)
	}
	s.setPhys(cec.PhysicalAddress(pa))

	if c.Capabilities&capLogAddrs != 0 {
		la := playbackLogAddrs(s.cfg.OSDName)
		if err := ioctl(s.fd, adapSLogAddrs, unsafe.Pointer(&la)); err != nil {
			if !errors.Is(err, unix.EBUSY) {
				return fmt.Errorf("CEC_ADAP_S_LOG_ADDRS: %w", err)
			}
			s.logf(slog.LevelDebug, "logical addresses already configured")
		} else {
			s.mu.Lock()
			s.claimed = true
			s.mu.Unlock()
		}
	}

	var cur logAddrs
	if err := ioctl(s.fd, adapGLogAddrs, unsafe.Pointer(&cur)); err != nil {
		return fmt.Errorf("CEC_ADAP_G_LOG_ADDRS: %w", err)
	}
	if cur.NumLogAddrs > 0 && cur.LogAddr[0] != 0xFF {
		s.setLogicalAddress(cec.LogicalAddress(cur.LogAddr[0]))
	}
	return nil
}

func playbackLogAddrs(osdName string) logAddrs {
	la := logAddrs{
		CECVersion:  versionCEC14,
		NumLogAddrs: 1,
		VendorID:    vendorIDNone,
		Flags:       logAddrsFlagAllowUnreg,
	}
	la.LogAddrType[0] = logAddrTypePlayback
	la.PrimaryDeviceType[0] = primTypePlayback
	la.AllDeviceTypes[0] = allDevTypePlayback
	copy(la.OSDName[:maxOSDName], osdName)
	return la
}

func (s *session) closeFds() error {
	var errs []error
	if s.wake >= 0 {
		errs = append(errs, unix.Close(s.wake))
		s.wake = -1
	}
	if s.fd >= 0 {
		errs = append(errs, unix.Close(s.fd))
		s.fd = -1
	}
	return errors.Join(errs...)
}

func (s *session) logicalAddress() cec.LogicalAddress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.la
}

func (s *session) setLogicalAddress(la cec.LogicalAddress) {
	s.mu.Lock()
	changed := s.la != la
	s.la = la
	s.mu.Unlock()
	if changed {
		s.h.OnConfigurationChanged(la)
	}
}

func (s *session) physicalAddress() cec.PhysicalAddress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phys
}

func (s *session) setPhys(pa cec.PhysicalAddress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phys = pa
}

func (s *session) transmit(m cec.Message) error {
	var cm msg
	frame := m.Frame()
	cm.Len = uint32(copy(cm.Msg[:], frame))
	s.raw.Log(false, frame)
	if err := ioctl(s.fd, transmit, unsafe.Pointer(&cm)); err != nil {
		return fmt.Errorf("CEC_TRANSMIT %s: %w", m, err)
	}
	return nil
}

func (s *session) makeActive() error {
	la := s.logicalAddress()
	if la == cec.LogicalAddressUnknown {
		return errors.New("no logical address claimed")
	}
	pa := s.physicalAddress()
	if err := s.send(cec.NewMessage(la, cec.LogicalAddressTV, cec.OpImageViewOn)); err != nil {
		return err
	}
	if err := s.send(cec.NewMessage(la, cec.LogicalAddressBroadcast, cec.OpActiveSource, byte(pa>>8), byte(pa))); err != nil {
		return err
	}
	s.setActive(true)
	return nil
}

func (s *session) setActive(active bool) {
	if s.active.Swap(active) != active {
		s.h.OnSourceActivated(s.logicalAddress(), active)
	}
}
