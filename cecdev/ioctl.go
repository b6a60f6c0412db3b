package cecdev

import (
	"bytes"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Request numbers from linux/cec.h.
const (
	adapGCaps     = 0xC04C6100
	adapGPhysAddr = 0x80026101
	adapSPhysAddr = 0x40026102
	adapGLogAddrs = 0x805C6103
	adapSLogAddrs = 0xC05C6104
	transmit      = 0xC0386105
	receive       = 0xC0386106
	dqEvent       = 0xC0506107
	gMode         = 0x80046108
	sMode         = 0x40046109
)

const (
	capPhysAddr = 1 << 0
	capLogAddrs = 1 << 1
	capTransmit = 1 << 2

	modeInitiator = 0x1
	modeFollower  = 0x1 << 4

	eventStateChange = 1
	eventLostMsgs    = 2

	txStatusOK = 1 << 0

	versionCEC14 = 5

	logAddrTypePlayback    = 3
	primTypePlayback       = 4
	allDevTypePlayback     = 1 << 4
	logAddrsFlagAllowUnreg = 1 << 0

	vendorIDNone = 0xFFFFFFFF

	maxOSDName = 14
)

// caps is struct cec_caps.
type caps struct {
	Driver            [32]byte
	Name              [32]byte
	AvailableLogAddrs uint32
	Capabilities      uint32
	Version           uint32
}

func (c *caps) driver() string { return cstr(c.Driver[:]) }
func (c *caps) name() string { return cstr(c.Name[:]) }

// logAddrs is struct cec_log_addrs.
type logAddrs struct {
	LogAddr           [4]uint8
	LogAddrMask       uint16
	CECVersion        uint8
	NumLogAddrs       uint8
	VendorID          uint32
	Flags             uint32
	OSDName           [15]byte
	PrimaryDeviceType [4]uint8
	LogAddrType       [4]uint8
	AllDeviceTypes    [4]uint8
	Features          [4][12]uint8
}

// msg is struct cec_msg.
type msg struct {
	TxTs          uint64
	RxTs          uint64
	Len           uint32
	Timeout       uint32
	Sequence      uint32
	Flags         uint32
	Msg           [16]byte
	Reply         uint8
	RxStatus      uint8
	TxStatus      uint8
	TxArbLostCnt  uint8
	TxNackCnt     uint8
	TxLowDriveCnt uint8
	TxErrorCnt    uint8
}

func (m *msg) frame() []byte {
	n := min(int(m.Len), len(m.Msg))
	return m.Msg[:n]
}

// event is struct cec_event; Data holds the union.
type event struct {
	Ts    uint64
	Event uint32
	Flags uint32
	Data  [64]byte
}

// stateChange decodes struct cec_event_state_change from the union.
func (e *event) stateChange() (physAddr uint16, logAddrMask uint16) {
	p := (*[2]uint16)(unsafe.Pointer(&e.Data[0]))
	return p[0], p[1]
}

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
