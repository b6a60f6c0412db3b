package cecdev

import (
	"fmt"
	"io"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/cecinput/cecinput/cec"
)

// pollTimeoutMs bounds each poll transmit while scanning the bus.
const pollTimeoutMs = 1000

// DeviceInfo describes one adapter node.
type DeviceInfo struct {
	Path            string
	Driver          string
	Name            string
	PhysicalAddress cec.PhysicalAddress
	LogicalAddress  cec.LogicalAddress
	// Present lists logical addresses that acknowledged a poll.
	Present []cec.LogicalAddress
	Err     error
}

// ListDevices writes a description of every adapter and the devices seen on
// its bus.
func (a *Adapter) ListDevices(w io.Writer) error {
	nodes, err := listNodes(a.cfg.DevGlob)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return ErrNoAdapter
	}
	for _, n := range nodes {
		info := Probe(n)
		if _, err := io.WriteString(w, info.String()); err != nil {
			return err
		}
	}
	return nil
}

// Probe queries one adapter node and polls its bus. Polling needs a claimed
// logical address; without one only the adapter itself is described.
func Probe(path string) DeviceInfo {
	info := DeviceInfo{Path: path, LogicalAddress: cec.LogicalAddressUnknown}
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		info.Err = err
		return info
	}
	defer unix.Close(fd)

	var c caps
	if err := ioctl(fd, adapGCaps, unsafe.Pointer(&c)); err != nil {
		info.Err = fmt.Errorf("CEC_ADAP_G_CAPS: %w", err)
		return info
	}
	info.Driver, info.Name = c.driver(), c.name()

	var pa uint16
	if err := ioctl(fd, adapGPhysAddr, unsafe.Pointer(&pa)); err != nil {
		info.Err = fmt.Errorf("CEC_ADAP_G_PHYS_ADDR: %w", err)
		return info
	}
	info.PhysicalAddress = cec.PhysicalAddress(pa)

	var la logAddrs
	if err := ioctl(fd, adapGLogAddrs, unsafe.Pointer(&la)); err != nil {
		info.Err = fmt.Errorf("CEC_ADAP_G_LOG_ADDRS: %w", err)
		return info
	}
	if la.NumLogAddrs == 0 || la.LogAddr[0] == 0xFF {
		return info
	}
	own := cec.LogicalAddress(la.LogAddr[0])
	info.LogicalAddress = own

	for dst := cec.LogicalAddressTV; dst < cec.LogicalAddressBroadcast; dst++ {
		if dst == own {
			continue
		}
		m := msg{Len: 1, Timeout: pollTimeoutMs}
		m.Msg[0] = byte(own)<<4 | byte(dst)
		if err := ioctl(fd, transmit, unsafe.Pointer(&m)); err != nil {
			continue
		}
		if m.TxStatus&txStatusOK != 0 {
			info.Present = append(info.Present, dst)
		}
	}
	return info
}

func (d DeviceInfo) String() string {
	s := fmt.Sprintf("device:           %s\n", d.Path)
	if d.Err != nil {
		return s + fmt.Sprintf("error:            %v\n\n", d.Err)
	}
	s += fmt.Sprintf("driver:           %s\n", d.Driver)
	s += fmt.Sprintf("name:             %s\n", d.Name)
	s += fmt.Sprintf("physical address: %s\n", d.PhysicalAddress)
	if d.LogicalAddress == cec.LogicalAddressUnknown {
		return s + "logical address:  not configured\n\n"
	}
	s += fmt.Sprintf("logical address:  %d (%s)\n", uint8(d.LogicalAddress), d.LogicalAddress)
	for _, la := range d.Present {
		s += fmt.Sprintf("  present:        %d (%s)\n", uint8(la), la)
	}
	return s + "\n"
}
