// Package cec holds the HDMI-CEC vocabulary shared by the adapter and the
// daemon: addresses, opcodes, remote control codes and the collaborator
// interfaces an adapter implementation has to satisfy.
package cec

import (
	"fmt"
	"strconv"
	"strings"
)

// LogicalAddress is the 4-bit bus address of a CEC device.
type LogicalAddress uint8

const (
	LogicalAddressTV           LogicalAddress = 0x0
	LogicalAddressRecording1   LogicalAddress = 0x1
	LogicalAddressRecording2   LogicalAddress = 0x2
	LogicalAddressTuner1       LogicalAddress = 0x3
	LogicalAddressPlayback1    LogicalAddress = 0x4
	LogicalAddressAudioSystem  LogicalAddress = 0x5
	LogicalAddressTuner2       LogicalAddress = 0x6
	LogicalAddressTuner3       LogicalAddress = 0x7
	LogicalAddressPlayback2    LogicalAddress = 0x8
	LogicalAddressRecording3   LogicalAddress = 0x9
	LogicalAddressTuner4       LogicalAddress = 0xA
	LogicalAddressPlayback3    LogicalAddress = 0xB
	LogicalAddressReserved1    LogicalAddress = 0xC
	LogicalAddressReserved2    LogicalAddress = 0xD
	LogicalAddressFreeUse      LogicalAddress = 0xE
	LogicalAddressBroadcast    LogicalAddress = 0xF
	LogicalAddressUnregistered LogicalAddress = 0xF

	// LogicalAddressUnknown marks an address that has not been assigned yet.
	LogicalAddressUnknown LogicalAddress = 0xFF
)

var logicalAddressNames = [...]string{
	"TV", "Recording 1", "Recording 2", "Tuner 1", "Playback 1", "Audio",
	"Tuner 2", "Tuner 3", "Playback 2", "Recording 3", "Tuner 4", "Playback 3",
	"Reserved 1", "Reserved 2", "Free use", "Broadcast",
}

func (a LogicalAddress) String() string {
	if int(a) < len(logicalAddressNames) {
		return logicalAddressNames[a]
	}
	return "Unknown"
}

// Valid reports whether a is a real 4-bit address.
func (a LogicalAddress) Valid() bool { return a <= LogicalAddressBroadcast }

// PhysicalAddress is the HDMI topology address a.b.c.d packed in 16 bits.
type PhysicalAddress uint16

// PhysicalAddressInvalid is reported when the adapter has no HDMI connection.
const PhysicalAddressInvalid PhysicalAddress = 0xFFFF

func (p PhysicalAddress) String() string {
	return fmt.Sprintf("%x.%x.%x.%x", (p>>12)&0xF, (p>>8)&0xF, (p>>4)&0xF, p&0xF)
}

// ParsePhysicalAddress accepts either a single HDMI port number "a" (the
// device is plugged directly into port a of the TV, so a.0.0.0) or a full
// address "a.b.c.d". Each component is a hex digit.
func ParsePhysicalAddress(s string) (PhysicalAddress, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty physical address")
	}
	parts := strings.Split(s, ".")
	if len(parts) != 1 && len(parts) != 4 {
		return 0, fmt.Errorf("invalid physical address %q: expected a or a.b.c.d", s)
	}
	var p PhysicalAddress
	for i := 0; i < 4; i++ {
		var n uint64
		if i < len(parts) {
			var err error
			n, err = strconv.ParseUint(parts[i], 16, 4)
			if err != nil {
				return 0, fmt.Errorf("invalid physical address %q: %w", s, err)
			}
		}
		p = p<<4 | PhysicalAddress(n)
	}
	if len(parts) == 1 && p == 0 {
		return 0, fmt.Errorf("invalid HDMI port %q", s)
	}
	return p, nil
}
