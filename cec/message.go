package cec

import (
	"errors"
	"fmt"
	"strings"
)

// Opcode is the first data byte of a CEC message.
type Opcode uint8

const (
	OpFeatureAbort           Opcode = 0x00
	OpImageViewOn            Opcode = 0x04
	OpTextViewOn             Opcode = 0x0D
	OpGiveDeckStatus         Opcode = 0x1A
	OpDeckStatus             Opcode = 0x1B
	OpSetMenuLanguage        Opcode = 0x32
	OpStandby                Opcode = 0x36
	OpPlay                   Opcode = 0x41
	OpDeckControl            Opcode = 0x42
	OpUserControlPressed     Opcode = 0x44
	OpUserControlReleased    Opcode = 0x45
	OpGiveOSDName            Opcode = 0x46
	OpSetOSDName             Opcode = 0x47
	OpSystemAudioModeRequest Opcode = 0x70
	OpGiveAudioStatus        Opcode = 0x71
	OpSetSystemAudioMode     Opcode = 0x72
	OpReportAudioStatus      Opcode = 0x7A
	OpRoutingChange          Opcode = 0x80
	OpRoutingInformation     Opcode = 0x81
	OpActiveSource           Opcode = 0x82
	OpGivePhysicalAddress    Opcode = 0x83
	OpReportPhysicalAddress  Opcode = 0x84
	OpRequestActiveSource    Opcode = 0x85
	OpSetStreamPath          Opcode = 0x86
	OpDeviceVendorID         Opcode = 0x87
	OpVendorCommand          Opcode = 0x89
	OpVendorRemoteButtonDown Opcode = 0x8A
	OpVendorRemoteButtonUp   Opcode = 0x8B
	OpGiveDeviceVendorID     Opcode = 0x8C
	OpMenuRequest            Opcode = 0x8D
	OpMenuStatus             Opcode = 0x8E
	OpGiveDevicePowerStatus  Opcode = 0x8F
	OpReportPowerStatus      Opcode = 0x90
	OpGetMenuLanguage        Opcode = 0x91
	OpInactiveSource         Opcode = 0x9D
	OpCECVersion             Opcode = 0x9E
	OpGetCECVersion          Opcode = 0x9F
	OpVendorCommandWithID    Opcode = 0xA0
	OpAbort                  Opcode = 0xFF
)

var opcodeNames = map[Opcode]string{
	OpFeatureAbort:           "FEATURE_ABORT",
	OpImageViewOn:            "IMAGE_VIEW_ON",
	OpTextViewOn:             "TEXT_VIEW_ON",
	OpGiveDeckStatus:         "GIVE_DECK_STATUS",
	OpDeckStatus:             "DECK_STATUS",
	OpSetMenuLanguage:        "SET_MENU_LANGUAGE",
	OpStandby:                "STANDBY",
	OpPlay:                   "PLAY",
	OpDeckControl:            "DECK_CONTROL",
	OpUserControlPressed:     "USER_CONTROL_PRESSED",
	OpUserControlReleased:    "USER_CONTROL_RELEASE",
	OpGiveOSDName:            "GIVE_OSD_NAME",
	OpSetOSDName:             "SET_OSD_NAME",
	OpSystemAudioModeRequest: "SYSTEM_AUDIO_MODE_REQUEST",
	OpGiveAudioStatus:        "GIVE_AUDIO_STATUS",
	OpSetSystemAudioMode:     "SET_SYSTEM_AUDIO_MODE",
	OpReportAudioStatus:      "REPORT_AUDIO_STATUS",
	OpRoutingChange:          "ROUTING_CHANGE",
	OpRoutingInformation:     "ROUTING_INFORMATION",
	OpActiveSource:           "ACTIVE_SOURCE",
	OpGivePhysicalAddress:    "GIVE_PHYSICAL_ADDRESS",
	OpReportPhysicalAddress:  "REPORT_PHYSICAL_ADDRESS",
	OpRequestActiveSource:    "REQUEST_ACTIVE_SOURCE",
	OpSetStreamPath:          "SET_STREAM_PATH",
	OpDeviceVendorID:         "DEVICE_VENDOR_ID",
	OpVendorCommand:          "VENDOR_COMMAND",
	OpVendorRemoteButtonDown: "VENDOR_REMOTE_BUTTON_DOWN",
	OpVendorRemoteButtonUp:   "VENDOR_REMOTE_BUTTON_UP",
	OpGiveDeviceVendorID:     "GIVE_DEVICE_VENDOR_ID",
	OpMenuRequest:            "MENU_REQUEST",
	OpMenuStatus:             "MENU_STATUS",
	OpGiveDevicePowerStatus:  "GIVE_DEVICE_POWER_STATUS",
	OpReportPowerStatus:      "REPORT_POWER_STATUS",
	OpGetMenuLanguage:        "GET_MENU_LANGUAGE",
	OpInactiveSource:         "INACTIVE_SOURCE",
	OpCECVersion:             "CEC_VERSION",
	OpGetCECVersion:          "GET_CEC_VERSION",
	OpVendorCommandWithID:    "VENDOR_COMMAND_WITH_ID",
	OpAbort:                  "ABORT",
}

func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", uint8(o))
}

// Deck control modes carried by DECK_CONTROL.
const (
	DeckControlSkipForwardWind   byte = 0x01
	DeckControlSkipReverseRewind byte = 0x02
	DeckControlStop              byte = 0x03
	DeckControlEject             byte = 0x04
)

// Play modes carried by PLAY.
const (
	PlayModeReverse byte = 0x20
	PlayModeForward byte = 0x24
	PlayModeStill   byte = 0x25
)

// Power status values for REPORT_POWER_STATUS.
const (
	PowerStatusOn      byte = 0x00
	PowerStatusStandby byte = 0x01
)

// MaxMessageSize is the largest CEC frame: header, opcode and 14 operands.
const MaxMessageSize = 16

var ErrEmptyMessage = errors.New("empty CEC message")

// Message is a decoded CEC frame.
type Message struct {
	Initiator   LogicalAddress
	Destination LogicalAddress
	// HasOpcode is false for polling messages, which carry only the header.
	HasOpcode  bool
	Opcode     Opcode
	Parameters []byte
}

// ParseMessage decodes a raw frame.
func ParseMessage(frame []byte) (Message, error) {
	if len(frame) == 0 {
		return Message{}, ErrEmptyMessage
	}
	if len(frame) > MaxMessageSize {
		return Message{}, fmt.Errorf("CEC message too long: %d bytes", len(frame))
	}
	m := Message{
		Initiator:   LogicalAddress(frame[0] >> 4),
		Destination: LogicalAddress(frame[0] & 0x0F),
	}
	if len(frame) > 1 {
		m.HasOpcode = true
		m.Opcode = Opcode(frame[1])
		if len(frame) > 2 {
			m.Parameters = append([]byte(nil), frame[2:]...)
		}
	}
	return m, nil
}

// Frame encodes the message to raw bytes.
func (m Message) Frame() []byte {
	b := make([]byte, 0, 2+len(m.Parameters))
	b = append(b, byte(m.Initiator&0x0F)<<4|byte(m.Destination&0x0F))
	if m.HasOpcode {
		b = append(b, byte(m.Opcode))
		b = append(b, m.Parameters...)
	}
	return b
}

// AddressedTo reports whether the message targets la, directly or by broadcast.
func (m Message) AddressedTo(la LogicalAddress) bool {
	return m.Destination == LogicalAddressBroadcast || m.Destination == la
}

func (m Message) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s -> %s", m.Initiator, m.Destination)
	if !m.HasOpcode {
		sb.WriteString(": POLL")
		return sb.String()
	}
	fmt.Fprintf(&sb, ": %s", m.Opcode)
	for i, p := range m.Parameters {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(":")
		}
		fmt.Fprintf(&sb, "%02x", p)
	}
	return sb.String()
}

// NewMessage builds a message with an opcode.
func NewMessage(from, to LogicalAddress, op Opcode, params ...byte) Message {
	return Message{Initiator: from, Destination: to, HasOpcode: true, Opcode: op, Parameters: params}
}
