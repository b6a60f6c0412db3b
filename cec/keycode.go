package cec

import "fmt"

// UserControlCode identifies a button on a CEC remote control, as carried by
// USER_CONTROL_PRESSED.
type UserControlCode uint8

const (
	KeySelect                   UserControlCode = 0x00
	KeyUp                       UserControlCode = 0x01
	KeyDown                     UserControlCode = 0x02
	KeyLeft                     UserControlCode = 0x03
	KeyRight                    UserControlCode = 0x04
	KeyRightUp                  UserControlCode = 0x05
	KeyRightDown                UserControlCode = 0x06
	KeyLeftUp                   UserControlCode = 0x07
	KeyLeftDown                 UserControlCode = 0x08
	KeyRootMenu                 UserControlCode = 0x09
	KeySetupMenu                UserControlCode = 0x0A
	KeyContentsMenu             UserControlCode = 0x0B
	KeyFavoriteMenu             UserControlCode = 0x0C
	KeyExit                     UserControlCode = 0x0D
	KeyTopMenu                  UserControlCode = 0x10
	KeyDVDMenu                  UserControlCode = 0x11
	KeyNumberEntryMode          UserControlCode = 0x1D
	KeyNumber11                 UserControlCode = 0x1E
	KeyNumber12                 UserControlCode = 0x1F
	KeyNumber0                  UserControlCode = 0x20
	KeyNumber1                  UserControlCode = 0x21
	KeyNumber2                  UserControlCode = 0x22
	KeyNumber3                  UserControlCode = 0x23
	KeyNumber4                  UserControlCode = 0x24
	KeyNumber5                  UserControlCode = 0x25
	KeyNumber6                  UserControlCode = 0x26
	KeyNumber7                  UserControlCode = 0x27
	KeyNumber8                  UserControlCode = 0x28
	KeyNumber9                  UserControlCode = 0x29
	KeyDot                      UserControlCode = 0x2A
	KeyEnter                    UserControlCode = 0x2B
	KeyClear                    UserControlCode = 0x2C
	KeyNextFavorite             UserControlCode = 0x2F
	KeyChannelUp                UserControlCode = 0x30
	KeyChannelDown              UserControlCode = 0x31
	KeyPreviousChannel          UserControlCode = 0x32
	KeySoundSelect              UserControlCode = 0x33
	KeyInputSelect              UserControlCode = 0x34
	KeyDisplayInformation       UserControlCode = 0x35
	KeyHelp                     UserControlCode = 0x36
	KeyPageUp                   UserControlCode = 0x37
	KeyPageDown                 UserControlCode = 0x38
	KeyPower                    UserControlCode = 0x40
	KeyVolumeUp                 UserControlCode = 0x41
	KeyVolumeDown               UserControlCode = 0x42
	KeyMute                     UserControlCode = 0x43
	KeyPlay                     UserControlCode = 0x44
	KeyStop                     UserControlCode = 0x45
	KeyPause                    UserControlCode = 0x46
	KeyRecord                   UserControlCode = 0x47
	KeyRewind                   UserControlCode = 0x48
	KeyFastForward              UserControlCode = 0x49
	KeyEject                    UserControlCode = 0x4A
	KeyForward                  UserControlCode = 0x4B
	KeyBackward                 UserControlCode = 0x4C
	KeyStopRecord               UserControlCode = 0x4D
	KeyPauseRecord              UserControlCode = 0x4E
	KeyAngle                    UserControlCode = 0x50
	KeySubPicture               UserControlCode = 0x51
	KeyVideoOnDemand            UserControlCode = 0x52
	KeyElectronicProgramGuide   UserControlCode = 0x53
	KeyTimerProgramming         UserControlCode = 0x54
	KeyInitialConfiguration     UserControlCode = 0x55
	KeySelectBroadcastType      UserControlCode = 0x56
	KeySelectSoundPresentation  UserControlCode = 0x57
	KeyPlayFunction             UserControlCode = 0x60
	KeyPausePlayFunction        UserControlCode = 0x61
	KeyRecordFunction           UserControlCode = 0x62
	KeyPauseRecordFunction      UserControlCode = 0x63
	KeyStopFunction             UserControlCode = 0x64
	KeyMuteFunction             UserControlCode = 0x65
	KeyRestoreVolumeFunction    UserControlCode = 0x66
	KeyTuneFunction             UserControlCode = 0x67
	KeySelectMediaFunction      UserControlCode = 0x68
	KeySelectAVInputFunction    UserControlCode = 0x69
	KeySelectAudioInputFunction UserControlCode = 0x6A
	KeyPowerToggleFunction      UserControlCode = 0x6B
	KeyPowerOffFunction         UserControlCode = 0x6C
	KeyPowerOnFunction          UserControlCode = 0x6D
	KeyF1Blue                   UserControlCode = 0x71
	KeyF2Red                    UserControlCode = 0x72
	KeyF3Green                  UserControlCode = 0x73
	KeyF4Yellow                 UserControlCode = 0x74
	KeyF5                       UserControlCode = 0x75
	KeyData                     UserControlCode = 0x76
	KeyAnReturn                 UserControlCode = 0x91
	KeyAnChannelsList           UserControlCode = 0x96

	// UserControlCodeMax is the highest code a remote can report.
	UserControlCodeMax = KeyAnChannelsList

	KeyUnknown                  UserControlCode = 0xFF
)

// KeyName maps remote control codes to human-readable names for logging.
var KeyName = map[UserControlCode]string{
	KeySelect: "select", KeyUp: "up", KeyDown: "down", KeyLeft: "left", KeyRight: "right",
	KeyRightUp: "right up", KeyRightDown: "right down", KeyLeftUp: "left up", KeyLeftDown: "left down",
	KeyRootMenu:     "root menu",
	KeySetupMenu:    "setup menu",
	KeyContentsMenu: "contents menu",
	KeyFavoriteMenu: "favourite menu",
	KeyExit:         "exit",
	KeyTopMenu:      "top menu",
	KeyDVDMenu:      "dvd menu",

	KeyNumberEntryMode: "number entry mode",
	KeyNumber11:        "11",
	KeyNumber12:        "12",
	KeyNumber0:         "0", KeyNumber1: "1", KeyNumber2: "2", KeyNumber3: "3", KeyNumber4: "4",
	KeyNumber5: "5", KeyNumber6: "6", KeyNumber7: "7", KeyNumber8: "8", KeyNumber9: "9",
	KeyDot:   "dot",
	KeyEnter: "enter",
	KeyClear: "clear",

	KeyNextFavorite:       "next favourite",
	KeyChannelUp:          "channel up",
	KeyChannelDown:        "channel down",
	KeyPreviousChannel:    "previous channel",
	KeySoundSelect:        "sound select",
	KeyInputSelect:        "input select",
	KeyDisplayInformation: "display information",
	KeyHelp:               "help",
	KeyPageUp:             "page up",
	KeyPageDown:           "page down",

	KeyPower:       "power",
	KeyVolumeUp:    "volume up",
	KeyVolumeDown:  "volume down",
	KeyMute:        "mute",
	KeyPlay:        "play",
	KeyStop:        "stop",
	KeyPause:       "pause",
	KeyRecord:      "record",
	KeyRewind:      "rewind",
	KeyFastForward: "fast forward",
	KeyEject:       "eject",
	KeyForward:     "forward",
	KeyBackward:    "backward",
	KeyStopRecord:  "stop record",
	KeyPauseRecord: "pause record",

	KeyAngle:                   "angle",
	KeySubPicture:              "sub picture",
	KeyVideoOnDemand:           "video on demand",
	KeyElectronicProgramGuide:  "electronic program guide",
	KeyTimerProgramming:        "timer programming",
	KeyInitialConfiguration:    "initial configuration",
	KeySelectBroadcastType:     "select broadcast type",
	KeySelectSoundPresentation: "select sound presentation",

	KeyPlayFunction:             "play (function)",
	KeyPausePlayFunction:        "pause play (function)",
	KeyRecordFunction:           "record (function)",
	KeyPauseRecordFunction:      "pause record (function)",
	KeyStopFunction:             "stop (function)",
	KeyMuteFunction:             "mute (function)",
	KeyRestoreVolumeFunction:    "restore volume",
	KeyTuneFunction:             "tune",
	KeySelectMediaFunction:      "select media",
	KeySelectAVInputFunction:    "select AV input",
	KeySelectAudioInputFunction: "select audio input",
	KeyPowerToggleFunction:      "power toggle",
	KeyPowerOffFunction:         "power off",
	KeyPowerOnFunction:          "power on",

	KeyF1Blue:   "F1 (blue)",
	KeyF2Red:    "F2 (red)",
	KeyF3Green:  "F3 (green)",
	KeyF4Yellow: "F4 (yellow)",
	KeyF5:       "F5",
	KeyData:     "data",

	KeyAnReturn:       "return (Samsung)",
	KeyAnChannelsList: "channels list (Samsung)",
}

// Valid reports whether c is inside the range a remote may report.
func (c UserControlCode) Valid() bool { return c <= UserControlCodeMax }

func (c UserControlCode) String() string {
	if name, ok := KeyName[c]; ok {
		return name
	}
	return fmt.Sprintf("unknown (0x%02x)", uint8(c))
}
