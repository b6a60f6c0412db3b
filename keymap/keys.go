package keymap

import (
	"fmt"

	evdev "github.com/gvalkov/golang-evdev"
)

// OutputKey is a Linux input key code as delivered on the virtual keyboard.
type OutputKey uint16

func (k OutputKey) String() string {
	if name, ok := evdev.KEY[int(k)]; ok {
		return name
	}
	return fmt.Sprintf("KEY_%d", uint16(k))
}

// Output keys the daemon knows by name.
const (
	KeyEnter       OutputKey = evdev.KEY_ENTER
	KeyEsc         OutputKey = evdev.KEY_ESC
	KeyUp          OutputKey = evdev.KEY_UP
	KeyDown        OutputKey = evdev.KEY_DOWN
	KeyLeft        OutputKey = evdev.KEY_LEFT
	KeyRight       OutputKey = evdev.KEY_RIGHT
	KeyHome        OutputKey = evdev.KEY_HOME
	KeyMenu        OutputKey = evdev.KEY_MENU
	KeySetup       OutputKey = evdev.KEY_SETUP
	KeyPlay        OutputKey = evdev.KEY_PLAY
	KeyPause       OutputKey = evdev.KEY_PAUSE
	KeyStop        OutputKey = evdev.KEY_STOP
	KeyRewind      OutputKey = evdev.KEY_REWIND
	KeyFastForward OutputKey = evdev.KEY_FASTFORWARD
	KeyVolumeUp    OutputKey = evdev.KEY_VOLUMEUP
	KeyVolumeDown  OutputKey = evdev.KEY_VOLUMEDOWN
	KeyMute        OutputKey = evdev.KEY_MUTE
	Key0           OutputKey = evdev.KEY_0
	Key1           OutputKey = evdev.KEY_1
	Key2           OutputKey = evdev.KEY_2
	Key3           OutputKey = evdev.KEY_3
	Key4           OutputKey = evdev.KEY_4
	Key5           OutputKey = evdev.KEY_5
	Key6           OutputKey = evdev.KEY_6
	Key7           OutputKey = evdev.KEY_7
	Key8           OutputKey = evdev.KEY_8
	Key9           OutputKey = evdev.KEY_9
	KeyBackspace   OutputKey = evdev.KEY_BACKSPACE
	KeyPower       OutputKey = evdev.KEY_POWER
	KeyChannelUp   OutputKey = evdev.KEY_CHANNELUP
	KeyChannelDown OutputKey = evdev.KEY_CHANNELDOWN
	KeyPageUp      OutputKey = evdev.KEY_PAGEUP
	KeyPageDown    OutputKey = evdev.KEY_PAGEDOWN
	KeyInfo        OutputKey = evdev.KEY_INFO
	KeyHelp        OutputKey = evdev.KEY_HELP
	KeyBlue        OutputKey = evdev.KEY_BLUE
	KeyRed         OutputKey = evdev.KEY_RED
	KeyGreen       OutputKey = evdev.KEY_GREEN
	KeyYellow      OutputKey = evdev.KEY_YELLOW
	KeyOK          OutputKey = evdev.KEY_OK
	KeyBack        OutputKey = evdev.KEY_BACK
	KeyForward     OutputKey = evdev.KEY_FORWARD
	KeyEjectCD     OutputKey = evdev.KEY_EJECTCD
	KeyRecord      OutputKey = evdev.KEY_RECORD
	KeyPrevious    OutputKey = evdev.KEY_PREVIOUS
	KeySound       OutputKey = evdev.KEY_SOUND
	KeyTuner       OutputKey = evdev.KEY_TUNER
	KeyFavorites   OutputKey = evdev.KEY_FAVORITES
	KeyDot         OutputKey = evdev.KEY_DOT
	KeyClear       OutputKey = evdev.KEY_CLEAR
	KeyScreen      OutputKey = evdev.KEY_SCREEN
	KeySubtitle    OutputKey = evdev.KEY_SUBTITLE
	KeyVideo       OutputKey = evdev.KEY_VIDEO
	KeyEPG         OutputKey = evdev.KEY_EPG
	KeyTime        OutputKey = evdev.KEY_TIME
	KeyConfig      OutputKey = evdev.KEY_CONFIG
	KeyMedia       OutputKey = evdev.KEY_MEDIA
	KeyText        OutputKey = evdev.KEY_TEXT
	KeyList        OutputKey = evdev.KEY_LIST
)

type outputName struct {
	name string
	key  OutputKey
}

// outputKeyNames lists the names accepted on the right-hand side of an
// override line.
var outputKeyNames = []outputName{
	{"ENTER", KeyEnter}, {"ESC", KeyEsc},
	{"UP", KeyUp}, {"DOWN", KeyDown}, {"LEFT", KeyLeft}, {"RIGHT", KeyRight},
	{"HOME", KeyHome}, {"MENU", KeyMenu}, {"SETUP", KeySetup},
	{"PLAY", KeyPlay}, {"PAUSE", KeyPause}, {"STOP", KeyStop},
	{"REWIND", KeyRewind}, {"FASTFORWARD", KeyFastForward},
	{"VOLUMEUP", KeyVolumeUp}, {"VOLUMEDOWN", KeyVolumeDown}, {"MUTE", KeyMute},
	{"0", Key0}, {"1", Key1}, {"2", Key2}, {"3", Key3}, {"4", Key4},
	{"5", Key5}, {"6", Key6}, {"7", Key7}, {"8", Key8}, {"9", Key9},
	{"BACKSPACE", KeyBackspace}, {"POWER", KeyPower},
	{"CHANNELUP", KeyChannelUp}, {"CHANNELDOWN", KeyChannelDown},
	{"PAGEUP", KeyPageUp}, {"PAGEDOWN", KeyPageDown},
	{"INFO", KeyInfo}, {"HELP", KeyHelp},
	{"BLUE", KeyBlue}, {"RED", KeyRed}, {"GREEN", KeyGreen}, {"YELLOW", KeyYellow},
	{"OK", KeyOK}, {"BACK", KeyBack}, {"FORWARD", KeyForward},
	{"EJECTCD", KeyEjectCD}, {"RECORD", KeyRecord}, {"PREVIOUS", KeyPrevious},
	{"SOUND", KeySound}, {"TUNER", KeyTuner}, {"FAVORITES", KeyFavorites},
	{"DOT", KeyDot}, {"CLEAR", KeyClear}, {"SCREEN", KeyScreen},
	{"SUBTITLE", KeySubtitle}, {"VIDEO", KeyVideo}, {"EPG", KeyEPG},
	{"TIME", KeyTime}, {"CONFIG", KeyConfig}, {"MEDIA", KeyMedia},
	{"TEXT", KeyText}, {"LIST", KeyList},
}
