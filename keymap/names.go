package keymap

import (
	"github.com/cecinput/cecinput/cec"
)

type remoteName struct {
	name string
	code cec.UserControlCode
}

// remoteKeyNames lists the names accepted on the left-hand side of an
// override line.
var remoteKeyNames = []remoteName{
	{"SELECT", cec.KeySelect},
	{"UP", cec.KeyUp}, {"DOWN", cec.KeyDown}, {"LEFT", cec.KeyLeft}, {"RIGHT", cec.KeyRight},
	{"RIGHT_UP", cec.KeyRightUp}, {"RIGHT_DOWN", cec.KeyRightDown},
	{"LEFT_UP", cec.KeyLeftUp}, {"LEFT_DOWN", cec.KeyLeftDown},
	{"ROOT_MENU", cec.KeyRootMenu}, {"SETUP_MENU", cec.KeySetupMenu},
	{"CONTENTS_MENU", cec.KeyContentsMenu}, {"FAVORITE_MENU", cec.KeyFavoriteMenu},
	{"EXIT", cec.KeyExit},
	{"NUMBER0", cec.KeyNumber0}, {"NUMBER1", cec.KeyNumber1}, {"NUMBER2", cec.KeyNumber2},
	{"NUMBER3", cec.KeyNumber3}, {"NUMBER4", cec.KeyNumber4}, {"NUMBER5", cec.KeyNumber5},
	{"NUMBER6", cec.KeyNumber6}, {"NUMBER7", cec.KeyNumber7}, {"NUMBER8", cec.KeyNumber8},
	{"NUMBER9", cec.KeyNumber9},
	{"DOT", cec.KeyDot}, {"ENTER", cec.KeyEnter}, {"CLEAR", cec.KeyClear},
	{"NEXT_FAVORITE", cec.KeyNextFavorite},
	{"CHANNEL_UP", cec.KeyChannelUp}, {"CHANNEL_DOWN", cec.KeyChannelDown},
	{"PREVIOUS_CHANNEL", cec.KeyPreviousChannel},
	{"SOUND_SELECT", cec.KeySoundSelect}, {"INPUT_SELECT", cec.KeyInputSelect},
	{"DISPLAY_INFORMATION", cec.KeyDisplayInformation}, {"HELP", cec.KeyHelp},
	{"PAGE_UP", cec.KeyPageUp}, {"PAGE_DOWN", cec.KeyPageDown},
	{"POWER", cec.KeyPower},
	{"VOLUME_UP", cec.KeyVolumeUp}, {"VOLUME_DOWN", cec.KeyVolumeDown}, {"MUTE", cec.KeyMute},
	{"PLAY", cec.KeyPlay}, {"STOP", cec.KeyStop}, {"PAUSE", cec.KeyPause},
	{"RECORD", cec.KeyRecord}, {"REWIND", cec.KeyRewind}, {"FAST_FORWARD", cec.KeyFastForward},
	{"EJECT", cec.KeyEject}, {"FORWARD", cec.KeyForward}, {"BACKWARD", cec.KeyBackward},
	{"ANGLE", cec.KeyAngle}, {"SUB_PICTURE", cec.KeySubPicture},
	{"VIDEO_ON_DEMAND", cec.KeyVideoOnDemand},
	{"ELECTRONIC_PROGRAM_GUIDE", cec.KeyElectronicProgramGuide},
	{"TIMER_PROGRAMMING", cec.KeyTimerProgramming},
	{"INITIAL_CONFIGURATION", cec.KeyInitialConfiguration},
	{"SELECT_MEDIA_FUNCTION", cec.KeySelectMediaFunction},
	{"F1_BLUE", cec.KeyF1Blue}, {"F2_RED", cec.KeyF2Red},
	{"F3_GREEN", cec.KeyF3Green}, {"F4_YELLOW", cec.KeyF4Yellow},
	{"DATA", cec.KeyData},
	{"AN_RETURN", cec.KeyAnReturn}, {"AN_CHANNELS_LIST", cec.KeyAnChannelsList},
}

// Names resolves the symbolic names used in override files. Build it once
// with NewNames and share it; it is read-only afterwards.
type Names struct {
	remote     map[string]cec.UserControlCode
	output     map[string]OutputKey
	remoteName map[cec.UserControlCode]string
	outputName map[OutputKey]string
	remoteList []string
	outputList []string
}

func NewNames() *Names {
	n := &Names{
		remote:     make(map[string]cec.UserControlCode, len(remoteKeyNames)),
		output:     make(map[string]OutputKey, len(outputKeyNames)),
		remoteName: make(map[cec.UserControlCode]string, len(remoteKeyNames)),
		outputName: make(map[OutputKey]string, len(outputKeyNames)),
	}
	for _, r := range remoteKeyNames {
		n.remote[r.name] = r.code
		n.remoteName[r.code] = r.name
		n.remoteList = append(n.remoteList, r.name)
	}
	for _, o := range outputKeyNames {
		n.output[o.name] = o.key
		n.outputName[o.key] = o.name
		n.outputList = append(n.outputList, o.name)
	}
	return n
}

// Remote resolves a remote key name. Matching is exact and case sensitive.
func (n *Names) Remote(name string) (cec.UserControlCode, bool) {
	c, ok := n.remote[name]
	return c, ok
}

// Output resolves an output key name. Matching is exact and case sensitive.
func (n *Names) Output(name string) (OutputKey, bool) {
	k, ok := n.output[name]
	return k, ok
}

func (n *Names) RemoteName(code cec.UserControlCode) (string, bool) {
	s, ok := n.remoteName[code]
	return s, ok
}

func (n *Names) OutputName(key OutputKey) (string, bool) {
	s, ok := n.outputName[key]
	return s, ok
}

// RemoteNames returns every remote key name in table order.
func (n *Names) RemoteNames() []string { return append([]string(nil), n.remoteList...) }

// OutputKeys returns every named output key.
func (n *Names) OutputKeys() []OutputKey {
	out := make([]OutputKey, 0, len(n.outputList))
	for _, name := range n.outputList {
		out = append(out, n.output[name])
	}
	return out
}
