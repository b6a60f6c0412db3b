// Package keymap translates CEC remote control codes into chords of Linux
// input keys. A Table is total over the remote code range; the compiled-in
// table can be replaced wholesale by an override file.
package keymap

import (
	"fmt"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/cecinput/cecinput/cec"
)

// MaxChord is the most output keys a single remote key may press.
const MaxChord = 4

// Chord is an ordered set of output keys pressed together. The zero value is
// the empty chord. Chords compare with == by sequence.
type Chord struct {
	n    uint8
	keys [MaxChord]OutputKey
}

// NewChord builds a chord. It panics when given more than MaxChord keys.
func NewChord(keys ...OutputKey) Chord {
	if len(keys) > MaxChord {
		panic(fmt.Sprintf("keymap: chord of %d keys exceeds %d", len(keys), MaxChord))
	}
	var c Chord
	c.n = uint8(copy(c.keys[:], keys))
	return c
}

func (c Chord) Len() int { return int(c.n) }
func (c Chord) Empty() bool { return c.n == 0 }
func (c Chord) Keys() []OutputKey {
	return slices.Clone(c.keys[:c.n])
}

func (c Chord) String() string {
	if c.n == 0 {
		return "none"
	}
	parts := make([]string, 0, c.n)
	for _, k := range c.keys[:c.n] {
		parts = append(parts, k.String())
	}
	return strings.Join(parts, "+")
}

// Table maps every remote control code to a chord.
type Table struct {
	entries [cec.UserControlCodeMax + 1]Chord
}

// Lookup returns the chord for code. ok is false when code is out of range.
func (t *Table) Lookup(code cec.UserControlCode) (c Chord, ok bool) {
	if !code.Valid() {
		return Chord{}, false
	}
	return t.entries[code], true
}

// Clone returns an independent copy.
func (t *Table) Clone() *Table {
	cp := *t
	return &cp
}

func (t *Table) set(code cec.UserControlCode, c Chord) {
	t.entries[code] = c
}

// OutputKeys lists every distinct key any entry of t may press, in ascending
// order.
func (t *Table) OutputKeys() []OutputKey {
	seen := make(map[OutputKey]struct{})
	var out []OutputKey
	for _, c := range t.entries {
		for _, k := range c.keys[:c.n] {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// Equal reports whether both tables hold the same chords.
func (t *Table) Equal(o *Table) bool {
	return t.entries == o.entries
}

// Default returns the compiled-in table.
func Default() *Table {
	t := &Table{}
	for _, d := range defaults {
		t.set(d.code, NewChord(d.keys...))
	}
	return t
}

type defaultEntry struct {
	code cec.UserControlCode
	keys []OutputKey
}

var defaults = []defaultEntry{
	{cec.KeySelect, []OutputKey{KeyEnter}},
	{cec.KeyUp, []OutputKey{KeyUp}},
	{cec.KeyDown, []OutputKey{KeyDown}},
	{cec.KeyLeft, []OutputKey{KeyLeft}},
	{cec.KeyRight, []OutputKey{KeyRight}},
	{cec.KeyRightUp, []OutputKey{KeyRight, KeyUp}},
	{cec.KeyRightDown, []OutputKey{KeyRight, KeyDown}},
	{cec.KeyLeftUp, []OutputKey{KeyLeft, KeyUp}},
	{cec.KeyLeftDown, []OutputKey{KeyLeft, KeyDown}},
	{cec.KeyRootMenu, []OutputKey{KeyHome}},
	{cec.KeySetupMenu, []OutputKey{KeySetup}},
	{cec.KeyContentsMenu, []OutputKey{KeyMenu}},
	{cec.KeyFavoriteMenu, []OutputKey{KeyFavorites}},
	{cec.KeyExit, []OutputKey{KeyEsc}},

	{cec.KeyNumber0, []OutputKey{Key0}},
	{cec.KeyNumber1, []OutputKey{Key1}},
	{cec.KeyNumber2, []OutputKey{Key2}},
	{cec.KeyNumber3, []OutputKey{Key3}},
	{cec.KeyNumber4, []OutputKey{Key4}},
	{cec.KeyNumber5, []OutputKey{Key5}},
	{cec.KeyNumber6, []OutputKey{Key6}},
	{cec.KeyNumber7, []OutputKey{Key7}},
	{cec.KeyNumber8, []OutputKey{Key8}},
	{cec.KeyNumber9, []OutputKey{Key9}},
	{cec.KeyDot, []OutputKey{KeyDot}},
	{cec.KeyEnter, []OutputKey{KeyEnter}},
	{cec.KeyClear, []OutputKey{KeyBackspace}},

	{cec.KeyChannelUp, []OutputKey{KeyChannelUp}},
	{cec.KeyChannelDown, []OutputKey{KeyChannelDown}},
	{cec.KeyPreviousChannel, []OutputKey{KeyPrevious}},
	{cec.KeySoundSelect, []OutputKey{KeySound}},
	{cec.KeyInputSelect, []OutputKey{KeyTuner}},
	{cec.KeyDisplayInformation, []OutputKey{KeyInfo}},
	{cec.KeyHelp, []OutputKey{KeyHelp}},
	{cec.KeyPageUp, []OutputKey{KeyPageUp}},
	{cec.KeyPageDown, []OutputKey{KeyPageDown}},

	{cec.KeyPower, []OutputKey{KeyPower}},
	{cec.KeyVolumeUp, []OutputKey{KeyVolumeUp}},
	{cec.KeyVolumeDown, []OutputKey{KeyVolumeDown}},
	{cec.KeyMute, []OutputKey{KeyMute}},
	{cec.KeyPlay, []OutputKey{KeyPlay}},
	{cec.KeyStop, []OutputKey{KeyStop}},
	{cec.KeyPause, []OutputKey{KeyPause}},
	{cec.KeyRecord, []OutputKey{KeyRecord}},
	{cec.KeyRewind, []OutputKey{KeyRewind}},
	{cec.KeyFastForward, []OutputKey{KeyFastForward}},
	{cec.KeyEject, []OutputKey{KeyEjectCD}},
	{cec.KeyForward, []OutputKey{KeyForward}},
	{cec.KeyBackward, []OutputKey{KeyBack}},

	{cec.KeyAngle, []OutputKey{KeyScreen}},
	{cec.KeySubPicture, []OutputKey{KeySubtitle}},
	{cec.KeyVideoOnDemand, []OutputKey{KeyVideo}},
	{cec.KeyElectronicProgramGuide, []OutputKey{KeyEPG}},
	{cec.KeyTimerProgramming, []OutputKey{KeyTime}},
	{cec.KeyInitialConfiguration, []OutputKey{KeyConfig}},
	{cec.KeySelectMediaFunction, []OutputKey{KeyMedia}},

	{cec.KeyF1Blue, []OutputKey{KeyBlue}},
	{cec.KeyF2Red, []OutputKey{KeyRed}},
	{cec.KeyF3Green, []OutputKey{KeyGreen}},
	{cec.KeyF4Yellow, []OutputKey{KeyYellow}},
	{cec.KeyData, []OutputKey{KeyText}},
	{cec.KeyAnReturn, []OutputKey{KeyEsc}},
	{cec.KeyAnChannelsList, []OutputKey{KeyList}},
}

// Store holds the active table. Readers always observe a complete table.
type Store struct {
	p atomic.Pointer[Table]
}

func NewStore(t *Table) *Store {
	s := &Store{}
	s.p.Store(t)
	return s
}

func (s *Store) Load() *Table { return s.p.Load() }

// Replace publishes t as the active table.
func (s *Store) Replace(t *Table) { s.p.Store(t) }
