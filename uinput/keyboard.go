// Package uinput creates a virtual keyboard through the Linux uinput driver.
package uinput

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	evdev "github.com/gvalkov/golang-evdev"
	"golang.org/x/sys/unix"

	"github.com/cecinput/cecinput/keymap"
	"github.com/cecinput/cecinput/keystate"
)

// DefaultPath is the uinput control node.
const DefaultPath = "/dev/uinput"

const (
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502

	maxNameSize = 80
	absCnt      = 0x40

	busVirtual = 0x06
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// userDev is struct uinput_user_dev.
type userDev struct {
	Name         [maxNameSize]byte
	ID           inputID
	FFEffectsMax uint32
	Absmax       [absCnt]int32
	Absmin       [absCnt]int32
	Absfuzz      [absCnt]int32
	Absflat      [absCnt]int32
}

// Keyboard is a virtual keyboard. It implements keystate.Sink.
type Keyboard struct {
	mu   sync.Mutex
	w    io.Writer
	file *os.File
	name string
}

var _ keystate.Sink = (*Keyboard)(nil)

// Create registers a keyboard named name able to emit keys. path is usually
// DefaultPath.
func Create(path, name string, keys []keymap.OutputKey) (*Keyboard, error) {
	if name == "" {
		return nil, errors.New("uinput: empty device name")
	}
	if len(name) >= maxNameSize {
		name = name[:maxNameSize-1]
	}

	f, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	fd := int(f.Fd())

	fail := func(err error) (*Keyboard, error) {
		_ = f.Close()
		return nil, err
	}

	for _, ev := range []int{evdev.EV_KEY, evdev.EV_SYN} {
		if err := unix.IoctlSetInt(fd, uiSetEvBit, ev); err != nil {
			return fail(fmt.Errorf("UI_SET_EVBIT %d: %w", ev, err))
		}
	}
	for _, k := range keys {
		if err := unix.IoctlSetInt(fd, uiSetKeyBit, int(k)); err != nil {
			return fail(fmt.Errorf("UI_SET_KEYBIT %s: %w", k, err))
		}
	}

	dev := userDev{ID: inputID{Bustype: busVirtual, Vendor: 0x1, Product: 0x1, Version: 1}}
	copy(dev.Name[:], name)
	if _, err := f.Write(encodeUserDev(&dev)); err != nil {
		return fail(fmt.Errorf("write device description: %w", err))
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fail(fmt.Errorf("UI_DEV_CREATE: %w", err))
	}
	return &Keyboard{w: f, file: f, name: name}, nil
}

func encodeUserDev(dev *userDev) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.NativeEndian, dev)
	return buf.Bytes()
}

func (k *Keyboard) Name() string { return k.name }

func (k *Keyboard) Emit(key keymap.OutputKey, action keystate.Action) error {
	return k.write(evdev.EV_KEY, uint16(key), int32(action))
}

func (k *Keyboard) Sync() error {
	return k.write(evdev.EV_SYN, evdev.SYN_REPORT, 0)
}

func (k *Keyboard) write(typ, code uint16, value int32) error {
	var tv syscall.Timeval
	_ = syscall.Gettimeofday(&tv)
	ev := evdev.InputEvent{Time: tv, Type: typ, Code: code, Value: value}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &ev); err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.w == nil {
		return os.ErrClosed
	}
	_, err := k.w.Write(buf.Bytes())
	return err
}

// Close destroys the device.
func (k *Keyboard) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.w == nil {
		return nil
	}
	k.w = nil
	var errs []error
	if k.file != nil {
		if err := unix.IoctlSetInt(int(k.file.Fd()), uiDevDestroy, 0); err != nil {
			errs = append(errs, fmt.Errorf("UI_DEV_DESTROY: %w", err))
		}
		errs = append(errs, k.file.Close())
	}
	return errors.Join(errs...)
}
