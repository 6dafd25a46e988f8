//go:build linux

package devices

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/lakitu/middledrag/pointer"
	"github.com/lakitu/middledrag/types"
	"github.com/lakitu/middledrag/utils"
)

// uinput ioctls and event codes, from linux/uinput.h and linux/input.h
const (
	uinputMaxNameSize = 80

	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566

	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	synReport = 0x00
	relX      = 0x00
	relY      = 0x01
	btnMiddle = 0x112

	busUSB = 0x03

	absArraySize = 64
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type uinputUserDev struct {
	Name         [uinputMaxNameSize]byte
	ID           inputID
	FfEffectsMax uint32
	Absmax       [absArraySize]int32
	Absmin       [absArraySize]int32
	Absfuzz      [absArraySize]int32
	Absflat      [absArraySize]int32
}

type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// UinputSink injects middle-button events through a virtual relative
// mouse created via /dev/uinput. Absolute target positions from the
// synthesizer are converted to relative deltas against the last
// injected position, rounded half away from zero so sub-pixel motion
// accumulates instead of vanishing.
type UinputSink struct {
	mu   sync.Mutex
	fd   int
	last types.Point
	// fractional remainder carried between moves
	remX float64
	remY float64
}

// NewUinputSink creates and registers the virtual device. Requires
// write access to /dev/uinput.
func NewUinputSink() (*UinputSink, error) {
	fd, err := unix.Open("/dev/uinput", unix.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open /dev/uinput: %w", err)
	}

	for _, bit := range []int{evKey, evRel, evSyn} {
		if err := unix.IoctlSetInt(fd, uiSetEvBit, bit); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("UI_SET_EVBIT %d failed: %w", bit, err)
		}
	}
	if err := unix.IoctlSetInt(fd, uiSetKeyBit, btnMiddle); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("UI_SET_KEYBIT BTN_MIDDLE failed: %w", err)
	}
	for _, axis := range []int{relX, relY} {
		if err := unix.IoctlSetInt(fd, uiSetRelBit, axis); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("UI_SET_RELBIT %d failed: %w", axis, err)
		}
	}

	var dev uinputUserDev
	copy(dev.Name[:], "middledrag virtual mouse")
	dev.ID = inputID{Bustype: busUSB, Vendor: 0x1d6b, Product: 0x0104, Version: 1}

	buf := (*[unsafe.Sizeof(dev)]byte)(unsafe.Pointer(&dev))[:]
	if _, err := unix.Write(fd, buf); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to write uinput device descriptor: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("UI_DEV_CREATE failed: %w", err)
	}

	return &UinputSink{fd: fd}, nil
}

func (u *UinputSink) MiddleDown(p types.Point) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.last = p
	u.remX, u.remY = 0, 0
	u.emit(evKey, btnMiddle, 1)
	u.emit(evSyn, synReport, 0)
}

func (u *UinputSink) MiddleMove(p types.Point) {
	u.mu.Lock()
	defer u.mu.Unlock()

	dx := p.X - u.last.X + u.remX
	dy := p.Y - u.last.Y + u.remY
	ix := pointer.RoundHalfAway(dx)
	iy := pointer.RoundHalfAway(dy)
	u.remX = dx - float64(ix)
	u.remY = dy - float64(iy)
	u.last = p

	if ix == 0 && iy == 0 {
		return
	}
	if ix != 0 {
		u.emit(evRel, relX, int32(ix))
	}
	if iy != 0 {
		u.emit(evRel, relY, int32(iy))
	}
	u.emit(evSyn, synReport, 0)
}

func (u *UinputSink) MiddleUp(p types.Point) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.last = p
	u.emit(evKey, btnMiddle, 0)
	u.emit(evSyn, synReport, 0)
}

// Close destroys the virtual device.
func (u *UinputSink) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.fd < 0 {
		return nil
	}
	if err := unix.IoctlSetInt(u.fd, uiDevDestroy, 0); err != nil {
		utils.Verbose("UI_DEV_DESTROY failed: %v", err)
	}
	err := unix.Close(u.fd)
	u.fd = -1
	return err
}

func (u *UinputSink) emit(typ, code uint16, value int32) {
	ev := inputEvent{Type: typ, Code: code, Value: value}
	buf := (*[unsafe.Sizeof(ev)]byte)(unsafe.Pointer(&ev))[:]
	if _, err := unix.Write(u.fd, buf); err != nil {
		utils.Verbose("uinput write failed: %v", err)
	}
}

// NewPlatformSink returns the best injection backend for this
// platform, falling back to the log sink when uinput is unavailable.
func NewPlatformSink() pointer.EventSink {
	sink, err := NewUinputSink()
	if err != nil {
		utils.Warn("uinput unavailable (%v), falling back to log sink", err)
		return LogSink{}
	}
	return sink
}
