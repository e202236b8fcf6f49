//go:build windows

package ui

import (
	"errors"

	"gioui.org/app"
	"gioui.org/io/event"
	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"
)

const (
	swHide = 0
	swShow = 5

	swpNoSize     = 0x0001
	swpNoMove     = 0x0002
	swpNoZOrder   = 0x0004
	swpNoActivate = 0x0010
)

var (
	hwndTopmost   = ^uintptr(0) // -1
	hwndNoTopmost = ^uintptr(1) // -2
)

var (
	user32 = windows.NewLazyDLL("user32.dll")

	procShowWindow          = user32.NewProc("ShowWindow")
	procSetForegroundWindow = user32.NewProc("SetForegroundWindow")
	procSetWindowPos        = user32.NewProc("SetWindowPos")
)

var errCallFailed = errors.New("user32 call failed")

type win32Controller struct {
	hwnd uintptr
}

func newController(e event.Event, _ zerolog.Logger) (controller, bool) {
	ev, ok := e.(app.Win32ViewEvent)
	if !ok || ev.HWND == 0 {
		return nil, false
	}
	return &win32Controller{hwnd: ev.HWND}, true
}

func (c *win32Controller) Show() error {
	_, _, _ = procShowWindow.Call(c.hwnd, swShow)
	return nil
}

func (c *win32Controller) Hide() error {
	_, _, _ = procShowWindow.Call(c.hwnd, swHide)
	return nil
}

func (c *win32Controller) Focus() error {
	if r, _, err := procSetForegroundWindow.Call(c.hwnd); r == 0 {
		return errors.Join(errCallFailed, err)
	}
	return nil
}

func (c *win32Controller) Move(x, y int) error {
	return c.setPos(0, x, y, swpNoSize|swpNoZOrder|swpNoActivate)
}

func (c *win32Controller) SetTopmost(on bool) error {
	after := hwndNoTopmost
	if on {
		after = hwndTopmost
	}
	return c.setPos(after, 0, 0, swpNoSize|swpNoMove|swpNoActivate)
}

func (c *win32Controller) setPos(after uintptr, x, y int, flags uintptr) error {
	r, _, err := procSetWindowPos.Call(c.hwnd, after, uintptr(x), uintptr(y), 0, 0, flags)
	if r == 0 {
		return errors.Join(errCallFailed, err)
	}
	return nil
}

func (c *win32Controller) Close() error { return nil }
