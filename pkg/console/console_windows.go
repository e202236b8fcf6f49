//go:build windows

package console

import "golang.org/x/sys/windows"

const swHide = 0

var (
	procGetConsoleWindow = windows.NewLazyDLL("kernel32.dll").NewProc("GetConsoleWindow")
	procShowWindow       = windows.NewLazyDLL("user32.dll").NewProc("ShowWindow")
)

// HideConsoleWindow hides the console Windows opens for a console
// subsystem binary started from Explorer. It reports whether there was
// one to hide.
func HideConsoleWindow() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		return false
	}
	_, _, _ = procShowWindow.Call(hwnd, swHide)
	return true
}
