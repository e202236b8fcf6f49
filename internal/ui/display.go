package ui

import (
	"os"
	"runtime"
)

// PreferX11 makes Gio open the window through XWayland when both an X11
// and a Wayland display are available. Wayland offers no way to restore a
// minimized window, to position it or to keep it above others, and the
// clipboard and hotkey backends already talk to X11. It reports whether
// the environment was changed. Call it before New.
func PreferX11() bool {
	if runtime.GOOS != "linux" && runtime.GOOS != "freebsd" && runtime.GOOS != "openbsd" {
		return false
	}
	if os.Getenv("DISPLAY") == "" {
		return false
	}
	if _, ok := os.LookupEnv("WAYLAND_DISPLAY"); !ok {
		return false
	}
	return os.Unsetenv("WAYLAND_DISPLAY") == nil
}
