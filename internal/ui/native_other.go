//go:build !windows && (((!linux || android) && !freebsd && !openbsd) || nox11)

package ui

import (
	"gioui.org/io/event"
	"github.com/rs/zerolog"
)

// Wayland and macOS windows are driven through Gio options only.
func newController(event.Event, zerolog.Logger) (controller, bool) {
	return nil, false
}
