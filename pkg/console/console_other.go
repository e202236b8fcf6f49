//go:build !windows

package console

// HideConsoleWindow does nothing: only Windows attaches a console window
// to the history window's process.
func HideConsoleWindow() bool { return false }
