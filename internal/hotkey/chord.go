package hotkey

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyChord = errors.New("empty hotkey")
	ErrUnknownKey = errors.New("unknown key")
)

// DefaultChord opens the history window.
const DefaultChord = "ctrl+shift+a"

// modifiers match either the left or the right key.
var modifiers = map[string][]string{
	"ctrl":    {"ctrl", "rctrl"},
	"control": {"ctrl", "rctrl"},
	"shift":   {"shift", "rshift"},
	"alt":     {"alt", "ralt"},
	"option":  {"alt", "ralt"},
	"cmd":     {"cmd", "rcmd"},
	"super":   {"cmd", "rcmd"},
	"meta":    {"cmd", "rcmd"},
}

// Chord is a set of keys that must be held together.
// Each position lists interchangeable key codes.
type Chord struct {
	name string
	keys [][]uint16
}

// ParseChord parses strings like "ctrl+shift+a" using keymap to resolve key names.
func ParseChord(s string, keymap map[string]uint16) (Chord, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Chord{}, ErrEmptyChord
	}

	var chord Chord
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Chord{}, fmt.Errorf("%w: %q", ErrEmptyChord, s)
		}

		names, ok := modifiers[part]
		if !ok {
			names = []string{part}
		}

		var codes []uint16
		for _, name := range names {
			if code, ok := keymap[name]; ok {
				codes = append(codes, code)
			}
		}
		if len(codes) == 0 {
			return Chord{}, fmt.Errorf("%w: %q", ErrUnknownKey, part)
		}

		chord.keys = append(chord.keys, codes)
	}

	chord.name = s
	return chord, nil
}

func (c Chord) String() string { return c.name }

// Pressed reports whether every key of the chord is held in src.
func (c Chord) Pressed(src Source) bool {
	if len(c.keys) == 0 {
		return false
	}

	for _, alternatives := range c.keys {
		held := false
		for _, code := range alternatives {
			if src.Pressed(code) {
				held = true
				break
			}
		}
		if !held {
			return false
		}
	}
	return true
}
