package domain

import (
	"time"

	"github.com/labi-le/mammon/pkg/mime"
)

type EventKind uint8

const (
	KindText EventKind = iota + 1
	KindImage
	// KindQuit asks the listener to stop; it never reaches the history.
	KindQuit
)

func (k EventKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ClipEvent travels from the clipboard watcher (or the window on close) to the
// history listener. Fields are unexported so an event cannot change after it
// has been queued.
type ClipEvent struct {
	kind    EventKind
	text    string
	image   []byte
	created time.Time
}

func TextEvent(text string) ClipEvent {
	return ClipEvent{kind: KindText, text: text, created: time.Now()}
}

// ImageEvent wraps JPEG encoded bytes.
func ImageEvent(jpeg []byte) ClipEvent {
	return ClipEvent{kind: KindImage, image: jpeg, created: time.Now()}
}

func QuitEvent() ClipEvent {
	return ClipEvent{kind: KindQuit, created: time.Now()}
}

func (e ClipEvent) Kind() EventKind    { return e.kind }
func (e ClipEvent) Text() string       { return e.text }
func (e ClipEvent) Image() []byte      { return e.image }
func (e ClipEvent) Created() time.Time { return e.created }
func (e ClipEvent) IsQuit() bool       { return e.kind == KindQuit }

// Entry converts a Text or Image event to a history entry.
// Quit and zero events report false.
func (e ClipEvent) Entry() (Entry, bool) {
	switch e.kind {
	case KindText:
		return newEntry(mime.TypeText, e.text, nil, e.created), true
	case KindImage:
		return newEntry(mime.TypeImage, "", e.image, e.created), true
	default:
		return Entry{}, false
	}
}
