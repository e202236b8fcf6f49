package domain

import (
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash"
	"github.com/dustin/go-humanize"
	"github.com/labi-le/mammon/pkg/id"
	"github.com/labi-le/mammon/pkg/mime"
	"github.com/rs/zerolog"
)

const previewRunes = 48

// Entry is one retained clipboard item.
type Entry struct {
	ID       id.Unique
	MimeType mime.Type
	Text     string
	Image    []byte
	Hash     uint64
	Created  time.Time
}

func newEntry(t mime.Type, text string, img []byte, created time.Time) Entry {
	var hash uint64
	if t.IsImage() {
		hash = xxhash.Sum64(img)
	} else {
		hash = xxhash.Sum64String(text)
	}

	return Entry{
		ID:       id.New(),
		MimeType: t,
		Text:     text,
		Image:    img,
		Hash:     hash,
		Created:  created,
	}
}

func NewText(text string) Entry {
	return newEntry(mime.TypeText, text, nil, time.Now())
}

func NewImage(jpeg []byte) Entry {
	return newEntry(mime.TypeImage, "", jpeg, time.Now())
}

func (e Entry) Size() int {
	if e.MimeType.IsImage() {
		return len(e.Image)
	}
	return len(e.Text)
}

// Preview returns a short single line form of a text entry.
func (e Entry) Preview() string {
	if e.MimeType.IsImage() {
		return "image " + humanize.Bytes(uint64(len(e.Image)))
	}
	if utf8.RuneCountInString(e.Text) <= previewRunes {
		return e.Text
	}
	return string([]rune(e.Text)[:previewRunes]) + "…"
}

func (e Entry) MarshalZerologObject(ev *zerolog.Event) {
	ev.Int64("id", e.ID)
	ev.Stringer("mime", e.MimeType)
	ev.Uint64("hash", e.Hash)
	ev.Str("size", humanize.Bytes(uint64(e.Size())))
}

// Duplicate reports whether candidate must be dropped because existing
// already holds it. Text compares by content; an image is never a duplicate
// of anything, itself included.
func Duplicate(existing, candidate Entry) bool {
	if existing.MimeType != mime.TypeText || candidate.MimeType != mime.TypeText {
		return false
	}
	return existing.Hash == candidate.Hash && existing.Text == candidate.Text
}
