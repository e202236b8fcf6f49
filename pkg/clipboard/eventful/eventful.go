package eventful

import (
	"context"
	"errors"

	"github.com/labi-le/mammon/pkg/mime"
	"github.com/rs/zerolog"
)

var ErrNotWatching = errors.New("clipboard is not being watched")

type Eventful interface {
	// Watch subscribe to clipboard updates
	// when the context is finished, Watch must close the update channel
	Watch(ctx context.Context, upd chan<- Update) error
	Write(t mime.Type, src []byte) (int, error)
}

// Update is one format read from the clipboard after a change.
// A single change may produce one text and one image update. Backends
// never reuse Data after sending it.
type Update struct {
	Data     []byte
	MimeType mime.Type
	Hash     uint64
}

func (u Update) MarshalZerologObject(e *zerolog.Event) {
	e.Int("length", len(u.Data))
	e.Uint64("hash", u.Hash)
	e.Stringer("mime", u.MimeType)
}
