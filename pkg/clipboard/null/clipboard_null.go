package null

import (
	"context"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/labi-le/mammon/pkg/clipboard/eventful"
	"github.com/labi-le/mammon/pkg/mime"
)

var _ eventful.Eventful = (*Clipboard)(nil)

type Write struct {
	MimeType mime.Type
	Data     []byte
}

// Clipboard keeps everything in memory. Emit simulates an OS clipboard change.
type Clipboard struct {
	updates chan eventful.Update

	mu     sync.Mutex
	writes []Write
}

func NewNull() *Clipboard {
	return &Clipboard{updates: make(chan eventful.Update)}
}

func (n *Clipboard) Watch(ctx context.Context, up chan<- eventful.Update) error {
	defer close(up)

	for {
		select {
		case <-ctx.Done():
			return nil
		case u := <-n.updates:
			select {
			case up <- u:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Emit blocks until a running Watch picks the update up or ctx ends.
func (n *Clipboard) Emit(ctx context.Context, t mime.Type, data []byte) error {
	select {
	case n.updates <- eventful.Update{Data: data, MimeType: t, Hash: xxhash.Sum64(data)}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Clipboard) Write(t mime.Type, p []byte) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	data := make([]byte, len(p))
	copy(data, p)
	n.writes = append(n.writes, Write{MimeType: t, Data: data})

	return len(p), nil
}

func (n *Clipboard) Writes() []Write {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Write(nil), n.writes...)
}
