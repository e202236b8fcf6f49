//go:build windows

package design

import (
	"context"
	"fmt"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/labi-le/mammon/pkg/clipboard/eventful"
	"github.com/labi-le/mammon/pkg/mime"
	"golang.design/x/clipboard"
)

var _ eventful.Eventful = (*Clipboard)(nil)

// Clipboard is backed by golang.design/x/clipboard, which watches the text
// and image formats separately.
type Clipboard struct {
	initOnce sync.Once
	initErr  error
}

func New() *Clipboard {
	return new(Clipboard)
}

func (c *Clipboard) init() error {
	c.initOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			c.initErr = fmt.Errorf("clipboard.Init: %w", err)
		}
	})
	return c.initErr
}

func (c *Clipboard) Watch(ctx context.Context, upd chan<- eventful.Update) error {
	defer close(upd)

	if err := c.init(); err != nil {
		return err
	}

	text := clipboard.Watch(ctx, clipboard.FmtText)
	img := clipboard.Watch(ctx, clipboard.FmtImage)

	for text != nil || img != nil {
		var (
			data []byte
			ok   bool
			typ  mime.Type
		)

		select {
		case <-ctx.Done():
			return nil
		case data, ok = <-text:
			if !ok {
				text = nil
				continue
			}
			typ = mime.TypeText
		case data, ok = <-img:
			if !ok {
				img = nil
				continue
			}
			typ = mime.TypeImage
		}

		if len(data) == 0 {
			continue
		}

		select {
		case upd <- eventful.Update{Data: data, MimeType: typ, Hash: xxhash.Sum64(data)}:
		case <-ctx.Done():
			return nil
		}
	}

	return nil
}

func (c *Clipboard) Write(t mime.Type, src []byte) (int, error) {
	if err := c.init(); err != nil {
		return 0, err
	}

	format := clipboard.FmtText
	if t.IsImage() {
		format = clipboard.FmtImage
	}

	clipboard.Write(format, src)
	return len(src), nil
}
