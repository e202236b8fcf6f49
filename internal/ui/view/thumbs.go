package view

import (
	"gioui.org/op/paint"
	"github.com/labi-le/mammon/pkg/id"
	"github.com/labi-le/mammon/pkg/image"
)

// thumbs caches decoded previews by entry id. Entries not drawn during a
// frame are dropped by sweep.
type thumbs struct {
	maxW, maxH int
	ops        map[id.Unique]paint.ImageOp
	failed     map[id.Unique]struct{}
	seen       map[id.Unique]struct{}
}

func newThumbs(maxW, maxH int) *thumbs {
	return &thumbs{
		maxW:   maxW,
		maxH:   maxH,
		ops:    make(map[id.Unique]paint.ImageOp),
		failed: make(map[id.Unique]struct{}),
		seen:   make(map[id.Unique]struct{}),
	}
}

func (t *thumbs) get(key id.Unique, jpeg []byte) (paint.ImageOp, bool) {
	t.seen[key] = struct{}{}

	if op, ok := t.ops[key]; ok {
		return op, true
	}
	if _, ok := t.failed[key]; ok {
		return paint.ImageOp{}, false
	}

	img, _, err := image.Decode(jpeg)
	if err != nil {
		t.failed[key] = struct{}{}
		return paint.ImageOp{}, false
	}

	op := paint.NewImageOp(image.Thumbnail(img, t.maxW, t.maxH))
	t.ops[key] = op
	return op, true
}

func (t *thumbs) sweep() {
	for key := range t.ops {
		if _, ok := t.seen[key]; !ok {
			delete(t.ops, key)
		}
	}
	for key := range t.failed {
		if _, ok := t.seen[key]; !ok {
			delete(t.failed, key)
		}
	}
	clear(t.seen)
}

func (t *thumbs) len() int { return len(t.ops) }
