package capture

import (
	"unsafe"

	"github.com/labi-le/mammon/internal/types/domain"
	"github.com/labi-le/mammon/pkg/clipboard/eventful"
	"github.com/labi-le/mammon/pkg/ctxlog"
	"github.com/labi-le/mammon/pkg/image"
	"github.com/rs/zerolog"
)

type Sender interface {
	Send(ev domain.ClipEvent) error
}

type Handler struct {
	queue   Sender
	quality int
	logger  zerolog.Logger
}

type Option func(*Handler)

// WithQuality sets the JPEG quality used for captured images.
func WithQuality(q int) Option {
	return func(h *Handler) {
		h.quality = q
	}
}

func NewHandler(queue Sender, logger zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		queue:   queue,
		quality: image.DefaultQuality,
		logger:  ctxlog.Component(logger, "capture"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle turns one clipboard update into an event. It never blocks on the
// consumer and never fails: unreadable payloads are dropped.
func (h *Handler) Handle(upd eventful.Update) {
	ctxLog := ctxlog.Op(h.logger, "capture.Handle")

	switch {
	case upd.MimeType.IsText():
		if len(upd.Data) == 0 {
			return
		}
		h.send(ctxLog, domain.TextEvent(textOf(upd.Data)), upd)

	case upd.MimeType.IsImage():
		jpg, err := image.ToJPEG(upd.Data, h.quality)
		if err != nil {
			ctxLog.Debug().Err(err).EmbedObject(upd).Msg("skip image")
			return
		}
		h.send(ctxLog, domain.ImageEvent(jpg), upd)

	default:
		ctxLog.Trace().EmbedObject(upd).Msg("unsupported update")
	}
}

func (h *Handler) send(ctxLog zerolog.Logger, ev domain.ClipEvent, upd eventful.Update) {
	if err := h.queue.Send(ev); err != nil {
		ctxLog.Warn().Err(err).Stringer("kind", ev.Kind()).Msg("event dropped")
		return
	}
	ctxLog.Trace().EmbedObject(upd).Stringer("kind", ev.Kind()).Msg("event queued")
}

// textOf shares the update buffer with the returned string. Backends hand
// over ownership of Data, so nothing writes to it afterwards.
func textOf(data []byte) string {
	return unsafe.String(unsafe.SliceData(data), len(data))
}
