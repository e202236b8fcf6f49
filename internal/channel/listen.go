package channel

import (
	"context"
	"errors"

	"github.com/labi-le/mammon/internal/types/domain"
	"github.com/labi-le/mammon/pkg/ctxlog"
	"github.com/rs/zerolog"
)

type Sink interface {
	AppendIfNew(entry domain.Entry) bool
}

// Listen moves events from q into sink until a Quit event arrives, the queue
// is closed or ctx is cancelled. Only cancellation is reported as an error.
func Listen(ctx context.Context, q *Queue, sink Sink, logger zerolog.Logger) error {
	ctxLog := ctxlog.Op(logger, "channel.Listen")

	for {
		ev, err := q.Receive(ctx)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				ctxLog.Debug().Msg("queue closed")
				return nil
			}
			return err
		}

		if ev.IsQuit() {
			ctxLog.Debug().Msg("quit received")
			return nil
		}

		entry, ok := ev.Entry()
		if !ok {
			ctxLog.Warn().Stringer("kind", ev.Kind()).Msg("unexpected event")
			continue
		}

		if !sink.AppendIfNew(entry) {
			ctxLog.Trace().EmbedObject(entry).Msg("duplicate skipped")
		}
	}
}
