package capture

import (
	"context"
	"sync"

	"github.com/labi-le/mammon/pkg/clipboard/eventful"
	"github.com/labi-le/mammon/pkg/ctxlog"
	"github.com/rs/zerolog"
)

type Watcher struct {
	source  eventful.Eventful
	handler *Handler
	logger  zerolog.Logger
}

func NewWatcher(source eventful.Eventful, handler *Handler, logger zerolog.Logger) *Watcher {
	return &Watcher{
		source:  source,
		handler: handler,
		logger:  ctxlog.Component(logger, "watcher"),
	}
}

// Start runs the backend in the background and feeds every update to the handler.
func (w *Watcher) Start(ctx context.Context) *Shutdown {
	ctx, cancel := context.WithCancel(ctx)

	s := &Shutdown{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	updates := make(chan eventful.Update)
	watched := make(chan struct{})

	go func() {
		defer close(watched)
		if err := w.source.Watch(ctx, updates); err != nil {
			w.logger.Error().Err(err).Msg("clipboard watch stopped")
			s.setErr(err)
		}
	}()

	go func() {
		defer close(s.done)
		for upd := range updates {
			w.handler.Handle(upd)
		}
		<-watched
		w.logger.Debug().Msg("watcher finished")
	}()

	return s
}

// Shutdown stops a started Watcher.
type Shutdown struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	mu  sync.Mutex
	err error
}

func (s *Shutdown) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Stop cancels the backend and waits until the last update is handled.
// It is safe to call more than once.
func (s *Shutdown) Stop() error {
	s.once.Do(s.cancel)
	<-s.done
	return s.Err()
}

// Done is closed when the watcher exits on its own or after Stop.
func (s *Shutdown) Done() <-chan struct{} {
	return s.done
}

// Err reports why the backend stopped, if it failed.
func (s *Shutdown) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
