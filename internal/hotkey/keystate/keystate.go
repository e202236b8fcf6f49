// Package keystate feeds hotkey.KeyState from the global input hook.
package keystate

import (
	"errors"
	"os"
	"runtime"
	"sync"

	"github.com/labi-le/mammon/internal/hotkey"
	"github.com/labi-le/mammon/pkg/ctxlog"
	hook "github.com/robotn/gohook"
	"github.com/rs/zerolog"
)

var ErrUnavailable = errors.New("global input hook unavailable: no X11 display")

// Keymap resolves key names used in hotkey chords.
func Keymap() map[string]uint16 {
	return hook.Keycode
}

type Source struct {
	*hotkey.KeyState

	logger zerolog.Logger
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// New starts the hook. On Linux it requires an X11 display; a Wayland-only
// session has no global key state.
func New(logger zerolog.Logger) (*Source, error) {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" {
		return nil, ErrUnavailable
	}

	s := &Source{
		KeyState: hotkey.NewKeyState(),
		logger:   ctxlog.Component(logger, "keystate"),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go s.consume(hook.Start())
	return s, nil
}

func (s *Source) consume(events chan hook.Event) {
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.apply(ev)
		}
	}
}

func (s *Source) apply(ev hook.Event) {
	switch ev.Kind {
	case hook.HookEnabled:
		s.logger.Debug().Msg("hook enabled")
		s.Reset()
	case hook.KeyHold:
		s.Press(ev.Keycode)
	case hook.KeyUp:
		s.Release(ev.Keycode)
	case hook.MouseMove, hook.MouseDrag, hook.MouseDown, hook.MouseUp:
		s.Move(int(ev.X), int(ev.Y))
	}
}

// Close stops the hook and waits for the event consumer.
func (s *Source) Close() {
	s.once.Do(func() {
		close(s.stop)
		hook.End()
	})
	<-s.done
}
