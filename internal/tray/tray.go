package tray

import (
	"context"

	"github.com/rs/zerolog"
)

type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
)

type State uint8

const (
	StatePressed State = iota
	StateReleased
)

// Event is one interaction with the tray icon.
type Event struct {
	Button Button
	State  State
}

type Toggler interface {
	SwitchVisible(byHotkey bool)
	TogglePin()
}

// Listen applies tray events to target until events is closed or ctx ends.
func Listen(ctx context.Context, events <-chan Event, target Toggler, logger zerolog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.State != StateReleased {
				continue
			}

			switch ev.Button {
			case ButtonLeft:
				logger.Trace().Msg("tray left click")
				target.SwitchVisible(false)
			case ButtonRight:
				logger.Trace().Msg("tray right click")
				target.TogglePin()
			}
		}
	}
}
