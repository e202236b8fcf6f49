package tray

import (
	"sync"

	"fyne.io/systray"
	"github.com/labi-le/mammon/pkg/ctxlog"
	"github.com/rs/zerolog"
)

const eventBuffer = 8

// Tray shows the icon and turns its callbacks into Events.
// A tap is a left click; the "Pin on top" menu item stands in for a right click.
type Tray struct {
	icon   []byte
	title  string
	events chan Event
	onQuit func()
	logger zerolog.Logger

	end     func()
	once    sync.Once
	stopped chan struct{}
}

func New(icon []byte, title string, onQuit func(), logger zerolog.Logger) *Tray {
	return &Tray{
		icon:    icon,
		title:   title,
		events:  make(chan Event, eventBuffer),
		onQuit:  onQuit,
		logger:  ctxlog.Component(logger, "tray"),
		stopped: make(chan struct{}),
	}
}

func (t *Tray) Events() <-chan Event {
	return t.events
}

// Start registers the icon without taking over the main loop, which
// belongs to the window.
func (t *Tray) Start() {
	start, end := systray.RunWithExternalLoop(t.onReady, t.onExit)
	t.end = end
	start()
}

// Stop removes the icon. It is safe to call more than once.
func (t *Tray) Stop() {
	t.once.Do(func() {
		if t.end != nil {
			t.end()
		}
		close(t.stopped)
	})
}

func (t *Tray) onReady() {
	systray.SetIcon(t.icon)
	systray.SetTitle(t.title)
	systray.SetTooltip(t.title)
	systray.SetOnTapped(func() {
		t.click(ButtonLeft)
	})

	mToggle := systray.AddMenuItem("Show / Hide", "Toggle the history window")
	mPin := systray.AddMenuItem("Pin on top", "Keep the window above others")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "")

	go func() {
		for {
			select {
			case <-t.stopped:
				return
			case <-mToggle.ClickedCh:
				t.click(ButtonLeft)
			case <-mPin.ClickedCh:
				t.click(ButtonRight)
			case <-mQuit.ClickedCh:
				t.logger.Debug().Msg("quit selected")
				if t.onQuit != nil {
					t.onQuit()
				}
				return
			}
		}
	}()
}

func (t *Tray) onExit() {
	t.logger.Debug().Msg("tray exited")
}

func (t *Tray) click(b Button) {
	t.emit(Event{Button: b, State: StatePressed})
	t.emit(Event{Button: b, State: StateReleased})
}

func (t *Tray) emit(ev Event) {
	select {
	case t.events <- ev:
	default:
		t.logger.Warn().Uint8("button", uint8(ev.Button)).Msg("tray event dropped")
	}
}
