package ui

import (
	"context"
	"sync"

	"gioui.org/app"
	"gioui.org/font"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/labi-le/mammon/internal/history"
	"github.com/labi-le/mammon/internal/types/domain"
	"github.com/labi-le/mammon/internal/ui/view"
	"github.com/labi-le/mammon/pkg/ctxlog"
	"github.com/rs/zerolog"
)

const Title = "Clipboard"

// Sender accepts the quit event once the window is destroyed.
type Sender interface {
	Send(ev domain.ClipEvent) error
}

type Options struct {
	Width  int
	Height int
	Fonts  []font.FontFace
}

type Option func(*Options)

func WithSize(width, height int) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

func WithFonts(faces ...font.FontFace) Option {
	return func(o *Options) {
		o.Fonts = append(o.Fonts, faces...)
	}
}

func defaultOptions() Options {
	return Options{
		Width:  400,
		Height: 500,
	}
}

type App struct {
	win    *app.Window
	handle *handle
	store  *history.Store
	queue  Sender
	view   *view.View
	logger zerolog.Logger

	quitOnce sync.Once
}

// New creates the window and attaches it to store. The window does not
// process events until Run is called.
func New(store *history.Store, queue Sender, clip view.Writer, logger zerolog.Logger, opts ...Option) *App {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	logger = ctxlog.Component(logger, "ui")

	win := new(app.Window)
	win.Option(
		app.Title(Title),
		app.Size(unit.Dp(float32(options.Width)), unit.Dp(float32(options.Height))),
	)

	h := newHandle(win, logger)
	store.Attach(h)

	return &App{
		win:    win,
		handle: h,
		store:  store,
		queue:  queue,
		view:   view.New(view.NewTheme(options.Fonts...), clip, logger),
		logger: logger,
	}
}

// Run processes window events until the window is destroyed. Cancelling
// ctx closes the window. Destroying the window sends the quit event.
func (a *App) Run(ctx context.Context) error {
	ctxLog := ctxlog.Op(a.logger, "ui.Run")

	stop := context.AfterFunc(ctx, func() {
		a.win.Perform(system.ActionClose)
	})
	defer stop()
	defer a.handle.release()

	var ops op.Ops
	for {
		switch e := a.win.Event().(type) {
		case app.DestroyEvent:
			a.quit()
			if e.Err != nil {
				ctxLog.Error().Err(e.Err).Msg("window destroyed")
			}
			return e.Err

		case app.FrameEvent:
			a.handle.setScale(e.Metric.PxPerDp)
			gtx := app.NewContext(&ops, e)
			if !a.store.Frame(func(f *history.Frame) { a.view.Layout(gtx, f) }) {
				paint.Fill(gtx.Ops, a.view.Background())
			}
			e.Frame(gtx.Ops)

		default:
			if c, ok := newController(e, a.logger); ok {
				a.handle.setNative(c)
			}
		}
	}
}

// Scale reports the pixels per dp of the window, 1 until the first frame.
func (a *App) Scale() float32 {
	return a.handle.Scale()
}

func (a *App) quit() {
	a.quitOnce.Do(func() {
		if err := a.queue.Send(domain.QuitEvent()); err != nil {
			ctxLog := ctxlog.Op(a.logger, "ui.quit")
			ctxLog.Debug().Err(err).Msg("quit event not delivered")
		}
	})
}
