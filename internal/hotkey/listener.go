package hotkey

import (
	"context"
	"time"

	"github.com/labi-le/mammon/pkg/ctxlog"
	"github.com/rs/zerolog"
)

type Summoner interface {
	Summon(x, y int)
}

type Options struct {
	Interval time.Duration
	Width    int
	Height   int
	// Scale converts Width and Height to the pixels of the cursor position.
	Scale func() float32
}

type Option func(*Options)

func WithInterval(d time.Duration) Option {
	return func(o *Options) {
		o.Interval = d
	}
}

// WithWindowSize sets the size used to centre the window on the cursor.
func WithWindowSize(w, h int) Option {
	return func(o *Options) {
		o.Width = w
		o.Height = h
	}
}

// WithScale sets the source of the window's pixels per unit, read on
// every press so a moved window picks up the new density.
func WithScale(fn func() float32) Option {
	return func(o *Options) {
		o.Scale = fn
	}
}

var defaultOptions = Options{
	Interval: 10 * time.Millisecond,
	Width:    400,
	Height:   500,
}

type Listener struct {
	source  Source
	chord   Chord
	target  Summoner
	options Options
	logger  zerolog.Logger
}

func NewListener(source Source, chord Chord, target Summoner, logger zerolog.Logger, opts ...Option) *Listener {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.Interval <= 0 {
		options.Interval = defaultOptions.Interval
	}

	return &Listener{
		source:  source,
		chord:   chord,
		target:  target,
		options: options,
		logger:  ctxlog.Component(logger, "hotkey"),
	}
}

// Run polls the source until ctx is cancelled. The target is summoned once
// per press of the chord, not while it is held.
func (l *Listener) Run(ctx context.Context) {
	ctxLog := ctxlog.Op(l.logger, "hotkey.Run")
	ctxLog.Info().Stringer("chord", l.chord).Msg("listening")

	ticker := time.NewTicker(l.options.Interval)
	defer ticker.Stop()

	var held bool
	for {
		select {
		case <-ctx.Done():
			ctxLog.Debug().Msg("stopped")
			return
		case <-ticker.C:
			pressed := l.chord.Pressed(l.source)
			if pressed && !held {
				cx, cy := l.source.Cursor()
				w, h := l.windowSize()
				x, y := Place(cx, cy, w, h)
				ctxLog.Trace().Int("x", x).Int("y", y).Msg("chord pressed")
				l.target.Summon(x, y)
			}
			held = pressed
		}
	}
}

func (l *Listener) windowSize() (int, int) {
	if l.options.Scale == nil {
		return l.options.Width, l.options.Height
	}

	scale := l.options.Scale()
	if scale <= 0 {
		scale = 1
	}
	return int(float32(l.options.Width) * scale), int(float32(l.options.Height) * scale)
}

// Place centres a w x h window on the cursor, keeping the top-left corner on screen.
func Place(cx, cy, w, h int) (int, int) {
	return max(cx-w/2, 0), max(cy-h/2, 0)
}
