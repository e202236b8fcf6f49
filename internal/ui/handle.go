package ui

import (
	"sync"

	"gioui.org/app"
	"gioui.org/io/system"
	"github.com/labi-le/mammon/internal/history"
	"github.com/labi-le/mammon/pkg/ctxlog"
	"github.com/rs/zerolog"
)

var _ history.Window = (*handle)(nil)

// controller drives the native window directly. Gio options cover show,
// hide and focus only in part, and have no position or level control.
type controller interface {
	Show() error
	Hide() error
	Focus() error
	Move(x, y int) error
	SetTopmost(on bool) error
	Close() error
}

// handle implements history.Window on top of a Gio window. Commands are
// issued with the history lock held, so none of them wait for the event
// loop.
type handle struct {
	win    *app.Window
	logger zerolog.Logger

	mu     sync.Mutex
	native controller
	scale  float32
}

func newHandle(win *app.Window, logger zerolog.Logger) *handle {
	return &handle{win: win, logger: logger, scale: 1}
}

func (h *handle) setScale(pxPerDp float32) {
	if pxPerDp <= 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scale = pxPerDp
}

// Scale is the pixels per dp of the last drawn frame.
func (h *handle) Scale() float32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scale
}

func (h *handle) setNative(c controller) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.native != nil {
		_ = h.native.Close()
	}
	h.native = c
}

func (h *handle) release() {
	h.setNative(nil)
}

func (h *handle) controller() controller {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.native
}

func (h *handle) report(op string, err error) {
	if err == nil {
		return
	}
	ctxLog := ctxlog.Op(h.logger, op)
	ctxLog.Warn().Err(err).Msg("window command failed")
}

func (h *handle) Show() {
	if c := h.controller(); c != nil {
		h.report("ui.Show", c.Show())
		return
	}
	h.win.Option(app.Windowed.Option())
}

func (h *handle) Hide() {
	if c := h.controller(); c != nil {
		h.report("ui.Hide", c.Hide())
		return
	}
	h.win.Option(app.Minimized.Option())
}

func (h *handle) Focus() {
	if c := h.controller(); c != nil {
		h.report("ui.Focus", c.Focus())
	}
	h.win.Perform(system.ActionRaise)
}

func (h *handle) Move(x, y int) {
	c := h.controller()
	if c == nil {
		ctxLog := ctxlog.Op(h.logger, "ui.Move")
		ctxLog.Debug().Int("x", x).Int("y", y).Msg("positioning is not supported here")
		return
	}
	h.report("ui.Move", c.Move(x, y))
}

func (h *handle) SetTopmost(on bool) {
	c := h.controller()
	if c == nil {
		ctxLog := ctxlog.Op(h.logger, "ui.SetTopmost")
		ctxLog.Debug().Bool("on", on).Msg("window level is not supported here")
		return
	}
	h.report("ui.SetTopmost", c.SetTopmost(on))
}

func (h *handle) Invalidate() {
	h.win.Invalidate()
}
