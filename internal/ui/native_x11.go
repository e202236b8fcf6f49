//go:build ((linux && !android) || freebsd || openbsd) && !nox11

package ui

import (
	"fmt"

	"gioui.org/app"
	"gioui.org/io/event"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/rs/zerolog"
)

const (
	netWMStateRemove = 0
	netWMStateAdd    = 1

	// source indication for _NET_ACTIVE_WINDOW: normal application
	sourceApplication = 1
)

type x11Controller struct {
	conn *xgb.Conn
	root xproto.Window
	win  xproto.Window

	wmState      xproto.Atom
	wmStateAbove xproto.Atom
	active       xproto.Atom
}

func newController(e event.Event, logger zerolog.Logger) (controller, bool) {
	ev, ok := e.(app.X11ViewEvent)
	if !ok || ev.Window == 0 {
		return nil, false
	}

	c, err := dialX11(xproto.Window(ev.Window))
	if err != nil {
		logger.Warn().Err(err).Msg("native window control unavailable")
		return nil, false
	}
	return c, true
}

// dialX11 opens a second connection to the display the window lives on.
// Gio keeps its own Xlib connection private.
func dialX11(win xproto.Window) (*x11Controller, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("xgb connect: %w", err)
	}

	c := &x11Controller{
		conn: conn,
		root: xproto.Setup(conn).DefaultScreen(conn).Root,
		win:  win,
	}

	for name, dst := range map[string]*xproto.Atom{
		"_NET_WM_STATE":       &c.wmState,
		"_NET_WM_STATE_ABOVE": &c.wmStateAbove,
		"_NET_ACTIVE_WINDOW":  &c.active,
	} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("intern %s: %w", name, err)
		}
		*dst = reply.Atom
	}

	return c, nil
}

func (c *x11Controller) Show() error {
	return xproto.MapWindowChecked(c.conn, c.win).Check()
}

func (c *x11Controller) Hide() error {
	return xproto.UnmapWindowChecked(c.conn, c.win).Check()
}

func (c *x11Controller) Focus() error {
	return c.clientMessage(c.active, sourceApplication, xproto.TimeCurrentTime, 0)
}

func (c *x11Controller) Move(x, y int) error {
	return xproto.ConfigureWindowChecked(
		c.conn,
		c.win,
		xproto.ConfigWindowX|xproto.ConfigWindowY,
		[]uint32{uint32(int32(x)), uint32(int32(y))},
	).Check()
}

func (c *x11Controller) SetTopmost(on bool) error {
	action := uint32(netWMStateRemove)
	if on {
		action = netWMStateAdd
	}
	return c.clientMessage(c.wmState, action, uint32(c.wmStateAbove), 0, sourceApplication)
}

func (c *x11Controller) Close() error {
	c.conn.Close()
	return nil
}

// clientMessage asks the window manager to act on our window.
func (c *x11Controller) clientMessage(typ xproto.Atom, data ...uint32) error {
	payload := make([]uint32, 5)
	copy(payload, data)

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: c.win,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(payload),
	}

	mask := uint32(xproto.EventMaskSubstructureNotify | xproto.EventMaskSubstructureRedirect)
	return xproto.SendEventChecked(c.conn, false, c.root, mask, string(ev.Bytes())).Check()
}
