//go:build unix && !darwin

package x11

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xfixes"
	"github.com/jezek/xgb/xproto"
	"github.com/labi-le/mammon/pkg/clipboard/eventful"
	"github.com/labi-le/mammon/pkg/ctxlog"
	"github.com/labi-le/mammon/pkg/mime"
	"github.com/rs/zerolog"
)

const (
	maxPropSize = 0x10000
	maxDataSize = 50 * 1024 * 1024

	xFixesClientMajor = 5
	xFixesClientMinor = 0
)

var (
	_ eventful.Eventful = (*Clipboard)(nil)

	ErrDataLimit = errors.New("clipboard data exceeded limit")
)

type Clipboard struct {
	logger zerolog.Logger
	conn   *xgb.Conn
	win    xproto.Window
	atoms  *atomCache

	// events read while waiting for INCR chunks
	pending []xgb.Event

	mu       sync.Mutex
	closed   bool
	serving  []byte
	serveTyp xproto.Atom
}

func New(log zerolog.Logger) *Clipboard {
	return &Clipboard{
		logger: ctxlog.Component(log, "x11"),
	}
}

func (c *Clipboard) init() error {
	var err error
	if c.conn, err = xgb.NewConn(); err != nil {
		return fmt.Errorf("xgb connect: %w", err)
	}

	if err := xfixes.Init(c.conn); err != nil {
		return fmt.Errorf("xfixes init: %w", err)
	}

	if _, err := xfixes.QueryVersion(c.conn, xFixesClientMajor, xFixesClientMinor).Reply(); err != nil {
		return fmt.Errorf("xfixes query version: %w", err)
	}

	if c.atoms, err = loadAtoms(c.conn); err != nil {
		return fmt.Errorf("load atoms: %w", err)
	}

	screen := xproto.Setup(c.conn).DefaultScreen(c.conn)
	if c.win, err = xproto.NewWindowId(c.conn); err != nil {
		return err
	}

	err = xproto.CreateWindowChecked(
		c.conn,
		screen.RootDepth,
		c.win,
		screen.Root,
		0,
		0,
		1,
		1,
		0,
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange},
	).Check()
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	mask := xfixes.SelectionEventMaskSetSelectionOwner |
		xfixes.SelectionEventMaskSelectionWindowDestroy |
		xfixes.SelectionEventMaskSelectionClientClose
	err = xfixes.SelectSelectionInputChecked(c.conn, c.win, c.atoms.Clipboard, uint32(mask)).Check()
	if err != nil {
		return fmt.Errorf("select selection input: %w", err)
	}

	return nil
}

func (c *Clipboard) Watch(ctx context.Context, upd chan<- eventful.Update) error {
	defer close(upd)

	if c.conn == nil {
		if err := c.init(); err != nil {
			return err
		}
	}

	stop := context.AfterFunc(ctx, c.close)
	defer stop()
	defer c.close()

	for {
		var ev xgb.Event
		if len(c.pending) > 0 {
			ev, c.pending = c.pending[0], c.pending[1:]
		} else {
			var err xgb.Error
			ev, err = c.conn.WaitForEvent()
			if ev == nil && err == nil {
				return nil
			}
			if err != nil {
				c.logger.Debug().Str("error", err.Error()).Msg("x error")
				continue
			}
		}

		if !c.handleEvent(ctx, ev, upd) {
			return nil
		}
	}
}

func (c *Clipboard) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.conn.Close()
}

func (c *Clipboard) handleEvent(ctx context.Context, ev xgb.Event, upd chan<- eventful.Update) bool {
	switch e := ev.(type) {
	case xfixes.SelectionNotifyEvent:
		// our own writes are not history changes
		if e.Owner != c.win && e.Selection == c.atoms.Clipboard {
			c.fetch()
		}
	case xproto.SelectionRequestEvent:
		c.handleRequest(e)
	case xproto.SelectionNotifyEvent:
		u, ok := c.handleNotify(e)
		if !ok {
			return true
		}
		select {
		case upd <- u:
		case <-ctx.Done():
			return false
		}
	}
	return true
}

func (c *Clipboard) Write(t mime.Type, src []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || c.closed {
		return 0, eventful.ErrNotWatching
	}

	c.serving = make([]byte, len(src))
	copy(c.serving, src)

	switch t {
	case mime.TypeImage:
		c.serveTyp = c.atoms.ImagePng
	default:
		c.serveTyp = c.atoms.Utf8String
	}

	err := xproto.SetSelectionOwnerChecked(c.conn, c.win, c.atoms.Clipboard, xproto.TimeCurrentTime).Check()
	if err != nil {
		return 0, fmt.Errorf("set selection owner: %w", err)
	}

	return len(src), nil
}

func (c *Clipboard) handleRequest(e xproto.SelectionRequestEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	resp := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  xproto.AtomNone,
	}

	reply := func(prop xproto.Atom, typ xproto.Atom, fmt uint8, data []byte) {
		xproto.ChangeProperty(c.conn, xproto.PropModeReplace, e.Requestor, prop, typ, fmt, uint32(len(data))/(uint32(fmt)/8), data)
		resp.Property = prop
	}

	isText := c.serveTyp == c.atoms.Utf8String

	switch e.Target {
	case c.atoms.Targets:
		targets := []xproto.Atom{c.atoms.Targets, c.atoms.Timestamp, c.atoms.SaveTargets, c.serveTyp}
		if isText {
			targets = append(targets, c.atoms.String)
		}

		buf := new(bytes.Buffer)
		_ = binary.Write(buf, binary.LittleEndian, targets)
		reply(e.Property, xproto.AtomAtom, 32, buf.Bytes())

	case c.atoms.Timestamp:
		buf := new(bytes.Buffer)
		_ = binary.Write(buf, binary.LittleEndian, e.Time)
		reply(e.Property, xproto.AtomInteger, 32, buf.Bytes())

	case c.atoms.SaveTargets, c.atoms.Delete:
		resp.Property = e.Property

	default:
		if e.Target == c.serveTyp || isText && e.Target == c.atoms.String {
			reply(e.Property, e.Target, 8, c.serving)
		}
	}

	xproto.SendEvent(c.conn, false, e.Requestor, xproto.EventMaskNoEvent, string(resp.Bytes()))
}

func (c *Clipboard) fetch() {
	xproto.ConvertSelection(c.conn, c.win, c.atoms.Clipboard, c.atoms.Targets, c.atoms.TextProp, xproto.TimeCurrentTime)
}

// handleNotify answers a TARGETS reply with one conversion request per
// supported kind and turns converted data into an update.
func (c *Clipboard) handleNotify(e xproto.SelectionNotifyEvent) (eventful.Update, bool) {
	if e.Property == xproto.AtomNone {
		return eventful.Update{}, false
	}

	if e.Target == c.atoms.Targets {
		c.requestFormats(e.Property)
		return eventful.Update{}, false
	}

	data, err := c.readProperty(e.Property)
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to read selection")
		return eventful.Update{}, false
	}
	if len(data) == 0 {
		return eventful.Update{}, false
	}

	mTyp := mime.TypeText
	if e.Target == c.atoms.ImagePng || e.Target == c.atoms.ImageJpeg {
		mTyp = mime.TypeImage
	}

	return eventful.Update{
		Data:     data,
		MimeType: mTyp,
		Hash:     xxhash.Sum64(data),
	}, true
}

func (c *Clipboard) requestFormats(prop xproto.Atom) {
	reply, err := xproto.GetProperty(c.conn, true, c.win, prop, xproto.AtomAtom, 0, 1024).Reply()
	if err != nil || reply.Format != 32 {
		return
	}

	ids := make([]xproto.Atom, reply.ValueLen)
	_ = binary.Read(bytes.NewReader(reply.Value), binary.LittleEndian, &ids)

	has := func(target xproto.Atom) bool {
		for _, id := range ids {
			if id == target {
				return true
			}
		}
		return false
	}

	convert := func(target, into xproto.Atom) {
		xproto.ConvertSelection(c.conn, c.win, c.atoms.Clipboard, target, into, xproto.TimeCurrentTime)
	}

	switch {
	case has(c.atoms.ImagePng):
		convert(c.atoms.ImagePng, c.atoms.ImageProp)
	case has(c.atoms.ImageJpeg):
		convert(c.atoms.ImageJpeg, c.atoms.ImageProp)
	}

	switch {
	case has(c.atoms.Utf8String):
		convert(c.atoms.Utf8String, c.atoms.TextProp)
	case has(c.atoms.String):
		convert(c.atoms.String, c.atoms.TextProp)
	}
}

func (c *Clipboard) readProperty(prop xproto.Atom) ([]byte, error) {
	head, err := xproto.GetProperty(c.conn, false, c.win, prop, xproto.GetPropertyTypeAny, 0, 0).Reply()
	if err != nil {
		return nil, err
	}

	if head.Type == c.atoms.Incr {
		return c.readIncr(prop)
	}

	if head.BytesAfter > maxDataSize {
		xproto.DeleteProperty(c.conn, c.win, prop)
		return nil, ErrDataLimit
	}

	length := max((head.BytesAfter+3)/4, 1)
	full, err := xproto.GetProperty(c.conn, true, c.win, prop, xproto.GetPropertyTypeAny, 0, length).Reply()
	if err != nil {
		return nil, err
	}
	return full.Value, nil
}

func (c *Clipboard) readIncr(prop xproto.Atom) ([]byte, error) {
	xproto.DeleteProperty(c.conn, c.win, prop)

	var buf bytes.Buffer
	buf.Grow(4096)

	for {
		ev, xerr := c.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, eventful.ErrNotWatching
		}
		if xerr != nil {
			return nil, fmt.Errorf("incr: %s", xerr.Error())
		}

		event, ok := ev.(xproto.PropertyNotifyEvent)
		if !ok {
			c.pending = append(c.pending, ev)
			continue
		}
		if event.Window != c.win || event.Atom != prop || event.State != xproto.PropertyNewValue {
			continue
		}

		reply, err := xproto.GetProperty(c.conn, true, c.win, prop, xproto.GetPropertyTypeAny, 0, maxPropSize).Reply()
		if err != nil {
			return nil, err
		}

		if len(reply.Value) == 0 {
			return buf.Bytes(), nil
		}

		if buf.Len()+len(reply.Value) > maxDataSize {
			return nil, ErrDataLimit
		}

		buf.Write(reply.Value)
	}
}
