package view

import (
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/labi-le/mammon/internal/history"
	"github.com/labi-le/mammon/internal/types/domain"
	"github.com/labi-le/mammon/pkg/ctxlog"
	"github.com/labi-le/mammon/pkg/id"
	"github.com/labi-le/mammon/pkg/image"
	"github.com/labi-le/mammon/pkg/mime"
	"github.com/rs/zerolog"
)

const (
	thumbWidth  = 240
	thumbHeight = 160
	textLines   = 4
)

var linkColor = color.NRGBA{R: 0x1e, G: 0x6f, B: 0xd9, A: 0xff}

// Writer puts data back on the OS clipboard.
type Writer interface {
	Write(t mime.Type, src []byte) (int, error)
}

type row struct {
	copy   widget.Clickable
	remove widget.Clickable
}

type item struct {
	index int
	entry domain.Entry
}

// View renders the history list. It is used from the GUI goroutine only.
type View struct {
	theme  *material.Theme
	clip   Writer
	logger zerolog.Logger

	top    widget.Clickable
	list   widget.List
	rows   map[id.Unique]*row
	thumbs *thumbs
	items  []item
}

func New(theme *material.Theme, clip Writer, logger zerolog.Logger) *View {
	v := &View{
		theme:  theme,
		clip:   clip,
		logger: ctxlog.Component(logger, "view"),
		rows:   make(map[id.Unique]*row),
		thumbs: newThumbs(thumbWidth, thumbHeight),
	}
	v.list.Axis = layout.Vertical
	return v
}

// Layout draws one frame. Actions are reported to f, which applies them
// after the frame.
func (v *View) Layout(gtx layout.Context, f *history.Frame) layout.Dimensions {
	if v.top.Clicked(gtx) {
		f.ToggleTop()
	}

	v.items = v.items[:0]
	f.Each(func(index int, e domain.Entry) {
		v.items = append(v.items, item{index: index, entry: e})
	})

	dims := layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return v.header(gtx, f.State())
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return material.List(v.theme, &v.list).Layout(gtx, len(v.items), func(gtx layout.Context, i int) layout.Dimensions {
					return v.row(gtx, f, v.items[i])
				})
			}),
		)
	})

	v.sweep()
	return dims
}

func (v *View) header(gtx layout.Context, st history.State) layout.Dimensions {
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(1, material.H6(v.theme, "Clipboard").Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			btn := material.Button(v.theme, &v.top, "top")
			if st.OnTop {
				btn.Background = linkColor
			}
			return btn.Layout(gtx)
		}),
	)
}

func (v *View) row(gtx layout.Context, f *history.Frame, it item) layout.Dimensions {
	r, ok := v.rows[it.entry.ID]
	if !ok {
		r = new(row)
		v.rows[it.entry.ID] = r
	}

	if r.copy.Clicked(gtx) {
		if v.Copy(it.entry) {
			f.Copied()
		}
	}
	if r.remove.Clicked(gtx) {
		f.Delete(it.index)
	}

	removeLabel := "del"
	if it.entry.MimeType.IsImage() {
		removeLabel = "rm"
	}

	return layout.Inset{Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Start}.Layout(gtx,
			layout.Rigid(material.Button(v.theme, &r.copy, "Copy").Layout),
			layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return r.remove.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(6)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						l := material.Body2(v.theme, removeLabel)
						l.Color = linkColor
						l.Font.Weight = font.Bold
						return l.Layout(gtx)
					})
				})
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return v.content(gtx, it.entry)
			}),
		)
	})
}

func (v *View) content(gtx layout.Context, e domain.Entry) layout.Dimensions {
	if !e.MimeType.IsImage() {
		l := material.Body1(v.theme, e.Text)
		l.MaxLines = textLines
		return l.Layout(gtx)
	}

	op, ok := v.thumbs.get(e.ID, e.Image)
	if !ok {
		return material.Body2(v.theme, e.Preview()).Layout(gtx)
	}
	return widget.Image{Src: op, Fit: widget.ScaleDown, Position: layout.W}.Layout(gtx)
}

// Copy writes e back to the clipboard: text verbatim, images as PNG.
func (v *View) Copy(e domain.Entry) bool {
	ctxLog := ctxlog.Op(v.logger, "view.Copy")

	data := []byte(e.Text)
	if e.MimeType.IsImage() {
		png, err := image.ToPNG(e.Image)
		if err != nil {
			ctxLog.Error().Err(err).EmbedObject(e).Msg("failed to convert image")
			return false
		}
		data = png
	}

	if _, err := v.clip.Write(e.MimeType, data); err != nil {
		ctxLog.Error().Err(err).EmbedObject(e).Msg("failed to write clipboard")
		return false
	}

	ctxLog.Debug().EmbedObject(e).Msg("copied")
	return true
}

func (v *View) sweep() {
	live := make(map[id.Unique]struct{}, len(v.items))
	for _, it := range v.items {
		live[it.entry.ID] = struct{}{}
	}
	for key := range v.rows {
		if _, ok := live[key]; !ok {
			delete(v.rows, key)
		}
	}
	v.thumbs.sweep()
}

func (v *View) Background() color.NRGBA {
	return v.theme.Bg
}
