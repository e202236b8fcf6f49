package view

import (
	"fmt"
	"os"

	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/font/opentype"
	"gioui.org/text"
	"gioui.org/widget/material"
)

// NewTheme builds the theme used by the window. extra faces take
// precedence over the bundled Go fonts; system fonts fill the remaining
// gaps, which covers CJK and emoji.
func NewTheme(extra ...font.FontFace) *material.Theme {
	th := material.NewTheme()

	faces := make([]font.FontFace, 0, len(extra)+len(gofont.Collection()))
	faces = append(faces, extra...)
	faces = append(faces, gofont.Collection()...)
	th.Shaper = text.NewShaper(text.WithCollection(faces))

	return th
}

// LoadFont parses a ttf, otf or ttc file.
func LoadFont(path string) ([]font.FontFace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}

	faces, err := opentype.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return faces, nil
}
