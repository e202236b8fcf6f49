package mime

import (
	"bytes"
	"strings"
)

type Type int32

const (
	TypeUnknown Type = iota - 1

	TypeText
	TypeImage
)

func (t Type) IsImage() bool { return t == TypeImage }
func (t Type) IsText() bool  { return t == TypeText }

func (t Type) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeImage:
		return "image"
	default:
		return "unknown"
	}
}

var supportedTypes = map[string]Type{
	"image/png":                TypeImage,
	"image/jpeg":               TypeImage,
	"image/jpg":                TypeImage,
	"image/gif":                TypeImage,
	"image/bmp":                TypeImage,
	"image/webp":               TypeImage,
	"image/tiff":               TypeImage,
	"text/plain":               TypeText,
	"text/plain;charset=utf-8": TypeText,
	"utf8_string":              TypeText,
	"string":                   TypeText,
}

// AsType maps a clipboard target or MIME name to a Type.
func AsType(mimeType string) Type {
	ct := strings.ToLower(strings.TrimSpace(mimeType))
	if typ, ok := supportedTypes[ct]; ok {
		return typ
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}

	switch {
	case strings.HasPrefix(ct, "image/"):
		return TypeImage
	case strings.HasPrefix(ct, "text/"):
		return TypeText
	default:
		return TypeUnknown
	}
}

// Sniff reports the image MIME type of src, or an empty string when the
// bytes do not start with a known raster signature.
func Sniff(src []byte) string {
	switch {
	case len(src) >= 4 && bytes.Equal(src[:4], []byte{0x89, 0x50, 0x4E, 0x47}):
		return "image/png"
	case len(src) >= 2 && bytes.Equal(src[:2], []byte{0xFF, 0xD8}):
		return "image/jpeg"
	case len(src) >= 4 && bytes.Equal(src[:4], []byte{0x47, 0x49, 0x46, 0x38}):
		return "image/gif"
	case len(src) >= 2 && bytes.Equal(src[:2], []byte{0x42, 0x4D}):
		return "image/bmp"
	case len(src) >= 12 && bytes.Equal(src[8:12], []byte("WEBP")):
		return "image/webp"
	case len(src) >= 4 && (bytes.Equal(src[:4], []byte("II*\x00")) || bytes.Equal(src[:4], []byte("MM\x00*"))):
		return "image/tiff"
	default:
		return ""
	}
}

func From(src []byte) Type {
	if Sniff(src) != "" {
		return TypeImage
	}
	return TypeText
}
