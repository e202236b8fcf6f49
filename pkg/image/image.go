package image

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const DefaultQuality = 85

var ErrEmpty = errors.New("empty image data")

// Decode decodes any registered raster format (png, jpeg, gif, bmp, tiff, webp).
func Decode(src []byte) (image.Image, string, error) {
	if len(src) == 0 {
		return nil, "", ErrEmpty
	}

	img, format, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, "", fmt.Errorf("image.Decode: %w", err)
	}
	return img, format, nil
}

// ToJPEG re-encodes src as JPEG. Transparent pixels are flattened onto white.
func ToJPEG(src []byte, quality int) ([]byte, error) {
	img, _, err := Decode(src)
	if err != nil {
		return nil, err
	}

	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("jpeg.Encode: %w", err)
	}
	return buf.Bytes(), nil
}

// ToPNG re-encodes src as PNG, the format OS clipboards accept for writes.
func ToPNG(src []byte) ([]byte, error) {
	img, _, err := Decode(src)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png.Encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Thumbnail scales img down to fit into maxW x maxH keeping the aspect ratio.
// Images already inside the box are returned unchanged.
func Thumbnail(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH || w == 0 || h == 0 {
		return img
	}

	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	tw := max(1, int(float64(w)*scale))
	th := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func flatten(img image.Image) image.Image {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
