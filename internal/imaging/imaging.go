// Package imaging crops and resizes uploaded photos to JPEG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
)

// ErrNotImage is returned for uploads that do not decode as JPEG or PNG.
var ErrNotImage = errors.New("not an image")

// Quality is the JPEG quality of processed images.
const Quality = 90

// Sizes of processed uploads.
var (
	UserPhoto = Size{Width: 500, Height: 500}
	TourImage = Size{Width: 2000, Height: 1333}
)

// Size is a target size in pixels.
type Size struct {
	Width  int
	Height int
}

// Resize decodes r, center-crops it to the aspect ratio of size, scales it
// to size and encodes it as JPEG.
func Resize(r io.Reader, size Size) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, cover(src.Bounds(), size), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: Quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// cover returns the largest centered rectangle of b with the aspect ratio
// of size.
func cover(b image.Rectangle, size Size) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	// Compare w/h with size.Width/size.Height without floats.
	if w*size.Height > h*size.Width {
		cw := h * size.Width / size.Height
		x := b.Min.X + (w-cw)/2
		return image.Rect(x, b.Min.Y, x+cw, b.Max.Y)
	}
	ch := w * size.Height / size.Width
	y := b.Min.Y + (h-ch)/2
	return image.Rect(b.Min.X, y, b.Max.X, y+ch)
}
