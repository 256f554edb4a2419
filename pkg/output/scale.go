package output

import (
	"image"

	"golang.org/x/image/draw"
)

// Resize scales img to the given width, preserving the aspect ratio.
// Height is rounded and never drops below one pixel.
func Resize(img image.Image, width int) *image.RGBA {
	b := img.Bounds()
	if width <= 0 {
		width = b.Dx()
	}
	height := max(1, (b.Dy()*width+b.Dx()/2)/max(b.Dx(), 1))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
