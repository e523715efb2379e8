package sample

import (
	"image"

	"golang.org/x/image/draw"
)

// Surface is the in-memory pixel buffer of a window.
// Fills are written here and become visible on Window.Present.
type Surface struct {
	img *image.RGBA
}

func NewSurface(width, height int) *Surface {
	return &Surface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (s *Surface) Bounds() image.Rectangle { return s.img.Rect }

// Image exposes the backing buffer. Drivers read it when presenting.
func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) Clear(c Color) {
	draw.Draw(s.img, s.img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect fills r clipped to the surface. A rectangle fully off-surface draws nothing.
func (s *Surface) FillRect(r Rect, c Color) {
	b := r.Bounds().Intersect(s.img.Rect)
	if b.Empty() {
		return
	}
	draw.Draw(s.img, b, image.NewUniform(c), image.Point{}, draw.Src)
}

// At returns the color at (x, y), or the zero color outside the surface.
func (s *Surface) At(x, y int) Color {
	if !(image.Point{X: x, Y: y}).In(s.img.Rect) {
		return Color{}
	}
	return Color(s.img.RGBAAt(x, y))
}
