package sample

import (
	"fmt"
	"image"
)

type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Move shifts the rectangle. There is no clamping, the rectangle can leave the window.
func (r *Rect) Move(dx, dy int) {
	r.X += dx
	r.Y += dy
}

func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}
