package window

import (
	"github.com/hajimehoshi/ebiten/v2"

	"go.creack.net/simplegame/sample"
)

func translateKey(k ebiten.Key) sample.Key {
	switch k {
	case ebiten.KeyArrowLeft:
		return sample.KeyLeft
	case ebiten.KeyArrowRight:
		return sample.KeyRight
	case ebiten.KeyArrowUp:
		return sample.KeyUp
	case ebiten.KeyArrowDown:
		return sample.KeyDown
	default:
		return sample.KeyOther
	}
}
