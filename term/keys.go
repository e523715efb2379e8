package term

import (
	"github.com/gdamore/tcell/v2"

	"go.creack.net/simplegame/sample"
)

// translateKey maps a terminal key press to a sample event.
// Escape, Ctrl+C and 'q' act as the window close button.
func translateKey(ev *tcell.EventKey) sample.Event {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return sample.NewQuitEvent()
	case tcell.KeyLeft:
		return sample.NewKeyEvent(sample.KeyLeft)
	case tcell.KeyRight:
		return sample.NewKeyEvent(sample.KeyRight)
	case tcell.KeyUp:
		return sample.NewKeyEvent(sample.KeyUp)
	case tcell.KeyDown:
		return sample.NewKeyEvent(sample.KeyDown)
	case tcell.KeyRune:
		if ev.Rune() == 'q' {
			return sample.NewQuitEvent()
		}
	}
	return sample.NewKeyEvent(sample.KeyOther)
}
