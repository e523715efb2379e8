// Package window runs the sample in a desktop window using ebiten.
package window

import (
	"errors"
	"fmt"
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"go.creack.net/simplegame/sample"
)

var fontFace = text.NewGoXFace(bitmapfont.Face)

var errWindowGone = errors.New("window is gone")

// Driver implements sample.Driver on top of ebiten.
//
// ebiten needs the main goroutine: the sample loop runs elsewhere and
// Main must be called from main().
type Driver struct {
	hud    bool
	logger *log.Logger

	start    chan *game
	stop     chan struct{}
	stopOnce sync.Once

	mu  sync.Mutex
	cur *game
}

func NewDriver(hud bool, logger *log.Logger) *Driver {
	return &Driver{
		hud:    hud,
		logger: logger,
		start:  make(chan *game),
		stop:   make(chan struct{}),
	}
}

// Init is a no-op: ebiten sets up its graphics backend lazily when the game starts,
// so failures show up when creating the window.
func (d *Driver) Init() error {
	d.logger.Debug("video subsystem ready", "driver", "ebiten")
	return nil
}

func (d *Driver) CreateWindow(title string, width, height int) (sample.Window, error) {
	g := newGame(width, height, d.hud)

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowClosingHandled(true)

	select {
	case d.start <- g:
	case <-d.stop:
		return nil, errWindowGone
	}
	d.mu.Lock()
	d.cur = g
	d.mu.Unlock()

	select {
	case <-g.ready:
		return g, nil
	case <-g.done:
		if g.err != nil {
			return nil, g.err
		}
		return nil, errWindowGone
	}
}

// Quit releases Main and waits for the window to be torn down.
func (d *Driver) Quit() error {
	d.Stop()
	d.mu.Lock()
	g := d.cur
	d.mu.Unlock()
	if g == nil {
		return nil
	}
	g.closed.Store(true)
	<-g.done
	return nil
}

// Stop makes Main return if no window was ever requested.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

// Main runs the ebiten game loop once a window is requested.
// It blocks until the window is closed or Stop is called.
func (d *Driver) Main() error {
	select {
	case g := <-d.start:
		err := ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{})
		g.err = err
		close(g.done)
		if err != nil {
			return fmt.Errorf("run game: %w", err)
		}
		return nil
	case <-d.stop:
		return nil
	}
}

// game implements both ebiten.Game and sample.Window.
type game struct {
	width, height int
	hud           bool

	surf  *sample.Surface
	queue sample.EventQueue

	mu       sync.Mutex
	front    []byte // Last presented frame.
	presents int

	keys         []ebiten.Key
	closeHandled bool
	closed       atomic.Bool

	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}
	err       error // Set before done is closed.
}

func newGame(width, height int, hud bool) *game {
	return &game{
		width:  width,
		height: height,
		hud:    hud,
		surf:   sample.NewSurface(width, height),
		front:  make([]byte, 4*width*height),
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Update is called every tick by ebiten and turns input into sample events.
func (g *game) Update() error {
	g.readyOnce.Do(func() { close(g.ready) })
	if g.closed.Load() {
		return ebiten.Termination
	}

	if ebiten.IsWindowBeingClosed() && !g.closeHandled {
		g.closeHandled = true
		g.queue.Push(sample.NewQuitEvent())
	}
	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		g.queue.Push(sample.NewKeyEvent(translateKey(k)))
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	screen.WritePixels(g.front)
	presents := g.presents
	g.mu.Unlock()

	if !g.hud {
		return
	}
	textOp := &text.DrawOptions{}
	textOp.GeoM.Translate(4, 4)
	textOp.LineSpacing = fontFace.Metrics().HLineGap + fontFace.Metrics().HAscent + fontFace.Metrics().HDescent
	textOp.ColorScale.ScaleWithColor(color.Black)
	text.Draw(screen, fmt.Sprintf("TPS: %0.1f\nFPS: %0.1f\nPresents: %d", ebiten.ActualTPS(), ebiten.ActualFPS(), presents), fontFace, textOp)
}

// Layout keeps the logical screen at the surface size, whatever the window size.
func (g *game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.width, g.height
}

func (g *game) Surface() *sample.Surface { return g.surf }

func (g *game) PollEvents(dst []sample.Event) []sample.Event {
	select {
	case <-g.done:
		// The game loop died under us, make sure the sample stops.
		dst = g.queue.Drain(dst)
		return append(dst, sample.NewQuitEvent())
	default:
	}
	return g.queue.Drain(dst)
}

func (g *game) Present() error {
	select {
	case <-g.done:
		if g.err != nil {
			return fmt.Errorf("present: %w", g.err)
		}
		return errWindowGone
	default:
	}
	g.mu.Lock()
	copy(g.front, g.surf.Image().Pix)
	g.presents++
	g.mu.Unlock()
	return nil
}

func (g *game) Close() error {
	g.closed.Store(true)
	return nil
}
