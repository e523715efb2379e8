// Package term runs the sample inside a terminal using tview.
// Every cell shows the surface color sampled at its center.
package term

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"go.creack.net/simplegame/sample"
)

var errWindowGone = errors.New("terminal window is gone")

type Driver struct {
	logger *log.Logger

	// Replaced in tests.
	newScreen func() (tcell.Screen, error)

	app *tview.Application

	start    chan *window
	stop     chan struct{}
	stopOnce sync.Once

	mu  sync.Mutex
	cur *window
}

func NewDriver(logger *log.Logger) *Driver {
	return &Driver{
		logger:    logger,
		newScreen: tcell.NewScreen,
		start:     make(chan *window),
		stop:      make(chan struct{}),
	}
}

func (d *Driver) Init() error {
	screen, err := d.newScreen()
	if err != nil {
		return &sample.SubsystemError{Subsystem: "terminal", Err: err}
	}
	d.app = tview.NewApplication().SetScreen(screen)
	d.logger.Debug("video subsystem ready", "driver", "tview")
	return nil
}

func (d *Driver) CreateWindow(title string, width, height int) (sample.Window, error) {
	if d.app == nil {
		return nil, errors.New("terminal not initialized")
	}
	w := newWindow(d.app, title, width, height)

	select {
	case d.start <- w:
	case <-d.stop:
		return nil, errWindowGone
	}
	d.mu.Lock()
	d.cur = w
	d.mu.Unlock()

	select {
	case <-w.ready:
		go w.refresh()
		return w, nil
	case <-w.done:
		if w.err != nil {
			return nil, w.err
		}
		return nil, errWindowGone
	}
}

// Quit releases Main and waits for the application to stop.
func (d *Driver) Quit() error {
	d.Stop()
	d.mu.Lock()
	w := d.cur
	d.mu.Unlock()
	if w == nil {
		return nil
	}
	w.Close()
	<-w.done
	return nil
}

// Stop makes Main return if no window was ever requested.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() { close(d.stop) })
}

// Main runs the tview application once a window is requested.
func (d *Driver) Main() error {
	select {
	case w := <-d.start:
		err := d.app.SetRoot(w.box, true).SetFocus(w.box).Run()
		w.err = err
		close(w.done)
		if err != nil {
			return fmt.Errorf("run terminal app: %w", err)
		}
		return nil
	case <-d.stop:
		return nil
	}
}

type window struct {
	app *tview.Application
	box *tview.Box

	surf  *sample.Surface
	queue sample.EventQueue

	mu    sync.Mutex
	front *image.RGBA // Last presented frame.

	dirty     chan struct{}
	closed    chan struct{}
	closeOnce sync.Once

	ready     chan struct{}
	readyOnce sync.Once
	done      chan struct{}
	err       error // Set before done is closed.
}

func newWindow(app *tview.Application, title string, width, height int) *window {
	w := &window{
		app:    app,
		box:    tview.NewBox(),
		surf:   sample.NewSurface(width, height),
		front:  image.NewRGBA(image.Rect(0, 0, width, height)),
		dirty:  make(chan struct{}, 1),
		closed: make(chan struct{}),
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	w.box.SetBorder(true).SetTitle(" " + title + " ")
	w.box.SetDrawFunc(w.draw)
	app.SetInputCapture(w.capture)
	app.SetAfterDrawFunc(func(tcell.Screen) {
		w.readyOnce.Do(func() { close(w.ready) })
	})
	return w
}

func (w *window) capture(ev *tcell.EventKey) *tcell.EventKey {
	w.queue.Push(translateKey(ev))
	return nil
}

func (w *window) draw(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	// Inside the border.
	ix, iy, iw, ih := x+1, y+1, width-2, height-2
	w.mu.Lock()
	paint(screen, w.front, ix, iy, iw, ih)
	w.mu.Unlock()
	return ix, iy, iw, ih
}

// refresh asks tview for a redraw after each present, coalescing bursts.
func (w *window) refresh() {
	for {
		select {
		case <-w.dirty:
			w.app.QueueUpdateDraw(func() {})
		case <-w.closed:
			return
		case <-w.done:
			return
		}
	}
}

func (w *window) Surface() *sample.Surface { return w.surf }

func (w *window) PollEvents(dst []sample.Event) []sample.Event {
	select {
	case <-w.done:
		dst = w.queue.Drain(dst)
		return append(dst, sample.NewQuitEvent())
	default:
	}
	return w.queue.Drain(dst)
}

func (w *window) Present() error {
	select {
	case <-w.done:
		if w.err != nil {
			return fmt.Errorf("present: %w", w.err)
		}
		return errWindowGone
	default:
	}
	w.mu.Lock()
	copy(w.front.Pix, w.surf.Image().Pix)
	w.mu.Unlock()

	select {
	case w.dirty <- struct{}{}:
	default:
	}
	return nil
}

func (w *window) Close() error {
	w.closeOnce.Do(func() {
		close(w.closed)
		w.app.Stop()
	})
	return nil
}

// paint fills the given cell area with the image scaled to it.
func paint(screen tcell.Screen, img *image.RGBA, x, y, width, height int) {
	b := img.Bounds()
	if width <= 0 || height <= 0 || b.Empty() {
		return
	}
	for cy := range height {
		py := b.Min.Y + (2*cy+1)*b.Dy()/(2*height)
		for cx := range width {
			px := b.Min.X + (2*cx+1)*b.Dx()/(2*width)
			c := img.RGBAAt(px, py)
			style := tcell.StyleDefault.Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
			screen.SetContent(x+cx, y+cy, ' ', nil, style)
		}
	}
}
