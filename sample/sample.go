// Package sample implements the window sample loop: a splash screen followed by
// a redraw loop moving a rectangle with the arrow keys until the window is closed.
package sample

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Driver is the windowing subsystem the loop runs against.
type Driver interface {
	Init() error
	CreateWindow(title string, width, height int) (Window, error)
	Quit() error
}

type Window interface {
	Surface() *Surface
	// PollEvents appends the pending events to dst without blocking.
	PollEvents(dst []Event) []Event
	Present() error
	Close() error
}

// SubsystemError is returned when the driver fails to initialize.
type SubsystemError struct {
	Subsystem string
	Err       error
}

func (e *SubsystemError) Error() string {
	return fmt.Sprintf("%s could not initialize: %s", e.Subsystem, e.Err)
}

func (e *SubsystemError) Unwrap() error { return e.Err }

type Phase int

const (
	PhaseInitializing Phase = iota
	PhasePreviewing
	PhaseRunning
	PhaseTerminating
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "initializing"
	case PhasePreviewing:
		return "previewing"
	case PhaseRunning:
		return "running"
	case PhaseTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// Sample holds the loop state. It is owned by a single goroutine.
type Sample struct {
	cfg    Config
	logger *log.Logger

	player Rect
	phase  Phase
	quit   bool
	frames int // Number of presented frames, splash excluded.

	// Hooks, replaced in tests.
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

func New(cfg Config, logger *log.Logger) *Sample {
	if logger == nil {
		logger = log.Default()
	}
	return &Sample{
		cfg:    cfg,
		logger: logger,
		player: cfg.Player,
		sleep:  sleepCtx,
		now:    time.Now,
	}
}

func (s *Sample) Player() Rect   { return s.player }
func (s *Sample) Phase() Phase   { return s.phase }
func (s *Sample) Quit() bool     { return s.quit }
func (s *Sample) Frames() int    { return s.frames }
func (s *Sample) Config() Config { return s.cfg }

func (s *Sample) setPhase(p Phase) {
	s.logger.Debug("phase change", "from", s.phase, "to", p)
	s.phase = p
}

// HandleEvent applies a single event to the loop state.
func (s *Sample) HandleEvent(e Event) {
	switch e.Type {
	case EventQuit:
		s.quit = true
	case EventKeyDown:
		switch e.Key {
		case KeyLeft:
			s.player.Move(-1, 0)
		case KeyRight:
			s.player.Move(1, 0)
		case KeyUp:
			s.player.Move(0, -1)
		case KeyDown:
			s.player.Move(0, 1)
		}
	}
}

// Render clears the surface and draws the player on it.
func (s *Sample) Render(surf *Surface) {
	surf.Clear(s.cfg.Background)
	surf.FillRect(s.player, s.cfg.Foreground)
}

// Run goes through the whole life of the sample against the given driver.
// It returns once a quit event was handled or ctx is done.
func (s *Sample) Run(ctx context.Context, drv Driver) (err error) {
	s.setPhase(PhaseInitializing)
	if err := drv.Init(); err != nil {
		var se *SubsystemError
		if !errors.As(err, &se) {
			err = &SubsystemError{Subsystem: "video", Err: err}
		}
		return err
	}

	win, err := drv.CreateWindow(s.cfg.Title, s.cfg.Width, s.cfg.Height)
	if err != nil {
		return errors.Join(fmt.Errorf("window could not be created: %w", err), drv.Quit())
	}
	defer func() {
		s.setPhase(PhaseTerminating)
		err = errors.Join(err, win.Close(), drv.Quit())
	}()

	surf := win.Surface()

	s.setPhase(PhasePreviewing)
	surf.Clear(s.cfg.Background)
	if err := win.Present(); err != nil {
		return fmt.Errorf("present splash: %w", err)
	}
	if err := s.sleep(ctx, s.cfg.SplashDelay); err != nil {
		s.logger.Debug("splash interrupted", "error", err)
		return nil
	}

	s.setPhase(PhaseRunning)
	var frameDur time.Duration
	if s.cfg.FrameLimit > 0 {
		frameDur = time.Second / time.Duration(s.cfg.FrameLimit)
	}
	events := make([]Event, 0, 16)
	for !s.quit {
		start := s.now()

		events = win.PollEvents(events[:0])
		for _, e := range events {
			s.HandleEvent(e)
		}
		if ctx.Err() != nil {
			s.quit = true
		}

		s.Render(surf)
		if err := win.Present(); err != nil {
			return fmt.Errorf("present frame %d: %w", s.frames, err)
		}
		s.frames++

		if frameDur > 0 && !s.quit {
			if err := s.sleep(ctx, frameDur-s.now().Sub(start)); err != nil {
				s.quit = true
			}
		}
	}
	s.logger.Debug("quit requested", "frames", s.frames, "player", s.player)
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
