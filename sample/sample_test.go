package sample

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// fakeDriver feeds one batch of events per poll and records what the loop did.
type fakeDriver struct {
	initErr   error
	createErr error

	batches [][]Event

	win       *fakeWindow
	quitCalls int
}

func (d *fakeDriver) Init() error { return d.initErr }

func (d *fakeDriver) CreateWindow(title string, width, height int) (Window, error) {
	if d.createErr != nil {
		return nil, d.createErr
	}
	d.win = &fakeWindow{
		title:   title,
		surf:    NewSurface(width, height),
		batches: d.batches,
	}
	return d.win, nil
}

func (d *fakeDriver) Quit() error {
	d.quitCalls++
	return nil
}

type fakeWindow struct {
	title   string
	surf    *Surface
	batches [][]Event

	polls      int
	presents   int
	closeCalls int
}

func (w *fakeWindow) Surface() *Surface { return w.surf }

func (w *fakeWindow) PollEvents(dst []Event) []Event {
	w.polls++
	if len(w.batches) == 0 {
		// Keep the loop finite when a test forgets to quit.
		if w.polls > 1000 {
			return append(dst, NewQuitEvent())
		}
		return dst
	}
	b := w.batches[0]
	w.batches = w.batches[1:]
	return append(dst, b...)
}

func (w *fakeWindow) Present() error {
	w.presents++
	return nil
}

func (w *fakeWindow) Close() error {
	w.closeCalls++
	return nil
}

func newTestSample(cfg Config) *Sample {
	s := New(cfg, log.New(io.Discard))
	s.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return s
}

func keys(ks ...Key) []Event {
	out := make([]Event, 0, len(ks))
	for _, k := range ks {
		out = append(out, NewKeyEvent(k))
	}
	return out
}

func TestHandleEventMovesPlayer(t *testing.T) {
	tests := []struct {
		name   string
		events []Event
		wantX  int
		wantY  int
	}{
		{"none", nil, 370, 480},
		{"down down right", keys(KeyDown, KeyDown, KeyRight), 371, 482},
		{"left", keys(KeyLeft), 369, 480},
		{"up", keys(KeyUp), 370, 479},
		{"back and forth", keys(KeyLeft, KeyRight, KeyUp, KeyDown), 370, 480},
		{"other keys ignored", keys(KeyOther, KeyOther), 370, 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSample(DefaultConfig())
			for _, e := range tt.events {
				s.HandleEvent(e)
			}
			if p := s.Player(); p.X != tt.wantX || p.Y != tt.wantY {
				t.Errorf("player at (%d,%d), want (%d,%d)", p.X, p.Y, tt.wantX, tt.wantY)
			}
			if p := s.Player(); p.W != 20 || p.H != 20 {
				t.Errorf("player size changed to %dx%d", p.W, p.H)
			}
		})
	}
}

func TestPlayerIsNotClamped(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSample(cfg)
	const n = 1000
	for range n {
		s.HandleEvent(NewKeyEvent(KeyRight))
		s.HandleEvent(NewKeyEvent(KeyUp))
	}
	p := s.Player()
	if p.X != cfg.Player.X+n {
		t.Errorf("x = %d, want %d", p.X, cfg.Player.X+n)
	}
	if p.X <= cfg.Width {
		t.Errorf("x = %d, expected the player to leave the %d wide window", p.X, cfg.Width)
	}
	if p.Y != cfg.Player.Y-n {
		t.Errorf("y = %d, want %d", p.Y, cfg.Player.Y-n)
	}
}

func TestRunScenario(t *testing.T) {
	drv := &fakeDriver{
		batches: [][]Event{
			keys(KeyDown),
			nil,
			keys(KeyDown, KeyRight),
			{NewQuitEvent()},
		},
	}
	s := newTestSample(DefaultConfig())
	if err := s.Run(context.Background(), drv); err != nil {
		t.Fatalf("Run: %s", err)
	}

	if p := s.Player(); p.X != 371 || p.Y != 482 {
		t.Errorf("player at (%d,%d), want (371,482)", p.X, p.Y)
	}
	if drv.win.title != "SDL Tutorial" {
		t.Errorf("window title %q", drv.win.title)
	}
	// One splash present and one per loop iteration, including the one that saw the quit.
	if got, want := drv.win.presents, 1+4; got != want {
		t.Errorf("presents = %d, want %d", got, want)
	}
	if got := s.Frames(); got != 4 {
		t.Errorf("frames = %d, want 4", got)
	}
	if drv.win.polls != 4 {
		t.Errorf("polls = %d, want 4", drv.win.polls)
	}
	if drv.win.closeCalls != 1 || drv.quitCalls != 1 {
		t.Errorf("close/quit called %d/%d times, want 1/1", drv.win.closeCalls, drv.quitCalls)
	}
	if s.Phase() != PhaseTerminating {
		t.Errorf("phase = %s, want terminating", s.Phase())
	}

	surf := drv.win.surf
	if c := surf.At(371, 482); c != Green {
		t.Errorf("player pixel = %s, want %s", c, Green)
	}
	if c := surf.At(370, 481); c != White {
		t.Errorf("old player pixel = %s, want %s", c, White)
	}
}

func TestRunQuitInSameBatchStillApplies(t *testing.T) {
	drv := &fakeDriver{
		batches: [][]Event{
			{NewQuitEvent(), NewKeyEvent(KeyRight)},
		},
	}
	s := newTestSample(DefaultConfig())
	if err := s.Run(context.Background(), drv); err != nil {
		t.Fatalf("Run: %s", err)
	}
	if p := s.Player(); p.X != 371 {
		t.Errorf("x = %d, want 371", p.X)
	}
	if s.Frames() != 1 {
		t.Errorf("frames = %d, want 1", s.Frames())
	}
}

func TestRunNoEventsRedrawsIdentically(t *testing.T) {
	batches := make([][]Event, 10)
	batches = append(batches, []Event{NewQuitEvent()})
	drv := &fakeDriver{batches: batches}
	s := newTestSample(DefaultConfig())
	if err := s.Run(context.Background(), drv); err != nil {
		t.Fatalf("Run: %s", err)
	}
	if p := s.Player(); p != DefaultConfig().Player {
		t.Errorf("player moved to %s", p)
	}
	if s.Frames() != 11 {
		t.Errorf("frames = %d, want 11", s.Frames())
	}
}

func TestRunInitFailure(t *testing.T) {
	backendErr := errors.New("no display")
	drv := &fakeDriver{initErr: backendErr}
	s := newTestSample(DefaultConfig())

	err := s.Run(context.Background(), drv)
	var se *SubsystemError
	if !errors.As(err, &se) {
		t.Fatalf("expected a SubsystemError, got %v", err)
	}
	if se.Subsystem != "video" {
		t.Errorf("subsystem = %q", se.Subsystem)
	}
	if !errors.Is(err, backendErr) {
		t.Errorf("error does not wrap the backend error: %s", err)
	}
	if got, want := err.Error(), "video could not initialize: no display"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
	if drv.win != nil {
		t.Error("window created after failed init")
	}
	if drv.quitCalls != 0 {
		t.Errorf("quit called %d times after failed init", drv.quitCalls)
	}
	if s.Frames() != 0 {
		t.Errorf("frames = %d, want 0", s.Frames())
	}
}

func TestRunInitFailureKeepsDriverSubsystem(t *testing.T) {
	drv := &fakeDriver{initErr: &SubsystemError{Subsystem: "terminal", Err: errors.New("no tty")}}
	err := newTestSample(DefaultConfig()).Run(context.Background(), drv)
	var se *SubsystemError
	if !errors.As(err, &se) || se.Subsystem != "terminal" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunWindowFailure(t *testing.T) {
	backendErr := errors.New("no window for you")
	drv := &fakeDriver{createErr: backendErr}
	s := newTestSample(DefaultConfig())

	err := s.Run(context.Background(), drv)
	if !errors.Is(err, backendErr) {
		t.Fatalf("unexpected error: %v", err)
	}
	if drv.quitCalls != 1 {
		t.Errorf("quit called %d times, want 1", drv.quitCalls)
	}
	if s.Frames() != 0 {
		t.Errorf("frames = %d, want 0", s.Frames())
	}
}

func TestRunContextCancelledDuringSplash(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	drv := &fakeDriver{}
	s := newTestSample(DefaultConfig())
	if err := s.Run(ctx, drv); err != nil {
		t.Fatalf("Run: %s", err)
	}
	if drv.win.presents != 1 {
		t.Errorf("presents = %d, want only the splash", drv.win.presents)
	}
	if drv.win.closeCalls != 1 || drv.quitCalls != 1 {
		t.Errorf("close/quit called %d/%d times, want 1/1", drv.win.closeCalls, drv.quitCalls)
	}
}

func TestRunSplashWaitsConfiguredDelay(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSample(cfg)
	var slept []time.Duration
	s.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	drv := &fakeDriver{batches: [][]Event{{NewQuitEvent()}}}
	if err := s.Run(context.Background(), drv); err != nil {
		t.Fatalf("Run: %s", err)
	}
	// No frame limit by default: the splash is the only wait.
	if len(slept) != 1 || slept[0] != 2*time.Second {
		t.Errorf("slept %v, want [2s]", slept)
	}
}

func TestRunFrameLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameLimit = 50
	s := newTestSample(cfg)
	var slept []time.Duration
	s.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	frozen := time.Unix(0, 0)
	s.now = func() time.Time { return frozen }

	drv := &fakeDriver{batches: [][]Event{nil, nil, {NewQuitEvent()}}}
	if err := s.Run(context.Background(), drv); err != nil {
		t.Fatalf("Run: %s", err)
	}
	// Splash, then one wait per frame except the last one.
	want := []time.Duration{2 * time.Second, 20 * time.Millisecond, 20 * time.Millisecond}
	if len(slept) != len(want) {
		t.Fatalf("slept %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("sleep #%d = %s, want %s", i, slept[i], want[i])
		}
	}
}

func TestSleepCtx(t *testing.T) {
	if err := sleepCtx(context.Background(), 0); err != nil {
		t.Errorf("zero sleep: %s", err)
	}
	if err := sleepCtx(context.Background(), time.Millisecond); err != nil {
		t.Errorf("short sleep: %s", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepCtx(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled sleep returned %v", err)
	}
}
