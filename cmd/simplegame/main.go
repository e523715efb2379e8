package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/charmbracelet/log"

	"go.creack.net/simplegame/cli"
	"go.creack.net/simplegame/sample"
	"go.creack.net/simplegame/term"
	"go.creack.net/simplegame/window"
)

// driver is a sample.Driver whose UI loop must own the main goroutine.
type driver interface {
	sample.Driver
	Main() error
	Stop()
}

func newDriver(opts cli.Options, logger *log.Logger) driver {
	if opts.Backend == cli.BackendTerminal {
		return term.NewDriver(logger)
	}
	return window.NewDriver(opts.HUD, logger)
}

func run(ctx context.Context, cfg sample.Config, opts cli.Options, logger *log.Logger) error {
	drv := newDriver(opts, logger)
	s := sample.New(cfg, logger)

	errCh := make(chan error, 1)
	go func() {
		defer drv.Stop()
		defer func() {
			if e := recover(); e != nil {
				logger.Error("Recovered from panic.", "panic", e, "stack", string(debug.Stack()))
				errCh <- fmt.Errorf("panic: %v", e)
			}
		}()
		errCh <- s.Run(ctx, drv)
	}()

	if err := drv.Main(); err != nil {
		logger.Error("UI loop failed.", "error", err)
	}
	if err := <-errCh; err != nil {
		return err
	}
	logger.Info("Done.", "frames", s.Frames(), "player", s.Player())
	return nil
}

func main() {
	cfg, opts, err := cli.ParseConfig(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "simplegame: %s.\n", err)
		os.Exit(2)
	}

	logOut := io.Writer(os.Stderr)
	if opts.Backend == cli.BackendTerminal {
		// The terminal backend owns the tty.
		logOut = io.Discard
	}
	logger := cli.NewLogger(logOut, opts.Verbose)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg, opts, logger); err != nil {
		cancel()
		// Logged after the UI is gone so the terminal backend does not swallow it.
		cli.NewLogger(os.Stderr, false).Fatal("Sample failed.", "error", err)
	}
}
