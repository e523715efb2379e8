// Package cli turns the command line and the optional config file into a sample config.
package cli

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"go.creack.net/simplegame/sample"
)

const (
	BackendWindow   = "window"
	BackendTerminal = "term"
)

var backends = []string{BackendWindow, BackendTerminal}

// Options are the settings that are not part of the sample itself.
type Options struct {
	ConfigPath string
	Backend    string
	HUD        bool
	Verbose    bool
}

// LoadFile reads a YAML config file on top of cfg.
// Keys missing from the file keep their value.
func LoadFile(path string, cfg *sample.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// ParseConfig parses args (without the program name).
// Precedence is flags, then config file, then defaults.
// It returns flag.ErrHelp when -h was requested.
func ParseConfig(args []string, output io.Writer) (sample.Config, Options, error) {
	def := sample.DefaultConfig()

	fs := flag.NewFlagSet("simplegame", flag.ContinueOnError)
	fs.SetOutput(output)

	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", "", "YAML config file")
	fs.StringVar(&opts.Backend, "backend", BackendWindow, "where to draw, one of: window, term")
	fs.BoolVar(&opts.HUD, "hud", false, "show frame stats in the window")
	fs.BoolVar(&opts.Verbose, "v", false, "debug logs")

	var (
		title      = fs.String("title", def.Title, "window title")
		width      = fs.Int("width", def.Width, "window width")
		height     = fs.Int("height", def.Height, "window height")
		splash     = fs.Duration("splash", def.SplashDelay, "how long the splash screen stays up")
		fps        = fs.Int("fps", def.FrameLimit, "max frames per second, 0 for no limit")
		background = def.Background
		foreground = def.Foreground
	)
	fs.Var(&background, "background", "background color (#rrggbb)")
	fs.Var(&foreground, "foreground", "player color (#rrggbb)")

	if err := fs.Parse(args); err != nil {
		return sample.Config{}, Options{}, err
	}
	if fs.NArg() > 0 {
		return sample.Config{}, Options{}, fmt.Errorf("unexpected arguments: %q", fs.Args())
	}
	if !slices.Contains(backends, opts.Backend) {
		return sample.Config{}, Options{}, fmt.Errorf("invalid backend %q, must be one of %q", opts.Backend, backends)
	}

	cfg := def
	if opts.ConfigPath != "" {
		if err := LoadFile(opts.ConfigPath, &cfg); err != nil {
			return sample.Config{}, Options{}, err
		}
	}

	// Only explicitly set flags override the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			cfg.Title = *title
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "splash":
			cfg.SplashDelay = *splash
		case "fps":
			cfg.FrameLimit = *fps
		case "background":
			cfg.Background = background
		case "foreground":
			cfg.Foreground = foreground
		}
	})

	if err := cfg.Validate(); err != nil {
		return sample.Config{}, Options{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, opts, nil
}

func NewLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "simplegame",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
