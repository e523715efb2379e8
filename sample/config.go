package sample

import (
	"errors"
	"fmt"
	"time"
)

type Config struct {
	Title string `yaml:"title"`

	// Window size in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// How long the preview stays up before the loop starts.
	SplashDelay time.Duration `yaml:"splash_delay"`

	Background Color `yaml:"background"`
	Foreground Color `yaml:"foreground"` // Color of the player rectangle.

	// Initial player rectangle.
	Player Rect `yaml:"player"`

	// Max frames per second, 0 means no limit.
	FrameLimit int `yaml:"frame_limit"`
}

func DefaultConfig() Config {
	return Config{
		Title:       "SDL Tutorial",
		Width:       800,
		Height:      600,
		SplashDelay: 2 * time.Second,
		Background:  White,
		Foreground:  Green,
		Player:      Rect{X: 370, Y: 480, W: 20, H: 20},
	}
}

func (cfg Config) Validate() error {
	var errs []error
	if cfg.Width <= 0 || cfg.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height))
	}
	if cfg.Player.W <= 0 || cfg.Player.H <= 0 {
		errs = append(errs, fmt.Errorf("invalid player size %dx%d", cfg.Player.W, cfg.Player.H))
	}
	if cfg.SplashDelay < 0 {
		errs = append(errs, fmt.Errorf("negative splash delay %s", cfg.SplashDelay))
	}
	if cfg.FrameLimit < 0 {
		errs = append(errs, fmt.Errorf("negative frame limit %d", cfg.FrameLimit))
	}
	return errors.Join(errs...)
}
