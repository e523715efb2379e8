package sample

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// Color is an opaque or translucent RGBA color with a "#rrggbb[aa]" text form.
// The leading '#' is optional, which matters in YAML where an unquoted '#' starts a comment.
type Color color.RGBA

var (
	White = Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Green = Color{G: 0xFF, A: 0xFF}
)

func ParseColor(s string) (Color, error) {
	str := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(str) != 6 && len(str) != 8 {
		return Color{}, fmt.Errorf("invalid color %q, expected #rrggbb or #rrggbbaa", s)
	}
	b, err := hex.DecodeString(str)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	c := Color{R: b[0], G: b[1], B: b[2], A: 0xFF}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}

func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA(c).RGBA()
}

func (c Color) String() string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Set implements flag.Value.
func (c *Color) Set(s string) error {
	return c.UnmarshalText([]byte(s))
}
