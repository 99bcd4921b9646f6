// Package color holds the 8-bit RGB value written to LED strips and the
// blending helpers shared by the animation and brightness code.
package color

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidHex is returned when a string is not a #RRGGBB colour.
var ErrInvalidHex = errors.New("invalid hex colour")

// RGB is a single LED colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Black is the "off" colour.
var Black = RGB{}

// Warm is the default faceplate colour.
var Warm = RGB{R: 0xEF, G: 0xEB, B: 0xD8}

// IsBlack reports whether every channel is zero.
func (c RGB) IsBlack() bool {
	return c == Black
}

// Hex formats the colour as #RRGGBB.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

func (c RGB) String() string {
	return c.Hex()
}

// Scale multiplies every channel by f, clamped to [0, 1].
func (c RGB) Scale(f float64) RGB {
	f = clamp01(f)
	return RGB{
		R: uint8(math.Round(float64(c.R) * f)),
		G: uint8(math.Round(float64(c.G) * f)),
		B: uint8(math.Round(float64(c.B) * f)),
	}
}

// Blend linearly interpolates between from and to. Progress is clamped to
// [0, 1]; 0 yields from and 1 yields to exactly.
func Blend(from, to RGB, progress float64) RGB {
	p := clamp01(progress)
	return RGB{
		R: lerp(from.R, to.R, p),
		G: lerp(from.G, to.G, p),
		B: lerp(from.B, to.B, p),
	}
}

func lerp(a, b uint8, p float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*p))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// ParseHex parses "#RRGGBB" (the leading '#' is optional).
func ParseHex(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 || strings.IndexFunc(s, notHexDigit) >= 0 {
		return Black, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return Black, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

func notHexDigit(r rune) bool {
	return !('0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F')
}

// FromHSL converts hue (0..1 of a full turn), saturation and lightness to RGB.
func FromHSL(hue, saturation, lightness float64) RGB {
	h := math.Mod(hue, 1)
	if h < 0 {
		h++
	}
	r, g, b := colorful.Hsl(h*360, clamp01(saturation), clamp01(lightness)).RGB255()
	return RGB{R: r, G: g, B: b}
}
