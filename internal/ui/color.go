package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA colour with components in [0, 1]
type Color struct {
	R, G, B, A float64
}

// ParseColor reads #rrggbb or #rrggbbaa
func ParseColor(s string) (Color, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok || (len(hex) != 6 && len(hex) != 8) {
		return Color{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	alpha := 1.0
	if len(hex) == 8 {
		a, _ := strconv.ParseUint(hex[6:], 16, 8)
		alpha = float64(a) / 255
		hex = hex[:6]
	}
	rgb, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: rgb.R, G: rgb.G, B: rgb.B, A: alpha}, nil
}

// MustParseColor is ParseColor for compile-time constants
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Color) String() string {
	return fmt.Sprintf("%s%02x", colorful.Color{R: c.R, G: c.G, B: c.B}.Hex(), uint8(c.A*255+0.5))
}
