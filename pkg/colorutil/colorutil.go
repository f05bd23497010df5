// Package colorutil provides shared color utilities for the annotation tool.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Common annotation colors.
var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green  = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	Blue   = color.RGBA{R: 0, G: 80, B: 255, A: 255}
	Yellow = color.RGBA{R: 255, G: 225, B: 0, A: 255}
	Orange = color.RGBA{R: 255, G: 140, B: 0, A: 255}
)

// ParseHex parses a "#RRGGBB" or "RRGGBB" color string.
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// Hex formats a color as "#RRGGBB", ignoring alpha.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBToHSL converts RGB (0-255) to HSL (H 0-360, S 0-1, L 0-1).
func RGBToHSL(r, g, b float64) (h, s, l float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	l = (maxC + minC) / 2

	if diff == 0 {
		return 0, 0, l
	}

	if l > 0.5 {
		s = diff / (2 - maxC - minC)
	} else {
		s = diff / (maxC + minC)
	}

	switch maxC {
	case r:
		h = 60 * math.Mod((g-b)/diff, 6)
	case g:
		h = 60 * ((b-r)/diff + 2)
	default:
		h = 60 * ((r-g)/diff + 4)
	}
	if h < 0 {
		h += 360
	}

	return h, s, l
}

// HSLToRGB converts HSL (H 0-360, S 0-1, L 0-1) to RGB (0-255).
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		v := l * 255.0
		return v, v, v
	}

	c := (1 - math.Abs(2*l-1)) * s
	hp := math.Mod(h, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	m := l - c/2

	var r1, g1, b1 float64
	switch {
	case hp < 1:
		r1, g1, b1 = c, x, 0
	case hp < 2:
		r1, g1, b1 = x, c, 0
	case hp < 3:
		r1, g1, b1 = 0, c, x
	case hp < 4:
		r1, g1, b1 = 0, x, c
	case hp < 5:
		r1, g1, b1 = x, 0, c
	default:
		r1, g1, b1 = c, 0, x
	}

	return (r1 + m) * 255.0, (g1 + m) * 255.0, (b1 + m) * 255.0
}
