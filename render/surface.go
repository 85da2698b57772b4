// Package render contains the drawing-surface abstraction, the concrete
// surface backends, and the per-frame orchestration that paints the graph.
package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/neuroglow/neuroglow/models"
)

// Surface is the capability interface every drawing backend implements. The
// engine is written against it and selects one concrete backend at
// construction.
type Surface interface {
	// Size returns the drawable area in device pixels.
	Size() (width, height float64)

	// Clear fills the whole surface with an opaque color.
	Clear(color string)

	// FillRect fills a rectangle with the given color and alpha. The frame
	// renderer uses a full-surface low-alpha fill for the motion-trail
	// effect.
	FillRect(x, y, w, h float64, color string, alpha float64)

	// FillCircle draws a filled disc.
	FillCircle(x, y, r float64, color string, alpha float64)

	// Glow draws a soft radial-gradient disc fading to transparent at r.
	Glow(x, y, r float64, color string, alpha float64)

	// StrokePath strokes a polyline through the given points.
	StrokePath(points []models.Point, width float64, color string, alpha float64)
}

// parseHexColor parses #RGB and #RRGGBB strings into components. Invalid
// input yields black, matching the defensive posture of the rest of the
// engine.
func parseHexColor(hex string) (uint8, uint8, uint8) {
	hex = strings.TrimPrefix(hex, "#")

	if len(hex) == 3 {
		r := parseHexDigit(hex[0])
		g := parseHexDigit(hex[1])
		b := parseHexDigit(hex[2])
		return r * 17, g * 17, b * 17
	}
	if len(hex) >= 6 {
		return parseHexByte(hex[0:2]), parseHexByte(hex[2:4]), parseHexByte(hex[4:6])
	}
	return 0, 0, 0
}

func parseHexDigit(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func parseHexByte(s string) uint8 {
	var result uint8
	for i := 0; i < len(s); i++ {
		result = result*16 + parseHexDigit(s[i])
	}
	return result
}

// HexRGBA converts a hex color plus alpha into a premultiplied color.RGBA,
// the form drawing backends outside this package consume.
func HexRGBA(hex string, alpha float64) color.RGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	r, g, b := parseHexColor(hex)
	return color.RGBA{
		R: uint8(float64(r) * alpha),
		G: uint8(float64(g) * alpha),
		B: uint8(float64(b) * alpha),
		A: uint8(255 * alpha),
	}
}

// rgba formats a color for CSS-style consumers (the SVG backend and the
// browser preview page).
func rgba(color string, alpha float64) string {
	r, g, b := parseHexColor(color)
	return fmt.Sprintf("rgba(%d,%d,%d,%.3f)", r, g, b, alpha)
}
