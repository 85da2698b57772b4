package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/neuroglow/neuroglow/models"
)

// SVGSurface accumulates one frame as an SVG document. It is the natural
// backend for single-frame export: each Clear starts a fresh document.
type SVGSurface struct {
	width  float64
	height float64
	body   bytes.Buffer
	glows  int
}

var _ Surface = (*SVGSurface)(nil)

// NewSVGSurface creates an empty SVG surface of the given size.
func NewSVGSurface(width, height float64) *SVGSurface {
	return &SVGSurface{width: width, height: height}
}

// Size returns the drawable area.
func (s *SVGSurface) Size() (float64, float64) {
	return s.width, s.height
}

// Resize changes the document dimensions and discards accumulated elements.
func (s *SVGSurface) Resize(width, height float64) {
	s.width = width
	s.height = height
	s.body.Reset()
	s.glows = 0
}

// Clear discards all accumulated elements and fills the background.
func (s *SVGSurface) Clear(color string) {
	s.body.Reset()
	s.glows = 0
	s.body.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`+"\n", color))
}

// FillRect draws a translucent rectangle.
func (s *SVGSurface) FillRect(x, y, w, h float64, color string, alpha float64) {
	s.body.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
		x, y, w, h, rgba(color, alpha)))
}

// FillCircle draws a filled disc.
func (s *SVGSurface) FillCircle(x, y, r float64, color string, alpha float64) {
	s.body.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
		x, y, r, rgba(color, alpha)))
}

// Glow draws a radial gradient disc fading to transparent.
func (s *SVGSurface) Glow(x, y, r float64, color string, alpha float64) {
	s.glows++
	id := fmt.Sprintf("glow%d", s.glows)
	cr, cg, cb := parseHexColor(color)
	s.body.WriteString(fmt.Sprintf(`<radialGradient id="%s">
  <stop offset="0%%" stop-color="rgb(%d,%d,%d)" stop-opacity="%.3f"/>
  <stop offset="100%%" stop-color="rgb(%d,%d,%d)" stop-opacity="0"/>
</radialGradient>
<circle cx="%.2f" cy="%.2f" r="%.2f" fill="url(#%s)"/>
`, id, cr, cg, cb, alpha, cr, cg, cb, x, y, r, id))
}

// StrokePath strokes a polyline through the sampled points.
func (s *SVGSurface) StrokePath(points []models.Point, width float64, color string, alpha float64) {
	if len(points) < 2 {
		return
	}
	var d strings.Builder
	fmt.Fprintf(&d, "M%.2f,%.2f", points[0].X, points[0].Y)
	for _, p := range points[1:] {
		fmt.Fprintf(&d, " L%.2f,%.2f", p.X, p.Y)
	}
	s.body.WriteString(fmt.Sprintf(`<path d="%s" fill="none" stroke="%s" stroke-width="%.2f" stroke-linecap="round"/>`+"\n",
		d.String(), rgba(color, alpha), width))
}

// Bytes returns the complete SVG document for the current frame.
func (s *SVGSurface) Bytes() []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" xmlns="http://www.w3.org/2000/svg">
`, s.width, s.height, s.width, s.height))
	buf.Write(s.body.Bytes())
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}
