package render

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/neuroglow/neuroglow/models"
)

// RasterSurface draws into an in-memory RGBA image. Unlike the SVG backend it
// keeps pixels between frames, so the low-alpha background fill accumulates
// into the motion-trail effect.
type RasterSurface struct {
	img *image.RGBA
}

var _ Surface = (*RasterSurface)(nil)

// NewRasterSurface creates a raster surface of the given size in pixels.
func NewRasterSurface(width, height int) *RasterSurface {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &RasterSurface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// Size returns the drawable area.
func (s *RasterSurface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// Image exposes the backing image for encoding or display.
func (s *RasterSurface) Image() *image.RGBA {
	return s.img
}

// Resize reallocates the backing store. Contents are discarded; the engine
// rebuilds the graph and hard-clears on the next frame anyway.
func (s *RasterSurface) Resize(width, height float64) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	s.img = image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
}

// EncodePNG writes the current frame as PNG.
func (s *RasterSurface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// Clear fills the whole surface opaquely.
func (s *RasterSurface) Clear(col string) {
	r, g, b := parseHexColor(col)
	c := color.RGBA{R: r, G: g, B: b, A: 255}
	bounds := s.img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			s.img.SetRGBA(x, y, c)
		}
	}
}

// FillRect alpha-blends a rectangle over the existing pixels.
func (s *RasterSurface) FillRect(x, y, w, h float64, col string, alpha float64) {
	r, g, b := parseHexColor(col)
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	x1, y1 := int(math.Ceil(x+w)), int(math.Ceil(y+h))
	bounds := s.img.Bounds()
	for py := maxInt(y0, bounds.Min.Y); py < minInt(y1, bounds.Max.Y); py++ {
		for px := maxInt(x0, bounds.Min.X); px < minInt(x1, bounds.Max.X); px++ {
			s.blend(px, py, r, g, b, alpha)
		}
	}
}

// FillCircle draws an alpha-blended disc with a one-pixel soft edge.
func (s *RasterSurface) FillCircle(x, y, radius float64, col string, alpha float64) {
	r, g, b := parseHexColor(col)
	s.discColor(x, y, radius, r, g, b, func(dist float64) float64 {
		if dist <= radius-1 {
			return alpha
		}
		return alpha * (radius - dist) // soft antialiased rim
	})
}

// Glow draws a disc whose alpha falls off smoothly toward the rim.
func (s *RasterSurface) Glow(x, y, radius float64, col string, alpha float64) {
	r, g, b := parseHexColor(col)
	s.discColor(x, y, radius, r, g, b, func(dist float64) float64 {
		t := dist / radius
		return alpha * (1 - t) * (1 - t)
	})
}

// StrokePath strokes the polyline segment by segment.
func (s *RasterSurface) StrokePath(points []models.Point, width float64, col string, alpha float64) {
	r, g, b := parseHexColor(col)
	for i := 1; i < len(points); i++ {
		s.line(points[i-1], points[i], width, r, g, b, alpha)
	}
}

// line walks a segment at sub-pixel steps, stamping a small disc at each.
func (s *RasterSurface) line(a, b models.Point, width float64, cr, cg, cb uint8, alpha float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	steps := int(length) + 1
	radius := math.Max(width/2, 0.6)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		s.discColor(a.X+dx*t, a.Y+dy*t, radius, cr, cg, cb, func(dist float64) float64 {
			if dist <= radius-0.5 {
				return alpha
			}
			return alpha * 0.5
		})
	}
}

// discColor stamps a disc, calling falloff(dist) for the per-pixel alpha.
func (s *RasterSurface) discColor(x, y, radius float64, cr, cg, cb uint8, falloff func(dist float64) float64) {
	x0, y0 := int(math.Floor(x-radius)), int(math.Floor(y-radius))
	x1, y1 := int(math.Ceil(x+radius)), int(math.Ceil(y+radius))
	bounds := s.img.Bounds()
	for py := maxInt(y0, bounds.Min.Y); py <= minInt(y1, bounds.Max.Y-1); py++ {
		for px := maxInt(x0, bounds.Min.X); px <= minInt(x1, bounds.Max.X-1); px++ {
			dist := math.Hypot(float64(px)-x+0.5, float64(py)-y+0.5)
			if dist > radius {
				continue
			}
			a := falloff(dist)
			if a <= 0 {
				continue
			}
			s.blend(px, py, cr, cg, cb, math.Min(a, 1))
		}
	}
}

// blend composites src over dst with the given alpha.
func (s *RasterSurface) blend(x, y int, r, g, b uint8, alpha float64) {
	dst := s.img.RGBAAt(x, y)
	inv := 1 - alpha
	s.img.SetRGBA(x, y, color.RGBA{
		R: uint8(float64(r)*alpha + float64(dst.R)*inv),
		G: uint8(float64(g)*alpha + float64(dst.G)*inv),
		B: uint8(float64(b)*alpha + float64(dst.B)*inv),
		A: 255,
	})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
