package view

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/neuroglow/neuroglow/models"
	"github.com/neuroglow/neuroglow/render"
)

// ebitenSurface draws into a persistent offscreen image so low-alpha fills
// accumulate across frames.
type ebitenSurface struct {
	buffer *ebiten.Image
	width  float64
	height float64
}

func newSurface(width, height int) *ebitenSurface {
	return &ebitenSurface{
		buffer: ebiten.NewImage(width, height),
		width:  float64(width),
		height: float64(height),
	}
}

func (s *ebitenSurface) Size() (float64, float64) {
	return s.width, s.height
}

func (s *ebitenSurface) Clear(col string) {
	s.buffer.Fill(render.HexRGBA(col, 1))
}

func (s *ebitenSurface) FillRect(x, y, w, h float64, col string, alpha float64) {
	vector.DrawFilledRect(s.buffer,
		float32(x), float32(y), float32(w), float32(h),
		render.HexRGBA(col, alpha), false)
}

func (s *ebitenSurface) FillCircle(x, y, r float64, col string, alpha float64) {
	vector.DrawFilledCircle(s.buffer,
		float32(x), float32(y), float32(r),
		render.HexRGBA(col, alpha), true)
}

// Glow approximates a radial gradient with three concentric translucent
// discs, cheap enough for the per-frame pulse halos.
func (s *ebitenSurface) Glow(x, y, r float64, col string, alpha float64) {
	for i, scale := range [...]float64{1.0, 0.66, 0.33} {
		a := alpha * float64(i+1) / 4
		vector.DrawFilledCircle(s.buffer,
			float32(x), float32(y), float32(r*scale),
			render.HexRGBA(col, a), true)
	}
}

func (s *ebitenSurface) StrokePath(points []models.Point, width float64, col string, alpha float64) {
	c := render.HexRGBA(col, alpha)
	for i := 1; i < len(points); i++ {
		vector.StrokeLine(s.buffer,
			float32(points[i-1].X), float32(points[i-1].Y),
			float32(points[i].X), float32(points[i].Y),
			float32(width), c, true)
	}
}
