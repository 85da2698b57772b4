// Package curve evaluates positions along the multi-control-point curves used
// for edges and branches. Callers may feed t values accumulated with float
// error, so every entry point clamps t to [0,1] first.
package curve

import (
	"math"

	"github.com/neuroglow/neuroglow/models"
)

// Eval returns the point at progress t along the curve from src to dst shaped
// by the given control points: 0 controls is a straight line, 1 a quadratic
// Bézier, 2 a cubic, and 3 or more falls back to generalized de Casteljau
// over [src, controls..., dst].
func Eval(src, dst models.Point, controls []models.Point, t float64) models.Point {
	t = clamp(t)

	// Endpoints are returned verbatim: accumulated float error in the
	// polynomial forms must never displace a curve off its anchor points.
	if t == 0 {
		return src
	}
	if t == 1 {
		return dst
	}

	switch len(controls) {
	case 0:
		return lerp(src, dst, t)
	case 1:
		return quadratic(src, controls[0], dst, t)
	case 2:
		return cubic(src, controls[0], controls[1], dst, t)
	default:
		pts := make([]models.Point, 0, len(controls)+2)
		pts = append(pts, src)
		pts = append(pts, controls...)
		pts = append(pts, dst)
		return deCasteljau(pts, t)
	}
}

// Sample returns n evenly spaced points along the curve, endpoints included.
// n is raised to 2 if smaller.
func Sample(src, dst models.Point, controls []models.Point, n int) []models.Point {
	if n < 2 {
		n = 2
	}
	samples := make([]models.Point, n)
	for i := 0; i < n; i++ {
		samples[i] = Eval(src, dst, controls, float64(i)/float64(n-1))
	}
	return samples
}

// Length approximates arc length as the sum of segment lengths between
// consecutive samples.
func Length(samples []models.Point) float64 {
	total := 0.0
	for i := 1; i < len(samples); i++ {
		dx := samples[i].X - samples[i-1].X
		dy := samples[i].Y - samples[i-1].Y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

// At interpolates a position from a precomputed sample table at progress t.
// The two bracketing samples nearest t are blended linearly.
func At(samples []models.Point, t float64) models.Point {
	if len(samples) == 0 {
		return models.Point{}
	}
	if len(samples) == 1 {
		return samples[0]
	}
	t = clamp(t)

	f := t * float64(len(samples)-1)
	i := int(f)
	if i >= len(samples)-1 {
		return samples[len(samples)-1]
	}
	return lerp(samples[i], samples[i+1], f-float64(i))
}

func clamp(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func lerp(a, b models.Point, t float64) models.Point {
	return models.Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

func quadratic(p0, p1, p2 models.Point, t float64) models.Point {
	u := 1 - t
	return models.Point{
		X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
		Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
	}
}

func cubic(p0, p1, p2, p3 models.Point, t float64) models.Point {
	u := 1 - t
	return models.Point{
		X: u*u*u*p0.X + 3*u*u*t*p1.X + 3*u*t*t*p2.X + t*t*t*p3.X,
		Y: u*u*u*p0.Y + 3*u*u*t*p1.Y + 3*u*t*t*p2.Y + t*t*t*p3.Y,
	}
}

// deCasteljau evaluates an arbitrary-degree Bézier by repeated interpolation.
func deCasteljau(pts []models.Point, t float64) models.Point {
	work := make([]models.Point, len(pts))
	copy(work, pts)
	for n := len(work); n > 1; n-- {
		for i := 0; i < n-1; i++ {
			work[i] = lerp(work[i], work[i+1], t)
		}
	}
	return work[0]
}
