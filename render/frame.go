package render

import (
	"math"
	"math/rand"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/neuroglow/neuroglow/config"
	"github.com/neuroglow/neuroglow/curve"
	"github.com/neuroglow/neuroglow/models"
	"github.com/neuroglow/neuroglow/particles"
)

// edgeSamples is the polyline resolution used when stroking curves. Coarser
// than the particle sample tables; stroking is the per-frame hot path.
const edgeSamples = 16

// FrameRenderer paints one frame per call. It mutates only flow-phase and
// pulse fields on the graph; everything else is read-only to it.
type FrameRenderer struct {
	cfg   config.Config
	rng   *rand.Rand
	noise opensimplex.Noise

	frame     uint64
	lastPulse time.Duration
	cleared   bool
}

// NewFrameRenderer creates a renderer for one graph generation.
func NewFrameRenderer(cfg config.Config, rng *rand.Rand) *FrameRenderer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &FrameRenderer{
		cfg:   cfg,
		rng:   rng,
		noise: opensimplex.New(rng.Int63()),
	}
}

// Frame returns the number of ticks seen so far, drawn or skipped.
func (r *FrameRenderer) Frame() uint64 {
	return r.frame
}

// drawnFrame counts only painted frames. Stagger predicates must key off
// this, not the raw tick count: under a frame-skip divisor the raw count
// advances in strides, and a stride sharing a factor with the stagger width
// would pin the same nodes on every painted frame.
func (r *FrameRenderer) drawnFrame() uint64 {
	return r.frame / uint64(r.cfg.FrameSkip)
}

// Draw renders one tick. Under the configured frame-skip divisor only every
// Nth tick actually paints; skipped ticks return immediately after counting.
// elapsed is animation time, dt the time advanced this tick.
func (r *FrameRenderer) Draw(s Surface, g *models.Graph, ps *particles.System, elapsed, dt time.Duration) {
	r.frame++
	if r.cfg.FrameSkip > 1 && r.frame%uint64(r.cfg.FrameSkip) != 0 {
		return
	}

	w, h := s.Size()

	// Hard clear on the first frame, low-alpha overlay afterwards so prior
	// frames fade out as motion trails.
	if !r.cleared {
		s.Clear(r.cfg.Background)
		r.cleared = true
	} else {
		s.FillRect(0, 0, w, h, r.cfg.Background, r.cfg.TrailAlpha)
	}

	dtSec := dt.Seconds()
	r.drawBranches(s, g, dtSec)
	r.drawEdges(s, g, dtSec)
	r.drawParticles(s, ps)
	r.drawNodes(s, g)
	r.ambientPulse(g, elapsed, w, h)
}

// Rebuilt resets per-generation state after a graph rebuild so the next
// frame hard-clears with the (possibly new) background.
func (r *FrameRenderer) Rebuilt(cfg config.Config) {
	r.cfg = cfg
	r.cleared = false
	r.lastPulse = 0
}

// drawBranches strokes decorative stubs. Which nodes' branches are drawn is
// staggered by frame count to bound per-frame cost; phases only advance when
// their branch is drawn.
func (r *FrameRenderer) drawBranches(s Surface, g *models.Graph, dtSec float64) {
	stagger := uint64(r.cfg.NodeStagger)
	drawn := r.drawnFrame()
	for _, node := range g.Nodes {
		if stagger > 1 && (uint64(node.ID)+drawn)%stagger != 0 {
			continue
		}
		src := models.Point{X: node.X, Y: node.Y}
		for _, br := range node.Branches {
			br.AdvanceFlow(r.cfg.FlowSpeedMin * dtSec * float64(r.cfg.NodeStagger))
			alpha := 0.25 + 0.15*math.Sin(br.FlowPhase)
			pts := curve.Sample(src, br.End, br.Controls, edgeSamples/2)
			s.StrokePath(pts, br.Width, r.cfg.BranchColor, alpha)
		}
	}
}

// drawEdges strokes every edge with a flow-phase-modulated alpha. The phase
// advances on every drawn frame and wraps modulo 2π.
func (r *FrameRenderer) drawEdges(s Surface, g *models.Graph, dtSec float64) {
	for _, node := range g.Nodes {
		src := models.Point{X: node.X, Y: node.Y}
		for _, e := range node.Edges {
			e.AdvanceFlow(e.FlowSpeed * dtSec)
			dst := models.Point{X: e.Target.X, Y: e.Target.Y}
			pts := curve.Sample(src, dst, e.Controls, edgeSamples)

			// Organic shimmer: slow noise drift on top of the flow phase.
			shimmer := r.noise.Eval2(float64(node.ID)*0.31, e.FlowPhase*0.5)
			alpha := 0.35 + 0.2*math.Sin(e.FlowPhase) + 0.1*shimmer
			if alpha < 0.05 {
				alpha = 0.05
			}
			s.StrokePath(pts, e.Width, r.cfg.EdgeColor, alpha)
		}
	}
}

// drawParticles paints the active pool with a small glow halo.
func (r *FrameRenderer) drawParticles(s Surface, ps *particles.System) {
	for _, p := range ps.Particles() {
		if !p.Active {
			continue
		}
		s.Glow(p.X, p.Y, r.cfg.ParticleRadius*3.5, r.cfg.GlowColor, 0.35)
		s.FillCircle(p.X, p.Y, r.cfg.ParticleRadius, r.cfg.ParticleColor, 0.9)
	}
}

// drawNodes paints nodes last, on top. Glow radius and alpha derive from the
// current pulse; the geometric decay step is staggered across frames the same
// way branch updates are.
func (r *FrameRenderer) drawNodes(s Surface, g *models.Graph) {
	stagger := uint64(r.cfg.NodeStagger)
	drawn := r.drawnFrame()
	for _, node := range g.Nodes {
		if node.Pulse > 0 {
			glowR := node.Radius * (2.5 + 4*node.Pulse)
			s.Glow(node.X, node.Y, glowR, r.cfg.GlowColor, 0.25+0.45*node.Pulse)
		}
		s.FillCircle(node.X, node.Y, node.Radius, r.cfg.NodeColor, 0.75+0.25*node.Pulse)
		if stagger <= 1 || (uint64(node.ID)+drawn)%stagger == 0 {
			node.DecayPulse(r.cfg.PulseDecay, r.cfg.PulseSnap)
		}
	}
}

// ambientPulse periodically lights up one random visible node, measured in
// elapsed animation time, so the graph shows activity even with no particle
// arrivals nearby.
func (r *FrameRenderer) ambientPulse(g *models.Graph, elapsed time.Duration, w, h float64) {
	if elapsed-r.lastPulse < r.cfg.PulseInterval {
		return
	}
	r.lastPulse = elapsed

	visible := g.FindNodes(func(n *models.Node) bool {
		return n.InViewport(w, h, 0)
	})
	if len(visible) == 0 {
		return
	}
	visible[r.rng.Intn(len(visible))].TriggerPulse()
}
