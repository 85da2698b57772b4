package render

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neuroglow/neuroglow/config"
	"github.com/neuroglow/neuroglow/models"
	"github.com/neuroglow/neuroglow/particles"
)

// recordSurface captures draw calls for assertion instead of painting.
type drawOp struct {
	kind  string
	color string
	alpha float64
}

type recordSurface struct {
	w, h float64
	ops  []drawOp
}

func (s *recordSurface) Size() (float64, float64) { return s.w, s.h }

func (s *recordSurface) Clear(color string) {
	s.ops = append(s.ops, drawOp{kind: "clear", color: color, alpha: 1})
}

func (s *recordSurface) FillRect(x, y, w, h float64, color string, alpha float64) {
	s.ops = append(s.ops, drawOp{kind: "rect", color: color, alpha: alpha})
}

func (s *recordSurface) FillCircle(x, y, r float64, color string, alpha float64) {
	s.ops = append(s.ops, drawOp{kind: "circle", color: color, alpha: alpha})
}

func (s *recordSurface) Glow(x, y, r float64, color string, alpha float64) {
	s.ops = append(s.ops, drawOp{kind: "glow", color: color, alpha: alpha})
}

func (s *recordSurface) StrokePath(points []models.Point, width float64, color string, alpha float64) {
	s.ops = append(s.ops, drawOp{kind: "stroke", color: color, alpha: alpha})
}

func (s *recordSurface) count(kind string) int {
	n := 0
	for _, op := range s.ops {
		if op.kind == kind {
			n++
		}
	}
	return n
}

func testConfig() config.Config {
	cfg := config.ForTheme(config.ThemeDark, config.DeviceProfile{
		ViewportWidth: 1920,
		LogicalCores:  16,
	})
	cfg.FrameSkip = 1
	cfg.NodeStagger = 1
	cfg.PulseInterval = time.Second
	return cfg
}

func pairGraph() *models.Graph {
	g := models.NewGraph(400, 200)
	a := models.NewNode(0, 100, 100, 3)
	b := models.NewNode(1, 300, 100, 3)
	a.Connect(b, 1, 0.5, nil)
	g.Nodes = append(g.Nodes, a, b)
	return g
}

func newTestRenderer(cfg config.Config) *FrameRenderer {
	return NewFrameRenderer(cfg, rand.New(rand.NewSource(1)))
}

func emptySystem(cfg config.Config, g *models.Graph) *particles.System {
	cfg.ParticleCount = 0
	return particles.NewSystem(cfg, g, rand.New(rand.NewSource(1)))
}

func TestDrawClearsOnceThenFades(t *testing.T) {
	cfg := testConfig()
	g := pairGraph()
	ps := emptySystem(cfg, g)
	r := newTestRenderer(cfg)
	s := &recordSurface{w: 400, h: 200}

	r.Draw(s, g, ps, 0, 16*time.Millisecond)
	require.NotEmpty(t, s.ops)
	assert.Equal(t, "clear", s.ops[0].kind, "first frame starts from a hard clear")
	assert.Equal(t, cfg.Background, s.ops[0].color)

	s.ops = nil
	r.Draw(s, g, ps, 16*time.Millisecond, 16*time.Millisecond)
	require.NotEmpty(t, s.ops)
	assert.Equal(t, "rect", s.ops[0].kind, "later frames fade with a low-alpha overlay")
	assert.Equal(t, cfg.Background, s.ops[0].color)
	assert.InDelta(t, cfg.TrailAlpha, s.ops[0].alpha, 1e-9)
	assert.Zero(t, s.count("clear"))
}

func TestDrawFrameSkip(t *testing.T) {
	cfg := testConfig()
	cfg.FrameSkip = 2
	g := pairGraph()
	ps := emptySystem(cfg, g)
	r := newTestRenderer(cfg)
	s := &recordSurface{w: 400, h: 200}

	r.Draw(s, g, ps, 0, 16*time.Millisecond)
	assert.Empty(t, s.ops, "odd ticks are skipped under a divisor of 2")
	assert.Equal(t, uint64(1), r.Frame(), "skipped ticks still count")

	r.Draw(s, g, ps, 16*time.Millisecond, 16*time.Millisecond)
	assert.NotEmpty(t, s.ops)
}

func TestDrawEmptyGraph(t *testing.T) {
	cfg := testConfig()
	g := models.NewGraph(400, 200)
	ps := emptySystem(cfg, g)
	r := newTestRenderer(cfg)
	s := &recordSurface{w: 400, h: 200}

	r.Draw(s, g, ps, 0, 16*time.Millisecond)
	assert.Equal(t, []drawOp{{kind: "clear", color: cfg.Background, alpha: 1}}, s.ops,
		"an empty graph paints the background and nothing else")
}

func TestDrawStrokesEdgesAndBranches(t *testing.T) {
	cfg := testConfig()
	g := pairGraph()
	g.Nodes[0].AttachBranch(models.Point{X: 80, Y: 60}, 0.5, nil)
	ps := emptySystem(cfg, g)
	r := newTestRenderer(cfg)
	s := &recordSurface{w: 400, h: 200}

	r.Draw(s, g, ps, 0, 16*time.Millisecond)
	assert.Equal(t, 2, s.count("stroke"), "one edge plus one branch")
	assert.Equal(t, 2, s.count("circle"), "one disc per node")
}

func TestDrawAdvancesFlowPhase(t *testing.T) {
	cfg := testConfig()
	g := pairGraph()
	ps := emptySystem(cfg, g)
	r := newTestRenderer(cfg)
	s := &recordSurface{w: 400, h: 200}

	e := g.Nodes[0].Edges[0]
	before := e.FlowPhase
	r.Draw(s, g, ps, 0, 100*time.Millisecond)
	assert.NotEqual(t, before, e.FlowPhase)
	assert.GreaterOrEqual(t, e.FlowPhase, 0.0)
	assert.Less(t, e.FlowPhase, 2*math.Pi)
}

func TestDrawDecaysPulse(t *testing.T) {
	cfg := testConfig()
	cfg.PulseInterval = time.Hour // keep ambient pulses out of the way
	g := pairGraph()
	ps := emptySystem(cfg, g)
	r := newTestRenderer(cfg)
	s := &recordSurface{w: 400, h: 200}

	g.Nodes[0].TriggerPulse()
	r.Draw(s, g, ps, 0, 16*time.Millisecond)

	assert.InDelta(t, cfg.PulseDecay, g.Nodes[0].Pulse, 1e-9)
	assert.Equal(t, 1, s.count("glow"), "only the pulsing node glows")

	// Run it down; the pulse must end at exactly zero, not a denormal tail.
	for i := 0; i < 400; i++ {
		r.Draw(s, g, ps, 0, 16*time.Millisecond)
	}
	assert.Equal(t, 0.0, g.Nodes[0].Pulse)
}

func TestDrawDecaysPulseUnderFrameSkipAndStagger(t *testing.T) {
	// The low-power profile combines a frame-skip divisor with node
	// staggering. Painted frames must still rotate through every stagger
	// slot, otherwise nodes in the unlucky slot never decay.
	cfg := config.ForTheme(config.ThemeDark, config.DeviceProfile{
		ViewportWidth: 480,
		LogicalCores:  2,
	})
	require.Equal(t, 2, cfg.FrameSkip)
	require.Equal(t, 2, cfg.NodeStagger)
	cfg.PulseInterval = time.Hour

	g := pairGraph()
	ps := emptySystem(cfg, g)
	r := newTestRenderer(cfg)
	s := &recordSurface{w: 400, h: 200}

	for _, n := range g.Nodes {
		n.TriggerPulse()
	}
	for i := 0; i < 2000; i++ {
		r.Draw(s, g, ps, 0, 16*time.Millisecond)
	}
	for _, n := range g.Nodes {
		assert.Equal(t, 0.0, n.Pulse, "node %d pulse must decay to exactly 0", n.ID)
	}
}

func TestDrawStrokesEveryNodesBranchesUnderFrameSkip(t *testing.T) {
	cfg := testConfig()
	cfg.FrameSkip = 2
	cfg.NodeStagger = 2
	g := pairGraph()
	g.Nodes[0].AttachBranch(models.Point{X: 80, Y: 60}, 0.5, nil)
	g.Nodes[1].AttachBranch(models.Point{X: 320, Y: 60}, 0.5, nil)
	ps := emptySystem(cfg, g)
	r := newTestRenderer(cfg)
	s := &recordSurface{w: 400, h: 200}

	// Four ticks paint two frames, one per stagger slot. Each frame strokes
	// one edge and one branch, so both nodes' branches are covered.
	for i := 0; i < 4; i++ {
		r.Draw(s, g, ps, 0, 16*time.Millisecond)
	}
	assert.Equal(t, 4, s.count("stroke"), "two frames, each with one edge and one branch")
	assert.NotZero(t, g.Nodes[0].Branches[0].FlowPhase)
	assert.NotZero(t, g.Nodes[1].Branches[0].FlowPhase)
}

func TestAmbientPulse(t *testing.T) {
	cfg := testConfig()
	g := pairGraph()
	ps := emptySystem(cfg, g)
	r := newTestRenderer(cfg)
	s := &recordSurface{w: 400, h: 200}

	r.Draw(s, g, ps, 2*time.Second, 16*time.Millisecond)

	pulsing := g.FindNodes(func(n *models.Node) bool { return n.Pulse == 1 })
	assert.Len(t, pulsing, 1, "one random visible node lights up past the interval")

	// Inside the interval nothing new fires.
	for _, n := range g.Nodes {
		n.Pulse = 0
	}
	r.Draw(s, g, ps, 2*time.Second+100*time.Millisecond, 16*time.Millisecond)
	pulsing = g.FindNodes(func(n *models.Node) bool { return n.Pulse == 1 })
	assert.Empty(t, pulsing)
}

func TestDrawActiveParticles(t *testing.T) {
	cfg := testConfig()
	cfg.ParticleCount = 1
	g := pairGraph()
	ps := particles.NewSystem(cfg, g, rand.New(rand.NewSource(1)))
	ps.Advance(0, 10*time.Second)
	require.Equal(t, 1, ps.ActiveCount())

	r := newTestRenderer(cfg)
	s := &recordSurface{w: 400, h: 200}
	r.Draw(s, g, ps, 0, 16*time.Millisecond)

	assert.GreaterOrEqual(t, s.count("glow"), 1, "particle halo")
	assert.Equal(t, 3, s.count("circle"), "two nodes plus the particle disc")
}

func TestRebuiltResetsClear(t *testing.T) {
	cfg := testConfig()
	g := pairGraph()
	ps := emptySystem(cfg, g)
	r := newTestRenderer(cfg)
	s := &recordSurface{w: 400, h: 200}

	r.Draw(s, g, ps, 0, 16*time.Millisecond)

	next := testConfig()
	next.Background = "#f5f6fa"
	r.Rebuilt(next)

	s.ops = nil
	r.Draw(s, g, ps, 0, 16*time.Millisecond)
	require.NotEmpty(t, s.ops)
	assert.Equal(t, "clear", s.ops[0].kind, "a rebuild forces the next frame to hard clear")
	assert.Equal(t, "#f5f6fa", s.ops[0].color)
}
