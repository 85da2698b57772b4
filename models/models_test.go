package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGraph(t *testing.T) {
	g := NewGraph(800, 600)
	require.NotNil(t, g)
	assert.NotEmpty(t, g.ID)
	assert.Empty(t, g.Nodes)
	assert.Equal(t, 800.0, g.Width)
	assert.Equal(t, 600.0, g.Height)

	other := NewGraph(800, 600)
	assert.NotEqual(t, g.ID, other.ID)
}

func TestConnectOwnership(t *testing.T) {
	a := NewNode(0, 0, 0, 3)
	b := NewNode(1, 100, 0, 3)

	e := a.Connect(b, 1.2, 0.8, []Point{{X: 50, Y: 20}})

	require.Len(t, a.Edges, 1)
	assert.Empty(t, b.Edges, "target does not own the edge")
	assert.Same(t, a, e.Source)
	assert.Same(t, b, e.Target)
	assert.Equal(t, 1.2, e.Width)
}

func TestAttachBranch(t *testing.T) {
	n := NewNode(0, 10, 10, 3)
	br := n.AttachBranch(Point{X: 40, Y: 10}, 0.5, nil)

	require.Len(t, n.Branches, 1)
	assert.Same(t, n, br.Owner)
}

func TestPulseDecay(t *testing.T) {
	t.Run("decays strictly monotonically and snaps to exact zero", func(t *testing.T) {
		n := NewNode(0, 0, 0, 3)
		n.TriggerPulse()
		require.Equal(t, 1.0, n.Pulse)

		prev := n.Pulse
		for i := 0; i < 200 && n.Pulse > 0; i++ {
			n.DecayPulse(0.95, 0.01)
			assert.Less(t, n.Pulse, prev)
			prev = n.Pulse
		}
		assert.Equal(t, 0.0, n.Pulse, "pulse must reach exactly 0, not asymptotically nonzero")
	})

	t.Run("zero pulse stays zero", func(t *testing.T) {
		n := NewNode(0, 0, 0, 3)
		n.DecayPulse(0.95, 0.01)
		assert.Equal(t, 0.0, n.Pulse)
	})
}

func TestAdvanceFlowWraps(t *testing.T) {
	e := &Edge{}
	e.AdvanceFlow(3 * math.Pi)
	assert.GreaterOrEqual(t, e.FlowPhase, 0.0)
	assert.Less(t, e.FlowPhase, 2*math.Pi)
	assert.InDelta(t, math.Pi, e.FlowPhase, 1e-9)

	b := &Branch{FlowPhase: 6.0}
	b.AdvanceFlow(1.0)
	assert.GreaterOrEqual(t, b.FlowPhase, 0.0)
	assert.Less(t, b.FlowPhase, 2*math.Pi)
}

func TestParticleDeactivate(t *testing.T) {
	p := &Particle{
		Active:     true,
		Edge:       &Edge{},
		Samples:    []Point{{X: 1, Y: 1}},
		Progress:   1,
		PathLength: 42,
	}
	p.Deactivate(3 * time.Second)

	assert.False(t, p.Active)
	assert.Nil(t, p.Edge)
	assert.Nil(t, p.Samples)
	assert.Zero(t, p.Progress)
	assert.Equal(t, 3*time.Second, p.RespawnAt)
}

func TestQueries(t *testing.T) {
	g := NewGraph(100, 100)
	a := NewNode(0, 10, 10, 3)
	b := NewNode(1, 50, 50, 3)
	c := NewNode(2, 90, 90, 3)
	g.Nodes = append(g.Nodes, a, b, c)

	a.Connect(b, 1, 1, nil)
	a.Connect(c, 1, 1, nil)
	b.Connect(c, 1, 1, nil)
	a.AttachBranch(Point{X: 0, Y: 0}, 0.5, nil)

	assert.Equal(t, 3, g.EdgeCount())
	assert.Equal(t, 1, g.BranchCount())
	assert.Len(t, g.ConnectedNodes(), 2)

	found, err := g.FindNodeByID(1)
	require.NoError(t, err)
	assert.Same(t, b, found)

	_, err = g.FindNodeByID(99)
	assert.Error(t, err)
}

func TestInViewport(t *testing.T) {
	n := NewNode(0, -30, 50, 3)
	assert.True(t, n.InViewport(100, 100, 40))
	assert.False(t, n.InViewport(100, 100, 10))
}

func TestDistance(t *testing.T) {
	a := NewNode(0, 0, 0, 1)
	b := NewNode(1, 3, 4, 1)
	assert.Equal(t, 5.0, Distance(a, b))
}
