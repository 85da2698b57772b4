package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// NewGraph creates an empty graph with a unique ID, sized to the given
// surface dimensions.
func NewGraph(width, height float64) *Graph {
	return &Graph{
		ID:        uuid.New().String(),
		Nodes:     make([]*Node, 0),
		Width:     width,
		Height:    height,
		CreatedAt: time.Now(),
	}
}

// NewNode creates a node at the given position. Edges and branches are
// attached by the topology builder afterwards.
func NewNode(id int, x, y, radius float64) *Node {
	return &Node{
		ID:     id,
		X:      x,
		Y:      y,
		Radius: radius,
	}
}

// Connect attaches a new edge from n to target and returns it.
func (n *Node) Connect(target *Node, width, flowSpeed float64, controls []Point) *Edge {
	e := &Edge{
		Source:    n,
		Target:    target,
		Width:     width,
		Controls:  controls,
		FlowSpeed: flowSpeed,
	}
	n.Edges = append(n.Edges, e)
	return e
}

// AttachBranch adds a decorative stub ending at end.
func (n *Node) AttachBranch(end Point, width float64, controls []Point) *Branch {
	b := &Branch{
		Owner:    n,
		End:      end,
		Width:    width,
		Controls: controls,
	}
	n.Branches = append(n.Branches, b)
	return b
}

// TriggerPulse sets the node's glow intensity to full strength.
func (n *Node) TriggerPulse() {
	n.Pulse = 1
}

// DecayPulse applies one geometric decay step. Once the pulse falls below
// snap it is set to exactly 0 rather than decaying asymptotically.
func (n *Node) DecayPulse(factor, snap float64) {
	if n.Pulse == 0 {
		return
	}
	n.Pulse *= factor
	if n.Pulse < snap {
		n.Pulse = 0
	}
}

// AdvanceFlow advances the edge's flow phase by delta, wrapping modulo 2π.
func (e *Edge) AdvanceFlow(delta float64) {
	e.FlowPhase = math.Mod(e.FlowPhase+delta, 2*math.Pi)
	if e.FlowPhase < 0 {
		e.FlowPhase += 2 * math.Pi
	}
}

// AdvanceFlow advances the branch's flow phase by delta, wrapping modulo 2π.
func (b *Branch) AdvanceFlow(delta float64) {
	b.FlowPhase = math.Mod(b.FlowPhase+delta, 2*math.Pi)
	if b.FlowPhase < 0 {
		b.FlowPhase += 2 * math.Pi
	}
}

// Deactivate marks the particle dead and records the animation-time deadline
// at which it may be respawned.
func (p *Particle) Deactivate(respawnAt time.Duration) {
	p.Active = false
	p.Edge = nil
	p.Samples = nil
	p.Progress = 0
	p.RespawnAt = respawnAt
}

// Distance returns the Euclidean distance between two nodes.
func Distance(a, b *Node) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
