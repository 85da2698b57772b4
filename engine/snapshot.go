package engine

import (
	"github.com/neuroglow/neuroglow/curve"
	"github.com/neuroglow/neuroglow/models"
)

// Topology is the static frame of reference a preview client needs once per
// graph generation: geometry, curves, and colors.
type Topology struct {
	Generation uint64          `json:"generation"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Background string          `json:"background"`
	NodeColor  string          `json:"node_color"`
	EdgeColor  string          `json:"edge_color"`
	Glow       string          `json:"glow_color"`
	Particle   string          `json:"particle_color"`
	Nodes      []TopologyNode  `json:"nodes"`
	Edges      []TopologyCurve `json:"edges"`
	Branches   []TopologyCurve `json:"branches"`
}

// TopologyNode is a node's static geometry.
type TopologyNode struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// TopologyCurve is a curve pre-sampled into a polyline the client can stroke
// directly.
type TopologyCurve struct {
	Points []models.Point `json:"points"`
	Width  float64        `json:"width"`
}

// FrameState is the per-frame dynamic payload: pulse intensities and active
// particle positions.
type FrameState struct {
	Generation uint64          `json:"generation"`
	Pulses     []NodePulse     `json:"pulses"`
	Particles  []ParticlePoint `json:"particles"`
}

// NodePulse carries one node's nonzero pulse intensity.
type NodePulse struct {
	ID    int     `json:"id"`
	Pulse float64 `json:"pulse"`
}

// ParticlePoint is an active particle's position.
type ParticlePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// snapshotSamples is the polyline resolution sent to preview clients.
const snapshotSamples = 16

// Snapshot returns the static topology of the current graph generation.
func (e *Engine) Snapshot() Topology {
	e.mu.Lock()
	defer e.mu.Unlock()

	t := Topology{
		Generation: e.generation,
		Width:      e.graph.Width,
		Height:     e.graph.Height,
		Background: e.cfg.Background,
		NodeColor:  e.cfg.NodeColor,
		EdgeColor:  e.cfg.EdgeColor,
		Glow:       e.cfg.GlowColor,
		Particle:   e.cfg.ParticleColor,
		Nodes:      make([]TopologyNode, 0, len(e.graph.Nodes)),
	}
	for _, n := range e.graph.Nodes {
		t.Nodes = append(t.Nodes, TopologyNode{ID: n.ID, X: n.X, Y: n.Y, Radius: n.Radius})
		src := models.Point{X: n.X, Y: n.Y}
		for _, edge := range n.Edges {
			dst := models.Point{X: edge.Target.X, Y: edge.Target.Y}
			t.Edges = append(t.Edges, TopologyCurve{
				Points: curve.Sample(src, dst, edge.Controls, snapshotSamples),
				Width:  edge.Width,
			})
		}
		for _, br := range n.Branches {
			t.Branches = append(t.Branches, TopologyCurve{
				Points: curve.Sample(src, br.End, br.Controls, snapshotSamples/2),
				Width:  br.Width,
			})
		}
	}
	return t
}

// Frame returns the dynamic state of the current frame. Clients correlate it
// with a Snapshot via the generation number and refetch topology on mismatch.
func (e *Engine) Frame() FrameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	f := FrameState{Generation: e.generation}
	for _, n := range e.graph.Nodes {
		if n.Pulse > 0 {
			f.Pulses = append(f.Pulses, NodePulse{ID: n.ID, Pulse: n.Pulse})
		}
	}
	for _, p := range e.system.Particles() {
		if p.Active {
			f.Particles = append(f.Particles, ParticlePoint{X: p.X, Y: p.Y})
		}
	}
	return f
}
