// Package models provides the data structures shared by the neuroglow engine.
// It defines the node/edge/branch graph built once by the topology package and
// the transient particles that travel along it.
package models

import (
	"time"
)

// Point is a position in device pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a visual anchor point in the animated graph. It owns its outgoing
// edges and decorative branches. Pulse is the only field mutated after the
// topology build.
type Node struct {
	ID       int       `json:"id"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Radius   float64   `json:"radius"`
	Edges    []*Edge   `json:"-"`
	Branches []*Branch `json:"-"`

	// Pulse is the current glow intensity in [0,1]. It decays geometrically
	// each drawn frame and snaps to exactly 0 below the configured threshold.
	Pulse float64 `json:"pulse"`
}

// Edge is a curved connector between two nodes. The source node owns the
// edge; Target is a non-owning reference.
type Edge struct {
	Source *Node `json:"-"`
	Target *Node `json:"-"`

	Width    float64 `json:"width"`
	Controls []Point `json:"controls"` // control points shaping the curve

	FlowSpeed float64 `json:"flow_speed"`
	FlowPhase float64 `json:"flow_phase"` // advances each drawn frame, wraps mod 2π
}

// Branch is a decorative non-connecting curved stub attached to exactly one
// node. It has no target and no invariants beyond its attachment.
type Branch struct {
	Owner *Node `json:"-"`

	End       Point   `json:"end"`
	Controls  []Point `json:"controls"`
	Width     float64 `json:"width"`
	FlowPhase float64 `json:"flow_phase"`
}

// Particle is a transient marker animated along an edge's curve. When
// inactive its position is meaningless and RespawnAt holds the animation-time
// deadline at which the pool may reactivate it.
type Particle struct {
	X, Y float64

	Edge     *Edge
	Progress float64 // 0 = source, 1 = target

	// Samples approximate the edge curve for O(1) position lookup, and
	// PathLength normalizes visual speed across edges of different lengths.
	Samples    []Point
	PathLength float64

	Active    bool
	RespawnAt time.Duration
}

// Graph is the node set produced by a single topology build, sized to the
// surface it was built for. The topology builder owns it exclusively once
// built; the renderer mutates only phase and pulse fields in place.
type Graph struct {
	ID        string    `json:"id"`
	Nodes     []*Node   `json:"nodes"`
	Width     float64   `json:"width"`
	Height    float64   `json:"height"`
	CreatedAt time.Time `json:"created_at"`
}
