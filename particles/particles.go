// Package particles manages the fixed pool of traveling markers that flow
// along graph edges. The pool is owned exclusively by its System; elements
// are recycled in place, never shared.
package particles

import (
	"math/rand"
	"time"

	"github.com/neuroglow/neuroglow/config"
	"github.com/neuroglow/neuroglow/curve"
	"github.com/neuroglow/neuroglow/models"
)

// System advances and recycles a fixed-size particle pool against one graph.
type System struct {
	cfg   config.Config
	rng   *rand.Rand
	graph *models.Graph
	pool  []*models.Particle

	degraded bool
}

// NewSystem builds an all-inactive pool with staggered respawn deadlines so
// the first spawns don't land on the same tick.
func NewSystem(cfg config.Config, graph *models.Graph, rng *rand.Rand) *System {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	s := &System{
		cfg:   cfg,
		rng:   rng,
		graph: graph,
		pool:  make([]*models.Particle, cfg.ParticleCount),
	}
	for i := range s.pool {
		p := &models.Particle{}
		p.Deactivate(s.respawnDelay() * time.Duration(i+1) / time.Duration(len(s.pool)+1))
		s.pool[i] = p
	}
	return s
}

// Particles exposes the pool for the renderer. Callers must not retain the
// slice across a rebuild.
func (s *System) Particles() []*models.Particle {
	return s.pool
}

// ActiveCount returns the number of currently traveling particles.
func (s *System) ActiveCount() int {
	n := 0
	for _, p := range s.pool {
		if p.Active {
			n++
		}
	}
	return n
}

// SetDegraded switches the system between nominal and low-frame-rate
// behavior. Entering degraded mode thins the pool to roughly half the
// configured count and suppresses new spawns beyond that.
func (s *System) SetDegraded(degraded bool) {
	if degraded == s.degraded {
		return
	}
	s.degraded = degraded
	if !degraded {
		return
	}
	limit := len(s.pool) / 2
	active := s.ActiveCount()
	for _, p := range s.pool {
		if active <= limit {
			break
		}
		if p.Active {
			p.Deactivate(p.RespawnAt + s.respawnDelay())
			active--
		}
	}
}

// Degraded reports whether the system is in low-frame-rate mode.
func (s *System) Degraded() bool {
	return s.degraded
}

// Advance moves every active particle by dt and services due respawns.
// elapsed is animation time, which excludes paused spans.
func (s *System) Advance(dt, elapsed time.Duration) {
	for _, p := range s.pool {
		if !p.Active {
			if elapsed >= p.RespawnAt {
				s.spawn(p, elapsed)
			}
			continue
		}
		s.advanceParticle(p, dt, elapsed)
	}
}

func (s *System) advanceParticle(p *models.Particle, dt, elapsed time.Duration) {
	if p.PathLength <= 0 {
		// Degenerate path, treat as arrived.
		s.arrive(p, elapsed)
		return
	}

	p.Progress += s.cfg.ParticleSpeed * dt.Seconds() * (s.cfg.ReferenceLength / p.PathLength)
	if p.Progress >= 1 {
		p.Progress = 1
		pos := curve.At(p.Samples, 1)
		p.X, p.Y = pos.X, pos.Y
		s.arrive(p, elapsed)
		return
	}

	pos := curve.At(p.Samples, p.Progress)
	p.X, p.Y = pos.X, pos.Y
}

// arrive pulses the target node and schedules the replacement.
func (s *System) arrive(p *models.Particle, elapsed time.Duration) {
	if p.Edge != nil && p.Edge.Target != nil {
		p.Edge.Target.TriggerPulse()
	}
	p.Deactivate(elapsed + s.respawnDelay())
}

// spawn attempts to start the particle on a viable edge. A failed attempt is
// simply rescheduled, never retried synchronously.
func (s *System) spawn(p *models.Particle, elapsed time.Duration) {
	if s.degraded && s.ActiveCount() >= len(s.pool)/2 {
		p.RespawnAt = elapsed + s.respawnDelay()
		return
	}

	edge := s.pickEdge()
	if edge == nil {
		p.RespawnAt = elapsed + s.respawnDelay()
		return
	}

	src := models.Point{X: edge.Source.X, Y: edge.Source.Y}
	dst := models.Point{X: edge.Target.X, Y: edge.Target.Y}
	p.Samples = curve.Sample(src, dst, edge.Controls, s.cfg.ParticleSamples)
	p.PathLength = curve.Length(p.Samples)
	p.Edge = edge
	p.Progress = 0
	p.X, p.Y = src.X, src.Y
	p.Active = true
}

// pickEdge selects a random node owning edges, filters its edges to those
// whose endpoints lie inside the extended viewport and within the maximum
// travel distance, and picks one at random. Returns nil when nothing viable
// exists.
func (s *System) pickEdge() *models.Edge {
	sources := s.graph.ConnectedNodes()
	if len(sources) == 0 {
		return nil
	}
	node := sources[s.rng.Intn(len(sources))]

	viable := make([]*models.Edge, 0, len(node.Edges))
	for _, e := range node.Edges {
		if !e.Source.InViewport(s.graph.Width, s.graph.Height, s.cfg.ViewportMargin) {
			continue
		}
		if !e.Target.InViewport(s.graph.Width, s.graph.Height, s.cfg.ViewportMargin) {
			continue
		}
		if models.Distance(e.Source, e.Target) > s.cfg.MaxTravelDistance {
			continue
		}
		viable = append(viable, e)
	}
	if len(viable) == 0 {
		return nil
	}
	return viable[s.rng.Intn(len(viable))]
}

// respawnDelay randomizes replacement scheduling so arrivals don't trigger
// synchronized bursts of spawns. Degraded mode stretches the upper bound.
func (s *System) respawnDelay() time.Duration {
	max := s.cfg.RespawnDelayMax
	if s.degraded {
		max = s.cfg.DegradedRespawnMax
	}
	span := max - s.cfg.RespawnDelayMin
	if span <= 0 {
		return s.cfg.RespawnDelayMin
	}
	return s.cfg.RespawnDelayMin + time.Duration(s.rng.Int63n(int64(span)))
}
