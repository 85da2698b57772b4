// Package topology synthesizes the node/edge/branch graph the engine
// animates. Every build is randomized; only statistical and structural
// properties are stable across invocations.
package topology

import (
	"math"
	"math/rand"
	"sort"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/neuroglow/neuroglow/config"
	"github.com/neuroglow/neuroglow/models"
)

// goldenAngle drives the Fibonacci low-discrepancy disc distribution.
const goldenAngle = math.Pi * (3 - 2.2360679774997896) // π(3−√5)

// sectors is the number of angular partitions used when assigning edges, so
// each node connects omnidirectionally instead of clumping toward its
// nearest neighbors.
const sectors = 6

// Builder produces graphs for a fixed configuration.
type Builder struct {
	cfg   config.Config
	rng   *rand.Rand
	noise opensimplex.Noise
}

// NewBuilder creates a builder seeded from the wall clock.
func NewBuilder(cfg config.Config) *Builder {
	return NewSeededBuilder(cfg, time.Now().UnixNano())
}

// NewSeededBuilder creates a builder with an explicit seed, used by tests
// that need reproducible structure.
func NewSeededBuilder(cfg config.Config, seed int64) *Builder {
	return &Builder{
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(seed)),
		noise: opensimplex.New(seed),
	}
}

// Build places cfg.NodeCount nodes on the given surface and connects them.
// A zero node count yields a valid empty graph.
func (b *Builder) Build(width, height float64) *models.Graph {
	g := models.NewGraph(width, height)
	if b.cfg.NodeCount == 0 {
		return g
	}

	b.placeNodes(g)
	b.connectNodes(g)
	b.growBranches(g)
	return g
}

// placeNodes distributes nodes on a Fibonacci disc slightly larger than the
// surface footprint, with simplex-noise jitter to break the lattice pattern.
func (b *Builder) placeNodes(g *models.Graph) {
	n := b.cfg.NodeCount
	cx := g.Width / 2
	cy := g.Height / 2

	// Expand beyond the half-diagonal so nodes reach past the surface edge
	// instead of clustering inside it.
	spread := math.Hypot(g.Width, g.Height) / 2 * 1.08

	// Keep jitter under half the expected ring spacing so the minimum
	// separation survives it.
	jitter := b.cfg.Jitter
	if n > 1 {
		ringGap := spread / math.Sqrt(float64(n))
		if jitter > ringGap/2 {
			jitter = ringGap / 2
		}
	}

	for i := 0; i < n; i++ {
		r := spread * math.Sqrt((float64(i)+0.5)/float64(n))
		theta := float64(i) * goldenAngle

		x := cx + r*math.Cos(theta)
		y := cy + r*math.Sin(theta)

		// Jitter from two decorrelated noise channels.
		x += b.noise.Eval2(float64(i)*0.73, 0.0) * jitter
		y += b.noise.Eval2(0.0, float64(i)*0.73) * jitter

		radius := b.cfg.NodeRadiusMin + b.rng.Float64()*(b.cfg.NodeRadiusMax-b.cfg.NodeRadiusMin)
		g.Nodes = append(g.Nodes, models.NewNode(i, x, y, radius))
	}

	b.separate(g.Nodes)
}

// separate pushes apart any residual coincident pairs. One pass is enough:
// the disc distribution already spaces nodes, this only catches jitter
// collisions.
func (b *Builder) separate(nodes []*models.Node) {
	const minGap = 4.0
	for i, a := range nodes {
		for _, c := range nodes[i+1:] {
			d := models.Distance(a, c)
			if d >= minGap {
				continue
			}
			if d == 0 {
				// Exactly coincident: nudge along a random direction.
				angle := b.rng.Float64() * 2 * math.Pi
				c.X += math.Cos(angle) * minGap
				c.Y += math.Sin(angle) * minGap
				continue
			}
			push := (minGap - d) / 2
			nx := (c.X - a.X) / d
			ny := (c.Y - a.Y) / d
			a.X -= nx * push
			a.Y -= ny * push
			c.X += nx * push
			c.Y += ny * push
		}
	}
}

type candidate struct {
	node   *models.Node
	dist   float64
	sector int
}

// connectNodes gives every node between MinConnections and MaxConnections
// owned edges. Candidates are sorted by distance and partitioned into angular
// sectors so coverage is omnidirectional; any shortfall against the minimum
// is filled from the globally nearest unused candidates regardless of sector.
func (b *Builder) connectNodes(g *models.Graph) {
	if len(g.Nodes) < 2 {
		return
	}

	for _, node := range g.Nodes {
		want := b.cfg.MinConnections
		if b.cfg.MaxConnections > b.cfg.MinConnections {
			want += b.rng.Intn(b.cfg.MaxConnections - b.cfg.MinConnections + 1)
		}
		if want > len(g.Nodes)-1 {
			want = len(g.Nodes) - 1
		}
		if want <= 0 {
			continue
		}

		candidates := make([]candidate, 0, len(g.Nodes)-1)
		for _, other := range g.Nodes {
			if other == node {
				continue
			}
			angle := math.Atan2(other.Y-node.Y, other.X-node.X) + math.Pi
			sector := int(angle / (2 * math.Pi / sectors))
			if sector >= sectors {
				sector = sectors - 1
			}
			candidates = append(candidates, candidate{
				node:   other,
				dist:   models.Distance(node, other),
				sector: sector,
			})
		}
		sort.Slice(candidates, func(i, j int) bool {
			return candidates[i].dist < candidates[j].dist
		})

		perSector := (want + sectors - 1) / sectors
		taken := make(map[*models.Node]bool)
		sectorCount := [sectors]int{}

		// First pass: nearest candidates, capped per sector.
		for _, c := range candidates {
			if len(taken) >= want {
				break
			}
			if sectorCount[c.sector] >= perSector {
				continue
			}
			sectorCount[c.sector]++
			taken[c.node] = true
			b.addEdge(node, c.node)
		}

		// Fill pass: nearest unused regardless of sector until the minimum
		// is met.
		for _, c := range candidates {
			if len(taken) >= b.cfg.MinConnections || len(taken) >= want {
				break
			}
			if taken[c.node] {
				continue
			}
			taken[c.node] = true
			b.addEdge(node, c.node)
		}
	}
}

// addEdge connects source to target with a randomized organic curve.
func (b *Builder) addEdge(source, target *models.Node) {
	width := b.cfg.EdgeWidthMin + b.rng.Float64()*(b.cfg.EdgeWidthMax-b.cfg.EdgeWidthMin)
	speed := b.cfg.FlowSpeedMin + b.rng.Float64()*(b.cfg.FlowSpeedMax-b.cfg.FlowSpeedMin)

	e := source.Connect(target, width, speed, b.controlPoints(
		models.Point{X: source.X, Y: source.Y},
		models.Point{X: target.X, Y: target.Y},
	))
	e.FlowPhase = b.rng.Float64() * 2 * math.Pi
}

// controlPoints offsets 2–3 points perpendicular to the straight chord, with
// magnitude proportional to its length.
func (b *Builder) controlPoints(src, dst models.Point) []models.Point {
	dx := dst.X - src.X
	dy := dst.Y - src.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return nil
	}

	// Perpendicular unit vector.
	px := -dy / length
	py := dx / length

	count := 2 + b.rng.Intn(2)
	controls := make([]models.Point, 0, count)
	for i := 0; i < count; i++ {
		t := (float64(i) + 1) / (float64(count) + 1)
		offset := (b.rng.Float64()*2 - 1) * length * 0.22
		controls = append(controls, models.Point{
			X: src.X + dx*t + px*offset,
			Y: src.Y + dy*t + py*offset,
		})
	}
	return controls
}

// growBranches attaches the configured number of decorative stubs to each
// node, each with an independently randomized direction, length and curve.
func (b *Builder) growBranches(g *models.Graph) {
	for _, node := range g.Nodes {
		want := b.cfg.MinBranches
		if b.cfg.MaxBranches > b.cfg.MinBranches {
			want += b.rng.Intn(b.cfg.MaxBranches - b.cfg.MinBranches + 1)
		}
		for i := 0; i < want; i++ {
			angle := b.rng.Float64() * 2 * math.Pi
			length := b.cfg.BranchLengthMin + b.rng.Float64()*(b.cfg.BranchLengthMax-b.cfg.BranchLengthMin)
			end := models.Point{
				X: node.X + math.Cos(angle)*length,
				Y: node.Y + math.Sin(angle)*length,
			}

			src := models.Point{X: node.X, Y: node.Y}
			controls := b.controlPoints(src, end)
			if len(controls) > 1 {
				controls = controls[:1] // stubs stay simple, one bend is enough
			}
			br := node.AttachBranch(end, b.cfg.EdgeWidthMin*0.8, controls)
			br.FlowPhase = b.rng.Float64() * 2 * math.Pi
		}
	}
}
