// Package engine owns the animation lifecycle: one Engine instance holds all
// mutable state, is constructed once and torn down once, and exposes no
// ambient globals, so multiple independent instances can coexist.
package engine

import (
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/neuroglow/neuroglow/config"
	"github.com/neuroglow/neuroglow/models"
	"github.com/neuroglow/neuroglow/particles"
	"github.com/neuroglow/neuroglow/render"
	"github.com/neuroglow/neuroglow/topology"
)

// ErrTornDown is returned by operations on an engine that has been stopped.
// Teardown is terminal; a stopped engine cannot be resumed.
var ErrTornDown = errors.New("engine is torn down")

// ErrNoSurface aborts construction when no usable drawing surface was given.
var ErrNoSurface = errors.New("no usable drawing surface")

// resizeDebounce is how long after the last Resize call the backing
// dimensions are actually applied.
const resizeDebounce = 250 * time.Millisecond

// maxTickDelta caps the per-tick time advance so a stalled scheduler doesn't
// teleport every particle on the next frame.
const maxTickDelta = 250 * time.Millisecond

type state int

const (
	stateIdle state = iota
	stateRunning
	stateTornDown
)

// Options configures a new Engine.
type Options struct {
	Theme     config.Theme
	Profile   config.DeviceProfile // zero value: detected from the surface width
	Overrides *config.Overrides
	Surface   render.Surface
	Logger    *slog.Logger
	Seed      int64                // 0: seeded from the wall clock
}

// Engine drives the animation. All graph, pool and phase state is accessed
// only while holding mu; the tick is the sole writer during normal operation.
type Engine struct {
	mu  sync.Mutex
	log *slog.Logger

	cfg       config.Config
	profile   config.DeviceProfile
	overrides *config.Overrides
	surface   render.Surface
	seed      int64
	rng       *rand.Rand

	graph    *models.Graph
	system   *particles.System
	renderer *render.FrameRenderer

	state   state
	visible bool
	elapsed time.Duration // animation time, excludes paused spans
	last    time.Time     // zero value means delta tracking is reset

	// generation guards deferred work (debounced resize) so anything firing
	// after a rebuild or teardown is a guaranteed no-op.
	generation uint64

	// frame-rate tracking
	fpsEMA   float64
	lowTicks int

	pendingW, pendingH float64

	stopLoop chan struct{}
	loopDone chan struct{}
}

// New constructs an engine and builds its first graph. It does not start
// ticking; call Run for a self-driven loop or Step to drive it externally.
func New(opts Options) (*Engine, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	w, _ := opts.Surface.Size()
	profile := opts.Profile
	if profile == (config.DeviceProfile{}) {
		profile = config.DetectProfile(int(w))
	}

	cfg := config.ForTheme(opts.Theme, profile).Apply(opts.Overrides)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	e := &Engine{
		log:       log,
		cfg:       cfg,
		profile:   profile,
		overrides: opts.Overrides,
		surface:   opts.Surface,
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
		visible:   true,
	}
	e.rebuildLocked()

	log.Info("engine initialized",
		"theme", string(cfg.Theme),
		"nodes", len(e.graph.Nodes),
		"edges", e.graph.EdgeCount(),
		"particles", cfg.ParticleCount)
	return e, nil
}

// rebuildLocked constructs a fresh graph, pool and renderer for the current
// config and surface size. Callers hold mu (or have exclusive access during
// construction).
func (e *Engine) rebuildLocked() {
	e.generation++
	w, h := e.surface.Size()
	e.graph = topology.NewSeededBuilder(e.cfg, e.rng.Int63()).Build(w, h)
	e.system = particles.NewSystem(e.cfg, e.graph, e.rng)
	if e.renderer == nil {
		e.renderer = render.NewFrameRenderer(e.cfg, e.rng)
	}
	e.renderer.Rebuilt(e.cfg)
}

// Run starts the self-driven tick loop and returns the teardown function the
// embedder must call. Calling it more than once beyond the first is a no-op.
func (e *Engine) Run() (stop func(), err error) {
	e.mu.Lock()
	switch e.state {
	case stateTornDown:
		e.mu.Unlock()
		return nil, ErrTornDown
	case stateRunning:
		e.mu.Unlock()
		return e.Stop, nil
	}
	e.state = stateRunning
	e.stopLoop = make(chan struct{})
	e.loopDone = make(chan struct{})
	interval := time.Second / time.Duration(e.cfg.TargetFPS)
	e.mu.Unlock()

	go e.loop(interval)
	return e.Stop, nil
}

func (e *Engine) loop(interval time.Duration) {
	defer close(e.loopDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-e.stopLoop:
			return
		case t := <-ticker.C:
			e.tick(t)
		}
	}
}

// tick is one pass of the self-driven loop: compute the wall-clock delta and
// advance. Hidden ticks only reset delta tracking.
func (e *Engine) tick(t time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateTornDown {
		return
	}
	if !e.visible {
		e.last = time.Time{}
		return
	}

	var dt time.Duration
	if e.last.IsZero() {
		dt = 0 // first frame after start or resume: no backlog compensation
	} else {
		dt = t.Sub(e.last)
		if dt > maxTickDelta {
			dt = maxTickDelta
		}
	}
	e.last = t
	e.stepLocked(dt)
}

// Step advances the animation by dt and draws. It is the external-drive
// entry point, used by the ebiten view and by tests; it must not be mixed
// with a running loop.
func (e *Engine) Step(dt time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateTornDown {
		return ErrTornDown
	}
	if !e.visible {
		return nil
	}
	e.stepLocked(dt)
	return nil
}

// stepLocked advances simulation time and paints. Callers hold mu.
func (e *Engine) stepLocked(dt time.Duration) {
	e.elapsed += dt
	e.trackFrameRate(dt)
	e.system.Advance(dt, e.elapsed)
	e.renderer.Draw(e.surface, e.graph, e.system, e.elapsed, dt)
}

// trackFrameRate maintains a smoothed FPS estimate and toggles particle
// degradation when the measured rate stays below the configured floor.
func (e *Engine) trackFrameRate(dt time.Duration) {
	sec := dt.Seconds()
	if sec <= 0 {
		return
	}
	sample := 1 / sec
	if e.fpsEMA == 0 {
		e.fpsEMA = sample
	} else {
		e.fpsEMA = e.fpsEMA*0.9 + sample*0.1
	}

	if e.fpsEMA < e.cfg.LowFPS {
		e.lowTicks++
	} else if e.lowTicks > 0 {
		e.lowTicks--
	}

	const sustain = 30
	if e.lowTicks >= sustain && !e.system.Degraded() {
		e.log.Warn("sustained low frame rate, thinning particles", "fps", e.fpsEMA)
		e.system.SetDegraded(true)
	} else if e.lowTicks == 0 && e.system.Degraded() {
		e.log.Info("frame rate recovered", "fps", e.fpsEMA)
		e.system.SetDegraded(false)
	}
}

// SetVisible pauses rendering while hidden and resumes it, with delta-time
// tracking reset, when shown again. No backlog of skipped frames accumulates.
func (e *Engine) SetVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateTornDown || e.visible == visible {
		return
	}
	e.visible = visible
	e.last = time.Time{}
	if visible {
		e.log.Debug("resumed")
	} else {
		e.log.Debug("paused")
	}
}

// Visible reports whether the engine is currently rendering.
func (e *Engine) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

// SetTheme switches themes, which requires a full graph rebuild. The new
// background is visible on the very next frame.
func (e *Engine) SetTheme(theme config.Theme) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateTornDown {
		return ErrTornDown
	}
	if theme == e.cfg.Theme {
		return nil
	}
	e.cfg = config.ForTheme(theme, e.profile).Apply(e.overrides)
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	e.rebuildLocked()
	e.log.Info("theme changed, graph rebuilt", "theme", string(theme))
	return nil
}

// Resize records new backing-store dimensions and rebuilds after a debounce
// window, so a stream of resize events costs one rebuild. The deferred apply
// is guarded by the generation counter: if the engine was rebuilt or torn
// down in the meantime it is a no-op.
func (e *Engine) Resize(width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateTornDown {
		return
	}
	e.pendingW, e.pendingH = width, height
	gen := e.generation
	time.AfterFunc(resizeDebounce, func() {
		e.applyResize(gen, width, height)
	})
}

func (e *Engine) applyResize(gen uint64, width, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateTornDown || gen != e.generation {
		return
	}
	// A newer Resize superseded this one; let its timer do the work.
	if width != e.pendingW || height != e.pendingH {
		return
	}
	if resizer, ok := e.surface.(interface{ Resize(w, h float64) }); ok {
		resizer.Resize(width, height)
	} else {
		e.log.Warn("surface does not support resizing, rebuilding at the old size")
	}
	e.rebuildLocked()
	e.log.Debug("resized", "width", width, "height", height)
}

// Stop tears the engine down. It is idempotent, synchronous with respect to
// the tick loop, and terminal: no listener, timer, or loop callback touches
// engine state afterwards.
func (e *Engine) Stop() {
	e.mu.Lock()
	if e.state == stateTornDown {
		e.mu.Unlock()
		return
	}
	wasRunning := e.state == stateRunning
	e.state = stateTornDown
	e.generation++
	if wasRunning {
		close(e.stopLoop)
	}
	e.mu.Unlock()

	if wasRunning {
		<-e.loopDone
	}
	e.log.Info("engine torn down")
}

// Export paints the current simulation state as a single hard-cleared frame
// onto an arbitrary surface, independent of the engine's own backend. Used
// for still-frame export.
func (e *Engine) Export(s render.Surface) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == stateTornDown {
		return ErrTornDown
	}
	cfg := e.cfg
	cfg.FrameSkip = 1 // a single exported frame is never skipped
	r := render.NewFrameRenderer(cfg, e.rng)
	r.Draw(s, e.graph, e.system, e.elapsed, 0)
	return nil
}

// State describes the lifecycle phase, for diagnostics and tests.
func (e *Engine) State() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.state == stateTornDown:
		return "torn down"
	case !e.visible:
		return "paused"
	case e.state == stateRunning:
		return "running"
	default:
		return "idle"
	}
}

// Config returns the active parameter snapshot.
func (e *Engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Elapsed returns accumulated animation time.
func (e *Engine) Elapsed() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.elapsed
}
