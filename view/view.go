// Package view runs the animation in a desktop window. It implements the
// render.Surface contract on top of an ebiten offscreen image so the
// motion-trail accumulation survives ebiten's per-frame screen clear.
package view

import (
	"errors"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/neuroglow/neuroglow/config"
	"github.com/neuroglow/neuroglow/engine"
	"github.com/neuroglow/neuroglow/render"
)

// Run opens a window and drives the engine until it is closed. Controls:
// T toggles theme, H toggles visibility, Q quits.
func Run(theme config.Theme, width, height int, overrides *config.Overrides, log *slog.Logger) error {
	surface := newSurface(width, height)
	eng, err := engine.New(engine.Options{
		Theme:     theme,
		Surface:   surface,
		Overrides: overrides,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	defer eng.Stop()

	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle("neuroglow")

	g := &game{
		eng:     eng,
		surface: surface,
		theme:   theme,
		width:   width,
		height:  height,
	}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

type game struct {
	eng     *engine.Engine
	surface *ebitenSurface
	theme   config.Theme
	width   int
	height  int
	last    time.Time
	started bool
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		if g.theme == config.ThemeDark {
			g.theme = config.ThemeLight
		} else {
			g.theme = config.ThemeDark
		}
		if err := g.eng.SetTheme(g.theme); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.eng.SetVisible(!g.eng.Visible())
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	now := time.Now()
	var dt time.Duration
	if g.started {
		dt = now.Sub(g.last)
	}
	g.started = true
	g.last = now

	if err := g.eng.Step(dt); err == nil {
		screen.DrawImage(g.surface.buffer, nil)
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

var _ render.Surface = (*ebitenSurface)(nil)
