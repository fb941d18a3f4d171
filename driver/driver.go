// Package driver runs a twig Manager from an Ebitengine game loop.
//
// Wrap your game and run the wrapper instead:
//
//	m := twig.NewManager(twig.DefaultConfig())
//	ebiten.RunGame(driver.New(game, m))
//
// Every tick the wrapper advances the manager's fixed and normal channels
// before the game's own Update and the late channel after it. Pausing the
// wrapper stops the scaled clock while time-scale independent tweens (menus,
// pause screens) keep running.
package driver

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/twig"
)

// Game wraps an ebiten.Game and ticks a twig.Manager around its Update.
// Draw and Layout are forwarded unchanged.
type Game struct {
	ebiten.Game
	Manager *twig.Manager

	paused bool
	ticks  int64
}

// New returns a Game driving m around game.
func New(game ebiten.Game, m *twig.Manager) *Game {
	return &Game{Game: game, Manager: m}
}

// SetPaused stops or resumes the scaled clock. Tweens created with
// SetUpdate(..., true) keep advancing while paused.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
}

// Paused reports whether the scaled clock is stopped.
func (g *Game) Paused() bool {
	return g.paused
}

// Ticks returns the number of ticks driven so far.
func (g *Game) Ticks() int64 {
	return g.ticks
}

// Update advances the manager by one tick and runs the wrapped game's
// Update.
func (g *Game) Update() error {
	dt := TickSeconds()
	scaled := dt
	if g.paused {
		scaled = 0
	}
	g.ticks++
	g.Manager.FixedUpdate(scaled, dt)
	g.Manager.Update(scaled, dt)
	if err := g.Game.Update(); err != nil {
		return err
	}
	g.Manager.LateUpdate(scaled, dt)
	return nil
}

// TickSeconds returns the duration of one Ebitengine tick. When ticks are
// synced with the frame rate it falls back to the measured FPS, then to the
// default TPS.
func TickSeconds() float64 {
	tps := ebiten.TPS()
	if tps > 0 {
		return 1 / float64(tps)
	}
	if fps := ebiten.ActualFPS(); fps > 0 {
		return 1 / fps
	}
	return 1 / float64(ebiten.DefaultTPS)
}
