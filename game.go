package main

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// gameShell adapts the benchmark session to Ebiten's frame scheduler: Update
// runs exactly one session step per tick and Draw uploads the software
// framebuffer. Escape cancels a run, Space starts a fresh one after a result.
type gameShell struct {
	session  *benchmarkSession
	soft     *softRenderer
	tierName string

	started  bool
	reported bool
}

// Update advances the session by one frame and handles the control surface.
func (g *gameShell) Update() error {
	if !g.started {
		g.started = true
		if err := g.session.start(g.tierName); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.session.cancel()
	}
	if g.session.state == stateFinished && inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.reported = false
		if err := g.session.start(g.tierName); err != nil {
			log.Printf("Restart failed: %v", err)
		}
	}
	if err := g.session.step(); err != nil {
		// The session has already transitioned to Finished with a failure
		// report; keep the shell alive so the result stays visible.
		log.Printf("Run aborted: %v", err)
	}
	if g.session.state == stateFinished && !g.reported {
		g.reported = true
		printReport(g.session.result)
	}
	return nil
}

// Draw uploads the rendered frame and the optional overlays.
func (g *gameShell) Draw(screen *ebiten.Image) {
	screen.WritePixels(g.soft.pix)
	if *debugFlag && g.session.state == stateRunning {
		msg := fmt.Sprintf("FPS: %.1f (display %.1f)\nFrames: %d\nEffects: %d\nElapsed: %.1fs",
			g.session.fpsNow, ebiten.ActualFPS(), g.session.frames, g.session.liveEffects(), g.session.elapsedSec)
		ebitenutil.DebugPrint(screen, msg)
	}
	if g.session.state == stateFinished && g.session.haveResult {
		r := g.session.result
		msg := fmt.Sprintf("Result: %s (%.1f FPS avg over %d frames)\nSpace restarts, close the window to quit",
			r.Label, r.AvgFPS, r.Frames)
		ebitenutil.DebugPrint(screen, msg)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *gameShell) Layout(_, _ int) (int, int) { return screenW, screenH }
