package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
)

// densityRunes shades terminal cells from empty to solid.
var densityRunes = []rune{' ', '░', '▒', '▓', '█'}

// termRenderer draws the benchmark into the terminal with tcell. Each cell
// accumulates the projected particles and objects that land on it; the cell's
// rune tracks density and its color the brightest contributor. It implements
// the same renderer surface as the windowed backend.
type termRenderer struct {
	screen tcell.Screen
	width  int
	height int

	hits []int
	colR []float64
	colG []float64
	colB []float64

	nextHandle handle
	liveCount  int
}

func newTermRenderer() (*termRenderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	t := &termRenderer{screen: screen}
	t.resize()
	return t, nil
}

func (t *termRenderer) resize() {
	t.width, t.height = t.screen.Size()
	cells := t.width * t.height
	t.hits = make([]int, cells)
	t.colR = make([]float64, cells)
	t.colG = make([]float64, cells)
	t.colB = make([]float64, cells)
}

func (t *termRenderer) acquire(resourceKind) (handle, error) {
	t.nextHandle++
	t.liveCount++
	return t.nextHandle, nil
}

func (t *termRenderer) release(h handle) {
	if h == invalidHandle {
		return
	}
	t.liveCount--
}

func (t *termRenderer) render(sc *sceneState, cam *cameraRig) error {
	for i := range t.hits {
		t.hits[i] = 0
		t.colR[i] = 0
		t.colG[i] = 0
		t.colB[i] = 0
	}
	// Terminal cells are roughly twice as tall as wide; squash vertically so
	// the orbit still looks circular.
	basis := makeCameraBasis(cam, t.width, t.height*2, float64(t.height))

	for i := range sc.objects {
		o := &sc.objects[i]
		t.accumulate(basis, rotY(o.pos, sc.yaw), 0.9, 0.9, 1.0, 2)
	}
	if f := sc.field; f != nil {
		for i := 0; i < f.count; i++ {
			b := i * 3
			p := vec3{x: float64(f.pos[b]), y: float64(f.pos[b+1]), z: float64(f.pos[b+2])}
			t.accumulate(basis, rotY(p, sc.yaw), float64(f.col[b]), float64(f.col[b+1]), float64(f.col[b+2]), 1)
		}
	}
	if sc.bursts != nil {
		for _, e := range sc.bursts.effects {
			alpha := e.opacity()
			for i := 0; i < explosionParticleCount; i++ {
				b := i * 3
				p := vec3{x: float64(e.pos[b]), y: float64(e.pos[b+1]), z: float64(e.pos[b+2])}
				t.accumulate(basis, rotY(p, sc.yaw), alpha, alpha*0.7, alpha*0.3, 2)
			}
		}
	}

	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			idx := y*t.width + x
			hits := t.hits[idx]
			level := hits
			if level >= len(densityRunes) {
				level = len(densityRunes) - 1
			}
			style := tcell.StyleDefault
			if hits > 0 {
				n := float64(hits)
				style = style.Foreground(tcell.NewRGBColor(
					clampColor(t.colR[idx]/n*255),
					clampColor(t.colG[idx]/n*255),
					clampColor(t.colB[idx]/n*255)))
			}
			t.screen.SetContent(x, y, densityRunes[level], nil, style)
		}
	}
	t.screen.Show()
	return nil
}

func (t *termRenderer) accumulate(basis cameraBasis, p vec3, cr, cg, cb float64, weight int) {
	sx, sy, _, ok := basis.project(p)
	if !ok {
		return
	}
	x := int(sx)
	y := int(sy / 2)
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	idx := y*t.width + x
	t.hits[idx] += weight
	t.colR[idx] += cr * float64(weight)
	t.colG[idx] += cg * float64(weight)
	t.colB[idx] += cb * float64(weight)
}

func clampColor(v float64) int32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return int32(v)
}

// runTerminal drives the session from a ticker at the nominal refresh rate
// until the run finishes. Escape, q, or Ctrl-C cancels; the accumulated
// frames still produce a report.
func runTerminal(session *benchmarkSession, t *termRenderer, tierName string) error {
	defer t.screen.Fini()

	events := make(chan tcell.Event, 8)
	go func() {
		for {
			events <- t.screen.PollEvent()
		}
	}()

	if err := session.start(tierName); err != nil {
		return err
	}

	frameDur := float64(time.Second) * nominalFrameSec
	ticker := time.NewTicker(time.Duration(frameDur))
	defer ticker.Stop()

	for session.state == stateRunning {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					session.cancel()
				}
			case *tcell.EventResize:
				t.resize()
				t.screen.Sync()
			}
		case <-ticker.C:
			if err := session.step(); err != nil {
				return fmt.Errorf("terminal run aborted: %w", err)
			}
		}
	}
	return nil
}
