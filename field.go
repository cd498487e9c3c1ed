package main

import (
	"log"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// particleField holds the ambient drifting particles as flat parallel
// buffers, packed xyz per particle. All three buffers always hold exactly
// 3*count values; velocities are fixed at creation and only positions change,
// which keeps the optional GPU path to a single writable buffer.
type particleField struct {
	count int
	pos   []float32
	vel   []float32
	col   []float32

	buffer    handle
	gpu       *openCLParticleSolver
	frameSeed uint32
}

// newParticleField scatters count particles across the wrap volume with
// uniform per-axis drift velocities.
func newParticleField(count int, rng *rand.Rand) *particleField {
	f := &particleField{
		count: count,
		pos:   make([]float32, count*3),
		vel:   make([]float32, count*3),
		col:   make([]float32, count*3),
	}
	for i := 0; i < count*3; i++ {
		f.pos[i] = float32((rng.Float64()*2 - 1) * wrapRadius)
		f.vel[i] = float32((rng.Float64()*2 - 1) * particleDriftMax)
	}
	f.frameSeed = rng.Uint32()
	return f
}

// attachGPU moves position integration onto the OpenCL solver. Velocities are
// uploaded once; the colors stay on the CPU because they are purely visual.
func (f *particleField) attachGPU() {
	solver, err := newOpenCLParticleSolver(f.count, f.vel)
	if err != nil {
		log.Printf("OpenCL particle solver unavailable, using CPU: %v", err)
		return
	}
	log.Printf("OpenCL particle solver enabled (device: %s)", solver.DeviceName())
	f.gpu = solver
}

// update advances every particle by one frame. Positions integrate with
// delta-time and wrap back near the origin when they leave the bounded
// region; colors are recomputed from elapsed wall time and particle index so
// the whole field cycles hue slowly regardless of motion.
func (f *particleField) update(dtSec, elapsedSec float64, rng *rand.Rand) {
	if f == nil || f.count == 0 {
		return
	}
	f.integrate(dtSec, rng)
	f.cycleColors(elapsedSec)
}

func (f *particleField) integrate(dtSec float64, rng *rand.Rand) {
	if f.gpu != nil {
		f.frameSeed = f.frameSeed*1664525 + 1013904223
		if err := f.gpu.Integrate(f.pos, float32(dtSec), f.frameSeed); err != nil {
			log.Printf("OpenCL particle step failed, falling back to CPU: %v", err)
			f.gpu.Close()
			f.gpu = nil
		} else {
			return
		}
	}
	dt := float32(dtSec)
	for i := 0; i < f.count; i++ {
		b := i * 3
		x := f.pos[b] + f.vel[b]*dt
		y := f.pos[b+1] + f.vel[b+1]*dt
		z := f.pos[b+2] + f.vel[b+2]*dt
		if absf32(x) > wrapRadius || absf32(y) > wrapRadius || absf32(z) > wrapRadius {
			// Only the position resets; velocity and color carry over so the
			// field recycles instead of converging.
			x = float32((rng.Float64()*2 - 1) * respawnBound)
			y = float32((rng.Float64()*2 - 1) * respawnBound)
			z = float32((rng.Float64()*2 - 1) * respawnBound)
		}
		f.pos[b] = x
		f.pos[b+1] = y
		f.pos[b+2] = z
	}
}

func (f *particleField) cycleColors(elapsedSec float64) {
	baseHue := math.Mod(elapsedSec*hueCycleDegPerSec, 360)
	for i := 0; i < f.count; i++ {
		hue := math.Mod(baseHue+float64(i)*hueIndexSpreadDeg, 360)
		c := colorful.Hsv(hue, particleSat, particleVal)
		b := i * 3
		f.col[b] = float32(c.R)
		f.col[b+1] = float32(c.G)
		f.col[b+2] = float32(c.B)
	}
}

// close releases the GPU solver if one was attached. Safe to call repeatedly.
func (f *particleField) close() {
	if f == nil || f.gpu == nil {
		return
	}
	f.gpu.Close()
	f.gpu = nil
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
