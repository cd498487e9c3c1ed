package main

import (
	"math"
	"math/rand"
)

// explosionEffect is one short-lived particle burst. All particles start
// co-located at the trigger position with velocities sampled uniformly over a
// sphere; life counts down from 1 and drives the rendered fade.
type explosionEffect struct {
	pos     []float32
	vel     []float32
	life    float64
	maxLife float64
	sprite  handle
}

// opacity is the rendered alpha for the whole burst, a linear fade-out.
func (e *explosionEffect) opacity() float64 {
	if e.maxLife <= 0 {
		return 0
	}
	return e.life / e.maxLife
}

// explosionPool owns every live explosion effect. The pool is bounded: spawn
// requests past the concurrency cap are dropped silently, and retirement
// happens inside update with a reverse sweep so removal never skips an
// element.
type explosionPool struct {
	rend    renderer
	rng     *rand.Rand
	limit   int
	enabled bool
	effects []*explosionEffect
}

func newExplosionPool(rend renderer, rng *rand.Rand, limit int, enabled bool) *explosionPool {
	return &explosionPool{
		rend:    rend,
		rng:     rng,
		limit:   limit,
		enabled: enabled,
	}
}

// live reports the number of active effects.
func (p *explosionPool) live() int {
	if p == nil {
		return 0
	}
	return len(p.effects)
}

// spawn creates a burst at the given position if effects are enabled and the
// pool is below its cap. Reports whether an effect was actually created.
func (p *explosionPool) spawn(at vec3) bool {
	if p == nil || !p.enabled || len(p.effects) >= p.limit {
		return false
	}
	sprite, err := p.rend.acquire(resourceParticleBuffer)
	if err != nil {
		return false
	}
	e := &explosionEffect{
		pos:     make([]float32, explosionParticleCount*3),
		vel:     make([]float32, explosionParticleCount*3),
		life:    1.0,
		maxLife: 1.0,
		sprite:  sprite,
	}
	for i := 0; i < explosionParticleCount; i++ {
		theta := p.rng.Float64() * 2 * math.Pi
		phi := math.Acos(p.rng.Float64()*2 - 1)
		speed := explosionMinSpeed + p.rng.Float64()*(explosionMaxSpeed-explosionMinSpeed)
		sinPhi, cosPhi := math.Sincos(phi)
		sinTheta, cosTheta := math.Sincos(theta)
		b := i * 3
		e.pos[b] = float32(at.x)
		e.pos[b+1] = float32(at.y)
		e.pos[b+2] = float32(at.z)
		e.vel[b] = float32(speed * sinPhi * cosTheta)
		e.vel[b+1] = float32(speed * cosPhi)
		e.vel[b+2] = float32(speed * sinPhi * sinTheta)
	}
	p.effects = append(p.effects, e)
	return true
}

// update decays and integrates every live effect. Iterates in reverse index
// order so retiring an effect mid-loop is safe.
func (p *explosionPool) update(dtSec float64) {
	if p == nil {
		return
	}
	dt := float32(dtSec)
	gravity := float32(explosionGravity * dtSec)
	for i := len(p.effects) - 1; i >= 0; i-- {
		e := p.effects[i]
		e.life -= explosionLifeDecay * dtSec
		if e.life <= 0 {
			p.retire(i)
			continue
		}
		for j := 0; j < explosionParticleCount; j++ {
			b := j * 3
			e.pos[b] += e.vel[b] * dt
			e.pos[b+1] += e.vel[b+1] * dt
			e.pos[b+2] += e.vel[b+2] * dt
			e.vel[b+1] -= gravity
			e.vel[b] *= explosionDrag
			e.vel[b+1] *= explosionDrag
			e.vel[b+2] *= explosionDrag
		}
	}
}

// retire releases the effect's backend resource and swap-removes it.
func (p *explosionPool) retire(i int) {
	e := p.effects[i]
	p.rend.release(e.sprite)
	e.sprite = invalidHandle
	last := len(p.effects) - 1
	p.effects[i] = p.effects[last]
	p.effects[last] = nil
	p.effects = p.effects[:last]
}

// teardown retires every live effect. Safe to call repeatedly.
func (p *explosionPool) teardown() {
	if p == nil {
		return
	}
	for i := len(p.effects) - 1; i >= 0; i-- {
		p.retire(i)
	}
}
