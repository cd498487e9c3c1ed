package main

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// dynamicObject is one independently animated scene object.
type dynamicObject struct {
	pos      vec3
	rot      vec3
	scale    float64
	spin     vec3 // rad/s per axis
	oscPhase float64
	oscAmp   float64
	baseY    float64
	mesh     handle
}

// dynamicLight orbits its origin on a deterministic trigonometric path.
type dynamicLight struct {
	color     colorful.Color
	intensity float64
	radius    float64
	origin    vec3
	pos       vec3
	phase     float64
	speed     float64
	light     handle
}

// lightPalette is cycled when assigning colors to dynamic lights.
var lightPalette = []colorful.Color{
	{R: 1.0, G: 0.45, B: 0.2},
	{R: 0.3, G: 0.6, B: 1.0},
	{R: 0.4, G: 1.0, B: 0.5},
	{R: 1.0, G: 0.85, B: 0.3},
	{R: 0.85, G: 0.4, B: 1.0},
	{R: 0.3, G: 1.0, B: 0.9},
}

// sceneState owns every per-run entity: the dynamic objects, the ambient
// particle field, the dynamic lights, and the explosion pool. populate and
// teardown are the only ways the working set changes size.
type sceneState struct {
	rend renderer
	rng  *rand.Rand

	objects []dynamicObject
	lights  []dynamicLight
	field   *particleField
	bursts  *explosionPool

	yaw        float64
	fogDensity float64
	useGPU     bool
}

func newSceneState(rend renderer, rng *rand.Rand) *sceneState {
	return &sceneState{rend: rend, rng: rng}
}

// populate builds the working set for the given tier. Any previous population
// is torn down first, so calling populate twice never leaks; on a partial
// allocation failure everything acquired so far is released before the error
// is returned.
func (s *sceneState) populate(tier qualityTier) error {
	s.teardown()

	for i := 0; i < tier.ObjectCount; i++ {
		mesh, err := s.rend.acquire(resourceMesh)
		if err != nil {
			s.teardown()
			return fmt.Errorf("allocating object %d: %w", i, err)
		}
		pos := vec3{
			x: (s.rng.Float64()*2 - 1) * spawnExtent,
			y: (s.rng.Float64()*2 - 1) * spawnExtent,
			z: (s.rng.Float64()*2 - 1) * spawnExtent,
		}
		s.objects = append(s.objects, dynamicObject{
			pos:   pos,
			baseY: pos.y,
			rot: vec3{
				x: s.rng.Float64() * 2 * math.Pi,
				y: s.rng.Float64() * 2 * math.Pi,
				z: s.rng.Float64() * 2 * math.Pi,
			},
			scale: objectMinScale + s.rng.Float64()*(objectMaxScale-objectMinScale),
			spin: vec3{
				x: (s.rng.Float64()*2 - 1) * spinMaxRate,
				y: (s.rng.Float64()*2 - 1) * spinMaxRate,
				z: (s.rng.Float64()*2 - 1) * spinMaxRate,
			},
			oscPhase: s.rng.Float64() * 2 * math.Pi,
			oscAmp:   s.rng.Float64() * oscMaxAmp,
			mesh:     mesh,
		})
	}

	buffer, err := s.rend.acquire(resourceParticleBuffer)
	if err != nil {
		s.teardown()
		return fmt.Errorf("allocating particle buffer: %w", err)
	}
	s.field = newParticleField(tier.ParticleCount, s.rng)
	s.field.buffer = buffer
	if s.useGPU {
		s.field.attachGPU()
	}

	for i := 0; i < tier.LightCount; i++ {
		lh, err := s.rend.acquire(resourceLight)
		if err != nil {
			s.teardown()
			return fmt.Errorf("allocating light %d: %w", i, err)
		}
		origin := vec3{
			x: (s.rng.Float64()*2 - 1) * spawnExtent,
			y: s.rng.Float64() * spawnExtent * 0.5,
			z: (s.rng.Float64()*2 - 1) * spawnExtent,
		}
		s.lights = append(s.lights, dynamicLight{
			color:     lightPalette[i%len(lightPalette)],
			intensity: 1.5 + float64(i%3)*0.5,
			radius:    60 + s.rng.Float64()*40,
			origin:    origin,
			pos:       origin,
			phase:     s.rng.Float64() * 2 * math.Pi,
			speed:     0.4 + s.rng.Float64()*0.8,
			light:     lh,
		})
	}

	s.bursts = newExplosionPool(s.rend, s.rng, tier.explosionCap(), tier.EffectsEnabled)
	s.yaw = 0
	s.fogDensity = fogDensityPerUnit * (wrapRadius * 2) / 100
	return nil
}

// teardown releases every owned resource and clears the backing collections.
// Safe to call repeatedly and from an empty or partially populated scene.
func (s *sceneState) teardown() {
	for i := range s.objects {
		s.rend.release(s.objects[i].mesh)
		s.objects[i].mesh = invalidHandle
	}
	s.objects = nil
	for i := range s.lights {
		s.rend.release(s.lights[i].light)
		s.lights[i].light = invalidHandle
	}
	s.lights = nil
	if s.field != nil {
		s.rend.release(s.field.buffer)
		s.field.buffer = invalidHandle
		s.field.close()
		s.field = nil
	}
	if s.bursts != nil {
		s.bursts.teardown()
		s.bursts = nil
	}
}

// animateObjects advances rotation by per-axis spin and bobs each object
// vertically on a sine of elapsed wall time. The bob rides on wall time, not
// delta-time, so the motion stays in phase with the reference benchmark.
func (s *sceneState) animateObjects(dtSec, elapsedSec float64, onSpawn func(vec3)) {
	for i := range s.objects {
		o := &s.objects[i]
		o.rot.x += o.spin.x * dtSec
		o.rot.y += o.spin.y * dtSec
		o.rot.z += o.spin.z * dtSec
		o.pos.y = o.baseY + math.Sin(elapsedSec*oscFrequency+o.oscPhase)*o.oscAmp*o.scale
		if onSpawn != nil && s.rng.Float64() < explosionSpawnChance {
			onSpawn(o.pos)
		}
	}
}

// animateLights recomputes each light's position from its orbit origin with a
// distinct trigonometric frequency per axis.
func (s *sceneState) animateLights(elapsedSec float64) {
	for i := range s.lights {
		l := &s.lights[i]
		t := elapsedSec*l.speed + l.phase
		l.pos = vec3{
			x: l.origin.x + math.Cos(t)*l.radius*0.5,
			y: l.origin.y + math.Sin(t*1.3)*l.radius*0.25,
			z: l.origin.z + math.Sin(t*0.7)*l.radius*0.5,
		}
	}
}
