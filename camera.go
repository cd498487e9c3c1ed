package main

import (
	"math"
	"math/rand"
)

// cameraRig carries the benchmark camera: a fixed orbital path around the
// scene origin plus a decaying shake offset kicked by explosion spawns.
type cameraRig struct {
	pos            vec3
	target         vec3
	shakeIntensity float64
}

// reset places the camera at its canonical starting pose.
func (c *cameraRig) reset() {
	c.pos = vec3{x: 0, y: cameraOrbitHeight, z: cameraOrbitRadius}
	c.target = vec3{}
	c.shakeIntensity = 0
}

// advance recomputes the orbital position from elapsed wall time, applies the
// current shake offset, and re-aims at the origin. Shake decays geometrically
// each frame until it falls below the floor.
func (c *cameraRig) advance(elapsedSec float64, rng *rand.Rand) {
	c.pos = vec3{
		x: math.Cos(elapsedSec*cameraOrbitRate) * cameraOrbitRadius,
		y: cameraOrbitHeight + math.Sin(elapsedSec*cameraBobRate)*cameraHeightSwing,
		z: math.Sin(elapsedSec*cameraOrbitRate) * cameraOrbitRadius,
	}
	if c.shakeIntensity > shakeFloor {
		c.pos.x += (rng.Float64()*2 - 1) * c.shakeIntensity
		c.pos.y += (rng.Float64()*2 - 1) * c.shakeIntensity
		c.shakeIntensity *= shakeDecay
	} else {
		c.shakeIntensity = 0
	}
	c.target = vec3{}
}

// kick raises the shake intensity; a stronger ongoing shake is not reduced.
func (c *cameraRig) kick(intensity float64) {
	if intensity > c.shakeIntensity {
		c.shakeIntensity = intensity
	}
}
