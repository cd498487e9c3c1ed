package main

import "time"

// Simulation and rendering configuration constants used throughout the
// benchmark. These values define the scene extents, animation rates, and the
// timing behavior of the frame loop.
const (
	screenW, screenH = 960, 540
	windowScale      = 1

	// One nominal frame at the reference refresh rate. Delta-time is
	// normalized against this interval and clamped so a stall never turns
	// into a giant integration step.
	nominalFrameSec  = 1.0 / 60.0
	deltaClampFrames = 2.0

	defaultRunDuration = 30 * time.Second

	// Dynamic objects spawn uniformly inside a cube of this half-extent.
	spawnExtent    = 100.0
	objectMinScale = 0.5
	objectMaxScale = 2.5
	spinMaxRate    = 1.5 // rad/s per axis
	oscFrequency   = 2.0
	oscMaxAmp      = 3.0

	// Global scene yaw advances by a fixed amount every frame regardless of
	// delta-time, purely for visual continuity.
	sceneYawStep = 0.0008

	// Ambient particle field bounds. A particle leaving the wrap radius on
	// any axis respawns inside the smaller bound around the origin.
	wrapRadius       = 150.0
	respawnBound     = 25.0
	particleDriftMax = 6.0 // units/s per axis

	// Particle color cycling.
	hueCycleDegPerSec = 18.0
	hueIndexSpreadDeg = 0.02
	particleSat       = 0.65
	particleVal       = 0.9

	// Explosion effects.
	explosionParticleCount = 220
	explosionMinSpeed      = 5.0
	explosionMaxSpeed      = 15.0
	explosionLifeDecay     = 0.8 // life units/s
	explosionGravity       = 9.8 // units/s^2
	explosionDrag          = 0.985
	explosionSpawnChance   = 0.0004 // per object per frame

	// Camera orbit and shake.
	cameraOrbitRadius = 180.0
	cameraOrbitHeight = 60.0
	cameraHeightSwing = 25.0
	cameraOrbitRate   = 0.12 // rad/s
	cameraBobRate     = 0.07 // rad/s
	cameraNear        = 1.0
	shakeDecay        = 0.95
	shakeOnSpawn      = 0.6
	shakeFloor        = 0.01

	// Fog density is derived from the scene extent so larger scenes fade at
	// the same relative distance.
	fogDensityPerUnit = 0.0035

	pgoRecordPath = "default.pgo"
)

// scriptedBurstDelays lists the run-relative times, in seconds, at which the
// scripted explosion sequence fires after start.
var scriptedBurstDelays = []float64{1.5, 2.25, 3.0}
