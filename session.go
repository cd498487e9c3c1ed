package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

type sessionState int

const (
	stateIdle sessionState = iota
	stateRunning
	stateFinished
)

var errAlreadyRunning = errors.New("benchmark already running")

// benchmarkSession owns all mutable run state and drives one discrete
// update+render step per scheduled frame. It is a plain state machine: Idle
// until start, Running while the external scheduler calls step, Finished once
// the duration elapses, the run is cancelled, or the backend fails. All
// mutation happens on the scheduler's single execution context.
type benchmarkSession struct {
	rend renderer
	now  func() time.Time

	scene  *sceneState
	camera cameraRig
	rng    *rand.Rand

	state  sessionState
	tier   qualityTier
	maxRun time.Duration

	startTime  time.Time
	lastFrame  time.Time
	frames     uint64
	elapsedSec float64
	fpsNow     float64

	scriptedFired []bool

	result     report
	haveResult bool
}

// newBenchmarkSession wires a session to a backend and a monotonic clock. The
// seed fixes every subsystem RNG so runs can be replayed.
func newBenchmarkSession(rend renderer, now func() time.Time, seed int64) *benchmarkSession {
	s := &benchmarkSession{
		rend:   rend,
		now:    now,
		rng:    rand.New(rand.NewSource(seed)),
		maxRun: defaultRunDuration,
	}
	s.scene = newSceneState(rend, rand.New(rand.NewSource(seed+1)))
	return s
}

// start begins a new run. Valid from Idle or Finished; starting while Running
// is an error and leaves the current run untouched. An unknown tier aborts
// before any state changes.
func (s *benchmarkSession) start(tierName string) error {
	if s.state == stateRunning {
		return errAlreadyRunning
	}
	tier, err := tierByName(tierName)
	if err != nil {
		return err
	}
	s.tier = tier
	s.result = report{}
	s.haveResult = false
	if err := s.scene.populate(tier); err != nil {
		s.scene.teardown()
		return fmt.Errorf("populating scene: %w", err)
	}
	s.camera.reset()
	s.frames = 0
	s.elapsedSec = 0
	s.fpsNow = 0
	s.scriptedFired = make([]bool, len(scriptedBurstDelays))
	s.startTime = s.now()
	s.lastFrame = s.startTime
	s.state = stateRunning
	return nil
}

// step runs one frame while Running; it is a no-op in any other state. The
// caller schedules exactly one step per display refresh.
func (s *benchmarkSession) step() error {
	if s.state != stateRunning {
		return nil
	}
	now := s.now()

	// Delta-time normalized to the nominal frame interval and clamped so a
	// stall cannot destabilize the integration.
	dt := now.Sub(s.lastFrame).Seconds() / nominalFrameSec
	if dt > deltaClampFrames {
		dt = deltaClampFrames
	}
	if dt < 0 {
		dt = 0
	}
	s.lastFrame = now
	dtSec := dt * nominalFrameSec
	s.elapsedSec = now.Sub(s.startTime).Seconds()
	if dtSec > 0 {
		s.fpsNow = 1 / dtSec
	}

	// Fixed per-frame yaw advance, deliberately delta-time independent.
	s.scene.yaw += sceneYawStep

	s.fireScriptedBursts()
	s.scene.animateObjects(dtSec, s.elapsedSec, func(at vec3) {
		if s.scene.bursts.spawn(at) {
			s.camera.kick(shakeOnSpawn)
		}
	})
	s.scene.animateLights(s.elapsedSec)
	s.scene.field.update(dtSec, s.elapsedSec, s.rng)
	s.scene.bursts.update(dtSec)
	s.camera.advance(s.elapsedSec, s.rng)

	if err := s.rend.render(s.scene, &s.camera); err != nil {
		s.finish(fmt.Errorf("render failed: %w", err))
		return err
	}

	s.frames++
	s.elapsedSec = s.now().Sub(s.startTime).Seconds()

	if s.elapsedSec >= s.maxRun.Seconds() {
		s.finish(nil)
	}
	return nil
}

// fireScriptedBursts spawns the scripted explosion sequence once each delay
// passes. The check runs inside step, so a burst can never fire after the run
// has finished.
func (s *benchmarkSession) fireScriptedBursts() {
	for i, delay := range scriptedBurstDelays {
		if s.scriptedFired[i] || s.elapsedSec < delay {
			continue
		}
		s.scriptedFired[i] = true
		at := vec3{
			x: (s.rng.Float64()*2 - 1) * spawnExtent * 0.5,
			y: s.rng.Float64() * spawnExtent * 0.5,
			z: (s.rng.Float64()*2 - 1) * spawnExtent * 0.5,
		}
		if s.scene.bursts.spawn(at) {
			s.camera.kick(shakeOnSpawn)
		}
	}
}

// cancel forces an immediate Running -> Finished transition. The report is
// computed from the frames and time accumulated so far, not discarded.
func (s *benchmarkSession) cancel() {
	if s.state != stateRunning {
		return
	}
	s.elapsedSec = s.now().Sub(s.startTime).Seconds()
	s.finish(nil)
}

func (s *benchmarkSession) finish(err error) {
	if err != nil {
		s.result = failureReport(err, s.frames, s.elapsedSec, s.tier)
	} else {
		s.result = classify(s.frames, s.elapsedSec, s.tier)
	}
	s.haveResult = true
	s.scene.teardown()
	s.state = stateFinished
}

// liveEffects reports the current explosion count for the debug overlay.
func (s *benchmarkSession) liveEffects() int {
	if s.scene == nil || s.scene.bursts == nil {
		return 0
	}
	return s.scene.bursts.live()
}
