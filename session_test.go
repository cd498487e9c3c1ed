package main

import (
	"errors"
	"math"
	"testing"
	"time"
)

// fakeClock is a manually advanced monotonic clock for scheduler-free tests.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// nominalFrame is one step of the fake clock at the reference refresh rate,
// rounded up so 1800 frames cover a full 30 seconds.
const nominalFrame = 16666667 * time.Nanosecond

// countingRenderer tracks live backend resources so tests can assert that
// teardown releases exactly what populate acquired. Acquire and render
// failures can be injected.
type countingRenderer struct {
	nextHandle  handle
	live        map[handle]resourceKind
	renders     int
	acquires    int
	maxAcquires int
	renderErr   error
}

func newCountingRenderer() *countingRenderer {
	return &countingRenderer{live: make(map[handle]resourceKind)}
}

func (r *countingRenderer) acquire(kind resourceKind) (handle, error) {
	r.acquires++
	if r.maxAcquires > 0 && r.acquires > r.maxAcquires {
		return invalidHandle, errors.New("out of resources")
	}
	r.nextHandle++
	r.live[r.nextHandle] = kind
	return r.nextHandle, nil
}

func (r *countingRenderer) release(h handle) {
	if h == invalidHandle {
		return
	}
	delete(r.live, h)
}

func (r *countingRenderer) render(*sceneState, *cameraRig) error {
	r.renders++
	return r.renderErr
}

func (r *countingRenderer) liveOf(kind resourceKind) int {
	n := 0
	for _, k := range r.live {
		if k == kind {
			n++
		}
	}
	return n
}

func newTestSession(rend renderer) (*benchmarkSession, *fakeClock) {
	clock := newFakeClock()
	session := newBenchmarkSession(rend, clock.now, 42)
	return session, clock
}

func stepFrames(t *testing.T, session *benchmarkSession, clock *fakeClock, frames int) {
	t.Helper()
	for i := 0; i < frames; i++ {
		clock.advance(nominalFrame)
		if err := session.step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
}

func TestRunCompletesAfterConfiguredDuration(t *testing.T) {
	session, clock := newTestSession(newCountingRenderer())
	if err := session.start("low"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	stepFrames(t, session, clock, 1800)

	if session.state != stateFinished {
		t.Fatalf("expected Finished after 1800 frames, got state %d", session.state)
	}
	if !session.haveResult {
		t.Fatal("expected a result after the terminal frame")
	}
	r := session.result
	if r.Frames != 1800 {
		t.Errorf("Frames = %d, want 1800", r.Frames)
	}
	if r.Elapsed.Seconds() < 30 {
		t.Errorf("Elapsed = %v, want >= 30s", r.Elapsed)
	}

	// Further steps are no-ops and must not produce a second report.
	clock.advance(nominalFrame)
	if err := session.step(); err != nil {
		t.Fatalf("post-finish step errored: %v", err)
	}
	if session.result != r {
		t.Error("result changed after the terminal frame")
	}
}

func TestCancelProducesPartialResult(t *testing.T) {
	session, clock := newTestSession(newCountingRenderer())
	if err := session.start("low"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	stepFrames(t, session, clock, 10)
	session.cancel()

	if session.state != stateFinished {
		t.Fatal("cancel did not transition to Finished")
	}
	r := session.result
	if r.Frames != 10 {
		t.Errorf("Frames = %d, want 10", r.Frames)
	}
	wantElapsed := 10 * nominalFrame
	if diff := r.Elapsed - wantElapsed; diff < -time.Millisecond || diff > time.Millisecond {
		t.Errorf("Elapsed = %v, want about %v", r.Elapsed, wantElapsed)
	}
	if math.Abs(r.AvgFPS-60) > 0.1 {
		t.Errorf("AvgFPS = %.3f, want about 60", r.AvgFPS)
	}
}

func TestCancelWhenIdleIsNoOp(t *testing.T) {
	session, _ := newTestSession(newCountingRenderer())
	session.cancel()
	if session.state != stateIdle || session.haveResult {
		t.Error("cancel from Idle must not change state or produce a result")
	}
}

func TestDoubleStartRejected(t *testing.T) {
	rend := newCountingRenderer()
	session, clock := newTestSession(rend)
	if err := session.start("low"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	liveBefore := len(rend.live)
	if err := session.start("low"); !errors.Is(err, errAlreadyRunning) {
		t.Fatalf("second start = %v, want errAlreadyRunning", err)
	}
	if len(rend.live) != liveBefore {
		t.Error("rejected start mutated the scene")
	}
	stepFrames(t, session, clock, 1)
	if session.frames != 1 {
		t.Errorf("frames = %d, the original run should continue", session.frames)
	}
}

func TestInvalidTierRejected(t *testing.T) {
	rend := newCountingRenderer()
	session, _ := newTestSession(rend)
	if err := session.start("nightmare"); !errors.Is(err, errUnknownTier) {
		t.Fatalf("start = %v, want errUnknownTier", err)
	}
	if session.state != stateIdle {
		t.Error("failed start must leave the session Idle")
	}
	if len(rend.live) != 0 {
		t.Errorf("%d resources acquired for a rejected tier", len(rend.live))
	}
}

func TestRestartAfterFinish(t *testing.T) {
	session, clock := newTestSession(newCountingRenderer())
	if err := session.start("low"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	stepFrames(t, session, clock, 5)
	session.cancel()

	if err := session.start("medium"); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if session.state != stateRunning || session.frames != 0 || session.haveResult {
		t.Error("restart did not reset run state")
	}
}

func TestRenderFailureAbortsRun(t *testing.T) {
	rend := newCountingRenderer()
	session, clock := newTestSession(rend)
	if err := session.start("low"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	stepFrames(t, session, clock, 3)

	rend.renderErr = errors.New("device lost")
	clock.advance(nominalFrame)
	if err := session.step(); err == nil {
		t.Fatal("expected step to surface the render failure")
	}
	if session.state != stateFinished {
		t.Fatal("render failure must transition to Finished")
	}
	if session.result.Err == nil {
		t.Error("failure report missing the error")
	}
	if session.result.Frames != 3 {
		t.Errorf("failure report Frames = %d, want 3", session.result.Frames)
	}
	if len(rend.live) != 0 {
		t.Errorf("%d resources still live after abort", len(rend.live))
	}
}

func TestExplosionPoolNeverExceedsCap(t *testing.T) {
	tier, err := tierByName("high")
	if err != nil {
		t.Fatal(err)
	}
	session, clock := newTestSession(newCountingRenderer())
	if err := session.start("high"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	// Covers the scripted sequence window plus plenty of stochastic spawns.
	for i := 0; i < 600; i++ {
		clock.advance(nominalFrame)
		if err := session.step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
		if live := session.liveEffects(); live > tier.explosionCap() {
			t.Fatalf("frame %d: %d live effects, cap is %d", i, live, tier.explosionCap())
		}
	}
}

func TestScriptedBurstsFire(t *testing.T) {
	session, clock := newTestSession(newCountingRenderer())
	if err := session.start("high"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	sawEffect := false
	for i := 0; i < 120; i++ { // two seconds, past the first scripted delay
		clock.advance(nominalFrame)
		if err := session.step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
		if session.liveEffects() > 0 {
			sawEffect = true
		}
	}
	if !sawEffect {
		t.Error("no explosion effect observed after the first scripted delay")
	}
}

func TestEffectsDisabledTierSpawnsNothing(t *testing.T) {
	session, clock := newTestSession(newCountingRenderer())
	if err := session.start("low"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	for i := 0; i < 300; i++ {
		clock.advance(nominalFrame)
		if err := session.step(); err != nil {
			t.Fatalf("step failed: %v", err)
		}
		if session.liveEffects() != 0 {
			t.Fatalf("frame %d: effects spawned on an effects-disabled tier", i)
		}
	}
}

func TestDeltaTimeClampAfterStall(t *testing.T) {
	session, clock := newTestSession(newCountingRenderer())
	if err := session.start("low"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	stepFrames(t, session, clock, 1)

	// Pick a particle far from the wrap boundary so the stall step cannot
	// trigger a respawn.
	field := session.scene.field
	idx := -1
	for i := 0; i < field.count; i++ {
		b := i * 3
		if absf32(field.pos[b]) < 100 && absf32(field.pos[b+1]) < 100 && absf32(field.pos[b+2]) < 100 {
			idx = b
			break
		}
	}
	if idx < 0 {
		t.Fatal("no particle away from the wrap boundary")
	}
	before := field.pos[idx]
	vel := field.vel[idx]

	// A two-second stall must integrate at most deltaClampFrames frames.
	clock.advance(2 * time.Second)
	if err := session.step(); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	maxStep := float32(math.Abs(float64(vel))*deltaClampFrames*nominalFrameSec) + 1e-4
	if moved := absf32(field.pos[idx] - before); moved > maxStep {
		t.Errorf("particle moved %v after a stall, clamp allows %v", moved, maxStep)
	}
}
