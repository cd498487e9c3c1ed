package main

import (
	"math"
	"math/rand"
	"testing"
)

func newTestPool(rend renderer, limit int) *explosionPool {
	return newExplosionPool(rend, rand.New(rand.NewSource(11)), limit, true)
}

func TestSpawnRespectsConcurrencyCap(t *testing.T) {
	rend := newCountingRenderer()
	pool := newTestPool(rend, 3)
	spawned := 0
	for i := 0; i < 10; i++ {
		if pool.spawn(vec3{}) {
			spawned++
		}
	}
	if spawned != 3 || pool.live() != 3 {
		t.Errorf("spawned %d, live %d, cap is 3", spawned, pool.live())
	}
}

func TestSpawnDisabledPool(t *testing.T) {
	pool := newExplosionPool(newCountingRenderer(), rand.New(rand.NewSource(11)), 5, false)
	if pool.spawn(vec3{}) || pool.live() != 0 {
		t.Error("disabled pool must drop spawn requests")
	}
}

func TestSpawnVelocitiesWithinSpeedRange(t *testing.T) {
	pool := newTestPool(newCountingRenderer(), 1)
	if !pool.spawn(vec3{x: 1, y: 2, z: 3}) {
		t.Fatal("spawn failed")
	}
	e := pool.effects[0]
	for i := 0; i < explosionParticleCount; i++ {
		b := i * 3
		if e.pos[b] != 1 || e.pos[b+1] != 2 || e.pos[b+2] != 3 {
			t.Fatalf("particle %d not co-located with the trigger position", i)
		}
		speed := math.Sqrt(float64(e.vel[b]*e.vel[b] + e.vel[b+1]*e.vel[b+1] + e.vel[b+2]*e.vel[b+2]))
		if speed < explosionMinSpeed-1e-6 || speed > explosionMaxSpeed+1e-6 {
			t.Fatalf("particle %d speed %.3f outside [%v, %v]", i, speed, explosionMinSpeed, explosionMaxSpeed)
		}
	}
}

func TestLifeStrictlyDecreasingUntilRetired(t *testing.T) {
	rend := newCountingRenderer()
	pool := newTestPool(rend, 1)
	if !pool.spawn(vec3{}) {
		t.Fatal("spawn failed")
	}
	prev := pool.effects[0].life
	for steps := 0; pool.live() > 0; steps++ {
		if steps > 10000 {
			t.Fatal("effect never retired")
		}
		pool.update(nominalFrameSec)
		if pool.live() > 0 {
			life := pool.effects[0].life
			if life >= prev {
				t.Fatalf("life did not decrease: %v -> %v", prev, life)
			}
			prev = life
		}
	}
	if len(rend.live) != 0 {
		t.Errorf("retired effect leaked %d backend resources", len(rend.live))
	}
}

func TestGravityPullsBurstDown(t *testing.T) {
	pool := newTestPool(newCountingRenderer(), 1)
	pool.spawn(vec3{})
	e := pool.effects[0]

	sumBefore := float32(0)
	for i := 0; i < explosionParticleCount; i++ {
		sumBefore += e.vel[i*3+1]
	}
	pool.update(nominalFrameSec)
	sumAfter := float32(0)
	for i := 0; i < explosionParticleCount; i++ {
		sumAfter += e.vel[i*3+1]
	}
	if sumAfter >= sumBefore {
		t.Errorf("mean vertical velocity rose from %v to %v under gravity", sumBefore, sumAfter)
	}
}

func TestDragShrinksHorizontalVelocity(t *testing.T) {
	pool := newTestPool(newCountingRenderer(), 1)
	pool.spawn(vec3{})
	e := pool.effects[0]
	before := absf32(e.vel[0])
	pool.update(nominalFrameSec)
	if before > 0 && absf32(e.vel[0]) >= before {
		t.Errorf("horizontal velocity %v did not shrink under drag (was %v)", e.vel[0], before)
	}
}

func TestPoolTeardownReleasesEffects(t *testing.T) {
	rend := newCountingRenderer()
	pool := newTestPool(rend, 4)
	for i := 0; i < 4; i++ {
		pool.spawn(vec3{})
	}
	pool.teardown()
	pool.teardown()
	if pool.live() != 0 || len(rend.live) != 0 {
		t.Errorf("teardown left %d effects, %d resources", pool.live(), len(rend.live))
	}
}
