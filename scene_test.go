package main

import (
	"math/rand"
	"testing"
)

func newTestScene(rend renderer) *sceneState {
	return newSceneState(rend, rand.New(rand.NewSource(7)))
}

func TestPopulateAllocatesTierCounts(t *testing.T) {
	rend := newCountingRenderer()
	sc := newTestScene(rend)
	tier, err := tierByName("medium")
	if err != nil {
		t.Fatal(err)
	}
	if err := sc.populate(tier); err != nil {
		t.Fatalf("populate failed: %v", err)
	}
	if len(sc.objects) != tier.ObjectCount {
		t.Errorf("objects = %d, want %d", len(sc.objects), tier.ObjectCount)
	}
	if sc.field == nil || sc.field.count != tier.ParticleCount {
		t.Errorf("particle count mismatch")
	}
	if len(sc.lights) != tier.LightCount {
		t.Errorf("lights = %d, want %d", len(sc.lights), tier.LightCount)
	}
	if rend.liveOf(resourceMesh) != tier.ObjectCount {
		t.Errorf("live meshes = %d, want %d", rend.liveOf(resourceMesh), tier.ObjectCount)
	}
	if rend.liveOf(resourceLight) != tier.LightCount {
		t.Errorf("live lights = %d, want %d", rend.liveOf(resourceLight), tier.LightCount)
	}
	for i := range sc.objects {
		o := &sc.objects[i]
		if absFloat(o.pos.x) > spawnExtent || absFloat(o.pos.y) > spawnExtent || absFloat(o.pos.z) > spawnExtent {
			t.Fatalf("object %d spawned outside the cube: %+v", i, o.pos)
		}
	}
}

func TestRepopulateDoesNotLeak(t *testing.T) {
	rend := newCountingRenderer()
	sc := newTestScene(rend)
	high, _ := tierByName("high")
	low, _ := tierByName("low")

	if err := sc.populate(high); err != nil {
		t.Fatalf("first populate failed: %v", err)
	}
	if err := sc.populate(low); err != nil {
		t.Fatalf("second populate failed: %v", err)
	}

	// mesh per object, light per light, one particle buffer.
	want := low.ObjectCount + low.LightCount + 1
	if len(rend.live) != want {
		t.Errorf("live resources = %d, want %d (second tier only)", len(rend.live), want)
	}
	if len(sc.objects) != low.ObjectCount {
		t.Errorf("objects = %d, want %d", len(sc.objects), low.ObjectCount)
	}
}

func TestTeardownIsIdempotent(t *testing.T) {
	rend := newCountingRenderer()
	sc := newTestScene(rend)

	sc.teardown() // empty scene must be safe

	tier, _ := tierByName("low")
	if err := sc.populate(tier); err != nil {
		t.Fatalf("populate failed: %v", err)
	}
	sc.teardown()
	sc.teardown()

	if len(rend.live) != 0 {
		t.Errorf("%d resources still live after teardown", len(rend.live))
	}
	if sc.objects != nil || sc.lights != nil || sc.field != nil || sc.bursts != nil {
		t.Error("teardown left backing collections populated")
	}
}

func TestPartialPopulateReleasesEverything(t *testing.T) {
	rend := newCountingRenderer()
	rend.maxAcquires = 50 // fail partway through object allocation
	sc := newTestScene(rend)

	tier, _ := tierByName("medium")
	if err := sc.populate(tier); err == nil {
		t.Fatal("populate should fail when the backend runs out of resources")
	}
	if len(rend.live) != 0 {
		t.Errorf("%d resources leaked after failed populate", len(rend.live))
	}
}

func TestLightOrbitsAreDeterministic(t *testing.T) {
	rend := newCountingRenderer()
	sc := newTestScene(rend)
	tier, _ := tierByName("medium")
	if err := sc.populate(tier); err != nil {
		t.Fatalf("populate failed: %v", err)
	}

	sc.animateLights(2.5)
	first := sc.lights[0].pos
	sc.animateLights(7.0)
	sc.animateLights(2.5)
	if sc.lights[0].pos != first {
		t.Error("light position is not a pure function of elapsed time")
	}
	if sc.lights[0].pos == sc.lights[0].origin {
		t.Error("light never left its orbit origin")
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
