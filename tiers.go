package main

import (
	"errors"
	"fmt"
)

// qualityTier fixes every population size for one benchmark run. The table is
// process-wide and never mutated; the selected tier is the only externally
// supplied configuration.
type qualityTier struct {
	Name           string
	ObjectCount    int
	ParticleCount  int
	LightCount     int
	EffectsEnabled bool
	Complexity     int
}

var qualityTiers = []qualityTier{
	{Name: "low", ObjectCount: 200, ParticleCount: 5000, LightCount: 2, EffectsEnabled: false, Complexity: 1},
	{Name: "medium", ObjectCount: 500, ParticleCount: 10000, LightCount: 3, EffectsEnabled: true, Complexity: 2},
	{Name: "high", ObjectCount: 1000, ParticleCount: 20000, LightCount: 4, EffectsEnabled: true, Complexity: 3},
	{Name: "ultra", ObjectCount: 2000, ParticleCount: 40000, LightCount: 6, EffectsEnabled: true, Complexity: 4},
	{Name: "extreme", ObjectCount: 4000, ParticleCount: 80000, LightCount: 8, EffectsEnabled: true, Complexity: 5},
}

var errUnknownTier = errors.New("unknown quality tier")

// tierByName validates an externally supplied tier identifier against the
// tier table.
func tierByName(name string) (qualityTier, error) {
	for _, t := range qualityTiers {
		if t.Name == name {
			return t, nil
		}
	}
	return qualityTier{}, fmt.Errorf("%w: %q", errUnknownTier, name)
}

// explosionCap returns the maximum number of concurrent explosion effects for
// the tier. Zero when effects are disabled.
func (t qualityTier) explosionCap() int {
	if !t.EffectsEnabled {
		return 0
	}
	return 3 + t.Complexity
}
