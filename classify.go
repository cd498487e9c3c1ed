package main

import "time"

// performanceBand maps a minimum average FPS to a human-readable label. The
// bands are ordered by descending threshold and checked in order.
type performanceBand struct {
	minFPS float64
	label  string
}

var performanceBands = []performanceBand{
	{minFPS: 55, label: "Excellent"},
	{minFPS: 40, label: "Great"},
	{minFPS: 25, label: "Good"},
	{minFPS: 15, label: "Fair"},
	{minFPS: 0, label: "Poor"},
}

const indeterminateLabel = "Indeterminate"

// report is the immutable result of one benchmark run.
type report struct {
	AvgFPS        float64
	Label         string
	Indeterminate bool
	Frames        uint64
	Elapsed       time.Duration
	Tier          qualityTier
	Err           error
}

// classify computes the average FPS and maps it onto the performance bands.
// A non-positive elapsed time (clock anomaly, zero-frame run) yields an
// indeterminate report instead of dividing by zero.
func classify(frames uint64, elapsedSec float64, tier qualityTier) report {
	if elapsedSec <= 0 {
		return report{
			Label:         indeterminateLabel,
			Indeterminate: true,
			Frames:        frames,
			Tier:          tier,
		}
	}
	avg := float64(frames) / elapsedSec
	label := performanceBands[len(performanceBands)-1].label
	for _, band := range performanceBands {
		if avg > band.minFPS {
			label = band.label
			break
		}
	}
	return report{
		AvgFPS:  avg,
		Label:   label,
		Frames:  frames,
		Elapsed: time.Duration(elapsedSec * float64(time.Second)),
		Tier:    tier,
	}
}

// failureReport records a run aborted by a backend or scheduler failure. The
// frames and time accumulated before the abort are preserved.
func failureReport(err error, frames uint64, elapsedSec float64, tier qualityTier) report {
	r := classify(frames, elapsedSec, tier)
	r.Err = err
	return r
}
