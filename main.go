package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	flag.Parse()

	if _, err := tierByName(*tierFlag); err != nil {
		log.Fatalf("Invalid tier: %v", err)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	if *recordDefaultPGO {
		stop, err := startDefaultPGORecording(pgoRecordPath)
		if err != nil {
			log.Fatalf("PGO recording failed: %v", err)
		}
		defer stop()
		log.Printf("Recording CPU profile to %s for the duration of the run", pgoRecordPath)
	}

	switch {
	case *headlessFlag:
		runHeadless(seed)
	case *terminalFlag:
		tr, err := newTermRenderer()
		if err != nil {
			log.Fatalf("Terminal init failed: %v", err)
		}
		session := newSession(tr, seed)
		if err := runTerminal(session, tr, *tierFlag); err != nil {
			log.Fatalf("%v", err)
		}
		printReport(session.result)
	default:
		soft := newSoftRenderer(screenW, screenH)
		session := newSession(soft, seed)
		shell := &gameShell{session: session, soft: soft, tierName: *tierFlag}
		ebiten.SetWindowSize(screenW*windowScale, screenH*windowScale)
		ebiten.SetWindowTitle("Render Bench")
		if err := ebiten.RunGame(shell); err != nil {
			log.Fatalf("%v", err)
		}
	}
}

// newSession builds a session wired to the real clock and the run flags.
func newSession(rend renderer, seed int64) *benchmarkSession {
	session := newBenchmarkSession(rend, time.Now, seed)
	session.maxRun = *durationFlag
	session.scene.useGPU = *gpuFlag
	return session
}

// runHeadless drives the loop as fast as the host allows against a no-op
// backend, capped lightly so a degenerate scene does not spin at megahertz.
func runHeadless(seed int64) {
	session := newSession(&noopRenderer{}, seed)
	if err := session.start(*tierFlag); err != nil {
		log.Fatalf("Start failed: %v", err)
	}
	for session.state == stateRunning {
		frameStart := time.Now()
		if err := session.step(); err != nil {
			break
		}
		if time.Since(frameStart) < time.Millisecond {
			time.Sleep(time.Millisecond)
		}
	}
	printReport(session.result)
}

// printReport writes the final benchmark result block to stdout.
func printReport(r report) {
	fmt.Printf("Benchmark Results:\n")
	fmt.Printf("  Tier:         %s (%d objects, %d particles, %d lights)\n",
		r.Tier.Name, r.Tier.ObjectCount, r.Tier.ParticleCount, r.Tier.LightCount)
	fmt.Printf("  Total Frames: %d\n", r.Frames)
	fmt.Printf("  Total Time:   %v\n", r.Elapsed.Round(time.Millisecond))
	if r.Indeterminate {
		fmt.Printf("  Avg FPS:      n/a\n")
	} else {
		fmt.Printf("  Avg FPS:      %.2f\n", r.AvgFPS)
	}
	fmt.Printf("  Rating:       %s\n", r.Label)
	if r.Err != nil {
		fmt.Printf("  Aborted:      %v\n", r.Err)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Printf("  Total Alloc:  %d bytes\n", m.TotalAlloc)
	fmt.Printf("  Mallocs:      %d\n", m.Mallocs)
}
