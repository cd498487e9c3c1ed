package main

import "flag"

// Command-line flags that control the benchmark run. The selected quality
// tier is the only parameter that changes what is measured; everything else
// picks an output surface or a diagnostic mode.
var (
	// tierFlag selects the quality tier used to populate the scene.
	tierFlag = flag.String("tier", "high", "quality tier: low, medium, high, ultra or extreme")

	// durationFlag overrides the fixed run duration.
	durationFlag = flag.Duration("duration", defaultRunDuration, "benchmark duration")

	// seedFlag fixes the RNG seed for repeatable runs; 0 derives one from the clock.
	seedFlag = flag.Int64("seed", 0, "random seed (0 = time-based)")

	// debugFlag enables the FPS and live-effect overlay.
	debugFlag = flag.Bool("debug", false, "show FPS and live effect overlay")

	// terminalFlag renders the benchmark into the terminal instead of a window.
	terminalFlag = flag.Bool("terminal", false, "render to the terminal with tcell instead of opening a window")

	// headlessFlag runs the frame loop against a no-op renderer.
	headlessFlag = flag.Bool("headless", false, "run without any visual output")

	// gpuFlag integrates the ambient particle field on the GPU when available.
	gpuFlag = flag.Bool("gpu", false, "integrate the particle field with the OpenCL solver (requires building with -tags opencl)")

	// recordDefaultPGO captures a CPU profile over the run to produce default.pgo.
	recordDefaultPGO = flag.Bool("record-default-pgo", false, "capture default.pgo while the benchmark runs")
)
