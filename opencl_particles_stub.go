//go:build !opencl

package main

import "errors"

type openCLParticleSolver struct{}

func newOpenCLParticleSolver(count int, vel []float32) (*openCLParticleSolver, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (s *openCLParticleSolver) Integrate(pos []float32, dt float32, frameSeed uint32) error {
	return errors.New("OpenCL solver unavailable")
}

func (s *openCLParticleSolver) DeviceName() string { return "" }

func (s *openCLParticleSolver) Close() {}
