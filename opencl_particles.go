//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

// openCLParticleSolver integrates the ambient particle field on the GPU.
// Velocities never change after field creation, so they are uploaded once;
// each step runs the kernel and reads the positions back for rendering.
type openCLParticleSolver struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	kernel     *cl.Kernel
	posBuf     *cl.MemObject
	velBuf     *cl.MemObject
	count      int
	deviceName string
	coldStart  bool
}

const particleKernelSource = `
inline float hash_unit(uint state)
{
    state = state * 747796405u + 2891336453u;
    uint word = ((state >> ((state >> 28u) + 4u)) ^ state) * 277803737u;
    word = (word >> 22u) ^ word;
    return (float)(word & 0x00FFFFFFu) / (float)0x00FFFFFFu;
}

__kernel void integrate_particles(
    const int count,
    const float dt,
    const float wrap_radius,
    const float respawn_bound,
    const int frame_seed,
    __global float* pos,
    __global const float* vel)
{
    int i = get_global_id(0);
    if (i >= count) {
        return;
    }
    int b = i * 3;
    float x = pos[b] + vel[b] * dt;
    float y = pos[b + 1] + vel[b + 1] * dt;
    float z = pos[b + 2] + vel[b + 2] * dt;
    if (fabs(x) > wrap_radius || fabs(y) > wrap_radius || fabs(z) > wrap_radius) {
        uint s = (uint)i * 9781u + (uint)frame_seed;
        x = (hash_unit(s) * 2.0f - 1.0f) * respawn_bound;
        y = (hash_unit(s + 1u) * 2.0f - 1.0f) * respawn_bound;
        z = (hash_unit(s + 2u) * 2.0f - 1.0f) * respawn_bound;
    }
    pos[b] = x;
    pos[b + 1] = y;
    pos[b + 2] = z;
}`

func newOpenCLParticleSolver(count int, vel []float32) (*openCLParticleSolver, error) {
	if count <= 0 || len(vel) != count*3 {
		return nil, errors.New("invalid particle buffer sizes")
	}
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available")
	}
	var device *cl.Device
	for _, p := range platforms {
		devices, derr := p.GetDevices(cl.DeviceTypeGPU)
		if derr != nil && derr != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			device = devices[0]
			break
		}
	}
	if device == nil {
		for _, p := range platforms {
			devices, derr := p.GetDevices(cl.DeviceTypeCPU)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				device = devices[0]
				break
			}
		}
	}
	if device == nil {
		return nil, errors.New("no suitable OpenCL devices found")
	}

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		context.Release()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	program, err := context.CreateProgramWithSource([]string{particleKernelSource})
	if err != nil {
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		program.Release()
		queue.Release()
		context.Release()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	kernel, err := program.CreateKernel("integrate_particles")
	if err != nil {
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	byteSize := count * 3 * int(unsafe.Sizeof(float32(0)))
	posBuf, err := context.CreateEmptyBuffer(cl.MemReadWrite, byteSize)
	if err != nil {
		kernel.Release()
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("allocating position buffer: %w", err)
	}
	velBuf, err := context.CreateEmptyBuffer(cl.MemReadOnly, byteSize)
	if err != nil {
		posBuf.Release()
		kernel.Release()
		program.Release()
		queue.Release()
		context.Release()
		return nil, fmt.Errorf("allocating velocity buffer: %w", err)
	}

	solver := &openCLParticleSolver{
		context:    context,
		queue:      queue,
		program:    program,
		kernel:     kernel,
		posBuf:     posBuf,
		velBuf:     velBuf,
		count:      count,
		deviceName: device.Name(),
		coldStart:  true,
	}
	if _, err := solver.queue.EnqueueWriteBufferFloat32(solver.velBuf, true, 0, vel, nil); err != nil {
		solver.Close()
		return nil, fmt.Errorf("uploading velocities: %w", err)
	}
	return solver, nil
}

// Integrate runs one kernel pass over the field and reads the positions back
// into pos. The first call uploads the host positions to seed the GPU state.
func (s *openCLParticleSolver) Integrate(pos []float32, dt float32, frameSeed uint32) error {
	if len(pos) != s.count*3 {
		return errors.New("position buffer size mismatch")
	}
	if s.coldStart {
		if _, err := s.queue.EnqueueWriteBufferFloat32(s.posBuf, true, 0, pos, nil); err != nil {
			return fmt.Errorf("uploading positions: %w", err)
		}
		s.coldStart = false
	}
	if err := s.kernel.SetArgs(
		int32(s.count),
		dt,
		float32(wrapRadius),
		float32(respawnBound),
		int32(frameSeed),
		s.posBuf,
		s.velBuf,
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, []int{s.count}, nil, nil); err != nil {
		return fmt.Errorf("enqueuing particle kernel: %w", err)
	}
	if _, err := s.queue.EnqueueReadBufferFloat32(s.posBuf, true, 0, pos, nil); err != nil {
		return fmt.Errorf("reading positions: %w", err)
	}
	return nil
}

// DeviceName reports the OpenCL device backing the solver.
func (s *openCLParticleSolver) DeviceName() string { return s.deviceName }

// Close releases every OpenCL resource held by the solver.
func (s *openCLParticleSolver) Close() {
	if s.velBuf != nil {
		s.velBuf.Release()
		s.velBuf = nil
	}
	if s.posBuf != nil {
		s.posBuf.Release()
		s.posBuf = nil
	}
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}
