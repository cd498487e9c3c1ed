package main

// handle identifies a geometry, particle-buffer, or light resource owned by
// the rendering backend. The zero value is never a valid resource.
type handle uint64

const invalidHandle handle = 0

// resourceKind tells the backend what kind of primitive to allocate.
type resourceKind int

const (
	resourceMesh resourceKind = iota
	resourceParticleBuffer
	resourceLight
)

// renderer is the narrow surface the benchmark core uses to talk to a
// rendering backend. The core never introspects the backend beyond these
// calls: it acquires disposable primitives during scene population, releases
// them on teardown, and delegates the actual draw once per frame.
type renderer interface {
	acquire(kind resourceKind) (handle, error)
	release(h handle)
	render(sc *sceneState, cam *cameraRig) error
}

// noopRenderer runs the frame loop without producing any output. Used by the
// headless mode and by tests that only care about simulation state.
type noopRenderer struct {
	nextHandle handle
	liveCount  int
}

func (r *noopRenderer) acquire(resourceKind) (handle, error) {
	r.nextHandle++
	r.liveCount++
	return r.nextHandle, nil
}

func (r *noopRenderer) release(h handle) {
	if h == invalidHandle {
		return
	}
	r.liveCount--
}

func (r *noopRenderer) render(*sceneState, *cameraRig) error { return nil }
