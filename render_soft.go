package main

import "math"

// softRenderer rasterizes the scene into an RGBA pixel buffer that the window
// shell uploads with WritePixels. It is deliberately simple: objects become
// distance-shaded quads, particles single pixels, explosions alpha-blended
// splats. The point is to generate per-frame work proportional to the scene,
// not to look pretty.
type softRenderer struct {
	width  int
	height int
	pix    []byte

	focal float64

	nextHandle handle
	liveCount  int
}

func newSoftRenderer(width, height int) *softRenderer {
	return &softRenderer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
		focal:  float64(height) * 0.9,
	}
}

func (r *softRenderer) acquire(resourceKind) (handle, error) {
	r.nextHandle++
	r.liveCount++
	return r.nextHandle, nil
}

func (r *softRenderer) release(h handle) {
	if h == invalidHandle {
		return
	}
	r.liveCount--
}

// cameraBasis is the camera's orthonormal frame plus projection parameters.
type cameraBasis struct {
	origin  vec3
	right   vec3
	up      vec3
	forward vec3
	focal   float64
	halfW   float64
	halfH   float64
}

func makeCameraBasis(cam *cameraRig, width, height int, focal float64) cameraBasis {
	forward := cam.target.sub(cam.pos).normalized()
	right := forward.cross(vec3{y: 1}).normalized()
	if right.length() == 0 {
		right = vec3{x: 1}
	}
	up := right.cross(forward)
	return cameraBasis{
		origin:  cam.pos,
		right:   right,
		up:      up,
		forward: forward,
		focal:   focal,
		halfW:   float64(width) / 2,
		halfH:   float64(height) / 2,
	}
}

// project maps a world point to screen coordinates and view depth. ok is
// false when the point is behind the near plane.
func (b cameraBasis) project(p vec3) (sx, sy, depth float64, ok bool) {
	d := p.sub(b.origin)
	z := d.dot(b.forward)
	if z < cameraNear {
		return 0, 0, 0, false
	}
	sx = b.halfW + d.dot(b.right)*b.focal/z
	sy = b.halfH - d.dot(b.up)*b.focal/z
	return sx, sy, z, true
}

// render draws the full frame: background, objects, ambient particles,
// explosion bursts, and light blobs, with fog attenuation by view depth.
func (r *softRenderer) render(sc *sceneState, cam *cameraRig) error {
	r.clear()
	basis := makeCameraBasis(cam, r.width, r.height, r.focal)

	for i := range sc.objects {
		r.drawObject(sc, &sc.objects[i], basis)
	}
	if sc.field != nil {
		r.drawParticles(sc, basis)
	}
	if sc.bursts != nil {
		for _, e := range sc.bursts.effects {
			r.drawExplosion(sc, e, basis)
		}
	}
	for i := range sc.lights {
		r.drawLight(sc, &sc.lights[i], basis)
	}
	return nil
}

func (r *softRenderer) clear() {
	for i := 0; i < len(r.pix); i += 4 {
		r.pix[i] = 8
		r.pix[i+1] = 8
		r.pix[i+2] = 14
		r.pix[i+3] = 255
	}
}

// fogFactor attenuates color with view depth, scaled by the scene's density.
func fogFactor(depth, density float64) float64 {
	f := 1 / (1 + depth*density)
	if f < 0.05 {
		f = 0.05
	}
	return f
}

func (r *softRenderer) drawObject(sc *sceneState, o *dynamicObject, basis cameraBasis) {
	sx, sy, depth, ok := basis.project(rotY(o.pos, sc.yaw))
	if !ok {
		return
	}
	half := o.scale * basis.focal / depth * 0.5
	if half < 0.5 {
		half = 0.5
	} else if half > 24 {
		half = 24
	}
	// Cheap shading: brightness from the object's own rotation plus light
	// proximity, faded by fog.
	shade := 0.45 + 0.25*math.Sin(o.rot.x) + 0.15*math.Sin(o.rot.y)
	for i := range sc.lights {
		l := &sc.lights[i]
		d := l.pos.sub(o.pos).length()
		shade += l.intensity / (1 + d*d/(l.radius*l.radius)) * 0.2
	}
	if shade > 1 {
		shade = 1
	} else if shade < 0.1 {
		shade = 0.1
	}
	shade *= fogFactor(depth, sc.fogDensity)
	v := byte(shade * 230)
	r.fillRect(int(sx-half), int(sy-half), int(sx+half), int(sy+half), v, v, byte(shade*255))
}

func (r *softRenderer) drawParticles(sc *sceneState, basis cameraBasis) {
	f := sc.field
	for i := 0; i < f.count; i++ {
		b := i * 3
		p := vec3{x: float64(f.pos[b]), y: float64(f.pos[b+1]), z: float64(f.pos[b+2])}
		sx, sy, depth, ok := basis.project(rotY(p, sc.yaw))
		if !ok {
			continue
		}
		fade := fogFactor(depth, sc.fogDensity)
		r.putPixel(int(sx), int(sy),
			byte(float64(f.col[b])*255*fade),
			byte(float64(f.col[b+1])*255*fade),
			byte(float64(f.col[b+2])*255*fade))
	}
}

func (r *softRenderer) drawExplosion(sc *sceneState, e *explosionEffect, basis cameraBasis) {
	alpha := e.opacity()
	for i := 0; i < explosionParticleCount; i++ {
		b := i * 3
		p := vec3{x: float64(e.pos[b]), y: float64(e.pos[b+1]), z: float64(e.pos[b+2])}
		sx, sy, depth, ok := basis.project(rotY(p, sc.yaw))
		if !ok {
			continue
		}
		fade := fogFactor(depth, sc.fogDensity) * alpha
		r.blendPixel(int(sx), int(sy), 255, 180, 80, fade)
		r.blendPixel(int(sx)+1, int(sy), 255, 120, 40, fade*0.6)
	}
}

func (r *softRenderer) drawLight(sc *sceneState, l *dynamicLight, basis cameraBasis) {
	sx, sy, depth, ok := basis.project(rotY(l.pos, sc.yaw))
	if !ok {
		return
	}
	fade := fogFactor(depth, sc.fogDensity)
	cr := byte(l.color.R * 255 * fade)
	cg := byte(l.color.G * 255 * fade)
	cb := byte(l.color.B * 255 * fade)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			r.putPixel(int(sx)+dx, int(sy)+dy, cr, cg, cb)
		}
	}
}

func (r *softRenderer) putPixel(x, y int, cr, cg, cb byte) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return
	}
	base := (y*r.width + x) * 4
	r.pix[base] = cr
	r.pix[base+1] = cg
	r.pix[base+2] = cb
	r.pix[base+3] = 255
}

func (r *softRenderer) blendPixel(x, y int, cr, cg, cb byte, alpha float64) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height || alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	base := (y*r.width + x) * 4
	r.pix[base] = blendByte(r.pix[base], cr, alpha)
	r.pix[base+1] = blendByte(r.pix[base+1], cg, alpha)
	r.pix[base+2] = blendByte(r.pix[base+2], cb, alpha)
	r.pix[base+3] = 255
}

func blendByte(dst, src byte, alpha float64) byte {
	return byte(float64(dst)*(1-alpha) + float64(src)*alpha)
}

func (r *softRenderer) fillRect(x0, y0, x1, y1 int, cr, cg, cb byte) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 >= r.width {
		x1 = r.width - 1
	}
	if y1 >= r.height {
		y1 = r.height - 1
	}
	for y := y0; y <= y1; y++ {
		base := (y*r.width + x0) * 4
		for x := x0; x <= x1; x++ {
			r.pix[base] = cr
			r.pix[base+1] = cg
			r.pix[base+2] = cb
			r.pix[base+3] = 255
			base += 4
		}
	}
}
