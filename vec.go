package main

import "math"

// vec3 is a plain three-component vector. The benchmark only needs the
// handful of operations below, so it carries its own instead of pulling in a
// math library.
type vec3 struct {
	x, y, z float64
}

func (v vec3) add(o vec3) vec3 {
	return vec3{v.x + o.x, v.y + o.y, v.z + o.z}
}

func (v vec3) sub(o vec3) vec3 {
	return vec3{v.x - o.x, v.y - o.y, v.z - o.z}
}

func (v vec3) scale(s float64) vec3 {
	return vec3{v.x * s, v.y * s, v.z * s}
}

func (v vec3) dot(o vec3) float64 {
	return v.x*o.x + v.y*o.y + v.z*o.z
}

func (v vec3) cross(o vec3) vec3 {
	return vec3{
		v.y*o.z - v.z*o.y,
		v.z*o.x - v.x*o.z,
		v.x*o.y - v.y*o.x,
	}
}

func (v vec3) length() float64 {
	return math.Sqrt(v.dot(v))
}

func (v vec3) normalized() vec3 {
	l := v.length()
	if l == 0 {
		return vec3{}
	}
	return v.scale(1 / l)
}

// rotY rotates v around the vertical axis by the given angle in radians.
func rotY(v vec3, angle float64) vec3 {
	s, c := math.Sincos(angle)
	return vec3{
		x: v.x*c + v.z*s,
		y: v.y,
		z: -v.x*s + v.z*c,
	}
}
