// Package frustum provides camera input and a six-plane view frustum for
// culling.
//
// Planes are extracted in camera-relative space. A frustum is usable only
// after Prepare has supplied the camera's world position; tests translate
// world-space geometry by that origin first.
package frustum

import "github.com/go-gl/mathgl/mgl64"

// Plane indices in the order they are extracted.
const (
	Left = iota
	Right
	Bottom
	Top
	Near
	Far
	planeCount
)

// Frustum is a convex view volume bounded by six planes.
// A point p is inside when dot(plane.xyz, p) + plane.w >= 0 for every plane.
type Frustum struct {
	planes   [planeCount]mgl64.Vec4
	origin   mgl64.Vec3
	prepared bool
}

// New extracts the planes of projection*view.
func New(projection, view mgl64.Mat4) *Frustum {
	m := projection.Mul4(view)
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	f := &Frustum{}
	f.planes[Left] = r3.Add(r0)
	f.planes[Right] = r3.Sub(r0)
	f.planes[Bottom] = r3.Add(r1)
	f.planes[Top] = r3.Sub(r1)
	f.planes[Near] = r3.Add(r2)
	f.planes[Far] = r3.Sub(r2)
	for i, p := range f.planes {
		if l := p.Vec3().Len(); l > 0 {
			f.planes[i] = p.Mul(1 / l)
		}
	}
	return f
}

// ForCamera builds a camera-relative frustum for cam with the given
// projection. Call Prepare(cam.Position) before testing world geometry.
func ForCamera(cam Camera, projection mgl64.Mat4) *Frustum {
	return New(projection, cam.RelativeView())
}

// Prepare sets the world-space origin the planes are relative to.
func (f *Frustum) Prepare(origin mgl64.Vec3) {
	f.origin = origin
	f.prepared = true
}

// Origin returns the origin set by Prepare.
func (f *Frustum) Origin() mgl64.Vec3 { return f.origin }

// Prepared reports whether Prepare has been called.
func (f *Frustum) Prepared() bool { return f.prepared }

// Plane returns plane i as (normal, distance).
func (f *Frustum) Plane(i int) mgl64.Vec4 { return f.planes[i] }

// ContainsPoint reports whether the world-space point is inside.
func (f *Frustum) ContainsPoint(p mgl64.Vec3) bool {
	rel := p.Sub(f.origin)
	for _, pl := range f.planes {
		if pl.Vec3().Dot(rel)+pl[3] < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a world-space sphere touches the volume.
func (f *Frustum) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	rel := center.Sub(f.origin)
	for _, pl := range f.planes {
		if pl.Vec3().Dot(rel)+pl[3] < -radius {
			return false
		}
	}
	return true
}

// IntersectsBox reports whether a world-space axis-aligned box touches the
// volume. It may report false positives near corners, never false negatives.
func (f *Frustum) IntersectsBox(minCorner, maxCorner mgl64.Vec3) bool {
	lo := minCorner.Sub(f.origin)
	hi := maxCorner.Sub(f.origin)
	for _, pl := range f.planes {
		// positive vertex: the corner furthest along the plane normal
		v := lo
		for axis := 0; axis < 3; axis++ {
			if pl[axis] >= 0 {
				v[axis] = hi[axis]
			}
		}
		if pl.Vec3().Dot(v)+pl[3] < 0 {
			return false
		}
	}
	return true
}
