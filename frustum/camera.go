package frustum

import "github.com/go-gl/mathgl/mgl64"

// Camera is the view input of a frame: a world-space position and an
// orientation. The identity orientation looks down -Z with +Y up.
type Camera struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// NewCamera returns a camera at position with the identity orientation.
func NewCamera(position mgl64.Vec3) Camera {
	return Camera{Position: position, Orientation: mgl64.QuatIdent()}
}

// Forward returns the unit view direction.
func (c Camera) Forward() mgl64.Vec3 {
	return c.orientation().Rotate(mgl64.Vec3{0, 0, -1}).Normalize()
}

// Up returns the unit up direction.
func (c Camera) Up() mgl64.Vec3 {
	return c.orientation().Rotate(mgl64.Vec3{0, 1, 0}).Normalize()
}

// RelativeView returns the view matrix with the camera at the origin.
// Geometry must be translated by -Position before testing against a
// frustum built from it.
func (c Camera) RelativeView() mgl64.Mat4 {
	return mgl64.LookAtV(mgl64.Vec3{}, c.Forward(), c.Up())
}

// orientation treats the zero quaternion as identity.
func (c Camera) orientation() mgl64.Quat {
	if c.Orientation.W == 0 && c.Orientation.V == (mgl64.Vec3{}) {
		return mgl64.QuatIdent()
	}
	return c.Orientation
}
