package entities

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/quadtree_viewer/utils"
)

// RotateAround rotates the transform by angle degrees about axis passing
// through point (parent coordinates). Both position and rotation change.
// Positive angle turns clockwise when looking down the axis.
func (t *Transform) RotateAround(point, axis mgl32.Vec3, angle float32) error {
	if !utils.IsFiniteV3(axis) || !utils.IsFiniteV3(point) || !utils.IsFinite(angle) {
		return errors.Wrapf(ErrInvalidRotation, "non finite rotation around %v axis %v angle %v", point, axis, angle)
	}
	if axis.Len() < 1e-6 {
		return errors.Wrapf(ErrInvalidRotation, "zero rotation axis %v", axis)
	}
	q := mgl32.QuatRotate(mgl32.DegToRad(-angle), axis.Normalize())
	rotation, err := checkRotation(q.Mul(t.rotation))
	if err != nil {
		return err
	}

	direction := point.Sub(t.position)
	t.setRotation(rotation)
	t.position = point.Sub(q.Rotate(direction))
	t.UpdatePosition()
	return nil
}

// LookAt rotates the transform so forward points at target's position and
// up follows parentUp as close as possible. A nil target is a no-op.
func (t *Transform) LookAt(target *Transform, parentUp mgl32.Vec3) {
	if target == nil {
		return
	}
	t.LookAtPoint(target.position, parentUp)
}

func (t *Transform) LookAtPoint(target, parentUp mgl32.Vec3) {
	f := target.Sub(t.position)
	if f.Len() < 1e-6 {
		return
	}
	f = f.Normalize()

	u := parentUp.Sub(f.Mul(parentUp.Dot(f)))
	if u.Len() < 1e-6 {
		// parentUp is parallel to the view line, keep current up instead
		u = t.up.Sub(f.Mul(t.up.Dot(f)))
		if u.Len() < 1e-6 {
			u = perpendicular(f)
		}
	}
	u = u.Normalize()

	c := t.conv
	world := mgl32.Mat3FromCols(c.Forward, c.Up, c.Forward.Cross(c.Up))
	local := mgl32.Mat3FromCols(f, u, f.Cross(u))

	t.setRotation(mgl32.Mat4ToQuat(local.Mul3(world.Transpose()).Mat4()))
}

func perpendicular(v mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if mgl32.Abs(v.X()) > 0.9 {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return v.Cross(axis)
}

// Rotate applies eulerAngles.z degrees around z, then eulerAngles.x around x,
// then eulerAngles.y around y. In Local space the rotation is composed after
// the current one, in Parent space before it. Non finite angles return
// ErrInvalidRotation and leave the transform untouched.
func (t *Transform) Rotate(eulerAngles mgl32.Vec3, relativeTo Space) error {
	if !utils.IsFiniteV3(eulerAngles) {
		return errors.Wrapf(ErrInvalidRotation, "non finite euler angles %v", eulerAngles)
	}
	qx := mgl32.QuatRotate(mgl32.DegToRad(eulerAngles.X()), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(mgl32.DegToRad(eulerAngles.Y()), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(mgl32.DegToRad(eulerAngles.Z()), mgl32.Vec3{0, 0, 1})
	q := qy.Mul(qx).Mul(qz)

	if relativeTo == Parent {
		q = q.Mul(t.rotation)
	} else {
		q = t.rotation.Mul(q)
	}
	rotation, err := checkRotation(q)
	if err != nil {
		return err
	}
	t.setRotation(rotation)
	return nil
}
