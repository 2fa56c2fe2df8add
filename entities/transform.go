package entities

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/quadtree_viewer/utils"
)

/*
Transform keeps local<->parent coordinate conversions of a single node.

Position, rotation and scale are changed independently. Every change
rebuilds the matrix pair of that axis and then both composite matrices:

	localToParent = position * rotation * scale
	parentToLocal = scale^-1 * rotation^-1 * position^-1

Matrices live in MatrixSlot cells and may be read from any goroutine.
Raw fields (position, rotation, scale, axes) are owned by a single
goroutine; publish Snapshot values to share them.
*/
type Transform struct {
	changed bool

	scale       mgl32.Vec3
	position    mgl32.Vec3
	rotation    mgl32.Quat
	eulerAngles mgl32.Vec3

	conv Convention

	forward mgl32.Vec3
	right   mgl32.Vec3
	up      mgl32.Vec3

	localToParentRotation MatrixSlot
	localToParentPosition MatrixSlot
	localToParentScale    MatrixSlot

	parentToLocalRotation MatrixSlot
	parentToLocalPosition MatrixSlot
	parentToLocalScale    MatrixSlot

	localToParentMatrix MatrixSlot
	parentToLocalMatrix MatrixSlot
}

// NewTransform returns an identity transform. A zero Convention means
// DefaultConvention.
func NewTransform(conv Convention) *Transform {
	if conv.IsZero() {
		conv = DefaultConvention
	}
	t := &Transform{
		scale:    mgl32.Vec3{1, 1, 1},
		rotation: mgl32.QuatIdent(),
		conv:     conv,
		forward:  conv.Forward,
		right:    conv.Right,
		up:       conv.Up,
	}
	for _, s := range t.slots() {
		s.Store(mgl32.Ident4())
	}
	return t
}

func (t *Transform) slots() []*MatrixSlot {
	return []*MatrixSlot{
		&t.localToParentRotation, &t.localToParentPosition, &t.localToParentScale,
		&t.parentToLocalRotation, &t.parentToLocalPosition, &t.parentToLocalScale,
		&t.localToParentMatrix, &t.parentToLocalMatrix,
	}
}

// Clone copies raw state and a snapshot of every matrix. The copy shares no
// storage with t.
func (t *Transform) Clone() *Transform {
	c := &Transform{
		changed:     t.changed,
		scale:       t.scale,
		position:    t.position,
		rotation:    t.rotation,
		eulerAngles: t.eulerAngles,
		conv:        t.conv,
		forward:     t.forward,
		right:       t.right,
		up:          t.up,
	}
	src, dst := t.slots(), c.slots()
	for i := range src {
		dst[i].Store(src[i].Load())
	}
	return c
}

func (t *Transform) Changed() bool          { return t.changed }
func (t *Transform) SetChanged(v bool)      { t.changed = v }
func (t *Transform) Position() mgl32.Vec3   { return t.position }
func (t *Transform) Rotation() mgl32.Quat   { return t.rotation }
func (t *Transform) Scale() mgl32.Vec3      { return t.scale }
func (t *Transform) Forward() mgl32.Vec3    { return t.forward }
func (t *Transform) Right() mgl32.Vec3      { return t.right }
func (t *Transform) Up() mgl32.Vec3         { return t.up }
func (t *Transform) Convention() Convention { return t.conv }

// EulerAngles returns rotation decomposed into radians (see utils.QuatToEuler).
func (t *Transform) EulerAngles() mgl32.Vec3 { return t.eulerAngles }

func (t *Transform) LocalToParentMatrix() mgl32.Mat4 { return t.localToParentMatrix.Load() }
func (t *Transform) ParentToLocalMatrix() mgl32.Mat4 { return t.parentToLocalMatrix.Load() }

// TransformDirection converts direction from local to parent space.
// Not affected by scale or position, the result has the same length as the input.
func (t *Transform) TransformDirection(direction mgl32.Vec3) mgl32.Vec3 {
	return t.localToParentRotation.Load().Mul4x1(direction.Vec4(0)).Vec3()
}

// TransformPoint converts position from local to parent space. Affected by scale.
// InverseTransformPoint does the opposite conversion.
func (t *Transform) TransformPoint(point mgl32.Vec3) mgl32.Vec3 {
	return t.localToParentMatrix.Load().Mul4x1(point.Vec4(1)).Vec3()
}

// TransformVector converts vector from local to parent space.
// Not affected by position, affected by scale.
func (t *Transform) TransformVector(vector mgl32.Vec3) mgl32.Vec3 {
	return t.localToParentMatrix.Load().Mul4x1(vector.Vec4(0)).Vec3()
}

func (t *Transform) InverseTransformDirection(direction mgl32.Vec3) mgl32.Vec3 {
	return t.parentToLocalRotation.Load().Mul4x1(direction.Vec4(0)).Vec3()
}

func (t *Transform) InverseTransformPoint(point mgl32.Vec3) mgl32.Vec3 {
	return t.parentToLocalMatrix.Load().Mul4x1(point.Vec4(1)).Vec3()
}

func (t *Transform) InverseTransformVector(vector mgl32.Vec3) mgl32.Vec3 {
	return t.parentToLocalMatrix.Load().Mul4x1(vector.Vec4(0)).Vec3()
}

func checkRotation(q mgl32.Quat) (mgl32.Quat, error) {
	if !utils.IsFiniteQuat(q) {
		return q, errors.Wrapf(ErrInvalidRotation, "non finite quaternion %v", q)
	}
	if q.Len() < 1e-6 {
		return q, errors.Wrapf(ErrInvalidRotation, "zero length quaternion %v", q)
	}
	return q.Normalize(), nil
}

func (t *Transform) SetRotation(newRotation mgl32.Quat) error {
	q, err := checkRotation(newRotation)
	if err != nil {
		return err
	}
	t.setRotation(q)
	return nil
}

// AddRotation multiplies the current rotation by additionalRotation on the right.
func (t *Transform) AddRotation(additionalRotation mgl32.Quat) error {
	q, err := checkRotation(additionalRotation)
	if err != nil {
		return err
	}
	t.setRotation(t.rotation.Mul(q))
	return nil
}

func (t *Transform) setRotation(q mgl32.Quat) {
	t.rotation = q.Normalize()
	t.eulerAngles = utils.QuatToEuler(t.rotation)
	t.UpdateRotation()
}

func (t *Transform) UpdateRotation() {
	rotationMatrix := t.rotation.Mat4()
	t.localToParentRotation.Store(rotationMatrix)
	t.parentToLocalRotation.Store(rotationMatrix.Inv())

	t.up = rotationMatrix.Mul4x1(t.conv.Up.Vec4(0)).Vec3()
	t.forward = rotationMatrix.Mul4x1(t.conv.Forward.Vec4(0)).Vec3()
	t.right = t.up.Cross(t.forward)

	t.UpdateMatrix()
}

func (t *Transform) SetPosition(newPosition mgl32.Vec3) {
	t.position = newPosition
	t.UpdatePosition()
}

func (t *Transform) AddPosition(additionalPosition mgl32.Vec3) {
	t.position = t.position.Add(additionalPosition)
	t.UpdatePosition()
}

func (t *Transform) SetPositionXYZ(x, y, z float32) {
	t.SetPosition(mgl32.Vec3{x, y, z})
}

func (t *Transform) AddPositionXYZ(dx, dy, dz float32) {
	t.AddPosition(mgl32.Vec3{dx, dy, dz})
}

func (t *Transform) UpdatePosition() {
	p := t.position
	t.localToParentPosition.Store(mgl32.Translate3D(p[0], p[1], p[2]))
	t.parentToLocalPosition.Store(mgl32.Translate3D(-p[0], -p[1], -p[2]))
	t.UpdateMatrix()
}

func checkScale(s mgl32.Vec3) error {
	if !utils.IsFiniteV3(s) {
		return errors.Wrapf(ErrDegenerateScale, "non finite scale %v", s)
	}
	for i, c := range s {
		if mgl32.Abs(c) < ScaleEpsilon {
			return errors.Wrapf(ErrDegenerateScale, "scale component %d of %v is zero", i, s)
		}
	}
	return nil
}

// SetScale fails with ErrDegenerateScale if any component is (near) zero.
// The transform is left untouched in that case.
func (t *Transform) SetScale(newScale mgl32.Vec3) error {
	if err := checkScale(newScale); err != nil {
		return err
	}
	t.scale = newScale
	t.UpdateScale()
	return nil
}

func (t *Transform) AddScale(additionalScale mgl32.Vec3) error {
	return t.SetScale(t.scale.Add(additionalScale))
}

func (t *Transform) SetScaleXYZ(x, y, z float32) error {
	return t.SetScale(mgl32.Vec3{x, y, z})
}

func (t *Transform) AddScaleXYZ(dx, dy, dz float32) error {
	return t.AddScale(mgl32.Vec3{dx, dy, dz})
}

func (t *Transform) UpdateScale() {
	s := t.scale
	t.localToParentScale.Store(mgl32.Scale3D(s[0], s[1], s[2]))
	t.parentToLocalScale.Store(mgl32.Scale3D(1/s[0], 1/s[1], 1/s[2]))
	t.UpdateMatrix()
}

// UpdateMatrix recomposes both composite matrices from the per-axis ones.
func (t *Transform) UpdateMatrix() {
	t.localToParentMatrix.Store(t.localToParentPosition.Load().
		Mul4(t.localToParentRotation.Load()).
		Mul4(t.localToParentScale.Load()))
	t.parentToLocalMatrix.Store(t.parentToLocalScale.Load().
		Mul4(t.parentToLocalRotation.Load()).
		Mul4(t.parentToLocalPosition.Load()))
}
