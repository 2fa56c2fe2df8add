package entities

import "github.com/go-gl/mathgl/mgl32"

// Snapshot is a plain value copy of a Transform, safe to hand to other
// goroutines once taken.
type Snapshot struct {
	Position    mgl32.Vec3 `json:"position"`
	Rotation    mgl32.Quat `json:"rotation"`
	Scale       mgl32.Vec3 `json:"scale"`
	EulerAngles mgl32.Vec3 `json:"euler_angles"`

	Forward mgl32.Vec3 `json:"forward"`
	Right   mgl32.Vec3 `json:"right"`
	Up      mgl32.Vec3 `json:"up"`

	LocalToParent mgl32.Mat4 `json:"local_to_parent"`
	ParentToLocal mgl32.Mat4 `json:"parent_to_local"`
}

// Snapshot must be called by the goroutine that owns t.
func (t *Transform) Snapshot() Snapshot {
	return Snapshot{
		Position:      t.position,
		Rotation:      t.rotation,
		Scale:         t.scale,
		EulerAngles:   t.eulerAngles,
		Forward:       t.forward,
		Right:         t.right,
		Up:            t.up,
		LocalToParent: t.localToParentMatrix.Load(),
		ParentToLocal: t.parentToLocalMatrix.Load(),
	}
}
