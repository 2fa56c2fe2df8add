package r3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/quadtree_viewer/entities"
)

type Camera interface {
	ProjectView(aspect float32) mgl32.Mat4
	// Drag moves the camera by a mouse delta in pixels.
	Drag(dx, dy float32, viewportHeight int)
	// Zoom by scroll steps, positive zooms in.
	Zoom(steps float32)
}

const zoomStep = 1.1

// OrthoCamera looks down -Z at the XY plane.
type OrthoCamera struct {
	Center mgl32.Vec2
	// half of the visible height in world units at Scale 1
	Extent float32
	Scale  float32
}

func NewOrthoCamera(extent, scale float32) *OrthoCamera {
	return &OrthoCamera{Extent: extent, Scale: scale}
}

func (c *OrthoCamera) halfHeight() float32 {
	return c.Extent / c.Scale
}

func (c *OrthoCamera) ProjectView(aspect float32) mgl32.Mat4 {
	h := c.halfHeight()
	w := h * aspect
	return mgl32.Ortho(c.Center.X()-w, c.Center.X()+w, c.Center.Y()-h, c.Center.Y()+h, -1000, 1000)
}

func (c *OrthoCamera) Drag(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	perPixel := 2 * c.halfHeight() / float32(viewportHeight)
	// screen y grows down
	c.Center = c.Center.Sub(mgl32.Vec2{dx * perPixel, -dy * perPixel})
}

func (c *OrthoCamera) Zoom(steps float32) {
	c.Scale *= float32(math.Pow(zoomStep, float64(steps)))
}

// OrbitController rotates around Target. Pitch and Yaw are in degrees and
// measured against the axes of the convention.
type OrbitController struct {
	Target   mgl32.Vec3
	Distance float32
	Pitch    float32
	Yaw      float32

	Conv entities.Convention
}

func NewOrbitController(target mgl32.Vec3, dist, pitch, yaw float32, conv entities.Convention) *OrbitController {
	if conv.IsZero() {
		conv = entities.DefaultConvention
	}
	return &OrbitController{
		Target:   target,
		Distance: dist,
		Pitch:    pitch,
		Yaw:      yaw,
		Conv:     conv,
	}
}

func (c *OrbitController) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, c.Conv.Up)
}

func (c *OrbitController) ProjectView(aspect float32) mgl32.Mat4 {
	far := c.Distance * 4
	if far < 100 {
		far = 100
	}
	return mgl32.Perspective(mgl32.DegToRad(60), aspect, 0.1, far).Mul4(c.GetViewMatrix())
}

func (c *OrbitController) Position() mgl32.Vec3 {
	pitch := float64(mgl32.DegToRad(c.Pitch))
	yaw := float64(mgl32.DegToRad(c.Yaw))

	back := c.Conv.Forward.Mul(-float32(math.Cos(pitch) * math.Cos(yaw)))
	side := c.Conv.Right.Mul(float32(math.Cos(pitch) * math.Sin(yaw)))
	up := c.Conv.Up.Mul(float32(math.Sin(pitch)))

	return back.Add(side).Add(up).Mul(c.Distance).Add(c.Target)
}

func (c *OrbitController) Drag(dx, dy float32, _ int) {
	c.Yaw -= dx * 0.3
	c.Pitch = mgl32.Clamp(c.Pitch+dy*0.3, -89, 89)
}

func (c *OrbitController) Zoom(steps float32) {
	c.Distance /= float32(math.Pow(zoomStep, float64(steps)))
}

// Unproject casts a ray through window pixel (x, y) and returns where it
// hits the plane through origin with the given normal.
func Unproject(projView mgl32.Mat4, x, y float64, width, height int, planeNormal mgl32.Vec3) (mgl32.Vec3, bool) {
	if width <= 0 || height <= 0 {
		return mgl32.Vec3{}, false
	}
	inv := projView.Inv()
	ndcX := float32(2*x/float64(width) - 1)
	ndcY := float32(1 - 2*y/float64(height))

	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	if near.W() == 0 || far.W() == 0 {
		return mgl32.Vec3{}, false
	}
	from := near.Vec3().Mul(1 / near.W())
	to := far.Vec3().Mul(1 / far.W())

	dir := to.Sub(from)
	denom := dir.Dot(planeNormal)
	if mgl32.Abs(denom) < 1e-9 {
		return mgl32.Vec3{}, false
	}
	t := -from.Dot(planeNormal) / denom
	return from.Add(dir.Mul(t)), true
}
