package r3d

import (
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

var unitSquare = []mgl32.Vec3{
	{-0.5, -0.5, 0},
	{0.5, -0.5, 0},
	{0.5, 0.5, 0},
	{-0.5, 0.5, 0},
}

const vec3Size = int(unsafe.Sizeof(mgl32.Vec3{}))

// QuadRenderer draws quadtree cells as unit square outlines and their
// points. Needs a current GL 4.3 context.
type QuadRenderer struct {
	program *LineProgram

	quadVAO, quadVBO     uint32
	pointsVAO, pointsVBO uint32
	pointsCapacity       int

	width, height int32
}

func NewQuadRenderer() (*QuadRenderer, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize OpenGL")
	}
	program, err := NewLineProgram()
	if err != nil {
		return nil, err
	}
	r := &QuadRenderer{program: program}

	r.quadVAO, r.quadVBO = r.newVertexArray()
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(unitSquare)*vec3Size, gl.Ptr(unitSquare), gl.STATIC_DRAW)

	r.pointsVAO, r.pointsVBO = r.newVertexArray()

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	return r, nil
}

func (r *QuadRenderer) newVertexArray() (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.EnableVertexAttribArray(uint32(r.program.APosition))
	gl.VertexAttribPointerWithOffset(uint32(r.program.APosition), 3, gl.FLOAT, false, int32(vec3Size), 0)
	return vao, vbo
}

func (r *QuadRenderer) Viewport(width, height int) {
	r.width, r.height = int32(width), int32(height)
}

func (r *QuadRenderer) Begin(projView mgl32.Mat4, clearColor [4]float32) {
	gl.Viewport(0, 0, r.width, r.height)
	gl.ClearColor(clearColor[0], clearColor[1], clearColor[2], clearColor[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.UseProgram(r.program.Id)
	gl.UniformMatrix4fv(r.program.UProjectView, 1, false, &projView[0])
}

func (r *QuadRenderer) setup(model mgl32.Mat4, color [4]float32) {
	gl.UniformMatrix4fv(r.program.UModel, 1, false, &model[0])
	gl.Uniform4fv(r.program.UColor, 1, &color[0])
}

func (r *QuadRenderer) DrawQuad(model mgl32.Mat4, color [4]float32, lineWidth float32) {
	r.setup(model, color)
	gl.LineWidth(lineWidth)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.LINE_LOOP, 0, int32(len(unitSquare)))
}

func (r *QuadRenderer) DrawPoints(model mgl32.Mat4, points []mgl32.Vec3, color [4]float32, size float32) {
	if len(points) == 0 {
		return
	}
	r.setup(model, color)
	gl.Uniform1f(r.program.UPointSize, size)

	gl.BindVertexArray(r.pointsVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.pointsVBO)
	if len(points) > r.pointsCapacity {
		r.pointsCapacity = len(points) * 2
		gl.BufferData(gl.ARRAY_BUFFER, r.pointsCapacity*vec3Size, nil, gl.STREAM_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(points)*vec3Size, gl.Ptr(points))
	gl.DrawArrays(gl.POINTS, 0, int32(len(points)))
}

func (r *QuadRenderer) End() {
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.UseProgram(0)
}

func (r *QuadRenderer) Delete() {
	gl.DeleteVertexArrays(1, &r.quadVAO)
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteVertexArrays(1, &r.pointsVAO)
	gl.DeleteBuffers(1, &r.pointsVBO)
	r.program.Delete()
}
