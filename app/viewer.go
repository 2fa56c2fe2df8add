package app

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/quadtree_viewer/config"
	"github.com/mogaika/quadtree_viewer/entities"
	"github.com/mogaika/quadtree_viewer/events"
	"github.com/mogaika/quadtree_viewer/r3d"
	"github.com/mogaika/quadtree_viewer/scene"
	"github.com/mogaika/quadtree_viewer/utils"
)

const (
	moveStep      = 0.05
	fastMoveStep  = 0.2
	rotateStep    = 15
	scaleStep     = 0.1
	lineWidth     = 1.5
	selectedWidth = 3
	pointSize     = 4
)

// cells always lie in the XY plane
var zAxis = mgl32.Vec3{0, 0, 1}

type Renderer interface {
	Viewport(width, height int)
	Begin(projView mgl32.Mat4, clearColor [4]float32)
	DrawQuad(model mgl32.Mat4, color [4]float32, lineWidth float32)
	DrawPoints(model mgl32.Mat4, points []mgl32.Vec3, color [4]float32, size float32)
	End()
}

// Notifier receives user visible messages, status.Hub implements it.
type Notifier interface {
	Info(format string, a ...interface{})
	Error(format string, a ...interface{})
}

type nopNotifier struct{}

func (nopNotifier) Info(string, ...interface{})  {}
func (nopNotifier) Error(string, ...interface{}) {}

/*
Viewer owns the quadtree and every Transform in it. All methods except
Snapshot and ApplyOptions must be called from the event thread.

Each RedrawScene publishes a scene.Snapshot that other goroutines read
through Snapshot.
*/
type Viewer struct {
	opts     *config.Options
	tree     *scene.Quadtree
	camera   r3d.Camera
	notifier Notifier

	newRenderer func() (Renderer, error)
	renderer    Renderer

	width, height int
	focused       bool

	selected string
	spinning bool

	dragging         bool
	cursorX, cursorY float64

	redraw bool
	frame  uint64

	snapshot atomic.Value
	reload   chan *config.Options
	onClose  func()

	log *log.Entry
}

var _ events.Handler = (*Viewer)(nil)

// NewViewer does not touch GL, renderer is created by Initialize.
// Notifier may be nil.
func NewViewer(opts *config.Options, tree *scene.Quadtree, newRenderer func() (Renderer, error), notifier Notifier) *Viewer {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	v := &Viewer{
		opts:        opts,
		tree:        tree,
		notifier:    notifier,
		newRenderer: newRenderer,
		width:       opts.Window.Width,
		height:      opts.Window.Height,
		focused:     true,
		selected:    tree.Root.Path,
		redraw:      true,
		reload:      make(chan *config.Options, 1),
		log:         log.WithField("module", "viewer"),
	}
	v.camera = newCamera(opts, tree.Convention())
	return v
}

func newCamera(opts *config.Options, conv entities.Convention) r3d.Camera {
	if opts.Camera.Mode == config.CameraOrbit {
		return r3d.NewOrbitController(mgl32.Vec3{}, opts.Camera.Distance/opts.Camera.Zoom,
			opts.Camera.Pitch, opts.Camera.Yaw, conv)
	}
	// a bit of margin around the root cell
	return r3d.NewOrthoCamera(opts.Quadtree.Size*0.55, opts.Camera.Zoom)
}

// SetCloseFunc sets callback for the close key.
func (v *Viewer) SetCloseFunc(fn func()) { v.onClose = fn }

func (v *Viewer) Camera() r3d.Camera    { return v.camera }
func (v *Viewer) Tree() *scene.Quadtree { return v.tree }
func (v *Viewer) Spinning() bool        { return v.spinning }
func (v *Viewer) NeedsRedraw() bool     { return v.redraw }

func (v *Viewer) Selected() *scene.Node {
	if n := v.tree.Find(v.selected); n != nil {
		return n
	}
	return v.tree.Root
}

// Snapshot returns the last published frame, nil before the first redraw.
// Safe for concurrent use.
func (v *Viewer) Snapshot() *scene.Snapshot {
	s, _ := v.snapshot.Load().(*scene.Snapshot)
	return s
}

// ApplyOptions queues reloaded options, they are applied by the next Tick.
// Safe for concurrent use; only the latest pending options are kept.
func (v *Viewer) ApplyOptions(opts *config.Options) {
	for {
		select {
		case v.reload <- opts:
			return
		default:
		}
		select {
		case <-v.reload:
		default:
		}
	}
}

func (v *Viewer) Initialize() error {
	r, err := v.newRenderer()
	if err != nil {
		return err
	}
	v.renderer = r
	v.renderer.Viewport(v.width, v.height)
	v.log.WithFields(log.Fields{
		"nodes":  v.tree.Len(),
		"points": v.tree.PointCount(),
	}).Info("viewer initialized")
	v.Refresh()
	return nil
}

func (v *Viewer) Refresh() { v.redraw = true }

func (v *Viewer) aspect() float32 {
	if v.height <= 0 {
		return 1
	}
	return float32(v.width) / float32(v.height)
}

func (v *Viewer) RedrawScene() {
	if v.renderer == nil {
		return
	}
	colors := v.opts.Colors
	v.renderer.Begin(v.camera.ProjectView(v.aspect()), colors.Background)

	var selectedWorld mgl32.Mat4
	var selected *scene.Node
	v.tree.Walk(func(n *scene.Node, world mgl32.Mat4) bool {
		if n.Path == v.selected {
			selected, selectedWorld = n, world
		} else {
			v.renderer.DrawQuad(world, colors.Node, lineWidth)
		}
		if len(n.Points) != 0 {
			v.renderer.DrawPoints(world, n.Points, colors.Point, pointSize)
		}
		return true
	})
	// selection goes on top
	if selected != nil {
		v.renderer.DrawQuad(selectedWorld, colors.Selected, selectedWidth)
	}
	v.renderer.End()

	v.frame++
	snap := v.tree.Snapshot()
	snap.Frame = v.frame
	snap.Selected = v.selected
	v.snapshot.Store(snap)

	v.redraw = false
}

// Tick applies pending options and advances spin animation by dt seconds.
func (v *Viewer) Tick(dt float64) {
	select {
	case opts := <-v.reload:
		v.applyOptions(opts)
	default:
	}

	if v.spinning && v.focused && dt > 0 {
		n := v.Selected()
		if err := n.Transform.Rotate(mgl32.Vec3{0, 0, v.opts.SpinSpeed * float32(dt)}, entities.Local); err != nil {
			v.spinning = false
			v.reportError(n, err)
			return
		}
		v.Refresh()
	}
}

// only fields that do not require rebuilding the tree or the window
func (v *Viewer) applyOptions(opts *config.Options) {
	v.opts.Colors = opts.Colors
	v.opts.SpinSpeed = opts.SpinSpeed
	if opts.Camera != v.opts.Camera {
		v.opts.Camera = opts.Camera
		v.camera = newCamera(v.opts, v.tree.Convention())
	}
	if lvl, err := opts.Level(); err == nil {
		log.SetLevel(lvl)
		v.opts.LogLevel = opts.LogLevel
	}
	v.log.Info("options reloaded")
	v.notifier.Info("options reloaded")
	v.Refresh()
}

func (v *Viewer) OnResize(width, height int) {
	v.width, v.height = width, height
	if v.renderer != nil {
		v.renderer.Viewport(width, height)
	}
	v.Refresh()
}

func (v *Viewer) OnFocus(focused bool) {
	v.focused = focused
	v.log.Debugf("focus %v", focused)
	v.Refresh()
}

func (v *Viewer) OnScroll(dx, dy float64) {
	v.camera.Zoom(float32(dy))
	v.Refresh()
}

func (v *Viewer) OnMouseMove(x, y float64) {
	if v.dragging {
		v.camera.Drag(float32(x-v.cursorX), float32(y-v.cursorY), v.height)
		v.Refresh()
	}
	v.cursorX, v.cursorY = x, y
}

func (v *Viewer) OnMouseButton(button events.MouseButton, action events.Action, mods events.ModifierKey) {
	switch button {
	case events.MouseButtonLeft:
		if action == events.Press {
			v.pick(v.cursorX, v.cursorY)
		}
	case events.MouseButtonRight:
		v.dragging = action == events.Press
	}
}

func (v *Viewer) pick(x, y float64) {
	world, ok := r3d.Unproject(v.camera.ProjectView(v.aspect()), x, y, v.width, v.height, zAxis)
	if !ok {
		return
	}
	if n := v.tree.Pick(world); n != nil {
		v.selectNode(n)
	}
}

func (v *Viewer) selectNode(n *scene.Node) {
	if n.Path == v.selected {
		return
	}
	v.selected = n.Path
	v.log.WithField("node", n.Path).Debug("selected")
	utils.LogDump(n.Transform.Snapshot())
	v.notifier.Info("selected %s (%s)", n.Name, n.Path)
	v.Refresh()
}

func (v *Viewer) cycleSelection(delta int) {
	nodes := v.tree.Nodes()
	current := 0
	for i, n := range nodes {
		if n.Path == v.selected {
			current = i
			break
		}
	}
	next := (current + delta + len(nodes)) % len(nodes)
	v.selectNode(nodes[next])
}

// scale of the root is the world size, children live in unit parent space
func (v *Viewer) parentUnit(n *scene.Node) float32 {
	if n.Parent == nil {
		return v.tree.Root.Transform.Scale().X()
	}
	return 1
}

func (v *Viewer) OnKey(key events.Key, scancode int, action events.Action, mods events.ModifierKey) {
	if action == events.Release {
		return
	}
	n := v.Selected()
	t := n.Transform

	step := float32(moveStep)
	if mods.Has(events.ModShift) {
		step = fastMoveStep
	}
	step *= v.parentUnit(n)

	sign := float32(1)
	if mods.Has(events.ModShift) {
		sign = -1
	}

	switch key {
	case events.KeyRight, events.KeyD:
		t.AddPositionXYZ(step, 0, 0)
	case events.KeyLeft, events.KeyA:
		t.AddPositionXYZ(-step, 0, 0)
	case events.KeyUp, events.KeyW:
		t.AddPositionXYZ(0, step, 0)
	case events.KeyDown, events.KeyS:
		t.AddPositionXYZ(0, -step, 0)
	case events.KeyQ, events.KeyE:
		angle := float32(rotateStep)
		if key == events.KeyE {
			angle = -angle
		}
		if err := t.Rotate(mgl32.Vec3{0, 0, angle}, entities.Local); err != nil {
			v.reportError(n, err)
		}
	case events.KeyEqual, events.KeyKPAdd:
		v.addScale(n, scaleStep)
	case events.KeyMinus, events.KeyKPSubtract:
		v.addScale(n, -scaleStep)
	case events.KeyR:
		if err := t.RotateAround(mgl32.Vec3{}, zAxis, sign*rotateStep); err != nil {
			v.reportError(n, err)
		}
	case events.KeyL:
		t.LookAtPoint(mgl32.Vec3{}, zAxis)
	case events.KeyTab:
		if mods.Has(events.ModShift) {
			v.cycleSelection(-1)
		} else {
			v.cycleSelection(1)
		}
		return
	case events.KeySpace:
		if action == events.Press {
			v.spinning = !v.spinning
			v.notifier.Info("spin %v", v.spinning)
		}
		return
	case events.KeyEscape:
		if v.onClose != nil {
			v.onClose()
		}
		return
	default:
		return
	}
	v.log.WithField("node", n.Path).Debugf("position %v euler %v scale %v",
		t.Position(), utils.RadToDegV3(t.EulerAngles()), t.Scale())
	v.Refresh()
}

func (v *Viewer) addScale(n *scene.Node, delta float32) {
	d := delta * v.parentUnit(n)
	if err := n.Transform.AddScaleXYZ(d, d, 0); err != nil {
		v.reportError(n, err)
	}
}

func (v *Viewer) reportError(n *scene.Node, err error) {
	v.log.WithError(err).WithField("node", n.Path).Warn("transform rejected")
	v.notifier.Error("%s: %v", n.Path, err)
}
