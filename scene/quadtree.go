package scene

import (
	"math/rand"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/quadtree_viewer/entities"
	"github.com/mogaika/quadtree_viewer/utils"
)

type QuadtreeOptions struct {
	// world size of the root cell
	Size     float32
	Capacity int
	MaxDepth int
	// seed for node names
	Seed       int64
	Convention entities.Convention
	// initial root rotation, euler degrees (see utils.EulerToQuat)
	Rotation mgl32.Vec3
}

type Quadtree struct {
	Root *Node

	capacity int
	maxDepth int
	conv     entities.Convention
	names    *utils.NameGenerator
	byPath   map[string]*Node
	order    []*Node
}

const rootPath = "r"

func NewQuadtree(opts QuadtreeOptions) (*Quadtree, error) {
	if opts.Size <= 0 {
		return nil, errors.Errorf("invalid quadtree size %v", opts.Size)
	}
	if opts.Capacity < 1 {
		return nil, errors.Errorf("invalid quadtree capacity %d", opts.Capacity)
	}
	if opts.MaxDepth < 0 {
		return nil, errors.Errorf("invalid quadtree max depth %d", opts.MaxDepth)
	}

	if opts.Convention.IsZero() {
		opts.Convention = entities.DefaultConvention
	}

	q := &Quadtree{
		capacity: opts.Capacity,
		maxDepth: opts.MaxDepth,
		conv:     opts.Convention,
		names:    utils.NewNameGenerator(opts.Seed),
		byPath:   make(map[string]*Node),
	}

	q.Root = q.newNode(nil, rootPath)
	if err := q.Root.Transform.SetScaleXYZ(opts.Size, opts.Size, opts.Size); err != nil {
		return nil, errors.Wrap(err, "root scale")
	}
	if opts.Rotation != (mgl32.Vec3{}) {
		if err := q.Root.Transform.SetRotation(utils.EulerToQuat(utils.DegToRadV3(opts.Rotation))); err != nil {
			return nil, errors.Wrap(err, "root rotation")
		}
	}
	return q, nil
}

func (q *Quadtree) newNode(parent *Node, path string) *Node {
	n := &Node{
		Name:      q.names.Name(),
		Path:      path,
		Parent:    parent,
		Transform: entities.NewTransform(q.conv),
	}
	if parent != nil {
		n.Depth = parent.Depth + 1
	}
	q.byPath[path] = n
	q.order = nil
	return n
}

// quadrant i: bit 0 selects +x half, bit 1 selects +y half
func quadrantOffset(i int) mgl32.Vec3 {
	return mgl32.Vec3{float32(i&1)*0.5 - 0.25, float32(i>>1)*0.5 - 0.25, 0}
}

func (q *Quadtree) subdivide(n *Node) {
	n.Children = make([]*Node, 4)
	for i := range n.Children {
		c := q.newNode(n, n.Path+strconv.Itoa(i))
		c.Transform.SetPosition(quadrantOffset(i))
		if err := c.Transform.SetScaleXYZ(0.5, 0.5, 0.5); err != nil {
			panic(err)
		}
		n.Children[i] = c
	}

	points := n.Points
	n.Points = nil
	for _, p := range points {
		q.insert(n, p)
	}
}

// Insert adds a world point. Returns false if it is outside the root cell.
func (q *Quadtree) Insert(p mgl32.Vec3) bool {
	local := q.Root.Transform.InverseTransformPoint(p)
	if !contains(local) {
		return false
	}
	q.insert(q.Root, local)
	return true
}

func (q *Quadtree) insert(n *Node, local mgl32.Vec3) {
	for !n.IsLeaf() {
		c, cl := n.childContaining(local)
		if c == nil {
			// children were moved away from this spot, the point stays here
			break
		}
		n, local = c, cl
	}
	n.Points = append(n.Points, local)
	if n.IsLeaf() && len(n.Points) > q.capacity && n.Depth < q.maxDepth {
		q.subdivide(n)
	}
}

// Populate inserts count uniformly distributed points inside the root cell.
func (q *Quadtree) Populate(count int, rnd *rand.Rand) int {
	inserted := 0
	for i := 0; i < count; i++ {
		local := mgl32.Vec3{rnd.Float32() - 0.5, rnd.Float32() - 0.5, 0}
		if q.Insert(q.Root.Transform.TransformPoint(local)) {
			inserted++
		}
	}
	return inserted
}

// Pick returns the deepest node containing world point p, or nil.
func (q *Quadtree) Pick(p mgl32.Vec3) *Node {
	local := q.Root.Transform.InverseTransformPoint(p)
	if !contains(local) {
		return nil
	}
	n := q.Root
	for {
		c, cl := n.childContaining(local)
		if c == nil {
			return n
		}
		n, local = c, cl
	}
}

// Walk visits nodes depth first with their world matrix. Returning false
// from fn skips the children of that node.
func (q *Quadtree) Walk(fn func(n *Node, world mgl32.Mat4) bool) {
	walk(q.Root, mgl32.Ident4(), fn)
}

func walk(n *Node, parentWorld mgl32.Mat4, fn func(*Node, mgl32.Mat4) bool) {
	world := parentWorld.Mul4(n.Transform.LocalToParentMatrix())
	if !fn(n, world) {
		return
	}
	for _, c := range n.Children {
		walk(c, world, fn)
	}
}

// Nodes returns all nodes in depth first order.
func (q *Quadtree) Nodes() []*Node {
	if q.order == nil {
		q.order = make([]*Node, 0, len(q.byPath))
		q.Walk(func(n *Node, _ mgl32.Mat4) bool {
			q.order = append(q.order, n)
			return true
		})
	}
	return q.order
}

func (q *Quadtree) Find(path string) *Node {
	return q.byPath[path]
}

func (q *Quadtree) Len() int {
	return len(q.byPath)
}

func (q *Quadtree) PointCount() int {
	count := 0
	for _, n := range q.byPath {
		count += len(n.Points)
	}
	return count
}

func (q *Quadtree) Convention() entities.Convention {
	return q.conv
}
