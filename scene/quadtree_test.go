package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/quadtree_viewer/entities"
)

func newTestTree(t *testing.T, capacity, maxDepth int) *Quadtree {
	t.Helper()
	q, err := NewQuadtree(QuadtreeOptions{
		Size:     100,
		Capacity: capacity,
		MaxDepth: maxDepth,
		Seed:     3,
	})
	require.NoError(t, err)
	return q
}

func assertNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	if float64(want.Sub(got).Len()) > 1e-3*math.Max(1, float64(want.Len())) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestNewQuadtreeValidation(t *testing.T) {
	tests := []QuadtreeOptions{
		{Size: 0, Capacity: 1},
		{Size: 10, Capacity: 0},
		{Size: 10, Capacity: 1, MaxDepth: -1},
	}
	for _, opts := range tests {
		_, err := NewQuadtree(opts)
		assert.Error(t, err, "%+v", opts)
	}

	q := newTestTree(t, 4, 4)
	assert.Equal(t, entities.DefaultConvention, q.Convention())
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, "r", q.Root.Path)
	assert.Equal(t, mgl32.Vec3{100, 100, 100}, q.Root.Transform.Scale())
}

func TestRootRotationOption(t *testing.T) {
	q, err := NewQuadtree(QuadtreeOptions{Size: 10, Capacity: 1, Rotation: mgl32.Vec3{0, 0, 90}})
	require.NoError(t, err)
	assertNear(t, mgl32.Vec3{0, 0, math.Pi / 2}, q.Root.Transform.EulerAngles())
	// local +x of the root points along world +y
	assertNear(t, mgl32.Vec3{0, 5, 0}, q.Root.ToWorld(mgl32.Vec3{0.5, 0, 0}))
}

func TestInsertOutside(t *testing.T) {
	q := newTestTree(t, 4, 4)
	assert.False(t, q.Insert(mgl32.Vec3{51, 0, 0}))
	assert.False(t, q.Insert(mgl32.Vec3{0, -70, 0}))
	assert.True(t, q.Insert(mgl32.Vec3{50, 50, 0}))
	assert.Equal(t, 1, q.PointCount())
}

func TestInsertSubdivides(t *testing.T) {
	q := newTestTree(t, 2, 4)
	require.True(t, q.Insert(mgl32.Vec3{-30, -30, 0}))
	require.True(t, q.Insert(mgl32.Vec3{30, -30, 0}))
	assert.True(t, q.Root.IsLeaf())

	require.True(t, q.Insert(mgl32.Vec3{30, 30, 0}))
	require.False(t, q.Root.IsLeaf())
	assert.Equal(t, 5, q.Len())
	assert.Empty(t, q.Root.Points)

	assert.Len(t, q.Find("r0").Points, 1)
	assert.Len(t, q.Find("r1").Points, 1)
	assert.Len(t, q.Find("r2").Points, 0)
	assert.Len(t, q.Find("r3").Points, 1)

	// points are stored in the leaf's local space
	assertNear(t, mgl32.Vec3{0.1, 0.1, 0}, q.Find("r3").Points[0])
	assertNear(t, mgl32.Vec3{30, 30, 0}, q.Find("r3").ToWorld(q.Find("r3").Points[0]))
}

func TestChildPlacement(t *testing.T) {
	q := newTestTree(t, 1, 1)
	q.Insert(mgl32.Vec3{-10, -10, 0})
	q.Insert(mgl32.Vec3{10, 10, 0})

	centers := map[string]mgl32.Vec3{
		"r0": {-25, -25, 0},
		"r1": {25, -25, 0},
		"r2": {-25, 25, 0},
		"r3": {25, 25, 0},
	}
	for path, center := range centers {
		n := q.Find(path)
		require.NotNil(t, n, path)
		assert.Equal(t, 1, n.Depth)
		assertNear(t, center, n.ToWorld(mgl32.Vec3{}))
		assertNear(t, mgl32.Vec3{50, 0, 0}, n.WorldMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3())
	}
}

func TestMaxDepthStopsSubdivision(t *testing.T) {
	q := newTestTree(t, 1, 0)
	for i := 0; i < 10; i++ {
		q.Insert(mgl32.Vec3{float32(i), 0, 0})
	}
	assert.Equal(t, 1, q.Len())
	assert.Len(t, q.Root.Points, 10)

	q = newTestTree(t, 1, 3)
	for i := 0; i < 3; i++ {
		q.Insert(mgl32.Vec3{10, 10, 0})
	}
	assert.Equal(t, 1+4*3, q.Len())
	leaf := q.Pick(mgl32.Vec3{10, 10, 0})
	require.NotNil(t, leaf)
	assert.Equal(t, 3, leaf.Depth)
	assert.Len(t, leaf.Points, 3)
}

func TestPick(t *testing.T) {
	q := newTestTree(t, 1, 2)
	q.Insert(mgl32.Vec3{-30, -30, 0})
	q.Insert(mgl32.Vec3{30, 30, 0})

	assert.Nil(t, q.Pick(mgl32.Vec3{60, 0, 0}))
	assert.Equal(t, "r3", q.Pick(mgl32.Vec3{30, 30, 0}).Path)
	assert.Equal(t, "r2", q.Pick(mgl32.Vec3{-30, 30, 0}).Path)
	assert.Equal(t, "r1", q.Pick(mgl32.Vec3{30, -30, 0}).Path)
}

func TestPointsFollowMovedNode(t *testing.T) {
	q := newTestTree(t, 1, 1)
	q.Insert(mgl32.Vec3{-30, -30, 0})
	q.Insert(mgl32.Vec3{30, 30, 0})

	n := q.Find("r3")
	require.Len(t, n.Points, 1)

	// parent local units are scaled by the root size
	n.Transform.AddPositionXYZ(0.1, 0, 0)
	assertNear(t, mgl32.Vec3{40, 30, 0}, n.ToWorld(n.Points[0]))
	assertNear(t, n.Points[0], n.ToLocal(mgl32.Vec3{40, 30, 0}))

	// moved far away: the old spot now belongs to the parent only
	n.Transform.AddPositionXYZ(2, 0, 0)
	assert.Equal(t, "r", q.Pick(mgl32.Vec3{30, 30, 0}).Path)
	require.True(t, q.Insert(mgl32.Vec3{30, 30, 0}))
	assert.Len(t, q.Root.Points, 1)
}

func TestRotatedRootPick(t *testing.T) {
	q := newTestTree(t, 1, 1)
	q.Insert(mgl32.Vec3{-30, -30, 0})
	q.Insert(mgl32.Vec3{30, 30, 0})

	require.NoError(t, q.Root.Transform.SetRotation(mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})))
	// +x+y quadrant rotated by 90 degrees lands at -x+y
	assert.Equal(t, "r3", q.Pick(mgl32.Vec3{-30, 30, 0}).Path)
	assertNear(t, mgl32.Vec3{-30, 30, 0}, q.Find("r3").ToWorld(q.Find("r3").Points[0]))
}

func TestWalk(t *testing.T) {
	q := newTestTree(t, 1, 3)
	q.Populate(30, rand.New(rand.NewSource(1)))

	visited := 0
	q.Walk(func(n *Node, world mgl32.Mat4) bool {
		visited++
		assert.True(t, world.ApproxEqualThreshold(n.WorldMatrix(), 1e-4), n.Path)
		return true
	})
	assert.Equal(t, q.Len(), visited)

	// skipping children of the root visits only the root
	visited = 0
	q.Walk(func(n *Node, world mgl32.Mat4) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}

func TestNodesOrderAndNames(t *testing.T) {
	q := newTestTree(t, 1, 2)
	q.Populate(20, rand.New(rand.NewSource(2)))

	nodes := q.Nodes()
	require.Len(t, nodes, q.Len())
	assert.Same(t, q.Root, nodes[0])

	names := make(map[string]bool)
	seen := make(map[*Node]bool)
	for i, n := range nodes {
		assert.Same(t, n, q.Find(n.Path))
		assert.False(t, names[n.Name], "duplicate name %q", n.Name)
		names[n.Name] = true
		if i > 0 {
			// parents come before children
			assert.True(t, seen[n.Parent], n.Path)
		}
		seen[n] = true
	}
}

func TestPopulate(t *testing.T) {
	q := newTestTree(t, 4, 5)
	assert.Equal(t, 100, q.Populate(100, rand.New(rand.NewSource(5))))
	assert.Equal(t, 100, q.PointCount())
	assert.Greater(t, q.Len(), 1)

	q.Walk(func(n *Node, _ mgl32.Mat4) bool {
		if n.IsLeaf() && n.Depth < 5 {
			assert.LessOrEqual(t, len(n.Points), 4, n.Path)
		}
		return true
	})
}

func TestSnapshot(t *testing.T) {
	q := newTestTree(t, 1, 1)
	q.Insert(mgl32.Vec3{-30, -30, 0})
	q.Insert(mgl32.Vec3{30, 30, 0})

	s := q.Snapshot()
	require.Len(t, s.Nodes, 5)
	assert.Equal(t, -1, s.Nodes[0].Parent)
	assert.Equal(t, "r", s.Nodes[0].Path)
	for _, ns := range s.Nodes[1:] {
		assert.Equal(t, 0, ns.Parent)
		assert.Equal(t, 1, ns.Depth)
	}

	r3, ok := s.Find("r3")
	require.True(t, ok)
	assert.Equal(t, 1, r3.Points)
	assert.Equal(t, q.Find("r3").Transform.Snapshot(), r3.Transform)
	assert.Equal(t, q.Find("r3").WorldMatrix(), r3.World)

	_, ok = s.Find("r33")
	assert.False(t, ok)

	// later changes do not leak into a taken snapshot
	q.Find("r3").Transform.SetPositionXYZ(5, 5, 5)
	assert.NotEqual(t, q.Find("r3").Transform.Position(), r3.Transform.Position)
}
