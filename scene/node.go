package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/quadtree_viewer/entities"
)

/*
Node is one quadtree cell. Its geometry is the unit square [-0.5, 0.5]
in its own local space; Transform places it inside the parent cell.
Points are kept in local space so they follow the node when it moves.
*/
type Node struct {
	Name  string
	Path  string
	Depth int

	Transform *entities.Transform

	Parent   *Node
	Children []*Node

	Points []mgl32.Vec3
}

func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

func contains(local mgl32.Vec3) bool {
	return mgl32.Abs(local.X()) <= 0.5 && mgl32.Abs(local.Y()) <= 0.5
}

// Contains reports whether a point given in parent space lies inside the cell.
func (n *Node) Contains(parentPoint mgl32.Vec3) bool {
	return contains(n.Transform.InverseTransformPoint(parentPoint))
}

// childContaining takes a point in n's local space and returns the child
// holding it together with the point converted into that child's space.
func (n *Node) childContaining(local mgl32.Vec3) (*Node, mgl32.Vec3) {
	for _, c := range n.Children {
		if cl := c.Transform.InverseTransformPoint(local); contains(cl) {
			return c, cl
		}
	}
	return nil, local
}

// WorldMatrix composes local-to-parent matrices up to the root.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.Transform.LocalToParentMatrix()
	for p := n.Parent; p != nil; p = p.Parent {
		m = p.Transform.LocalToParentMatrix().Mul4(m)
	}
	return m
}

// ToLocal converts a world point into n's local space.
func (n *Node) ToLocal(world mgl32.Vec3) mgl32.Vec3 {
	chain := make([]*Node, 0, n.Depth+1)
	for c := n; c != nil; c = c.Parent {
		chain = append(chain, c)
	}
	p := world
	for i := len(chain) - 1; i >= 0; i-- {
		p = chain[i].Transform.InverseTransformPoint(p)
	}
	return p
}

// ToWorld converts a point from n's local space into world space.
func (n *Node) ToWorld(local mgl32.Vec3) mgl32.Vec3 {
	p := local
	for c := n; c != nil; c = c.Parent {
		p = c.Transform.TransformPoint(p)
	}
	return p
}
