package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/quadtree_viewer/entities"
)

type NodeSnapshot struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Depth  int    `json:"depth"`
	Parent int    `json:"parent"`
	Points int    `json:"points"`

	Transform entities.Snapshot `json:"transform"`
	World     mgl32.Mat4        `json:"world"`
}

// Snapshot is a frame copy of the tree, taken by the goroutine that owns
// the tree and read by anyone afterwards.
type Snapshot struct {
	Frame      uint64              `json:"frame"`
	Selected   string              `json:"selected,omitempty"`
	Convention entities.Convention `json:"convention"`
	Nodes      []NodeSnapshot      `json:"nodes"`
}

func (q *Quadtree) Snapshot() *Snapshot {
	s := &Snapshot{
		Convention: q.conv,
		Nodes:      make([]NodeSnapshot, 0, q.Len()),
	}
	index := make(map[*Node]int, q.Len())
	q.Walk(func(n *Node, world mgl32.Mat4) bool {
		parent := -1
		if n.Parent != nil {
			parent = index[n.Parent]
		}
		index[n] = len(s.Nodes)
		s.Nodes = append(s.Nodes, NodeSnapshot{
			Name:      n.Name,
			Path:      n.Path,
			Depth:     n.Depth,
			Parent:    parent,
			Points:    len(n.Points),
			Transform: n.Transform.Snapshot(),
			World:     world,
		})
		return true
	})
	return s
}

func (s *Snapshot) Find(path string) (*NodeSnapshot, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].Path == path {
			return &s.Nodes[i], true
		}
	}
	return nil, false
}
