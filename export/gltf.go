package export

import (
	"io"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/mogaika/quadtree_viewer/scene"
)

// cell outline in node local space, drawn as line loop
var cellOutline = [][3]float32{
	{-0.5, -0.5, 0},
	{0.5, -0.5, 0},
	{0.5, 0.5, 0},
	{-0.5, 0.5, 0},
}

// SceneToGLTF converts snapshot into node hierarchy. Every node keeps its
// local TRS and references a shared outline mesh.
func SceneToGLTF(s *scene.Snapshot) *gltf.Document {
	doc := gltf.NewDocument()

	positions := modeler.WritePosition(doc, cellOutline)
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name: "cell",
		Primitives: []*gltf.Primitive{
			&gltf.Primitive{
				Mode:       gltf.PrimitiveLineLoop,
				Attributes: map[string]uint32{gltf.POSITION: positions},
			},
		},
	})
	meshIndex := uint32(len(doc.Meshes) - 1)

	for _, ns := range s.Nodes {
		t := ns.Transform
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        ns.Name,
			Mesh:        gltf.Index(meshIndex),
			Translation: [3]float32(t.Position),
			Rotation:    [4]float32{t.Rotation.V[0], t.Rotation.V[1], t.Rotation.V[2], t.Rotation.W},
			Scale:       [3]float32(t.Scale),
			Extras: map[string]interface{}{
				"path":   ns.Path,
				"depth":  ns.Depth,
				"points": ns.Points,
			},
		})
	}

	for iNode, ns := range s.Nodes {
		if ns.Parent < 0 {
			doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(iNode))
		} else {
			parent := doc.Nodes[ns.Parent]
			parent.Children = append(parent.Children, uint32(iNode))
		}
	}
	return doc
}

// Write encodes doc as .glb when binary is set, otherwise as .gltf json
// with buffers embedded as data uri.
func Write(w io.Writer, doc *gltf.Document, binary bool) error {
	if !binary {
		for _, b := range doc.Buffers {
			if b.URI == "" {
				b.EmbeddedResource()
			}
		}
	}
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = binary
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrapf(err, "Failed to encode gltf")
	}
	return nil
}
