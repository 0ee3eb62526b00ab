// Package tessellate converts collider output into flat render buffers
// suitable for uploading to a GPU or importing into a game engine. One
// buffer set is produced per collider mesh.
package tessellate

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"

	"github.com/tezzeroth/voxcollide/pkg/scene"
)

// Mesh is a triangle mesh in flat buffer form: vertices has 3 floats per
// vertex (x,y,z), normals has 3 floats per vertex, indices has 3 uint32s
// per triangle.
type Mesh struct {
	Name     string    `json:"name"`
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// FromTriangles flattens a triangle soup into buffers. Vertices are not
// deduplicated: collider meshes are faceted, so every triangle keeps its
// own three vertices carrying the face normal.
func FromTriangles(name string, tris []*sdf.Triangle3) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: make([]float32, 0, len(tris)*9),
		Normals:  make([]float32, 0, len(tris)*9),
		Indices:  make([]uint32, 0, len(tris)*3),
	}
	for _, t := range tris {
		n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
		if l := n.Length(); l > 0 {
			n = n.DivScalar(l)
		}
		for v := 0; v < 3; v++ {
			m.Indices = append(m.Indices, uint32(len(m.Vertices)/3))
			m.Vertices = append(m.Vertices,
				float32(t[v].X), float32(t[v].Y), float32(t[v].Z))
			m.Normals = append(m.Normals,
				float32(n.X), float32(n.Y), float32(n.Z))
		}
	}
	return m
}

// Collection tessellates everything a generation run emitted into the
// collection: merged meshes as-is, primitive placements through their
// shape meshes. Buffer sets come out in emission order, merged meshes
// first.
func Collection(c *scene.Collection) ([]*Mesh, error) {
	var meshes []*Mesh
	for _, name := range c.MeshNames() {
		meshes = append(meshes, FromTriangles(name, c.Meshes[name]))
	}
	for _, p := range c.Placements {
		tris, err := scene.PlacementMesh(p)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %s: %w", p.Name, err)
		}
		meshes = append(meshes, FromTriangles(p.Name, tris))
	}
	return meshes, nil
}
