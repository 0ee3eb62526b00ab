package tessellate

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/tezzeroth/voxcollide/pkg/scene"
)

func TestFromTrianglesBox(t *testing.T) {
	tris := scene.BoxMesh(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})
	m := FromTriangles("cube", tris)

	if m.Name != "cube" {
		t.Errorf("name = %q, want cube", m.Name)
	}
	if m.TriangleCount() != 12 {
		t.Errorf("triangles = %d, want 12", m.TriangleCount())
	}
	if m.VertexCount() != 36 {
		t.Errorf("vertices = %d, want 36", m.VertexCount())
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Fatalf("normals = %d floats, vertices = %d floats", len(m.Normals), len(m.Vertices))
	}
	if m.IsEmpty() {
		t.Error("box mesh should not be empty")
	}

	// Indices are sequential and in range.
	for i, idx := range m.Indices {
		if idx != uint32(i) {
			t.Fatalf("index %d = %d, want sequential", i, idx)
		}
		if int(idx) >= m.VertexCount() {
			t.Fatalf("index %d out of range", idx)
		}
	}

	// Face normals are unit length and axis-aligned for a box.
	for v := 0; v < m.VertexCount(); v++ {
		nx := float64(m.Normals[v*3])
		ny := float64(m.Normals[v*3+1])
		nz := float64(m.Normals[v*3+2])
		l := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if math.Abs(l-1) > 1e-6 {
			t.Fatalf("normal %d has length %v", v, l)
		}
		if math.Abs(nx)+math.Abs(ny)+math.Abs(nz) > 1+1e-6 {
			t.Fatalf("normal %d = (%v,%v,%v) not axis-aligned", v, nx, ny, nz)
		}
	}
}

func TestFromTrianglesEmpty(t *testing.T) {
	m := FromTriangles("none", nil)
	if !m.IsEmpty() {
		t.Error("nil soup should produce an empty mesh")
	}
	if m.TriangleCount() != 0 || m.VertexCount() != 0 {
		t.Errorf("counts = %d/%d, want 0", m.TriangleCount(), m.VertexCount())
	}
}

func TestCollectionBuffers(t *testing.T) {
	c := scene.NewCollection()
	if err := c.EnsureContainer("colliders"); err != nil {
		t.Fatal(err)
	}
	merged := scene.BoxMesh(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})
	if err := c.EmitMergedMesh("collider_merged", merged); err != nil {
		t.Fatal(err)
	}
	box := scene.Placement{Name: "collider_box_0_0_0", Shape: scene.ShapeBox, Size: 0.5}
	if err := c.EmitPrimitive(box); err != nil {
		t.Fatal(err)
	}

	meshes, err := Collection(c)
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("meshes = %d, want 2", len(meshes))
	}
	// Merged meshes come first.
	if meshes[0].Name != "collider_merged" {
		t.Errorf("first mesh = %q, want collider_merged", meshes[0].Name)
	}
	if meshes[1].Name != "collider_box_0_0_0" {
		t.Errorf("second mesh = %q, want collider_box_0_0_0", meshes[1].Name)
	}
	for _, m := range meshes {
		if m.IsEmpty() {
			t.Errorf("mesh %q is empty", m.Name)
		}
	}
}
