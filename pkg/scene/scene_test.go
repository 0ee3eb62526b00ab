package scene

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestSceneAddSelectsNewObject(t *testing.T) {
	s := NewScene()
	if s.Selected() != nil {
		t.Fatal("fresh scene should have no selection")
	}

	a := NewMeshObject("a", BoxMesh(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1}))
	s.Add(a)
	if got := s.Selected(); got != a {
		t.Errorf("selection = %v, want a", got)
	}

	b := NewEmptyObject("b")
	s.Add(b)
	if got := s.Selected(); got != b {
		t.Errorf("selection after second add = %v, want b", got)
	}
}

func TestSceneSelect(t *testing.T) {
	s := NewScene()
	s.Add(NewMeshObject("a", nil))
	s.Add(NewMeshObject("b", nil))

	if err := s.Select("a"); err != nil {
		t.Fatalf("Select(a): %v", err)
	}
	if s.Selected().Name != "a" {
		t.Errorf("selected = %q, want a", s.Selected().Name)
	}
	if err := s.Select("missing"); err == nil {
		t.Error("selecting a missing object should error")
	}
	// Failed select keeps the previous selection.
	if s.Selected().Name != "a" {
		t.Errorf("selection changed by failed select: %q", s.Selected().Name)
	}
}

func TestSceneLookupAndNames(t *testing.T) {
	s := NewScene()
	s.Add(NewMeshObject("first", nil))
	s.Add(NewMeshObject("second", nil))
	s.Add(NewMeshObject("first", nil)) // replace, keeps insertion slot

	if s.Lookup("second") == nil {
		t.Error("Lookup(second) = nil")
	}
	if s.Lookup("ghost") != nil {
		t.Error("Lookup(ghost) should be nil")
	}
	names := s.Names()
	if len(names) != 2 || names[0] != "first" || names[1] != "second" {
		t.Errorf("names = %v, want [first second]", names)
	}
}

func TestCollectionContract(t *testing.T) {
	c := NewCollection()
	if c.Created() {
		t.Error("fresh collection should not report created")
	}

	// Emission before the container exists breaks the contract.
	if err := c.EmitPrimitive(Placement{Name: "p"}); err == nil {
		t.Error("EmitPrimitive before EnsureContainer should error")
	}
	if err := c.EmitMergedMesh("m", nil); err == nil {
		t.Error("EmitMergedMesh before EnsureContainer should error")
	}

	if err := c.EnsureContainer("colliders"); err != nil {
		t.Fatalf("EnsureContainer: %v", err)
	}
	if !c.Created() || c.Name != "colliders" {
		t.Errorf("created = %v name = %q", c.Created(), c.Name)
	}

	// Re-ensuring with the same name reuses the container.
	if err := c.EnsureContainer("colliders"); err != nil {
		t.Errorf("repeat EnsureContainer: %v", err)
	}
	// Rebinding to another name is rejected.
	if err := c.EnsureContainer("other"); err == nil {
		t.Error("rebinding the collection should error")
	}

	if err := c.EmitPrimitive(Placement{Name: "p1", Shape: ShapeBox}); err != nil {
		t.Fatalf("EmitPrimitive: %v", err)
	}
	if err := c.EmitMergedMesh("merged", BoxMesh(v3.Vec{}, v3.Vec{X: 1, Y: 1, Z: 1})); err != nil {
		t.Fatalf("EmitMergedMesh: %v", err)
	}
	if len(c.Placements) != 1 {
		t.Errorf("placements = %d, want 1", len(c.Placements))
	}
	if names := c.MeshNames(); len(names) != 1 || names[0] != "merged" {
		t.Errorf("mesh names = %v, want [merged]", names)
	}
}

func TestPlacementDimensions(t *testing.T) {
	box := Placement{Shape: ShapeBox, Size: 0.5}
	if box.Radius() != 0 || box.HalfLength() != 0 {
		t.Errorf("box radius = %v halfLength = %v, want 0", box.Radius(), box.HalfLength())
	}

	sphere := Placement{Shape: ShapeSphere, Size: 0.5}
	if sphere.Radius() != 0.25 {
		t.Errorf("sphere radius = %v, want 0.25", sphere.Radius())
	}

	capsule := Placement{Shape: ShapeCapsule, Size: 0.5}
	if capsule.Radius() != 0.125 {
		t.Errorf("capsule radius = %v, want 0.125", capsule.Radius())
	}
	if capsule.HalfLength() != 0.25 {
		t.Errorf("capsule half length = %v, want 0.25", capsule.HalfLength())
	}
}

func TestShapeString(t *testing.T) {
	cases := map[Shape]string{
		ShapeBox:     "box",
		ShapeSphere:  "sphere",
		ShapeCapsule: "capsule",
	}
	for shape, want := range cases {
		if shape.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(shape), shape.String(), want)
		}
	}
}

func TestBoxMesh(t *testing.T) {
	tris := BoxMesh(v3.Vec{X: 1, Y: 2, Z: 3}, v3.Vec{X: 2, Y: 4, Z: 6})
	if len(tris) != 12 {
		t.Fatalf("triangles = %d, want 12", len(tris))
	}

	// Vertices span center +/- half size.
	min := tris[0][0]
	max := tris[0][0]
	for _, tri := range tris {
		for i := 0; i < 3; i++ {
			min = min.Min(tri[i])
			max = max.Max(tri[i])
		}
	}
	wantMin := v3.Vec{X: 0, Y: 0, Z: 0}
	wantMax := v3.Vec{X: 2, Y: 4, Z: 6}
	if min != wantMin || max != wantMax {
		t.Errorf("extent = %v..%v, want %v..%v", min, max, wantMin, wantMax)
	}

	// Outward winding: every triangle normal points away from the center.
	center := v3.Vec{X: 1, Y: 2, Z: 3}
	for i, tri := range tris {
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		toFace := tri[0].Add(tri[1]).Add(tri[2]).DivScalar(3).Sub(center)
		if n.Dot(toFace) <= 0 {
			t.Errorf("triangle %d wound inward", i)
		}
	}
}

func TestObjectLocalBounds(t *testing.T) {
	obj := NewMeshObject("cube", BoxMesh(v3.Vec{X: 5, Y: 0, Z: 0}, v3.Vec{X: 1, Y: 1, Z: 1}))
	b := obj.LocalBounds()
	wantMin := v3.Vec{X: 4.5, Y: -0.5, Z: -0.5}
	wantMax := v3.Vec{X: 5.5, Y: 0.5, Z: 0.5}
	if b.Min != wantMin || b.Max != wantMax {
		t.Errorf("bounds = %v..%v, want %v..%v", b.Min, b.Max, wantMin, wantMax)
	}

	// Transforms do not affect local bounds.
	obj.Translate(v3.Vec{X: 100})
	b = obj.LocalBounds()
	if b.Min != wantMin {
		t.Errorf("local bounds moved with transform: %v", b.Min)
	}
}

func TestObjectEmptyMeshBounds(t *testing.T) {
	obj := NewMeshObject("empty", nil)
	b := obj.LocalBounds()
	if b.Min != (v3.Vec{}) || b.Max != (v3.Vec{}) {
		t.Errorf("empty bounds = %v..%v, want origin", b.Min, b.Max)
	}
	if obj.PolygonCount() != 0 {
		t.Errorf("polygon count = %d, want 0", obj.PolygonCount())
	}
}

func TestObjectType(t *testing.T) {
	if NewMeshObject("m", nil).ObjectType() != TypeMesh {
		t.Error("mesh object type mismatch")
	}
	if NewEmptyObject("e").ObjectType() != TypeEmpty {
		t.Error("empty object type mismatch")
	}
	if TypeMesh.String() != "mesh" || TypeEmpty.String() != "empty" {
		t.Error("ObjectType strings wrong")
	}
}

func TestPlacementMeshBox(t *testing.T) {
	p := Placement{Name: "b", Shape: ShapeBox, Center: v3.Vec{X: 1}, Size: 0.5}
	tris, err := PlacementMesh(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(tris) != 12 {
		t.Errorf("box mesh triangles = %d, want 12", len(tris))
	}
}
