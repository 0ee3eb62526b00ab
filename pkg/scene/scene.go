// Package scene defines the two narrow contracts between the collider
// generation core and its host: a read-only mesh source and a write-only
// primitive sink. It also provides an in-memory host implementation used by
// the CLI, the scripting engine and tests.
package scene

import (
	"fmt"
	"sort"

	"github.com/deadsy/sdfx/sdf"
)

// ObjectType tags what kind of object a scene entry is. Only mesh objects
// can be voxelized.
type ObjectType int

const (
	TypeMesh  ObjectType = iota // triangle geometry
	TypeEmpty                   // transform-only placeholder
)

func (t ObjectType) String() string {
	switch t {
	case TypeMesh:
		return "mesh"
	case TypeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Source is the read contract the core consumes: triangle soup plus a world
// transform. Implementations are read-only for the duration of a run.
type Source interface {
	// ObjectType reports whether the target is mesh-typed.
	ObjectType() ObjectType
	// WorldTransform returns the local-to-world transform.
	WorldTransform() sdf.M44
	// LocalBounds returns the untransformed axis-aligned bounding box of
	// the geometry.
	LocalBounds() sdf.Box3
	// Triangles returns the local-space triangle soup. Callers must not
	// mutate the returned slice.
	Triangles() []*sdf.Triangle3
	// PolygonCount returns the number of triangles.
	PolygonCount() int
}

// Sink is the write contract the core produces into. The core never touches
// host state except through these three calls.
type Sink interface {
	// EnsureContainer creates the named primitive container if absent and
	// reuses it if already present.
	EnsureContainer(name string) error
	// EmitPrimitive places one primitive into the container.
	EmitPrimitive(p Placement) error
	// EmitMergedMesh places a single combined mesh into the container.
	EmitMergedMesh(name string, tris []*sdf.Triangle3) error
}

// Scene is a minimal in-memory object store standing in for a host scene
// graph. It tracks named objects and a single active selection.
type Scene struct {
	objects  map[string]*Object
	order    []string
	selected string
}

// NewScene returns an empty scene with nothing selected.
func NewScene() *Scene {
	return &Scene{objects: make(map[string]*Object)}
}

// Add inserts an object, replacing any object of the same name, and makes
// it the active selection.
func (s *Scene) Add(o *Object) {
	if _, exists := s.objects[o.Name]; !exists {
		s.order = append(s.order, o.Name)
	}
	s.objects[o.Name] = o
	s.selected = o.Name
}

// Select makes the named object the active selection.
func (s *Scene) Select(name string) error {
	if _, ok := s.objects[name]; !ok {
		return fmt.Errorf("scene: no object named %q", name)
	}
	s.selected = name
	return nil
}

// Selected returns the active object, or nil if nothing is selected.
func (s *Scene) Selected() *Object {
	if s.selected == "" {
		return nil
	}
	return s.objects[s.selected]
}

// Lookup returns the named object, or nil.
func (s *Scene) Lookup(name string) *Object {
	return s.objects[name]
}

// Names returns object names in insertion order.
func (s *Scene) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Collection is an in-memory Sink recording everything the core emits.
// It doubles as the "named container" of the host contract.
type Collection struct {
	// Name is set by the first EnsureContainer call and reused afterwards.
	Name string
	// Placements holds emitted primitives in emission order.
	Placements []Placement
	// Meshes holds merged meshes keyed by name.
	Meshes map[string][]*sdf.Triangle3

	ensured int
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{Meshes: make(map[string][]*sdf.Triangle3)}
}

// EnsureContainer records the container name. Repeat calls with the same
// name reuse the container; a different name is rejected because a run only
// ever targets one container.
func (c *Collection) EnsureContainer(name string) error {
	if c.ensured > 0 && c.Name != name {
		return fmt.Errorf("scene: collection already bound to %q, cannot rebind to %q", c.Name, name)
	}
	c.Name = name
	c.ensured++
	return nil
}

// Created reports whether EnsureContainer has ever been called.
func (c *Collection) Created() bool {
	return c.ensured > 0
}

// EmitPrimitive appends a placement.
func (c *Collection) EmitPrimitive(p Placement) error {
	if c.ensured == 0 {
		return fmt.Errorf("scene: primitive %q emitted before container", p.Name)
	}
	c.Placements = append(c.Placements, p)
	return nil
}

// EmitMergedMesh stores a merged mesh under name.
func (c *Collection) EmitMergedMesh(name string, tris []*sdf.Triangle3) error {
	if c.ensured == 0 {
		return fmt.Errorf("scene: merged mesh %q emitted before container", name)
	}
	c.Meshes[name] = tris
	return nil
}

// MeshNames returns the merged mesh names in sorted order.
func (c *Collection) MeshNames() []string {
	names := make([]string, 0, len(c.Meshes))
	for n := range c.Meshes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
