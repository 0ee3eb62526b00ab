package scene

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Object is one entry of the in-memory scene: a name, a type tag, local
// triangle geometry and a local-to-world transform.
type Object struct {
	Name string
	Type ObjectType

	tris      []*sdf.Triangle3
	transform sdf.M44

	boundsOnce bool
	bounds     sdf.Box3
}

// NewMeshObject builds a mesh object from a local-space triangle soup with
// an identity world transform.
func NewMeshObject(name string, tris []*sdf.Triangle3) *Object {
	return &Object{
		Name:      name,
		Type:      TypeMesh,
		tris:      tris,
		transform: sdf.Identity3d(),
	}
}

// NewEmptyObject builds a non-mesh placeholder object. Useful for
// exercising the mesh-type precondition.
func NewEmptyObject(name string) *Object {
	return &Object{
		Name:      name,
		Type:      TypeEmpty,
		transform: sdf.Identity3d(),
	}
}

// SetTransform replaces the object's local-to-world transform.
func (o *Object) SetTransform(m sdf.M44) {
	o.transform = m
}

// Translate post-multiplies a translation onto the current transform.
func (o *Object) Translate(v v3.Vec) {
	o.transform = sdf.Translate3d(v).Mul(o.transform)
}

// Scale post-multiplies a per-axis scale onto the current transform.
func (o *Object) Scale(v v3.Vec) {
	o.transform = sdf.Scale3d(v).Mul(o.transform)
}

// ObjectType implements Source.
func (o *Object) ObjectType() ObjectType {
	return o.Type
}

// WorldTransform implements Source.
func (o *Object) WorldTransform() sdf.M44 {
	return o.transform
}

// Triangles implements Source. The returned slice is shared, not copied.
func (o *Object) Triangles() []*sdf.Triangle3 {
	return o.tris
}

// PolygonCount implements Source.
func (o *Object) PolygonCount() int {
	return len(o.tris)
}

// LocalBounds implements Source. The box is computed from the triangle
// vertices on first use and cached; an empty mesh yields a degenerate box
// at the origin.
func (o *Object) LocalBounds() sdf.Box3 {
	if o.boundsOnce {
		return o.bounds
	}
	min := v3.Vec{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	max := min.Neg()
	for _, t := range o.tris {
		for i := 0; i < 3; i++ {
			min = min.Min(t[i])
			max = max.Max(t[i])
		}
	}
	if len(o.tris) == 0 {
		min = v3.Vec{}
		max = v3.Vec{}
	}
	o.bounds = sdf.Box3{Min: min, Max: max}
	o.boundsOnce = true
	return o.bounds
}
