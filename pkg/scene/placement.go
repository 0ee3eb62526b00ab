package scene

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Shape enumerates the supported collision primitive shapes.
type Shape int

const (
	ShapeBox Shape = iota
	ShapeSphere
	ShapeCapsule
)

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeSphere:
		return "sphere"
	case ShapeCapsule:
		return "capsule"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Placement is one primitive-creation request: a shape at a world-space
// center with a scalar size. Orientation is implicitly the world axes.
// Size is the edge length of the voxel the primitive fills; each shape
// derives its own dimensions from it (see Radius and HalfLength).
type Placement struct {
	// Name is a stable grid-index-derived identifier, unique within a run.
	Name   string
	Shape  Shape
	Center v3.Vec
	Size   float64
}

// Radius returns the shape's radius: half the voxel edge for spheres
// (inscribed), a quarter for capsules so the caps stay inside the voxel.
// Boxes have no radius and return zero.
func (p Placement) Radius() float64 {
	switch p.Shape {
	case ShapeSphere:
		return p.Size / 2
	case ShapeCapsule:
		return p.Size / 4
	default:
		return 0
	}
}

// HalfLength returns half the capsule's total end-to-end length along its
// +Z axis, zero for other shapes.
func (p Placement) HalfLength() float64 {
	if p.Shape == ShapeCapsule {
		return p.Size / 2
	}
	return 0
}

func (p Placement) String() string {
	return fmt.Sprintf("%s %s at (%.3f,%.3f,%.3f) size %.3f",
		p.Name, p.Shape, p.Center.X, p.Center.Y, p.Center.Z, p.Size)
}
