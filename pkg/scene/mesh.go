package scene

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// previewMeshCells controls marching cubes resolution for curved primitive
// meshes. Colliders are coarse by nature; a fine tessellation just slows
// the host down.
const previewMeshCells = 64

// BoxMesh returns the 12-triangle surface of an axis-aligned box, outward
// wound. Used both as test geometry and for box primitive meshes, where
// marching cubes would only approximate the sharp edges.
func BoxMesh(center v3.Vec, size v3.Vec) []*sdf.Triangle3 {
	h := size.MulScalar(0.5)
	min := center.Sub(h)
	max := center.Add(h)

	// The 8 corners, bit i selects min/max per axis (x=4, y=2, z=1).
	var c [8]v3.Vec
	for i := 0; i < 8; i++ {
		c[i] = v3.Vec{X: min.X, Y: min.Y, Z: min.Z}
		if i&4 != 0 {
			c[i].X = max.X
		}
		if i&2 != 0 {
			c[i].Y = max.Y
		}
		if i&1 != 0 {
			c[i].Z = max.Z
		}
	}

	quads := [6][4]int{
		{0, 1, 3, 2}, // -x
		{4, 6, 7, 5}, // +x
		{0, 4, 5, 1}, // -y
		{2, 3, 7, 6}, // +y
		{0, 2, 6, 4}, // -z
		{1, 5, 7, 3}, // +z
	}

	tris := make([]*sdf.Triangle3, 0, 12)
	for _, q := range quads {
		tris = append(tris,
			&sdf.Triangle3{c[q[0]], c[q[1]], c[q[2]]},
			&sdf.Triangle3{c[q[0]], c[q[2]], c[q[3]]},
		)
	}
	return tris
}

// PlacementMesh tessellates a placed primitive into a world-positioned
// triangle mesh. Boxes are emitted analytically; spheres and capsules go
// through an SDF and marching cubes.
func PlacementMesh(p Placement) ([]*sdf.Triangle3, error) {
	if p.Shape == ShapeBox {
		return BoxMesh(p.Center, v3.Vec{X: p.Size, Y: p.Size, Z: p.Size}), nil
	}

	var s sdf.SDF3
	var err error
	switch p.Shape {
	case ShapeSphere:
		s, err = sdf.Sphere3D(p.Radius())
	case ShapeCapsule:
		// A cylinder with full-radius edge rounding is a capsule; total
		// height stays p.Size so the caps remain inside the voxel.
		s, err = sdf.Cylinder3D(p.Size, p.Radius(), p.Radius())
	default:
		return nil, fmt.Errorf("scene: unknown shape %v", p.Shape)
	}
	if err != nil {
		return nil, fmt.Errorf("scene: %s primitive: %w", p.Shape, err)
	}

	s = sdf.Transform3D(s, sdf.Translate3d(p.Center))
	r := render.NewMarchingCubesUniform(previewMeshCells)
	return render.ToTriangles(s, r), nil
}
