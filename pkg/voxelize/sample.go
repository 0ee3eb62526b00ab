// Package voxelize turns a mesh into an occupancy grid and the grid back
// into collision primitives. It holds the three pipeline stages between the
// scene contracts and the session orchestrator: sampling world-space
// triangles, classifying voxel centers against the mesh, and emitting
// primitives or a merged surface mesh.
package voxelize

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/tezzeroth/voxcollide/pkg/scene"
)

// WorldTriangles applies the source's world transform to its local triangle
// soup. The result is built once per run and is read-only afterwards.
func WorldTriangles(src scene.Source) []*sdf.Triangle3 {
	m := src.WorldTransform()
	local := src.Triangles()
	out := make([]*sdf.Triangle3, 0, len(local))
	for _, t := range local {
		out = append(out, &sdf.Triangle3{
			m.MulPosition(t[0]),
			m.MulPosition(t[1]),
			m.MulPosition(t[2]),
		})
	}
	return out
}

// WorldBounds transforms the 8 corners of the source's local bounding box
// and takes their axis-aligned extent. For rotated objects this is looser
// than the tight world-space bound of the geometry, which only costs a few
// voxels that classify as outside.
func WorldBounds(src scene.Source) sdf.Box3 {
	local := src.LocalBounds()
	m := src.WorldTransform()

	first := true
	var min, max v3.Vec
	for i := 0; i < 8; i++ {
		corner := v3.Vec{X: local.Min.X, Y: local.Min.Y, Z: local.Min.Z}
		if i&4 != 0 {
			corner.X = local.Max.X
		}
		if i&2 != 0 {
			corner.Y = local.Max.Y
		}
		if i&1 != 0 {
			corner.Z = local.Max.Z
		}
		w := m.MulPosition(corner)
		if first {
			min, max = w, w
			first = false
			continue
		}
		min = min.Min(w)
		max = max.Max(w)
	}
	return sdf.Box3{Min: min, Max: max}
}
