package voxelize

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/tezzeroth/voxcollide/pkg/voxel"
)

// faceDir describes one of the six voxel face directions: the neighbor
// offset and the two in-plane axes spanning the face, ordered so the two
// emitted triangles wind outward.
type faceDir struct {
	offset voxel.Index
	normal v3.Vec
	tanU   v3.Vec
	tanV   v3.Vec
}

var faceDirs = [6]faceDir{
	{voxel.Index{-1, 0, 0}, v3.Vec{X: -1}, v3.Vec{Z: 1}, v3.Vec{Y: 1}},
	{voxel.Index{1, 0, 0}, v3.Vec{X: 1}, v3.Vec{Y: 1}, v3.Vec{Z: 1}},
	{voxel.Index{0, -1, 0}, v3.Vec{Y: -1}, v3.Vec{X: 1}, v3.Vec{Z: 1}},
	{voxel.Index{0, 1, 0}, v3.Vec{Y: 1}, v3.Vec{Z: 1}, v3.Vec{X: 1}},
	{voxel.Index{0, 0, -1}, v3.Vec{Z: -1}, v3.Vec{Y: 1}, v3.Vec{X: 1}},
	{voxel.Index{0, 0, 1}, v3.Vec{Z: 1}, v3.Vec{X: 1}, v3.Vec{Y: 1}},
}

// MergedMesh assembles a single sealed triangle mesh geometrically
// equivalent to the union of all occupied voxel cubes. For every occupied
// voxel, a face is emitted only where the neighboring cell is unmarked, so
// no internal faces exist; the mesh is watertight by construction.
//
// The neighbor test deliberately uses Marked, not Occupied: the
// boundary-solid query policy would suppress the faces on the grid
// boundary and leave the mesh open.
func MergedMesh(g *voxel.Grid) []*sdf.Triangle3 {
	var tris []*sdf.Triangle3
	half := g.VoxelSize / 2

	for idx := range g.MarkedVoxels() {
		center := g.Center(idx)
		for _, f := range faceDirs {
			n := voxel.Index{idx[0] + f.offset[0], idx[1] + f.offset[1], idx[2] + f.offset[2]}
			if g.Marked(n) {
				continue
			}
			// Face corners: center pushed to the face plane, spanned by
			// the two tangents. Winding is (u,v) counter-clockwise seen
			// from outside.
			fc := center.Add(f.normal.MulScalar(half))
			du := f.tanU.MulScalar(half)
			dv := f.tanV.MulScalar(half)
			c00 := fc.Sub(du).Sub(dv)
			c10 := fc.Add(du).Sub(dv)
			c11 := fc.Add(du).Add(dv)
			c01 := fc.Sub(du).Add(dv)
			tris = append(tris,
				&sdf.Triangle3{c00, c10, c11},
				&sdf.Triangle3{c00, c11, c01},
			)
		}
	}
	return tris
}
