// Package voxel provides the dense occupancy grid used during collider
// generation. The grid is a fixed-size boolean array overlaid on a mesh's
// world-space bounding box, indexed by integer voxel coordinates.
package voxel

import (
	"fmt"
	"iter"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Index identifies a voxel by its integer grid coordinates.
type Index [3]int

func (i Index) String() string {
	return fmt.Sprintf("(%d,%d,%d)", i[0], i[1], i[2])
}

// Grid is a dense boolean occupancy grid over an axis-aligned bounding box.
// Cells are stored in a single flat slice with row-major stride indexing;
// no per-cell allocation. A Grid is built once per generation run and
// discarded after emission.
type Grid struct {
	// Bounds is the world-space box the grid covers. Immutable after New.
	Bounds sdf.Box3
	// VoxelSize is the cubic cell edge length. Always positive.
	VoxelSize float64
	// Dims holds the cell count along each axis:
	// Dims[i] == ceil((Bounds.Max-Bounds.Min)[i] / VoxelSize).
	Dims Index

	cells []bool
}

// New builds an all-empty grid covering bounds with cubic cells of edge
// voxelSize. A zero-extent axis yields a zero dim and therefore a grid with
// no cells; that is a degenerate input, not an error.
func New(bounds sdf.Box3, voxelSize float64) (*Grid, error) {
	if voxelSize <= 0 {
		return nil, fmt.Errorf("voxel: voxel size must be positive, got %v", voxelSize)
	}
	size := bounds.Max.Sub(bounds.Min)
	if size.X < 0 || size.Y < 0 || size.Z < 0 {
		return nil, fmt.Errorf("voxel: inverted bounds min %v max %v", bounds.Min, bounds.Max)
	}
	dims := Index{
		int(math.Ceil(size.X / voxelSize)),
		int(math.Ceil(size.Y / voxelSize)),
		int(math.Ceil(size.Z / voxelSize)),
	}
	return &Grid{
		Bounds:    bounds,
		VoxelSize: voxelSize,
		Dims:      dims,
		cells:     make([]bool, dims[0]*dims[1]*dims[2]),
	}, nil
}

// cell converts an in-range index to its flat slice offset.
func (g *Grid) cell(idx Index) int {
	return (idx[0]*g.Dims[1]+idx[1])*g.Dims[2] + idx[2]
}

// Len returns the total number of cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// InRange reports whether idx addresses a cell of the grid.
func (g *Grid) InRange(idx Index) bool {
	for axis := 0; axis < 3; axis++ {
		if idx[axis] < 0 || idx[axis] >= g.Dims[axis] {
			return false
		}
	}
	return true
}

// IndexOf projects a world-space point onto integer grid coordinates by
// truncation. The result is not clamped; callers must check InRange before
// mutating.
func (g *Grid) IndexOf(p v3.Vec) Index {
	rel := p.Sub(g.Bounds.Min).DivScalar(g.VoxelSize)
	return Index{int(rel.X), int(rel.Y), int(rel.Z)}
}

// Center returns the world-space center of the voxel at idx.
func (g *Grid) Center(idx Index) v3.Vec {
	return g.Bounds.Min.Add(v3.Vec{
		X: (float64(idx[0]) + 0.5) * g.VoxelSize,
		Y: (float64(idx[1]) + 0.5) * g.VoxelSize,
		Z: (float64(idx[2]) + 0.5) * g.VoxelSize,
	})
}

// Mark sets the cell at idx occupied. Out-of-range indices are a silent
// no-op: writes never corrupt the array, and failing loudly here would turn
// every boundary rounding artifact into a crash.
func (g *Grid) Mark(idx Index) {
	if g.InRange(idx) {
		g.cells[g.cell(idx)] = true
	}
}

// Occupied reports whether the voxel at idx is solid. Any index past the
// grid boundary reads as occupied: the space outside the bounding box is
// treated as a solid boundary so parity and neighbor tests cannot leak
// through the grid edge. This asymmetry with Mark is deliberate and must be
// preserved.
func (g *Grid) Occupied(idx Index) bool {
	if !g.InRange(idx) {
		return true
	}
	return g.cells[g.cell(idx)]
}

// Marked reports whether idx is in range and marked. Unlike Occupied it
// treats out-of-range as empty, which is what the merged-mesh face test
// needs so that faces on the grid boundary are generated.
func (g *Grid) Marked(idx Index) bool {
	return g.InRange(idx) && g.cells[g.cell(idx)]
}

// MarkedCount returns the number of occupied cells.
func (g *Grid) MarkedCount() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// EmptyVoxels returns a lazy, restartable enumeration of every unmarked
// index in row-major scan order (x outermost, then y, then z). Re-ranging
// without mutation yields the identical sequence.
func (g *Grid) EmptyVoxels() iter.Seq[Index] {
	return g.scan(false)
}

// MarkedVoxels returns the occupied indices in the same deterministic scan
// order as EmptyVoxels.
func (g *Grid) MarkedVoxels() iter.Seq[Index] {
	return g.scan(true)
}

func (g *Grid) scan(want bool) iter.Seq[Index] {
	return func(yield func(Index) bool) {
		for i := 0; i < g.Dims[0]; i++ {
			for j := 0; j < g.Dims[1]; j++ {
				for k := 0; k < g.Dims[2]; k++ {
					idx := Index{i, j, k}
					if g.cells[g.cell(idx)] == want {
						if !yield(idx) {
							return
						}
					}
				}
			}
		}
	}
}
