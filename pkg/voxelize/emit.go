package voxelize

import (
	"fmt"

	"github.com/tezzeroth/voxcollide/pkg/scene"
	"github.com/tezzeroth/voxcollide/pkg/voxel"
)

// Shapes selects which primitive types the emitter produces. Multiple
// enabled shapes are additive: each enabled shape emits its own primitive
// for every occupied voxel. That mirrors the documented host behavior and
// is not a bug.
type Shapes struct {
	Boxes    bool
	Spheres  bool
	Capsules bool
}

// Enabled reports whether any shape is selected.
func (s Shapes) Enabled() bool {
	return s.Boxes || s.Spheres || s.Capsules
}

// EmitPrimitives walks the occupied voxels in grid scan order and sends one
// placement per enabled shape per voxel to the sink. Names are derived from
// the grid index and shape, so they are unique within a run. Returns the
// number of primitives emitted.
func EmitPrimitives(g *voxel.Grid, shapes Shapes, sink scene.Sink) (int, error) {
	enabled := make([]scene.Shape, 0, 3)
	if shapes.Boxes {
		enabled = append(enabled, scene.ShapeBox)
	}
	if shapes.Spheres {
		enabled = append(enabled, scene.ShapeSphere)
	}
	if shapes.Capsules {
		enabled = append(enabled, scene.ShapeCapsule)
	}

	emitted := 0
	for idx := range g.MarkedVoxels() {
		center := g.Center(idx)
		for _, shape := range enabled {
			p := scene.Placement{
				Name:   fmt.Sprintf("collider_%s_%d_%d_%d", shape, idx[0], idx[1], idx[2]),
				Shape:  shape,
				Center: center,
				Size:   g.VoxelSize,
			}
			if err := sink.EmitPrimitive(p); err != nil {
				return emitted, fmt.Errorf("voxelize: emit %s: %w", p.Name, err)
			}
			emitted++
		}
	}
	return emitted, nil
}
