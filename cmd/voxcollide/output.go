package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"

	"github.com/tezzeroth/voxcollide/pkg/scene"
	"github.com/tezzeroth/voxcollide/pkg/tessellate"
)

// writeCollectionSTL saves everything a run emitted into one STL file:
// the merged mesh if merge mode was active, otherwise the tessellated
// surfaces of all placed primitives concatenated.
func writeCollectionSTL(path string, sink *scene.Collection) error {
	var tris []*sdf.Triangle3

	for _, name := range sink.MeshNames() {
		tris = append(tris, sink.Meshes[name]...)
	}
	for _, p := range sink.Placements {
		m, err := scene.PlacementMesh(p)
		if err != nil {
			return fmt.Errorf("output: %s: %w", p.Name, err)
		}
		tris = append(tris, m...)
	}

	if len(tris) == 0 {
		return fmt.Errorf("output: nothing to write to %s", path)
	}
	return render.SaveSTL(path, tris)
}

// writeBuffersJSON saves the run's colliders as flat render buffers, one
// json object per collider mesh.
func writeBuffersJSON(path string, sink *scene.Collection) error {
	meshes, err := tessellate.Collection(sink)
	if err != nil {
		return err
	}
	if len(meshes) == 0 {
		return fmt.Errorf("output: nothing to write to %s", path)
	}
	data, err := json.MarshalIndent(meshes, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
