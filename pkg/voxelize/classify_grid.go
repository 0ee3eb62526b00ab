package voxelize

import (
	"sync"

	"github.com/tezzeroth/voxcollide/pkg/voxel"
)

// ClassifyGrid runs the parity test on the center of every unmarked voxel
// and marks those that classify inside. Returns the number of voxels
// marked. workers <= 1 runs sequentially; larger values split the grid into
// x-slabs classified concurrently. The triangle set is read-only and every
// goroutine writes a disjoint set of cells, so the final occupancy is
// identical to the sequential result.
func (c *Classifier) ClassifyGrid(g *voxel.Grid, workers int) int {
	if workers <= 1 || g.Dims[0] < 2 {
		return c.classifySlab(g, 0, g.Dims[0])
	}
	if workers > g.Dims[0] {
		workers = g.Dims[0]
	}

	counts := make([]int, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * g.Dims[0] / workers
		hi := (w + 1) * g.Dims[0] / workers
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			counts[w] = c.classifySlab(g, lo, hi)
		}(w, lo, hi)
	}
	wg.Wait()

	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// classifySlab classifies the unmarked voxels with lo <= i < hi, in the
// grid's scan order. It only ever touches cells of its own slab, so
// concurrent slabs never race.
func (c *Classifier) classifySlab(g *voxel.Grid, lo, hi int) int {
	marked := 0
	for i := lo; i < hi; i++ {
		for j := 0; j < g.Dims[1]; j++ {
			for k := 0; k < g.Dims[2]; k++ {
				idx := voxel.Index{i, j, k}
				if g.Marked(idx) {
					continue
				}
				if c.Inside(g.Center(idx)) {
					g.Mark(idx)
					marked++
				}
			}
		}
	}
	return marked
}
