package session

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
)

// Default configuration values, matching the host tool's property defaults.
const (
	DefaultVoxelSize  = 0.5
	DefaultResolution = 32
	MinResolution     = 4
	MaxResolution     = 256
)

// ContainerName is the container every run emits primitives into.
const ContainerName = "VCG_Colliders"

// MergedMeshName names the single mesh produced in merge mode.
const MergedMeshName = "collider_merged"

// Config is the immutable per-run property bag. Construct with
// DefaultConfig and adjust fields before starting a run; a Session never
// mutates it.
type Config struct {
	// VoxelSize is the cubic cell edge length in world units. When zero,
	// the effective size is derived from Resolution instead.
	VoxelSize float64
	// Resolution is the grid density used only when VoxelSize is zero:
	// the longest bounding box axis is divided into Resolution voxels.
	Resolution int

	UseBoxes    bool
	UseSpheres  bool
	UseCapsules bool

	// MergeOutput replaces individual primitives with one sealed mesh
	// equivalent to the union of the box volumes.
	MergeOutput bool

	// Workers bounds the goroutines used for classification. Values <= 1
	// classify sequentially; the result is identical either way.
	Workers int
}

// DefaultConfig returns the standard property values: 0.5 voxels, boxes and
// spheres on, capsules and merging off.
func DefaultConfig() Config {
	return Config{
		VoxelSize:  DefaultVoxelSize,
		Resolution: DefaultResolution,
		UseBoxes:   true,
		UseSpheres: true,
	}
}

// Validate checks the configuration before a run starts.
func (c Config) Validate() error {
	if c.VoxelSize < 0 {
		return fmt.Errorf("session: voxel size must not be negative, got %v", c.VoxelSize)
	}
	if c.VoxelSize == 0 {
		if c.Resolution < MinResolution || c.Resolution > MaxResolution {
			return fmt.Errorf("session: resolution %d outside %d..%d", c.Resolution, MinResolution, MaxResolution)
		}
	}
	return nil
}

// EffectiveVoxelSize resolves the voxel size for the given world bounds:
// an explicit VoxelSize wins, otherwise the longest axis is split into
// Resolution cells. Degenerate zero-extent bounds yield zero; the caller
// treats that as degenerate geometry.
func (c Config) EffectiveVoxelSize(bounds sdf.Box3) float64 {
	if c.VoxelSize > 0 {
		return c.VoxelSize
	}
	size := bounds.Max.Sub(bounds.Min)
	longest := size.X
	if size.Y > longest {
		longest = size.Y
	}
	if size.Z > longest {
		longest = size.Z
	}
	return longest / float64(c.Resolution)
}
