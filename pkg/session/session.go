// Package session orchestrates one collider generation run: it validates
// preconditions, computes world bounds, builds the occupancy grid, drives
// sampling, classification and emission in sequence, and reports the
// outcome. A Session is single-threaded and run-to-completion; callers must
// serialize runs against the same target.
package session

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/tezzeroth/voxcollide/pkg/scene"
	"github.com/tezzeroth/voxcollide/pkg/voxel"
	"github.com/tezzeroth/voxcollide/pkg/voxelize"
)

// Report summarizes a completed run.
type Report struct {
	// Primitives is the number of primitive placements emitted. Zero with
	// MergedMesh false means "no primitives generated".
	Primitives int
	// MergedMesh is true when merge mode emitted the combined mesh.
	MergedMesh bool
	// MergedTriangles is the triangle count of the merged mesh.
	MergedTriangles int
	// Voxels and Occupied describe the grid after classification.
	Voxels   int
	Occupied int
	// Warnings carries non-fatal degradation notes (empty mesh, degenerate
	// bounds, nothing classified inside).
	Warnings []string
}

// Summary renders the completion message shown to the user.
func (r *Report) Summary() string {
	if r.MergedMesh {
		return fmt.Sprintf("generated merged collider mesh (%d triangles, %d voxels)", r.MergedTriangles, r.Occupied)
	}
	if r.Primitives == 0 {
		return "no primitives generated"
	}
	return fmt.Sprintf("generated %d collider primitives", r.Primitives)
}

// Session drives generation runs with a fixed configuration.
type Session struct {
	cfg   Config
	log   *slog.Logger
	state State
}

// Option adjusts a Session at construction.
type Option func(*Session)

// WithLogger attaches a logger for progress reporting. Without it the
// session is silent.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New creates a session. The configuration is validated on the first Run,
// not here, so construction never fails.
func New(cfg Config, opts ...Option) *Session {
	s := &Session{
		cfg:   cfg,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		state: StateIdle,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the stage the most recent run reached.
func (s *Session) State() State {
	return s.state
}

// Run executes one generation: target in, primitives out through sink.
// A PreconditionError aborts before any side effect on the sink; every
// later anomaly completes with warnings on the report.
func (s *Session) Run(target scene.Source, sink scene.Sink) (*Report, error) {
	s.state = StateValidating
	if err := s.validate(target); err != nil {
		s.state = StateFailed
		return nil, err
	}

	report := &Report{}

	// Bounds and grid.
	s.state = StateVoxelizing
	bounds := voxelize.WorldBounds(target)
	voxelSize := s.cfg.EffectiveVoxelSize(bounds)
	if voxelSize <= 0 {
		// Zero-extent bounds (e.g. empty mesh) with resolution-derived
		// sizing. Degenerate, not fatal.
		voxelSize = DefaultVoxelSize
		report.Warnings = append(report.Warnings, "zero-extent bounds, using default voxel size")
	}
	grid, err := voxel.New(bounds, voxelSize)
	if err != nil {
		s.state = StateFailed
		return nil, err
	}
	report.Voxels = grid.Len()
	s.log.Info("voxel grid built",
		"dims", fmt.Sprintf("%dx%dx%d", grid.Dims[0], grid.Dims[1], grid.Dims[2]),
		"voxel_size", voxelSize)
	if grid.Len() == 0 {
		report.Warnings = append(report.Warnings, "degenerate bounds produced an empty grid")
	}

	// World-space triangle set, built once, read-only afterwards.
	tris := voxelize.WorldTriangles(target)
	if len(tris) == 0 {
		report.Warnings = append(report.Warnings, "mesh has no polygons")
	}

	// Inside/outside classification over the empty voxels.
	s.state = StateClassifying
	classifier := voxelize.NewClassifier(tris)
	report.Occupied = classifier.ClassifyGrid(grid, s.cfg.Workers)
	s.log.Info("classification complete", "occupied", report.Occupied, "voxels", report.Voxels)
	if report.Occupied == 0 && len(tris) > 0 {
		report.Warnings = append(report.Warnings, "no voxel centers classified inside the mesh")
	}

	// Emission.
	s.state = StateEmitting
	if err := sink.EnsureContainer(ContainerName); err != nil {
		s.state = StateFailed
		return nil, fmt.Errorf("session: container: %w", err)
	}
	if s.cfg.MergeOutput {
		merged := voxelize.MergedMesh(grid)
		if err := sink.EmitMergedMesh(MergedMeshName, merged); err != nil {
			s.state = StateFailed
			return nil, fmt.Errorf("session: merged mesh: %w", err)
		}
		report.MergedMesh = true
		report.MergedTriangles = len(merged)
	} else {
		shapes := voxelize.Shapes{
			Boxes:    s.cfg.UseBoxes,
			Spheres:  s.cfg.UseSpheres,
			Capsules: s.cfg.UseCapsules,
		}
		n, err := voxelize.EmitPrimitives(grid, shapes, sink)
		if err != nil {
			s.state = StateFailed
			return nil, fmt.Errorf("session: %w", err)
		}
		report.Primitives = n
	}

	s.state = StateDone
	s.log.Info("run complete", "summary", report.Summary())
	return report, nil
}

// validate checks the run preconditions: a selection exists, it is
// mesh-typed, and the configuration is sane. A zero-polygon mesh passes
// validation and degrades to a zero-primitive report further down.
func (s *Session) validate(target scene.Source) error {
	if target == nil {
		return &PreconditionError{Reason: ReasonNoSelection}
	}
	if target.ObjectType() != scene.TypeMesh {
		return &PreconditionError{Reason: ReasonNotMesh}
	}
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	return nil
}
