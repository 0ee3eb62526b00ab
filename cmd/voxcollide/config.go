package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tezzeroth/voxcollide/pkg/session"
)

// fileConfig is the yaml defaults file. Every field is optional; absent
// fields keep the built-in defaults.
type fileConfig struct {
	VoxelSize  *float64 `yaml:"voxel_size"`
	Resolution *int     `yaml:"resolution"`
	Boxes      *bool    `yaml:"boxes"`
	Spheres    *bool    `yaml:"spheres"`
	Capsules   *bool    `yaml:"capsules"`
	Merge      *bool    `yaml:"merge"`
	Workers    *int     `yaml:"workers"`
}

// loadFileConfig reads a yaml defaults file and applies it over cfg.
func loadFileConfig(path string, cfg *session.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	fc.apply(cfg)
	return nil
}

func (fc fileConfig) apply(cfg *session.Config) {
	if fc.VoxelSize != nil {
		cfg.VoxelSize = *fc.VoxelSize
	}
	if fc.Resolution != nil {
		cfg.Resolution = *fc.Resolution
	}
	if fc.Boxes != nil {
		cfg.UseBoxes = *fc.Boxes
	}
	if fc.Spheres != nil {
		cfg.UseSpheres = *fc.Spheres
	}
	if fc.Capsules != nil {
		cfg.UseCapsules = *fc.Capsules
	}
	if fc.Merge != nil {
		cfg.MergeOutput = *fc.Merge
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
}

// resolveConfig layers configuration sources for a command: built-in
// defaults, then the optional yaml file, then any explicitly set flags.
func resolveConfig(cmd *cobra.Command) (session.Config, error) {
	cfg := session.DefaultConfig()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := loadFileConfig(path, &cfg); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("voxel-size") {
		cfg.VoxelSize, _ = flags.GetFloat64("voxel-size")
	}
	if flags.Changed("resolution") {
		cfg.Resolution, _ = flags.GetInt("resolution")
	}
	if flags.Changed("boxes") {
		cfg.UseBoxes, _ = flags.GetBool("boxes")
	}
	if flags.Changed("spheres") {
		cfg.UseSpheres, _ = flags.GetBool("spheres")
	}
	if flags.Changed("capsules") {
		cfg.UseCapsules, _ = flags.GetBool("capsules")
	}
	if flags.Changed("merge") {
		cfg.MergeOutput, _ = flags.GetBool("merge")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	return cfg, nil
}

// addConfigFlags registers the generation flags shared by commands that
// run a session.
func addConfigFlags(cmd *cobra.Command) {
	d := session.DefaultConfig()
	cmd.Flags().Float64("voxel-size", d.VoxelSize, "voxel edge length in world units (0 = derive from resolution)")
	cmd.Flags().Int("resolution", d.Resolution, "grid density when voxel-size is 0")
	cmd.Flags().Bool("boxes", d.UseBoxes, "emit box primitives")
	cmd.Flags().Bool("spheres", d.UseSpheres, "emit sphere primitives")
	cmd.Flags().Bool("capsules", d.UseCapsules, "emit capsule primitives")
	cmd.Flags().Bool("merge", d.MergeOutput, "merge output into a single sealed mesh")
	cmd.Flags().Int("workers", 0, "parallel classification workers (<=1 sequential)")
}
