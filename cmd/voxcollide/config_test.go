package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/tezzeroth/voxcollide/pkg/session"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voxcollide.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
voxel_size: 0.25
resolution: 64
boxes: false
spheres: true
capsules: true
merge: true
workers: 4
`)
	cfg := session.DefaultConfig()
	require.NoError(t, loadFileConfig(path, &cfg))

	require.Equal(t, 0.25, cfg.VoxelSize)
	require.Equal(t, 64, cfg.Resolution)
	require.False(t, cfg.UseBoxes)
	require.True(t, cfg.UseSpheres)
	require.True(t, cfg.UseCapsules)
	require.True(t, cfg.MergeOutput)
	require.Equal(t, 4, cfg.Workers)
}

// Absent yaml keys keep the built-in defaults, including false-valued
// toggles that must not be clobbered by zero values.
func TestLoadFileConfigPartial(t *testing.T) {
	path := writeConfigFile(t, "voxel_size: 1.5\n")
	cfg := session.DefaultConfig()
	require.NoError(t, loadFileConfig(path, &cfg))

	require.Equal(t, 1.5, cfg.VoxelSize)
	require.Equal(t, session.DefaultResolution, cfg.Resolution)
	require.True(t, cfg.UseBoxes)
	require.True(t, cfg.UseSpheres)
	require.False(t, cfg.UseCapsules)
	require.False(t, cfg.MergeOutput)
}

func TestLoadFileConfigErrors(t *testing.T) {
	cfg := session.DefaultConfig()
	require.Error(t, loadFileConfig(filepath.Join(t.TempDir(), "absent.yaml"), &cfg))

	bad := writeConfigFile(t, "voxel_size: [not, a, number]\n")
	require.Error(t, loadFileConfig(bad, &cfg))
}

// testCommand builds a throwaway command carrying the generation flags plus
// the persistent --config flag, the way the real commands see them.
func testCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	cmd.Flags().String("config", "", "")
	addConfigFlags(cmd)
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cmd := testCommand()
	require.NoError(t, cmd.Flags().Parse(nil))

	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	require.Equal(t, session.DefaultConfig(), cfg)
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := writeConfigFile(t, "voxel_size: 1.0\nworkers: 2\nmerge: true\n")

	cmd := testCommand()
	require.NoError(t, cmd.Flags().Parse([]string{
		"--config", path,
		"--voxel-size", "0.1",
		"--capsules",
	}))

	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)

	// Flag beats file.
	require.Equal(t, 0.1, cfg.VoxelSize)
	// File beats default.
	require.Equal(t, 2, cfg.Workers)
	require.True(t, cfg.MergeOutput)
	// Untouched flags keep defaults.
	require.True(t, cfg.UseBoxes)
	require.True(t, cfg.UseCapsules)
}

func TestResolveConfigBoolFlagOff(t *testing.T) {
	cmd := testCommand()
	require.NoError(t, cmd.Flags().Parse([]string{"--spheres=false"}))

	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	require.False(t, cfg.UseSpheres)
	require.True(t, cfg.UseBoxes)
}
