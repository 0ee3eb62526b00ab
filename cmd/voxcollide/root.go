package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tezzeroth/voxcollide/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "voxcollide",
	Short: "voxcollide turns triangle meshes into voxel collision primitives",
	Long: `voxcollide voxelizes a closed triangle mesh and emits simple collision
primitives (boxes, spheres, capsules) that approximate its solid interior,
or a single sealed mesh when merging is requested.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to a yaml defaults file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log progress to stderr")
}

// newLogger builds the logger for a command invocation, honoring --verbose.
func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return logging.NewNop()
	}
	return logging.New(slog.LevelDebug)
}
