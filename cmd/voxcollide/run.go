package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tezzeroth/voxcollide/pkg/engine"
	"github.com/tezzeroth/voxcollide/pkg/scene"
	"github.com/tezzeroth/voxcollide/pkg/session"
)

var runCmd = &cobra.Command{
	Use:   "run <script.lisp>",
	Short: "Evaluate a collider script and generate from its plan",
	Long: `run evaluates a Lisp collider script into a generation plan and executes
it. Scripts declare mesh objects, transforms, a selection and a config:

    (load-stl "hull.stl" :name "hull")
    (translate "hull" (vec3 0 0 1.5))
    (config :voxel-size 0.25 :boxes true :spheres false)

An explicit :voxel-size always wins; (config :resolution n) without a
:voxel-size derives the size by splitting the longest bounding-box axis
into n voxels.
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		plan, evalErrs, err := engine.NewEngine().Evaluate(string(source))
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if len(evalErrs) > 0 {
			for _, e := range evalErrs {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", args[0], e.Error())
			}
			return fmt.Errorf("run: script evaluation failed")
		}

		// Flags and config file layer on top of the script's config.
		cfg := plan.Config
		if err := layerFlags(cmd, &cfg); err != nil {
			return err
		}

		sink := scene.NewCollection()
		sess := session.New(cfg, session.WithLogger(newLogger(cmd)))
		var target scene.Source
		if sel := plan.Scene.Selected(); sel != nil {
			target = sel
		}
		report, err := sess.Run(target, sink)
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out != "" {
			if err := writeCollectionSTL(out, sink); err != nil {
				return err
			}
		}
		buffers, _ := cmd.Flags().GetString("buffers")
		if buffers != "" {
			if err := writeBuffersJSON(buffers, sink); err != nil {
				return err
			}
		}
		printReport(cmd, report, sink)
		return nil
	},
}

// layerFlags applies the yaml defaults file and explicitly set flags over a
// script-provided config.
func layerFlags(cmd *cobra.Command, cfg *session.Config) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		if err := loadFileConfig(path, cfg); err != nil {
			return err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("voxel-size") {
		cfg.VoxelSize, _ = flags.GetFloat64("voxel-size")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	return nil
}

func init() {
	runCmd.Flags().Float64("voxel-size", session.DefaultVoxelSize, "override the script's voxel size")
	runCmd.Flags().Int("workers", 0, "parallel classification workers")
	runCmd.Flags().StringP("out", "o", "", "write generated geometry to an STL file")
	runCmd.Flags().String("buffers", "", "write render buffers to a json file")
	rootCmd.AddCommand(runCmd)
}
