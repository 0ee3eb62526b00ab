package main

import (
	"github.com/spf13/cobra"

	"github.com/tezzeroth/voxcollide/pkg/scene"
	"github.com/tezzeroth/voxcollide/pkg/session"
	"github.com/tezzeroth/voxcollide/pkg/stl"
)

var generateCmd = &cobra.Command{
	Use:   "generate <input.stl>",
	Short: "Voxelize an STL mesh and generate collision primitives",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}

		tris, err := stl.Load(args[0])
		if err != nil {
			return err
		}
		target := scene.NewMeshObject(args[0], tris)

		sink := scene.NewCollection()
		sess := session.New(cfg, session.WithLogger(newLogger(cmd)))
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

func init() {
	addConfigFlags(generateCmd)
	generateCmd.Flags().StringP("out", "o", "", "write generated geometry to an STL file")
	generateCmd.Flags().String("buffers", "", "write render buffers to a json file")
	rootCmd.AddCommand(generateCmd)
}

// printReport writes the completion summary and any degradation warnings.
func printReport(cmd *cobra.Command, report *session.Report, sink *scene.Collection) {
	cmd.Printf("%s\n", report.Summary())
	for _, w := range report.Warnings {
		cmd.Printf("warning: %s\n", w)
	}
	for _, p := range sink.Placements {
		cmd.Printf("  %s\n", p)
	}
	if report.MergedMesh {
		cmd.Printf("  %s: %d triangles\n", session.MergedMeshName, report.MergedTriangles)
	}
}
