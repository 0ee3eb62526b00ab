package main

import (
	"github.com/spf13/cobra"
)

// version is stamped by the release build; "dev" otherwise.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the voxcollide version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("voxcollide " + version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
