package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Overridable at build time via -ldflags "-X jobpilot/cmd.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the jobpilot version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("%s %s\n", app, version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
