package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/modites/pkg/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit, and build time of modctl.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if GetOutput() == "json" {
			data, _ := json.MarshalIndent(config.GetBuildInfo(), "", "  ")
			fmt.Fprintln(out, string(data))
		} else {
			fmt.Fprintln(out, config.VersionString("modctl"))
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
