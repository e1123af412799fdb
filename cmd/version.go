package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/killallgit/voice-detector-api/api/version"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voice-detector-api %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
