package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "passage",
	Short: "Markup-preserving translation proxy",
	Long:  "Translates text through third-party engines while shielding HTML tags,\nentities, and colons from corruption, restoring them afterward.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config YAML (default: $PASSAGE_CONFIG, then ~/.passage/config.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
