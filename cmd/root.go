package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	date    string
)

var rootCmd = &cobra.Command{
	Use:   "mentormagic",
	Short: "Mentor Magic session scheduler",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVarP(&date, "date", "d", "", "target date (YYYY-MM-DD)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
