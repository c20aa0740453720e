package cmd

import (
	"github.com/spf13/cobra"
)

const AppName = "jhovego"

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   AppName,
		Short: AppName + " - file format identification, validation and characterization",
	}

	rootCmd.AddCommand(DefineIdentifyCommand())
	rootCmd.AddCommand(DefineFormatsCommand())

	return rootCmd.Execute()
}
