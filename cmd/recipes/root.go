package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var sessionFlag string

	ctx := newCommandContext(&configFlag, &sessionFlag)

	rootCmd := &cobra.Command{
		Use:           "recipes",
		Short:         "Edit a recipe in the browser and export it as markdown",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVarP(&sessionFlag, "session", "s", "", "Session key overriding the configured one")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newResetCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
