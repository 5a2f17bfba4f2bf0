package main

import (
	"fmt"

	"github.com/spf13/cobra"

	recipes "github.com/goliatone/go-recipes"
)

func newResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the recipe persisted for the session",
		Long:  "Delete the recipe persisted for the session. The next start offers the seed recipe again.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withModule(cmd, func(module *recipes.Module) error {
				key := module.Container().StoreKey()
				if err := module.Store().Delete(cmd.Context(), key); err != nil {
					return fmt.Errorf("delete stored recipe: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed stored recipe for session %q\n", module.Session().Key())
				return nil
			})
		},
	}
}
