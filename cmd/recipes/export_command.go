package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	recipes "github.com/goliatone/go-recipes"
	"github.com/goliatone/go-recipes/internal/download"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the session recipe as markdown",
		Long:  "Write the session recipe as markdown into --out, the configured export directory, or stdout when --out is '-'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withModule(cmd, func(module *recipes.Module) error {
				current, err := module.Recipe(cmd.Context())
				if err != nil {
					return err
				}
				text := module.Exporter().Format(current)

				dir := strings.TrimSpace(outDir)
				if dir == "-" {
					_, err := fmt.Fprint(cmd.OutOrStdout(), text)
					return err
				}
				if dir == "" {
					dir = module.Container().Config.Export.Dir
				}

				filename := download.Filename(current)
				if err := (download.Directory{Dir: dir}).Offer(cmd.Context(), filename, text); err != nil {
					return fmt.Errorf("export recipe: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", filepath.Join(dir, filename))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Destination directory, or '-' for stdout")
	return cmd
}
