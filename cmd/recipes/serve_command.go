package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	recipes "github.com/goliatone/go-recipes"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recipe form until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if trimmed := strings.TrimSpace(addr); trimmed != "" {
				cfg.HTTP.Addr = trimmed
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			module, err := recipes.New(runCtx, cfg, recipes.WithLogWriter(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer module.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Editing session %q on http://%s%s\n", cfg.Session.Key, cfg.HTTP.Addr, cfg.HTTP.BasePath)
			return module.Serve(runCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address overriding http.addr")
	return cmd
}
