package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docbridge/internal/logging"
	"docbridge/internal/server"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bindFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API",
		Long: `Run the docbridge HTTP API in the foreground.

Only one server may run per log directory; a lock file enforces this.
Set [api] token (or DOCBRIDGE_API_TOKEN) to require a bearer token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bindFlag != "" {
				cfg.API.Bind = bindFlag
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			opts := []server.Option{server.WithLogger(logger)}
			store := ctx.openHistory(cfg, logger)
			if store != nil {
				defer store.Close()
				opts = append(opts, server.WithHistory(store))
			}
			orchestrator := ctx.newOrchestrator(cfg, logger, store)

			srv, err := server.New(cfg, orchestrator, ctx.newStager(cfg, logger), opts...)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(runCtx)
		},
	}

	cmd.Flags().StringVar(&bindFlag, "bind", "", "Override [api] bind (host:port)")
	return cmd
}
