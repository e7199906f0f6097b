package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/sonnik/internal/bootstrap"
	"github.com/at-ishikawa/sonnik/internal/server"
)

func newServeCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the bot over the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}

			p, err := newPipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			app := bootstrap.New()
			app.AddShutdownHook(func(ctx context.Context) error {
				return p.Close()
			})

			srv := server.New(cfg.Server, p.dispatcher)
			app.AddShutdownHook(func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			})

			if err := app.Run(cmd.Context(), func(ctx context.Context) error {
				return srv.ListenAndServe()
			}); err != nil {
				return fmt.Errorf("app.Run() > %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on. Overrides server.port in the config")
	return cmd
}
