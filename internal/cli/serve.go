package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tradejournal/internal/metrics"
	"tradejournal/internal/server"
)

// addServeCommand adds the HTTP server command.
func addServeCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports and goals over HTTP",
		Long: `Start the HTTP API:

  GET /api/v1/users/:userID/performance
  GET /api/v1/users/:userID/goals
  GET /healthz, /readyz, /metrics`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("listen"); addr != "" {
				app.Config.Server.ListenAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if app.Metrics == nil {
				app.Metrics = metrics.NewRegistry()
			}
			engine, err := app.engine(ctx)
			if err != nil {
				return err
			}
			app.Metrics.RegisterPool(app.Pool)

			srv := server.New(app.Config.Server, engine, app.Store, app.Metrics, app.Logger)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("listen", "", "listen address (overrides server.listen_addr)")
	rootCmd.AddCommand(cmd)
}
