package main

import (
	"net/http"
	"os"
	"time"

	"github.com/aretw0/katsuyo"
	"github.com/aretw0/katsuyo/internal/cli"
	"github.com/aretw0/katsuyo/internal/presentation/tui"
	httpAdapter "github.com/aretw0/katsuyo/pkg/adapters/http"
	"github.com/aretw0/katsuyo/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the katsuyo engine in server mode, exposing a JSON API over HTTP.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		withMetrics, _ := cmd.Flags().GetBool("metrics")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		var metrics *observability.Metrics
		if withMetrics {
			metrics = observability.NewMetrics()
		}

		e, err := setup(sigCtx, cmd, "", metrics)
		if err != nil {
			return err
		}
		defer e.Close()

		var handlerOpts []httpAdapter.Option
		handlerOpts = append(handlerOpts, httpAdapter.WithLogger(e.logger))
		if metrics != nil {
			handlerOpts = append(handlerOpts, httpAdapter.WithMetrics(metrics.Handler()))
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           httpAdapter.NewHandler(e.engine, handlerOpts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		if cli.IsTerminal(os.Stderr) {
			tui.PrintBanner(os.Stderr, katsuyo.Version)
		}

		if err := httpAdapter.Serve(sigCtx, srv, 5*time.Second, e.logger); err != nil {
			return err
		}
		if sig := sigCtx.Signal(); sig != nil {
			e.logger.Info("stopped by signal", "signal", sig)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("metrics", true, "Expose Prometheus metrics on /metrics")
}
