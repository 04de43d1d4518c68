package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deltahdl/driftgate/internal/app"
	"github.com/deltahdl/driftgate/internal/edge"
	apperrors "github.com/deltahdl/driftgate/internal/errors"
)

const serveShutdownGrace = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the edge redirect locally, mirroring the deployed viewer-request function.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, logger, err := app.LoadConfig(ctx, viper.GetViper())
		if err != nil {
			reportRunError(err)
			return err
		}

		if cfg.Serve.TargetURL == "" {
			err := apperrors.NewUserFacing(apperrors.CodeConfigValidation,
				"no redirect target given", "Pass --target-url or set serve.target_url.")
			reportRunError(err)
			return err
		}

		rule, err := edge.NewRule(cfg.Serve.TargetURL)
		if err != nil {
			reportRunError(err)
			return err
		}

		server := &http.Server{
			Addr:    cfg.Serve.Listen,
			Handler: edge.NewHTTPAdapter(edge.NewFunction(rule)),
		}

		logger.Infof(ctx, "Serving %d redirect to %s on %s", rule.StatusCode, rule.TargetURL, cfg.Serve.Listen)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownGrace)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			reportRunError(err)
			return err
		}
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Listen address (default 127.0.0.1:8301)")
	serveCmd.Flags().String("target-url", "", "Absolute URL every request is redirected to")

	viper.BindPFlag("serve.listen", serveCmd.Flags().Lookup("listen"))
	viper.BindPFlag("serve.target_url", serveCmd.Flags().Lookup("target-url"))

	rootCmd.AddCommand(serveCmd)
}
