package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog",
	Long: `serve starts the HTTP server. With --prebuild (the default) the newest posts
are generated before the first request is accepted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":3000", "listen address")
	serveCmd.Flags().Bool("prebuild", true, "generate the prebuilt pages before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, logger, err := newApp()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if v.GetBool("prebuild") {
		ctx, cancel := context.WithTimeout(cmd.Context(), app.Config.GenerateTimeout)
		slugs, err := app.Build(ctx)
		cancel()
		if err != nil {
			logger.Warn("prebuild failed, pages will be generated on demand", zap.Error(err))
		} else {
			logger.Info("prebuild finished", zap.Strings("slugs", slugs))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		app.Close()
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}
