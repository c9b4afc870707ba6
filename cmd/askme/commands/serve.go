package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcoe/askme/internal/printer"
	"github.com/rcoe/askme/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the chat HTTP server",
	Long: `Start the HTTP server exposing the chat pipeline:

  POST /chat          {"prompt": "...", "sessionId": "..."}
  GET  /download/{id} Staged artifact download
  GET  /healthz       Health check

The server runs until interrupted (SIGINT/SIGTERM) and shuts down
gracefully, letting in-flight queries finish.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := loadApp(configPath)
	if err != nil {
		return printer.ErrorWithContext(
			"Failed to start",
			err.Error(),
			map[string]string{"Config": configPath},
			[]string{"Check the configuration file and try again"},
		)
	}

	srv := server.New(app.Router, app.Store, app.Pinger, app.Config.HTTP.Listen)
	srv.WriteTimeout = writeBudget(app.Config)
	if err := srv.Start(); err != nil {
		return printer.Error("Failed to start HTTP server", err.Error(), nil)
	}

	printer.Success("AskMe server listening on %s\n", app.Config.HTTP.Listen)
	printer.Info("Advisors registered: %d\n", app.Registry.Size())

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	printer.Info("\nShutting down...\n")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return printer.Error("Shutdown failed", err.Error(), nil)
	}
	printer.Success("Server stopped\n")
	return nil
}
