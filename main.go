package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"formrelay/pkg/api"
	"formrelay/pkg/clients/mautic"
	"formrelay/pkg/clients/turnstile"
	"formrelay/pkg/config"
	"formrelay/pkg/logging"
	"formrelay/pkg/services"
)

var port string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "formrelay",
		Short:         "Relay website contact form submissions to Mautic behind Turnstile",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	cmd.PersistentFlags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.AddCommand(serveCmd())
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP relay",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	// Initialize configuration
	cfg, loadedDotEnv, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !loadedDotEnv {
		logger.Debug("No .env file loaded, using process environment")
	}

	// Initialize API clients
	turnstileClient := turnstile.NewClient(cfg.VerificationSecret, cfg.VerifyURL, cfg.UpstreamTimeout, logger)
	mauticClient := mautic.NewClient(cfg.SinkBaseURL, cfg.FormID, cfg.UpstreamTimeout, logger)

	// Initialize services
	submissionService := services.NewFormSubmissionService(turnstileClient, mauticClient, cfg, logger)

	gin.SetMode(cfg.GinMode)
	router := api.NewRouter(api.NewHandlers(submissionService, logger), logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("error starting server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
