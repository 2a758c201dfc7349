package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quiz-service/internal/app"
	"quiz-service/internal/config"
	"quiz-service/internal/domain"
	"quiz-service/internal/logging"
	transport "quiz-service/internal/transport/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "5000"
	}

	store, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store", zap.Error(err))
		return err
	}
	defer cleanup()

	service := app.NewQuizService(store, app.NewLeaderboardFeed())

	// Seeding completes before the listener opens, so requests never observe a half-seeded store.
	if cfg.SeedEnabled() {
		inserted, err := service.Seed(ctx, domain.DefaultQuestions())
		if err != nil {
			logger.Error("seed questions", zap.Error(err))
			return err
		}
		if inserted > 0 {
			logger.Info("sample questions added", zap.Int("count", inserted))
		}
	}

	api := transport.NewAPI(service, logger, transport.NewMetrics())
	wsHandler := transport.NewWSHandler(service, logger)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(api, wsHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	return serve(ctx, server, logger)
}

// serve runs server until a signal arrives, ctx is done, or the listener fails.
// A listener failure is returned so the process exits non-zero.
func serve(ctx context.Context, server *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting quiz service", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		logger.Error("failed to start server", zap.Error(err))
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	case <-stop:
		logger.Info("shutting down server...")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
