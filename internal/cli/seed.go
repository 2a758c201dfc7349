package cli

import (
	"context"

	"quiz-service/internal/app"
	"quiz-service/internal/config"
	"quiz-service/internal/domain"
	"quiz-service/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCmd loads the built-in questions into an empty store without starting the server.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample questions if the store is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	store, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	inserted, err := app.NewQuizService(store, nil).Seed(ctx, domain.DefaultQuestions())
	if err != nil {
		return err
	}
	logger.Info("seed finished", zap.Int("inserted", inserted))
	return nil
}
