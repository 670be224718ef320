package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/app"
	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/config"
	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/infra/memory"
	"github.com/Miles-coder2000/BrainMaster-Quiz-App/internal/infra/postgres"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

// NewSeedCmd loads the bundled question bank and achievement catalogue into
// Postgres. Safe to re-run: rows are upserted by id.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed questions and achievements into Postgres",
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
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	bank := memory.DefaultQuestionBank()
	if err := postgres.SeedQuestions(ctx, pool, bank); err != nil {
		return err
	}
	catalogue := app.DefaultAchievements()
	if err := postgres.SeedAchievements(ctx, pool, catalogue); err != nil {
		return err
	}
	log.Printf("seeded %d questions and %d achievements", len(bank), len(catalogue))
	return nil
}
