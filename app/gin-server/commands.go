package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yoockh/volunteerhub/config"
	"github.com/yoockh/volunteerhub/internal/logger"
	"github.com/yoockh/volunteerhub/internal/services"
	"github.com/yoockh/volunteerhub/internal/utils"
)

func newEnsureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create MongoDB indexes for the volunteers collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(cfg.App.LogLevel)

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			client, err := config.InitMongo(ctx, cfg.Mongo)
			if err != nil {
				return fmt.Errorf("mongo init: %w", err)
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			if err := config.EnsureMongoIndexes(ctx, client.Database(cfg.Mongo.DB)); err != nil {
				return err
			}
			log.WithField("db", cfg.Mongo.DB).Info("indexes ensured")
			return nil
		},
	}
}

func newSweepOrphansCmd() *cobra.Command {
	var grace time.Duration

	cmd := &cobra.Command{
		Use:   "sweep-orphans",
		Short: "Delete CV blobs no volunteer record references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := checkSweepable(cfg); err != nil {
				return err
			}
			if grace <= 0 {
				grace = cfg.Sweep.Grace
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.close()

			n, err := services.NewSweepService(a.volunteers, a.blobs, a.log).Sweep(ctx, grace)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d orphaned blob(s)\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&grace, "grace", 0, "only consider blobs older than this (default SWEEP_GRACE_MINUTES)")
	return cmd
}

// checkSweepable refuses a one-shot sweep unless records live in a shared
// store. An in-memory record store starts empty here, so every blob would
// look orphaned, including CVs a running server still references.
func checkSweepable(cfg *config.Config) error {
	if cfg.Storage.RecordBackend != "mongo" {
		return fmt.Errorf("sweep-orphans needs STORE_BACKEND=mongo, got %q", cfg.Storage.RecordBackend)
	}
	return nil
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for STAFF_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
