package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nepaldata/projectgraph/internal/entitystore"
	"github.com/nepaldata/projectgraph/internal/migrate"
	"github.com/nepaldata/projectgraph/internal/models"
	"github.com/nepaldata/projectgraph/internal/resolve"
)

func migrateCmd() *cobra.Command {
	var policyFlag string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate normalized projects into the entity graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			policyName := cfg.Migration.ResolutionPolicy
			if policyFlag != "" {
				policyName = policyFlag
			}
			policy, err := resolve.ParsePolicy(policyName)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			var store entitystore.Store
			if dryRun {
				logger.Info("dry run, writing to in-memory store")
				store = entitystore.NewMemoryStore()
			} else {
				store, err = newStore(ctx, logger)
				if err != nil {
					return fmt.Errorf("migrate: connecting to store: %w", err)
				}
			}
			defer func() { _ = store.Close(ctx) }()

			runner := migrate.NewRunner(store, logger, migrate.Options{
				SourceDir: cfg.Paths.SourceDir,
				OutputDir: cfg.Paths.OutputDir,
				Policy:    policy,
				Author: models.Author{
					Slug: cfg.Migration.AuthorSlug,
					Name: cfg.Migration.AuthorName,
				},
			})

			summaries, err := runner.Migrate(ctx)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			fmt.Printf("%-12s %8s %8s %8s %8s %14s\n",
				"source", "created", "skipped", "failed", "linked", "relationships")
			for _, src := range migrate.Sources {
				s := summaries[src.Name]
				if s == nil {
					continue
				}
				fmt.Printf("%-12s %8d %8d %8d %8d %14d\n",
					src.Name, s.Created, s.Skipped, s.Failed, s.Linked, s.Relationships)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&policyFlag, "resolution-policy", "", "location resolution policy: strict or lenient (overrides config)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the full pipeline against an in-memory store")
	return cmd
}
