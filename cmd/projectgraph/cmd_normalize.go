package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nepaldata/projectgraph/internal/entitystore"
	"github.com/nepaldata/projectgraph/internal/migrate"
)

func normalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize",
		Short: "Parse cached payloads and write normalized project JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			// Normalization never touches the graph.
			runner := migrate.NewRunner(entitystore.NewMemoryStore(), logger, migrate.Options{
				SourceDir: cfg.Paths.SourceDir,
				OutputDir: cfg.Paths.OutputDir,
			})
			if err := runner.Normalize(cmd.Context()); err != nil {
				return fmt.Errorf("normalize: %w", err)
			}
			fmt.Printf("Normalized artifacts written to %s\n", cfg.Paths.OutputDir)
			return nil
		},
	}
}
