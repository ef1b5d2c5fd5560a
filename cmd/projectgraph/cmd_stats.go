package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nepaldata/projectgraph/internal/models"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show entity counts in the graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			store, err := newStore(ctx, logger)
			if err != nil {
				return fmt.Errorf("stats: connecting to store: %w", err)
			}
			defer func() { _ = store.Close(ctx) }()

			fmt.Println("Entities by type:")
			for _, entityType := range models.ValidEntityTypes {
				entities, err := store.SearchEntities(ctx, entityType, 100_000)
				if err != nil {
					return fmt.Errorf("stats: counting %s entities: %w", entityType, err)
				}
				bySubType := map[models.EntitySubType]int{}
				for i := range entities {
					bySubType[entities[i].SubType]++
				}
				fmt.Printf("  %-14s %d\n", entityType, len(entities))
				for st, c := range bySubType {
					if st == "" {
						continue
					}
					fmt.Printf("    %-16s %d\n", st, c)
				}
			}
			return nil
		},
	}
}
