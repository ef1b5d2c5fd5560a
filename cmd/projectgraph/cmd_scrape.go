package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nepaldata/projectgraph/internal/fetch"
	"github.com/nepaldata/projectgraph/internal/migrate"
)

func scrapeCmd() *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch source payloads into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			limiter := fetch.NewRateLimiter(cfg.Fetch.RequestsPerSecond, cfg.Fetch.RequestsPerMinute)
			client := fetch.NewClient(limiter, cfg.Fetch.Timeout(), cfg.Fetch.MaxRetries, logger)
			scraper := fetch.NewScraper(client, cfg.Paths.SourceDir, logger)

			for _, src := range migrate.Sources {
				if only != "" && src.Name != only {
					continue
				}
				if err := scraper.FetchSource(ctx, src.Name, src.PayloadFile); err != nil {
					return fmt.Errorf("scrape: %w", err)
				}
			}
			if only != "" && migrate.SourceByName(only) == nil {
				return fmt.Errorf("scrape: unknown source %q", only)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&only, "source", "", "fetch a single source (world_bank, adb, npc)")
	return cmd
}
