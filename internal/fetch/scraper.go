package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// sourceEndpoints lists candidate URLs per source, tried in order. Several
// of these feeds move or go down; the later entries are known mirrors.
var sourceEndpoints = map[string][]string{
	"world_bank": {
		"https://search.worldbank.org/api/v3/projects?format=json&countrycode_exact=NP&rows=500&fl=*",
		"https://search.worldbank.org/api/v2/projects?format=json&countrycode_exact=NP&rows=500",
	},
	"adb": {
		"https://dcc.adb.org/system/files/related/iati/adb-activities-np.xml",
		"https://www.adb.org/sites/default/files/iati/adb-activities-np.xml",
	},
	"npc": {
		"https://npbmis.npc.gov.np/api/grid/projects?size=1000",
		"https://npbmis.npc.gov.np/api/projects",
	},
}

// Scraper downloads source payloads into the source directory, falling back
// to an existing cached copy when every endpoint fails.
type Scraper struct {
	client    *Client
	sourceDir string
	logger    *slog.Logger
}

// NewScraper creates a scraper writing into sourceDir.
func NewScraper(client *Client, sourceDir string, logger *slog.Logger) *Scraper {
	return &Scraper{client: client, sourceDir: sourceDir, logger: logger}
}

// FetchSource downloads the payload for the named source into fileName.
// Endpoints are tried in order; if all fail but a cached copy exists on
// disk, the cached copy is kept and no error is returned.
func (s *Scraper) FetchSource(ctx context.Context, sourceName, fileName string) error {
	endpoints := sourceEndpoints[sourceName]
	if len(endpoints) == 0 {
		return fmt.Errorf("no endpoints configured for source %q", sourceName)
	}
	if err := os.MkdirAll(s.sourceDir, 0o755); err != nil {
		return fmt.Errorf("creating source dir: %w", err)
	}
	path := filepath.Join(s.sourceDir, fileName)

	var lastErr error
	for _, endpoint := range endpoints {
		body, err := s.client.Get(ctx, endpoint)
		if err != nil {
			lastErr = err
			s.logger.Warn("endpoint failed", "source", sourceName, "url", endpoint, "error", err)
			continue
		}
		if err := os.WriteFile(path, body, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		s.logger.Info("payload fetched", "source", sourceName, "url", endpoint, "bytes", len(body), "path", path)
		return nil
	}

	if _, err := os.Stat(path); err == nil {
		s.logger.Warn("all endpoints failed, keeping cached payload",
			"source", sourceName, "path", path, "error", lastErr)
		return nil
	}
	return fmt.Errorf("fetching source %s: %w", sourceName, lastErr)
}
