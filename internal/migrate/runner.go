// Package migrate orchestrates the per-source pipeline: load cached
// payloads, parse and normalize them, write the normalized hand-off
// artifacts, and feed the records through the entity builder.
package migrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nepaldata/projectgraph/internal/builder"
	"github.com/nepaldata/projectgraph/internal/entitystore"
	"github.com/nepaldata/projectgraph/internal/feed"
	"github.com/nepaldata/projectgraph/internal/metrics"
	"github.com/nepaldata/projectgraph/internal/models"
	"github.com/nepaldata/projectgraph/internal/normalize"
	"github.com/nepaldata/projectgraph/internal/resolve"
)

// ErrPayloadMissing marks an absent cached payload file. Recoverable: the
// source is skipped with a re-scrape instruction.
var ErrPayloadMissing = errors.New("source payload not found")

// Summary accumulates per-source outcome counters.
type Summary struct {
	Created       int
	Skipped       int
	Failed        int
	Linked        int
	Relationships int
}

func (s *Summary) fold(r builder.RecordResult) {
	if r.Created {
		s.Created++
		metrics.ProjectsCreated.Add(1)
	}
	if r.Skipped {
		s.Skipped++
		metrics.RecordsSkipped.Add(1)
	}
	s.Linked += r.Locations
	s.Relationships += r.Relationships
	metrics.LocationsLinked.Add(int64(r.Locations))
	metrics.RelationshipsCreated.Add(int64(r.Relationships))
}

// Options configures a migration run.
type Options struct {
	SourceDir string
	OutputDir string
	Policy    resolve.Policy
	Author    models.Author
}

// Runner drives the pipeline over the configured sources.
type Runner struct {
	store  entitystore.Store
	logger *slog.Logger
	opts   Options
}

// NewRunner wires a runner over the given store. A zero Author gets the
// default migration identity.
func NewRunner(store entitystore.Store, logger *slog.Logger, opts Options) *Runner {
	if opts.Author.Slug == "" {
		opts.Author = models.Author{Slug: "data-migration", Name: "Data Migration"}
	}
	return &Runner{store: store, logger: logger, opts: opts}
}

// Normalize parses every source payload and writes the normalized project
// arrays to the output directory, without touching the entity store.
func (r *Runner) Normalize(ctx context.Context) error {
	for _, src := range Sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		records, skipped, err := r.loadRecords(src)
		if err != nil {
			r.logSourceLoadFailure(src, err)
			continue
		}
		path, err := r.writeNormalized(src, records)
		if err != nil {
			return err
		}
		r.logger.Info("normalized source written",
			"source", src.Name, "records", len(records), "skipped", skipped, "path", path)
	}
	return nil
}

// Migrate runs the full pipeline and returns the per-source summaries,
// keyed by source name.
func (r *Runner) Migrate(ctx context.Context) (map[string]*Summary, error) {
	author, err := r.store.PutAuthor(ctx, r.opts.Author)
	if err != nil {
		return nil, fmt.Errorf("registering author: %w", err)
	}

	index, err := resolve.BuildIndex(ctx, r.store, r.logger)
	if err != nil {
		return nil, err
	}
	resolver := resolve.NewResolver(index, r.opts.Policy, r.logger)

	summaries := make(map[string]*Summary, len(Sources))
	for _, src := range Sources {
		if err := ctx.Err(); err != nil {
			return summaries, err
		}
		summary := &Summary{}
		summaries[src.Name] = summary
		r.runSource(ctx, src, resolver, author, summary)
		r.logger.Info("source finished",
			"source", src.Name,
			"created", summary.Created,
			"skipped", summary.Skipped,
			"failed", summary.Failed,
			"locations_linked", summary.Linked,
			"relationships", summary.Relationships)
	}
	return summaries, nil
}

func (r *Runner) runSource(ctx context.Context, src Source, resolver *resolve.Resolver, author models.Author, summary *Summary) {
	records, skipped, err := r.loadRecords(src)
	if err != nil {
		r.logSourceLoadFailure(src, err)
		return
	}
	summary.Skipped += skipped
	metrics.RecordsSkipped.Add(int64(skipped))

	if path, err := r.writeNormalized(src, records); err != nil {
		r.logger.Warn("could not write normalized artifact", "source", src.Name, "error", err)
	} else {
		r.logger.Info("normalized artifact written", "source", src.Name, "path", path)
	}

	b := builder.New(r.store, resolver, r.logger, author.ID, src.Attribution)
	for _, rec := range records {
		result, err := b.BuildProject(ctx, rec, src.Prefix)
		if err != nil {
			summary.Failed++
			metrics.RecordsFailed.Add(1)
			r.logger.Error("record failed, aborting remaining records of source",
				"source", src.Name, "project_id", rec.ProjectID, "title", rec.Title, "error", err)
			return
		}
		summary.fold(result)
	}
}

func (r *Runner) logSourceLoadFailure(src Source, err error) {
	if errors.Is(err, ErrPayloadMissing) {
		r.logger.Error("source payload missing, run the scrape command first",
			"source", src.Name, "file", src.PayloadFile)
		return
	}
	var parseErr *feed.ParseError
	if errors.As(err, &parseErr) {
		r.logger.Error("source payload unparseable, zero records this run",
			"source", src.Name, "error", err)
		return
	}
	r.logger.Error("source load failed", "source", src.Name, "error", err)
}

// loadRecords reads and normalizes one source's cached payload. The skipped
// count covers records dropped for missing titles or out-of-scope countries.
func (r *Runner) loadRecords(src Source) ([]*models.CanonicalProject, int, error) {
	kind := src.Kind
	path := filepath.Join(r.opts.SourceDir, src.PayloadFile)
	payload, err := os.ReadFile(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) && src.JSONFallbackFile != "" {
		fallback := filepath.Join(r.opts.SourceDir, src.JSONFallbackFile)
		if body, fallbackErr := os.ReadFile(fallback); fallbackErr == nil {
			r.logger.Info("primary payload missing, using JSON fallback",
				"source", src.Name, "path", fallback)
			payload, err, kind = body, nil, PayloadJSON
		}
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", ErrPayloadMissing, path)
		}
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []*models.CanonicalProject
	skipped := 0
	keep := func(rec *models.CanonicalProject) {
		if rec == nil {
			skipped++
			return
		}
		if !normalize.InScope(rec) {
			r.logger.Info("record out of scope, skipping",
				"source", src.Name, "project_id", rec.ProjectID,
				"country", rec.Location.Country, "country_code", rec.Location.CountryCode)
			skipped++
			return
		}
		records = append(records, rec)
	}

	switch kind {
	case PayloadIATI:
		activities, err := feed.ParseIATIXML(src.Name, string(payload))
		if err != nil {
			return nil, 0, err
		}
		for _, act := range activities {
			keep(r.normalizeActivity(src, act))
		}
	default:
		raws, err := feed.ExtractJSONRecords(src.Name, payload)
		if err != nil {
			return nil, 0, err
		}
		for _, raw := range raws {
			keep(r.normalizeJSONRecord(src, raw))
		}
	}
	return records, skipped, nil
}

// normalizeJSONRecord guards the per-record normalizer: a panic is logged
// with the offending raw record and treated as a skip, not an abort.
func (r *Runner) normalizeJSONRecord(src Source, raw map[string]any) (rec *models.CanonicalProject) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("normalization failed, skipping record",
				"source", src.Name, "panic", p, "raw", fmt.Sprintf("%.500v", raw))
			rec = nil
		}
	}()
	if src.NormalizeJSON == nil {
		return nil
	}
	return src.NormalizeJSON(raw)
}

func (r *Runner) normalizeActivity(src Source, act feed.Activity) (rec *models.CanonicalProject) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("normalization failed, skipping activity",
				"source", src.Name, "panic", p, "identifier", act.IATIIdentifier)
			rec = nil
		}
	}()
	return normalize.NormalizeIATIActivity(act)
}

// writeNormalized writes the source's canonical records as a JSON array to
// the output directory. This artifact is the hand-off format between the
// scraping and migration phases; its shape is stable.
func (r *Runner) writeNormalized(src Source, records []*models.CanonicalProject) (string, error) {
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	out := records
	if out == nil {
		out = []*models.CanonicalProject{}
	}
	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding %s records: %w", src.Name, err)
	}
	path := filepath.Join(r.opts.OutputDir, src.Name+"_projects_normalized.json")
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
