// Package builder turns canonical project records into persisted project
// entities, organization entities and the typed relationships between them.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gosimple/slug"

	"github.com/nepaldata/projectgraph/internal/entitystore"
	"github.com/nepaldata/projectgraph/internal/models"
	"github.com/nepaldata/projectgraph/internal/normalize"
	"github.com/nepaldata/projectgraph/internal/resolve"
)

// ErrSlugExhausted is returned when the collision retry loop runs out of
// candidate slugs.
var ErrSlugExhausted = errors.New("slug candidates exhausted")

// RecordResult is the per-record accumulator returned from BuildProject and
// folded into the run summary by the orchestrator.
type RecordResult struct {
	Created       bool
	Skipped       bool
	SkipReason    string
	ProjectSlug   string
	Locations     int
	Relationships int
}

// Builder assembles entity and relationship creation requests for one
// migration run. It is not safe for concurrent use; the pipeline processes
// records sequentially.
type Builder struct {
	store       entitystore.Store
	resolver    *resolve.Resolver
	logger      *slog.Logger
	authorID    string
	attribution models.Attribution

	// orgCache avoids re-querying organizations referenced by many records.
	orgCache map[string]*models.Entity
}

// New creates a Builder writing through the given store, stamping every
// created entity and relationship with authorID.
func New(store entitystore.Store, resolver *resolve.Resolver, logger *slog.Logger, authorID string, attribution models.Attribution) *Builder {
	return &Builder{
		store:       store,
		resolver:    resolver,
		logger:      logger,
		authorID:    authorID,
		attribution: attribution,
		orgCache:    make(map[string]*models.Entity),
	}
}

// BuildProject persists one canonical record as a project entity with its
// location, funding and implementation relationships. Relationship failures
// are logged and skipped; only project creation and strict resolution
// failures propagate.
func (b *Builder) BuildProject(ctx context.Context, rec *models.CanonicalProject, providerPrefix string) (RecordResult, error) {
	var result RecordResult

	title := normalize.CleanTitle(rec.Title)
	if title == "" {
		result.Skipped = true
		result.SkipReason = "empty title"
		return result, nil
	}

	province, err := b.resolver.Resolve(rec.Location.Province, resolve.KindProvince)
	if err != nil {
		return result, fmt.Errorf("resolving province for %q: %w", title, err)
	}
	var locations []*models.Entity
	if province != nil {
		locations = append(locations, province)
	}
	if district, err := b.resolver.Resolve(rec.Location.District, resolve.KindDistrict); err != nil {
		return result, fmt.Errorf("resolving district for %q: %w", title, err)
	} else if district != nil {
		locations = appendUnique(locations, district)
	}
	if muni, err := b.resolver.Resolve(rec.Location.Municipality, resolve.KindMunicipality); err != nil {
		return result, fmt.Errorf("resolving municipality for %q: %w", title, err)
	} else if muni != nil {
		locations = appendUnique(locations, muni)
	}

	project, err := b.createProjectEntity(ctx, rec, title, providerPrefix)
	if err != nil {
		return result, err
	}
	result.Created = true
	result.ProjectSlug = project.Slug
	b.logger.Info("project created", "slug", project.Slug, "source", rec.Source)

	changeDesc := fmt.Sprintf("Imported from %s", rec.Source)

	for _, loc := range locations {
		_, err := b.store.CreateRelationship(ctx, entitystore.RelationshipRequest{
			SourceID:          project.ID,
			TargetID:          loc.ID,
			Type:              models.RelLocatedIn,
			AuthorID:          b.authorID,
			ChangeDescription: changeDesc,
		})
		if err != nil {
			b.logger.Warn("location relationship failed",
				"project", project.Slug, "location", loc.Slug, "error", err)
			continue
		}
		result.Locations++
		result.Relationships++
	}

	if rec.FundingSource != "" {
		if err := b.linkFunding(ctx, project, rec, changeDesc); err != nil {
			b.logger.Warn("funding relationship failed",
				"project", project.Slug, "funder", rec.FundingSource, "error", err)
		} else {
			result.Relationships++
		}
	}

	if rec.ImplementingAgency != "" {
		if err := b.linkImplementer(ctx, project, rec, changeDesc); err != nil {
			b.logger.Warn("implementation relationship failed",
				"project", project.Slug, "agency", rec.ImplementingAgency, "error", err)
		} else {
			result.Relationships++
		}
	}

	return result, nil
}

func (b *Builder) createProjectEntity(ctx context.Context, rec *models.CanonicalProject, title, providerPrefix string) (*models.Entity, error) {
	data, err := projectData(rec, b.attribution)
	if err != nil {
		return nil, fmt.Errorf("encoding project data for %q: %w", title, err)
	}

	base := DeriveSlug(title, providerPrefix, rec.ProjectID)
	req := entitystore.EntityRequest{
		Type:              models.EntityTypeProject,
		SubType:           models.SubTypeDevelopmentProject,
		Names:             []models.Name{{Kind: "primary", EN: title}},
		Data:              data,
		AuthorID:          b.authorID,
		ChangeDescription: fmt.Sprintf("Imported from %s", rec.Source),
	}
	return b.createWithRetry(ctx, req, base)
}

// createWithRetry walks candidate slugs until creation succeeds or a
// non-collision error surfaces.
func (b *Builder) createWithRetry(ctx context.Context, req entitystore.EntityRequest, base string) (*models.Entity, error) {
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		req.Slug = candidateSlug(base, attempt)
		entity, err := b.store.CreateEntity(ctx, req)
		if err == nil {
			if attempt > 1 {
				b.logger.Info("slug collision resolved", "slug", req.Slug, "attempts", attempt)
			}
			return entity, nil
		}
		if !errors.Is(err, entitystore.ErrDuplicateSlug) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: base %q after %d attempts", ErrSlugExhausted, base, maxSlugAttempts)
}

func (b *Builder) linkFunding(ctx context.Context, project *models.Entity, rec *models.CanonicalProject, changeDesc string) error {
	org, err := b.ensureOrganization(ctx, rec.FundingSource, organizationSubType(rec.FundingSource), changeDesc)
	if err != nil {
		return err
	}
	attrs := map[string]any{}
	if rec.TotalAllocatedBudget != "" {
		attrs["funding_amount"] = rec.TotalAllocatedBudget
	}
	if rec.LoanAmount != "" {
		attrs["loan_amount"] = rec.LoanAmount
	}
	if rec.GrantAmount != "" {
		attrs["grant_amount"] = rec.GrantAmount
	}
	_, err = b.store.CreateRelationship(ctx, entitystore.RelationshipRequest{
		SourceID:          project.ID,
		TargetID:          org.ID,
		Type:              models.RelFundedBy,
		AuthorID:          b.authorID,
		ChangeDescription: changeDesc,
		Attributes:        attrs,
	})
	return err
}

func (b *Builder) linkImplementer(ctx context.Context, project *models.Entity, rec *models.CanonicalProject, changeDesc string) error {
	org, err := b.ensureOrganization(ctx, rec.ImplementingAgency, models.SubTypeGovernmentAgency, changeDesc)
	if err != nil {
		return err
	}
	_, err = b.store.CreateRelationship(ctx, entitystore.RelationshipRequest{
		SourceID:          org.ID,
		TargetID:          project.ID,
		Type:              models.RelImplements,
		AuthorID:          b.authorID,
		ChangeDescription: changeDesc,
	})
	return err
}

// ensureOrganization returns the organization entity with the deterministic
// slug for name, creating it on first reference. A duplicate-slug failure on
// create means another writer won the race; the entity is looked up instead.
func (b *Builder) ensureOrganization(ctx context.Context, name string, subType models.EntitySubType, changeDesc string) (*models.Entity, error) {
	orgSlug := truncateSlug(slug.Make(name))
	if cached, ok := b.orgCache[orgSlug]; ok {
		return cached, nil
	}

	existing, err := b.store.SearchEntityBySlug(ctx, orgSlug)
	if err != nil {
		return nil, fmt.Errorf("looking up organization %q: %w", name, err)
	}
	if existing != nil {
		b.orgCache[orgSlug] = existing
		return existing, nil
	}

	created, err := b.store.CreateEntity(ctx, entitystore.EntityRequest{
		Type:              models.EntityTypeOrganization,
		SubType:           subType,
		Slug:              orgSlug,
		Names:             []models.Name{{Kind: "primary", EN: name}},
		AuthorID:          b.authorID,
		ChangeDescription: changeDesc,
	})
	if errors.Is(err, entitystore.ErrDuplicateSlug) {
		existing, lookupErr := b.store.SearchEntityBySlug(ctx, orgSlug)
		if lookupErr != nil {
			return nil, fmt.Errorf("re-querying organization %q after collision: %w", name, lookupErr)
		}
		if existing == nil {
			return nil, fmt.Errorf("organization %q reported duplicate but not found", name)
		}
		b.orgCache[orgSlug] = existing
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("creating organization %q: %w", name, err)
	}
	b.orgCache[orgSlug] = created
	return created, nil
}

func appendUnique(list []*models.Entity, e *models.Entity) []*models.Entity {
	for _, existing := range list {
		if existing.ID == e.ID {
			return list
		}
	}
	return append(list, e)
}

// projectData flattens the canonical record into the entity data payload and
// attaches the run's attribution block and a composed description/address.
func projectData(rec *models.CanonicalProject, attribution models.Attribution) (map[string]any, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	data["description_composed"] = composeDescription(rec)
	if addr := composeAddress(rec); addr != "" {
		data["address"] = addr
	}
	data["attribution"] = map[string]any{
		"title_en":   attribution.TitleEN,
		"title_ne":   attribution.TitleNE,
		"details_en": attribution.DetailsEN,
		"details_ne": attribution.DetailsNE,
	}
	return data, nil
}

// composeDescription appends sector, status and borrower context to the
// source description.
func composeDescription(rec *models.CanonicalProject) string {
	parts := []string{}
	if rec.Description != "" {
		parts = append(parts, rec.Description)
	}
	if rec.Sector != "" {
		parts = append(parts, "Sector: "+rec.Sector)
	}
	if rec.ImplementationStatus != "" {
		parts = append(parts, "Status: "+rec.ImplementationStatus)
	}
	if rec.Borrower != "" {
		parts = append(parts, "Borrower: "+rec.Borrower)
	}
	return strings.Join(parts, " | ")
}

// composeAddress joins the non-empty administrative levels, most specific
// first.
func composeAddress(rec *models.CanonicalProject) string {
	parts := []string{}
	for _, p := range []string{rec.Location.Municipality, rec.Location.District, rec.Location.Province} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}

// organizationSubType classifies a funder by name: government bodies are
// agencies, everything else is treated as an international organization.
func organizationSubType(name string) models.EntitySubType {
	lower := strings.ToLower(name)
	if strings.Contains(lower, "government") || strings.Contains(lower, "ministry") || strings.Contains(lower, "department") {
		return models.SubTypeGovernmentAgency
	}
	return models.SubTypeInternationalOrganization
}
