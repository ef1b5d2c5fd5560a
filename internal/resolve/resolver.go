package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nepaldata/projectgraph/internal/entitystore"
	"github.com/nepaldata/projectgraph/internal/models"
)

// locationPageSize bounds the location fetch when building the index.
const locationPageSize = 10_000

// ErrUnresolved is returned in strict mode when a supplied location name
// does not resolve to any known entity.
var ErrUnresolved = errors.New("location not resolved")

// Kind is the expected administrative subtype of a lookup.
type Kind int

const (
	KindAny Kind = iota
	KindProvince
	KindDistrict
	KindMunicipality
)

// Policy decides what an unresolved location means for the run.
type Policy string

const (
	// PolicyStrict surfaces an unresolved location as an error, aborting
	// the source's run.
	PolicyStrict Policy = "strict"
	// PolicyLenient logs a warning and proceeds without the link.
	PolicyLenient Policy = "lenient"
)

// ParsePolicy validates a policy name from configuration.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyStrict, PolicyLenient:
		return Policy(s), nil
	case "":
		return PolicyLenient, nil
	}
	return "", fmt.Errorf("unknown resolution policy %q (want strict or lenient)", s)
}

// Index maps normalized location names to existing location entities, one
// bucket per administrative subtype plus an unfiltered bucket. It is built
// once per run and read-only afterwards; references are non-owning.
type Index struct {
	all          map[string]*models.Entity
	province     map[string]*models.Entity
	district     map[string]*models.Entity
	municipality map[string]*models.Entity
}

// BuildIndex fetches the full location entity set and indexes every name
// variant (both language forms) under its full and normalized keys.
func BuildIndex(ctx context.Context, store entitystore.Store, logger *slog.Logger) (*Index, error) {
	locations, err := store.SearchEntities(ctx, models.EntityTypeLocation, locationPageSize)
	if err != nil {
		return nil, fmt.Errorf("fetching location entities: %w", err)
	}

	ix := &Index{
		all:          make(map[string]*models.Entity),
		province:     make(map[string]*models.Entity),
		district:     make(map[string]*models.Entity),
		municipality: make(map[string]*models.Entity),
	}

	for i := range locations {
		loc := &locations[i]
		for _, name := range loc.Names {
			ix.addName(loc, name.EN)
			ix.addName(loc, name.NE)
		}
	}

	logger.Info("location index built",
		"locations", len(locations),
		"provinces", len(ix.province),
		"districts", len(ix.district),
		"municipalities", len(ix.municipality))
	return ix, nil
}

func (ix *Index) addName(loc *models.Entity, name string) {
	if name == "" {
		return
	}
	full := rawKey(name)
	norm := NormalizeName(name)

	ix.all[full] = loc
	ix.all[norm] = loc

	var bucket map[string]*models.Entity
	switch {
	case loc.SubType == models.SubTypeProvince:
		bucket = ix.province
	case loc.SubType == models.SubTypeDistrict:
		bucket = ix.district
	case loc.SubType.IsMunicipal():
		bucket = ix.municipality
	default:
		return
	}
	bucket[full] = loc
	bucket[norm] = loc
}

// Lookup resolves a free-text name against the index. The alias-corrected
// normalized key is tried first in the subtype bucket, then the raw
// lowercased key; for district/municipality hints the opposite bucket is
// tried last. A nil return means no match, which is not an error.
func (ix *Index) Lookup(name string, kind Kind) *models.Entity {
	canonical := CanonicalKey(name)
	raw := rawKey(name)

	primary := ix.bucket(kind)
	if e := primary[canonical]; e != nil {
		return e
	}
	if e := primary[raw]; e != nil {
		return e
	}

	var opposite map[string]*models.Entity
	switch kind {
	case KindDistrict:
		opposite = ix.municipality
	case KindMunicipality:
		opposite = ix.district
	default:
		return nil
	}
	if e := opposite[canonical]; e != nil {
		return e
	}
	return opposite[raw]
}

func (ix *Index) bucket(kind Kind) map[string]*models.Entity {
	switch kind {
	case KindProvince:
		return ix.province
	case KindDistrict:
		return ix.district
	case KindMunicipality:
		return ix.municipality
	}
	return ix.all
}

// Resolver applies a resolution policy on top of the index.
type Resolver struct {
	index  *Index
	policy Policy
	logger *slog.Logger
}

// NewResolver wraps an index with the run's resolution policy.
func NewResolver(index *Index, policy Policy, logger *slog.Logger) *Resolver {
	return &Resolver{index: index, policy: policy, logger: logger}
}

// Policy returns the resolver's configured policy.
func (r *Resolver) Policy() Policy { return r.policy }

// Resolve looks up a location name. An empty name resolves to nothing. On a
// miss, strict mode returns an error wrapping ErrUnresolved with the raw and
// normalized names for diagnosis; lenient mode logs and returns nil.
func (r *Resolver) Resolve(name string, kind Kind) (*models.Entity, error) {
	if name == "" {
		return nil, nil
	}
	if e := r.index.Lookup(name, kind); e != nil {
		return e, nil
	}
	if r.policy == PolicyStrict {
		return nil, fmt.Errorf("%w: %q (normalized %q)", ErrUnresolved, name, NormalizeName(name))
	}
	r.logger.Warn("location not resolved, proceeding without link",
		"name", name, "normalized", NormalizeName(name))
	return nil, nil
}
