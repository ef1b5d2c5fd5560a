// Package entitystore is the persistence boundary of the pipeline: a narrow
// interface over the entity/version/relationship graph, with a Neo4j-backed
// production implementation and an in-memory one for tests.
package entitystore

import (
	"context"
	"errors"

	"github.com/nepaldata/projectgraph/internal/models"
)

// ErrDuplicateSlug is returned by CreateEntity when the requested slug is
// already taken. Callers recover by retrying with a suffixed slug or by
// looking the existing entity up.
var ErrDuplicateSlug = errors.New("entity slug already exists")

// EntityRequest describes an entity to create. The store assigns the ID and
// timestamps and records the author and change description against the
// initial version.
type EntityRequest struct {
	Type              models.EntityType
	SubType           models.EntitySubType
	Slug              string
	Names             []models.Name
	Data              map[string]any
	AuthorID          string
	ChangeDescription string
}

// RelationshipRequest describes a typed relationship between two entities.
type RelationshipRequest struct {
	SourceID          string
	TargetID          string
	Type              models.RelationshipType
	AuthorID          string
	ChangeDescription string
	Attributes        map[string]any
}

// Store is the interface the pipeline consumes for persistence.
type Store interface {
	// PutAuthor registers (or refreshes) a migration author by slug.
	PutAuthor(ctx context.Context, author models.Author) (models.Author, error)

	// CreateEntity creates a new entity. Fails with ErrDuplicateSlug when
	// the slug is taken.
	CreateEntity(ctx context.Context, req EntityRequest) (*models.Entity, error)

	// CreateRelationship appends a relationship between two entities.
	CreateRelationship(ctx context.Context, req RelationshipRequest) (*models.Relationship, error)

	// SearchEntities returns up to limit entities of the given type.
	SearchEntities(ctx context.Context, entityType models.EntityType, limit int) ([]models.Entity, error)

	// SearchEntityBySlug returns the entity with the given slug, or nil
	// when none exists.
	SearchEntityBySlug(ctx context.Context, slug string) (*models.Entity, error)

	// Close releases store resources.
	Close(ctx context.Context) error
}
