package entitystore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nepaldata/projectgraph/internal/models"
)

// MemoryStore is an in-memory implementation of Store for tests and dry
// runs. Safe for concurrent use.
type MemoryStore struct {
	mu            sync.RWMutex
	entities      map[string]*models.Entity // keyed by ID
	bySlug        map[string]*models.Entity
	relationships []models.Relationship
	authors       map[string]models.Author // keyed by slug
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities: make(map[string]*models.Entity),
		bySlug:   make(map[string]*models.Entity),
		authors:  make(map[string]models.Author),
	}
}

// Seed inserts an entity directly, bypassing slug checks. Test helper for
// pre-populating location sets.
func (m *MemoryStore) Seed(entity models.Entity) *models.Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entity.ID == "" {
		entity.ID = uuid.New().String()
	}
	e := entity
	m.entities[e.ID] = &e
	m.bySlug[e.Slug] = &e
	return &e
}

func (m *MemoryStore) PutAuthor(_ context.Context, author models.Author) (models.Author, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.authors[author.Slug]; ok {
		return existing, nil
	}
	if author.ID == "" {
		author.ID = uuid.New().String()
	}
	m.authors[author.Slug] = author
	return author, nil
}

func (m *MemoryStore) CreateEntity(_ context.Context, req EntityRequest) (*models.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.bySlug[req.Slug]; taken {
		return nil, ErrDuplicateSlug
	}
	now := time.Now().UTC()
	e := &models.Entity{
		ID:        uuid.New().String(),
		Slug:      req.Slug,
		Type:      req.Type,
		SubType:   req.SubType,
		Names:     append([]models.Name(nil), req.Names...),
		Data:      copyMap(req.Data),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.entities[e.ID] = e
	m.bySlug[e.Slug] = e
	return e, nil
}

func (m *MemoryStore) CreateRelationship(_ context.Context, req RelationshipRequest) (*models.Relationship, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rel := models.Relationship{
		ID:                uuid.New().String(),
		SourceID:          req.SourceID,
		TargetID:          req.TargetID,
		Type:              req.Type,
		AuthorID:          req.AuthorID,
		ChangeDescription: req.ChangeDescription,
		Attributes:        copyMap(req.Attributes),
		CreatedAt:         time.Now().UTC(),
	}
	m.relationships = append(m.relationships, rel)
	return &rel, nil
}

func (m *MemoryStore) SearchEntities(_ context.Context, entityType models.EntityType, limit int) ([]models.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Entity
	for _, e := range m.entities {
		if e.Type != entityType {
			continue
		}
		out = append(out, *e)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryStore) SearchEntityBySlug(_ context.Context, slug string) (*models.Entity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.bySlug[slug]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (m *MemoryStore) Close(_ context.Context) error { return nil }

// Relationships returns a snapshot of all created relationships.
func (m *MemoryStore) Relationships() []models.Relationship {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Relationship(nil), m.relationships...)
}

// EntityCount returns the number of stored entities.
func (m *MemoryStore) EntityCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entities)
}

func copyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
