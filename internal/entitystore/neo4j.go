package entitystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"github.com/nepaldata/projectgraph/internal/models"
)

// Neo4jStore implements Store on a Neo4j graph. Entities are :Entity nodes
// with a unique slug constraint; relationships are typed edges carrying the
// author and change description.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
}

// NewNeo4jStore connects to Neo4j, verifies connectivity and ensures the
// slug uniqueness constraint exists.
func NewNeo4jStore(ctx context.Context, uri, username, password, database string, logger *slog.Logger) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating Neo4j driver for %s: %w", uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying Neo4j connectivity at %s: %w", uri, err)
	}

	s := &Neo4jStore{driver: driver, database: database, logger: logger}
	if err := s.ensureConstraints(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}
	logger.Info("connected to Neo4j", "uri", uri, "database", database)
	return s, nil
}

func (s *Neo4jStore) session(ctx context.Context) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.database,
	})
}

func (s *Neo4jStore) ensureConstraints(ctx context.Context) error {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	queries := []string{
		"CREATE CONSTRAINT entity_slug IF NOT EXISTS FOR (e:Entity) REQUIRE e.slug IS UNIQUE",
		"CREATE CONSTRAINT author_slug IF NOT EXISTS FOR (a:Author) REQUIRE a.slug IS UNIQUE",
	}
	for _, q := range queries {
		if _, err := sess.Run(ctx, q, nil); err != nil {
			return fmt.Errorf("ensuring constraint: %w", err)
		}
	}
	return nil
}

func (s *Neo4jStore) PutAuthor(ctx context.Context, author models.Author) (models.Author, error) {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	if author.ID == "" {
		author.ID = uuid.New().String()
	}
	result, err := sess.Run(ctx,
		`MERGE (a:Author {slug: $slug})
		 ON CREATE SET a.id = $id, a.name = $name
		 RETURN a.id AS id, a.name AS name`,
		map[string]any{"slug": author.Slug, "id": author.ID, "name": author.Name})
	if err != nil {
		return models.Author{}, fmt.Errorf("putting author %s: %w", author.Slug, err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return models.Author{}, fmt.Errorf("reading author %s: %w", author.Slug, err)
	}
	id, _ := record.Get("id")
	name, _ := record.Get("name")
	return models.Author{
		ID:   asString(id),
		Slug: author.Slug,
		Name: asString(name),
	}, nil
}

func (s *Neo4jStore) CreateEntity(ctx context.Context, req EntityRequest) (*models.Entity, error) {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	now := time.Now().UTC()
	namesJSON, err := json.Marshal(req.Names)
	if err != nil {
		return nil, fmt.Errorf("encoding names for %s: %w", req.Slug, err)
	}
	dataJSON, err := json.Marshal(req.Data)
	if err != nil {
		return nil, fmt.Errorf("encoding data for %s: %w", req.Slug, err)
	}

	result, err := sess.Run(ctx,
		`CREATE (e:Entity {
			id: $id, slug: $slug, type: $type, sub_type: $sub_type,
			names: $names, data: $data,
			author_id: $author_id, change_description: $change_description,
			created_at: $created_at, updated_at: $created_at
		 }) RETURN e`,
		map[string]any{
			"id":                 uuid.New().String(),
			"slug":               req.Slug,
			"type":               string(req.Type),
			"sub_type":           string(req.SubType),
			"names":              string(namesJSON),
			"data":               string(dataJSON),
			"author_id":          req.AuthorID,
			"change_description": req.ChangeDescription,
			"created_at":         now.Format(time.RFC3339Nano),
		})
	if err != nil {
		return nil, translateConstraintError(err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return nil, translateConstraintError(err)
	}
	value, _ := record.Get("e")
	node, ok := value.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected result creating entity %s", req.Slug)
	}
	return entityFromNode(node)
}

func (s *Neo4jStore) CreateRelationship(ctx context.Context, req RelationshipRequest) (*models.Relationship, error) {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	relType, err := safeRelType(req.Type)
	if err != nil {
		return nil, err
	}
	attrsJSON, err := json.Marshal(req.Attributes)
	if err != nil {
		return nil, fmt.Errorf("encoding relationship attributes: %w", err)
	}

	now := time.Now().UTC()
	id := uuid.New().String()
	// The relationship type cannot be parameterized in Cypher; safeRelType
	// restricts it to the known vocabulary.
	query := fmt.Sprintf(
		`MATCH (src:Entity {id: $source_id}), (dst:Entity {id: $target_id})
		 CREATE (src)-[r:%s {
			id: $id, author_id: $author_id,
			change_description: $change_description,
			attributes: $attributes, created_at: $created_at
		 }]->(dst) RETURN r.id AS id`, relType)
	result, err := sess.Run(ctx, query, map[string]any{
		"source_id":          req.SourceID,
		"target_id":          req.TargetID,
		"id":                 id,
		"author_id":          req.AuthorID,
		"change_description": req.ChangeDescription,
		"attributes":         string(attrsJSON),
		"created_at":         now.Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s relationship: %w", req.Type, err)
	}
	if _, err := result.Single(ctx); err != nil {
		return nil, fmt.Errorf("creating %s relationship (endpoints missing?): %w", req.Type, err)
	}
	return &models.Relationship{
		ID:                id,
		SourceID:          req.SourceID,
		TargetID:          req.TargetID,
		Type:              req.Type,
		AuthorID:          req.AuthorID,
		ChangeDescription: req.ChangeDescription,
		Attributes:        req.Attributes,
		CreatedAt:         now,
	}, nil
}

func (s *Neo4jStore) SearchEntities(ctx context.Context, entityType models.EntityType, limit int) ([]models.Entity, error) {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	result, err := sess.Run(ctx,
		"MATCH (e:Entity {type: $type}) RETURN e LIMIT $limit",
		map[string]any{"type": string(entityType), "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("searching %s entities: %w", entityType, err)
	}
	var out []models.Entity
	for result.Next(ctx) {
		value, _ := result.Record().Get("e")
		node, ok := value.(neo4j.Node)
		if !ok {
			continue
		}
		entity, err := entityFromNode(node)
		if err != nil {
			s.logger.Warn("skipping malformed entity node", "error", err)
			continue
		}
		out = append(out, *entity)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s entities: %w", entityType, err)
	}
	return out, nil
}

func (s *Neo4jStore) SearchEntityBySlug(ctx context.Context, slug string) (*models.Entity, error) {
	sess := s.session(ctx)
	defer sess.Close(ctx)

	result, err := sess.Run(ctx,
		"MATCH (e:Entity {slug: $slug}) RETURN e LIMIT 1",
		map[string]any{"slug": slug})
	if err != nil {
		return nil, fmt.Errorf("looking up slug %s: %w", slug, err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("looking up slug %s: %w", slug, err)
		}
		return nil, nil
	}
	value, _ := result.Record().Get("e")
	node, ok := value.(neo4j.Node)
	if !ok {
		return nil, fmt.Errorf("unexpected result for slug %s", slug)
	}
	return entityFromNode(node)
}

func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// translateConstraintError maps a slug uniqueness violation onto
// ErrDuplicateSlug; everything else passes through.
func translateConstraintError(err error) error {
	var neoErr *db.Neo4jError
	if errors.As(err, &neoErr) && strings.Contains(neoErr.Code, "ConstraintValidationFailed") {
		return ErrDuplicateSlug
	}
	return err
}

func safeRelType(t models.RelationshipType) (string, error) {
	switch t {
	case models.RelLocatedIn, models.RelFundedBy, models.RelImplements:
		return string(t), nil
	}
	return "", fmt.Errorf("unsupported relationship type %q", t)
}

func entityFromNode(node neo4j.Node) (*models.Entity, error) {
	e := &models.Entity{
		ID:      asString(node.Props["id"]),
		Slug:    asString(node.Props["slug"]),
		Type:    models.EntityType(asString(node.Props["type"])),
		SubType: models.EntitySubType(asString(node.Props["sub_type"])),
	}
	if raw := asString(node.Props["names"]); raw != "" {
		if err := json.Unmarshal([]byte(raw), &e.Names); err != nil {
			return nil, fmt.Errorf("decoding names of %s: %w", e.Slug, err)
		}
	}
	if raw := asString(node.Props["data"]); raw != "" && raw != "null" {
		if err := json.Unmarshal([]byte(raw), &e.Data); err != nil {
			return nil, fmt.Errorf("decoding data of %s: %w", e.Slug, err)
		}
	}
	if ts := asString(node.Props["created_at"]); ts != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.CreatedAt = parsed
		}
	}
	if ts := asString(node.Props["updated_at"]); ts != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			e.UpdatedAt = parsed
		}
	}
	return e, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
