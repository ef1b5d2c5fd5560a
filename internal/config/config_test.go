package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, "neo4j", cfg.Neo4j.Database)
	assert.Equal(t, "lenient", cfg.Migration.ResolutionPolicy)
	assert.Equal(t, "data/sources", cfg.Paths.SourceDir)
	assert.Equal(t, DefaultRequestsPerSecond, cfg.Fetch.RequestsPerSecond)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PROJECTGRAPH_NEO4J_URI", "bolt://graph.internal:7687")
	t.Setenv("PROJECTGRAPH_RESOLUTION_POLICY", "strict")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "bolt://graph.internal:7687", cfg.Neo4j.URI)
	assert.Equal(t, "strict", cfg.Migration.ResolutionPolicy)
}

func TestLoadRejectsBadPolicy(t *testing.T) {
	t.Setenv("PROJECTGRAPH_RESOLUTION_POLICY", "yolo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolution_policy")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Neo4j:     Neo4jConfig{URI: "bolt://localhost:7687"},
			Paths:     PathsConfig{SourceDir: "a", OutputDir: "b"},
			Migration: MigrationConfig{ResolutionPolicy: "lenient"},
			Fetch:     FetchConfig{RequestsPerSecond: 2, RequestsPerMinute: 30, MaxRetries: 3, TimeoutSeconds: 60},
		}
	}

	require.NoError(t, valid().Validate())

	c := valid()
	c.Neo4j.URI = ""
	assert.Error(t, c.Validate())

	c = valid()
	c.Fetch.RequestsPerMinute = 1
	assert.Error(t, c.Validate())

	c = valid()
	c.Fetch.RequestsPerSecond = 0
	assert.Error(t, c.Validate())
}

func TestNeo4jConfigMasksPassword(t *testing.T) {
	c := Neo4jConfig{URI: "bolt://localhost:7687", Username: "neo4j", Password: "hunter2"}
	s := c.String()
	assert.NotContains(t, s, "hunter2")
	assert.Contains(t, s, "bolt://localhost:7687")
}
