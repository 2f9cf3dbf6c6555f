package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, PersistenceMemory, cfg.Persistence)
	assert.False(t, cfg.UsesNeo4j())
	assert.Equal(t, 50, cfg.LayoutIterations)
	assert.Equal(t, 20.0, cfg.LayoutSpread)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("PERSISTENCE", PersistenceNeo4j)
	t.Setenv("NEO4J_URI", "bolt://graph:7687")
	t.Setenv("LAYOUT_ITERATIONS", "120")
	t.Setenv("LAYOUT_SPREAD", "35.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.True(t, cfg.UsesNeo4j())
	assert.Equal(t, "bolt://graph:7687", cfg.Neo4jURI)
	assert.Equal(t, 120, cfg.LayoutIterations)
	assert.Equal(t, 35.5, cfg.LayoutSpread)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Persistence: "disk", LayoutIterations: 50, LayoutSpread: 20.0}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Persistence: PersistenceNeo4j, LayoutIterations: 50, LayoutSpread: 20.0}
	assert.Error(t, cfg.Validate(), "neo4j mode requires connection settings")

	cfg = &Config{
		Persistence:      PersistenceNeo4j,
		Neo4jURI:         "bolt://localhost:7687",
		Neo4jUser:        "neo4j",
		Neo4jPassword:    "password",
		LayoutIterations: 50,
		LayoutSpread:     20.0,
	}
	assert.NoError(t, cfg.Validate())

	cfg = &Config{Persistence: PersistenceMemory, LayoutIterations: 0, LayoutSpread: 20.0}
	assert.Error(t, cfg.Validate())

	cfg = &Config{Persistence: PersistenceMemory, LayoutIterations: 50, LayoutSpread: 0}
	assert.Error(t, cfg.Validate())
}
