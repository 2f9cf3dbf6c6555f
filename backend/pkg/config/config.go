package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Persistence modes for the graph store.
const (
	PersistenceMemory = "memory"
	PersistenceNeo4j  = "neo4j"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string
	Env  string

	// Graph persistence
	Persistence   string // memory or neo4j
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Layout defaults
	LayoutIterations int
	LayoutSeed       int64
	LayoutSpread     float64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		Persistence:      getEnv("PERSISTENCE", PersistenceMemory),
		Neo4jURI:         getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:        getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword:    getEnv("NEO4J_PASSWORD", "password"),
		LayoutIterations: getEnvInt("LAYOUT_ITERATIONS", 50),
		LayoutSeed:       int64(getEnvInt("LAYOUT_SEED", 42)),
		LayoutSpread:     getEnvFloat("LAYOUT_SPREAD", 20.0),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.Persistence != PersistenceMemory && c.Persistence != PersistenceNeo4j {
		return fmt.Errorf("PERSISTENCE must be %q or %q, got %q", PersistenceMemory, PersistenceNeo4j, c.Persistence)
	}
	if c.Persistence == PersistenceNeo4j {
		if c.Neo4jURI == "" {
			return fmt.Errorf("NEO4J_URI is required")
		}
		if c.Neo4jUser == "" {
			return fmt.Errorf("NEO4J_USER is required")
		}
		if c.Neo4jPassword == "" {
			return fmt.Errorf("NEO4J_PASSWORD is required")
		}
	}
	if c.LayoutIterations <= 0 {
		return fmt.Errorf("LAYOUT_ITERATIONS must be positive")
	}
	if c.LayoutSpread <= 0 {
		return fmt.Errorf("LAYOUT_SPREAD must be positive")
	}
	return nil
}

// UsesNeo4j returns true if the graph is backed by Neo4j persistence
func (c *Config) UsesNeo4j() bool {
	return c.Persistence == PersistenceNeo4j
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var result float64
		if _, err := fmt.Sscanf(value, "%f", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}
