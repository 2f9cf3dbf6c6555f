package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assetgraph/backend/internal/api"
	"assetgraph/backend/internal/graph"
	"assetgraph/backend/internal/layout"
	"assetgraph/backend/internal/persist"
	"assetgraph/backend/pkg/config"
	"assetgraph/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting asset graph API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	store := graph.NewSafeGraph(graph.NewAssetGraph())

	// Optional Neo4j persistence: connect, verify, bulk-load the graph
	var loader *persist.Loader
	if cfg.UsesNeo4j() {
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			log.Fatal("Failed to create Neo4j driver", zap.Error(err))
		}
		defer driver.Close(context.Background())

		ctx := context.Background()
		if err := driver.VerifyConnectivity(ctx); err != nil {
			log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
		}

		loader = persist.NewLoader(driver)
		data, err := loader.LoadGraph(ctx)
		if err != nil {
			log.Fatal("Failed to load graph from Neo4j", zap.Error(err))
		}
		if err := store.BulkLoad(data.Assets, data.Relationships, data.Events); err != nil {
			log.Fatal("Failed to populate graph store", zap.Error(err))
		}
	} else {
		log.Info("Running with in-memory graph only")
	}

	springOpts := layout.SpringOptions{
		Iterations: cfg.LayoutIterations,
		Seed:       cfg.LayoutSeed,
		Spread:     cfg.LayoutSpread,
	}
	server := api.NewServer(store, loader, springOpts)
	router := server.Router(cfg.IsProduction())

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
