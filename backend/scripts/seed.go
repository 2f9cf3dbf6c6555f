package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"assetgraph/backend/internal/graph"
	"assetgraph/backend/internal/persist"
	"assetgraph/backend/pkg/config"
	"assetgraph/backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

func main() {
	force := flag.Bool("force", false, "Seed even if assets already exist")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting database seeding...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	loader := persist.NewLoader(driver)

	// Create constraints
	log.Info("Creating constraints...")
	if err := createConstraints(ctx, driver); err != nil {
		log.Warn("Failed to create some constraints (may already exist)", zap.Error(err))
	}

	existing, err := loader.LoadGraph(ctx)
	if err != nil {
		log.Fatal("Failed to check existing graph", zap.Error(err))
	}
	if len(existing.Assets) > 0 && !*force {
		log.Info("Graph already seeded, skipping (use -force to reseed)",
			zap.Int("assets", len(existing.Assets)))
		os.Exit(0)
	}

	assets, relationships, events := sampleGraph()

	log.Info("Seeding assets...", zap.Int("count", len(assets)))
	for _, a := range assets {
		if err := loader.SaveAsset(ctx, a); err != nil {
			log.Fatal("Failed to save asset", zap.String("id", a.Base().ID), zap.Error(err))
		}
	}

	log.Info("Seeding relationships...", zap.Int("count", len(relationships)))
	for _, rel := range relationships {
		if err := loader.SaveRelationship(ctx, rel); err != nil {
			log.Fatal("Failed to save relationship", zap.String("id", rel.ID), zap.Error(err))
		}
	}

	log.Info("Seeding regulatory events...", zap.Int("count", len(events)))
	for _, ev := range events {
		if err := loader.SaveEvent(ctx, ev); err != nil {
			log.Fatal("Failed to save event", zap.String("id", ev.ID), zap.Error(err))
		}
	}

	log.Info("Seeding complete",
		zap.Int("assets", len(assets)),
		zap.Int("relationships", len(relationships)),
		zap.Int("events", len(events)),
	)
}

func createConstraints(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT asset_id IF NOT EXISTS FOR (a:Asset) REQUIRE a.id IS UNIQUE",
		"CREATE CONSTRAINT event_id IF NOT EXISTS FOR (e:RegulatoryEvent) REQUIRE e.id IS UNIQUE",
		"CREATE INDEX asset_class IF NOT EXISTS FOR (a:Asset) ON (a.class)",
	}
	for _, c := range constraints {
		if _, err := session.Run(ctx, c, nil); err != nil {
			return err
		}
	}
	return nil
}

func sampleGraph() ([]graph.Asset, []graph.Relationship, []graph.RegulatoryEvent) {
	assets := []graph.Asset{
		graph.Equity{
			AssetBase: graph.AssetBase{ID: "AAPL", Name: "Apple Inc."},
			Ticker:    "AAPL", Exchange: "NASDAQ", Sector: "Technology",
		},
		graph.Equity{
			AssetBase: graph.AssetBase{ID: "BRK", Name: "Berkshire Hathaway"},
			Ticker:    "BRK.A", Exchange: "NYSE", Sector: "Conglomerate",
		},
		graph.Bond{
			AssetBase: graph.AssetBase{ID: "UST10Y", Name: "US Treasury 10Y"},
			Issuer:    "US Treasury",
			Maturity:  time.Date(2036, 5, 15, 0, 0, 0, 0, time.UTC),
			CouponRate: 4.25,
		},
		graph.Currency{
			AssetBase: graph.AssetBase{ID: "USD", Name: "US Dollar"},
			CodeISO:   "USD", Country: "United States",
		},
		graph.Commodity{
			AssetBase: graph.AssetBase{ID: "XAU", Name: "Gold"},
			Unit:      "troy ounce",
		},
	}

	relationships := []graph.Relationship{
		{ID: "r-brk-aapl", SourceID: "BRK", TargetID: "AAPL", Type: graph.RelOwns, Directed: true},
		{ID: "r-ust-usd", SourceID: "UST10Y", TargetID: "USD", Type: graph.RelIssuedBy, Directed: true},
		{ID: "r-xau-usd", SourceID: "XAU", TargetID: "USD", Type: graph.RelCorrelatesWith, Directed: false},
		{ID: "r-brk-ust", SourceID: "BRK", TargetID: "UST10Y", Type: graph.RelHedges, Directed: true},
	}

	events := []graph.RegulatoryEvent{
		{
			ID:           uuid.New().String(),
			AssetIDs:     []string{"AAPL"},
			Date:         time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC),
			Description:  "Antitrust inquiry into App Store practices",
			ActivityType: "inquiry",
		},
		{
			ID:           uuid.New().String(),
			AssetIDs:     []string{"UST10Y", "USD"},
			Date:         time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
			Description:  "Primary dealer reporting rule update",
			ActivityType: "rule_change",
		},
	}

	return assets, relationships, events
}
