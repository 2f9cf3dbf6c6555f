// Package persist is the Neo4j persistence tier behind the in-memory
// asset graph. The store itself never talks to the database; this
// loader bulk-reads records into DTOs at startup and writes individual
// mutations through when persistence is enabled.
package persist

import (
	"context"
	"fmt"
	"time"

	"assetgraph/backend/internal/graph"
	"assetgraph/backend/pkg/errors"
	"assetgraph/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Loader handles all Neo4j database operations
type Loader struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewLoader creates a new persistence loader
func NewLoader(driver neo4j.DriverWithContext) *Loader {
	return &Loader{
		driver: driver,
		logger: logger.Named("persist"),
	}
}

// Close closes the Neo4j driver connection
func (l *Loader) Close() error {
	return l.driver.Close(context.Background())
}

// GraphData carries the bulk-load DTOs for SafeGraph.BulkLoad
type GraphData struct {
	Assets        []graph.Asset
	Relationships []graph.Relationship
	Events        []graph.RegulatoryEvent
}

// LoadGraph fetches the full graph for startup population. Asset and
// relationship queries run concurrently; events load after both since
// they are the smallest set.
func (l *Loader) LoadGraph(ctx context.Context) (*GraphData, error) {
	data := &GraphData{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		assets, err := l.fetchAssets(gctx)
		if err != nil {
			return err
		}
		data.Assets = assets
		return nil
	})
	g.Go(func() error {
		relationships, err := l.fetchRelationships(gctx)
		if err != nil {
			return err
		}
		data.Relationships = relationships
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	events, err := l.fetchEvents(ctx)
	if err != nil {
		return nil, err
	}
	data.Events = events

	l.logger.Info("Graph loaded from Neo4j",
		zap.Int("assets", len(data.Assets)),
		zap.Int("relationships", len(data.Relationships)),
		zap.Int("events", len(data.Events)),
	)
	return data, nil
}

func (l *Loader) fetchAssets(ctx context.Context) ([]graph.Asset, error) {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a:Asset)
		RETURN a.id as id, a.name as name, a.class as class, a.metadata as metadata,
		       a.ticker as ticker, a.exchange as exchange, a.sector as sector,
		       a.issuer as issuer, a.maturity as maturity, a.coupon_rate as coupon_rate,
		       a.code_iso as code_iso, a.country as country,
		       a.unit as unit, a.delivery_month as delivery_month
		ORDER BY a.id
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, errors.NewGraphQueryFailed("fetch assets", err)
	}

	var assets []graph.Asset
	for result.Next(ctx) {
		record := result.Record()
		asset, err := assetFromRecord(record)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed("fetch assets", err)
	}
	return assets, nil
}

func assetFromRecord(record *neo4j.Record) (graph.Asset, error) {
	base := graph.AssetBase{
		ID:       getStringFromRecord(record, "id"),
		Name:     getStringFromRecord(record, "name"),
		Metadata: getMetadataFromRecord(record, "metadata"),
	}
	class := graph.AssetClass(getStringFromRecord(record, "class"))
	switch class {
	case graph.ClassEquity:
		return graph.Equity{
			AssetBase: base,
			Ticker:    getStringFromRecord(record, "ticker"),
			Exchange:  getStringFromRecord(record, "exchange"),
			Sector:    getStringFromRecord(record, "sector"),
		}, nil
	case graph.ClassBond:
		return graph.Bond{
			AssetBase:  base,
			Issuer:     getStringFromRecord(record, "issuer"),
			Maturity:   getTimeFromRecord(record, "maturity"),
			CouponRate: getFloat64FromRecord(record, "coupon_rate"),
		}, nil
	case graph.ClassCurrency:
		return graph.Currency{
			AssetBase: base,
			CodeISO:   getStringFromRecord(record, "code_iso"),
			Country:   getStringFromRecord(record, "country"),
		}, nil
	case graph.ClassCommodity:
		return graph.Commodity{
			AssetBase:     base,
			Unit:          getStringFromRecord(record, "unit"),
			DeliveryMonth: getStringFromRecord(record, "delivery_month"),
		}, nil
	default:
		return nil, errors.NewValidation("asset.class",
			fmt.Sprintf("unknown asset class %q for asset %s", class, base.ID))
	}
}

func (l *Loader) fetchRelationships(ctx context.Context) ([]graph.Relationship, error) {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (s:Asset)-[r:RELATES_TO]->(t:Asset)
		RETURN r.id as id, s.id as source_id, t.id as target_id,
		       r.type as type, r.directed as directed, r.metadata as metadata
		ORDER BY r.id
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, errors.NewGraphQueryFailed("fetch relationships", err)
	}

	var relationships []graph.Relationship
	for result.Next(ctx) {
		record := result.Record()
		relationships = append(relationships, graph.Relationship{
			ID:       getStringFromRecord(record, "id"),
			SourceID: getStringFromRecord(record, "source_id"),
			TargetID: getStringFromRecord(record, "target_id"),
			Type:     graph.RelationType(getStringFromRecord(record, "type")),
			Directed: getBoolFromRecord(record, "directed"),
			Metadata: getMetadataFromRecord(record, "metadata"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed("fetch relationships", err)
	}
	return relationships, nil
}

func (l *Loader) fetchEvents(ctx context.Context) ([]graph.RegulatoryEvent, error) {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (e:RegulatoryEvent)
		OPTIONAL MATCH (e)-[:AFFECTS]->(a:Asset)
		RETURN e.id as id, e.date as date, e.description as description,
		       e.activity_type as activity_type,
		       collect(a.id) as asset_ids
		ORDER BY e.id
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, errors.NewGraphQueryFailed("fetch events", err)
	}

	var events []graph.RegulatoryEvent
	for result.Next(ctx) {
		record := result.Record()
		events = append(events, graph.RegulatoryEvent{
			ID:           getStringFromRecord(record, "id"),
			AssetIDs:     getStringSliceFromRecord(record, "asset_ids"),
			Date:         getTimeFromRecord(record, "date"),
			Description:  getStringFromRecord(record, "description"),
			ActivityType: getStringFromRecord(record, "activity_type"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed("fetch events", err)
	}
	return events, nil
}

// SaveAsset writes an asset through to Neo4j
func (l *Loader) SaveAsset(ctx context.Context, a graph.Asset) error {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	params := assetParams(a)
	query := `
		MERGE (a:Asset {id: $id})
		SET a += $props
	`
	_, err := session.Run(ctx, query, map[string]interface{}{
		"id":    a.Base().ID,
		"props": params,
	})
	if err != nil {
		return errors.NewGraphQueryFailed("save asset", err)
	}
	return nil
}

func assetParams(a graph.Asset) map[string]interface{} {
	base := a.Base()
	params := map[string]interface{}{
		"name":     base.Name,
		"class":    string(a.Class()),
		"metadata": encodeMetadata(base.Metadata),
	}
	switch v := a.(type) {
	case graph.Equity:
		params["ticker"] = v.Ticker
		params["exchange"] = v.Exchange
		params["sector"] = v.Sector
	case graph.Bond:
		params["issuer"] = v.Issuer
		params["maturity"] = v.Maturity
		params["coupon_rate"] = v.CouponRate
	case graph.Currency:
		params["code_iso"] = v.CodeISO
		params["country"] = v.Country
	case graph.Commodity:
		params["unit"] = v.Unit
		params["delivery_month"] = v.DeliveryMonth
	}
	return params
}

// DeleteAsset removes an asset and its incident edges from Neo4j.
// Regulatory events left without any AFFECTS link are pruned so a
// reload matches the in-memory cascade.
func (l *Loader) DeleteAsset(ctx context.Context, id string) error {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		`MATCH (a:Asset {id: $id}) DETACH DELETE a`,
		map[string]interface{}{"id": id})
	if err != nil {
		return errors.NewGraphQueryFailed("delete asset", err)
	}

	_, err = session.Run(ctx,
		`MATCH (e:RegulatoryEvent) WHERE NOT (e)-[:AFFECTS]->(:Asset) DELETE e`, nil)
	if err != nil {
		return errors.NewGraphQueryFailed("prune orphaned events", err)
	}
	return nil
}

// SaveRelationship writes a relationship through to Neo4j
func (l *Loader) SaveRelationship(ctx context.Context, rel graph.Relationship) error {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (s:Asset {id: $source_id}), (t:Asset {id: $target_id})
		MERGE (s)-[r:RELATES_TO {id: $id}]->(t)
		SET r.type = $type, r.directed = $directed, r.metadata = $metadata
	`
	_, err := session.Run(ctx, query, map[string]interface{}{
		"id":        rel.ID,
		"source_id": rel.SourceID,
		"target_id": rel.TargetID,
		"type":      string(rel.Type),
		"directed":  rel.Directed,
		"metadata":  encodeMetadata(rel.Metadata),
	})
	if err != nil {
		return errors.NewGraphQueryFailed("save relationship", err)
	}
	return nil
}

// DeleteRelationship removes a relationship from Neo4j
func (l *Loader) DeleteRelationship(ctx context.Context, id string) error {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		`MATCH ()-[r:RELATES_TO {id: $id}]->() DELETE r`,
		map[string]interface{}{"id": id})
	if err != nil {
		return errors.NewGraphQueryFailed("delete relationship", err)
	}
	return nil
}

// SaveEvent writes a regulatory event and its asset links to Neo4j
func (l *Loader) SaveEvent(ctx context.Context, ev graph.RegulatoryEvent) error {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (e:RegulatoryEvent {id: $id})
		SET e.date = $date, e.description = $description, e.activity_type = $activity_type
		WITH e
		UNWIND $asset_ids as aid
		MATCH (a:Asset {id: aid})
		MERGE (e)-[:AFFECTS]->(a)
	`
	_, err := session.Run(ctx, query, map[string]interface{}{
		"id":            ev.ID,
		"date":          ev.Date,
		"description":   ev.Description,
		"activity_type": ev.ActivityType,
		"asset_ids":     ev.AssetIDs,
	})
	if err != nil {
		return errors.NewGraphQueryFailed("save event", err)
	}
	return nil
}

// DeleteEvent removes a regulatory event and its asset links from Neo4j
func (l *Loader) DeleteEvent(ctx context.Context, id string) error {
	session := l.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.Run(ctx,
		`MATCH (e:RegulatoryEvent {id: $id}) DETACH DELETE e`,
		map[string]interface{}{"id": id})
	if err != nil {
		return errors.NewGraphQueryFailed("delete event", err)
	}
	return nil
}

// getTimeFromRecord handles both neo4j temporal values and strings
func getTimeFromRecord(record *neo4j.Record, key string) time.Time {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return time.Time{}
	}
	switch v := val.(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
