package graph

import (
	"sort"

	"assetgraph/backend/pkg/errors"
	"assetgraph/backend/pkg/logger"
	"go.uber.org/zap"
)

// AssetGraph is the in-memory asset/relationship store. It is not safe
// for concurrent use; SafeGraph wraps it with a lock for the HTTP layer.
type AssetGraph struct {
	assets        map[string]Asset
	relationships map[string]Relationship
	events        map[string]RegulatoryEvent
	logger        *zap.Logger
}

// NewAssetGraph creates an empty asset graph
func NewAssetGraph() *AssetGraph {
	return &AssetGraph{
		assets:        make(map[string]Asset),
		relationships: make(map[string]Relationship),
		events:        make(map[string]RegulatoryEvent),
		logger:        logger.Named("graph"),
	}
}

// AddAsset inserts a new asset. Fails with a duplicate-key error if the
// id already exists.
func (g *AssetGraph) AddAsset(a Asset) error {
	base := a.Base()
	if base.ID == "" {
		return errors.NewValidation("asset.id", "must not be empty")
	}
	if !ValidAssetClass(a.Class()) {
		return errors.NewValidation("asset.class", "unknown asset class: "+string(a.Class()))
	}
	if _, exists := g.assets[base.ID]; exists {
		return errors.NewDuplicateAsset(base.ID)
	}
	g.assets[base.ID] = a.clone()
	g.logger.Debug("Asset added", zap.String("id", base.ID), zap.String("class", string(a.Class())))
	return nil
}

// UpdateAsset replaces an existing asset record. The id and class must
// match the stored record; assets never change class in place.
func (g *AssetGraph) UpdateAsset(a Asset) error {
	base := a.Base()
	existing, ok := g.assets[base.ID]
	if !ok {
		return errors.NewAssetNotFound(base.ID)
	}
	if existing.Class() != a.Class() {
		return errors.NewValidation("asset.class", "asset class cannot change on update")
	}
	g.assets[base.ID] = a.clone()
	return nil
}

// GetAsset returns a copy of the asset with the given id
func (g *AssetGraph) GetAsset(id string) (Asset, error) {
	a, ok := g.assets[id]
	if !ok {
		return nil, errors.NewAssetNotFound(id)
	}
	return a.clone(), nil
}

// RemoveAsset deletes an asset and cascades to every relationship that
// references it. Regulatory events lose the asset from their id list
// and are deleted once no referenced asset remains.
func (g *AssetGraph) RemoveAsset(id string) error {
	if _, ok := g.assets[id]; !ok {
		return errors.NewAssetNotFound(id)
	}
	delete(g.assets, id)

	removed := 0
	for relID, rel := range g.relationships {
		if rel.SourceID == id || rel.TargetID == id {
			delete(g.relationships, relID)
			removed++
		}
	}
	for evID, ev := range g.events {
		kept := ev.AssetIDs[:0]
		for _, aid := range ev.AssetIDs {
			if aid != id {
				kept = append(kept, aid)
			}
		}
		if len(kept) == 0 {
			delete(g.events, evID)
			continue
		}
		ev.AssetIDs = kept
		g.events[evID] = ev
	}

	g.logger.Debug("Asset removed", zap.String("id", id), zap.Int("cascaded_relationships", removed))
	return nil
}

// AddRelationship inserts a new edge. Both endpoints must already exist.
func (g *AssetGraph) AddRelationship(rel Relationship) error {
	if rel.ID == "" {
		return errors.NewValidation("relationship.id", "must not be empty")
	}
	if !ValidRelationType(rel.Type) {
		return errors.NewValidation("relationship.type", "unknown relationship type: "+string(rel.Type))
	}
	if _, ok := g.assets[rel.SourceID]; !ok {
		return errors.NewAssetNotFound(rel.SourceID)
	}
	if _, ok := g.assets[rel.TargetID]; !ok {
		return errors.NewAssetNotFound(rel.TargetID)
	}
	if _, exists := g.relationships[rel.ID]; exists {
		return errors.NewDuplicateRelationship(rel.ID)
	}
	g.relationships[rel.ID] = rel.clone()
	return nil
}

// GetRelationship returns a copy of the relationship with the given id
func (g *AssetGraph) GetRelationship(id string) (Relationship, error) {
	rel, ok := g.relationships[id]
	if !ok {
		return Relationship{}, errors.NewRelationshipNotFound(id)
	}
	return rel.clone(), nil
}

// RemoveRelationship deletes a single edge by id
func (g *AssetGraph) RemoveRelationship(id string) error {
	if _, ok := g.relationships[id]; !ok {
		return errors.NewRelationshipNotFound(id)
	}
	delete(g.relationships, id)
	return nil
}

// AddEvent inserts a regulatory event. Every referenced asset must exist.
func (g *AssetGraph) AddEvent(ev RegulatoryEvent) error {
	if ev.ID == "" {
		return errors.NewValidation("event.id", "must not be empty")
	}
	if len(ev.AssetIDs) == 0 {
		return errors.NewValidation("event.asset_ids", "must reference at least one asset")
	}
	for _, aid := range ev.AssetIDs {
		if _, ok := g.assets[aid]; !ok {
			return errors.NewAssetNotFound(aid)
		}
	}
	if _, exists := g.events[ev.ID]; exists {
		return errors.NewDuplicateEvent(ev.ID)
	}
	g.events[ev.ID] = ev.clone()
	return nil
}

// RemoveEvent deletes a regulatory event by id
func (g *AssetGraph) RemoveEvent(id string) error {
	if _, ok := g.events[id]; !ok {
		return errors.NewEventNotFound(id)
	}
	delete(g.events, id)
	return nil
}

// Counts returns the number of assets, relationships and events
func (g *AssetGraph) Counts() (assets, relationships, events int) {
	return len(g.assets), len(g.relationships), len(g.events)
}

// VisualizationData returns a deep-copied snapshot of the nodes and
// edges matching the filter. Edges whose endpoints were filtered out
// are excluded, so the snapshot never contains dangling references.
func (g *AssetGraph) VisualizationData(filter VisualizationFilter) (Snapshot, error) {
	if err := filter.Validate(); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{}
	included := make(map[string]bool, len(g.assets))
	for id, a := range g.assets {
		if !filter.matchAsset(a) {
			continue
		}
		included[id] = true
		snap.Assets = append(snap.Assets, a.clone())
	}
	sort.Slice(snap.Assets, func(i, j int) bool {
		return snap.Assets[i].Base().ID < snap.Assets[j].Base().ID
	})

	for _, rel := range g.relationships {
		if !filter.matchRelationship(rel) {
			continue
		}
		if !included[rel.SourceID] || !included[rel.TargetID] {
			continue
		}
		snap.Relationships = append(snap.Relationships, rel.clone())
	}
	sort.Slice(snap.Relationships, func(i, j int) bool {
		return snap.Relationships[i].ID < snap.Relationships[j].ID
	})

	for _, ev := range g.events {
		touches := false
		for _, aid := range ev.AssetIDs {
			if included[aid] {
				touches = true
				break
			}
		}
		if touches {
			snap.Events = append(snap.Events, ev.clone())
		}
	}
	sort.Slice(snap.Events, func(i, j int) bool {
		return snap.Events[i].ID < snap.Events[j].ID
	})

	return snap, nil
}

// BulkLoad populates the graph from persistence DTOs in one pass.
// Assets load first so relationships and events can resolve endpoints
// against both the batch and any existing records. The batch is
// validated before any mutation, so a bad record leaves the graph
// untouched.
func (g *AssetGraph) BulkLoad(assets []Asset, relationships []Relationship, events []RegulatoryEvent) error {
	known := make(map[string]bool, len(g.assets)+len(assets))
	for id := range g.assets {
		known[id] = true
	}
	for _, a := range assets {
		base := a.Base()
		if base.ID == "" {
			return errors.NewValidation("asset.id", "must not be empty")
		}
		if !ValidAssetClass(a.Class()) {
			return errors.NewValidation("asset.class", "unknown asset class: "+string(a.Class()))
		}
		if known[base.ID] {
			return errors.NewDuplicateAsset(base.ID)
		}
		known[base.ID] = true
	}
	relSeen := make(map[string]bool, len(relationships))
	for _, rel := range relationships {
		if rel.ID == "" {
			return errors.NewValidation("relationship.id", "must not be empty")
		}
		if !ValidRelationType(rel.Type) {
			return errors.NewValidation("relationship.type", "unknown relationship type: "+string(rel.Type))
		}
		if !known[rel.SourceID] {
			return errors.NewAssetNotFound(rel.SourceID)
		}
		if !known[rel.TargetID] {
			return errors.NewAssetNotFound(rel.TargetID)
		}
		if _, exists := g.relationships[rel.ID]; exists || relSeen[rel.ID] {
			return errors.NewDuplicateRelationship(rel.ID)
		}
		relSeen[rel.ID] = true
	}
	evSeen := make(map[string]bool, len(events))
	for _, ev := range events {
		if ev.ID == "" {
			return errors.NewValidation("event.id", "must not be empty")
		}
		if len(ev.AssetIDs) == 0 {
			return errors.NewValidation("event.asset_ids", "must reference at least one asset")
		}
		for _, aid := range ev.AssetIDs {
			if !known[aid] {
				return errors.NewAssetNotFound(aid)
			}
		}
		if _, exists := g.events[ev.ID]; exists || evSeen[ev.ID] {
			return errors.NewDuplicateEvent(ev.ID)
		}
		evSeen[ev.ID] = true
	}

	for _, a := range assets {
		g.assets[a.Base().ID] = a.clone()
	}
	for _, rel := range relationships {
		g.relationships[rel.ID] = rel.clone()
	}
	for _, ev := range events {
		g.events[ev.ID] = ev.clone()
	}

	g.logger.Info("Bulk load complete",
		zap.Int("assets", len(assets)),
		zap.Int("relationships", len(relationships)),
		zap.Int("events", len(events)),
	)
	return nil
}
