package graph

import "sync"

// SafeGraph serializes access to an AssetGraph behind a single mutex.
// One coarse lock is a deliberate simplicity trade-off for the expected
// low request concurrency, not a scalability feature. Each public call
// holds the lock for its full duration, including snapshot copying, so
// a single call is atomic; nothing spans multiple calls.
type SafeGraph struct {
	mu sync.Mutex
	g  *AssetGraph
}

// NewSafeGraph wraps an asset graph with the store lock
func NewSafeGraph(g *AssetGraph) *SafeGraph {
	return &SafeGraph{g: g}
}

// AddAsset inserts a new asset under the store lock
func (s *SafeGraph) AddAsset(a Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.AddAsset(a)
}

// UpdateAsset replaces an existing asset under the store lock
func (s *SafeGraph) UpdateAsset(a Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.UpdateAsset(a)
}

// GetAsset returns a copy of an asset under the store lock
func (s *SafeGraph) GetAsset(id string) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.GetAsset(id)
}

// RemoveAsset deletes an asset and its incident relationships
func (s *SafeGraph) RemoveAsset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.RemoveAsset(id)
}

// AddRelationship inserts a new edge under the store lock
func (s *SafeGraph) AddRelationship(rel Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.AddRelationship(rel)
}

// GetRelationship returns a copy of an edge under the store lock
func (s *SafeGraph) GetRelationship(id string) (Relationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.GetRelationship(id)
}

// RemoveRelationship deletes an edge under the store lock
func (s *SafeGraph) RemoveRelationship(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.RemoveRelationship(id)
}

// AddEvent inserts a regulatory event under the store lock
func (s *SafeGraph) AddEvent(ev RegulatoryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.AddEvent(ev)
}

// RemoveEvent deletes a regulatory event under the store lock
func (s *SafeGraph) RemoveEvent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.RemoveEvent(id)
}

// Counts reports store sizes under the store lock
func (s *SafeGraph) Counts() (assets, relationships, events int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Counts()
}

// VisualizationData returns a filtered deep-copied snapshot. The copy
// is built while the lock is held, so the snapshot is consistent even
// if a write lands immediately after.
func (s *SafeGraph) VisualizationData(filter VisualizationFilter) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.VisualizationData(filter)
}

// BulkLoad populates the graph from persistence DTOs under one lock
// acquisition.
func (s *SafeGraph) BulkLoad(assets []Asset, relationships []Relationship, events []RegulatoryEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.BulkLoad(assets, relationships, events)
}
