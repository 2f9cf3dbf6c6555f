package graph

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeGraph_SerializesMutations(t *testing.T) {
	s := NewSafeGraph(NewAssetGraph())

	const workers = 8
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := fmt.Sprintf("asset-%d-%d", w, i)
				if err := s.AddAsset(equity(id, id)); err != nil {
					t.Errorf("AddAsset(%s): %v", id, err)
				}
			}
		}(w)
	}
	wg.Wait()

	assets, _, _ := s.Counts()
	assert.Equal(t, workers*perWorker, assets)
}

func TestSafeGraph_ConcurrentReadsAndWrites(t *testing.T) {
	s := NewSafeGraph(NewAssetGraph())
	require.NoError(t, s.AddAsset(equity("A", "Asset A")))
	require.NoError(t, s.AddAsset(bond("B", "Asset B")))
	require.NoError(t, s.AddRelationship(Relationship{ID: "r1", SourceID: "A", TargetID: "B", Type: RelOwns}))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				snap, err := s.VisualizationData(VisualizationFilter{})
				if err != nil {
					t.Errorf("VisualizationData: %v", err)
					return
				}
				// Single-call atomicity: an edge in the snapshot always
				// has both endpoints in the same snapshot
				included := make(map[string]bool, len(snap.Assets))
				for _, a := range snap.Assets {
					included[a.Base().ID] = true
				}
				for _, rel := range snap.Relationships {
					if !included[rel.SourceID] || !included[rel.TargetID] {
						t.Errorf("snapshot contains dangling edge %s", rel.ID)
					}
				}
			}
		}(w)
	}
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				id := fmt.Sprintf("w%d-%d", w, i)
				if err := s.AddAsset(equity(id, id)); err != nil {
					t.Errorf("AddAsset(%s): %v", id, err)
					return
				}
				if err := s.AddRelationship(Relationship{
					ID: "rel-" + id, SourceID: id, TargetID: "A", Type: RelCorrelatesWith,
				}); err != nil {
					t.Errorf("AddRelationship(%s): %v", id, err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	assets, relationships, _ := s.Counts()
	assert.Equal(t, 52, assets)
	assert.Equal(t, 51, relationships)
}

func TestSafeGraph_BulkLoadUnderLock(t *testing.T) {
	s := NewSafeGraph(NewAssetGraph())
	require.NoError(t, s.BulkLoad(
		[]Asset{equity("A", "Asset A")},
		nil,
		nil,
	))
	a, _, _ := s.Counts()
	assert.Equal(t, 1, a)
}
