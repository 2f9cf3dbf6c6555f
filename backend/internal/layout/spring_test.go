package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpring_TrivialSizes(t *testing.T) {
	opts := DefaultSpringOptions()

	assert.Empty(t, Spring(nil, nil, opts))

	positions := Spring([]string{"only"}, nil, opts)
	require.Len(t, positions, 1)
	assert.Equal(t, Position{}, positions["only"])
}

func TestSpring_DeterministicForSeed(t *testing.T) {
	ids := nodeIDs(8)
	edges := [][2]string{{"n0", "n1"}, {"n1", "n2"}, {"n2", "n3"}, {"n0", "n4"}}

	opts := SpringOptions{Iterations: 30, Seed: 7}
	first := Spring(ids, edges, opts)
	second := Spring(ids, edges, opts)
	assert.Equal(t, first, second, "same seed must reproduce the layout")

	other := Spring(ids, edges, SpringOptions{Iterations: 30, Seed: 8})
	assert.NotEqual(t, first, other, "different seed must move the layout")
}

func TestSpring_FiniteCoordinates(t *testing.T) {
	ids := nodeIDs(10)
	edges := [][2]string{{"n0", "n1"}, {"n2", "n3"}}

	positions := Spring(ids, edges, DefaultSpringOptions())
	require.Len(t, positions, 10)
	for id, pos := range positions {
		assert.False(t, math.IsNaN(pos.X) || math.IsInf(pos.X, 0), "X finite for %s", id)
		assert.False(t, math.IsNaN(pos.Y) || math.IsInf(pos.Y, 0), "Y finite for %s", id)
		assert.Zero(t, pos.Z, "2D layout leaves Z at zero")
	}
}

func TestSpring_CoincidentNodesSeparate(t *testing.T) {
	// Zero spread collapses initial placement onto the origin; the
	// epsilon guard must still separate nodes without dividing by zero.
	ids := nodeIDs(3)
	opts := SpringOptions{Iterations: 20, Seed: 1, Spread: 0}

	positions := Spring(ids, nil, opts)
	require.Len(t, positions, 3)
	for id, pos := range positions {
		assert.False(t, math.IsNaN(pos.X), "X must stay numeric for %s", id)
		assert.False(t, math.IsNaN(pos.Y), "Y must stay numeric for %s", id)
	}
}

func TestSpring_UnknownEdgeEndpointsIgnored(t *testing.T) {
	ids := nodeIDs(3)
	edges := [][2]string{{"n0", "ghost"}, {"n0", "n0"}}

	positions := Spring(ids, edges, DefaultSpringOptions())
	assert.Len(t, positions, 3)
}

func TestSpring3D_UsesThirdDimension(t *testing.T) {
	ids := nodeIDs(6)
	positions := Spring3D(ids, nil, SpringOptions{Iterations: 10, Seed: 3})
	require.Len(t, positions, 6)

	nonZero := false
	for _, pos := range positions {
		if pos.Z != 0 {
			nonZero = true
		}
		assert.False(t, math.IsNaN(pos.Z))
	}
	assert.True(t, nonZero, "3D layout should place nodes off the z=0 plane")
}

func TestSpring3D_DeterministicForSeed(t *testing.T) {
	ids := nodeIDs(5)
	edges := [][2]string{{"n0", "n1"}}
	opts := SpringOptions{Iterations: 15, Seed: 11}

	assert.Equal(t, Spring3D(ids, edges, opts), Spring3D(ids, edges, opts))
}

func TestSpring_EdgesPullNodesTogether(t *testing.T) {
	ids := nodeIDs(2)
	opts := SpringOptions{Iterations: 60, Seed: 5}

	connected := Spring(ids, [][2]string{{"n0", "n1"}}, opts)
	isolated := Spring(ids, nil, opts)

	distConnected := dist2D(connected["n0"], connected["n1"])
	distIsolated := dist2D(isolated["n0"], isolated["n1"])
	assert.Less(t, distConnected, distIsolated,
		"an attractive edge should end closer than pure repulsion")
}

func dist2D(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
