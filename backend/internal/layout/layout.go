// Package layout computes deterministic node coordinates for graph
// visualization. All functions are pure: they receive node ids (and
// edges for force-directed variants) and return positions keyed by id,
// touching no shared state.
package layout

import "math"

// Position is a node coordinate. Z stays zero for 2D algorithms.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Algorithm names accepted by Compute
const (
	AlgorithmCircular = "circular"
	AlgorithmGrid     = "grid"
	AlgorithmSpring   = "spring"
	AlgorithmSpring3D = "spring3d"
)

// ValidAlgorithm reports whether name is a known layout algorithm
func ValidAlgorithm(name string) bool {
	switch name {
	case AlgorithmCircular, AlgorithmGrid, AlgorithmSpring, AlgorithmSpring3D:
		return true
	}
	return false
}

// CircularRadius is the fixed radius used by the circular layout
const CircularRadius = 10.0

// GridSpacing is the fixed cell size used by the grid layout
const GridSpacing = 5.0

// Circular places n nodes evenly on a circle of fixed radius, node i at
// angle 2π·i/n. Zero nodes yields an empty map; one node sits at the
// origin.
func Circular(ids []string) map[string]Position {
	positions := make(map[string]Position, len(ids))
	n := len(ids)
	if n == 0 {
		return positions
	}
	if n == 1 {
		positions[ids[0]] = Position{}
		return positions
	}
	for i, id := range ids {
		angle := 2 * math.Pi * float64(i) / float64(n)
		positions[id] = Position{
			X: CircularRadius * math.Cos(angle),
			Y: CircularRadius * math.Sin(angle),
		}
	}
	return positions
}

// Grid places nodes row-major in a ceil(sqrt(n)) × ceil(sqrt(n)) grid
func Grid(ids []string) map[string]Position {
	positions := make(map[string]Position, len(ids))
	n := len(ids)
	if n == 0 {
		return positions
	}
	side := int(math.Ceil(math.Sqrt(float64(n))))
	for i, id := range ids {
		row := i / side
		col := i % side
		positions[id] = Position{
			X: float64(col) * GridSpacing,
			Y: float64(row) * GridSpacing,
		}
	}
	return positions
}

// Compute runs the named algorithm over the node set. Spring variants
// take their iteration count and seed from opts.
func Compute(algorithm string, ids []string, edges [][2]string, opts SpringOptions) map[string]Position {
	switch algorithm {
	case AlgorithmGrid:
		return Grid(ids)
	case AlgorithmSpring:
		return Spring(ids, edges, opts)
	case AlgorithmSpring3D:
		return Spring3D(ids, edges, opts)
	default:
		return Circular(ids)
	}
}
