package layout

import (
	"math"
	"math/rand"
)

// SpringOptions tunes the force-directed layouts. The Seed drives the
// initial random placement, so two runs with the same nodes, edges and
// options produce identical coordinates.
type SpringOptions struct {
	Iterations int
	Seed       int64
	// Spread is the side length of the initial placement cube
	Spread float64
}

// DefaultSpringOptions returns the options used when the caller does
// not supply any
func DefaultSpringOptions() SpringOptions {
	return SpringOptions{
		Iterations: 50,
		Seed:       42,
		Spread:     20.0,
	}
}

func (o SpringOptions) withDefaults() SpringOptions {
	if o.Iterations <= 0 {
		o.Iterations = 50
	}
	if o.Spread <= 0 {
		o.Spread = 20.0
	}
	return o
}

// Spring computes a 2D force-directed layout: attractive forces along
// edges, pairwise repulsion between all nodes, a fixed iteration
// count with a cooling step size.
func Spring(ids []string, edges [][2]string, opts SpringOptions) map[string]Position {
	return spring(ids, edges, opts, 2)
}

// Spring3D is the 3D variant of Spring
func Spring3D(ids []string, edges [][2]string, opts SpringOptions) map[string]Position {
	return spring(ids, edges, opts, 3)
}

func spring(ids []string, edges [][2]string, opts SpringOptions, dims int) map[string]Position {
	positions := make(map[string]Position, len(ids))
	n := len(ids)
	if n == 0 {
		return positions
	}
	if n == 1 {
		positions[ids[0]] = Position{}
		return positions
	}

	opts = opts.withDefaults()
	rng := rand.New(rand.NewSource(opts.Seed))

	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
	}

	// Initial placement inside a cube of side Spread, centered at origin
	coords := make([][3]float64, n)
	for i := range coords {
		for d := 0; d < dims; d++ {
			coords[i][d] = (rng.Float64() - 0.5) * opts.Spread
		}
	}

	// Edge list as index pairs; edges naming unknown ids are dropped
	type edgePair struct{ a, b int }
	pairs := make([]edgePair, 0, len(edges))
	for _, e := range edges {
		a, okA := index[e[0]]
		b, okB := index[e[1]]
		if okA && okB && a != b {
			pairs = append(pairs, edgePair{a, b})
		}
	}

	// Fruchterman-Reingold: k is the ideal pairwise distance
	area := opts.Spread * opts.Spread
	k := math.Sqrt(area / float64(n))
	temperature := opts.Spread / 10.0
	cooling := temperature / float64(opts.Iterations+1)

	displacement := make([][3]float64, n)
	for iter := 0; iter < opts.Iterations; iter++ {
		for i := range displacement {
			displacement[i] = [3]float64{}
		}

		// Repulsion between all pairs
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				delta, dist := diff(coords[i], coords[j], dims)
				force := k * k / dist
				for d := 0; d < dims; d++ {
					push := delta[d] / dist * force
					displacement[i][d] += push
					displacement[j][d] -= push
				}
			}
		}

		// Attraction along edges
		for _, p := range pairs {
			delta, dist := diff(coords[p.a], coords[p.b], dims)
			force := dist * dist / k
			for d := 0; d < dims; d++ {
				pull := delta[d] / dist * force
				displacement[p.a][d] -= pull
				displacement[p.b][d] += pull
			}
		}

		// Move capped by temperature
		for i := 0; i < n; i++ {
			length := norm(displacement[i], dims)
			if length < epsilon {
				continue
			}
			limited := math.Min(length, temperature)
			for d := 0; d < dims; d++ {
				coords[i][d] += displacement[i][d] / length * limited
			}
		}
		temperature -= cooling
		if temperature <= 0 {
			break
		}
	}

	for i, id := range ids {
		positions[id] = Position{X: coords[i][0], Y: coords[i][1], Z: coords[i][2]}
	}
	return positions
}

// epsilon guards the distance divisions when two nodes coincide
const epsilon = 1e-9

func diff(a, b [3]float64, dims int) ([3]float64, float64) {
	var delta [3]float64
	sum := 0.0
	for d := 0; d < dims; d++ {
		delta[d] = a[d] - b[d]
		sum += delta[d] * delta[d]
	}
	dist := math.Sqrt(sum)
	if dist < epsilon {
		dist = epsilon
	}
	return delta, dist
}

func norm(v [3]float64, dims int) float64 {
	sum := 0.0
	for d := 0; d < dims; d++ {
		sum += v[d] * v[d]
	}
	return math.Sqrt(sum)
}
