package viz

import "assetgraph/backend/internal/graph"

// FallbackColor is used for relationship types without a configured color
const FallbackColor = "#999999"

// defaultColors maps each known relationship type to its edge color
var defaultColors = map[graph.RelationType]string{
	graph.RelOwns:           "#1f77b4",
	graph.RelCorrelatesWith: "#2ca02c",
	graph.RelRegulates:      "#d62728",
	graph.RelIssuedBy:       "#9467bd",
	graph.RelHedges:         "#ff7f0e",
}

// defaultLineStyles maps each known relationship type to a dash style
var defaultLineStyles = map[graph.RelationType]string{
	graph.RelOwns:           "solid",
	graph.RelCorrelatesWith: "dot",
	graph.RelRegulates:      "dash",
	graph.RelIssuedBy:       "solid",
	graph.RelHedges:         "dashdot",
}

// ColorFor resolves the edge color for a relationship type, preferring
// the caller's overrides and falling back to FallbackColor for
// unmapped types.
func ColorFor(t graph.RelationType, overrides map[graph.RelationType]string) string {
	if c, ok := overrides[t]; ok {
		return c
	}
	if c, ok := defaultColors[t]; ok {
		return c
	}
	return FallbackColor
}

// LineStyleFor resolves the dash style for a relationship type
func LineStyleFor(t graph.RelationType) string {
	if s, ok := defaultLineStyles[t]; ok {
		return s
	}
	return "solid"
}
