// Package viz assembles renderable trace structures from a graph
// snapshot and a computed layout. It owns no state; every function
// validates its inputs and fails rather than truncating or padding.
package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"assetgraph/backend/internal/graph"
	"assetgraph/backend/internal/layout"
	"assetgraph/backend/pkg/errors"
)

// ArrowFraction is where along a directed edge the arrow marker sits
const ArrowFraction = 0.75

// Node is one renderable graph node
type Node struct {
	ID    string   `json:"id"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Z     *float64 `json:"z,omitempty"`
	Label string   `json:"label"`
}

// Edge is one renderable graph edge
type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type"`
	Color    string `json:"color"`
	Directed bool   `json:"directed"`
}

// NodeTrace carries the node scatter arrays consumed by the chart
// frontend; Hover holds one tooltip string per node.
type NodeTrace struct {
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Z     []float64 `json:"z,omitempty"`
	Text  []string  `json:"text"`
	Hover []string  `json:"hover"`
}

// Segment is one edge line piece with both endpoint coordinates
type Segment struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	Z0 float64 `json:"z0,omitempty"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	Z1 float64 `json:"z1,omitempty"`
}

// EdgeTrace groups the segments of one relationship type under a
// shared color and line style
type EdgeTrace struct {
	Type      string    `json:"type"`
	Color     string    `json:"color"`
	LineStyle string    `json:"line_style"`
	Segments  []Segment `json:"segments"`
}

// ArrowMarker marks edge direction at a fixed fraction along the edge;
// DX/DY/DZ is the unit direction vector for the arrow head.
type ArrowMarker struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z,omitempty"`
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
	DZ float64 `json:"dz,omitempty"`
}

// TraceBundle is the full set of traces for one rendered frame
type TraceBundle struct {
	Nodes  NodeTrace     `json:"nodes"`
	Edges  []EdgeTrace   `json:"edges"`
	Arrows []ArrowMarker `json:"arrows,omitempty"`
}

// VisualizationData is the JSON boundary contract returned to the
// frontend: flat node/edge lists plus the grouped trace bundle.
type VisualizationData struct {
	Nodes  []Node       `json:"nodes"`
	Edges  []Edge       `json:"edges"`
	Traces *TraceBundle `json:"traces,omitempty"`
}

// HoverText builds the per-node tooltip strings: name, class summary
// and a sorted metadata digest.
func HoverText(assets []graph.Asset) []string {
	hover := make([]string, len(assets))
	for i, a := range assets {
		base := a.Base()
		parts := []string{base.Name, a.Summary()}
		if len(base.Metadata) > 0 {
			keys := make([]string, 0, len(base.Metadata))
			for k := range base.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				parts = append(parts, fmt.Sprintf("%s: %s", k, base.Metadata[k]))
			}
		}
		hover[i] = strings.Join(parts, "<br>")
	}
	return hover
}

// BuildNodeTrace builds the node scatter trace. Every asset must have
// a position and the hover list must match the asset count exactly.
func BuildNodeTrace(assets []graph.Asset, positions map[string]layout.Position, hover []string, is3D bool) (NodeTrace, error) {
	if len(hover) != len(assets) {
		return NodeTrace{}, errors.NewValidation("hover",
			fmt.Sprintf("hover text length %d does not match node count %d", len(hover), len(assets)))
	}
	trace := NodeTrace{
		X:     make([]float64, len(assets)),
		Y:     make([]float64, len(assets)),
		Text:  make([]string, len(assets)),
		Hover: hover,
	}
	if is3D {
		trace.Z = make([]float64, len(assets))
	}
	for i, a := range assets {
		id := a.Base().ID
		pos, ok := positions[id]
		if !ok {
			return NodeTrace{}, errors.NewValidation("positions", "missing position for node "+id)
		}
		trace.X[i] = pos.X
		trace.Y[i] = pos.Y
		if is3D {
			trace.Z[i] = pos.Z
		}
		trace.Text[i] = a.Base().Name
	}
	return trace, nil
}

// BuildEdgeTraces groups relationships by type and builds one trace
// per group. The colors slice pairs positionally with the sorted group
// list and must match the group count exactly.
func BuildEdgeTraces(relationships []graph.Relationship, positions map[string]layout.Position, colors []string) ([]EdgeTrace, error) {
	groups := make(map[graph.RelationType][]graph.Relationship)
	for _, rel := range relationships {
		groups[rel.Type] = append(groups[rel.Type], rel)
	}
	types := make([]graph.RelationType, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	if len(colors) != len(types) {
		return nil, errors.NewValidation("colors",
			fmt.Sprintf("color list length %d does not match group count %d", len(colors), len(types)))
	}

	traces := make([]EdgeTrace, 0, len(types))
	for i, t := range types {
		trace := EdgeTrace{
			Type:      string(t),
			Color:     colors[i],
			LineStyle: LineStyleFor(t),
		}
		for _, rel := range groups[t] {
			src, ok := positions[rel.SourceID]
			if !ok {
				return nil, errors.NewValidation("positions", "missing position for node "+rel.SourceID)
			}
			dst, ok := positions[rel.TargetID]
			if !ok {
				return nil, errors.NewValidation("positions", "missing position for node "+rel.TargetID)
			}
			trace.Segments = append(trace.Segments, Segment{
				X0: src.X, Y0: src.Y, Z0: src.Z,
				X1: dst.X, Y1: dst.Y, Z1: dst.Z,
			})
		}
		traces = append(traces, trace)
	}
	return traces, nil
}

// BuildArrows places one marker per directed relationship at
// ArrowFraction along the edge, pointing from source to target.
func BuildArrows(relationships []graph.Relationship, positions map[string]layout.Position) ([]ArrowMarker, error) {
	var arrows []ArrowMarker
	for _, rel := range relationships {
		if !rel.Directed {
			continue
		}
		src, ok := positions[rel.SourceID]
		if !ok {
			return nil, errors.NewValidation("positions", "missing position for node "+rel.SourceID)
		}
		dst, ok := positions[rel.TargetID]
		if !ok {
			return nil, errors.NewValidation("positions", "missing position for node "+rel.TargetID)
		}
		dx := dst.X - src.X
		dy := dst.Y - src.Y
		dz := dst.Z - src.Z
		length := vecLen(dx, dy, dz)
		if length == 0 {
			// Self-positioned endpoints carry no direction
			continue
		}
		arrows = append(arrows, ArrowMarker{
			X:  src.X + dx*ArrowFraction,
			Y:  src.Y + dy*ArrowFraction,
			Z:  src.Z + dz*ArrowFraction,
			DX: dx / length,
			DY: dy / length,
			DZ: dz / length,
		})
	}
	return arrows, nil
}

// Assemble combines a snapshot and a layout into the response payload.
// Color overrides follow the per-type map with FallbackColor for
// unmapped types.
func Assemble(snap graph.Snapshot, positions map[string]layout.Position, is3D bool, colorOverrides map[graph.RelationType]string) (*VisualizationData, error) {
	if len(positions) != len(snap.Assets) {
		return nil, errors.NewValidation("positions",
			fmt.Sprintf("position count %d does not match node count %d", len(positions), len(snap.Assets)))
	}

	hover := HoverText(snap.Assets)
	nodeTrace, err := BuildNodeTrace(snap.Assets, positions, hover, is3D)
	if err != nil {
		return nil, err
	}

	groupTypes := relationTypes(snap.Relationships)
	colors := make([]string, len(groupTypes))
	for i, t := range groupTypes {
		colors[i] = ColorFor(t, colorOverrides)
	}
	edgeTraces, err := BuildEdgeTraces(snap.Relationships, positions, colors)
	if err != nil {
		return nil, err
	}
	arrows, err := BuildArrows(snap.Relationships, positions)
	if err != nil {
		return nil, err
	}

	data := &VisualizationData{
		Nodes: make([]Node, len(snap.Assets)),
		Edges: make([]Edge, len(snap.Relationships)),
		Traces: &TraceBundle{
			Nodes:  nodeTrace,
			Edges:  edgeTraces,
			Arrows: arrows,
		},
	}
	for i, a := range snap.Assets {
		base := a.Base()
		pos := positions[base.ID]
		node := Node{ID: base.ID, X: pos.X, Y: pos.Y, Label: base.Name}
		if is3D {
			z := pos.Z
			node.Z = &z
		}
		data.Nodes[i] = node
	}
	for i, rel := range snap.Relationships {
		data.Edges[i] = Edge{
			Source:   rel.SourceID,
			Target:   rel.TargetID,
			Type:     string(rel.Type),
			Color:    ColorFor(rel.Type, colorOverrides),
			Directed: rel.Directed,
		}
	}
	return data, nil
}

func relationTypes(relationships []graph.Relationship) []graph.RelationType {
	seen := make(map[graph.RelationType]bool)
	var types []graph.RelationType
	for _, rel := range relationships {
		if !seen[rel.Type] {
			seen[rel.Type] = true
			types = append(types, rel.Type)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func vecLen(dx, dy, dz float64) float64 {
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
