package graph

import (
	"regexp"

	"assetgraph/backend/pkg/errors"
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// VisualizationFilter narrows the snapshot returned by
// VisualizationData. Nil/empty slices mean "no restriction"; a filter
// that is present must be well-formed or the whole call fails.
type VisualizationFilter struct {
	// Classes restricts nodes to the given asset classes
	Classes []AssetClass
	// Types restricts edges to the given relationship types
	Types []RelationType
	// IDs is an allow-list of asset ids
	IDs []string
	// Colors overrides the per-type edge colors, #rrggbb format
	Colors map[RelationType]string
}

// Validate checks the filter is well-formed. Returns a validation
// error for unknown classes/types, duplicate ids, or malformed colors.
func (f VisualizationFilter) Validate() error {
	for _, c := range f.Classes {
		if !ValidAssetClass(c) {
			return errors.NewValidation("filter.asset_class", "unknown asset class: "+string(c))
		}
	}
	for _, t := range f.Types {
		if !ValidRelationType(t) {
			return errors.NewValidation("filter.relationship_type", "unknown relationship type: "+string(t))
		}
	}
	seen := make(map[string]bool, len(f.IDs))
	for _, id := range f.IDs {
		if id == "" {
			return errors.NewValidation("filter.ids", "id must not be empty")
		}
		if seen[id] {
			return errors.NewValidation("filter.ids", "duplicate id: "+id)
		}
		seen[id] = true
	}
	for t, color := range f.Colors {
		if !ValidRelationType(t) {
			return errors.NewValidation("filter.colors", "unknown relationship type: "+string(t))
		}
		if !hexColorPattern.MatchString(color) {
			return errors.NewValidation("filter.colors", "color must be #rrggbb, got "+color)
		}
	}
	return nil
}

func (f VisualizationFilter) matchAsset(a Asset) bool {
	if len(f.Classes) > 0 && !containsClass(f.Classes, a.Class()) {
		return false
	}
	if len(f.IDs) > 0 && !containsString(f.IDs, a.Base().ID) {
		return false
	}
	return true
}

func (f VisualizationFilter) matchRelationship(rel Relationship) bool {
	if len(f.Types) > 0 && !containsType(f.Types, rel.Type) {
		return false
	}
	return true
}

func containsClass(cs []AssetClass, c AssetClass) bool {
	for _, v := range cs {
		if v == c {
			return true
		}
	}
	return false
}

func containsType(ts []RelationType, t RelationType) bool {
	for _, v := range ts {
		if v == t {
			return true
		}
	}
	return false
}

func containsString(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
