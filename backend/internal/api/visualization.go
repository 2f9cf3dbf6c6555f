package api

import (
	"net/http"
	"strconv"
	"strings"

	"assetgraph/backend/internal/graph"
	"assetgraph/backend/internal/layout"
	"assetgraph/backend/internal/viz"
	"assetgraph/backend/pkg/errors"

	"github.com/gin-gonic/gin"
)

// visualization handles
//
//	GET /api/graph/visualization?asset_class=&relationship_type=&ids=&layout=&seed=&colors=
//
// List parameters are comma-separated; colors is type:#rrggbb pairs.
// The snapshot, layout and trace assembly each validate their own
// inputs; any failure surfaces as 400.
func (s *Server) visualization(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	algorithm := c.DefaultQuery("layout", layout.AlgorithmSpring)
	if !layout.ValidAlgorithm(algorithm) {
		s.writeError(c, errors.NewValidation("layout", "unknown layout algorithm: "+algorithm))
		return
	}

	opts := s.springOpts
	if seedParam := c.Query("seed"); seedParam != "" {
		seed, err := strconv.ParseInt(seedParam, 10, 64)
		if err != nil {
			s.writeError(c, errors.NewValidation("seed", "must be an integer"))
			return
		}
		opts.Seed = seed
	}

	snap, err := s.graph.VisualizationData(filter)
	if err != nil {
		s.writeError(c, err)
		return
	}

	positions := layout.Compute(algorithm, snap.AssetIDs(), snap.EdgePairs(), opts)
	is3D := algorithm == layout.AlgorithmSpring3D

	data, err := viz.Assemble(snap, positions, is3D, filter.Colors)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

func filterFromQuery(c *gin.Context) (graph.VisualizationFilter, error) {
	filter := graph.VisualizationFilter{}

	for _, class := range splitParam(c.Query("asset_class")) {
		filter.Classes = append(filter.Classes, graph.AssetClass(class))
	}
	for _, t := range splitParam(c.Query("relationship_type")) {
		filter.Types = append(filter.Types, graph.RelationType(t))
	}
	filter.IDs = splitParam(c.Query("ids"))

	if colorsParam := c.Query("colors"); colorsParam != "" {
		filter.Colors = make(map[graph.RelationType]string)
		for _, pair := range strings.Split(colorsParam, ",") {
			parts := strings.SplitN(pair, ":", 2)
			if len(parts) != 2 {
				return filter, errors.NewValidation("colors", "expected type:#rrggbb pairs, got "+pair)
			}
			filter.Colors[graph.RelationType(parts[0])] = parts[1]
		}
	}

	// Filter contents are validated by the store under its lock
	return filter, nil
}

func splitParam(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
