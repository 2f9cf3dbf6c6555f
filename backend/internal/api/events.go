package api

import (
	"context"
	"net/http"

	"assetgraph/backend/internal/graph"
	"assetgraph/backend/internal/ingest"
	"assetgraph/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type eventRequest struct {
	ID           string   `json:"id"`
	AssetIDs     []string `json:"asset_ids" binding:"required"`
	Date         string   `json:"date" binding:"required"`
	Description  string   `json:"description"`
	ActivityType string   `json:"activity_type" binding:"required"`
}

func (s *Server) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be RFC 3339 or YYYY-MM-DD"})
		return
	}

	ev := graph.RegulatoryEvent{
		ID:           req.ID,
		AssetIDs:     req.AssetIDs,
		Date:         date,
		Description:  req.Description,
		ActivityType: req.ActivityType,
	}
	if err := s.graph.AddEvent(ev); err != nil {
		s.writeError(c, err)
		return
	}

	if s.loader != nil {
		if err := s.loader.SaveEvent(c.Request.Context(), ev); err != nil {
			s.logger.Error("Write-through failed for event", zap.String("id", ev.ID), zap.Error(err))
			s.writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, ev)
}

func (s *Server) deleteEvent(c *gin.Context) {
	id := c.Param("id")
	if err := s.graph.RemoveEvent(id); err != nil {
		s.writeError(c, err)
		return
	}

	if s.loader != nil {
		if err := s.loader.DeleteEvent(c.Request.Context(), id); err != nil {
			s.logger.Error("Write-through failed for event delete", zap.String("id", id), zap.Error(err))
			s.writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// importFilings accepts a regulator filings HTML document and adds the
// parsed events. Events referencing unknown asset ids are skipped and
// reported, not failed, since filings routinely mention instruments
// outside the graph.
func (s *Server) importFilings(c *gin.Context) {
	result, err := ingest.ParseFilings(c.Request.Body)
	if err != nil {
		s.writeError(c, err)
		return
	}

	added, unknown, failed := s.importEvents(c.Request.Context(), result.Events)

	c.JSON(http.StatusOK, gin.H{
		"imported":       added,
		"skipped_rows":   result.Skipped,
		"unknown_assets": unknown,
		"failed":         failed,
	})
}

// importEvents adds parsed filing events to the graph. Unknown asset
// references are tolerated and counted separately from other rejections
// so the import report distinguishes the two.
func (s *Server) importEvents(ctx context.Context, events []graph.RegulatoryEvent) (added, unknown, failed int) {
	for _, ev := range events {
		if err := s.graph.AddEvent(ev); err != nil {
			if errors.IsNotFound(err) {
				unknown++
			} else {
				s.logger.Warn("Imported event rejected", zap.String("id", ev.ID), zap.Error(err))
				failed++
			}
			continue
		}
		added++
		if s.loader != nil {
			if err := s.loader.SaveEvent(ctx, ev); err != nil {
				s.logger.Error("Write-through failed for imported event", zap.String("id", ev.ID), zap.Error(err))
			}
		}
	}
	return added, unknown, failed
}
