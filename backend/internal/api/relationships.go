package api

import (
	"net/http"

	"assetgraph/backend/internal/graph"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type relationshipRequest struct {
	ID       string            `json:"id"`
	SourceID string            `json:"source_id" binding:"required"`
	TargetID string            `json:"target_id" binding:"required"`
	Type     string            `json:"type" binding:"required"`
	Directed bool              `json:"directed"`
	Metadata map[string]string `json:"metadata"`
}

func (s *Server) createRelationship(c *gin.Context) {
	var req relationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	rel := graph.Relationship{
		ID:       req.ID,
		SourceID: req.SourceID,
		TargetID: req.TargetID,
		Type:     graph.RelationType(req.Type),
		Directed: req.Directed,
		Metadata: req.Metadata,
	}
	if err := s.graph.AddRelationship(rel); err != nil {
		s.writeError(c, err)
		return
	}

	if s.loader != nil {
		if err := s.loader.SaveRelationship(c.Request.Context(), rel); err != nil {
			s.logger.Error("Write-through failed for relationship", zap.String("id", rel.ID), zap.Error(err))
			s.writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, rel)
}

func (s *Server) getRelationship(c *gin.Context) {
	rel, err := s.graph.GetRelationship(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rel)
}

func (s *Server) deleteRelationship(c *gin.Context) {
	id := c.Param("id")
	if err := s.graph.RemoveRelationship(id); err != nil {
		s.writeError(c, err)
		return
	}

	if s.loader != nil {
		if err := s.loader.DeleteRelationship(c.Request.Context(), id); err != nil {
			s.logger.Error("Write-through failed for relationship delete", zap.String("id", id), zap.Error(err))
			s.writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
