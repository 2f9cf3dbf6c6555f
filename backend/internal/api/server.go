// Package api exposes the asset graph over HTTP. Handlers translate
// the store's typed errors into status codes (not found 404, duplicate
// key 409, validation 400) and never swallow anything else.
package api

import (
	"net/http"
	"time"

	"assetgraph/backend/internal/graph"
	"assetgraph/backend/internal/layout"
	"assetgraph/backend/internal/persist"
	"assetgraph/backend/pkg/errors"
	"assetgraph/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server wires the graph store, optional persistence and layout
// defaults into a gin router
type Server struct {
	graph      *graph.SafeGraph
	loader     *persist.Loader // nil when running memory-only
	springOpts layout.SpringOptions
	logger     *zap.Logger
}

// NewServer creates an API server over the given graph. loader may be
// nil; mutations are then kept in memory only.
func NewServer(g *graph.SafeGraph, loader *persist.Loader, springOpts layout.SpringOptions) *Server {
	return &Server{
		graph:      g,
		loader:     loader,
		springOpts: springOpts,
		logger:     logger.Named("api"),
	}
}

// Router builds the gin engine with middleware and all routes
func (s *Server) Router(production bool) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestLogger(s.logger))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		assets, relationships, events := s.graph.Counts()
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"assets":        assets,
			"relationships": relationships,
			"events":        events,
		})
	})

	api := router.Group("/api")
	{
		api.POST("/assets", s.createAsset)
		api.GET("/assets", s.listAssets)
		api.GET("/assets/:id", s.getAsset)
		api.PUT("/assets/:id", s.updateAsset)
		api.DELETE("/assets/:id", s.deleteAsset)

		api.POST("/relationships", s.createRelationship)
		api.GET("/relationships/:id", s.getRelationship)
		api.DELETE("/relationships/:id", s.deleteRelationship)

		api.POST("/events", s.createEvent)
		api.DELETE("/events/:id", s.deleteEvent)
		api.POST("/events/import", s.importFilings)

		api.GET("/graph/visualization", s.visualization)
	}

	return router
}

// requestLogger is a custom logger middleware for Gin
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// writeError maps store errors onto HTTP status codes
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.IsDuplicateKey(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("Request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
