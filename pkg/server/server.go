package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/totg"
	"github.com/soundprediction/totg/pkg/config"
	"github.com/soundprediction/totg/pkg/server/handlers"
	"github.com/soundprediction/totg/pkg/types"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	router *gin.Engine
	client totg.TOTG
	server *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, client totg.TOTG) *Server {
	return &Server{
		config: cfg,
		client: client,
	}
}

// Setup sets up the server routes and middleware
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	s.router = gin.New()

	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())
	s.router.Use(contextMiddleware())

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

// setupRoutes sets up all the routes
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.client)
	documentHandler := handlers.NewDocumentHandler(s.client)
	attentionHandler := handlers.NewAttentionHandler(s.client)
	analysisHandler := handlers.NewAnalysisHandler(s.client)
	exportHandler := handlers.NewExportHandler(s.client)

	// Health endpoints
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/ready", healthHandler.ReadinessCheck)
	s.router.GET("/live", healthHandler.LivenessCheck) // Kubernetes liveness probe
	s.router.GET("/health/detailed", healthHandler.DetailedHealthCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		// Ingestion
		v1.POST("/documents", documentHandler.AddDocument)
		v1.POST("/relationships", documentHandler.AddRelationship)

		// Temporal queries
		v1.GET("/documents", documentHandler.ListDocuments)
		v1.GET("/documents/:id", documentHandler.GetDocument)
		v1.GET("/documents/:id/future", documentHandler.FutureDocuments)
		v1.GET("/documents/:id/past", documentHandler.PastDocuments)
		v1.GET("/path", documentHandler.FindPath)

		// Attention
		v1.GET("/attention/:id", attentionHandler.ComputeAttention)
		v1.GET("/related/:id", attentionHandler.RelatedDocuments)

		// Long-chain analysis
		v1.POST("/analyze", analysisHandler.Analyze)
		v1.POST("/summary", analysisHandler.TemporalSummary)

		// Export and statistics
		v1.GET("/export", exportHandler.ExportGraph)
		v1.GET("/statistics", exportHandler.Statistics)
	}
}

// Start starts the server
func (s *Server) Start() error {
	fmt.Printf("Starting server on %s\n", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	fmt.Println("Stopping server...")
	return s.server.Shutdown(ctx)
}

// contextMiddleware threads caller identity from request headers into
// the request context so telemetry sinks can attribute error records.
func contextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if userID := c.GetHeader("X-User-ID"); userID != "" {
			ctx = context.WithValue(ctx, types.ContextKeyUserID, userID)
		}
		if sessionID := c.GetHeader("X-Session-ID"); sessionID != "" {
			ctx = context.WithValue(ctx, types.ContextKeySessionID, sessionID)
		}
		ctx = context.WithValue(ctx, types.ContextKeyRequestSource, "server")

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
