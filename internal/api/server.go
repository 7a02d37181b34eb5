// Package api exposes the generation backend and interactive widget sessions
// over HTTP with gin.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-widgetgen/internal/logger"
	"github.com/goliatone/go-widgetgen/internal/storage"
	"github.com/goliatone/go-widgetgen/pkg/genservice"
	"github.com/goliatone/go-widgetgen/pkg/render"
	"github.com/goliatone/go-widgetgen/pkg/session"
)

// Name and version reported by the root endpoint.
const (
	ServiceName    = "StoryWeave AI API"
	ServiceVersion = "1.0.0"
)

// HTTPMetrics records request outcomes. internal/metrics implements it.
type HTTPMetrics interface {
	ObserveHTTP(route, method string, status int, elapsed time.Duration)
	SessionsActive(n int)
}

// Deps are the collaborators the handlers need. Service, Sessions and
// Renderers are required; the rest are optional.
type Deps struct {
	Service   genservice.Service
	Sessions  *session.Manager
	Renderers *render.Registry
	// Store backs GET /api/download/:id.
	Store storage.Store
	// Themes resolves the ?theme=&variant= query of HTML renders.
	Themes      theme.ThemeSelector
	Metrics     HTTPMetrics
	Gatherer    prometheus.Gatherer
	Logger      logger.Logger
	CORSOrigins []string
}

// Server holds the handler state.
type Server struct {
	svc       genservice.Service
	sessions  *session.Manager
	renderers *render.Registry
	store     storage.Store
	themes    theme.ThemeSelector
	metrics   HTTPMetrics
	log       logger.Logger
}

// New validates deps and returns the configured gin engine.
func New(deps Deps) (*gin.Engine, error) {
	if deps.Service == nil {
		return nil, errors.New("api: generation service is required")
	}
	if deps.Sessions == nil {
		return nil, errors.New("api: session manager is required")
	}
	if deps.Renderers == nil {
		return nil, errors.New("api: renderer registry is required")
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Server{
		svc:       deps.Service,
		sessions:  deps.Sessions,
		renderers: deps.Renderers,
		store:     deps.Store,
		themes:    deps.Themes,
		metrics:   deps.Metrics,
		log:       log,
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.observe(), cors(deps.CORSOrigins))

	router.GET("/", s.handleRoot)
	if deps.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	backend := router.Group("/api")
	backend.GET("/examples", s.handleExamples)
	backend.POST("/generate-widget", s.handleGenerate)
	backend.POST("/edit-widget", s.handleEdit)
	backend.POST("/export-widget", s.handleExport)
	backend.POST("/validate-widget", s.handleValidate)
	backend.GET("/download/:id", s.handleDownload)

	sessions := backend.Group("/sessions")
	sessions.POST("", s.handleCreateSession)
	sessions.GET("/:id", s.handleGetSession)
	sessions.DELETE("/:id", s.handleDeleteSession)
	sessions.GET("/:id/html", s.handleSessionHTML)
	sessions.GET("/:id/render/:renderer", s.handleSessionRender)
	sessions.POST("/:id/responses", s.handleChange)
	sessions.POST("/:id/submit/:element", s.handleSubmit)
	sessions.POST("/:id/edit", s.handleSessionEdit)
	sessions.GET("/:id/conversation", s.handleConversation)

	return router, nil
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": ServiceName, "version": ServiceVersion})
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		if s.metrics == nil {
			return
		}
		s.metrics.ObserveHTTP(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(started))
	}
}

// cors allows the configured origins. "*" allows any origin.
func cors(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	wildcard := false
	for _, origin := range origins {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin == "" {
			continue
		}
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := allowed[origin]; ok || wildcard {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				h.Add("Vary", "Origin")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// fail writes a FastAPI style error body.
func fail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
