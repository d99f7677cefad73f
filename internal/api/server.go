// Package api serves the board over HTTP.
package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tgienger/taskboard/internal/board"
)

// Options configures the HTTP server.
type Options struct {
	// AllowedOrigins lists the CORS origins. Empty allows every origin
	// without credentials.
	AllowedOrigins []string

	// Mode is the gin mode. Empty leaves the current mode.
	Mode string
}

// Server is the board HTTP API
type Server struct {
	board  *board.Service
	router *gin.Engine
}

// NewServer creates a new API server
func NewServer(svc *board.Service, opts Options) *Server {
	if opts.Mode != "" {
		gin.SetMode(opts.Mode)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), requestID(), corsMiddleware(opts.AllowedOrigins))

	s := &Server{
		board:  svc,
		router: router,
	}

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)

	projects := router.Group("/projects")
	{
		projects.GET("", s.handleListProjects)
		projects.POST("", s.handleCreateProject)
		projects.GET("/:id", s.handleGetProject)
		projects.PUT("/:id", s.handleUpdateProject)
		projects.DELETE("/:id", s.handleDeleteProject)
	}

	tasks := router.Group("/tasks")
	{
		tasks.GET("", s.handleListTasks)
		tasks.POST("", s.handleCreateTask)
		tasks.GET("/:id", s.handleGetTask)
		tasks.PUT("/:id", s.handleUpdateTask)
		tasks.PATCH("/:id/toggle", s.handleToggleTask)
		tasks.PATCH("/:id/status", s.handlePatchTaskStatus)
		tasks.DELETE("/:id", s.handleDeleteTask)

		tasks.GET("/:id/subtasks", s.handleListSubtasks)
		tasks.POST("/:id/subtasks", s.handleCreateSubtask)
		tasks.GET("/:id/subtasks/:subtaskID", s.handleGetSubtask)
		tasks.PUT("/:id/subtasks/:subtaskID", s.handleUpdateSubtask)
		tasks.PATCH("/:id/subtasks/:subtaskID/toggle", s.handleToggleSubtask)
		tasks.DELETE("/:id/subtasks/:subtaskID", s.handleDeleteSubtask)
	}

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "API running"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
