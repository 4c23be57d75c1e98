// Package httpserver exposes a small inspection API over persisted
// graph.Factory runs: the latest resolved graph for a component, and
// the history of runs across every component. The route table is fixed
// and small, so routes are registered directly on the gin engine with
// no module-registration indirection.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"bindgraph/filter"
	"bindgraph/guard"
	"bindgraph/store"
)

// Options configures the Server's listen address and gin mode.
type Options struct {
	Host    string
	Port    int
	GinMode string
}

// DefaultOptions is the localhost release-mode configuration serve
// starts from.
func DefaultOptions() Options {
	return Options{Host: "localhost", Port: 8080, GinMode: gin.ReleaseMode}
}

// Server is the inspection HTTP API.
type Server struct {
	engine  *gin.Engine
	store   store.Store
	guard   guard.GraphGuard
	filters *filter.Manager
	options Options
}

// New builds a Server backed by st, protected by g (nil disables
// authentication; useful for local demos), with a filter.Manager
// translating resolver errors into HTTP responses.
func New(options Options, st store.Store, g guard.GraphGuard) *Server {
	gin.SetMode(options.GinMode)
	engine := gin.Default()

	s := &Server{
		engine:  engine,
		store:   st,
		guard:   g,
		filters: filter.NewManager(),
		options: options,
	}
	engine.Use(s.filters.GinHandler())
	if g != nil {
		engine.Use(guard.Middleware(g))
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/graphs/:component", s.handleGetGraph)
	s.engine.GET("/runs", s.handleListRuns)
}

// handleGetGraph returns the most recently persisted graph for the
// named component.
func (s *Server) handleGetGraph(c *gin.Context) {
	component := c.Param("component")

	runs, err := s.store.ListRuns(c.Request.Context(), component)
	if err != nil {
		c.Error(err)
		return
	}
	if len(runs) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no resolved runs for component %q", component)})
		return
	}

	graphJSON, err := s.store.LoadGraph(c.Request.Context(), runs[0].ID)
	if err != nil {
		c.Error(err)
		return
	}

	var payload interface{}
	if err := json.Unmarshal([]byte(graphJSON), &payload); err != nil {
		c.JSON(http.StatusOK, gin.H{"component": component, "raw": graphJSON})
		return
	}
	c.JSON(http.StatusOK, payload)
}

// handleListRuns lists every persisted run, optionally filtered by the
// ?component= query parameter.
func (s *Server) handleListRuns(c *gin.Context) {
	component := c.Query("component")

	runs, err := s.store.ListRuns(c.Request.Context(), component)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// server returns an error.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		addr := fmt.Sprintf("%s:%d", s.options.Host, s.options.Port)
		if err := s.engine.Run(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errChan:
		return err
	}
}

// Engine returns the underlying gin.Engine, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
