// Package server exposes the parser over HTTP: a plain JSON endpoint and a
// minimal MCP tools/call endpoint for agents.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/chrisdamba/nutriparse/internal/output"
	"github.com/chrisdamba/nutriparse/internal/parser"
	"github.com/chrisdamba/nutriparse/internal/repositories"
	"github.com/gin-gonic/gin"
)

type Server struct {
	parser      *parser.Parser
	destination output.PlanDestination
	repo        repositories.PlanRepository
	httpServer  *http.Server
}

// New builds a server. destination and repo are optional; without a
// repository the lookup routes answer 503.
func New(addr string, p *parser.Parser, destination output.PlanDestination, repo repositories.PlanRepository) *Server {
	s := &Server{parser: p, destination: destination, repo: repo}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	plans := router.Group("/plans")
	{
		plans.POST("/parse", s.ParsePlan())
		plans.GET("", s.ListPlans())
		plans.GET("/:id", s.GetPlan())
	}

	router.POST("/mcp/tools/call", s.CallTool())
	return router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting nutriparse server on %s", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Printf("shutting down server")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
