package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/chrisdamba/nutriparse/internal/output"
	"github.com/chrisdamba/nutriparse/internal/repositories"
	"github.com/gin-gonic/gin"
)

const sourceHTTP = "http"

type planSummary struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	StoredAt  string `json:"storedAt"`
	UserEmail string `json:"userEmail"`
	PlanName  string `json:"planName"`
	Options   int    `json:"options"`
}

// parseText runs the parser and hands the result to the configured destination.
func (s *Server) parseText(c *gin.Context, text, email string) (*models.StoredPlan, error) {
	rec := output.NewRecord(s.parser.Parse(text, email), sourceHTTP)
	if s.destination != nil {
		if err := s.destination.WritePlan(c.Request.Context(), rec); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func writePlan(c *gin.Context, rec *models.StoredPlan) {
	data, err := output.MarshalPlan(rec.Plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("X-Plan-Id", rec.ID)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// POST /plans/parse?email=... with the extracted document text as body.
func (s *Server) ParsePlan() gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read request body"})
			return
		}
		text := string(body)
		if strings.TrimSpace(text) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "document text is required"})
			return
		}

		rec, err := s.parseText(c, text, c.Query("email"))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		writePlan(c, rec)
	}
}

// GET /plans/:id
func (s *Server) GetPlan() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.repo == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "plan store not configured"})
			return
		}
		rec, err := s.repo.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, repositories.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		writePlan(c, rec)
	}
}

// GET /plans?limit=N
func (s *Server) ListPlans() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.repo == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "plan store not configured"})
			return
		}
		limit := 20
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			limit = n
		}

		stored, err := s.repo.List(c.Request.Context(), limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		summaries := make([]planSummary, 0, len(stored))
		for _, rec := range stored {
			summaries = append(summaries, planSummary{
				ID:        rec.ID,
				Source:    rec.Source,
				StoredAt:  rec.StoredAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
				UserEmail: rec.Plan.UserEmail,
				PlanName:  rec.Plan.PlanName,
				Options:   rec.Plan.OptionCount(),
			})
		}
		c.JSON(http.StatusOK, gin.H{"plans": summaries})
	}
}
