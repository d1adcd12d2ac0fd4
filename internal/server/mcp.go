package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/chrisdamba/nutriparse/internal/output"
	"github.com/chrisdamba/nutriparse/internal/repositories"
	"github.com/gin-gonic/gin"
)

const (
	ToolParseDietPlan = "parse_diet_plan"
	ToolGetDietPlan   = "get_diet_plan"
)

type ParseDietPlanParams struct {
	Text      string `json:"text" description:"Extracted text of the diet plan document"`
	UserEmail string `json:"user_email,omitempty" description:"Email stored on the plan"`
}

type GetDietPlanParams struct {
	ID string `json:"id" description:"Plan id returned by parse_diet_plan"`
}

var errToolNotFound = errors.New("unknown tool")

func extractParams(req *protocol.CallToolRequest, target interface{}) error {
	jsonBytes, err := json.Marshal(req.Arguments)
	if err != nil {
		return fmt.Errorf("failed to marshal arguments: %w", err)
	}
	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return fmt.Errorf("failed to unmarshal parameters: %w", err)
	}
	return nil
}

func textResult(text string) *protocol.CallToolResult {
	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// POST /mcp/tools/call
func (s *Server) CallTool() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request protocol.CallToolRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid JSON: %v", err)})
			return
		}

		var (
			result *protocol.CallToolResult
			err    error
		)
		switch request.Name {
		case ToolParseDietPlan:
			result, err = s.handleParseDietPlan(c, &request)
		case ToolGetDietPlan:
			result, err = s.handleGetDietPlan(c, &request)
		default:
			err = fmt.Errorf("%w: %s", errToolNotFound, request.Name)
		}

		switch {
		case errors.Is(err, errToolNotFound), errors.Is(err, repositories.ErrPlanNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		case err != nil:
			log.Printf("tool %s failed: %v", request.Name, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (s *Server) handleParseDietPlan(c *gin.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params ParseDietPlanParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if strings.TrimSpace(params.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	rec, err := s.parseText(c, params.Text, params.UserEmail)
	if err != nil {
		return nil, err
	}
	data, err := output.MarshalPlan(rec.Plan)
	if err != nil {
		return nil, err
	}
	return textResult(string(data)), nil
}

func (s *Server) handleGetDietPlan(c *gin.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error) {
	var params GetDietPlanParams
	if err := extractParams(req, &params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}
	if params.ID == "" {
		return nil, fmt.Errorf("id is required")
	}
	if s.repo == nil {
		return nil, fmt.Errorf("plan store not configured")
	}

	rec, err := s.repo.Get(c.Request.Context(), params.ID)
	if err != nil {
		return nil, err
	}
	data, err := output.MarshalPlan(rec.Plan)
	if err != nil {
		return nil, err
	}
	return textResult(string(data)), nil
}
