package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/chrisdamba/nutriparse/internal/output"
	"github.com/chrisdamba/nutriparse/internal/parser"
	"github.com/chrisdamba/nutriparse/internal/repositories/sqlite"
	"github.com/gin-gonic/gin"
)

const document = "Colazione:\nProteine: (scegline uno)\n- 150 gr di Yogurt Greco 0%\nSpuntino\n*Pranzo\nProteine: (scegline uno)\n- 200 g Pollo\nCarboidrati: (scegline uno)\n- 80 g Riso (un pugno)\nGrassi: (scegline uno)\n- 10 g Olio"

type toolResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func setupServer(t *testing.T) (*Server, *sqlite.PlanRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := sqlite.Open(filepath.Join(t.TempDir(), "plans.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatal(err)
	}
	return New(":0", parser.Default(), output.NewStoreOutput(repo), repo), repo
}

func perform(s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s, _ := setupServer(t)
	w := perform(s, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestParsePlanStoresAndReturnsPlan(t *testing.T) {
	s, repo := setupServer(t)

	w := perform(s, http.MethodPost, "/plans/parse?email=utente@example.com", []byte(document))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var plan models.Plan
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if plan.UserEmail != "utente@example.com" {
		t.Errorf("userEmail = %q", plan.UserEmail)
	}
	if got := plan.Meals[models.MealLunch][models.SlotCarbs].Options[0].VisualHelp; got != "un pugno" {
		t.Errorf("visualHelp = %q", got)
	}

	id := w.Header().Get("X-Plan-Id")
	if id == "" {
		t.Fatal("missing X-Plan-Id header")
	}
	if _, err := repo.Get(context.Background(), id); err != nil {
		t.Errorf("plan not stored: %v", err)
	}

	w = perform(s, http.MethodGet, "/plans/"+id, nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET /plans/:id status = %d", w.Code)
	}

	w = perform(s, http.MethodGet, "/plans?limit=5", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), id) {
		t.Errorf("GET /plans = %d %s", w.Code, w.Body.String())
	}
}

func TestParsePlanRejectsEmptyBody(t *testing.T) {
	s, _ := setupServer(t)
	w := perform(s, http.MethodPost, "/plans/parse", []byte("  \n"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestGetPlanNotFound(t *testing.T) {
	s, _ := setupServer(t)
	w := perform(s, http.MethodGet, "/plans/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestListPlansInvalidLimit(t *testing.T) {
	s, _ := setupServer(t)
	w := perform(s, http.MethodGet, "/plans?limit=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestLookupWithoutStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := New(":0", parser.Default(), nil, nil)

	if w := perform(s, http.MethodGet, "/plans/abc", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
	if w := perform(s, http.MethodPost, "/plans/parse", []byte(document)); w.Code != http.StatusOK {
		t.Errorf("parse without destination status = %d", w.Code)
	}
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatal(err)
	}
	return perform(s, http.MethodPost, "/mcp/tools/call", body)
}

func TestCallToolParseDietPlan(t *testing.T) {
	s, repo := setupServer(t)

	w := callTool(t, s, ToolParseDietPlan, map[string]interface{}{"text": document, "user_email": "agente@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var resp toolResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if len(resp.Content) != 1 || resp.Content[0].Type != "text" {
		t.Fatalf("unexpected content %+v", resp.Content)
	}
	var plan models.Plan
	if err := json.Unmarshal([]byte(resp.Content[0].Text), &plan); err != nil {
		t.Fatalf("tool text is not a plan: %v", err)
	}
	if plan.UserEmail != "agente@example.com" {
		t.Errorf("userEmail = %q", plan.UserEmail)
	}
	if n, _ := repo.Count(context.Background()); n != 1 {
		t.Errorf("stored plans = %d, want 1", n)
	}
}

func TestCallToolGetDietPlan(t *testing.T) {
	s, repo := setupServer(t)
	ctx := context.Background()

	rec := output.NewRecord(parser.ParseDocument(document, ""), "piano.pdf")
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatal(err)
	}

	if w := callTool(t, s, ToolGetDietPlan, map[string]interface{}{"id": rec.ID}); w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w := callTool(t, s, ToolGetDietPlan, map[string]interface{}{"id": "missing"}); w.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
}

func TestCallToolErrors(t *testing.T) {
	s, _ := setupServer(t)

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
		want int
	}{
		{"unknown tool", "log_meal", nil, http.StatusNotFound},
		{"missing text", ToolParseDietPlan, map[string]interface{}{}, http.StatusBadRequest},
		{"missing id", ToolGetDietPlan, map[string]interface{}{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := callTool(t, s, tt.tool, tt.args); w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}

	if w := perform(s, http.MethodPost, "/mcp/tools/call", []byte("{")); w.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON status = %d", w.Code)
	}
}
