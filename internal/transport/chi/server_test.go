package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/index"
	"github.com/roamkit/tripdex/internal/metrics"
	buildunc "github.com/roamkit/tripdex/internal/usecase/build"
	healthuc "github.com/roamkit/tripdex/internal/usecase/health"
	planneruc "github.com/roamkit/tripdex/internal/usecase/planner"
)

func TestMain(m *testing.M) {
	metrics.RegisterMetrics()
	os.Exit(m.Run())
}

type stubCatalog struct {
	dests []domain.Destination
	err   error
}

func (s *stubCatalog) Load() ([]domain.Destination, error) { return s.dests, s.err }

// keywordEmbedder maps texts to fixed 2-d directions by keyword, so both
// catalog texts and queries embed deterministically.
type keywordEmbedder struct{}

func (keywordEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "alpine"):
		return domain.EmbeddingResult{Embedding: []float32{1, 0}}, nil
	case strings.Contains(lower, "coral"):
		return domain.EmbeddingResult{Embedding: []float32{0, 1}}, nil
	}
	return domain.EmbeddingResult{Embedding: []float32{1, 1}}, nil
}

func fixtureDest(t *testing.T, name, country string, amenities []string) domain.Destination {
	t.Helper()
	d, err := domain.NewDestination(
		name, "", "", country, "Description of "+name+".",
		[]string{"hiking"}, []string{"views"}, amenities, []string{"Summer"},
		"", nil, []string{name},
	)
	if err != nil {
		t.Fatalf("NewDestination(%q): %v", name, err)
	}
	return d
}

type testEnv struct {
	server  *Server
	router  chi.Router
	catalog *stubCatalog
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	catalog := &stubCatalog{dests: []domain.Destination{
		fixtureDest(t, "Alpine Ridge", "Canada", []string{"visitor centers"}),
		fixtureDest(t, "Coral Bay", "Australia", []string{"luxury resorts"}),
	}}

	store := index.NewStore(filepath.Join(t.TempDir(), "tripdex.idx"))
	holder := index.NewHolder(store)
	emb := keywordEmbedder{}

	builder := buildunc.New(catalog, emb, store, "test-model")
	planner := planneruc.New(holder, emb)
	health := healthuc.New(holder, nil, nil)

	srv := NewServer(planner, builder, holder, health, nil,
		map[string]float64{"activities": 0.4, "scenery": 0.3, "amenities": 0.2, "location": 0.1},
		zap.NewNop())

	router := chi.NewRouter()
	srv.Register(router)
	return &testEnv{server: srv, router: router, catalog: catalog}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) build(t *testing.T) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/v1/build", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("build returned %d: %s", rec.Code, rec.Body.String())
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return er
}

func TestSearch_BeforeBuild(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/v1/search", map[string]any{"query": "alpine lakes"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if er := decodeError(t, rec); er.Code != CodeIndexUnavailable {
		t.Errorf("code = %s, want %s", er.Code, CodeIndexUnavailable)
	}
}

func TestBuildThenSearch(t *testing.T) {
	env := newTestEnv(t)
	env.build(t)

	rec := env.do(t, http.MethodPost, "/v1/search", map[string]any{"query": "alpine lakes"})
	if rec.Code != http.StatusOK {
		t.Fatalf("search returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		BuildID string `json:"build_id"`
		Results []struct {
			Destination   string             `json:"destination"`
			Country       string             `json:"country"`
			BudgetTier    string             `json:"budget_tier"`
			Rank          int                `json:"rank"`
			CombinedScore float64            `json:"combined_score"`
			AspectScores  map[string]float64 `json:"aspect_scores"`
			Explanation   string             `json:"explanation"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.BuildID == "" {
		t.Error("build_id missing from search response")
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	top := resp.Results[0]
	if top.Destination != "Alpine Ridge" || top.Rank != 1 {
		t.Errorf("rank 1 = %q, want Alpine Ridge", top.Destination)
	}
	if top.BudgetTier != "Mid-Range" {
		t.Errorf("budget_tier = %q, want Mid-Range", top.BudgetTier)
	}
	if top.CombinedScore != 1 {
		t.Errorf("combined_score = %v, want 1", top.CombinedScore)
	}
	if len(top.AspectScores) != 4 {
		t.Errorf("aspect_scores has %d entries, want 4", len(top.AspectScores))
	}
	if top.Explanation == "" {
		t.Error("explanation missing")
	}
	// rounded to 3 decimals
	for name, v := range top.AspectScores {
		if v*1000 != float64(int64(v*1000)) {
			t.Errorf("aspect score %s = %v not rounded to 3 decimals", name, v)
		}
	}
}

func TestSearch_WeightsSteerRanking(t *testing.T) {
	env := newTestEnv(t)
	env.build(t)

	rec := env.do(t, http.MethodPost, "/v1/search", map[string]any{
		"query":   "coral reefs",
		"weights": map[string]float64{"scenery": 1},
		"top_k":   1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("search returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Results []struct {
			Destination string `json:"destination"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Destination != "Coral Bay" {
		t.Errorf("results = %+v, want only Coral Bay", resp.Results)
	}
}

func TestSearch_FilterExcludes(t *testing.T) {
	env := newTestEnv(t)
	env.build(t)

	rec := env.do(t, http.MethodPost, "/v1/search", map[string]any{
		"query":   "somewhere warm",
		"filters": map[string]any{"country": "Australia"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("search returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Results []struct {
			Destination string `json:"destination"`
			Country     string `json:"country"`
		} `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Country != "Australia" {
		t.Errorf("results = %+v, want only the Australian destination", resp.Results)
	}
}

func TestSearch_BadRequests(t *testing.T) {
	env := newTestEnv(t)
	env.build(t)

	tests := []struct {
		name     string
		raw      string
		wantCode string
	}{
		{"malformed json", "{not json", CodeBadRequest},
		{"empty query", `{"query": ""}`, CodeValidationFailed},
		{"unknown aspect weight", `{"query": "x", "weights": {"vibes": 1}}`, CodeValidationFailed},
		{"negative weight", `{"query": "x", "weights": {"scenery": -1}}`, CodeValidationFailed},
		{"bad budget tier", `{"query": "x", "filters": {"budget_tier": "Cheap"}}`, CodeValidationFailed},
		{"bad season", `{"query": "x", "filters": {"season": "monsoon"}}`, CodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/search", strings.NewReader(tt.raw))
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if er := decodeError(t, rec); er.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", er.Code, tt.wantCode)
			}
		})
	}
}

func TestBuild_EmptyCatalog(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.dests = nil
	env.catalog.err = domain.ErrEmptyCatalog

	rec := env.do(t, http.MethodPost, "/v1/build", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if er := decodeError(t, rec); er.Code != CodeBuildInputError {
		t.Errorf("code = %s, want %s", er.Code, CodeBuildInputError)
	}
}

func TestListDestinations(t *testing.T) {
	env := newTestEnv(t)
	env.build(t)

	rec := env.do(t, http.MethodGet, "/v1/destinations", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		BuildID      string `json:"build_id"`
		Destinations []struct {
			Name       string `json:"name"`
			Country    string `json:"country"`
			BudgetTier string `json:"budget_tier"`
		} `json:"destinations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Destinations) != 2 {
		t.Fatalf("got %d destinations, want 2", len(resp.Destinations))
	}
	if resp.Destinations[1].BudgetTier != "Luxury" {
		t.Errorf("Coral Bay budget_tier = %q, want Luxury", resp.Destinations[1].BudgetTier)
	}
}

func TestListDestinations_BeforeBuild(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/v1/destinations", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status before build = %d, want 503", rec.Code)
	}

	env.build(t)

	rec = env.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status after build = %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.Checks["index"] != "ok" {
		t.Errorf("health = %+v, want ok", resp)
	}
}

func TestBearerAuthMiddleware(t *testing.T) {
	env := newTestEnv(t)
	router := chi.NewRouter()
	router.Use(BearerAuthMiddleware([]string{"secret-key"}))
	env.server.Register(router)

	send := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := send("/v1/destinations", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}
	if rec := send("/v1/destinations", "Basic secret-key"); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong scheme: status = %d, want 401", rec.Code)
	}
	if rec := send("/v1/destinations", "Bearer wrong"); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rec.Code)
	}
	// valid token reaches the handler (409: nothing built yet)
	if rec := send("/v1/destinations", "Bearer secret-key"); rec.Code != http.StatusConflict {
		t.Errorf("valid token: status = %d, want 409", rec.Code)
	}
	// health is exempt
	if rec := send("/healthz", ""); rec.Code == http.StatusUnauthorized {
		t.Error("healthz must bypass auth")
	}
}

func TestBearerAuthMiddleware_DisabledWhenNoKeys(t *testing.T) {
	env := newTestEnv(t)
	router := chi.NewRouter()
	router.Use(BearerAuthMiddleware(nil))
	env.server.Register(router)

	req := httptest.NewRequest(http.MethodGet, "/v1/destinations", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code == http.StatusUnauthorized {
		t.Error("auth must be pass-through with no configured keys")
	}
}
