// Package chi is the HTTP transport for the trip planner API.
package chi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/roamkit/tripdex/internal/domain"
	"github.com/roamkit/tripdex/internal/domain/aspect"
	"github.com/roamkit/tripdex/internal/domain/trip/budget"
	"github.com/roamkit/tripdex/internal/domain/trip/filters"
	"github.com/roamkit/tripdex/internal/domain/trip/request"
	"github.com/roamkit/tripdex/internal/index"
	"github.com/roamkit/tripdex/internal/metrics"
	"github.com/roamkit/tripdex/internal/transport/geocode"
	buildunc "github.com/roamkit/tripdex/internal/usecase/build"
	healthuc "github.com/roamkit/tripdex/internal/usecase/health"
	planneruc "github.com/roamkit/tripdex/internal/usecase/planner"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned by the API. The three "nothing came back" shapes
// are deliberately distinct: no index yet (conflict, trigger a build), an
// empty result set (200 with an empty list), and a failed search (5xx).
const (
	CodeBadRequest        = "bad_request"
	CodeValidationFailed  = "validation_failed"
	CodeIndexUnavailable  = "index_unavailable"
	CodeBuildInProgress   = "build_in_progress"
	CodeBuildInputError   = "build_input_error"
	CodeEmbeddingProvider = "embedding_provider_error"
	CodeInternalError     = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server exposes the planner over HTTP.
type Server struct {
	planner       *planneruc.Service
	builder       *buildunc.Service
	holder        *index.Holder
	health        *healthuc.Service
	geocoder      *geocode.Client // nil = geocoding disabled
	defaultWts    map[string]float64
	logger        *zap.Logger
	errorHandlers []errorHandler

	buildSem chan struct{} // 1-slot: builds are single-actor
}

// NewServer creates the HTTP API server. geocoder may be nil.
func NewServer(
	planner *planneruc.Service,
	builder *buildunc.Service,
	holder *index.Holder,
	health *healthuc.Service,
	geocoder *geocode.Client,
	defaultWeights map[string]float64,
	logger *zap.Logger,
) *Server {
	s := &Server{
		planner:    planner,
		builder:    builder,
		holder:     holder,
		health:     health,
		geocoder:   geocoder,
		defaultWts: defaultWeights,
		logger:     logger,
		buildSem:   make(chan struct{}, 1),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusConflict, CodeIndexUnavailable),
		sentinelHandler(domain.ErrEmptyCatalog, http.StatusBadRequest, CodeBuildInputError),
		sentinelHandler(domain.ErrDuplicateDestination, http.StatusBadRequest, CodeBuildInputError),
		sentinelHandler(domain.ErrInvalidRecord, http.StatusBadRequest, CodeBuildInputError),
		sentinelHandler(domain.ErrDimMismatch, http.StatusInternalServerError, CodeInternalError),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProvider),
	}
	return s
}

// Register mounts the API routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/v1/search", s.handleSearch)
	r.Post("/v1/build", s.handleBuild)
	r.Get("/v1/destinations", s.handleListDestinations)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// searchRequest is the JSON body of POST /v1/search.
type searchRequest struct {
	Query   string              `json:"query"`
	Weights map[string]float64  `json:"weights,omitempty"`
	TopK    int                 `json:"top_k,omitempty"`
	Filters *searchFiltersInput `json:"filters,omitempty"`
}

type searchFiltersInput struct {
	Country    string `json:"country,omitempty"`
	BudgetTier string `json:"budget_tier,omitempty"`
	Season     string `json:"season,omitempty"`
}

type searchResponse struct {
	BuildID string       `json:"build_id"`
	Results []resultItem `json:"results"`
}

type resultItem struct {
	Destination     string               `json:"destination"`
	Location        string               `json:"location,omitempty"`
	Country         string               `json:"country"`
	BudgetTier      string               `json:"budget_tier"`
	Rank            int                  `json:"rank"`
	CombinedScore   float64              `json:"combined_score"`
	AspectScores    map[string]float64   `json:"aspect_scores"`
	Explanation     string               `json:"explanation"`
	MatchingPhrases []string             `json:"matching_phrases,omitempty"`
	Coordinates     *geocode.Coordinates `json:"coordinates,omitempty"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	var f filters.Filters
	if body.Filters != nil {
		var err error
		f, err = filters.New(body.Filters.Country, body.Filters.BudgetTier, body.Filters.Season)
		if err != nil {
			metrics.SearchesTotal.WithLabelValues("invalid").Inc()
			writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
			return
		}
	}

	// Absent weights mean the configured defaults, not zero everywhere.
	rawWeights := body.Weights
	if rawWeights == nil {
		rawWeights = s.defaultWts
	}

	req, err := request.New(body.Query, rawWeights, body.TopK, f)
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("invalid").Inc()
		s.handleDomainError(w, err)
		return
	}

	matches, err := s.planner.Search(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrIndexUnavailable) {
			metrics.SearchesTotal.WithLabelValues("unavailable").Inc()
		} else {
			metrics.SearchesTotal.WithLabelValues("error").Inc()
		}
		s.handleDomainError(w, err)
		return
	}
	metrics.SearchesTotal.WithLabelValues("ok").Inc()

	snap, err := s.holder.Current()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := searchResponse{BuildID: snap.BuildID(), Results: make([]resultItem, len(matches))}
	for i := range matches {
		m := &matches[i]
		dest := m.Destination()

		scores := make(map[string]float64, aspect.Count)
		for _, a := range aspect.All() {
			scores[string(a)] = round3(m.AspectScore(a))
		}

		item := resultItem{
			Destination:     dest.Name(),
			Location:        dest.Location(),
			Country:         dest.Country(),
			BudgetTier:      string(budget.Infer(dest.Amenities())),
			Rank:            m.Rank(),
			CombinedScore:   round3(m.CombinedScore()),
			AspectScores:    scores,
			Explanation:     m.Explanation(),
			MatchingPhrases: m.MatchingPhrases(),
		}
		if s.geocoder != nil {
			if coords, ok := s.geocoder.Lookup(r.Context(), geocodeQuery(dest)); ok {
				item.Coordinates = coords
			}
		}
		resp.Results[i] = item
	}

	writeJSON(w, http.StatusOK, resp)
}

type buildResponse struct {
	BuildID      string    `json:"build_id"`
	Destinations int       `json:"destinations"`
	Dimensions   int       `json:"dimensions"`
	Model        string    `json:"model"`
	BuiltAt      time.Time `json:"built_at"`
	ElapsedMS    int64     `json:"elapsed_ms"`
}

func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	select {
	case s.buildSem <- struct{}{}:
		defer func() { <-s.buildSem }()
	default:
		writeError(w, http.StatusConflict, CodeBuildInProgress, "a build is already running")
		return
	}

	start := time.Now()
	snap, err := s.builder.Build(r.Context())
	if err != nil {
		metrics.IndexBuildsTotal.WithLabelValues("error").Inc()
		s.handleDomainError(w, err)
		return
	}
	metrics.IndexBuildsTotal.WithLabelValues("ok").Inc()
	metrics.IndexDestinations.Set(float64(snap.Len()))

	s.holder.Set(snap)

	writeJSON(w, http.StatusOK, buildResponse{
		BuildID:      snap.BuildID(),
		Destinations: snap.Len(),
		Dimensions:   snap.Dimensions(),
		Model:        snap.Model(),
		BuiltAt:      snap.BuiltAt(),
		ElapsedMS:    time.Since(start).Milliseconds(),
	})
}

type destinationItem struct {
	Name       string   `json:"name"`
	Location   string   `json:"location,omitempty"`
	Country    string   `json:"country"`
	BudgetTier string   `json:"budget_tier"`
	BestSeason []string `json:"best_season,omitempty"`
}

func (s *Server) handleListDestinations(w http.ResponseWriter, r *http.Request) {
	snap, err := s.holder.Current()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]destinationItem, snap.Len())
	for i := 0; i < snap.Len(); i++ {
		d := snap.Destination(i)
		items[i] = destinationItem{
			Name:       d.Name(),
			Location:   d.Location(),
			Country:    d.Country(),
			BudgetTier: string(budget.Infer(d.Amenities())),
			BestSeason: d.BestSeason(),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"build_id":     snap.BuildID(),
		"destinations": items,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// handleDomainError maps domain sentinels to HTTP status codes.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	s.logger.Error("unhandled error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

// geocodeQuery builds the place string sent to the geocoder.
func geocodeQuery(d domain.Destination) string {
	if d.Location() != "" {
		return d.Location() + ", " + d.Country()
	}
	return d.Name() + ", " + d.Country()
}

// round3 rounds for display. Internal scoring keeps full precision.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
