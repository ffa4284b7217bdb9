// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/academy/internal/adapters/repository"
	"github.com/okian/academy/pkg/logger"
)

// DefaultMaxLimit caps any limit query parameter unless overridden.
const DefaultMaxLimit = 500

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LeaderboardDependencies
	RankDependencies
	PlayerDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	playerHandler      *PlayerHandler

	logger   logger.Logger
	reporter Reporter
	maxLimit int
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLimit caps the limit query parameter.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLogger sets the logger used for request failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReporter forwards 5xx failures and recovered panics to r.
func WithReporter(r Reporter) Option {
	return func(s *Server) {
		if r != nil {
			s.reporter = r
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		reporter: noopReporter{},
		maxLimit: DefaultMaxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}

	e := &errorWriter{logger: s.logger, reporter: s.reporter}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.leaderboardHandler = newLeaderboardHandler(deps, s.maxLimit, e)
	s.rankHandler = newRankHandler(deps, e)
	s.playerHandler = newPlayerHandler(deps, s.maxLimit, e)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	handle := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.Handle(pattern, RequestID(Recovery(s.logger, s.reporter)(MetricsMiddleware(h, endpoint))))
	}

	handle("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	handle("GET /stats", "stats", s.statsHandler.HandleStats)
	handle("GET /leaderboards/academy", "leaderboard_academy", s.leaderboardHandler.HandleGetAcademy)
	handle("GET /leaderboards/{category}", "leaderboard", s.leaderboardHandler.HandleGetCategory)
	handle("GET /players/{uuid}/rank", "player_rank", s.rankHandler.HandleGetRank)
	handle("GET /players/{uuid}/summary", "player_summary", s.playerHandler.HandleGetSummary)
	handle("GET /players/{uuid}/party", "player_party", s.playerHandler.HandleGetParty)
	handle("GET /players/{uuid}/pc", "player_pc", s.playerHandler.HandleGetPC)
	handle("GET /players/{uuid}/pokedex", "player_pokedex", s.playerHandler.HandleGetPokedex)
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorWriter maps errors to responses. Server-side failures are logged with
// their stack and reported.
type errorWriter struct {
	logger   logger.Logger
	reporter Reporter
}

func (e *errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = http.StatusText(status)
		e.logger.Error(ctx, "request failed",
			logger.String("path", r.URL.Path),
			logger.String("request_id", RequestIDFrom(ctx)),
			logger.Error(err),
			logger.Stack(err),
		)
		e.reporter.Report(ctx, err, r, map[string]any{"request_id": RequestIDFrom(ctx)})
	}
	writeJSON(w, status, errorResponse{
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFrom(ctx),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// queryInt parses a positive integer query parameter. A missing value
// yields def; values above maxN are rejected when maxN > 0.
func queryInt(r *http.Request, name string, def, maxN int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errors.New(name + " must be a positive integer")
	}
	if maxN > 0 && n > maxN {
		return 0, errors.New(name + " must not exceed " + strconv.Itoa(maxN))
	}
	return n, nil
}

