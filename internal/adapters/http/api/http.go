// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/arenalab/skillboard/internal/adapters/repository"
	"github.com/arenalab/skillboard/internal/domain/history"
	"github.com/arenalab/skillboard/internal/domain/model"
	"github.com/arenalab/skillboard/internal/domain/skills"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations over entity state.
	Performance(ctx context.Context, id model.EntityID) ([]model.EnvironmentPerformance, error)
	Skills(ctx context.Context, id model.EntityID, balancedOnly bool) ([]skills.Score, error)
	History(ctx context.Context, ids []model.EntityID, r model.TimeRange) ([]history.Point, error)
	Entities(ctx context.Context, f repository.EntityFilter) ([]model.Entity, error)
	TopN(ctx context.Context, n int) ([]Entry, error)
	Rank(ctx context.Context, id model.EntityID) (Entry, error)

	// Snapshot ingestion: idempotency window plus async enqueue.
	// Enqueue returns false on backpressure.
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
	Enqueue(ctx context.Context, s model.RatingSnapshot) bool
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = repository.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	snapshotsHandler   *SnapshotsHandler
	performanceHandler *PerformanceHandler
	skillsHandler      *SkillsHandler
	historyHandler     *HistoryHandler
	entitiesHandler    *EntitiesHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	dashboardHandler   *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{
		maxLeaderboardLimit: 100,
		maxHistoryEntities:  20,
		pageSize:            10,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		snapshotsHandler:   NewSnapshotsHandler(deps),
		performanceHandler: NewPerformanceHandler(deps),
		skillsHandler:      NewSkillsHandler(deps),
		historyHandler:     NewHistoryHandler(deps, cfg.maxHistoryEntities),
		entitiesHandler:    NewEntitiesHandler(deps, cfg.pageSize),
		leaderboardHandler: NewLeaderboardHandler(deps, cfg.maxLeaderboardLimit),
		rankHandler:        NewRankHandler(deps),
		dashboardHandler:   newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/snapshots", MetricsMiddleware(s.snapshotsHandler.HandlePostSnapshot, "snapshots"))
	mux.HandleFunc("/performance/", MetricsMiddleware(s.performanceHandler.HandleGetPerformance, "performance"))
	mux.HandleFunc("/skills/", MetricsMiddleware(s.skillsHandler.HandleGetSkills, "skills"))
	mux.HandleFunc("/history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/entities", MetricsMiddleware(s.entitiesHandler.HandleGetEntities, "entities"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

// entityFromPath parses the entity id path segment after prefix.
// The composite form is "model#human"; a bare model id is also accepted.
func entityFromPath(r *http.Request, prefix string) (model.EntityID, error) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		return model.EntityID{}, ErrBadRequest
	}
	id := model.ParseEntityID(raw)
	if id.IsZero() {
		return model.EntityID{}, ErrBadRequest
	}
	return id, nil
}
