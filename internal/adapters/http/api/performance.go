// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/arenalab/skillboard/internal/domain/model"
)

// PerformanceDependencies defines the interface for performance reads.
type PerformanceDependencies interface {
	Performance(ctx context.Context, id model.EntityID) ([]model.EnvironmentPerformance, error)
}

// PerformanceHandler handles per-environment performance requests.
type PerformanceHandler struct {
	deps PerformanceDependencies
}

// NewPerformanceHandler creates a new performance handler.
func NewPerformanceHandler(deps PerformanceDependencies) *PerformanceHandler {
	return &PerformanceHandler{deps: deps}
}

type skillTagResponse struct {
	Skill  string  `json:"skill"`
	Weight float64 `json:"weight"`
}

type performanceResponse struct {
	Environment      string             `json:"environment"`
	Rating           float64            `json:"rating"`
	GamesPlayed      int                `json:"games_played"`
	WinRate          float64            `json:"win_rate"`
	AvgDecisionTime  float64            `json:"avg_decision_time"`
	Wins             int                `json:"wins"`
	Draws            int                `json:"draws"`
	Losses           int                `json:"losses"`
	Tags             []skillTagResponse `json:"tags"`
	IsBalancedSubset bool               `json:"is_balanced_subset"`
}

// HandleGetPerformance handles GET /performance/{entity} requests.
func (h *PerformanceHandler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_performance"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, err := entityFromPath(r, "/performance/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	rows, err := h.deps.Performance(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	// An entity with no rows is an empty list, not an error.
	out := make([]performanceResponse, 0, len(rows))
	for _, rec := range rows {
		tags := make([]skillTagResponse, 0, len(rec.Tags))
		for _, t := range rec.Tags {
			tags = append(tags, skillTagResponse{Skill: t.Skill, Weight: t.Weight})
		}
		out = append(out, performanceResponse{
			Environment:      rec.Environment,
			Rating:           rec.Rating,
			GamesPlayed:      rec.GamesPlayed,
			WinRate:          rec.WinRate,
			AvgDecisionTime:  rec.AvgDecisionTime,
			Wins:             rec.Wins,
			Draws:            rec.Draws,
			Losses:           rec.Losses,
			Tags:             tags,
			IsBalancedSubset: rec.IsBalancedSubset,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
