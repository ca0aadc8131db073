// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/arenalab/skillboard/internal/domain/history"
	"github.com/arenalab/skillboard/internal/domain/model"
)

// HistoryDependencies defines the interface for rating history reads.
type HistoryDependencies interface {
	History(ctx context.Context, ids []model.EntityID, r model.TimeRange) ([]history.Point, error)
}

// HistoryHandler handles reconstructed rating series requests.
type HistoryHandler struct {
	deps       HistoryDependencies
	maxTracked int
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies, maxTracked int) *HistoryHandler {
	return &HistoryHandler{deps: deps, maxTracked: maxTracked}
}

type seriesValueResponse struct {
	Value       float64 `json:"value"`
	Uncertainty float64 `json:"uncertainty"`
	Upper       float64 `json:"upper"`
	Lower       float64 `json:"lower"`
}

type historyPointResponse struct {
	Bucket string                         `json:"bucket"`
	Values map[string]seriesValueResponse `json:"values"`
}

// HandleGetHistory handles GET /history?ids=a%23b,c&range=48h|7d|30d requests.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	var ids []model.EntityID
	if raw := q.Get("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id := model.ParseEntityID(part)
			if id.IsZero() {
				continue
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if len(ids) > h.maxTracked {
		writeError(w, http.StatusBadRequest, "too_many_ids", NewKind(op, ErrBadRequest))
		return
	}

	// Missing range falls back to the default 48h window.
	tr := model.Last48H
	if raw := q.Get("range"); raw != "" {
		var ok bool
		if tr, ok = model.ParseTimeRange(raw); !ok {
			writeError(w, http.StatusBadRequest, "bad_range", NewKind(op, ErrBadRequest))
			return
		}
	}

	points, err := h.deps.History(r.Context(), ids, tr)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]historyPointResponse, 0, len(points))
	for _, p := range points {
		values := make(map[string]seriesValueResponse, len(p.Values))
		for key, v := range p.Values {
			values[key] = seriesValueResponse{
				Value:       v.Value,
				Uncertainty: v.Uncertainty,
				Upper:       v.Upper,
				Lower:       v.Lower,
			}
		}
		out = append(out, historyPointResponse{
			Bucket: p.Bucket.UTC().Format(time.RFC3339),
			Values: values,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
