// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/arenalab/skillboard/internal/adapters/repository"
	"github.com/arenalab/skillboard/internal/domain/model"
)

// EntitiesDependencies defines the interface for entity list reads.
type EntitiesDependencies interface {
	Entities(ctx context.Context, f repository.EntityFilter) ([]model.Entity, error)
}

// EntitiesHandler handles filtered entity list requests.
type EntitiesHandler struct {
	deps     EntitiesDependencies
	pageSize int
}

// NewEntitiesHandler creates a new entities handler.
func NewEntitiesHandler(deps EntitiesDependencies, pageSize int) *EntitiesHandler {
	return &EntitiesHandler{deps: deps, pageSize: pageSize}
}

type entityResponse struct {
	Entity      string  `json:"entity"`
	DisplayName string  `json:"display_name"`
	Rating      float64 `json:"rating"`
	IsStandard  bool    `json:"is_standard"`
	IsActive    bool    `json:"is_active"`
	IsSmall     bool    `json:"is_small"`
}

// HandleGetEntities handles GET /entities requests. The query parameters
// standard_only, include_inactive and include_small mirror the list
// filters; page (one-based, optional) selects a fixed-size slice.
func (h *EntitiesHandler) HandleGetEntities(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_entities"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	filter := repository.EntityFilter{
		StandardOnly:    q.Get("standard_only") == "true",
		IncludeInactive: q.Get("include_inactive") == "true",
		IncludeSmall:    q.Get("include_small") == "true",
	}

	page := 0
	if raw := q.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_page", NewKind(op, ErrBadRequest))
			return
		}
		page = n
	}

	list, err := h.deps.Entities(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	// Clamp the page into range instead of erroring past the end; a stale
	// cursor after a filter change should land on the last page.
	if page > 0 {
		pages := (len(list) + h.pageSize - 1) / h.pageSize
		if pages < 1 {
			pages = 1
		}
		if page > pages {
			page = pages
		}
		start := (page - 1) * h.pageSize
		end := start + h.pageSize
		if start > len(list) {
			start = len(list)
		}
		if end > len(list) {
			end = len(list)
		}
		list = list[start:end]
	}
	out := make([]entityResponse, 0, len(list))
	for _, e := range list {
		out = append(out, entityResponse{
			Entity:      e.ID.Key(),
			DisplayName: e.DisplayName,
			Rating:      e.Rating,
			IsStandard:  e.IsStandard,
			IsActive:    e.IsActive,
			IsSmall:     e.IsSmall,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
