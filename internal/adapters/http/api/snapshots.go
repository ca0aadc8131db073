// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/arenalab/skillboard/internal/domain/model"
)

// SnapshotDependencies defines the interface for snapshot ingestion.
type SnapshotDependencies interface {
	SeenAndRecord(ctx context.Context, id string) bool
	Unrecord(ctx context.Context, id string)
	Enqueue(ctx context.Context, s model.RatingSnapshot) bool
}

// SnapshotsHandler handles rating snapshot ingestion requests.
type SnapshotsHandler struct {
	deps SnapshotDependencies
}

// NewSnapshotsHandler creates a new snapshots handler.
func NewSnapshotsHandler(deps SnapshotDependencies) *SnapshotsHandler {
	return &SnapshotsHandler{deps: deps}
}

// snapshotRequest mirrors the OpenAPI schema for POST /snapshots.
type snapshotRequest struct {
	SnapshotID    string  `json:"snapshot_id"`
	Entity        string  `json:"entity"`
	IntervalStart string  `json:"interval_start"`
	Mean          float64 `json:"mean"`
	Uncertainty   float64 `json:"uncertainty"`
}

func (s snapshotRequest) validate() error {
	switch {
	case strings.TrimSpace(s.SnapshotID) == "":
		return errors.New("missing snapshot_id")
	case strings.TrimSpace(s.Entity) == "":
		return errors.New("missing entity")
	case strings.TrimSpace(s.IntervalStart) == "":
		return errors.New("missing interval_start")
	case s.Uncertainty < 0:
		return errors.New("uncertainty must be >= 0")
	}
	if _, err := time.Parse(time.RFC3339, s.IntervalStart); err != nil {
		return errors.New("invalid interval_start; must be RFC3339")
	}
	return nil
}

func (s snapshotRequest) toModel() model.RatingSnapshot {
	ts, _ := time.Parse(time.RFC3339, s.IntervalStart)
	return model.RatingSnapshot{
		SnapshotID:    s.SnapshotID,
		Entity:        model.ParseEntityID(s.Entity),
		IntervalStart: ts.UTC(),
		Mean:          s.Mean,
		Uncertainty:   s.Uncertainty,
	}
}

// HandlePostSnapshot handles POST /snapshots requests.
func (h *SnapshotsHandler) HandlePostSnapshot(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_snapshot"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), req.SnapshotID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	// Try to enqueue for async processing
	if ok := h.deps.Enqueue(r.Context(), req.toModel()); !ok {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), req.SnapshotID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
