// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/arenalab/skillboard/internal/domain/model"
	"github.com/arenalab/skillboard/internal/domain/skills"
)

// SkillsDependencies defines the interface for skill aggregation reads.
type SkillsDependencies interface {
	Skills(ctx context.Context, id model.EntityID, balancedOnly bool) ([]skills.Score, error)
}

// SkillsHandler handles aggregated skill vector requests.
type SkillsHandler struct {
	deps SkillsDependencies
}

// NewSkillsHandler creates a new skills handler.
func NewSkillsHandler(deps SkillsDependencies) *SkillsHandler {
	return &SkillsHandler{deps: deps}
}

type contributionResponse struct {
	Environment    string  `json:"environment"`
	Rating         float64 `json:"rating"`
	Weight         float64 `json:"weight"`
	RelativeWeight float64 `json:"relative_weight"`
}

type skillScoreResponse struct {
	Skill         string                 `json:"skill"`
	Rating        float64                `json:"rating"`
	TotalWeight   float64                `json:"total_weight"`
	Contributions []contributionResponse `json:"contributions"`
}

// HandleGetSkills handles GET /skills/{entity}?balanced=true|false requests.
func (h *SkillsHandler) HandleGetSkills(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_skills"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id, err := entityFromPath(r, "/skills/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	balancedOnly := r.URL.Query().Get("balanced") == "true"

	scores, err := h.deps.Skills(r.Context(), id, balancedOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	out := make([]skillScoreResponse, 0, len(scores))
	for _, s := range scores {
		contribs := make([]contributionResponse, 0, len(s.Contributions))
		for _, c := range s.Contributions {
			contribs = append(contribs, contributionResponse{
				Environment:    c.Environment,
				Rating:         c.Rating,
				Weight:         c.Weight,
				RelativeWeight: c.RelativeWeight,
			})
		}
		out = append(out, skillScoreResponse{
			Skill:         s.Skill,
			Rating:        s.Rating,
			TotalWeight:   s.TotalWeight,
			Contributions: contribs,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
