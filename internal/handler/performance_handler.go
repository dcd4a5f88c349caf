package handler

import (
	"context"
	"net/http"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/mapper"
)

type PerformanceService interface {
	TeamPerformance(ctx context.Context, actor domain.Actor, teamCode string) ([]domain.MemberPerformance, error)
}

type PerformanceHandler struct {
	service PerformanceService
}

func NewPerformanceHandler(service PerformanceService) *PerformanceHandler {
	return &PerformanceHandler{
		service: service,
	}
}

// GetTeamPerformance godoc
// @Summary Team performance
// @Description Per-member subtask counts and completion rate, best first
// @Tags Performance
// @Produce json
// @Security BearerAuth
// @Param teamCode path string true "Team code"
// @Success 200 {array} dto.MemberPerformanceDTO
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not a member of this team"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /performance/team/{teamCode} [get]
func (h *PerformanceHandler) GetTeamPerformance(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	perf, err := h.service.TeamPerformance(r.Context(), actor, teamCodeParam(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, mapper.MapPerformanceToDTO(perf))
}
