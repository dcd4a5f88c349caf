package service

import (
	"context"
	"fmt"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
)

type PerformanceService struct {
	repo PerformanceRepository
}

func NewPerformanceService(repo PerformanceRepository) *PerformanceService {
	return &PerformanceService{repo: repo}
}

// TeamPerformance ranks the approved members of a team by completion rate.
func (s *PerformanceService) TeamPerformance(ctx context.Context, actor domain.Actor, teamCode string) ([]domain.MemberPerformance, error) {
	if !domain.CanWorkIn(actor, teamCode) {
		return nil, my_errors.ErrForbidden
	}

	members, err := s.repo.GetTeamMembers(ctx, teamCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get team members: %w", err)
	}
	if len(members) == 0 {
		return []domain.MemberPerformance{}, nil
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}

	counts, err := s.repo.GetSubtaskCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get subtask counts: %w", err)
	}

	return domain.BuildPerformance(members, counts), nil
}
