package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
)

type PerformanceRepository struct {
	pool *pgxpool.Pool
}

func NewPerformanceRepository(pool *pgxpool.Pool) *PerformanceRepository {
	return &PerformanceRepository{pool: pool}
}

// GetTeamMembers returns the approved members of a team, leader excluded.
func (r *PerformanceRepository) GetTeamMembers(ctx context.Context, teamCode string) ([]domain.User, error) {
	query := `
        SELECT id, name, email
        FROM users
        WHERE team_code = $1 AND role = 'member' AND status = 'approved'
        ORDER BY id
    `
	rows, err := r.pool.Query(ctx, query, teamCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get team members: %w", err)
	}
	defer rows.Close()

	var members []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// GetSubtaskCounts aggregates subtasks per assignee in one grouped query.
func (r *PerformanceRepository) GetSubtaskCounts(ctx context.Context, userIDs []int64) (map[int64]domain.SubtaskCounts, error) {
	counts := make(map[int64]domain.SubtaskCounts, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}

	query := `
        SELECT
            assigned_to,
            COUNT(*) AS total_tasks,
            COUNT(CASE WHEN progress = 'completed' THEN 1 END) AS completed_tasks,
            COUNT(CASE WHEN progress IN ('in_progress', 'testing') THEN 1 END) AS in_progress_tasks,
            COUNT(CASE WHEN progress IN ('not_started', 'assigned') THEN 1 END) AS pending_tasks
        FROM subtasks
        WHERE assigned_to = ANY($1::bigint[])
        GROUP BY assigned_to
    `
	rows, err := r.pool.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate subtasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.SubtaskCounts
		if err := rows.Scan(&c.AssignedTo, &c.Total, &c.Completed, &c.InProgress, &c.Pending); err != nil {
			return nil, fmt.Errorf("failed to scan subtask counts: %w", err)
		}
		counts[c.AssignedTo] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subtask counts: %w", err)
	}
	return counts, nil
}
