package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
)

const subtaskSelect = `
        SELECT s.id, s.task_id, s.title, s.description, s.assigned_to, s.status, s.progress,
            s.deadline, s.created_at, s.updated_at,
            COALESCE(u.name, ''), COALESCE(u.email, ''),
            t.title, t.team_code, t.created_by
        FROM subtasks s
        JOIN tasks t ON s.task_id = t.id
        LEFT JOIN users u ON s.assigned_to = u.id
`

type SubtaskRepository struct {
	pool *pgxpool.Pool
}

func NewSubtaskRepository(pool *pgxpool.Pool) *SubtaskRepository {
	return &SubtaskRepository{pool: pool}
}

func scanSubtask(row pgx.Row) (*domain.Subtask, error) {
	var s domain.Subtask
	err := row.Scan(
		&s.ID,
		&s.TaskID,
		&s.Title,
		&s.Description,
		&s.AssignedTo,
		&s.Status,
		&s.Progress,
		&s.Deadline,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.AssignedToName,
		&s.AssignedToEmail,
		&s.TaskTitle,
		&s.TeamCode,
		&s.TaskCreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubtaskRepository) GetSubtask(ctx context.Context, id int64) (*domain.Subtask, error) {
	s, err := scanSubtask(r.pool.QueryRow(ctx, subtaskSelect+` WHERE s.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, my_errors.ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to get subtask: %w", err)
	}
	return s, nil
}

// TakeSubtask claims an available subtask for userID. The row is locked for
// the duration of the check so concurrent claims serialize and only the
// first one finds it available.
func (r *SubtaskRepository) TakeSubtask(ctx context.Context, id, userID int64, teamCode string) error {
	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var (
			status   domain.SubtaskStatus
			taskTeam string
		)
		err := tx.QueryRow(ctx, `
            SELECT s.status, t.team_code
            FROM subtasks s
            JOIN tasks t ON s.task_id = t.id
            WHERE s.id = $1
            FOR UPDATE OF s
        `, id).Scan(&status, &taskTeam)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return my_errors.ErrSubtaskNotFound
			}
			return fmt.Errorf("failed to lock subtask: %w", err)
		}
		if taskTeam != teamCode {
			return my_errors.ErrForbidden
		}
		if status != domain.SubtaskAvailable {
			return my_errors.ErrSubtaskUnavailable
		}

		_, err = tx.Exec(ctx, `
            UPDATE subtasks
            SET assigned_to = $1, status = $2, progress = $3, updated_at = NOW()
            WHERE id = $4
        `, userID, domain.SubtaskTaken, domain.ProgressInProgress, id)
		if err != nil {
			return fmt.Errorf("failed to take subtask: %w", err)
		}
		return nil
	})
}

func (r *SubtaskRepository) AssignSubtask(ctx context.Context, id, userID int64) error {
	query := `
        UPDATE subtasks
        SET assigned_to = $1, status = $2, progress = $3, updated_at = NOW()
        WHERE id = $4
    `
	result, err := r.pool.Exec(ctx, query, userID, domain.SubtaskAssigned, domain.ProgressAssigned, id)
	if err != nil {
		return fmt.Errorf("failed to assign subtask: %w", err)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrSubtaskNotFound
	}
	return nil
}

func (r *SubtaskRepository) SetProgress(ctx context.Context, id int64, progress domain.Progress, status domain.SubtaskStatus) error {
	query := `UPDATE subtasks SET progress = $1, status = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.pool.Exec(ctx, query, progress, status, id)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrSubtaskNotFound
	}
	return nil
}

// UpdateSubtask rewrites title, description, assignee and deadline. The
// assignment state is reset from the new assignee.
func (r *SubtaskRepository) UpdateSubtask(ctx context.Context, id int64, edit domain.SubtaskEdit) error {
	status, progress := domain.InitialAssignment(edit.AssignedTo)
	query := `
        UPDATE subtasks
        SET title = $1, description = $2, assigned_to = $3, status = $4, progress = $5,
            deadline = $6, updated_at = NOW()
        WHERE id = $7
    `
	result, err := r.pool.Exec(ctx, query, edit.Title, edit.Description, edit.AssignedTo, status, progress, edit.Deadline, id)
	if err != nil {
		return fmt.Errorf("failed to update subtask: %w", err)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrSubtaskNotFound
	}
	return nil
}

func (r *SubtaskRepository) DeleteSubtask(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM subtasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrSubtaskNotFound
	}
	return nil
}

func (r *SubtaskRepository) GetAvailableSubtasks(ctx context.Context, teamCode string) ([]domain.Subtask, error) {
	return r.list(ctx, subtaskSelect+`
        WHERE t.team_code = $1 AND s.status = 'available'
        ORDER BY s.created_at DESC, s.id DESC
    `, teamCode)
}

// GetUserSubtasks lists a user's subtasks by work stage, then newest first.
func (r *SubtaskRepository) GetUserSubtasks(ctx context.Context, userID int64) ([]domain.Subtask, error) {
	return r.list(ctx, subtaskSelect+`
        WHERE s.assigned_to = $1
        ORDER BY
            CASE s.progress
                WHEN 'not_started' THEN 1 WHEN 'assigned' THEN 2 WHEN 'in_progress' THEN 3
                WHEN 'testing' THEN 4 WHEN 'completed' THEN 5 ELSE 6
            END,
            s.created_at DESC
    `, userID)
}

func (r *SubtaskRepository) list(ctx context.Context, query string, args ...any) ([]domain.Subtask, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get subtasks: %w", err)
	}
	defer rows.Close()

	subtasks := []domain.Subtask{}
	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subtask: %w", err)
		}
		subtasks = append(subtasks, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subtasks: %w", err)
	}
	return subtasks, nil
}
