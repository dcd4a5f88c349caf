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

const taskSelect = `
        SELECT t.id, t.title, t.description, t.team_code, t.created_by, COALESCE(u.name, ''),
            t.created_at, t.updated_at,
            (SELECT COUNT(*) FROM subtasks s WHERE s.task_id = t.id) AS total_subtasks,
            (SELECT COUNT(*) FROM subtasks s WHERE s.task_id = t.id AND s.status = 'completed') AS completed_subtasks
        FROM tasks t
        LEFT JOIN users u ON t.created_by = u.id
`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.TeamCode,
		&t.CreatedBy,
		&t.CreatedByName,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.TotalSubtasks,
		&t.CompletedSubtasks,
	)
	if err != nil {
		return nil, err
	}
	t.Subtasks = []domain.Subtask{}
	return &t, nil
}

// CreateTask inserts the task and all of its subtasks in one transaction
// and returns the new task id.
func (r *TaskRepository) CreateTask(ctx context.Context, nt domain.NewTask) (int64, error) {
	var taskID int64
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
            INSERT INTO tasks (title, description, team_code, created_by)
            VALUES ($1, $2, $3, $4)
            RETURNING id
        `, nt.Title, nt.Description, nt.TeamCode, nt.CreatedBy).Scan(&taskID)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		batch := &pgx.Batch{}
		for _, st := range nt.Subtasks {
			status, progress := domain.InitialAssignment(st.AssignedTo)
			batch.Queue(`
                INSERT INTO subtasks (task_id, title, description, assigned_to, status, progress, deadline)
                VALUES ($1, $2, $3, $4, $5, $6, $7)
            `, taskID, st.Title, st.Description, st.AssignedTo, status, progress, st.Deadline)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to create subtasks: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return taskID, nil
}

// GetTask returns a task with all of its subtasks.
func (r *TaskRepository) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := scanTask(r.pool.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, my_errors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	byTask, err := r.subtasksFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if subs, ok := byTask[id]; ok {
		task.Subtasks = subs
	}
	return task, nil
}

// GetTeamTasks lists a team's tasks newest first, with subtasks loaded in a
// single batched query.
func (r *TaskRepository) GetTeamTasks(ctx context.Context, teamCode string, filter domain.TaskFilter) ([]domain.Task, error) {
	query := taskSelect + ` WHERE t.team_code = $1`
	switch filter {
	case domain.TaskFilterActive:
		query += ` AND EXISTS (SELECT 1 FROM subtasks s WHERE s.task_id = t.id AND s.status != 'completed')`
	case domain.TaskFilterCompleted:
		query += ` AND NOT EXISTS (SELECT 1 FROM subtasks s WHERE s.task_id = t.id AND s.status != 'completed')
            AND EXISTS (SELECT 1 FROM subtasks s WHERE s.task_id = t.id)`
	}
	query += ` ORDER BY t.created_at DESC, t.id DESC`

	rows, err := r.pool.Query(ctx, query, teamCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get team tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	ids := []int64{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}
	if len(ids) == 0 {
		return tasks, nil
	}

	byTask, err := r.subtasksFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if subs, ok := byTask[tasks[i].ID]; ok {
			tasks[i].Subtasks = subs
		}
	}
	return tasks, nil
}

func (r *TaskRepository) subtasksFor(ctx context.Context, taskIDs []int64) (map[int64][]domain.Subtask, error) {
	rows, err := r.pool.Query(ctx, subtaskSelect+`
        WHERE s.task_id = ANY($1)
        ORDER BY s.task_id, s.created_at, s.id
    `, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get subtasks: %w", err)
	}
	defer rows.Close()

	byTask := make(map[int64][]domain.Subtask, len(taskIDs))
	for rows.Next() {
		st, err := scanSubtask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subtask: %w", err)
		}
		byTask[st.TaskID] = append(byTask[st.TaskID], *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subtasks: %w", err)
	}
	return byTask, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, id int64, title, description string) error {
	query := `UPDATE tasks SET title = $1, description = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.pool.Exec(ctx, query, title, description, id)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrTaskNotFound
	}
	return nil
}

// DeleteTask removes a task; its subtasks go with it through the cascade.
func (r *TaskRepository) DeleteTask(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrTaskNotFound
	}
	return nil
}
