package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/metrics"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
)

type CreateTaskInput struct {
	Title       string
	Description string
	TeamCode    string
	Subtasks    []domain.NewSubtask
	// AssignSpecific keeps the assignees given on subtasks; otherwise every
	// subtask starts available.
	AssignSpecific bool
}

type TaskService struct {
	tasks    TaskRepository
	subtasks SubtaskRepository
	workers  TeamWorkerChecker
	logger   *slog.Logger
}

func NewTaskService(tasks TaskRepository, subtasks SubtaskRepository, workers TeamWorkerChecker, logger *slog.Logger) *TaskService {
	return &TaskService{
		tasks:    tasks,
		subtasks: subtasks,
		workers:  workers,
		logger:   logger,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, actor domain.Actor, in CreateTaskInput) (*domain.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" || in.TeamCode == "" {
		return nil, fmt.Errorf("title and team code: %w", my_errors.ErrEmptyField)
	}
	if len(in.Subtasks) == 0 {
		return nil, fmt.Errorf("at least one subtask is required: %w", my_errors.ErrInvalidInput)
	}
	if !domain.IsLeaderOf(actor, in.TeamCode) {
		return nil, my_errors.ErrForbidden
	}

	subtasks := make([]domain.NewSubtask, 0, len(in.Subtasks))
	for i, st := range in.Subtasks {
		st.Title = strings.TrimSpace(st.Title)
		if st.Title == "" {
			return nil, fmt.Errorf("subtask %d title: %w", i+1, my_errors.ErrEmptyField)
		}
		if !in.AssignSpecific {
			st.AssignedTo = nil
		}
		if err := s.checkAssignee(ctx, in.TeamCode, st.AssignedTo); err != nil {
			return nil, err
		}
		subtasks = append(subtasks, st)
	}

	id, err := s.tasks.CreateTask(ctx, domain.NewTask{
		Title:       in.Title,
		Description: in.Description,
		TeamCode:    in.TeamCode,
		Subtasks:    subtasks,
		CreatedBy:   actor.UserID(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("task created", "task_id", id, "team_code", in.TeamCode, "subtasks", len(subtasks))

	return s.tasks.GetTask(ctx, id)
}

func (s *TaskService) GetTeamTasks(ctx context.Context, actor domain.Actor, teamCode string, filter domain.TaskFilter) ([]domain.Task, error) {
	switch filter {
	case domain.TaskFilterAll, domain.TaskFilterActive, domain.TaskFilterCompleted:
	case "":
		filter = domain.TaskFilterAll
	default:
		return nil, fmt.Errorf("task status %q: %w", filter, my_errors.ErrInvalidInput)
	}
	if !domain.CanWorkIn(actor, teamCode) {
		return nil, my_errors.ErrForbidden
	}
	return s.tasks.GetTeamTasks(ctx, teamCode, filter)
}

func (s *TaskService) GetTask(ctx context.Context, actor domain.Actor, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanWorkIn(actor, task.TeamCode) {
		return nil, my_errors.ErrForbidden
	}
	return task, nil
}

// UpdateTask changes title and description; allowed for the creator and the
// team leader.
func (s *TaskService) UpdateTask(ctx context.Context, actor domain.Actor, id int64, title, description string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("title: %w", my_errors.ErrEmptyField)
	}

	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanEditTask(actor, task) {
		return nil, my_errors.ErrForbidden
	}

	if err := s.tasks.UpdateTask(ctx, id, title, description); err != nil {
		return nil, err
	}
	return s.tasks.GetTask(ctx, id)
}

func (s *TaskService) DeleteTask(ctx context.Context, actor domain.Actor, id int64) error {
	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanEditTask(actor, task) {
		return my_errors.ErrForbidden
	}
	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.logger.Info("task deleted", "task_id", id, "by", actor.UserID())
	return nil
}

func (s *TaskService) AvailableSubtasks(ctx context.Context, actor domain.Actor, teamCode string) ([]domain.Subtask, error) {
	if !domain.CanWorkIn(actor, teamCode) {
		return nil, my_errors.ErrForbidden
	}
	return s.subtasks.GetAvailableSubtasks(ctx, teamCode)
}

// UserSubtasks lists the subtasks assigned to userID. Members see their own;
// a leader sees anyone's in the team.
func (s *TaskService) UserSubtasks(ctx context.Context, actor domain.Actor, userID int64) ([]domain.Subtask, error) {
	if actor.UserID() != userID {
		if !domain.IsLeaderOf(actor, actor.Team()) {
			return nil, my_errors.ErrForbidden
		}
		ok, err := s.workers.IsTeamWorker(ctx, actor.Team(), userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check team membership: %w", err)
		}
		if !ok {
			return nil, my_errors.ErrForbidden
		}
	}
	return s.subtasks.GetUserSubtasks(ctx, userID)
}

// TakeSubtask lets the actor claim an available subtask of their team.
func (s *TaskService) TakeSubtask(ctx context.Context, actor domain.Actor, id int64) (*domain.Subtask, error) {
	if !domain.CanWorkIn(actor, actor.Team()) {
		return nil, my_errors.ErrForbidden
	}

	err := s.subtasks.TakeSubtask(ctx, id, actor.UserID(), actor.Team())
	switch {
	case err == nil:
		metrics.SubtaskClaims.WithLabelValues("taken").Inc()
	case errors.Is(err, my_errors.ErrSubtaskUnavailable):
		metrics.SubtaskClaims.WithLabelValues("unavailable").Inc()
		return nil, err
	default:
		return nil, err
	}

	s.logger.Info("subtask taken", "subtask_id", id, "user_id", actor.UserID())
	return s.subtasks.GetSubtask(ctx, id)
}

// AssignSubtask is the leader handing a subtask to a team worker.
func (s *TaskService) AssignSubtask(ctx context.Context, actor domain.Actor, id, userID int64) (*domain.Subtask, error) {
	st, err := s.subtasks.GetSubtask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsLeaderOf(actor, st.TeamCode) {
		return nil, my_errors.ErrForbidden
	}
	if err := s.checkAssignee(ctx, st.TeamCode, &userID); err != nil {
		return nil, err
	}

	if err := s.subtasks.AssignSubtask(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.subtasks.GetSubtask(ctx, id)
}

// UpdateProgress records a progress report from the assignee or the team
// leader and derives the new subtask status.
func (s *TaskService) UpdateProgress(ctx context.Context, actor domain.Actor, id int64, progress domain.Progress) (*domain.Subtask, error) {
	if !progress.Valid() {
		return nil, fmt.Errorf("%q: %w", progress, my_errors.ErrInvalidProgress)
	}

	st, err := s.subtasks.GetSubtask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanReportProgress(actor, st) {
		return nil, my_errors.ErrForbidden
	}

	status := domain.StatusAfterProgress(st.Status, progress)
	if err := s.subtasks.SetProgress(ctx, id, progress, status); err != nil {
		return nil, err
	}
	return s.subtasks.GetSubtask(ctx, id)
}

// UpdateSubtask lets the leader rewrite a subtask. The assignment state is
// reset from the new assignee.
func (s *TaskService) UpdateSubtask(ctx context.Context, actor domain.Actor, id int64, edit domain.SubtaskEdit) (*domain.Subtask, error) {
	edit.Title = strings.TrimSpace(edit.Title)
	if edit.Title == "" {
		return nil, fmt.Errorf("title: %w", my_errors.ErrEmptyField)
	}

	st, err := s.subtasks.GetSubtask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsLeaderOf(actor, st.TeamCode) {
		return nil, my_errors.ErrForbidden
	}
	if err := s.checkAssignee(ctx, st.TeamCode, edit.AssignedTo); err != nil {
		return nil, err
	}

	if err := s.subtasks.UpdateSubtask(ctx, id, edit); err != nil {
		return nil, err
	}
	return s.subtasks.GetSubtask(ctx, id)
}

func (s *TaskService) DeleteSubtask(ctx context.Context, actor domain.Actor, id int64) error {
	st, err := s.subtasks.GetSubtask(ctx, id)
	if err != nil {
		return err
	}
	if !domain.IsLeaderOf(actor, st.TeamCode) {
		return my_errors.ErrForbidden
	}
	return s.subtasks.DeleteSubtask(ctx, id)
}

func (s *TaskService) checkAssignee(ctx context.Context, teamCode string, userID *int64) error {
	if userID == nil {
		return nil
	}
	ok, err := s.workers.IsTeamWorker(ctx, teamCode, *userID)
	if err != nil {
		return fmt.Errorf("failed to check assignee: %w", err)
	}
	if !ok {
		return my_errors.ErrAssigneeNotInTeam
	}
	return nil
}
