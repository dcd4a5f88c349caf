package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/dto"
	"github.com/wizdeskofficial/wizdeskofficial/internal/mapper"
	"github.com/wizdeskofficial/wizdeskofficial/internal/request"
	"github.com/wizdeskofficial/wizdeskofficial/internal/response"
	"github.com/wizdeskofficial/wizdeskofficial/internal/service"
)

type TaskService interface {
	CreateTask(ctx context.Context, actor domain.Actor, in service.CreateTaskInput) (*domain.Task, error)
	GetTeamTasks(ctx context.Context, actor domain.Actor, teamCode string, filter domain.TaskFilter) ([]domain.Task, error)
	GetTask(ctx context.Context, actor domain.Actor, id int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, actor domain.Actor, id int64, title, description string) (*domain.Task, error)
	DeleteTask(ctx context.Context, actor domain.Actor, id int64) error
	AvailableSubtasks(ctx context.Context, actor domain.Actor, teamCode string) ([]domain.Subtask, error)
	UserSubtasks(ctx context.Context, actor domain.Actor, userID int64) ([]domain.Subtask, error)
	TakeSubtask(ctx context.Context, actor domain.Actor, id int64) (*domain.Subtask, error)
	AssignSubtask(ctx context.Context, actor domain.Actor, id, userID int64) (*domain.Subtask, error)
	UpdateProgress(ctx context.Context, actor domain.Actor, id int64, progress domain.Progress) (*domain.Subtask, error)
	UpdateSubtask(ctx context.Context, actor domain.Actor, id int64, edit domain.SubtaskEdit) (*domain.Subtask, error)
	DeleteSubtask(ctx context.Context, actor domain.Actor, id int64) error
}

type TaskHandler struct {
	service   TaskService
	validator *validator.Validate
}

func NewTaskHandler(service TaskService, validator *validator.Validate) *TaskHandler {
	return &TaskHandler{
		service:   service,
		validator: validator,
	}
}

// CreateTask godoc
// @Summary Create a task with subtasks
// @Description Team leader only. With assignSpecific, subtasks carrying assigned_to start assigned
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreateTaskRequest true "Task"
// @Success 201 {object} response.TaskResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error or assignee outside the team"
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Router /tasks/create [post]
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTaskRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	actor, ok := requireActor(w, r, req.CreatedBy)
	if !ok {
		return
	}

	in := mapper.MapCreateTaskRequestToInput(&req)
	in.TeamCode = normalizeTeamCode(in.TeamCode)

	task, err := h.service.CreateTask(r.Context(), actor, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, response.TaskResponse{
		Message: "Task created successfully",
		Task:    mapper.MapDomainTaskToDTO(task),
	})
}

// GetTeamTasks godoc
// @Summary List team tasks with subtasks and progress
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param teamCode path string true "Team code"
// @Success 200 {array} dto.TaskDTO
// @Failure 403 {object} dto.ErrorResponse "Not a member of this team"
// @Router /tasks/team/{teamCode} [get]
func (h *TaskHandler) GetTeamTasks(w http.ResponseWriter, r *http.Request) {
	h.teamTasks(w, r, domain.TaskFilterAll)
}

// GetTeamTasksByStatus godoc
// @Summary List team tasks by aggregate status
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param teamCode path string true "Team code"
// @Param status path string true "all, active or completed"
// @Success 200 {array} dto.TaskDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 403 {object} dto.ErrorResponse "Not a member of this team"
// @Router /tasks/team/{teamCode}/status/{status} [get]
func (h *TaskHandler) GetTeamTasksByStatus(w http.ResponseWriter, r *http.Request) {
	h.teamTasks(w, r, domain.TaskFilter(chi.URLParam(r, "status")))
}

func (h *TaskHandler) teamTasks(w http.ResponseWriter, r *http.Request, filter domain.TaskFilter) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.GetTeamTasks(r.Context(), actor, teamCodeParam(r), filter)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.MapDomainTasksToDTO(tasks))
}

// GetTask godoc
// @Summary Get a task with its subtasks
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Task ID"
// @Success 200 {object} dto.TaskDTO
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Router /tasks/{taskId} [get]
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "taskId")
	if !ok {
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	task, err := h.service.GetTask(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.MapDomainTaskToDTO(task))
}

// UpdateTask godoc
// @Summary Edit a task title and description
// @Description Task creator or team leader
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Task ID"
// @Param request body request.UpdateTaskRequest true "New title and description"
// @Success 200 {object} response.TaskResponse
// @Failure 403 {object} dto.ErrorResponse "Not authorized to edit this task"
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Router /tasks/{taskId} [put]
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "taskId")
	if !ok {
		return
	}
	var req request.UpdateTaskRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	actor, ok := requireActor(w, r, req.UserID)
	if !ok {
		return
	}

	task, err := h.service.UpdateTask(r.Context(), actor, id, req.Title, req.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, response.TaskResponse{
		Message: "Task updated successfully",
		Task:    mapper.MapDomainTaskToDTO(task),
	})
}

// DeleteTask godoc
// @Summary Delete a task and its subtasks
// @Description Task creator or team leader
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Param taskId path int true "Task ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse "Not authorized to delete this task"
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Router /tasks/{taskId} [delete]
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "taskId")
	if !ok {
		return
	}
	var req request.ActingUserRequest
	if !decodeOptional(w, r, h.validator, &req) {
		return
	}
	actor, ok := requireActor(w, r, req.UserID)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), actor, id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

// AvailableSubtasks godoc
// @Summary List unclaimed subtasks of a team
// @Tags Subtasks
// @Produce json
// @Security BearerAuth
// @Param teamCode path string true "Team code"
// @Success 200 {array} dto.SubtaskDTO
// @Router /tasks/team/{teamCode}/available [get]
func (h *TaskHandler) AvailableSubtasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	subtasks, err := h.service.AvailableSubtasks(r.Context(), actor, teamCodeParam(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.MapDomainSubtasksToDTO(subtasks))
}

// UserSubtasks godoc
// @Summary List subtasks assigned to a user
// @Tags Subtasks
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {array} dto.SubtaskDTO
// @Failure 403 {object} dto.ErrorResponse "Not your subtasks"
// @Router /tasks/user/{userId}/subtasks [get]
func (h *TaskHandler) UserSubtasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(w, r, "userId")
	if !ok {
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	subtasks, err := h.service.UserSubtasks(r.Context(), actor, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.MapDomainSubtasksToDTO(subtasks))
}

// TakeSubtask godoc
// @Summary Claim an available subtask
// @Description Exactly one of several concurrent claims succeeds
// @Tags Subtasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subtask ID"
// @Success 200 {object} response.SubtaskResponse
// @Failure 400 {object} dto.ErrorResponse "This subtask is no longer available"
// @Failure 404 {object} dto.ErrorResponse "Subtask not found"
// @Router /tasks/subtask/{id}/take [put]
func (h *TaskHandler) TakeSubtask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req request.ActingUserRequest
	if !decodeOptional(w, r, h.validator, &req) {
		return
	}
	actor, ok := requireActor(w, r, req.UserID)
	if !ok {
		return
	}

	st, err := h.service.TakeSubtask(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, response.SubtaskResponse{
		Message: "Subtask assigned to you successfully!",
		Subtask: mapper.MapDomainSubtaskToDTO(st),
	})
}

// AssignSubtask godoc
// @Summary Assign a subtask to a team member
// @Tags Subtasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subtask ID"
// @Param request body request.AssignSubtaskRequest true "Assignee"
// @Success 200 {object} response.SubtaskResponse
// @Failure 400 {object} dto.ErrorResponse "Assignee outside the team"
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Router /tasks/subtask/{id}/assign-to [put]
func (h *TaskHandler) AssignSubtask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req request.AssignSubtaskRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	actor, ok := requireActor(w, r, req.AssignedBy)
	if !ok {
		return
	}

	st, err := h.service.AssignSubtask(r.Context(), actor, id, req.UserID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, response.SubtaskResponse{
		Message: "Subtask assigned to member successfully",
		Subtask: mapper.MapDomainSubtaskToDTO(st),
	})
}

// UpdateProgress godoc
// @Summary Report progress on a subtask
// @Description Assignee or team leader
// @Tags Subtasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subtask ID"
// @Param request body request.UpdateProgressRequest true "Progress"
// @Success 200 {object} response.SubtaskResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid progress value"
// @Failure 403 {object} dto.ErrorResponse "Not authorized to update this subtask"
// @Router /tasks/subtask/{id}/progress [put]
func (h *TaskHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateProgressRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	actor, ok := requireActor(w, r, req.UserID)
	if !ok {
		return
	}

	st, err := h.service.UpdateProgress(r.Context(), actor, id, domain.Progress(req.Progress))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, response.SubtaskResponse{
		Message: "Progress updated successfully",
		Subtask: mapper.MapDomainSubtaskToDTO(st),
	})
}

// UpdateSubtask godoc
// @Summary Edit a subtask
// @Description Team leader only. Setting assigned_to marks it assigned, clearing it makes it available
// @Tags Subtasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subtask ID"
// @Param request body request.UpdateSubtaskRequest true "Subtask fields"
// @Success 200 {object} response.SubtaskResponse
// @Failure 403 {object} dto.ErrorResponse "Not authorized to edit this subtask"
// @Router /tasks/subtask/{id} [put]
func (h *TaskHandler) UpdateSubtask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req request.UpdateSubtaskRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	actor, ok := requireActor(w, r, req.UserID)
	if !ok {
		return
	}

	st, err := h.service.UpdateSubtask(r.Context(), actor, id, mapper.MapUpdateSubtaskRequestToEdit(&req))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, response.SubtaskResponse{
		Message: "Subtask updated successfully",
		Subtask: mapper.MapDomainSubtaskToDTO(st),
	})
}

// DeleteSubtask godoc
// @Summary Delete a subtask
// @Tags Subtasks
// @Produce json
// @Security BearerAuth
// @Param id path int true "Subtask ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Failure 404 {object} dto.ErrorResponse "Subtask not found"
// @Router /tasks/subtask/{id} [delete]
func (h *TaskHandler) DeleteSubtask(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteSubtask(r.Context(), actor, id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Subtask deleted successfully"})
}
