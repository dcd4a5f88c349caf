package request

import "time"

type CreateTaskRequest struct {
	Title          string         `json:"title" validate:"required,min=1,max=255"`
	Description    string         `json:"description"`
	TeamCode       string         `json:"teamCode" validate:"required"`
	CreatedBy      *int64         `json:"createdBy,omitempty"`
	Subtasks       []SubtaskInput `json:"subtasks" validate:"required,min=1,dive"`
	AssignSpecific bool           `json:"assignSpecific"`
}

type SubtaskInput struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description"`
	AssignedTo  *int64     `json:"assigned_to,omitempty" validate:"omitempty,gt=0"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type UpdateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description"`
	UserID      *int64 `json:"userId,omitempty"`
}

// ActingUserRequest carries the optional userId older clients send with
// take and delete calls.
type ActingUserRequest struct {
	UserID *int64 `json:"userId,omitempty"`
}

type AssignSubtaskRequest struct {
	UserID     int64  `json:"userId" validate:"required,gt=0"`
	AssignedBy *int64 `json:"assignedBy,omitempty"`
}

type UpdateProgressRequest struct {
	Progress string `json:"progress" validate:"required,oneof=not_started assigned in_progress testing completed"`
	UserID   *int64 `json:"userId,omitempty"`
}

type UpdateSubtaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1,max=255"`
	Description string     `json:"description"`
	AssignedTo  *int64     `json:"assigned_to,omitempty" validate:"omitempty,gt=0"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	UserID      *int64     `json:"userId,omitempty"`
}
