package dto

import "time"

type UserDTO struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	TeamCode      string     `json:"team_code"`
	Status        string     `json:"status"`
	EmailVerified bool       `json:"email_verified"`
	ApprovedBy    *int64     `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	RejectedBy    *int64     `json:"rejected_by,omitempty"`
	RejectedAt    *time.Time `json:"rejected_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type TeamMemberDTO struct {
	UserDTO
	AssignedTasks  int `json:"assigned_tasks"`
	CompletedTasks int `json:"completed_tasks"`
}

type MemberPerformanceDTO struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	TotalTasks      int    `json:"total_tasks"`
	CompletedTasks  int    `json:"completed_tasks"`
	InProgressTasks int    `json:"in_progress_tasks"`
	PendingTasks    int    `json:"pending_tasks"`
	CompletionRate  int    `json:"completion_rate"`
}
