package dto

import "time"

type TaskDTO struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	TeamCode          string       `json:"team_code"`
	CreatedBy         int64        `json:"created_by"`
	CreatedByName     string       `json:"created_by_name"`
	TotalSubtasks     int          `json:"total_subtasks"`
	CompletedSubtasks int          `json:"completed_subtasks"`
	ProgressPercent   int          `json:"progress_percent"`
	Subtasks          []SubtaskDTO `json:"subtasks"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

type SubtaskDTO struct {
	ID              int64      `json:"id"`
	TaskID          int64      `json:"task_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	AssignedTo      *int64     `json:"assigned_to"`
	AssignedToName  string     `json:"assigned_to_name,omitempty"`
	AssignedToEmail string     `json:"assigned_to_email,omitempty"`
	Status          string     `json:"status"`
	Progress        string     `json:"progress"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	TaskTitle       string     `json:"task_title,omitempty"`
	TeamCode        string     `json:"team_code,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
