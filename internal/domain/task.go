package domain

import (
	"math"
	"time"
)

type SubtaskStatus string

const (
	SubtaskAvailable SubtaskStatus = "available"
	SubtaskAssigned  SubtaskStatus = "assigned"
	SubtaskTaken     SubtaskStatus = "taken"
	SubtaskCompleted SubtaskStatus = "completed"
)

type Progress string

const (
	ProgressNotStarted Progress = "not_started"
	ProgressAssigned   Progress = "assigned"
	ProgressInProgress Progress = "in_progress"
	ProgressTesting    Progress = "testing"
	ProgressCompleted  Progress = "completed"
)

// Valid reports whether p is one of the known progress values.
func (p Progress) Valid() bool {
	switch p {
	case ProgressNotStarted, ProgressAssigned, ProgressInProgress, ProgressTesting, ProgressCompleted:
		return true
	}
	return false
}

// StatusAfterProgress derives the subtask status that follows a progress
// report. Completing work completes the subtask; starting work on an
// assigned subtask marks it taken; anything else keeps the current status.
func StatusAfterProgress(current SubtaskStatus, p Progress) SubtaskStatus {
	switch {
	case p == ProgressCompleted:
		return SubtaskCompleted
	case p == ProgressInProgress && current == SubtaskAssigned:
		return SubtaskTaken
	default:
		return current
	}
}

// InitialAssignment returns status and progress for a subtask that is
// created or edited with (or without) an assignee.
func InitialAssignment(assignedTo *int64) (SubtaskStatus, Progress) {
	if assignedTo != nil {
		return SubtaskAssigned, ProgressAssigned
	}
	return SubtaskAvailable, ProgressNotStarted
}

type Task struct {
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	TeamCode          string    `json:"team_code"`
	CreatedByName     string    `json:"created_by_name"`
	Subtasks          []Subtask `json:"subtasks"`
	ID                int64     `json:"id"`
	CreatedBy         int64     `json:"created_by"`
	TotalSubtasks     int       `json:"total_subtasks"`
	CompletedSubtasks int       `json:"completed_subtasks"`
}

// ProgressPercent is the share of completed subtasks, rounded.
func (t *Task) ProgressPercent() int {
	if t.TotalSubtasks == 0 {
		return 0
	}
	return int(math.Round(float64(t.CompletedSubtasks) / float64(t.TotalSubtasks) * 100))
}

type Subtask struct {
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Deadline        *time.Time    `json:"deadline,omitempty"`
	AssignedTo      *int64        `json:"assigned_to"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Status          SubtaskStatus `json:"status"`
	Progress        Progress      `json:"progress"`
	AssignedToName  string        `json:"assigned_to_name,omitempty"`
	AssignedToEmail string        `json:"assigned_to_email,omitempty"`
	TaskTitle       string        `json:"task_title,omitempty"`
	TeamCode        string        `json:"team_code,omitempty"`
	ID              int64         `json:"id"`
	TaskID          int64         `json:"task_id"`
	TaskCreatedBy   int64         `json:"task_created_by,omitempty"`
}

type NewSubtask struct {
	Deadline    *time.Time
	AssignedTo  *int64
	Title       string
	Description string
}

type NewTask struct {
	Title       string
	Description string
	TeamCode    string
	Subtasks    []NewSubtask
	CreatedBy   int64
}

type SubtaskEdit struct {
	Deadline    *time.Time
	AssignedTo  *int64
	Title       string
	Description string
}

// TaskFilter selects tasks of a team by aggregate state.
type TaskFilter string

const (
	TaskFilterAll       TaskFilter = "all"
	TaskFilterActive    TaskFilter = "active"
	TaskFilterCompleted TaskFilter = "completed"
)
