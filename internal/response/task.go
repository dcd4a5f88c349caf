package response

import "github.com/wizdeskofficial/wizdeskofficial/internal/dto"

type TaskResponse struct {
	Message string      `json:"message"`
	Task    dto.TaskDTO `json:"task"`
}

type SubtaskResponse struct {
	Message string         `json:"message"`
	Subtask dto.SubtaskDTO `json:"subtask"`
}
