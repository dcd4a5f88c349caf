package mapper

import (
	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/dto"
	"github.com/wizdeskofficial/wizdeskofficial/internal/request"
	"github.com/wizdeskofficial/wizdeskofficial/internal/service"
)

// User mappers
func MapDomainUserToDTO(user *domain.User) dto.UserDTO {
	return dto.UserDTO{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          string(user.Role),
		TeamCode:      user.TeamCode,
		Status:        string(user.Status),
		EmailVerified: user.EmailVerified,
		ApprovedBy:    user.ApprovedBy,
		ApprovedAt:    user.ApprovedAt,
		RejectedBy:    user.RejectedBy,
		RejectedAt:    user.RejectedAt,
		CreatedAt:     user.CreatedAt,
	}
}

func MapDomainUsersToDTO(users []domain.User) []dto.UserDTO {
	result := make([]dto.UserDTO, len(users))
	for i := range users {
		result[i] = MapDomainUserToDTO(&users[i])
	}
	return result
}

func MapTeamMembersToDTO(members []domain.TeamMember) []dto.TeamMemberDTO {
	result := make([]dto.TeamMemberDTO, len(members))
	for i := range members {
		result[i] = dto.TeamMemberDTO{
			UserDTO:        MapDomainUserToDTO(&members[i].User),
			AssignedTasks:  members[i].AssignedTasks,
			CompletedTasks: members[i].CompletedTasks,
		}
	}
	return result
}

// Team mappers
func MapDomainTeamToDTO(team *domain.Team) dto.TeamDTO {
	return dto.TeamDTO{
		ID:        team.ID,
		TeamCode:  team.TeamCode,
		TeamName:  team.TeamName,
		LeaderID:  team.LeaderID,
		CreatedAt: team.CreatedAt,
	}
}

// Task mappers
func MapDomainTaskToDTO(task *domain.Task) dto.TaskDTO {
	return dto.TaskDTO{
		ID:                task.ID,
		Title:             task.Title,
		Description:       task.Description,
		TeamCode:          task.TeamCode,
		CreatedBy:         task.CreatedBy,
		CreatedByName:     task.CreatedByName,
		TotalSubtasks:     task.TotalSubtasks,
		CompletedSubtasks: task.CompletedSubtasks,
		ProgressPercent:   task.ProgressPercent(),
		Subtasks:          MapDomainSubtasksToDTO(task.Subtasks),
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}
}

func MapDomainTasksToDTO(tasks []domain.Task) []dto.TaskDTO {
	result := make([]dto.TaskDTO, len(tasks))
	for i := range tasks {
		result[i] = MapDomainTaskToDTO(&tasks[i])
	}
	return result
}

func MapDomainSubtaskToDTO(st *domain.Subtask) dto.SubtaskDTO {
	return dto.SubtaskDTO{
		ID:              st.ID,
		TaskID:          st.TaskID,
		Title:           st.Title,
		Description:     st.Description,
		AssignedTo:      st.AssignedTo,
		AssignedToName:  st.AssignedToName,
		AssignedToEmail: st.AssignedToEmail,
		Status:          string(st.Status),
		Progress:        string(st.Progress),
		Deadline:        st.Deadline,
		TaskTitle:       st.TaskTitle,
		TeamCode:        st.TeamCode,
		CreatedAt:       st.CreatedAt,
		UpdatedAt:       st.UpdatedAt,
	}
}

func MapDomainSubtasksToDTO(subtasks []domain.Subtask) []dto.SubtaskDTO {
	result := make([]dto.SubtaskDTO, len(subtasks))
	for i := range subtasks {
		result[i] = MapDomainSubtaskToDTO(&subtasks[i])
	}
	return result
}

func MapCreateTaskRequestToInput(req *request.CreateTaskRequest) service.CreateTaskInput {
	subtasks := make([]domain.NewSubtask, len(req.Subtasks))
	for i, st := range req.Subtasks {
		subtasks[i] = domain.NewSubtask{
			Title:       st.Title,
			Description: st.Description,
			AssignedTo:  st.AssignedTo,
			Deadline:    st.Deadline,
		}
	}
	return service.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		TeamCode:       req.TeamCode,
		Subtasks:       subtasks,
		AssignSpecific: req.AssignSpecific,
	}
}

func MapUpdateSubtaskRequestToEdit(req *request.UpdateSubtaskRequest) domain.SubtaskEdit {
	return domain.SubtaskEdit{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Deadline:    req.Deadline,
	}
}

// Performance mappers
func MapPerformanceToDTO(perf []domain.MemberPerformance) []dto.MemberPerformanceDTO {
	result := make([]dto.MemberPerformanceDTO, len(perf))
	for i, p := range perf {
		result[i] = dto.MemberPerformanceDTO{
			ID:              p.UserID,
			Name:            p.Name,
			Email:           p.Email,
			TotalTasks:      p.TotalTasks,
			CompletedTasks:  p.CompletedTasks,
			InProgressTasks: p.InProgressTasks,
			PendingTasks:    p.PendingTasks,
			CompletionRate:  p.CompletionRate,
		}
	}
	return result
}
