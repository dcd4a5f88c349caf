package service

import (
	"context"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
)

type EmailChecker interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

type TeamRepository interface {
	GetTeamByCode(ctx context.Context, teamCode string) (*domain.Team, error)
	RegisterLeader(ctx context.Context, leader domain.NewUser, teamName string) (*domain.User, *domain.Team, error)
	RegisterMember(ctx context.Context, member domain.NewUser) (*domain.User, *domain.User, error)
}

type UserRepositoryForAuth interface {
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmailAndTeam(ctx context.Context, email, teamCode string) (*domain.User, error)
}

type MemberRepository interface {
	GetApprovedMembers(ctx context.Context, teamCode string) ([]domain.TeamMember, error)
	GetMembersByStatus(ctx context.Context, teamCode string, status domain.MemberStatus) ([]domain.User, error)
	Approve(ctx context.Context, leaderID, userID int64, teamCode string) (*domain.MembershipDecision, error)
	Reject(ctx context.Context, leaderID, userID int64, teamCode string) (*domain.MembershipDecision, error)
	ApproveRejected(ctx context.Context, leaderID, userID int64, teamCode string) (*domain.MembershipDecision, error)
	DeleteRejected(ctx context.Context, teamCode string, userID int64) error
	RemoveMember(ctx context.Context, teamCode string, memberID int64) (int64, error)
}

type TeamWorkerChecker interface {
	IsTeamWorker(ctx context.Context, teamCode string, userID int64) (bool, error)
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task domain.NewTask) (int64, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	GetTeamTasks(ctx context.Context, teamCode string, filter domain.TaskFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id int64, title, description string) error
	DeleteTask(ctx context.Context, id int64) error
}

type SubtaskRepository interface {
	GetSubtask(ctx context.Context, id int64) (*domain.Subtask, error)
	TakeSubtask(ctx context.Context, id, userID int64, teamCode string) error
	AssignSubtask(ctx context.Context, id, userID int64) error
	SetProgress(ctx context.Context, id int64, progress domain.Progress, status domain.SubtaskStatus) error
	UpdateSubtask(ctx context.Context, id int64, edit domain.SubtaskEdit) error
	DeleteSubtask(ctx context.Context, id int64) error
	GetAvailableSubtasks(ctx context.Context, teamCode string) ([]domain.Subtask, error)
	GetUserSubtasks(ctx context.Context, userID int64) ([]domain.Subtask, error)
}

type PerformanceRepository interface {
	GetTeamMembers(ctx context.Context, teamCode string) ([]domain.User, error)
	GetSubtaskCounts(ctx context.Context, userIDs []int64) (map[int64]domain.SubtaskCounts, error)
}
