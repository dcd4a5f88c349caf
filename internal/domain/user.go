package domain

import "time"

type Role string

const (
	RoleLeader Role = "leader"
	RoleMember Role = "member"
)

type MemberStatus string

const (
	StatusUnverified MemberStatus = "unverified"
	StatusPending    MemberStatus = "pending"
	StatusApproved   MemberStatus = "approved"
	StatusRejected   MemberStatus = "rejected"
)

type User struct {
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	ApprovedAt    *time.Time   `json:"approved_at,omitempty"`
	RejectedAt    *time.Time   `json:"rejected_at,omitempty"`
	ApprovedBy    *int64       `json:"approved_by,omitempty"`
	RejectedBy    *int64       `json:"rejected_by,omitempty"`
	Email         string       `json:"email"`
	PasswordHash  string       `json:"-"`
	Name          string       `json:"name"`
	Role          Role         `json:"role"`
	TeamCode      string       `json:"team_code"`
	Status        MemberStatus `json:"status"`
	ID            int64        `json:"id"`
	EmailVerified bool         `json:"email_verified"`
}

// TeamMember is a user row enriched with subtask counters for team listings.
type TeamMember struct {
	User
	AssignedTasks  int `json:"assigned_tasks"`
	CompletedTasks int `json:"completed_tasks"`
}

// NewUser carries the fields needed to insert a verified user.
type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
	TeamCode     string
	Role         Role
	Status       MemberStatus
}

// MemberStatusReport answers whether a user may log in yet.
type MemberStatusReport struct {
	Status        MemberStatus
	Role          Role
	Name          string
	Message       string
	CanLogin      bool
	EmailVerified bool
}

// MembershipDecision is the outcome of a leader acting on a member, with
// what is needed to notify the member.
type MembershipDecision struct {
	Member     User
	LeaderName string
	TeamName   string
}
