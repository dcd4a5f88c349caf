package domain

import "fmt"

// Actor is the authenticated caller. It is either a Leader or a Member.
// Authorization helpers switch over the concrete type and panic on an
// unknown variant, so adding a new role forces every check to be revisited.
type Actor interface {
	UserID() int64
	Team() string
	isActor()
}

type Leader struct {
	ID       int64
	TeamCode string
}

type Member struct {
	ID       int64
	TeamCode string
	Status   MemberStatus
}

func (l Leader) UserID() int64 { return l.ID }
func (l Leader) Team() string  { return l.TeamCode }
func (Leader) isActor()        {}

func (m Member) UserID() int64 { return m.ID }
func (m Member) Team() string  { return m.TeamCode }
func (Member) isActor()        {}

// ActorFromUser builds the variant for a persisted user.
func ActorFromUser(u *User) Actor {
	switch u.Role {
	case RoleLeader:
		return Leader{ID: u.ID, TeamCode: u.TeamCode}
	case RoleMember:
		status := u.Status
		if !u.EmailVerified {
			status = StatusUnverified
		}
		return Member{ID: u.ID, TeamCode: u.TeamCode, Status: status}
	default:
		panic(fmt.Sprintf("domain: unknown role %q", u.Role))
	}
}

// IsLeaderOf reports whether the actor leads the given team.
func IsLeaderOf(a Actor, teamCode string) bool {
	switch v := a.(type) {
	case Leader:
		return v.TeamCode == teamCode
	case Member:
		return false
	default:
		panic(fmt.Sprintf("domain: unknown actor %T", a))
	}
}

// CanWorkIn reports whether the actor may read team data and work on its
// subtasks: the leader, or a member that has been approved.
func CanWorkIn(a Actor, teamCode string) bool {
	switch v := a.(type) {
	case Leader:
		return v.TeamCode == teamCode
	case Member:
		return v.TeamCode == teamCode && v.Status == StatusApproved
	default:
		panic(fmt.Sprintf("domain: unknown actor %T", a))
	}
}

// CanLogin reports whether a user in this state may receive a token.
func CanLogin(a Actor) bool {
	switch v := a.(type) {
	case Leader:
		return true
	case Member:
		return v.Status == StatusApproved
	default:
		panic(fmt.Sprintf("domain: unknown actor %T", a))
	}
}

// CanEditTask reports whether the actor may update or delete a task: its
// creator, or the leader of the task's team.
func CanEditTask(a Actor, t *Task) bool {
	if t == nil {
		return false
	}
	switch v := a.(type) {
	case Leader:
		return v.TeamCode == t.TeamCode || v.ID == t.CreatedBy
	case Member:
		return v.ID == t.CreatedBy && v.TeamCode == t.TeamCode
	default:
		panic(fmt.Sprintf("domain: unknown actor %T", a))
	}
}

// CanReportProgress reports whether the actor may move a subtask's progress:
// the assignee, or the leader of the owning team.
func CanReportProgress(a Actor, s *Subtask) bool {
	if s == nil {
		return false
	}
	switch v := a.(type) {
	case Leader:
		return v.TeamCode == s.TeamCode
	case Member:
		return s.AssignedTo != nil && *s.AssignedTo == v.ID
	default:
		panic(fmt.Sprintf("domain: unknown actor %T", a))
	}
}

// ReportStatus explains whether u may log in, in the words shown to users.
func ReportStatus(u *User) MemberStatusReport {
	report := MemberStatusReport{Name: u.Name, EmailVerified: u.EmailVerified}

	switch v := ActorFromUser(u).(type) {
	case Leader:
		report.CanLogin = true
		report.Status = StatusApproved
		report.Role = RoleLeader
	case Member:
		report.Status = v.Status
		switch v.Status {
		case StatusApproved:
			report.CanLogin = true
			report.Role = RoleMember
		case StatusPending:
			report.Message = "Membership pending approval from team leader"
		case StatusRejected:
			report.Message = "Membership request rejected by team leader"
		default:
			report.Status = StatusUnverified
			report.Message = "Please verify your email address before logging in"
		}
	default:
		panic(fmt.Sprintf("domain: unknown actor %T", v))
	}
	return report
}
