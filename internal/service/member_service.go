package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/metrics"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
	"github.com/wizdeskofficial/wizdeskofficial/internal/notify"
)

type DecisionResult struct {
	User        *domain.User
	EmailSent   bool
	EmailMethod string
}

type MemberService struct {
	repo     MemberRepository
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewMemberService(repo MemberRepository, notifier notify.Notifier, logger *slog.Logger) *MemberService {
	return &MemberService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

type transition func(ctx context.Context, leaderID, userID int64, teamCode string) (*domain.MembershipDecision, error)

// ApproveMember moves a pending member to approved and emails them.
func (s *MemberService) ApproveMember(ctx context.Context, actor domain.Actor, userID int64, teamCode string) (*DecisionResult, error) {
	return s.decide(ctx, actor, userID, teamCode, "approved", s.repo.Approve, true)
}

// RejectMember moves a pending member to rejected. Approved members are not
// affected.
func (s *MemberService) RejectMember(ctx context.Context, actor domain.Actor, userID int64, teamCode string) (*DecisionResult, error) {
	return s.decide(ctx, actor, userID, teamCode, "rejected", s.repo.Reject, false)
}

// ApproveRejectedMember re-admits a previously rejected member.
func (s *MemberService) ApproveRejectedMember(ctx context.Context, actor domain.Actor, userID int64, teamCode string) (*DecisionResult, error) {
	return s.decide(ctx, actor, userID, teamCode, "reapproved", s.repo.ApproveRejected, true)
}

func (s *MemberService) decide(
	ctx context.Context,
	actor domain.Actor,
	userID int64,
	teamCode string,
	label string,
	apply transition,
	notifyMember bool,
) (*DecisionResult, error) {
	if userID <= 0 || teamCode == "" {
		return nil, fmt.Errorf("user id and team code: %w", my_errors.ErrEmptyField)
	}
	if !domain.IsLeaderOf(actor, teamCode) {
		return nil, my_errors.ErrForbidden
	}

	decision, err := apply(ctx, actor.UserID(), userID, teamCode)
	if err != nil {
		return nil, err
	}
	metrics.MembershipDecisions.WithLabelValues(label).Inc()
	s.logger.Info("membership decision", "decision", label, "user_id", userID, "team_code", teamCode, "leader_id", actor.UserID())

	result := &DecisionResult{User: &decision.Member}
	if !notifyMember {
		return result, nil
	}

	leaderName := decision.LeaderName
	if leaderName == "" {
		leaderName = "Team Leader"
	}
	teamName := decision.TeamName
	if teamName == "" {
		teamName = "Your Team"
	}

	res, err := s.notifier.SendMemberApproved(ctx, decision.Member.Email, notify.MemberApprovedData{
		Name:       decision.Member.Name,
		LeaderName: leaderName,
		TeamName:   teamName,
	})
	if err != nil {
		s.logger.Warn("approval email not delivered", "email", decision.Member.Email, "error", err)
	}
	result.EmailSent = res.Success
	result.EmailMethod = res.Method
	return result, nil
}

// DeleteRejectedMember permanently removes a rejected member of the actor's
// team.
func (s *MemberService) DeleteRejectedMember(ctx context.Context, actor domain.Actor, userID int64) error {
	if !domain.IsLeaderOf(actor, actor.Team()) {
		return my_errors.ErrForbidden
	}
	if err := s.repo.DeleteRejected(ctx, actor.Team(), userID); err != nil {
		return err
	}
	s.logger.Info("rejected member deleted", "user_id", userID, "team_code", actor.Team())
	return nil
}

// RemoveMember deletes a member and returns their subtasks to the pool.
func (s *MemberService) RemoveMember(ctx context.Context, actor domain.Actor, teamCode string, memberID int64) error {
	if !domain.IsLeaderOf(actor, teamCode) {
		return my_errors.ErrForbidden
	}
	if memberID == actor.UserID() {
		return my_errors.ErrCannotDeleteSelf
	}

	released, err := s.repo.RemoveMember(ctx, teamCode, memberID)
	if err != nil {
		return err
	}
	s.logger.Info("member removed", "member_id", memberID, "team_code", teamCode, "released_subtasks", released)
	return nil
}

func (s *MemberService) ListMembers(ctx context.Context, actor domain.Actor, teamCode string) ([]domain.TeamMember, error) {
	if !domain.CanWorkIn(actor, teamCode) {
		return nil, my_errors.ErrForbidden
	}
	members, err := s.repo.GetApprovedMembers(ctx, teamCode)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func (s *MemberService) PendingRequests(ctx context.Context, actor domain.Actor, teamCode string) ([]domain.User, error) {
	return s.byStatus(ctx, actor, teamCode, domain.StatusPending)
}

func (s *MemberService) RejectedMembers(ctx context.Context, actor domain.Actor, teamCode string) ([]domain.User, error) {
	return s.byStatus(ctx, actor, teamCode, domain.StatusRejected)
}

func (s *MemberService) byStatus(ctx context.Context, actor domain.Actor, teamCode string, status domain.MemberStatus) ([]domain.User, error) {
	if !domain.IsLeaderOf(actor, teamCode) {
		return nil, my_errors.ErrForbidden
	}
	users, err := s.repo.GetMembersByStatus(ctx, teamCode, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s members: %w", status, err)
	}
	return users, nil
}
