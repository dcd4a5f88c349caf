package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/metrics"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
	"github.com/wizdeskofficial/wizdeskofficial/internal/notify"
	"github.com/wizdeskofficial/wizdeskofficial/internal/prereg"
)

type LeaderSignup struct {
	Email    string
	Name     string
	Password string
	TeamName string
}

type MemberSignup struct {
	Email    string
	Name     string
	Password string
	TeamCode string
}

// Verification identifies a pre-registration by token or by 6-digit code.
type Verification struct {
	Token string
	Code  string
}

type VerificationSent struct {
	Token       string
	TeamName    string
	EmailSent   bool
	EmailMethod string
}

type LeaderRegistered struct {
	User        *domain.User
	Team        *domain.Team
	EmailSent   bool
	EmailMethod string
}

type MemberRegistered struct {
	User     *domain.User
	TeamName string
}

type RegistrationService struct {
	users    EmailChecker
	teams    TeamRepository
	leaders  prereg.Store
	members  prereg.Store
	notifier notify.Notifier
	logger   *slog.Logger
	ttl      time.Duration
	now      func() time.Time
}

func NewRegistrationService(
	users EmailChecker,
	teams TeamRepository,
	leaders prereg.Store,
	members prereg.Store,
	notifier notify.Notifier,
	logger *slog.Logger,
	ttl time.Duration,
) *RegistrationService {
	if ttl <= 0 {
		ttl = domain.VerificationTTL
	}
	return &RegistrationService{
		users:    users,
		teams:    teams,
		leaders:  leaders,
		members:  members,
		notifier: notifier,
		logger:   logger,
		ttl:      ttl,
		now:      time.Now,
	}
}

// SendLeaderVerification validates a team leader signup, parks it in the
// pre-registration store and emails the verification link and code.
func (s *RegistrationService) SendLeaderVerification(ctx context.Context, in LeaderSignup) (*VerificationSent, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" || in.Name == "" || in.TeamName == "" {
		return nil, fmt.Errorf("email, name and team name: %w", my_errors.ErrEmptyField)
	}

	hash, err := s.prepareCredentials(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	entry, err := prereg.Issue(ctx, s.leaders, domain.PreRegistration{
		Kind:         domain.KindLeader,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		TeamName:     in.TeamName,
	}, s.now(), s.ttl)
	if err != nil {
		return nil, err
	}
	s.observeStores(ctx)

	res, err := s.notifier.SendVerification(ctx, in.Email, notify.VerificationData{
		Name:  in.Name,
		Token: entry.Token,
		Code:  entry.NumericCode,
	})
	if err != nil {
		s.logger.Warn("verification email not delivered", "email", in.Email, "error", err)
	}

	return &VerificationSent{
		Token:       entry.Token,
		TeamName:    in.TeamName,
		EmailSent:   res.Success,
		EmailMethod: res.Method,
	}, nil
}

// SendMemberVerification is the member analogue; the team must exist.
func (s *RegistrationService) SendMemberVerification(ctx context.Context, in MemberSignup) (*VerificationSent, error) {
	in.Email = normalizeEmail(in.Email)
	in.TeamCode = strings.ToUpper(strings.TrimSpace(in.TeamCode))
	if in.Email == "" || in.Name == "" || in.TeamCode == "" {
		return nil, fmt.Errorf("email, name and team code: %w", my_errors.ErrEmptyField)
	}

	hash, err := s.prepareCredentials(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	team, err := s.teams.GetTeamByCode(ctx, in.TeamCode)
	if err != nil {
		if errors.Is(err, my_errors.ErrTeamNotFound) {
			return nil, my_errors.ErrInvalidTeamCode
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	entry, err := prereg.Issue(ctx, s.members, domain.PreRegistration{
		Kind:         domain.KindMember,
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		TeamName:     team.TeamName,
		TeamCode:     team.TeamCode,
	}, s.now(), s.ttl)
	if err != nil {
		return nil, err
	}
	s.observeStores(ctx)

	res, err := s.notifier.SendMemberVerification(ctx, in.Email, notify.MemberVerificationData{
		Name:     in.Name,
		TeamName: team.TeamName,
		Token:    entry.Token,
		Code:     entry.NumericCode,
	})
	if err != nil {
		s.logger.Warn("member verification email not delivered", "email", in.Email, "error", err)
	}

	return &VerificationSent{
		Token:       entry.Token,
		TeamName:    team.TeamName,
		EmailSent:   res.Success,
		EmailMethod: res.Method,
	}, nil
}

// VerifyLeader consumes a leader pre-registration and creates the team and
// its leader. The entry is single use: it is deleted once the user exists.
func (s *RegistrationService) VerifyLeader(ctx context.Context, v Verification) (*LeaderRegistered, error) {
	entry, err := s.lookup(ctx, s.leaders, v)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, s.leaders, entry); err != nil {
		return nil, err
	}

	user, team, err := s.teams.RegisterLeader(ctx, domain.NewUser{
		Email:        entry.Email,
		PasswordHash: entry.PasswordHash,
		Name:         entry.Name,
	}, entry.TeamName)
	if err != nil {
		if errors.Is(err, my_errors.ErrEmailExists) {
			s.discard(ctx, s.leaders, entry.Token)
		}
		return nil, err
	}
	s.discard(ctx, s.leaders, entry.Token)
	metrics.Registrations.WithLabelValues(string(domain.RoleLeader)).Inc()

	s.logger.Info("team leader registered", "user_id", user.ID, "team_code", team.TeamCode)

	res, err := s.notifier.SendTeamCode(ctx, user.Email, notify.TeamCodeData{
		Name:     user.Name,
		TeamName: team.TeamName,
		TeamCode: team.TeamCode,
	})
	if err != nil {
		s.logger.Warn("team code email not delivered", "email", user.Email, "team_code", team.TeamCode, "error", err)
	}

	return &LeaderRegistered{
		User:        user,
		Team:        team,
		EmailSent:   res.Success,
		EmailMethod: res.Method,
	}, nil
}

// VerifyMember consumes a member pre-registration, creates the member in
// pending state and tells the team leader about the request.
func (s *RegistrationService) VerifyMember(ctx context.Context, v Verification) (*MemberRegistered, error) {
	entry, err := s.lookup(ctx, s.members, v)
	if err != nil {
		return nil, err
	}

	if err := s.ensureEmailFree(ctx, s.members, entry); err != nil {
		return nil, err
	}

	user, leader, err := s.teams.RegisterMember(ctx, domain.NewUser{
		Email:        entry.Email,
		PasswordHash: entry.PasswordHash,
		Name:         entry.Name,
		TeamCode:     entry.TeamCode,
	})
	if err != nil {
		if errors.Is(err, my_errors.ErrEmailExists) || errors.Is(err, my_errors.ErrInvalidTeamCode) {
			s.discard(ctx, s.members, entry.Token)
		}
		return nil, err
	}
	s.discard(ctx, s.members, entry.Token)
	metrics.Registrations.WithLabelValues(string(domain.RoleMember)).Inc()

	s.logger.Info("team member registered", "user_id", user.ID, "team_code", user.TeamCode)

	if leader != nil {
		_, err := s.notifier.SendNewMemberRequest(ctx, leader.Email, notify.NewMemberRequestData{
			LeaderName:  leader.Name,
			MemberName:  user.Name,
			MemberEmail: user.Email,
			TeamName:    entry.TeamName,
		})
		if err != nil {
			s.logger.Warn("new member email not delivered", "leader_email", leader.Email, "error", err)
		}
	}

	return &MemberRegistered{User: user, TeamName: entry.TeamName}, nil
}

func (s *RegistrationService) prepareCredentials(ctx context.Context, email, password string) (string, error) {
	if err := validatePassword(password); err != nil {
		return "", err
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return "", fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return "", my_errors.ErrEmailExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (s *RegistrationService) lookup(ctx context.Context, store prereg.Store, v Verification) (*domain.PreRegistration, error) {
	var (
		entry *domain.PreRegistration
		err   error
	)
	switch {
	case v.Token != "":
		entry, err = store.Get(ctx, v.Token)
	case v.Code != "":
		if !sixDigitPattern.MatchString(v.Code) {
			return nil, my_errors.ErrInvalidCodeFormat
		}
		entry, err = store.FindByCode(ctx, v.Code)
	default:
		return nil, fmt.Errorf("verification token or code: %w", my_errors.ErrEmptyField)
	}

	if err != nil {
		if errors.Is(err, my_errors.ErrEntryNotFound) || errors.Is(err, my_errors.ErrVerificationExpired) {
			return nil, fmt.Errorf("%w: %v", my_errors.ErrVerificationNotFound, err)
		}
		return nil, fmt.Errorf("failed to look up verification: %w", err)
	}
	return entry, nil
}

func (s *RegistrationService) ensureEmailFree(ctx context.Context, store prereg.Store, entry *domain.PreRegistration) error {
	exists, err := s.users.EmailExists(ctx, entry.Email)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		s.discard(ctx, store, entry.Token)
		return my_errors.ErrEmailExists
	}
	return nil
}

func (s *RegistrationService) discard(ctx context.Context, store prereg.Store, token string) {
	if err := store.Delete(ctx, token); err != nil {
		s.logger.Warn("failed to delete pre-registration", "error", err)
	}
	s.observeStores(ctx)
}

// PendingCounts reports how many leader and member signups await
// verification.
func (s *RegistrationService) PendingCounts(ctx context.Context) (leaders, members int, err error) {
	if leaders, err = s.leaders.Len(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to count leader pre-registrations: %w", err)
	}
	if members, err = s.members.Len(ctx); err != nil {
		return 0, 0, fmt.Errorf("failed to count member pre-registrations: %w", err)
	}
	return leaders, members, nil
}

func (s *RegistrationService) observeStores(ctx context.Context) {
	total := 0
	for _, store := range []prereg.Store{s.leaders, s.members} {
		n, err := store.Len(ctx)
		if err != nil {
			return
		}
		total += n
	}
	metrics.PreRegistrations.Set(float64(total))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
