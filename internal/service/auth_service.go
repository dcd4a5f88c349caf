package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/jwt"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
)

type LoginResult struct {
	User  *domain.User
	Token string
}

type AuthService struct {
	userRepo  UserRepositoryForAuth
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(userRepo UserRepositoryForAuth, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// Login checks credentials scoped to a team and issues a token. Members can
// only log in once approved.
func (s *AuthService) Login(ctx context.Context, email, password, teamCode string) (*LoginResult, error) {
	email = normalizeEmail(email)
	teamCode = strings.ToUpper(strings.TrimSpace(teamCode))
	if email == "" || password == "" || teamCode == "" {
		return nil, fmt.Errorf("email, password and team code: %w", my_errors.ErrEmptyField)
	}

	user, err := s.userRepo.GetUserByEmailAndTeam(ctx, email, teamCode)
	if err != nil {
		if errors.Is(err, my_errors.ErrUserNotFound) {
			return nil, my_errors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !checkPassword(user.PasswordHash, password) {
		return nil, my_errors.ErrInvalidCredentials
	}

	actor := domain.ActorFromUser(user)
	if !domain.CanLogin(actor) {
		return nil, loginDenied(actor)
	}

	token, err := jwt.GenerateToken(jwt.Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     string(user.Role),
		TeamCode: user.TeamCode,
	}, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{User: user, Token: token}, nil
}

func loginDenied(a domain.Actor) error {
	switch v := a.(type) {
	case domain.Leader:
		return nil
	case domain.Member:
		switch v.Status {
		case domain.StatusPending:
			return my_errors.ErrMembershipPending
		case domain.StatusRejected:
			return my_errors.ErrMembershipRejected
		default:
			return my_errors.ErrEmailNotVerified
		}
	default:
		panic(fmt.Sprintf("service: unknown actor %T", a))
	}
}

// ValidateToken parses a bearer token and reloads the user, so that a
// removed or demoted member loses access before the token expires.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (domain.Actor, error) {
	claims, err := jwt.ParseToken(tokenString, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, my_errors.ErrUserNotFound) {
			return nil, my_errors.ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	actor := domain.ActorFromUser(user)
	if !domain.CanLogin(actor) {
		return nil, my_errors.ErrInvalidToken
	}
	return actor, nil
}

// CheckMemberStatus reports whether the account for email in teamCode can
// log in yet. Unknown accounts are not an error.
func (s *AuthService) CheckMemberStatus(ctx context.Context, email, teamCode string) (*domain.MemberStatusReport, error) {
	email = normalizeEmail(email)
	teamCode = strings.ToUpper(strings.TrimSpace(teamCode))
	if email == "" || teamCode == "" {
		return nil, fmt.Errorf("email and team code: %w", my_errors.ErrEmptyField)
	}

	user, err := s.userRepo.GetUserByEmailAndTeam(ctx, email, teamCode)
	if err != nil {
		if errors.Is(err, my_errors.ErrUserNotFound) {
			return &domain.MemberStatusReport{Message: "No account found with these credentials"}, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	report := domain.ReportStatus(user)
	return &report, nil
}
