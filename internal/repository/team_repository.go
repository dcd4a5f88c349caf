package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
	"github.com/wizdeskofficial/wizdeskofficial/internal/teamcode"
)

type TeamRepository struct {
	pool    *pgxpool.Pool
	newCode teamcode.Generator
}

func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool, newCode: teamcode.Generate}
}

// WithCodeGenerator replaces the team code source, for tests.
func (r *TeamRepository) WithCodeGenerator(gen teamcode.Generator) *TeamRepository {
	r.newCode = gen
	return r
}

func (r *TeamRepository) GetTeamByCode(ctx context.Context, teamCode string) (*domain.Team, error) {
	query := `SELECT id, team_code, team_name, leader_id, created_at FROM teams WHERE team_code = $1`
	var team domain.Team
	err := r.pool.QueryRow(ctx, query, teamCode).Scan(
		&team.ID,
		&team.TeamCode,
		&team.TeamName,
		&team.LeaderID,
		&team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, my_errors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

// RegisterLeader creates the team and its leader atomically. A fresh team
// code is drawn until an insert succeeds, up to domain.MaxTeamCodeAttempts.
func (r *TeamRepository) RegisterLeader(ctx context.Context, leader domain.NewUser, teamName string) (*domain.User, *domain.Team, error) {
	var (
		user *domain.User
		team domain.Team
	)

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		// ON CONFLICT reports a code committed concurrently as taken.
		code, err := teamcode.Unique(ctx, r.newCode, func(ctx context.Context, code string) (bool, error) {
			err := tx.QueryRow(ctx, `
                INSERT INTO teams (team_code, team_name)
                VALUES ($1, $2)
                ON CONFLICT (team_code) DO NOTHING
                RETURNING id, team_code, team_name, created_at
            `, code, teamName).Scan(&team.ID, &team.TeamCode, &team.TeamName, &team.CreatedAt)
			if errors.Is(err, pgx.ErrNoRows) {
				return true, nil
			}
			if err != nil {
				return false, fmt.Errorf("failed to create team: %w", err)
			}
			return false, nil
		}, domain.MaxTeamCodeAttempts)
		if err != nil {
			return err
		}

		leader.TeamCode = code
		leader.Role = domain.RoleLeader
		leader.Status = domain.StatusApproved
		user, err = insertUser(ctx, tx, leader)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE teams SET leader_id = $1 WHERE id = $2`, user.ID, team.ID); err != nil {
			return fmt.Errorf("failed to set team leader: %w", err)
		}
		team.LeaderID = &user.ID
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, &team, nil
}

// RegisterMember inserts a verified member in pending state and returns it
// with the team's leader, for the new-request notification.
func (r *TeamRepository) RegisterMember(ctx context.Context, member domain.NewUser) (*domain.User, *domain.User, error) {
	var user, leader *domain.User

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teams WHERE team_code = $1)`, member.TeamCode).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check team existence: %w", err)
		}
		if !exists {
			return my_errors.ErrInvalidTeamCode
		}

		member.Role = domain.RoleMember
		member.Status = domain.StatusPending
		user, err = insertUser(ctx, tx, member)
		if err != nil {
			return err
		}

		leader, err = scanUser(tx.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE team_code = $1 AND role = 'leader' LIMIT 1`,
			member.TeamCode,
		))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				leader = nil
				return nil
			}
			return fmt.Errorf("failed to get team leader: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, leader, nil
}

func insertUser(ctx context.Context, tx pgx.Tx, nu domain.NewUser) (*domain.User, error) {
	query := `
        INSERT INTO users (email, password_hash, name, role, team_code, status, email_verified)
        VALUES ($1, $2, $3, $4, $5, $6, TRUE)
        RETURNING ` + userColumns
	u, err := scanUser(tx.QueryRow(ctx, query, nu.Email, nu.PasswordHash, nu.Name, nu.Role, nu.TeamCode, nu.Status))
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return nil, my_errors.ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}
