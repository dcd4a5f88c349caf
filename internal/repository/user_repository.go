package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
)

const userColumns = `id, email, password_hash, name, role, team_code, status, email_verified,
        approved_by, approved_at, rejected_by, rejected_at, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Role,
		&u.TeamCode,
		&u.Status,
		&u.EmailVerified,
		&u.ApprovedBy,
		&u.ApprovedAt,
		&u.RejectedBy,
		&u.RejectedAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, my_errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByEmailAndTeam is the login lookup: an email is only valid together
// with the team it belongs to.
func (r *UserRepository) GetUserByEmailAndTeam(ctx context.Context, email, teamCode string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND team_code = $2`
	u, err := scanUser(r.pool.QueryRow(ctx, query, email, teamCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, my_errors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// IsTeamWorker reports whether userID is the leader or an approved member
// of the team.
func (r *UserRepository) IsTeamWorker(ctx context.Context, teamCode string, userID int64) (bool, error) {
	query := `
        SELECT EXISTS(
            SELECT 1 FROM users
            WHERE id = $1 AND team_code = $2
              AND (role = 'leader' OR status = 'approved')
        )
    `
	var ok bool
	if err := r.pool.QueryRow(ctx, query, userID, teamCode).Scan(&ok); err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return ok, nil
}

func (r *UserRepository) GetApprovedMembers(ctx context.Context, teamCode string) ([]domain.TeamMember, error) {
	query := `
        SELECT ` + userColumns + `,
            (SELECT COUNT(*) FROM subtasks s WHERE s.assigned_to = users.id) AS assigned_tasks,
            (SELECT COUNT(*) FROM subtasks s WHERE s.assigned_to = users.id AND s.status = 'completed') AS completed_tasks
        FROM users
        WHERE team_code = $1 AND role = 'member' AND status = 'approved'
        ORDER BY created_at DESC
    `
	rows, err := r.pool.Query(ctx, query, teamCode)
	if err != nil {
		return nil, fmt.Errorf("failed to get team members: %w", err)
	}
	defer rows.Close()

	members := []domain.TeamMember{}
	for rows.Next() {
		var m domain.TeamMember
		u := &m.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.TeamCode, &u.Status, &u.EmailVerified,
			&u.ApprovedBy, &u.ApprovedAt, &u.RejectedBy, &u.RejectedAt, &u.CreatedAt, &u.UpdatedAt,
			&m.AssignedTasks, &m.CompletedTasks,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// GetMembersByStatus lists members of a team in the given approval state,
// newest first.
func (r *UserRepository) GetMembersByStatus(ctx context.Context, teamCode string, status domain.MemberStatus) ([]domain.User, error) {
	order := "created_at DESC"
	if status == domain.StatusRejected {
		order = "rejected_at DESC NULLS LAST"
	}
	query := `SELECT ` + userColumns + `
        FROM users
        WHERE team_code = $1 AND role = 'member' AND status = $2
        ORDER BY ` + order

	rows, err := r.pool.Query(ctx, query, teamCode, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return users, nil
}

// Approve moves a pending member to approved.
func (r *UserRepository) Approve(ctx context.Context, leaderID, userID int64, teamCode string) (*domain.MembershipDecision, error) {
	query := `
        UPDATE users
        SET status = 'approved', approved_by = $1, approved_at = NOW(), updated_at = NOW()
        WHERE id = $2 AND team_code = $3 AND role = 'member' AND status = 'pending'
        RETURNING ` + userColumns
	return r.decide(ctx, query, leaderID, userID, teamCode)
}

// Reject moves a pending member to rejected. Approved members are left
// untouched and reported as not found.
func (r *UserRepository) Reject(ctx context.Context, leaderID, userID int64, teamCode string) (*domain.MembershipDecision, error) {
	query := `
        UPDATE users
        SET status = 'rejected', rejected_by = $1, rejected_at = NOW(), updated_at = NOW()
        WHERE id = $2 AND team_code = $3 AND role = 'member' AND status = 'pending'
        RETURNING ` + userColumns
	return r.decide(ctx, query, leaderID, userID, teamCode)
}

// ApproveRejected re-admits a rejected member and clears the rejection.
func (r *UserRepository) ApproveRejected(ctx context.Context, leaderID, userID int64, teamCode string) (*domain.MembershipDecision, error) {
	query := `
        UPDATE users
        SET status = 'approved', approved_by = $1, approved_at = NOW(),
            rejected_by = NULL, rejected_at = NULL, updated_at = NOW()
        WHERE id = $2 AND team_code = $3 AND role = 'member' AND status = 'rejected'
        RETURNING ` + userColumns
	return r.decide(ctx, query, leaderID, userID, teamCode)
}

func (r *UserRepository) decide(ctx context.Context, query string, leaderID, userID int64, teamCode string) (*domain.MembershipDecision, error) {
	var decision domain.MembershipDecision
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		member, err := scanUser(tx.QueryRow(ctx, query, leaderID, userID, teamCode))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return my_errors.ErrMemberNotFound
			}
			return fmt.Errorf("failed to update member status: %w", err)
		}
		decision.Member = *member

		err = tx.QueryRow(ctx, `
            SELECT u.name, t.team_name
            FROM users u
            JOIN teams t ON t.team_code = u.team_code
            WHERE u.id = $1
        `, leaderID).Scan(&decision.LeaderName, &decision.TeamName)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to get leader details: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &decision, nil
}

func (r *UserRepository) DeleteRejected(ctx context.Context, teamCode string, userID int64) error {
	query := `
        DELETE FROM users
        WHERE id = $1 AND team_code = $2 AND role = 'member' AND status = 'rejected'
    `
	result, err := r.pool.Exec(ctx, query, userID, teamCode)
	if err != nil {
		return fmt.Errorf("failed to delete rejected member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return my_errors.ErrMemberNotFound
	}
	return nil
}

// RemoveMember frees every subtask held by the member and deletes the user,
// in one transaction. It returns the number of subtasks released.
func (r *UserRepository) RemoveMember(ctx context.Context, teamCode string, memberID int64) (int64, error) {
	var released int64
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, `
            SELECT id FROM users
            WHERE id = $1 AND team_code = $2 AND role = 'member'
            FOR UPDATE
        `, memberID, teamCode).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return my_errors.ErrMemberNotFound
			}
			return fmt.Errorf("failed to lock member: %w", err)
		}

		result, err := tx.Exec(ctx, `
            UPDATE subtasks
            SET assigned_to = NULL, status = 'available', progress = 'not_started', updated_at = NOW()
            WHERE assigned_to = $1
        `, memberID)
		if err != nil {
			return fmt.Errorf("failed to unassign subtasks: %w", err)
		}
		released = result.RowsAffected()

		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, memberID); err != nil {
			return fmt.Errorf("failed to delete member: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}
