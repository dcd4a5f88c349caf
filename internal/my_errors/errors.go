package my_errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for business logic. Handlers map them to HTTP statuses.
var (
	// Validation
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyField         = errors.New("required field is empty")
	ErrWeakPassword       = errors.New("password does not meet requirements")
	ErrPasswordTooShort   = fmt.Errorf("%w: must be at least 6 characters long", ErrWeakPassword)
	ErrPasswordTooLong    = fmt.Errorf("%w: must be at most 72 bytes long", ErrWeakPassword)
	ErrPasswordNoSpecial  = fmt.Errorf("%w: must contain at least one special character", ErrWeakPassword)
	ErrInvalidCodeFormat  = errors.New("invalid verification code format")
	ErrInvalidProgress    = errors.New("invalid progress value")
	ErrCannotDeleteSelf   = errors.New("cannot delete yourself")
	ErrAssigneeNotInTeam  = errors.New("assignee is not an approved member of this team")
	ErrSubtaskUnavailable = errors.New("this subtask is no longer available")

	// Conflict
	ErrEmailExists = errors.New("email already registered")

	// Registration
	ErrInvalidTeamCode      = errors.New("invalid team code")
	ErrVerificationNotFound = errors.New("invalid or expired verification")
	ErrVerificationExpired  = errors.New("verification has expired")
	ErrTeamCodeExhausted    = errors.New("failed to generate unique team code")

	// Auth
	ErrInvalidCredentials = errors.New("invalid email, password, or team code")
	ErrInvalidToken       = errors.New("invalid token")
	ErrMembershipPending  = errors.New("your membership is pending approval from the team leader")
	ErrMembershipRejected = errors.New("your membership request was rejected, please contact your team leader")
	ErrEmailNotVerified   = errors.New("please verify your email address before logging in")
	ErrForbidden          = errors.New("not authorized")

	// Not found
	ErrUserNotFound    = errors.New("user not found")
	ErrMemberNotFound  = errors.New("user not found or already processed")
	ErrTeamNotFound    = errors.New("team not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrEntryNotFound   = errors.New("entry not found")
)
