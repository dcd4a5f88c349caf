package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/dto"
	"github.com/wizdeskofficial/wizdeskofficial/internal/middleware"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
)

var exposeDetails atomic.Bool

// ExposeErrorDetails adds the wrapped error text to error responses. Meant
// for development only.
func ExposeErrorDetails(enabled bool) {
	exposeDetails.Store(enabled)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to encode JSON response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondWithError(w, status, &dto.ErrorResponse{Error: message})
}

func respondWithError(w http.ResponseWriter, status int, errResp *dto.ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		slog.Warn("failed to encode error response", "error", err)
	}
}

// Order matters: the password errors wrap ErrWeakPassword and must be
// matched before it.
var serviceErrors = []struct {
	err     error
	status  int
	message string
}{
	{my_errors.ErrPasswordTooShort, http.StatusBadRequest, "Password must be at least 6 characters long"},
	{my_errors.ErrPasswordTooLong, http.StatusBadRequest, "Password must be at most 72 bytes long"},
	{my_errors.ErrPasswordNoSpecial, http.StatusBadRequest, "Password must contain at least one special character"},
	{my_errors.ErrWeakPassword, http.StatusBadRequest, "Password does not meet requirements"},
	{my_errors.ErrEmptyField, http.StatusBadRequest, "Missing required fields"},
	{my_errors.ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{my_errors.ErrInvalidCodeFormat, http.StatusBadRequest, "Invalid verification code format"},
	{my_errors.ErrInvalidProgress, http.StatusBadRequest, "Invalid progress value"},
	{my_errors.ErrCannotDeleteSelf, http.StatusBadRequest, "Cannot delete yourself"},
	{my_errors.ErrAssigneeNotInTeam, http.StatusBadRequest, "Assignee is not an approved member of this team"},
	{my_errors.ErrSubtaskUnavailable, http.StatusBadRequest, "This subtask is no longer available"},
	{my_errors.ErrEmailExists, http.StatusBadRequest, "Email already registered"},
	{my_errors.ErrInvalidTeamCode, http.StatusBadRequest, "Invalid team code"},
	{my_errors.ErrVerificationNotFound, http.StatusBadRequest, "Invalid or expired verification"},
	{my_errors.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email, password, or team code"},
	{my_errors.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
	{my_errors.ErrMembershipPending, http.StatusForbidden, "Your membership is pending approval from the team leader"},
	{my_errors.ErrMembershipRejected, http.StatusForbidden, "Your membership request was rejected. Please contact your team leader."},
	{my_errors.ErrEmailNotVerified, http.StatusForbidden, "Please verify your email address before logging in"},
	{my_errors.ErrForbidden, http.StatusForbidden, "Not authorized"},
	{my_errors.ErrMemberNotFound, http.StatusNotFound, "User not found or already processed"},
	{my_errors.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{my_errors.ErrTeamNotFound, http.StatusNotFound, "Team not found"},
	{my_errors.ErrTaskNotFound, http.StatusNotFound, "Task not found"},
	{my_errors.ErrSubtaskNotFound, http.StatusNotFound, "Subtask not found"},
}

// respondServiceError maps a service error onto a status and a user-facing
// message. Unknown errors are logged and become 500.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"
	for _, e := range serviceErrors {
		if errors.Is(err, e.err) {
			status, message = e.status, e.message
			break
		}
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	resp := &dto.ErrorResponse{Error: message}
	if exposeDetails.Load() {
		resp.Details = err.Error()
	}
	respondWithError(w, status, resp)
}

// decodeAndValidate reads a JSON body into dst and runs the struct
// validator. It writes the 400 response itself and reports false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := v.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "validation error: "+err.Error())
		return false
	}
	return true
}

// decodeOptional is decodeAndValidate for bodies that may be empty.
func decodeOptional(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst interface{}) bool {
	if r.Body == nil {
		return true
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case errors.Is(err, io.EOF):
		return true
	case err != nil:
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := v.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "validation error: "+err.Error())
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

// requireActor fetches the authenticated caller. Body fields such as
// approvedBy or leaderId are accepted for compatibility but must name the
// caller.
func requireActor(w http.ResponseWriter, r *http.Request, claimed ...*int64) (domain.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return nil, false
	}
	for _, id := range claimed {
		if id != nil && *id != actor.UserID() {
			respondError(w, http.StatusForbidden, "Not authorized")
			return nil, false
		}
	}
	return actor, true
}
