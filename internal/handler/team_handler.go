package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/dto"
	"github.com/wizdeskofficial/wizdeskofficial/internal/mapper"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
	"github.com/wizdeskofficial/wizdeskofficial/internal/request"
	"github.com/wizdeskofficial/wizdeskofficial/internal/response"
	"github.com/wizdeskofficial/wizdeskofficial/internal/service"
)

type MemberService interface {
	ApproveMember(ctx context.Context, actor domain.Actor, userID int64, teamCode string) (*service.DecisionResult, error)
	RejectMember(ctx context.Context, actor domain.Actor, userID int64, teamCode string) (*service.DecisionResult, error)
	ApproveRejectedMember(ctx context.Context, actor domain.Actor, userID int64, teamCode string) (*service.DecisionResult, error)
	DeleteRejectedMember(ctx context.Context, actor domain.Actor, userID int64) error
	RemoveMember(ctx context.Context, actor domain.Actor, teamCode string, memberID int64) error
	ListMembers(ctx context.Context, actor domain.Actor, teamCode string) ([]domain.TeamMember, error)
	PendingRequests(ctx context.Context, actor domain.Actor, teamCode string) ([]domain.User, error)
	RejectedMembers(ctx context.Context, actor domain.Actor, teamCode string) ([]domain.User, error)
}

// TeamHandler serves team membership: approvals, removals and listings.
type TeamHandler struct {
	service   MemberService
	validator *validator.Validate
}

func NewTeamHandler(service MemberService, validator *validator.Validate) *TeamHandler {
	return &TeamHandler{
		service:   service,
		validator: validator,
	}
}

// ApproveMember godoc
// @Summary Approve a pending member
// @Tags Team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.ApproveMemberRequest true "Member to approve"
// @Success 200 {object} response.MemberDecisionResponse
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Failure 404 {object} dto.ErrorResponse "User not found or already processed"
// @Router /auth/approve-member [post]
func (h *TeamHandler) ApproveMember(w http.ResponseWriter, r *http.Request) {
	var req request.ApproveMemberRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	actor, ok := requireActor(w, r, req.ApprovedBy)
	if !ok {
		return
	}

	res, err := h.service.ApproveMember(r.Context(), actor, req.UserID, normalizeTeamCode(req.TeamCode))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, decisionResponse("Member approved successfully", res, true))
}

// RejectMember godoc
// @Summary Reject a pending member
// @Tags Team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.RejectMemberRequest true "Member to reject"
// @Success 200 {object} response.MemberDecisionResponse
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Failure 404 {object} dto.ErrorResponse "User not found or already processed"
// @Router /auth/reject-member [post]
func (h *TeamHandler) RejectMember(w http.ResponseWriter, r *http.Request) {
	var req request.RejectMemberRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	actor, ok := requireActor(w, r, req.RejectedBy)
	if !ok {
		return
	}

	res, err := h.service.RejectMember(r.Context(), actor, req.UserID, normalizeTeamCode(req.TeamCode))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, decisionResponse("Member request rejected", res, false))
}

// ApproveRejectedMember godoc
// @Summary Approve a previously rejected member
// @Tags Team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.ApproveMemberRequest true "Member to approve"
// @Success 200 {object} response.MemberDecisionResponse
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Failure 404 {object} dto.ErrorResponse "Rejected member not found or already processed"
// @Router /auth/approve-rejected-member [post]
func (h *TeamHandler) ApproveRejectedMember(w http.ResponseWriter, r *http.Request) {
	var req request.ApproveMemberRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	actor, ok := requireActor(w, r, req.ApprovedBy)
	if !ok {
		return
	}

	res, err := h.service.ApproveRejectedMember(r.Context(), actor, req.UserID, normalizeTeamCode(req.TeamCode))
	if err != nil {
		if errors.Is(err, my_errors.ErrMemberNotFound) {
			respondError(w, http.StatusNotFound, "Rejected member not found or already processed")
			return
		}
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, decisionResponse("Member approved successfully", res, true))
}

// DeleteRejectedMember godoc
// @Summary Permanently delete a rejected member
// @Tags Team
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse "Not a team leader"
// @Failure 404 {object} dto.ErrorResponse "Rejected member not found"
// @Router /auth/delete-rejected-member/{userId} [delete]
func (h *TeamHandler) DeleteRejectedMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := idParam(w, r, "userId")
	if !ok {
		return
	}
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteRejectedMember(r.Context(), actor, userID); err != nil {
		if errors.Is(err, my_errors.ErrMemberNotFound) {
			respondError(w, http.StatusNotFound, "Rejected member not found")
			return
		}
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Rejected member deleted permanently"})
}

// RemoveMember godoc
// @Summary Remove a member from the team
// @Description The member's subtasks are returned to the available pool
// @Tags Team
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param teamCode path string true "Team code"
// @Param memberId path int true "Member ID"
// @Param request body request.RemoveMemberRequest false "Optional leader id"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse "Cannot delete yourself"
// @Failure 403 {object} dto.ErrorResponse "Only team leader can delete members"
// @Failure 404 {object} dto.ErrorResponse "Member not found in your team"
// @Router /auth/team/{teamCode}/member/{memberId} [delete]
func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	memberID, ok := idParam(w, r, "memberId")
	if !ok {
		return
	}
	var req request.RemoveMemberRequest
	if !decodeOptional(w, r, h.validator, &req) {
		return
	}
	actor, ok := requireActor(w, r, req.LeaderID)
	if !ok {
		return
	}

	err := h.service.RemoveMember(r.Context(), actor, teamCodeParam(r), memberID)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, dto.MessageResponse{Message: "Member deleted successfully"})
	case errors.Is(err, my_errors.ErrForbidden):
		respondError(w, http.StatusForbidden, "Only team leader can delete members")
	case errors.Is(err, my_errors.ErrMemberNotFound):
		respondError(w, http.StatusNotFound, "Member not found in your team")
	default:
		respondServiceError(w, r, err)
	}
}

// AllMembers godoc
// @Summary List approved team members with subtask counters
// @Tags Team
// @Produce json
// @Security BearerAuth
// @Param teamCode path string true "Team code"
// @Success 200 {array} dto.TeamMemberDTO
// @Failure 403 {object} dto.ErrorResponse "Not a member of this team"
// @Router /auth/team/{teamCode}/all-members [get]
func (h *TeamHandler) AllMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	members, err := h.service.ListMembers(r.Context(), actor, teamCodeParam(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.MapTeamMembersToDTO(members))
}

// PendingRequests godoc
// @Summary List pending membership requests
// @Tags Team
// @Produce json
// @Security BearerAuth
// @Param teamCode path string true "Team code"
// @Success 200 {array} dto.UserDTO
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Router /auth/team/{teamCode}/pending-requests [get]
func (h *TeamHandler) PendingRequests(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, h.service.PendingRequests)
}

// RejectedMembers godoc
// @Summary List rejected members
// @Tags Team
// @Produce json
// @Security BearerAuth
// @Param teamCode path string true "Team code"
// @Success 200 {array} dto.UserDTO
// @Failure 403 {object} dto.ErrorResponse "Not the team leader"
// @Router /auth/team/{teamCode}/rejected-members [get]
func (h *TeamHandler) RejectedMembers(w http.ResponseWriter, r *http.Request) {
	h.listByStatus(w, r, h.service.RejectedMembers)
}

func (h *TeamHandler) listByStatus(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, actor domain.Actor, teamCode string) ([]domain.User, error),
) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	users, err := list(r.Context(), actor, teamCodeParam(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.MapDomainUsersToDTO(users))
}

func decisionResponse(message string, res *service.DecisionResult, withEmail bool) response.MemberDecisionResponse {
	resp := response.MemberDecisionResponse{
		Message: message,
		User:    mapper.MapDomainUserToDTO(res.User),
	}
	if withEmail {
		sent := res.EmailSent
		resp.EmailSent = &sent
		resp.EmailMethod = res.EmailMethod
	}
	return resp
}

func teamCodeParam(r *http.Request) string {
	return normalizeTeamCode(chi.URLParam(r, "teamCode"))
}

func normalizeTeamCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
