package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/dto"
	"github.com/wizdeskofficial/wizdeskofficial/internal/mapper"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
	"github.com/wizdeskofficial/wizdeskofficial/internal/request"
	"github.com/wizdeskofficial/wizdeskofficial/internal/response"
	"github.com/wizdeskofficial/wizdeskofficial/internal/service"
)

type RegistrationService interface {
	SendLeaderVerification(ctx context.Context, in service.LeaderSignup) (*service.VerificationSent, error)
	SendMemberVerification(ctx context.Context, in service.MemberSignup) (*service.VerificationSent, error)
	VerifyLeader(ctx context.Context, v service.Verification) (*service.LeaderRegistered, error)
	VerifyMember(ctx context.Context, v service.Verification) (*service.MemberRegistered, error)
	PendingCounts(ctx context.Context) (leaders, members int, err error)
}

type AuthService interface {
	Login(ctx context.Context, email, password, teamCode string) (*service.LoginResult, error)
	CheckMemberStatus(ctx context.Context, email, teamCode string) (*domain.MemberStatusReport, error)
}

type AuthHandler struct {
	registration RegistrationService
	authService  AuthService
	validator    *validator.Validate
	environment  string
}

func NewAuthHandler(registration RegistrationService, authService AuthService, validator *validator.Validate, environment string) *AuthHandler {
	return &AuthHandler{
		registration: registration,
		authService:  authService,
		validator:    validator,
		environment:  environment,
	}
}

// SendVerification godoc
// @Summary Start team leader registration
// @Description Validates the signup, stores it for one hour and emails a verification link and 6-digit code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.SendVerificationRequest true "Leader signup"
// @Success 200 {object} response.VerificationSentResponse
// @Failure 400 {object} dto.ErrorResponse "Weak password or email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/send-verification [post]
func (h *AuthHandler) SendVerification(w http.ResponseWriter, r *http.Request) {
	var req request.SendVerificationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	sent, err := h.registration.SendLeaderVerification(r.Context(), service.LeaderSignup{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		TeamName: req.TeamName,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response.VerificationSentResponse{
		Success:           true,
		Message:           "Verification sent successfully",
		VerificationToken: sent.Token,
		EmailSent:         sent.EmailSent,
		EmailMethod:       sent.EmailMethod,
	})
}

// VerifyEmail godoc
// @Summary Verify a team leader by link token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.VerifyEmailRequest true "Verification token"
// @Success 200 {object} response.LeaderRegisteredResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyEmailRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	h.verifyLeader(w, r, service.Verification{Token: req.Token}, "Invalid or expired verification token")
}

// VerifyEmailCode godoc
// @Summary Verify a team leader by 6-digit code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.VerifyEmailCodeRequest true "Verification code"
// @Success 200 {object} response.LeaderRegisteredResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid format or expired code"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/verify-email-code [post]
func (h *AuthHandler) VerifyEmailCode(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyEmailCodeRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}
	h.verifyLeader(w, r, service.Verification{Code: req.Code}, "Invalid or expired verification code")
}

func (h *AuthHandler) verifyLeader(w http.ResponseWriter, r *http.Request, v service.Verification, notFound string) {
	reg, err := h.registration.VerifyLeader(r.Context(), v)
	if err != nil {
		respondVerificationError(w, r, err, notFound)
		return
	}

	respondJSON(w, http.StatusOK, response.LeaderRegisteredResponse{
		Success:     true,
		Message:     "Team created successfully!",
		User:        mapper.MapDomainUserToDTO(reg.User),
		Team:        mapper.MapDomainTeamToDTO(reg.Team),
		TeamCode:    reg.Team.TeamCode,
		TeamName:    reg.Team.TeamName,
		EmailSent:   reg.EmailSent,
		EmailMethod: reg.EmailMethod,
	})
}

// SendMemberVerification godoc
// @Summary Start team member registration
// @Description The team must exist. Sends a verification link and 6-digit code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.SendMemberVerificationRequest true "Member signup"
// @Success 200 {object} response.VerificationSentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid team code, weak password or email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/send-member-verification [post]
func (h *AuthHandler) SendMemberVerification(w http.ResponseWriter, r *http.Request) {
	var req request.SendMemberVerificationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	sent, err := h.registration.SendMemberVerification(r.Context(), service.MemberSignup{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		TeamCode: req.TeamCode,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response.VerificationSentResponse{
		Success:           true,
		Message:           "Verification sent successfully",
		VerificationToken: sent.Token,
		TeamName:          sent.TeamName,
		EmailSent:         sent.EmailSent,
		EmailMethod:       sent.EmailMethod,
	})
}

// VerifyMemberEmail godoc
// @Summary Verify a team member by token or code
// @Description Creates the member in pending state and notifies the team leader
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.VerifyMemberEmailRequest true "Token or code"
// @Success 200 {object} response.MemberRegisteredResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired verification"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/verify-member-email [post]
func (h *AuthHandler) VerifyMemberEmail(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyMemberEmailRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	reg, err := h.registration.VerifyMember(r.Context(), service.Verification{Token: req.Token, Code: req.Code})
	if err != nil {
		respondVerificationError(w, r, err, "Invalid or expired verification token")
		return
	}

	respondJSON(w, http.StatusOK, response.MemberRegisteredResponse{
		Success:  true,
		Message:  "Member registration successful! Please wait for team leader approval.",
		User:     mapper.MapDomainUserToDTO(reg.User),
		TeamName: reg.TeamName,
	})
}

func respondVerificationError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, my_errors.ErrVerificationNotFound):
		respondError(w, http.StatusBadRequest, notFound)
	case errors.Is(err, my_errors.ErrEmailExists):
		respondError(w, http.StatusBadRequest, "User already exists with this email")
	default:
		respondServiceError(w, r, err)
	}
}

// Login godoc
// @Summary Log in to a team
// @Description Members can log in only after the team leader approved them
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.LoginResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid email, password, or team code"
// @Failure 403 {object} dto.ErrorResponse "Membership pending or rejected"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	res, err := h.authService.Login(r.Context(), req.Email, req.Password, req.TeamCode)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response.LoginResponse{
		Message: "Login successful",
		User:    mapper.MapDomainUserToDTO(res.User),
		Token:   res.Token,
	})
}

// CheckMemberStatus godoc
// @Summary Check whether an account can log in yet
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request.CheckMemberStatusRequest true "Email and team code"
// @Success 200 {object} response.MemberStatusResponse
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/check-member-status [post]
func (h *AuthHandler) CheckMemberStatus(w http.ResponseWriter, r *http.Request) {
	var req request.CheckMemberStatusRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	report, err := h.authService.CheckMemberStatus(r.Context(), req.Email, req.TeamCode)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, response.MemberStatusResponse{
		CanLogin:      report.CanLogin,
		Status:        string(report.Status),
		Role:          string(report.Role),
		Name:          report.Name,
		Message:       report.Message,
		EmailVerified: report.EmailVerified,
	})
}

// Health godoc
// @Summary Auth API health
// @Tags Auth
// @Produce json
// @Success 200 {object} response.AuthHealthResponse
// @Router /auth/health [get]
func (h *AuthHandler) Health(w http.ResponseWriter, r *http.Request) {
	leaders, members, err := h.registration.PendingCounts(r.Context())
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, &dto.ErrorResponse{Error: "pre-registration store unavailable"})
		return
	}

	respondJSON(w, http.StatusOK, response.AuthHealthResponse{
		Status:                 "OK",
		Service:                "Auth API",
		Timestamp:              time.Now().UTC().Format(time.RFC3339),
		Environment:            h.environment,
		LeaderPreRegistrations: leaders,
		MemberPreRegistrations: members,
	})
}
