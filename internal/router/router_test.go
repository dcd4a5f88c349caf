package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wizdeskofficial/wizdeskofficial/internal/domain"
	"github.com/wizdeskofficial/wizdeskofficial/internal/handler"
	"github.com/wizdeskofficial/wizdeskofficial/internal/my_errors"
	"github.com/wizdeskofficial/wizdeskofficial/internal/service"
)

var (
	leader = domain.Leader{ID: 1, TeamCode: "ABC123"}
	member = domain.Member{ID: 2, TeamCode: "ABC123", Status: domain.StatusApproved}
)

type stubRegistration struct {
	err        error
	signup     service.LeaderSignup
	verified   service.Verification
	leaderRegs *service.LeaderRegistered
}

func (s *stubRegistration) SendLeaderVerification(_ context.Context, in service.LeaderSignup) (*service.VerificationSent, error) {
	s.signup = in
	if s.err != nil {
		return nil, s.err
	}
	return &service.VerificationSent{Token: "tok", EmailSent: true, EmailMethod: "smtp"}, nil
}

func (s *stubRegistration) SendMemberVerification(_ context.Context, in service.MemberSignup) (*service.VerificationSent, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.VerificationSent{Token: "tok", TeamName: "Alpha", EmailMethod: "console"}, nil
}

func (s *stubRegistration) VerifyLeader(_ context.Context, v service.Verification) (*service.LeaderRegistered, error) {
	s.verified = v
	if s.err != nil {
		return nil, s.err
	}
	return s.leaderRegs, nil
}

func (s *stubRegistration) VerifyMember(_ context.Context, v service.Verification) (*service.MemberRegistered, error) {
	s.verified = v
	if s.err != nil {
		return nil, s.err
	}
	return &service.MemberRegistered{User: &domain.User{ID: 5, Role: domain.RoleMember, Status: domain.StatusPending}, TeamName: "Alpha"}, nil
}

func (s *stubRegistration) PendingCounts(context.Context) (int, int, error) {
	return 2, 1, nil
}

type stubAuth struct {
	loginErr error
	tokens   map[string]domain.Actor
}

func (s *stubAuth) Login(_ context.Context, email, _, teamCode string) (*service.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &service.LoginResult{User: &domain.User{ID: 1, Email: email, TeamCode: teamCode, Role: domain.RoleLeader}, Token: "jwt"}, nil
}

func (s *stubAuth) CheckMemberStatus(context.Context, string, string) (*domain.MemberStatusReport, error) {
	return &domain.MemberStatusReport{Status: domain.StatusPending, Message: "Membership pending approval from team leader"}, nil
}

func (s *stubAuth) ValidateToken(_ context.Context, token string) (domain.Actor, error) {
	if a, ok := s.tokens[token]; ok {
		return a, nil
	}
	return nil, my_errors.ErrInvalidToken
}

type stubMembers struct {
	err      error
	actor    domain.Actor
	teamCode string
}

func (s *stubMembers) decision(actor domain.Actor, userID int64, teamCode string) (*service.DecisionResult, error) {
	s.actor, s.teamCode = actor, teamCode
	if s.err != nil {
		return nil, s.err
	}
	return &service.DecisionResult{User: &domain.User{ID: userID, Status: domain.StatusApproved}, EmailSent: true, EmailMethod: "smtp"}, nil
}

func (s *stubMembers) ApproveMember(_ context.Context, a domain.Actor, id int64, tc string) (*service.DecisionResult, error) {
	return s.decision(a, id, tc)
}

func (s *stubMembers) RejectMember(_ context.Context, a domain.Actor, id int64, tc string) (*service.DecisionResult, error) {
	return s.decision(a, id, tc)
}

func (s *stubMembers) ApproveRejectedMember(_ context.Context, a domain.Actor, id int64, tc string) (*service.DecisionResult, error) {
	return s.decision(a, id, tc)
}

func (s *stubMembers) DeleteRejectedMember(_ context.Context, a domain.Actor, _ int64) error {
	s.actor = a
	return s.err
}

func (s *stubMembers) RemoveMember(_ context.Context, a domain.Actor, tc string, _ int64) error {
	s.actor, s.teamCode = a, tc
	return s.err
}

func (s *stubMembers) ListMembers(_ context.Context, _ domain.Actor, tc string) ([]domain.TeamMember, error) {
	s.teamCode = tc
	return []domain.TeamMember{{User: domain.User{ID: 2, Name: "Max"}, AssignedTasks: 3, CompletedTasks: 1}}, s.err
}

func (s *stubMembers) PendingRequests(context.Context, domain.Actor, string) ([]domain.User, error) {
	return []domain.User{}, s.err
}

func (s *stubMembers) RejectedMembers(context.Context, domain.Actor, string) ([]domain.User, error) {
	return []domain.User{}, s.err
}

type stubTasks struct {
	err     error
	created service.CreateTaskInput
}

func (s *stubTasks) CreateTask(_ context.Context, _ domain.Actor, in service.CreateTaskInput) (*domain.Task, error) {
	s.created = in
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Task{ID: 7, Title: in.Title, TeamCode: in.TeamCode, TotalSubtasks: 4, CompletedSubtasks: 3}, nil
}

func (s *stubTasks) GetTeamTasks(context.Context, domain.Actor, string, domain.TaskFilter) ([]domain.Task, error) {
	return []domain.Task{}, s.err
}

func (s *stubTasks) GetTask(_ context.Context, _ domain.Actor, id int64) (*domain.Task, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Task{ID: id}, nil
}

func (s *stubTasks) UpdateTask(_ context.Context, _ domain.Actor, id int64, title, _ string) (*domain.Task, error) {
	return &domain.Task{ID: id, Title: title}, s.err
}

func (s *stubTasks) DeleteTask(context.Context, domain.Actor, int64) error { return s.err }

func (s *stubTasks) AvailableSubtasks(context.Context, domain.Actor, string) ([]domain.Subtask, error) {
	return []domain.Subtask{}, s.err
}

func (s *stubTasks) UserSubtasks(context.Context, domain.Actor, int64) ([]domain.Subtask, error) {
	return []domain.Subtask{}, s.err
}

func (s *stubTasks) subtask(id int64) (*domain.Subtask, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Subtask{ID: id, Status: domain.SubtaskTaken, Progress: domain.ProgressInProgress}, nil
}

func (s *stubTasks) TakeSubtask(_ context.Context, _ domain.Actor, id int64) (*domain.Subtask, error) {
	return s.subtask(id)
}

func (s *stubTasks) AssignSubtask(_ context.Context, _ domain.Actor, id, _ int64) (*domain.Subtask, error) {
	return s.subtask(id)
}

func (s *stubTasks) UpdateProgress(_ context.Context, _ domain.Actor, id int64, _ domain.Progress) (*domain.Subtask, error) {
	return s.subtask(id)
}

func (s *stubTasks) UpdateSubtask(_ context.Context, _ domain.Actor, id int64, _ domain.SubtaskEdit) (*domain.Subtask, error) {
	return s.subtask(id)
}

func (s *stubTasks) DeleteSubtask(context.Context, domain.Actor, int64) error { return s.err }

type stubPerformance struct{}

func (stubPerformance) TeamPerformance(context.Context, domain.Actor, string) ([]domain.MemberPerformance, error) {
	return []domain.MemberPerformance{{UserID: 2, Name: "Max", TotalTasks: 4, CompletedTasks: 3, CompletionRate: 75}}, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type testServer struct {
	handler      http.Handler
	registration *stubRegistration
	auth         *stubAuth
	members      *stubMembers
	tasks        *stubTasks
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		registration: &stubRegistration{},
		auth: &stubAuth{tokens: map[string]domain.Actor{
			"leader": leader,
			"member": member,
		}},
		members: &stubMembers{},
		tasks:   &stubTasks{},
	}
	validate := validator.New()
	ts.handler = SetupRouter(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		5*time.Second,
		Handlers{
			Auth:        handler.NewAuthHandler(ts.registration, ts.auth, validate, "test"),
			Team:        handler.NewTeamHandler(ts.members, validate),
			Task:        handler.NewTaskHandler(ts.tasks, validate),
			Performance: handler.NewPerformanceHandler(stubPerformance{}),
			Health:      handler.NewHealthHandler(stubPinger{}),
		},
		ts.auth,
	)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])

	rec = ts.do(t, http.MethodGet, "/api/auth/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Auth API", body["service"])
	assert.Equal(t, float64(2), body["leaderPreRegistrations"])
	assert.Equal(t, float64(1), body["memberPreRegistrations"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	h := handler.NewHealthHandler(stubPinger{err: errors.New("connection refused")})
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/api/health", "", nil)

	rec := ts.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wizdesk_http_requests_total")
}

func TestSendVerification(t *testing.T) {
	valid := map[string]string{"email": "lena@example.com", "name": "Lena", "password": "secret!1", "teamName": "Alpha"}

	t.Run("malformed body", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodPost, "/api/auth/send-verification", "", "{")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid request body", decodeBody(t, rec)["error"])
	})

	t.Run("missing field", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodPost, "/api/auth/send-verification", "", map[string]string{"email": "lena@example.com"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "validation error")
	})

	t.Run("weak password", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registration.err = my_errors.ErrPasswordNoSpecial
		rec := ts.do(t, http.MethodPost, "/api/auth/send-verification", "", valid)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Password must contain at least one special character", decodeBody(t, rec)["error"])
	})

	t.Run("email taken", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registration.err = my_errors.ErrEmailExists
		rec := ts.do(t, http.MethodPost, "/api/auth/send-verification", "", valid)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email already registered", decodeBody(t, rec)["error"])
	})

	t.Run("sent", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodPost, "/api/auth/send-verification", "", valid)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "tok", body["verificationToken"])
		assert.Equal(t, "smtp", body["emailMethod"])
		assert.Equal(t, "Alpha", ts.registration.signup.TeamName)
	})
}

func TestVerifyEmailCode(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"expired", my_errors.ErrVerificationNotFound, http.StatusBadRequest, "Invalid or expired verification code"},
		{"bad format", my_errors.ErrInvalidCodeFormat, http.StatusBadRequest, "Invalid verification code format"},
		{"duplicate email", my_errors.ErrEmailExists, http.StatusBadRequest, "User already exists with this email"},
		{"team codes exhausted", my_errors.ErrTeamCodeExhausted, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.registration.err = tt.err
			rec := ts.do(t, http.MethodPost, "/api/auth/verify-email-code", "", map[string]string{"code": "123456"})
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeBody(t, rec)["error"])
			assert.Equal(t, "123456", ts.registration.verified.Code)
		})
	}

	t.Run("created", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registration.leaderRegs = &service.LeaderRegistered{
			User:      &domain.User{ID: 1, Role: domain.RoleLeader, Status: domain.StatusApproved},
			Team:      &domain.Team{ID: 1, TeamCode: "ABC123", TeamName: "Alpha"},
			EmailSent: true,
		}
		rec := ts.do(t, http.MethodPost, "/api/auth/verify-email-code", "", map[string]string{"code": "123456"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "ABC123", body["teamCode"])
		assert.Equal(t, "Alpha", body["teamName"])
	})
}

func TestVerifyMemberEmail_TokenOrCode(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/verify-member-email", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/verify-member-email", "", map[string]string{"code": "654321"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "654321", ts.registration.verified.Code)
	assert.Equal(t, "Alpha", decodeBody(t, rec)["teamName"])
}

func TestLogin(t *testing.T) {
	creds := map[string]string{"email": "lena@example.com", "password": "secret!1", "teamCode": "ABC123"}

	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"ok", nil, http.StatusOK},
		{"bad credentials", my_errors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"pending", my_errors.ErrMembershipPending, http.StatusForbidden},
		{"rejected", my_errors.ErrMembershipRejected, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.auth.loginErr = tt.err
			rec := ts.do(t, http.MethodPost, "/api/auth/login", "", creds)
			assert.Equal(t, tt.status, rec.Code)
			if tt.err == nil {
				assert.Equal(t, "jwt", decodeBody(t, rec)["token"])
			}
		})
	}
}

func TestCheckMemberStatus(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/api/auth/check-member-status", "", map[string]string{"email": "pia@example.com", "teamCode": "ABC123"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["canLogin"])
	assert.Equal(t, "pending", body["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{
		"/api/tasks/team/ABC123",
		"/api/auth/team/ABC123/all-members",
		"/api/performance/team/ABC123",
	} {
		rec := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec = ts.do(t, http.MethodGet, path, "forged", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestApproveMember_ClaimedLeaderMustMatchToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/approve-member", "leader", map[string]interface{}{"userId": 3, "teamCode": "abc123", "approvedBy": 99})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, ts.members.actor)

	rec = ts.do(t, http.MethodPost, "/api/auth/approve-member", "leader", map[string]interface{}{"userId": 3, "teamCode": "abc123", "approvedBy": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, leader, ts.members.actor)
	assert.Equal(t, "ABC123", ts.members.teamCode)
	body := decodeBody(t, rec)
	assert.Equal(t, "Member approved successfully", body["message"])
	assert.Equal(t, true, body["emailSent"])
}

func TestMemberDecisionErrors(t *testing.T) {
	ts := newTestServer(t)

	ts.members.err = my_errors.ErrMemberNotFound
	rec := ts.do(t, http.MethodPost, "/api/auth/reject-member", "leader", map[string]interface{}{"userId": 3, "teamCode": "ABC123"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found or already processed", decodeBody(t, rec)["error"])

	rec = ts.do(t, http.MethodPost, "/api/auth/approve-rejected-member", "leader", map[string]interface{}{"userId": 3, "teamCode": "ABC123"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Rejected member not found or already processed", decodeBody(t, rec)["error"])

	ts.members.err = my_errors.ErrForbidden
	rec = ts.do(t, http.MethodPost, "/api/auth/approve-member", "member", map[string]interface{}{"userId": 3, "teamCode": "ABC123"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, member, ts.members.actor)
}

func TestRemoveMember(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"removed", nil, http.StatusOK, ""},
		{"self", my_errors.ErrCannotDeleteSelf, http.StatusBadRequest, "Cannot delete yourself"},
		{"not leader", my_errors.ErrForbidden, http.StatusForbidden, "Only team leader can delete members"},
		{"unknown member", my_errors.ErrMemberNotFound, http.StatusNotFound, "Member not found in your team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.members.err = tt.err
			rec := ts.do(t, http.MethodDelete, "/api/auth/team/abc123/member/2", "leader", nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "ABC123", ts.members.teamCode)
			if tt.message != "" {
				assert.Equal(t, tt.message, decodeBody(t, rec)["error"])
			}
		})
	}

	t.Run("leader id in body must match", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodDelete, "/api/auth/team/ABC123/member/2", "leader", map[string]int{"leaderId": 5})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("bad member id", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.do(t, http.MethodDelete, "/api/auth/team/ABC123/member/abc", "leader", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAllMembers(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/api/auth/team/ABC123/all-members", "member", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var members []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
	require.Len(t, members, 1)
	assert.Equal(t, float64(3), members[0]["assigned_tasks"])
	assert.Equal(t, "Max", members[0]["name"])
}

func TestCreateTask(t *testing.T) {
	ts := newTestServer(t)
	body := map[string]interface{}{
		"title":          "Launch",
		"teamCode":       "abc123",
		"assignSpecific": true,
		"subtasks": []map[string]interface{}{
			{"title": "Design", "assigned_to": 2},
			{"title": "Build"},
		},
	}

	rec := ts.do(t, http.MethodPost, "/api/tasks/create", "leader", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "ABC123", ts.tasks.created.TeamCode)
	assert.True(t, ts.tasks.created.AssignSpecific)
	require.Len(t, ts.tasks.created.Subtasks, 2)
	assert.Equal(t, int64(2), *ts.tasks.created.Subtasks[0].AssignedTo)

	task := decodeBody(t, rec)["task"].(map[string]interface{})
	assert.Equal(t, float64(75), task["progress_percent"])

	rec = ts.do(t, http.MethodPost, "/api/tasks/create", "leader", map[string]interface{}{"title": "Empty", "teamCode": "ABC123", "subtasks": []interface{}{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTakeSubtask(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/tasks/subtask/11/take", "member", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sub := decodeBody(t, rec)["subtask"].(map[string]interface{})
	assert.Equal(t, "taken", sub["status"])

	ts.tasks.err = my_errors.ErrSubtaskUnavailable
	rec = ts.do(t, http.MethodPut, "/api/tasks/subtask/11/take", "member", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "This subtask is no longer available", decodeBody(t, rec)["error"])

	rec = ts.do(t, http.MethodPut, "/api/tasks/subtask/11/take", "member", map[string]int{"userId": 3})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateProgress_Validation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPut, "/api/tasks/subtask/11/progress", "member", map[string]string{"progress": "halfway"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/tasks/subtask/11/progress", "member", map[string]string{"progress": "testing"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestTaskNotFoundAndDelete(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodDelete, "/api/tasks/7", "leader", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Task deleted successfully", decodeBody(t, rec)["message"])

	ts.tasks.err = my_errors.ErrTaskNotFound
	rec = ts.do(t, http.MethodGet, "/api/tasks/7", "leader", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Task not found", decodeBody(t, rec)["error"])
}

func TestPerformance(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/performance/team/ABC123", "member", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var perf []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &perf))
	require.Len(t, perf, 1)
	assert.Equal(t, float64(75), perf[0]["completion_rate"])
}

func TestErrorDetailsOnlyWhenEnabled(t *testing.T) {
	ts := newTestServer(t)
	ts.tasks.err = fmt.Errorf("failed to load task: %w", errors.New("connection reset"))

	rec := ts.do(t, http.MethodGet, "/api/tasks/7", "leader", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, decodeBody(t, rec), "details")

	handler.ExposeErrorDetails(true)
	t.Cleanup(func() { handler.ExposeErrorDetails(false) })

	rec = ts.do(t, http.MethodGet, "/api/tasks/7", "leader", nil)
	assert.Equal(t, "failed to load task: connection reset", decodeBody(t, rec)["details"])
}
