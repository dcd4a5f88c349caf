// Package notify delivers WizDesk emails over SMTP and degrades to log
// output when delivery is impossible.
package notify

import (
	"context"
)

// Delivery methods reported in Result.Method.
const (
	MethodSMTP            = "smtp"
	MethodConsole         = "console"
	MethodConsoleFallback = "console_fallback"
)

type Result struct {
	Success   bool   `json:"success"`
	Method    string `json:"method"`
	MessageID string `json:"messageId,omitempty"`
}

type VerificationData struct {
	Name  string
	Token string
	Code  string
}

type MemberVerificationData struct {
	Name     string
	TeamName string
	Token    string
	Code     string
}

type TeamCodeData struct {
	Name     string
	TeamName string
	TeamCode string
}

type MemberApprovedData struct {
	Name       string
	LeaderName string
	TeamName   string
}

type NewMemberRequestData struct {
	LeaderName  string
	MemberName  string
	MemberEmail string
	TeamName    string
}

// Notifier never fails a caller's business operation: a non-nil error comes
// with a console_fallback Result and is meant to be logged, not returned.
type Notifier interface {
	SendVerification(ctx context.Context, to string, data VerificationData) (Result, error)
	SendMemberVerification(ctx context.Context, to string, data MemberVerificationData) (Result, error)
	SendTeamCode(ctx context.Context, to string, data TeamCodeData) (Result, error)
	SendMemberApproved(ctx context.Context, to string, data MemberApprovedData) (Result, error)
	SendNewMemberRequest(ctx context.Context, to string, data NewMemberRequestData) (Result, error)
}
