package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"

	"github.com/wizdeskofficial/wizdeskofficial/internal/metrics"
	"github.com/wizdeskofficial/wizdeskofficial/internal/retry"
)

type Config struct {
	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPass      string
	From          string
	AppURL        string
	RetryAttempts int
	RetryDelay    time.Duration
}

func (c Config) configured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

// Sender is satisfied by *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier sends templated HTML mail. Delivery is retried per the
// configured policy behind a circuit breaker shared by all templates.
type EmailNotifier struct {
	cfg     Config
	sender  Sender
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewEmailNotifier(cfg Config, logger *slog.Logger) *EmailNotifier {
	var sender Sender
	if cfg.configured() {
		sender = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	}
	return NewEmailNotifierWithSender(cfg, sender, logger)
}

// NewEmailNotifierWithSender uses the given sender; a nil sender means email
// is not configured and every message goes to the log.
func NewEmailNotifierWithSender(cfg Config, sender Sender, logger *slog.Logger) *EmailNotifier {
	if cfg.From == "" {
		cfg.From = cfg.SMTPUser
	}
	if cfg.AppURL == "" {
		cfg.AppURL = "http://localhost:3000"
	}
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &EmailNotifier{
		cfg:     cfg,
		sender:  sender,
		breaker: breaker,
		logger:  logger,
	}
}

func (n *EmailNotifier) SendVerification(ctx context.Context, to string, data VerificationData) (Result, error) {
	link := n.cfg.AppURL + "/verify-email.html?token=" + data.Token
	return n.send(ctx, message{
		to:       to,
		subject:  "Verify Your Email - WizDesk Registration",
		template: tmplVerification,
		data: struct {
			VerificationData
			Link string
		}{data, link},
		secrets: []any{"name", data.Name, "verification_code", data.Code, "verification_token", data.Token, "link", link},
	})
}

func (n *EmailNotifier) SendMemberVerification(ctx context.Context, to string, data MemberVerificationData) (Result, error) {
	link := n.cfg.AppURL + "/verify-member-email.html?token=" + data.Token
	return n.send(ctx, message{
		to:       to,
		subject:  fmt.Sprintf("Verify Your Email - Join %s on WizDesk", data.TeamName),
		template: tmplMemberVerification,
		data: struct {
			MemberVerificationData
			Link string
		}{data, link},
		secrets: []any{"name", data.Name, "team_name", data.TeamName, "verification_code", data.Code, "verification_token", data.Token, "link", link},
	})
}

func (n *EmailNotifier) SendTeamCode(ctx context.Context, to string, data TeamCodeData) (Result, error) {
	link := n.cfg.AppURL + "/member-register.html"
	return n.send(ctx, message{
		to:       to,
		subject:  fmt.Sprintf("Welcome to WizDesk - Your Team Code for %s", data.TeamName),
		template: tmplTeamCode,
		data: struct {
			TeamCodeData
			Link string
		}{data, link},
		secrets: []any{"name", data.Name, "team_name", data.TeamName, "team_code", data.TeamCode},
	})
}

func (n *EmailNotifier) SendMemberApproved(ctx context.Context, to string, data MemberApprovedData) (Result, error) {
	return n.send(ctx, message{
		to:       to,
		subject:  fmt.Sprintf("Membership Approved - Welcome to %s", data.TeamName),
		template: tmplMemberApproved,
		data: struct {
			MemberApprovedData
			Link string
		}{data, n.cfg.AppURL},
		secrets: []any{"name", data.Name, "team_name", data.TeamName},
	})
}

func (n *EmailNotifier) SendNewMemberRequest(ctx context.Context, to string, data NewMemberRequestData) (Result, error) {
	return n.send(ctx, message{
		to:       to,
		subject:  fmt.Sprintf("New Member Request for %s", data.TeamName),
		template: tmplNewMemberRequest,
		data: struct {
			NewMemberRequestData
			Link string
		}{data, n.cfg.AppURL + "/leader-dashboard.html"},
		secrets: []any{"leader", data.LeaderName, "member", data.MemberName, "member_email", data.MemberEmail},
	})
}

type message struct {
	to       string
	subject  string
	template string
	data     any
	// secrets are logged when the message cannot be delivered so an
	// operator can hand the code over manually.
	secrets []any
}

func (n *EmailNotifier) send(ctx context.Context, msg message) (Result, error) {
	if n.sender == nil {
		n.logger.Info("email service not configured, logging message instead",
			append([]any{"to", msg.to, "template", msg.template}, msg.secrets...)...)
		metrics.EmailsSent.WithLabelValues(msg.template, MethodConsole).Inc()
		return Result{Success: true, Method: MethodConsole}, nil
	}

	body, err := render(msg.template, msg.data)
	if err != nil {
		return n.fallback(msg, err)
	}

	messageID := fmt.Sprintf("<%s@wizdesk>", uuid.NewString())
	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.cfg.From, "WizDesk Team")
	m.SetHeader("To", msg.to)
	m.SetHeader("Subject", msg.subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", body)

	err = retry.Do(ctx, retry.Policy{
		Attempts: n.cfg.RetryAttempts,
		Delay:    n.cfg.RetryDelay,
		RetryIf: func(err error) bool {
			return !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests)
		},
		OnRetry: func(attempt int, err error) {
			n.logger.Warn("email attempt failed, retrying",
				"to", msg.to, "template", msg.template, "attempt", attempt, "error", err)
		},
	}, func(ctx context.Context, _ int) error {
		_, err := n.breaker.Execute(func() (interface{}, error) {
			return nil, n.sender.DialAndSend(m)
		})
		return err
	})
	if err != nil {
		return n.fallback(msg, err)
	}

	n.logger.Info("email sent", "to", msg.to, "template", msg.template, "message_id", messageID)
	metrics.EmailsSent.WithLabelValues(msg.template, MethodSMTP).Inc()
	return Result{Success: true, Method: MethodSMTP, MessageID: messageID}, nil
}

func (n *EmailNotifier) fallback(msg message, cause error) (Result, error) {
	n.logger.Warn("email delivery failed, falling back to console",
		append([]any{"to", msg.to, "template", msg.template, "error", cause}, msg.secrets...)...)
	metrics.EmailsSent.WithLabelValues(msg.template, MethodConsoleFallback).Inc()
	return Result{Success: false, Method: MethodConsoleFallback}, fmt.Errorf("send %s email: %w", msg.template, cause)
}
