package notify

import (
	"bytes"
	"fmt"
	"html/template"
)

const layout = `{{define "layout"}}<!DOCTYPE html>
<html>
<head><meta charset="UTF-8" /></head>
<body style="font-family: Arial, sans-serif; background: #f6f7fb; color: #1f2937;">
  <div style="max-width: 600px; margin: 24px auto; background: #ffffff; border-radius: 12px; border: 1px solid #e5e7eb; overflow: hidden;">
    <div style="background: #4f46e5; color: #ffffff; padding: 20px; text-align: center;">
      <h1 style="margin: 0;">{{template "title" .}}</h1>
    </div>
    <div style="padding: 24px;">
      {{template "content" .}}
    </div>
    <div style="padding: 16px; font-size: 12px; color: #6b7280; text-align: center;">
      This is an automated message from WizDesk. Please do not reply to this email.
    </div>
  </div>
</body>
</html>{{end}}`

const verificationTmpl = `{{define "title"}}Verify Your Email{{end}}
{{define "content"}}
<p>Hello {{.Name}},</p>
<p>Thank you for starting your registration with WizDesk! To complete your team leader registration, please verify your email address.</p>
<p style="text-align: center;"><a href="{{.Link}}" style="display: inline-block; padding: 12px 24px; background: #4f46e5; color: #fff; text-decoration: none; border-radius: 8px;">Verify Email Address</a></p>
<p>Or enter this verification code:</p>
<div style="font-size: 28px; font-weight: bold; letter-spacing: 4px; text-align: center;">{{.Code}}</div>
<p>This verification link will expire in 1 hour.</p>
<p>If you didn't request this registration, please ignore this email.</p>
{{end}}`

const memberVerificationTmpl = `{{define "title"}}Join Your Team{{end}}
{{define "content"}}
<p>Hello {{.Name}},</p>
<p>Thank you for joining <strong>{{.TeamName}}</strong> on WizDesk! To complete your registration, please verify your email address.</p>
<p style="text-align: center;"><a href="{{.Link}}" style="display: inline-block; padding: 12px 24px; background: #4f46e5; color: #fff; text-decoration: none; border-radius: 8px;">Verify Email Address</a></p>
<p>Or enter this verification code:</p>
<div style="font-size: 28px; font-weight: bold; letter-spacing: 4px; text-align: center;">{{.Code}}</div>
<p>After verification, your team leader will need to approve your membership before you can access the team dashboard.</p>
{{end}}`

const teamCodeTmpl = `{{define "title"}}Welcome to WizDesk!{{end}}
{{define "content"}}
<p>Hello {{.Name}},</p>
<p>Your team <strong>"{{.TeamName}}"</strong> has been created successfully.</p>
<p>Your team code:</p>
<div style="font-size: 32px; font-weight: bold; letter-spacing: 6px; text-align: center;">{{.TeamCode}}</div>
<p>Share this code with your team members. They register at <a href="{{.Link}}">{{.Link}}</a> and appear in your pending requests once their email is verified.</p>
{{end}}`

const memberApprovedTmpl = `{{define "title"}}Membership Approved!{{end}}
{{define "content"}}
<p>Hello {{.Name}},</p>
<p>Your membership request for team <strong>"{{.TeamName}}"</strong> has been approved by <strong>{{.LeaderName}}</strong>.</p>
<p>You can now log in and start working on tasks: <a href="{{.Link}}">{{.Link}}</a></p>
{{end}}`

const newMemberRequestTmpl = `{{define "title"}}New Member Request{{end}}
{{define "content"}}
<p>Hello {{.LeaderName}},</p>
<p><strong>{{.MemberName}}</strong> ({{.MemberEmail}}) has verified their email and asked to join <strong>{{.TeamName}}</strong>.</p>
<p>Review the request on your dashboard: <a href="{{.Link}}">{{.Link}}</a></p>
{{end}}`

// template names, also used as metric labels
const (
	tmplVerification       = "verification"
	tmplMemberVerification = "member_verification"
	tmplTeamCode           = "team_code"
	tmplMemberApproved     = "member_approved"
	tmplNewMemberRequest   = "new_member_request"
)

var templates = map[string]*template.Template{
	tmplVerification:       mustParse(tmplVerification, verificationTmpl),
	tmplMemberVerification: mustParse(tmplMemberVerification, memberVerificationTmpl),
	tmplTeamCode:           mustParse(tmplTeamCode, teamCodeTmpl),
	tmplMemberApproved:     mustParse(tmplMemberApproved, memberApprovedTmpl),
	tmplNewMemberRequest:   mustParse(tmplNewMemberRequest, newMemberRequestTmpl),
}

func mustParse(name, body string) *template.Template {
	return template.Must(template.Must(template.New(name).Parse(layout)).Parse(body))
}

func render(name string, data any) (string, error) {
	t, ok := templates[name]
	if !ok {
		return "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
