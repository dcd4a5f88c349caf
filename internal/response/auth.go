package response

import "github.com/wizdeskofficial/wizdeskofficial/internal/dto"

type VerificationSentResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	VerificationToken string `json:"verificationToken"`
	TeamName          string `json:"teamName,omitempty"`
	EmailSent         bool   `json:"emailSent"`
	EmailMethod       string `json:"emailMethod"`
}

type LeaderRegisteredResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	User        dto.UserDTO `json:"user"`
	Team        dto.TeamDTO `json:"team"`
	TeamCode    string      `json:"teamCode"`
	TeamName    string      `json:"teamName"`
	EmailSent   bool        `json:"emailSent"`
	EmailMethod string      `json:"emailMethod"`
}

type MemberRegisteredResponse struct {
	Success  bool        `json:"success"`
	Message  string      `json:"message"`
	User     dto.UserDTO `json:"user"`
	TeamName string      `json:"teamName"`
}

type LoginResponse struct {
	Message string      `json:"message"`
	User    dto.UserDTO `json:"user"`
	Token   string      `json:"token"`
}

type MemberStatusResponse struct {
	CanLogin      bool   `json:"canLogin"`
	Status        string `json:"status,omitempty"`
	Role          string `json:"role,omitempty"`
	Name          string `json:"name,omitempty"`
	Message       string `json:"message,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
}

type AuthHealthResponse struct {
	Status                 string `json:"status"`
	Service                string `json:"service"`
	Timestamp              string `json:"timestamp"`
	Environment            string `json:"environment"`
	LeaderPreRegistrations int    `json:"leaderPreRegistrations"`
	MemberPreRegistrations int    `json:"memberPreRegistrations"`
}
